package simulator

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

type activity int

const (
	activityView activity = iota
	activityLike
	activityComment
	activityPost
)

func (a activity) String() string {
	switch a {
	case activityLike:
		return "like"
	case activityComment:
		return "comment"
	case activityPost:
		return "post"
	default:
		return "view"
	}
}

// SimulateActivities runs the worker pool until ctx is done.
func (s *Simulator) SimulateActivities(ctx context.Context) {
	s.log.Info("Starting activities", "workers", s.config.Workers)

	rateLimiter := time.NewTicker(s.config.RequestInterval)
	defer rateLimiter.Stop()

	var wg sync.WaitGroup
	for i := 0; i < s.config.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(workerID)))
			for {
				select {
				case <-ctx.Done():
					return
				case <-rateLimiter.C:
				}

				user := s.randomUser(rng)
				if user == nil {
					continue
				}
				action := s.pickActivity(rng)
				if err := s.perform(ctx, rng, user, action); err != nil && ctx.Err() == nil {
					s.log.Debug("Activity failed", "worker", workerID, "activity", action, "user", user.Username, "error", err)
				}
			}
		}(i)
	}
	wg.Wait()
}

func (s *Simulator) randomUser(rng *rand.Rand) *SimulatedUser {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.users) == 0 {
		return nil
	}
	return s.users[rng.Intn(len(s.users))]
}

func (s *Simulator) pickActivity(rng *rand.Rand) activity {
	weights := []float64{s.config.ViewWeight, s.config.LikeWeight, s.config.CommentWeight, s.config.PostWeight}
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return activityView
	}
	roll := rng.Float64() * total
	for i, w := range weights {
		if roll < w {
			return activity(i)
		}
		roll -= w
	}
	return activityView
}

func (s *Simulator) perform(ctx context.Context, rng *rand.Rand, user *SimulatedUser, action activity) error {
	// Anonymous users can only read.
	if user.token() == "" {
		action = activityView
	}
	if action == activityPost {
		_, err := s.createPost(ctx, user)
		return err
	}

	postID, ok := s.pickPost(rng)
	if !ok {
		return nil
	}
	switch action {
	case activityLike:
		return s.toggleLike(ctx, user, postID)
	case activityComment:
		return s.createComment(ctx, user, postID)
	default:
		return s.viewPost(ctx, user, postID)
	}
}

func (s *Simulator) createPost(ctx context.Context, user *SimulatedUser) (uuid.UUID, error) {
	topic := getRandomTopic()
	data := map[string]string{
		"title":   fmt.Sprintf("Thoughts on %s #%d", topic, rand.Intn(10000)),
		"content": fmt.Sprintf("%s wrote about %s at %s.", user.Username, topic, time.Now().Format(time.Kitchen)),
	}
	var post struct {
		ID uuid.UUID `json:"id"`
	}
	err := s.authed(ctx, user, func(token string) error {
		return s.makeRequest(ctx, http.MethodPost, "/posts", token, data, &post)
	})
	if err != nil {
		return uuid.Nil, err
	}

	s.mu.Lock()
	s.posts = append(s.posts, post.ID)
	s.mu.Unlock()
	user.mu.Lock()
	user.Posts = append(user.Posts, post.ID)
	user.mu.Unlock()

	s.stats.mu.Lock()
	s.stats.TotalPosts++
	s.stats.mu.Unlock()
	return post.ID, nil
}

func (s *Simulator) viewPost(ctx context.Context, user *SimulatedUser, postID uuid.UUID) error {
	var detail struct {
		IsViewed bool `json:"is_viewed"`
	}
	err := s.authed(ctx, user, func(token string) error {
		return s.makeRequest(ctx, http.MethodGet, "/posts/"+postID.String(), token, nil, &detail)
	})
	if err != nil {
		return err
	}
	s.stats.mu.Lock()
	s.stats.TotalViews++
	s.stats.mu.Unlock()
	return nil
}

func (s *Simulator) toggleLike(ctx context.Context, user *SimulatedUser, postID uuid.UUID) error {
	var result struct {
		LikeCount int  `json:"like_count"`
		IsLiked   bool `json:"is_liked"`
	}
	err := s.authed(ctx, user, func(token string) error {
		return s.makeRequest(ctx, http.MethodPost, "/posts/"+postID.String()+"/like", token, nil, &result)
	})
	if err != nil {
		return err
	}
	s.stats.mu.Lock()
	if result.IsLiked {
		s.stats.TotalLikes++
	} else {
		s.stats.TotalUnlikes++
	}
	s.stats.mu.Unlock()
	return nil
}

func (s *Simulator) createComment(ctx context.Context, user *SimulatedUser, postID uuid.UUID) error {
	data := map[string]string{"content": fmt.Sprintf("Nice post! (%s)", user.Username)}
	err := s.authed(ctx, user, func(token string) error {
		return s.makeRequest(ctx, http.MethodPost, "/comments/"+postID.String(), token, data, nil)
	})
	if err != nil {
		return err
	}
	s.stats.mu.Lock()
	s.stats.TotalComments++
	s.stats.mu.Unlock()
	return nil
}
