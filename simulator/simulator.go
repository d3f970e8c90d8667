package simulator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"boom-blog/internal/utils"

	"github.com/google/uuid"
)

type SimConfig struct {
	NumUsers        int
	NumPosts        int // seeded before activity starts
	SimulationTime  time.Duration // activity phase only, after users and posts exist
	Workers         int
	RequestInterval time.Duration // shared rate limit across workers
	ViewWeight      float64
	LikeWeight      float64
	CommentWeight   float64
	PostWeight      float64
	DisconnectRate  float64
	ReconnectRate   float64
	ZipfS           float64
	EngineURL       string
	Password        string
}

// DefaultSimConfig drives a small local server.
func DefaultSimConfig() SimConfig {
	return SimConfig{
		NumUsers:        20,
		NumPosts:        10,
		SimulationTime:  2 * time.Minute,
		Workers:         5,
		RequestInterval: 50 * time.Millisecond,
		ViewWeight:      0.7,
		LikeWeight:      0.2,
		CommentWeight:   0.07,
		PostWeight:      0.03,
		DisconnectRate:  0.01,
		ReconnectRate:   0.05,
		ZipfS:           1.07,
		EngineURL:       "http://localhost:8080",
		Password:        "testpass123",
	}
}

type SimulationStats struct {
	mu              sync.RWMutex
	StartTime       time.Time
	TotalRequests   int64
	SuccessRequests int64
	FailedRequests  int64
	AverageLatency  time.Duration
	ActiveUsers     int
	TotalPosts      int
	TotalComments   int
	TotalViews      int
	TotalLikes      int
	TotalUnlikes    int
	Relogins        int
}

// SimulatedUser is one account driven by the simulator. Disconnected users browse anonymously.
type SimulatedUser struct {
	mu          sync.Mutex
	ID          uuid.UUID
	Email       string
	Username    string
	AccessToken string
	IsConnected bool
	Posts       []uuid.UUID
}

func (u *SimulatedUser) token() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	if !u.IsConnected {
		return ""
	}
	return u.AccessToken
}

// statusError carries the HTTP status of a failed call so callers can react to 401s.
type statusError struct {
	Status int
	Detail string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("request failed with status %d: %s", e.Status, e.Detail)
}

type Simulator struct {
	config SimConfig
	stats  *SimulationStats
	users  []*SimulatedUser
	posts  []uuid.UUID // in creation order; low indexes are the most popular
	client *http.Client
	log    *slog.Logger
	mu     sync.RWMutex
}

func NewSimulator(config SimConfig, logger *slog.Logger) *Simulator {
	if config.Workers <= 0 {
		config.Workers = 1
	}
	if config.RequestInterval <= 0 {
		config.RequestInterval = 10 * time.Millisecond
	}
	if config.ZipfS <= 1 {
		config.ZipfS = 1.07
	}
	if logger == nil {
		logger = utils.DiscardLogger()
	}
	return &Simulator{
		config: config,
		stats:  &SimulationStats{StartTime: time.Now()},
		client: &http.Client{Timeout: 10 * time.Second},
		log:    logger.With("component", "simulator"),
	}
}

func (s *Simulator) Run(ctx context.Context) error {
	s.log.Info("Starting simulation")

	if err := s.initialize(ctx); err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	// Setup is not part of the measured run.
	if s.config.SimulationTime > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.SimulationTime)
		defer cancel()
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		s.SimulateActivities(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		s.simulateConnectivity(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		s.collectMetrics(ctx)
	}()

	wg.Wait()
	return nil
}

func (s *Simulator) initialize(ctx context.Context) error {
	s.log.Info("Phase 1: creating users", "count", s.config.NumUsers)
	if err := s.createInitialUsers(ctx); err != nil {
		return fmt.Errorf("failed to create initial users: %w", err)
	}
	if len(s.users) == 0 {
		return errors.New("no users could sign in")
	}

	s.log.Info("Phase 2: seeding posts", "count", s.config.NumPosts)
	s.seedPosts(ctx)
	if len(s.posts) == 0 {
		return errors.New("no posts could be created")
	}

	s.log.Info("Initialization completed", "users", len(s.users), "posts", len(s.posts))
	return nil
}

func (s *Simulator) createInitialUsers(ctx context.Context) error {
	numWorkers := s.config.Workers
	userJobs := make(chan int, numWorkers)
	results := make(chan *SimulatedUser, numWorkers)

	rateLimiter := time.NewTicker(s.config.RequestInterval)
	defer rateLimiter.Stop()

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for userNum := range userJobs {
				user := &SimulatedUser{
					Email:       fmt.Sprintf("sim_user_%d@example.com", userNum),
					IsConnected: true,
				}

				var err error
				for retries := 0; retries < 3; retries++ {
					select {
					case <-ctx.Done():
						return
					case <-rateLimiter.C:
					}
					if err = s.login(ctx, user); err == nil {
						results <- user
						break
					}
					backoff := time.Duration(math.Pow(2, float64(retries))) * 100 * time.Millisecond
					s.log.Debug("Retrying sign in", "worker", workerID, "email", user.Email, "attempt", retries+1, "backoff", backoff)
					time.Sleep(backoff)
				}
				if err != nil {
					s.log.Warn("Failed to sign in user", "worker", workerID, "email", user.Email, "error", err)
				}
			}
		}(i)
	}

	go func() {
		defer close(userJobs)
		for i := 0; i < s.config.NumUsers; i++ {
			select {
			case <-ctx.Done():
				return
			case userJobs <- i:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	users := make([]*SimulatedUser, 0, s.config.NumUsers)
	for user := range results {
		users = append(users, user)
	}

	s.mu.Lock()
	s.users = users
	s.mu.Unlock()

	s.stats.mu.Lock()
	s.stats.ActiveUsers = len(users)
	s.stats.mu.Unlock()

	return ctx.Err()
}

// seedPosts lets the first tenth of the users author the starting posts.
func (s *Simulator) seedPosts(ctx context.Context) {
	numAuthors := len(s.users) / 10
	if numAuthors == 0 {
		numAuthors = 1
	}
	for i := 0; i < s.config.NumPosts; i++ {
		if ctx.Err() != nil {
			return
		}
		author := s.users[i%numAuthors]
		if _, err := s.createPost(ctx, author); err != nil {
			s.log.Warn("Failed to seed post", "author", author.Username, "error", err)
		}
	}
}

func getRandomTopic() string {
	topics := []string{
		"gaming", "tech", "science", "music", "movies",
		"books", "sports", "food", "travel", "art",
		"photography", "fitness", "programming", "news", "history",
	}
	return topics[rand.Intn(len(topics))]
}

// login signs the user in, registering on first use, and stores the access token.
func (s *Simulator) login(ctx context.Context, user *SimulatedUser) error {
	data := map[string]string{"email": user.Email, "password": s.config.Password}
	var result struct {
		User struct {
			ID       uuid.UUID `json:"id"`
			Username string    `json:"username"`
		} `json:"user"`
		AccessToken string `json:"access_token"`
	}
	if err := s.makeRequest(ctx, http.MethodPost, "/auth/login_or_register", "", data, &result); err != nil {
		return err
	}

	user.mu.Lock()
	user.ID = result.User.ID
	user.Username = result.User.Username
	user.AccessToken = result.AccessToken
	user.mu.Unlock()
	return nil
}

// authed runs call with the user's token and signs in again once if the token was rejected.
func (s *Simulator) authed(ctx context.Context, user *SimulatedUser, call func(token string) error) error {
	err := call(user.token())
	var statusErr *statusError
	if !errors.As(err, &statusErr) || statusErr.Status != http.StatusUnauthorized || user.token() == "" {
		return err
	}
	if err := s.login(ctx, user); err != nil {
		return err
	}
	s.stats.mu.Lock()
	s.stats.Relogins++
	s.stats.mu.Unlock()
	return call(user.token())
}

// pickPost returns a post with Zipf popularity: early posts are requested far more often.
func (s *Simulator) pickPost(rng *rand.Rand) (uuid.UUID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch len(s.posts) {
	case 0:
		return uuid.Nil, false
	case 1:
		return s.posts[0], true
	}
	zipf := rand.NewZipf(rng, s.config.ZipfS, 1, uint64(len(s.posts)-1))
	return s.posts[zipf.Uint64()], true
}

func (s *Simulator) makeRequest(ctx context.Context, method, endpoint, token string, data, out interface{}) error {
	var body io.Reader
	if data != nil {
		payload, err := json.Marshal(data)
		if err != nil {
			return err
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.config.EngineURL+endpoint, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		s.recordRequestMetrics(start, err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var failure struct {
			Detail string `json:"detail"`
		}
		json.NewDecoder(resp.Body).Decode(&failure)
		err = &statusError{Status: resp.StatusCode, Detail: failure.Detail}
		s.recordRequestMetrics(start, err)
		return err
	}
	s.recordRequestMetrics(start, nil)

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (s *Simulator) recordRequestMetrics(start time.Time, err error) {
	s.stats.mu.Lock()
	defer s.stats.mu.Unlock()

	latency := time.Since(start)
	s.stats.TotalRequests++
	if err != nil {
		s.stats.FailedRequests++
	} else {
		s.stats.SuccessRequests++
	}

	totalLatency := s.stats.AverageLatency * time.Duration(s.stats.TotalRequests-1)
	s.stats.AverageLatency = (totalLatency + latency) / time.Duration(s.stats.TotalRequests)
}

// simulateConnectivity flips users between signed-in and anonymous browsing.
func (s *Simulator) simulateConnectivity(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			active := 0
			s.mu.RLock()
			for _, user := range s.users {
				user.mu.Lock()
				if user.IsConnected && rand.Float64() < s.config.DisconnectRate {
					user.IsConnected = false
				} else if !user.IsConnected && rand.Float64() < s.config.ReconnectRate {
					user.IsConnected = true
				}
				if user.IsConnected {
					active++
				}
				user.mu.Unlock()
			}
			s.mu.RUnlock()

			s.stats.mu.Lock()
			s.stats.ActiveUsers = active
			s.stats.mu.Unlock()
		}
	}
}

func (s *Simulator) collectMetrics(ctx context.Context) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m := s.GetMetrics()
			s.log.Info("Simulation metrics",
				"elapsed", time.Since(s.stats.StartTime).Round(time.Second),
				"req_per_sec", fmt.Sprintf("%.2f", m.RequestsPerSecond),
				"avg_latency", m.AverageLatency,
				"active_users", m.ActiveUsers,
				"posts", m.TotalPosts,
				"comments", m.TotalComments,
				"views", m.TotalViews,
				"likes", m.TotalLikes,
				"errors", m.ErrorCount,
			)
		}
	}
}

// SimulationMetrics holds the metrics of the simulation
type SimulationMetrics struct {
	TotalUsers        int
	ActiveUsers       int
	TotalPosts        int
	TotalComments     int
	TotalViews        int
	TotalLikes        int
	TotalUnlikes      int
	Relogins          int
	AverageLatency    time.Duration
	ErrorCount        int
	RequestsPerSecond float64
}

// GetMetrics returns the current simulation metrics
func (s *Simulator) GetMetrics() SimulationMetrics {
	s.mu.RLock()
	totalUsers := len(s.users)
	s.mu.RUnlock()

	s.stats.mu.RLock()
	defer s.stats.mu.RUnlock()

	elapsed := time.Since(s.stats.StartTime)
	return SimulationMetrics{
		TotalUsers:        totalUsers,
		ActiveUsers:       s.stats.ActiveUsers,
		TotalPosts:        s.stats.TotalPosts,
		TotalComments:     s.stats.TotalComments,
		TotalViews:        s.stats.TotalViews,
		TotalLikes:        s.stats.TotalLikes,
		TotalUnlikes:      s.stats.TotalUnlikes,
		Relogins:          s.stats.Relogins,
		AverageLatency:    s.stats.AverageLatency,
		ErrorCount:        int(s.stats.FailedRequests),
		RequestsPerSecond: float64(s.stats.TotalRequests) / elapsed.Seconds(),
	}
}
