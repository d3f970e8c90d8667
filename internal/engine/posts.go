package engine

import (
	"context"

	"boom-blog/internal/auth"
	"boom-blog/internal/models"
	"boom-blog/internal/policy"
	"boom-blog/internal/utils"

	"github.com/google/uuid"
)

// PostInput is the body of a post create or edit. Nil fields are left unchanged on edit.
type PostInput struct {
	Title    *string
	Content  *string
	ImageURL *string
}

func (e *Engine) CreatePost(ctx context.Context, actor auth.Identity, input PostInput) (*models.Post, error) {
	if err := policy.CreatePost(actor); err != nil {
		return nil, err
	}
	if input.Title == nil || input.Content == nil {
		return nil, utils.NewInvalidInputError("title and content are required")
	}
	title, err := validateTitle(*input.Title)
	if err != nil {
		return nil, err
	}
	content, err := validateBody(*input.Content, "content", maxContentLength)
	if err != nil {
		return nil, err
	}

	author, _ := actor.User()
	post := &models.Post{
		Title:          title,
		Content:        content,
		AuthorID:       author.ID,
		AuthorUsername: author.Username,
		IsActive:       true,
	}
	if input.ImageURL != nil && *input.ImageURL != "" {
		post.ImageURL = input.ImageURL
	}
	if err := e.store.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	e.log.Info("Post created", "post_id", post.ID, "author_id", author.ID)
	return post, nil
}

// ListPosts pages through posts. Only admins see deactivated posts.
func (e *Engine) ListPosts(ctx context.Context, actor auth.Identity, page models.Pagination) (*models.Page[*models.Post], error) {
	return e.store.ListPosts(ctx, policy.SeesInactivePosts(actor), page)
}

// GetPost returns a single active post. An authenticated active caller also records a view
// and gets their like/view state back.
func (e *Engine) GetPost(ctx context.Context, actor auth.Identity, id uuid.UUID) (*models.PostDetail, error) {
	post, err := e.activePost(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &models.PostDetail{Post: *post}
	if policy.Engage(actor) != nil {
		return detail, nil
	}

	count, err := e.recordView(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	detail.ViewCount = count

	liked, viewed, err := e.store.GetEngagement(ctx, id, actor.UserID())
	if err != nil {
		return nil, err
	}
	detail.IsLiked = liked
	detail.IsViewed = viewed
	return detail, nil
}

// UpdatePost edits title, content or image. It never changes is_active.
func (e *Engine) UpdatePost(ctx context.Context, actor auth.Identity, id uuid.UUID, input PostInput) (*models.Post, error) {
	post, err := e.store.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.ModifyPost(actor, post); err != nil {
		return nil, err
	}

	var update models.PostUpdate
	if input.Title != nil {
		title, err := validateTitle(*input.Title)
		if err != nil {
			return nil, err
		}
		update.Title = &title
	}
	if input.Content != nil {
		content, err := validateBody(*input.Content, "content", maxContentLength)
		if err != nil {
			return nil, err
		}
		update.Content = &content
	}
	update.ImageURL = input.ImageURL

	return e.store.UpdatePost(ctx, id, update)
}

func (e *Engine) DeletePost(ctx context.Context, actor auth.Identity, id uuid.UUID) error {
	post, err := e.store.GetPost(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.ModifyPost(actor, post); err != nil {
		return err
	}
	if err := e.store.DeletePost(ctx, id); err != nil {
		return err
	}
	e.log.Info("Post deleted", "post_id", id, "by", actor.UserID())
	return nil
}

// activePost loads a post and hides deactivated ones behind NOT_FOUND.
func (e *Engine) activePost(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	post, err := e.store.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if !post.IsActive {
		return nil, utils.NewNotFoundError("Post")
	}
	return post, nil
}
