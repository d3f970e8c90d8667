package engine

import (
	"context"

	"boom-blog/internal/auth"
	"boom-blog/internal/models"
	"boom-blog/internal/policy"

	"github.com/google/uuid"
)

// AdminListPosts includes deactivated posts.
func (e *Engine) AdminListPosts(ctx context.Context, actor auth.Identity, page models.Pagination) (*models.Page[*models.Post], error) {
	if err := policy.Moderate(actor); err != nil {
		return nil, err
	}
	return e.store.ListPosts(ctx, true, page)
}

func (e *Engine) AdminListUsers(ctx context.Context, actor auth.Identity, page models.Pagination) (*models.Page[*models.User], error) {
	if err := policy.Moderate(actor); err != nil {
		return nil, err
	}
	return e.store.ListUsers(ctx, page)
}

// AdminListComments lists comments across all posts. A nil approved lists both states.
func (e *Engine) AdminListComments(ctx context.Context, actor auth.Identity, approved *bool, page models.Pagination) (*models.Page[*models.Comment], error) {
	if err := policy.ModerateComments(actor); err != nil {
		return nil, err
	}
	return e.store.ListComments(ctx, approved, page)
}

// ToggleUserActive flips another user's active flag.
func (e *Engine) ToggleUserActive(ctx context.Context, actor auth.Identity, id uuid.UUID) (*models.User, error) {
	if _, err := e.store.GetUser(ctx, id); err != nil {
		return nil, err
	}
	if err := policy.ToggleUserActive(actor, id); err != nil {
		return nil, err
	}
	user, err := e.store.ToggleUserActive(ctx, id)
	if err != nil {
		return nil, err
	}
	e.log.Info("User active flag toggled", "user_id", id, "active", user.IsActive, "by", actor.UserID())
	return user, nil
}

func (e *Engine) TogglePostActive(ctx context.Context, actor auth.Identity, id uuid.UUID) (*models.Post, error) {
	if _, err := e.store.GetPost(ctx, id); err != nil {
		return nil, err
	}
	if err := policy.TogglePostActive(actor); err != nil {
		return nil, err
	}
	post, err := e.store.TogglePostActive(ctx, id)
	if err != nil {
		return nil, err
	}
	e.log.Info("Post active flag toggled", "post_id", id, "active", post.IsActive, "by", actor.UserID())
	return post, nil
}

// ApproveComment is one-way; approving an approved comment returns it unchanged.
func (e *Engine) ApproveComment(ctx context.Context, actor auth.Identity, id uuid.UUID) (*models.Comment, error) {
	comment, err := e.store.GetComment(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.ModerateComments(actor); err != nil {
		return nil, err
	}
	if comment.IsApproved {
		return comment, nil
	}
	return e.store.ApproveComment(ctx, id)
}

// AdminDeleteComment hard-deletes any comment.
func (e *Engine) AdminDeleteComment(ctx context.Context, actor auth.Identity, id uuid.UUID) error {
	if _, err := e.store.GetComment(ctx, id); err != nil {
		return err
	}
	if err := policy.ModerateComments(actor); err != nil {
		return err
	}
	if err := e.store.DeleteComment(ctx, id); err != nil {
		return err
	}
	e.log.Info("Comment removed by moderator", "comment_id", id, "by", actor.UserID())
	return nil
}
