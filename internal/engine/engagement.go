package engine

import (
	"context"

	"boom-blog/internal/auth"
	"boom-blog/internal/models"
	"boom-blog/internal/policy"

	"github.com/google/uuid"
)

// ToggleLike likes the post if the caller hasn't, otherwise removes the like.
func (e *Engine) ToggleLike(ctx context.Context, actor auth.Identity, postID uuid.UUID) (*models.LikeResult, error) {
	if _, err := e.activePost(ctx, postID); err != nil {
		return nil, err
	}
	if err := policy.Engage(actor); err != nil {
		return nil, err
	}

	result, err := e.store.ToggleLike(ctx, postID, actor.UserID())
	if err != nil {
		return nil, err
	}
	e.metrics.RecordLikeToggle(result.IsLiked)
	e.log.Debug("Like toggled", "post_id", postID, "user_id", actor.UserID(), "liked", result.IsLiked, "count", result.LikeCount)
	return result, nil
}

// RecordView counts the caller's first view of a post and returns the view count.
func (e *Engine) RecordView(ctx context.Context, actor auth.Identity, postID uuid.UUID) (int, error) {
	if _, err := e.activePost(ctx, postID); err != nil {
		return 0, err
	}
	if err := policy.Engage(actor); err != nil {
		return 0, err
	}
	return e.recordView(ctx, actor, postID)
}

// recordView assumes the post is active and the caller may engage.
func (e *Engine) recordView(ctx context.Context, actor auth.Identity, postID uuid.UUID) (int, error) {
	count, created, err := e.store.RecordView(ctx, postID, actor.UserID())
	if err != nil {
		return 0, err
	}
	if created {
		e.metrics.RecordFirstView()
	}
	return count, nil
}
