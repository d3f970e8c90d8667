package engine

import (
	"context"

	"boom-blog/internal/auth"
	"boom-blog/internal/database"
	"boom-blog/internal/models"
	"boom-blog/internal/policy"
	"boom-blog/internal/utils"

	"github.com/google/uuid"
)

// ListPostComments returns the comments of an active post that the caller may see.
func (e *Engine) ListPostComments(ctx context.Context, actor auth.Identity, postID uuid.UUID, page models.Pagination) (*models.Page[*models.Comment], error) {
	if _, err := e.activePost(ctx, postID); err != nil {
		return nil, err
	}
	filter := database.CommentFilter{IncludeAll: actor.IsAdmin(), ViewerID: actor.UserID()}
	return e.store.ListPostComments(ctx, postID, filter, page)
}

// CreateComment adds an unapproved comment to an active post.
func (e *Engine) CreateComment(ctx context.Context, actor auth.Identity, postID uuid.UUID, rawContent string) (*models.Comment, error) {
	if _, err := e.activePost(ctx, postID); err != nil {
		return nil, err
	}
	if err := policy.CreateComment(actor); err != nil {
		return nil, err
	}
	content, err := validateBody(rawContent, "comment", maxCommentLength)
	if err != nil {
		return nil, err
	}

	author, _ := actor.User()
	comment := &models.Comment{
		Content:    content,
		PostID:     postID,
		UserID:     author.ID,
		Username:   author.Username,
		IsApproved: false,
	}
	if err := e.store.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// UpdateComment edits the text of a comment. Owner or admin only.
func (e *Engine) UpdateComment(ctx context.Context, actor auth.Identity, postID, commentID uuid.UUID, rawContent string) (*models.Comment, error) {
	comment, err := e.commentOnPost(ctx, postID, commentID)
	if err != nil {
		return nil, err
	}
	if err := policy.ModifyComment(actor, comment); err != nil {
		return nil, err
	}
	content, err := validateBody(rawContent, "comment", maxCommentLength)
	if err != nil {
		return nil, err
	}
	return e.store.UpdateCommentContent(ctx, commentID, content)
}

// DeleteComment removes a comment. Owner or admin only.
func (e *Engine) DeleteComment(ctx context.Context, actor auth.Identity, postID, commentID uuid.UUID) error {
	comment, err := e.commentOnPost(ctx, postID, commentID)
	if err != nil {
		return err
	}
	if err := policy.ModifyComment(actor, comment); err != nil {
		return err
	}
	return e.store.DeleteComment(ctx, commentID)
}

// commentOnPost loads a comment and requires it to belong to postID.
func (e *Engine) commentOnPost(ctx context.Context, postID, commentID uuid.UUID) (*models.Comment, error) {
	comment, err := e.store.GetComment(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.PostID != postID {
		return nil, utils.NewNotFoundError("Comment")
	}
	return comment, nil
}
