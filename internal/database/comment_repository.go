// internal/database/comment_repository.go
package database

import (
	"context"

	"boom-blog/internal/models"
	"boom-blog/internal/utils"

	"github.com/google/uuid"
)

const commentSelect = `
	SELECT c.id, c.content, c.post_id, c.user_id, u.username, c.is_approved, c.created_at
	FROM comments c
	JOIN users u ON u.id = c.user_id`

// CommentFilter narrows a post's comments to what a viewer may see.
// With IncludeAll unset, only approved comments and the viewer's own are returned.
type CommentFilter struct {
	IncludeAll bool
	ViewerID   uuid.UUID
}

// CreateComment inserts a new, unapproved comment. The post must exist.
func (s *SQLStore) CreateComment(ctx context.Context, comment *models.Comment) error {
	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}
	comment.CreatedAt = s.now()

	query := s.rebind(`
		INSERT INTO comments (id, content, post_id, user_id, is_approved, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`)
	_, err := s.DB.ExecContext(ctx, query,
		comment.ID, comment.Content, comment.PostID, comment.UserID, comment.IsApproved, comment.CreatedAt)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to save comment", err)
	}
	return nil
}

// GetComment fetches a comment by its ID.
func (s *SQLStore) GetComment(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	var comment models.Comment
	if err := s.DB.GetContext(ctx, &comment, s.rebind(commentSelect+` WHERE c.id = ?`), id); err != nil {
		return nil, notFoundOr(err, "Comment", "failed to query comment by id")
	}
	return &comment, nil
}

// ListPostComments returns one page of a post's comments, oldest first.
func (s *SQLStore) ListPostComments(ctx context.Context, postID uuid.UUID, filter CommentFilter, page models.Pagination) (*models.Page[*models.Comment], error) {
	where := ` WHERE c.post_id = ?`
	args := []interface{}{postID}
	if !filter.IncludeAll {
		where += ` AND (c.is_approved = ? OR c.user_id = ?)`
		args = append(args, true, filter.ViewerID)
	}

	total, err := s.count(ctx, `SELECT COUNT(*) FROM comments c`+where, args...)
	if err != nil {
		return nil, err
	}

	comments := []*models.Comment{}
	query := s.rebind(commentSelect + where + ` ORDER BY c.created_at ASC, c.id LIMIT ? OFFSET ?`)
	if err := s.DB.SelectContext(ctx, &comments, query, append(args, page.Limit, page.Skip)...); err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query post comments", err)
	}
	return &models.Page[*models.Comment]{Items: comments, Total: total}, nil
}

// ListComments is the moderation listing across all posts, newest first.
// A nil approved lists everything.
func (s *SQLStore) ListComments(ctx context.Context, approved *bool, page models.Pagination) (*models.Page[*models.Comment], error) {
	where := ""
	args := []interface{}{}
	if approved != nil {
		where = ` WHERE c.is_approved = ?`
		args = append(args, *approved)
	}

	total, err := s.count(ctx, `SELECT COUNT(*) FROM comments c`+where, args...)
	if err != nil {
		return nil, err
	}

	comments := []*models.Comment{}
	query := s.rebind(commentSelect + where + ` ORDER BY c.created_at DESC, c.id LIMIT ? OFFSET ?`)
	if err := s.DB.SelectContext(ctx, &comments, query, append(args, page.Limit, page.Skip)...); err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query comments", err)
	}
	return &models.Page[*models.Comment]{Items: comments, Total: total}, nil
}

// UpdateCommentContent replaces the text of a comment. Approval state is untouched.
func (s *SQLStore) UpdateCommentContent(ctx context.Context, id uuid.UUID, content string) (*models.Comment, error) {
	result, err := s.DB.ExecContext(ctx, s.rebind(`UPDATE comments SET content = ? WHERE id = ?`), content, id)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to update comment", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return nil, utils.NewNotFoundError("Comment")
	}
	return s.GetComment(ctx, id)
}

// ApproveComment marks a comment approved. Approving twice is a no-op.
func (s *SQLStore) ApproveComment(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	result, err := s.DB.ExecContext(ctx, s.rebind(`UPDATE comments SET is_approved = ? WHERE id = ?`), true, id)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to approve comment", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return nil, utils.NewNotFoundError("Comment")
	}
	return s.GetComment(ctx, id)
}

// DeleteComment hard-deletes a comment.
func (s *SQLStore) DeleteComment(ctx context.Context, id uuid.UUID) error {
	result, err := s.DB.ExecContext(ctx, s.rebind(`DELETE FROM comments WHERE id = ?`), id)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to delete comment", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return utils.NewNotFoundError("Comment")
	}
	return nil
}
