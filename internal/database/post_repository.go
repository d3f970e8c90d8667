// internal/database/post_repository.go
package database

import (
	"context"
	"strings"

	"boom-blog/internal/models"
	"boom-blog/internal/utils"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const postSelect = `
	SELECT p.id, p.title, p.content, p.image_url, p.author_id, u.username AS author_username,
		p.created_at, p.updated_at, p.is_active, p.like_count, p.view_count
	FROM posts p
	JOIN users u ON u.id = p.author_id`

// CreatePost inserts a new post with zeroed counters.
func (s *SQLStore) CreatePost(ctx context.Context, post *models.Post) error {
	now := s.now()
	if post.ID == uuid.Nil {
		post.ID = uuid.New()
	}
	post.CreatedAt = now
	post.UpdatedAt = now
	post.LikeCount = 0
	post.ViewCount = 0

	query := s.rebind(`
		INSERT INTO posts (id, title, content, image_url, author_id, created_at, updated_at, is_active, like_count, view_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0, 0)`)
	_, err := s.DB.ExecContext(ctx, query,
		post.ID, post.Title, post.Content, post.ImageURL, post.AuthorID, post.CreatedAt, post.UpdatedAt, post.IsActive)
	if err != nil {
		return utils.NewAppError(utils.ErrDatabase, "failed to save post", err)
	}
	return nil
}

// GetPost fetches a post by its ID regardless of its active flag.
func (s *SQLStore) GetPost(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	return s.getPost(ctx, s.DB, id)
}

func (s *SQLStore) getPost(ctx context.Context, q sqlx.QueryerContext, id uuid.UUID) (*models.Post, error) {
	var post models.Post
	if err := sqlx.GetContext(ctx, q, &post, s.rebind(postSelect+` WHERE p.id = ?`), id); err != nil {
		return nil, notFoundOr(err, "Post", "failed to query post by id")
	}
	return &post, nil
}

// ListPosts returns one page of posts, newest first. Inactive posts are excluded unless asked for.
func (s *SQLStore) ListPosts(ctx context.Context, includeInactive bool, page models.Pagination) (*models.Page[*models.Post], error) {
	where := ""
	if !includeInactive {
		where = ` WHERE p.is_active = ?`
	}
	args := []interface{}{}
	if !includeInactive {
		args = append(args, true)
	}

	total, err := s.count(ctx, `SELECT COUNT(*) FROM posts p`+where, args...)
	if err != nil {
		return nil, err
	}

	posts := []*models.Post{}
	query := s.rebind(postSelect + where + ` ORDER BY p.created_at DESC, p.id LIMIT ? OFFSET ?`)
	if err := s.DB.SelectContext(ctx, &posts, query, append(args, page.Limit, page.Skip)...); err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query posts", err)
	}
	return &models.Page[*models.Post]{Items: posts, Total: total}, nil
}

// UpdatePost applies the non-nil fields of update. It never touches is_active or the counters.
func (s *SQLStore) UpdatePost(ctx context.Context, id uuid.UUID, update models.PostUpdate) (*models.Post, error) {
	sets := []string{"updated_at = ?"}
	args := []interface{}{s.now()}
	if update.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *update.Title)
	}
	if update.Content != nil {
		sets = append(sets, "content = ?")
		args = append(args, *update.Content)
	}
	if update.ImageURL != nil {
		sets = append(sets, "image_url = ?")
		if *update.ImageURL == "" {
			args = append(args, nil)
		} else {
			args = append(args, *update.ImageURL)
		}
	}
	args = append(args, id)

	result, err := s.DB.ExecContext(ctx, s.rebind(`UPDATE posts SET `+strings.Join(sets, ", ")+` WHERE id = ?`), args...)
	if err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to update post", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return nil, utils.NewNotFoundError("Post")
	}
	return s.GetPost(ctx, id)
}

// DeletePost removes a post together with its likes, views and comments.
func (s *SQLStore) DeletePost(ctx context.Context, id uuid.UUID) error {
	return s.withTx(ctx, "post delete", func(tx *sqlx.Tx) error {
		for _, table := range []string{"likes", "views", "comments"} {
			if _, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM `+table+` WHERE post_id = ?`), id); err != nil {
				return utils.NewAppError(utils.ErrDatabase, "failed to delete post "+table, err)
			}
		}
		result, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM posts WHERE id = ?`), id)
		if err != nil {
			return utils.NewAppError(utils.ErrDatabase, "failed to delete post", err)
		}
		if rows, _ := result.RowsAffected(); rows == 0 {
			return utils.NewNotFoundError("Post")
		}
		return nil
	})
}

// TogglePostActive flips is_active and returns the new row.
func (s *SQLStore) TogglePostActive(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	var post *models.Post
	err := s.withTx(ctx, "post toggle", func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, s.rebind(`UPDATE posts SET is_active = NOT is_active, updated_at = ? WHERE id = ?`), s.now(), id)
		if err != nil {
			return utils.NewAppError(utils.ErrDatabase, "failed to toggle post", err)
		}
		if rows, _ := result.RowsAffected(); rows == 0 {
			return utils.NewNotFoundError("Post")
		}
		post, err = s.getPost(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}
