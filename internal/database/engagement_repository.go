// internal/database/engagement_repository.go
package database

import (
	"context"
	"database/sql"
	"errors"

	"boom-blog/internal/models"
	"boom-blog/internal/utils"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ToggleLike flips the (user, post) like in one transaction. The counter moves only when
// a like row was actually deleted or inserted, so racing toggles from the same user cannot
// double count.
func (s *SQLStore) ToggleLike(ctx context.Context, postID, userID uuid.UUID) (*models.LikeResult, error) {
	result := &models.LikeResult{}

	err := s.withTx(ctx, "like toggle", func(tx *sqlx.Tx) error {
		if err := s.lockPost(ctx, tx, postID); err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM likes WHERE user_id = ? AND post_id = ?`), userID, postID)
		if err != nil {
			return utils.NewAppError(utils.ErrDatabase, "failed to remove like", err)
		}
		removed, _ := res.RowsAffected()

		if removed > 0 {
			_, err = tx.ExecContext(ctx, s.rebind(`
				UPDATE posts SET like_count = CASE WHEN like_count > 0 THEN like_count - 1 ELSE 0 END
				WHERE id = ?`), postID)
			if err != nil {
				return utils.NewAppError(utils.ErrDatabase, "failed to decrement like count", err)
			}
			result.IsLiked = false
		} else {
			res, err = tx.ExecContext(ctx, s.rebind(`
				INSERT INTO likes (user_id, post_id, created_at) VALUES (?, ?, ?)
				ON CONFLICT (user_id, post_id) DO NOTHING`), userID, postID, s.now())
			if err != nil {
				return utils.NewAppError(utils.ErrDatabase, "failed to add like", err)
			}
			if inserted, _ := res.RowsAffected(); inserted > 0 {
				_, err = tx.ExecContext(ctx, s.rebind(`UPDATE posts SET like_count = like_count + 1 WHERE id = ?`), postID)
				if err != nil {
					return utils.NewAppError(utils.ErrDatabase, "failed to increment like count", err)
				}
			}
			result.IsLiked = true
		}

		if err := tx.GetContext(ctx, &result.LikeCount, s.rebind(`SELECT like_count FROM posts WHERE id = ?`), postID); err != nil {
			return notFoundOr(err, "Post", "failed to read like count")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RecordView stores the first view of a post by a user. Later calls change nothing.
// created reports whether this call inserted the view row.
func (s *SQLStore) RecordView(ctx context.Context, postID, userID uuid.UUID) (int, bool, error) {
	var (
		count   int
		created bool
	)
	err := s.withTx(ctx, "view", func(tx *sqlx.Tx) error {
		if err := s.lockPost(ctx, tx, postID); err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, s.rebind(`
			INSERT INTO views (user_id, post_id, created_at) VALUES (?, ?, ?)
			ON CONFLICT (user_id, post_id) DO NOTHING`), userID, postID, s.now())
		if err != nil {
			return utils.NewAppError(utils.ErrDatabase, "failed to record view", err)
		}
		if inserted, _ := res.RowsAffected(); inserted > 0 {
			created = true
			_, err = tx.ExecContext(ctx, s.rebind(`UPDATE posts SET view_count = view_count + 1 WHERE id = ?`), postID)
			if err != nil {
				return utils.NewAppError(utils.ErrDatabase, "failed to increment view count", err)
			}
		}

		if err := tx.GetContext(ctx, &count, s.rebind(`SELECT view_count FROM posts WHERE id = ?`), postID); err != nil {
			return notFoundOr(err, "Post", "failed to read view count")
		}
		return nil
	})
	if err != nil {
		return 0, false, err
	}
	return count, created, nil
}

// GetEngagement reports whether the user has liked and viewed the post.
func (s *SQLStore) GetEngagement(ctx context.Context, postID, userID uuid.UUID) (bool, bool, error) {
	var liked, viewed int
	err := s.DB.QueryRowxContext(ctx, s.rebind(`
		SELECT
			(SELECT COUNT(*) FROM likes WHERE user_id = ? AND post_id = ?),
			(SELECT COUNT(*) FROM views WHERE user_id = ? AND post_id = ?)`),
		userID, postID, userID, postID).Scan(&liked, &viewed)
	if err != nil {
		return false, false, utils.NewAppError(utils.ErrDatabase, "failed to query engagement", err)
	}
	return liked > 0, viewed > 0, nil
}

// lockPost confirms the post exists and, on PostgreSQL, row-locks it for the rest of the
// transaction. SQLite already serializes writers on its single connection.
func (s *SQLStore) lockPost(ctx context.Context, tx *sqlx.Tx, postID uuid.UUID) error {
	query := `SELECT id FROM posts WHERE id = ?`
	if s.dialect == DialectPostgres {
		query += ` FOR UPDATE`
	}
	var id uuid.UUID
	if err := tx.GetContext(ctx, &id, s.rebind(query), postID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return utils.NewNotFoundError("Post")
		}
		return utils.NewAppError(utils.ErrDatabase, "failed to lock post", err)
	}
	return nil
}
