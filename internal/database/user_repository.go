// internal/database/user_repository.go
package database

import (
	"context"
	"strings"

	"boom-blog/internal/models"
	"boom-blog/internal/utils"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const userColumns = `id, username, email, password_hash, is_active, is_admin, created_at, updated_at`

// CreateUser inserts a new user. Unique violations on username or email come back as DUPLICATE.
func (s *SQLStore) CreateUser(ctx context.Context, user *models.User) error {
	now := s.now()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	query := s.rebind(`
		INSERT INTO users (id, username, email, password_hash, is_active, is_admin, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := s.DB.ExecContext(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.HashedPassword,
		user.IsActive,
		user.IsAdmin,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return utils.NewAppError(utils.ErrDuplicate, "user already exists", err)
		}
		return utils.NewAppError(utils.ErrDatabase, "failed to save user", err)
	}
	return nil
}

// GetUser fetches a user by their ID.
func (s *SQLStore) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := s.DB.GetContext(ctx, &user, s.rebind(`SELECT `+userColumns+` FROM users WHERE id = ?`), id)
	if err != nil {
		return nil, notFoundOr(err, "User", "failed to query user by id")
	}
	return &user, nil
}

// GetUserByEmail fetches a user by their email address. Emails are stored lower-cased.
func (s *SQLStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.DB.GetContext(ctx, &user, s.rebind(`SELECT `+userColumns+` FROM users WHERE email = ?`), strings.ToLower(email))
	if err != nil {
		return nil, notFoundOr(err, "User", "failed to query user by email")
	}
	return &user, nil
}

func (s *SQLStore) UsernameExists(ctx context.Context, username string) (bool, error) {
	n, err := s.count(ctx, `SELECT COUNT(*) FROM users WHERE username = ?`, username)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListUsers returns one page of users, newest first.
func (s *SQLStore) ListUsers(ctx context.Context, page models.Pagination) (*models.Page[*models.User], error) {
	total, err := s.count(ctx, `SELECT COUNT(*) FROM users`)
	if err != nil {
		return nil, err
	}

	users := []*models.User{}
	query := s.rebind(`SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC, id LIMIT ? OFFSET ?`)
	if err := s.DB.SelectContext(ctx, &users, query, page.Limit, page.Skip); err != nil {
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to query users", err)
	}
	return &models.Page[*models.User]{Items: users, Total: total}, nil
}

// UpdateUser applies the non-nil fields of update and returns the stored row.
func (s *SQLStore) UpdateUser(ctx context.Context, id uuid.UUID, update models.UserUpdate) (*models.User, error) {
	sets := []string{"updated_at = ?"}
	args := []interface{}{s.now()}

	if update.Username != nil {
		sets = append(sets, "username = ?")
		args = append(args, *update.Username)
	}
	if update.Email != nil {
		sets = append(sets, "email = ?")
		args = append(args, strings.ToLower(*update.Email))
	}
	if update.HashedPassword != nil {
		sets = append(sets, "password_hash = ?")
		args = append(args, *update.HashedPassword)
	}
	if update.IsActive != nil {
		sets = append(sets, "is_active = ?")
		args = append(args, *update.IsActive)
	}
	if update.IsAdmin != nil {
		sets = append(sets, "is_admin = ?")
		args = append(args, *update.IsAdmin)
	}
	args = append(args, id)

	result, err := s.DB.ExecContext(ctx, s.rebind(`UPDATE users SET `+strings.Join(sets, ", ")+` WHERE id = ?`), args...)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, utils.NewAppError(utils.ErrDuplicate, "username or email already taken", err)
		}
		return nil, utils.NewAppError(utils.ErrDatabase, "failed to update user", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return nil, utils.NewNotFoundError("User")
	}
	return s.GetUser(ctx, id)
}

// ToggleUserActive flips is_active in one statement and returns the new row.
func (s *SQLStore) ToggleUserActive(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user *models.User
	err := s.withTx(ctx, "user toggle", func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, s.rebind(`UPDATE users SET is_active = NOT is_active, updated_at = ? WHERE id = ?`), s.now(), id)
		if err != nil {
			return utils.NewAppError(utils.ErrDatabase, "failed to toggle user", err)
		}
		if rows, _ := result.RowsAffected(); rows == 0 {
			return utils.NewNotFoundError("User")
		}
		var u models.User
		if err := tx.GetContext(ctx, &u, s.rebind(`SELECT `+userColumns+` FROM users WHERE id = ?`), id); err != nil {
			return notFoundOr(err, "User", "failed to reload user")
		}
		user = &u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}
