package engine

import (
	"context"

	"boom-blog/internal/auth"
	"boom-blog/internal/models"
	"boom-blog/internal/policy"
	"boom-blog/internal/utils"

	"github.com/google/uuid"
)

// UserChanges is a partial profile update as received from a client.
type UserChanges struct {
	Username *string
	Email    *string
	Password *string
	IsActive *bool
	IsAdmin  *bool
}

func (e *Engine) GetUser(ctx context.Context, actor auth.Identity, id uuid.UUID) (*models.User, error) {
	user, err := e.store.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.ReadUser(actor, id); err != nil {
		return nil, err
	}
	return user, nil
}

func (e *Engine) ListUsers(ctx context.Context, actor auth.Identity, page models.Pagination) (*models.Page[*models.User], error) {
	if err := policy.ListUsers(actor); err != nil {
		return nil, err
	}
	return e.store.ListUsers(ctx, page)
}

// UpdateUser applies a profile change by the user themself or by an admin.
func (e *Engine) UpdateUser(ctx context.Context, actor auth.Identity, id uuid.UUID, changes UserChanges) (*models.User, error) {
	current, err := e.store.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	update := models.UserUpdate{IsActive: changes.IsActive, IsAdmin: changes.IsAdmin}
	if err := policy.UpdateUser(actor, id, update); err != nil {
		return nil, err
	}

	if changes.Username != nil {
		name, err := validateUsername(*changes.Username)
		if err != nil {
			return nil, err
		}
		if name != current.Username {
			update.Username = &name
		}
	}
	if changes.Email != nil {
		email, err := normalizeEmail(*changes.Email)
		if err != nil {
			return nil, err
		}
		if email != current.Email {
			update.Email = &email
		}
	}
	if changes.Password != nil {
		hash, err := auth.HashPassword(*changes.Password)
		if err != nil {
			return nil, err
		}
		update.HashedPassword = &hash
	}

	if update.Empty() {
		return current, nil
	}
	user, err := e.store.UpdateUser(ctx, id, update)
	if err != nil {
		return nil, err
	}
	e.log.Info("User updated", "user_id", id, "by", actor.UserID())
	return user, nil
}

// DeactivateUser is the admin delete: the account is kept but marked inactive.
func (e *Engine) DeactivateUser(ctx context.Context, actor auth.Identity, id uuid.UUID) error {
	user, err := e.store.GetUser(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.DeleteUser(actor, id); err != nil {
		return err
	}
	if !user.IsActive {
		return nil
	}
	no := false
	if _, err := e.store.UpdateUser(ctx, id, models.UserUpdate{IsActive: &no}); err != nil {
		return err
	}
	e.log.Info("User deactivated", "user_id", id, "by", actor.UserID())
	return nil
}

// Me returns the caller's own profile.
func (e *Engine) Me(actor auth.Identity) (*models.User, error) {
	user, ok := actor.User()
	if !ok {
		return nil, utils.NewUnauthorizedError("Not authenticated")
	}
	return user, nil
}
