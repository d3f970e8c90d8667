package auth

import (
	"boom-blog/internal/models"

	"github.com/google/uuid"
)

// Identity is the caller of an operation: either anonymous or an authenticated user.
// The zero value is anonymous.
type Identity struct {
	user *models.User
}

func Anonymous() Identity {
	return Identity{}
}

func Authenticated(user *models.User) Identity {
	return Identity{user: user}
}

// User returns the authenticated user, if any.
func (id Identity) User() (*models.User, bool) {
	return id.user, id.user != nil
}

func (id Identity) IsAnonymous() bool {
	return id.user == nil
}

// UserID is uuid.Nil for anonymous callers.
func (id Identity) UserID() uuid.UUID {
	if id.user == nil {
		return uuid.Nil
	}
	return id.user.ID
}

// IsAdmin is true only for an active account with the admin flag set.
func (id Identity) IsAdmin() bool {
	return id.user != nil && id.user.IsActive && id.user.IsAdmin
}

// IsActive is true for an authenticated, active account.
func (id Identity) IsActive() bool {
	return id.user != nil && id.user.IsActive
}
