package engine

import (
	"context"

	"boom-blog/internal/auth"
	"boom-blog/internal/models"
	"boom-blog/internal/utils"

	"github.com/google/uuid"
)

const usernameAttempts = 5

// LoginResult is the outcome of a login-or-register call.
type LoginResult struct {
	User    *models.User
	Tokens  *auth.TokenPair
	Created bool
}

// LoginOrRegister signs in an existing account or creates one for an unknown email.
// An inactive account is refused before its password is checked.
func (e *Engine) LoginOrRegister(ctx context.Context, rawEmail, password string) (*LoginResult, error) {
	email, err := normalizeEmail(rawEmail)
	if err != nil {
		return nil, err
	}
	if password == "" {
		return nil, utils.NewInvalidInputError("password is required")
	}

	user, err := e.store.GetUserByEmail(ctx, email)
	created := false
	switch {
	case err == nil:
		if err := e.checkLogin(user, password); err != nil {
			return nil, err
		}
	case utils.IsErrorCode(err, utils.ErrNotFound):
		user, created, err = e.register(ctx, email, password)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	tokens, err := e.tokens.IssuePair(user.ID)
	if err != nil {
		return nil, err
	}

	e.metrics.RecordLogin(created)
	e.log.Info("User signed in", "user_id", user.ID, "registered", created)
	return &LoginResult{User: user, Tokens: tokens, Created: created}, nil
}

func (e *Engine) checkLogin(user *models.User, password string) error {
	if !user.IsActive {
		return utils.NewAppError(utils.ErrAccountInactive, "Inactive user", nil)
	}
	ok, err := auth.CheckPassword(password, user.HashedPassword)
	if err != nil {
		return err
	}
	if !ok {
		return utils.NewAppError(utils.ErrInvalidCredentials, "Incorrect password", nil)
	}
	return nil
}

// register creates an active, non-admin account. A concurrent registration of the same
// email falls back to a normal login against the row that won.
func (e *Engine) register(ctx context.Context, email, password string) (*models.User, bool, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, false, err
	}

	base := usernameFromEmail(email)
	username := base
	for attempt := 0; attempt < usernameAttempts; attempt++ {
		if attempt > 0 {
			username = base + "_" + uuid.NewString()[:6]
		}
		taken, err := e.store.UsernameExists(ctx, username)
		if err != nil {
			return nil, false, err
		}
		if taken {
			continue
		}

		user := &models.User{
			Username:       username,
			Email:          email,
			HashedPassword: hash,
			IsActive:       true,
			IsAdmin:        false,
		}
		err = e.store.CreateUser(ctx, user)
		if err == nil {
			return user, true, nil
		}
		if !utils.IsErrorCode(err, utils.ErrDuplicate) {
			return nil, false, err
		}

		existing, lookupErr := e.store.GetUserByEmail(ctx, email)
		if lookupErr == nil {
			if err := e.checkLogin(existing, password); err != nil {
				return nil, false, err
			}
			return existing, false, nil
		}
		// Username lost a race; try another suffix.
	}
	return nil, false, utils.NewAppError(utils.ErrDuplicate, "could not allocate a unique username", nil)
}

// Refresh exchanges a valid refresh token for a new access and refresh token.
func (e *Engine) Refresh(ctx context.Context, refreshToken string) (*models.User, *auth.TokenPair, error) {
	claims, err := e.tokens.Decode(refreshToken, auth.RefreshToken)
	if err != nil {
		return nil, nil, err
	}

	user, err := e.store.GetUser(ctx, claims.UserID)
	if err != nil {
		if utils.IsErrorCode(err, utils.ErrNotFound) {
			return nil, nil, utils.NewUnauthorizedError("User not found")
		}
		return nil, nil, err
	}
	if !user.IsActive {
		return nil, nil, utils.NewAppError(utils.ErrAccountInactive, "Inactive user", nil)
	}

	tokens, err := e.tokens.IssuePair(user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

// Authenticate resolves an access token to its user. The token must decode and its
// subject must still exist.
func (e *Engine) Authenticate(ctx context.Context, accessToken string) (*models.User, error) {
	claims, err := e.tokens.Decode(accessToken, auth.AccessToken)
	if err != nil {
		return nil, err
	}
	user, err := e.store.GetUser(ctx, claims.UserID)
	if err != nil {
		if utils.IsErrorCode(err, utils.ErrNotFound) {
			return nil, utils.NewUnauthorizedError("Could not validate credentials")
		}
		return nil, err
	}
	return user, nil
}

// EnsureAdmin creates or promotes the bootstrap admin account.
func (e *Engine) EnsureAdmin(ctx context.Context, rawEmail, password string) (*models.User, error) {
	email, err := normalizeEmail(rawEmail)
	if err != nil {
		return nil, err
	}

	user, err := e.store.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		ok, err := auth.CheckPassword(password, user.HashedPassword)
		if err != nil {
			return nil, err
		}
		if ok && user.IsAdmin && user.IsActive {
			return user, nil
		}
		// Whoever registered the address first does not get to keep their password.
		hash, err := auth.HashPassword(password)
		if err != nil {
			return nil, err
		}
		yes := true
		user, err = e.store.UpdateUser(ctx, user.ID, models.UserUpdate{IsActive: &yes, IsAdmin: &yes, HashedPassword: &hash})
		if err != nil {
			return nil, err
		}
		e.log.Info("Promoted bootstrap admin", "user_id", user.ID)
		return user, nil
	case utils.IsErrorCode(err, utils.ErrNotFound):
		user, _, err = e.register(ctx, email, password)
		if err != nil {
			return nil, err
		}
		yes := true
		user, err = e.store.UpdateUser(ctx, user.ID, models.UserUpdate{IsAdmin: &yes})
		if err != nil {
			return nil, err
		}
		e.log.Info("Created bootstrap admin", "user_id", user.ID)
		return user, nil
	default:
		return nil, err
	}
}
