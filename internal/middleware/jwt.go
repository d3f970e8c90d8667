// internal/middleware/jwt.go
package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"boom-blog/internal/api"
	"boom-blog/internal/auth"
	"boom-blog/internal/models"
	"boom-blog/internal/utils"
)

// UserResolver turns an access token into the user it was issued to.
type UserResolver interface {
	Authenticate(ctx context.Context, accessToken string) (*models.User, error)
}

// Authenticator resolves the caller's identity from the Authorization header.
type Authenticator struct {
	resolver UserResolver
	log      *slog.Logger
	metrics  *utils.MetricsCollector
}

func NewAuthenticator(resolver UserResolver, logger *slog.Logger, metrics *utils.MetricsCollector) *Authenticator {
	if logger == nil {
		logger = utils.DiscardLogger()
	}
	return &Authenticator{resolver: resolver, log: logger, metrics: metrics}
}

// ApplyJWTMiddleware wraps a handler that requires an authenticated caller.
func (a *Authenticator) ApplyJWTMiddleware(handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenString, ok := bearerToken(r)
		if !ok {
			api.WriteError(w, r, a.log, a.metrics, utils.NewUnauthorizedError("Not authenticated"))
			return
		}

		user, err := a.resolver.Authenticate(r.Context(), tokenString)
		if err != nil {
			if utils.IsAuthError(err) {
				err = utils.NewAppError(utils.ErrUnauthorized, "Could not validate credentials", err)
			}
			api.WriteError(w, r, a.log, a.metrics, err)
			return
		}

		ctx := SetIdentityInContext(r.Context(), auth.Authenticated(user))
		handler(w, r.WithContext(ctx))
	}
}

// ApplyOptionalJWTMiddleware resolves the caller when a valid token is present and
// treats a missing or invalid token as an anonymous caller.
func (a *Authenticator) ApplyOptionalJWTMiddleware(handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := auth.Anonymous()

		if tokenString, ok := bearerToken(r); ok {
			user, err := a.resolver.Authenticate(r.Context(), tokenString)
			switch {
			case err == nil:
				identity = auth.Authenticated(user)
			case utils.IsAuthError(err):
				a.log.Debug("Ignoring invalid token on optional route", "path", r.URL.Path, "error", err)
			default:
				api.WriteError(w, r, a.log, a.metrics, err)
				return
			}
		}

		handler(w, r.WithContext(SetIdentityInContext(r.Context(), identity)))
	}
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(authHeader, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// Define a custom context key type to avoid collisions
type contextKey string

// IdentityKey is the key used to store the caller identity in the context
const IdentityKey contextKey = "identity"

// SetIdentityInContext saves the caller identity in the request context
func SetIdentityInContext(ctx context.Context, identity auth.Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, identity)
}

// IdentityFromContext retrieves the caller identity. Routes without auth middleware are anonymous.
func IdentityFromContext(ctx context.Context) auth.Identity {
	identity, ok := ctx.Value(IdentityKey).(auth.Identity)
	if !ok {
		return auth.Anonymous()
	}
	return identity
}
