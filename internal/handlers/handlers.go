package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"boom-blog/internal/api"
	"boom-blog/internal/engine"
	"boom-blog/internal/middleware"
	"boom-blog/internal/models"
	"boom-blog/internal/storage"
	"boom-blog/internal/utils"

	"github.com/google/uuid"
)

const (
	refreshCookieName = "refresh_token"
	maxJSONBody       = 1 << 20
)

// Pinger reports database reachability for the health check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server holds all server dependencies
type Server struct {
	Engine       *engine.Engine
	Auth         *middleware.Authenticator
	Images       storage.ImageStore
	DB           Pinger
	Metrics      *utils.MetricsCollector
	Log          *slog.Logger
	CookieSecure bool
}

// NewServer creates a new Server instance with the given components
func NewServer(
	eng *engine.Engine,
	images storage.ImageStore,
	db Pinger,
	metrics *utils.MetricsCollector,
	logger *slog.Logger,
	cookieSecure bool,
) *Server {
	if logger == nil {
		logger = utils.DiscardLogger()
	}
	logger = logger.With("component", "http")
	return &Server{
		Engine:       eng,
		Auth:         middleware.NewAuthenticator(eng, logger, metrics),
		Images:       images,
		DB:           db,
		Metrics:      metrics,
		Log:          logger,
		CookieSecure: cookieSecure,
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	api.WriteError(w, r, s.Log, s.Metrics, err)
}

// decodeJSON reads a bounded JSON body into dst.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return utils.NewInvalidInputError("request body too large")
		case errors.Is(err, io.EOF):
			return utils.NewInvalidInputError("request body is required")
		default:
			return utils.NewInvalidInputError("invalid JSON body")
		}
	}
	return nil
}

// pathUUID parses a {name} path parameter. A malformed id cannot exist, so it is a 404.
func pathUUID(r *http.Request, name, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil, utils.NewNotFoundError(what)
	}
	return id, nil
}

// pagination reads skip and limit. Both must be non-negative integers when present.
func pagination(r *http.Request) (models.Pagination, error) {
	skip, err := queryInt(r, "skip")
	if err != nil {
		return models.Pagination{}, err
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		return models.Pagination{}, err
	}
	return models.NewPagination(skip, limit), nil
}

func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, utils.NewInvalidInputError(name + " must be a non-negative integer")
	}
	return v, nil
}

// queryBool reads an optional boolean filter. Absent means nil.
func queryBool(r *http.Request, name string) (*bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, utils.NewInvalidInputError(name + " must be true or false")
	}
	return &v, nil
}

func (s *Server) setRefreshCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		Secure:   s.CookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (s *Server) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   s.CookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}
