package engine

import (
	"log/slog"

	"boom-blog/internal/auth"
	"boom-blog/internal/database"
	"boom-blog/internal/utils"
)

// Engine implements the blog's operations. Each method loads its target, checks the
// caller against the policy, then performs a single store mutation.
type Engine struct {
	store   database.DBAdapter
	tokens  *auth.TokenService
	metrics *utils.MetricsCollector
	log     *slog.Logger
}

func NewEngine(store database.DBAdapter, tokens *auth.TokenService, metrics *utils.MetricsCollector, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = utils.DiscardLogger()
	}
	return &Engine{
		store:   store,
		tokens:  tokens,
		metrics: metrics,
		log:     logger.With("component", "engine"),
	}
}

// Tokens exposes the token service so the transport can size the refresh cookie.
func (e *Engine) Tokens() *auth.TokenService {
	return e.tokens
}
