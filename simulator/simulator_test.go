package simulator

import (
	"context"
	"math/rand"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"boom-blog/internal/auth"
	"boom-blog/internal/config"
	"boom-blog/internal/database"
	"boom-blog/internal/engine"
	"boom-blog/internal/handlers"
	"boom-blog/internal/storage"
	"boom-blog/internal/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBlogServer(t *testing.T) *httptest.Server {
	t.Helper()
	dir := t.TempDir()
	store, err := database.NewSQLiteDB(config.SQLiteDSN(filepath.Join(dir, "blog.db")), nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close(context.Background()) })
	require.NoError(t, store.InitializeTables(context.Background()))

	tokens, err := auth.NewTokenService("simulator-test", time.Minute, time.Hour)
	require.NoError(t, err)
	metrics := utils.NewMetricsCollector()
	images, err := storage.NewLocalImageStore(filepath.Join(dir, "uploads"), nil)
	require.NoError(t, err)

	srv := handlers.NewServer(engine.NewEngine(store, tokens, metrics, nil), images, store, metrics, nil, false)
	ts := httptest.NewServer(srv.Routes(handlers.RouteOptions{}))
	t.Cleanup(ts.Close)
	return ts
}

func TestSimulationAgainstServer(t *testing.T) {
	ts := newBlogServer(t)

	cfg := DefaultSimConfig()
	cfg.NumUsers = 4
	cfg.NumPosts = 3
	cfg.Workers = 2
	cfg.RequestInterval = 5 * time.Millisecond
	cfg.EngineURL = ts.URL
	cfg.SimulationTime = time.Second

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	start := time.Now()
	sim := NewSimulator(cfg, nil)
	require.NoError(t, sim.Run(ctx))

	m := sim.GetMetrics()
	assert.Equal(t, 4, m.TotalUsers)
	assert.GreaterOrEqual(t, m.TotalPosts, 3)
	assert.Positive(t, m.TotalViews+m.TotalLikes+m.TotalUnlikes+m.TotalComments)
	assert.Less(t, time.Since(start), 30*time.Second)
}

func TestRunFailsWithoutServer(t *testing.T) {
	cfg := DefaultSimConfig()
	cfg.NumUsers = 1
	cfg.EngineURL = "http://127.0.0.1:1"
	cfg.RequestInterval = time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := NewSimulator(cfg, nil).Run(ctx)
	assert.ErrorContains(t, err, "no users could sign in")
}

func TestPickPostFavoursEarlyPosts(t *testing.T) {
	sim := NewSimulator(DefaultSimConfig(), nil)
	rng := rand.New(rand.NewSource(1))

	_, ok := sim.pickPost(rng)
	assert.False(t, ok)

	for i := 0; i < 20; i++ {
		sim.posts = append(sim.posts, uuid.New())
	}
	hits := map[uuid.UUID]int{}
	for i := 0; i < 2000; i++ {
		id, ok := sim.pickPost(rng)
		require.True(t, ok)
		hits[id]++
	}
	assert.Greater(t, hits[sim.posts[0]], hits[sim.posts[19]])
}

func TestPickActivityWeights(t *testing.T) {
	cfg := DefaultSimConfig()
	cfg.ViewWeight, cfg.LikeWeight, cfg.CommentWeight, cfg.PostWeight = 0, 1, 0, 0
	sim := NewSimulator(cfg, nil)
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		assert.Equal(t, activityLike, sim.pickActivity(rng))
	}

	sim.config.LikeWeight = 0
	assert.Equal(t, activityView, sim.pickActivity(rng))
}
