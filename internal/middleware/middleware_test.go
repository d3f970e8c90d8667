package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"boom-blog/internal/models"
	"boom-blog/internal/utils"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver struct {
	users map[string]*models.User
	err   error
}

func (f *fakeResolver) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if u, ok := f.users[token]; ok {
		return u, nil
	}
	return nil, utils.NewAppError(utils.ErrInvalidToken, "invalid token", nil)
}

func whoAmI(w http.ResponseWriter, r *http.Request) {
	identity := IdentityFromContext(r.Context())
	if identity.IsAnonymous() {
		w.Write([]byte("anonymous"))
		return
	}
	w.Write([]byte(identity.UserID().String()))
}

func serve(h http.HandlerFunc, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestRequiredJWT(t *testing.T) {
	user := &models.User{ID: uuid.New(), IsActive: true}
	authn := NewAuthenticator(&fakeResolver{users: map[string]*models.User{"good": user}}, nil, nil)
	h := authn.ApplyJWTMiddleware(whoAmI)

	rec := serve(h, "Bearer good")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, user.ID.String(), rec.Body.String())

	for _, header := range []string{"", "Bearer", "Basic abc", "Bearer bad"} {
		rec = serve(h, header)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, header)
		assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
		assert.Contains(t, rec.Body.String(), `"detail"`)
	}
}

func TestOptionalJWT(t *testing.T) {
	user := &models.User{ID: uuid.New(), IsActive: true}
	authn := NewAuthenticator(&fakeResolver{users: map[string]*models.User{"good": user}}, nil, nil)
	h := authn.ApplyOptionalJWTMiddleware(whoAmI)

	assert.Equal(t, user.ID.String(), serve(h, "Bearer good").Body.String())
	assert.Equal(t, "anonymous", serve(h, "").Body.String())
	assert.Equal(t, "anonymous", serve(h, "Bearer expired").Body.String())
}

func TestStoreFailureIsNotAnonymous(t *testing.T) {
	authn := NewAuthenticator(&fakeResolver{err: utils.NewAppError(utils.ErrDatabase, "db down", errors.New("conn refused"))}, nil, nil)

	rec := serve(authn.ApplyOptionalJWTMiddleware(whoAmI), "Bearer anything")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "conn refused")

	rec = serve(authn.ApplyJWTMiddleware(whoAmI), "Bearer anything")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestIdentityFromEmptyContext(t *testing.T) {
	assert.True(t, IdentityFromContext(context.Background()).IsAnonymous())
}

func TestCORSAllowsCredentialedOrigin(t *testing.T) {
	h := CORSMiddleware(DefaultCORSConfig([]string{"http://app.test"}))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/posts", nil)
	req.Header.Set("Origin", "http://app.test")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "http://app.test", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/posts", nil)
	req.Header.Set("Origin", "http://evil.test")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestLoggerUsesRoutePattern(t *testing.T) {
	metrics := utils.NewMetricsCollector()
	var logs bytes.Buffer
	logger := utils.NewLogger(&logs, false)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /posts/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	h := RequestLogger(logger, metrics)(mux)

	req := httptest.NewRequest(http.MethodGet, "/posts/"+uuid.NewString(), nil)
	h.ServeHTTP(httptest.NewRecorder(), req)

	count, err := testutil.GatherAndCount(metrics.Registry(), "blog_http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Contains(t, logs.String(), "GET /posts/{id}")
}

func TestRecoveryReturns500(t *testing.T) {
	h := Recovery(utils.DiscardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
