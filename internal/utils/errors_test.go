package utils

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorToHTTPStatus(t *testing.T) {
	cases := map[string]int{
		ErrNotFound:           http.StatusNotFound,
		ErrInvalidInput:       http.StatusBadRequest,
		ErrInvalidCredentials: http.StatusBadRequest,
		ErrUnauthorized:       http.StatusUnauthorized,
		ErrInvalidToken:       http.StatusUnauthorized,
		ErrForbidden:          http.StatusForbidden,
		ErrAccountInactive:    http.StatusForbidden,
		ErrDuplicate:          http.StatusConflict,
		ErrDatabase:           http.StatusInternalServerError,
		"something_else":      http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, AppErrorToHTTPStatus(code), code)
	}
}

func TestWrappedAppError(t *testing.T) {
	origin := errors.New("boom")
	err := fmt.Errorf("while loading: %w", NewAppError(ErrDatabase, "failed to query", origin))

	appErr, ok := AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, ErrDatabase, appErr.Code)
	assert.ErrorIs(t, err, origin)
	assert.True(t, IsErrorCode(err, ErrDatabase))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(err))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("plain")))
	assert.Equal(t, "failed to query: boom", appErr.Error())
}

func TestIsAuthError(t *testing.T) {
	assert.True(t, IsAuthError(NewForbiddenError("no")))
	assert.True(t, IsAuthError(NewAppError(ErrInvalidToken, "bad token", nil)))
	assert.False(t, IsAuthError(NewNotFoundError("post")))
	assert.False(t, IsAuthError(errors.New("x")))
}

func TestMetricsCollector(t *testing.T) {
	mc := NewMetricsCollector()
	mc.RecordLikeToggle(true)
	mc.RecordLikeToggle(true)
	mc.RecordLikeToggle(false)
	mc.RecordFirstView()
	mc.ObserveRequest("GET", "GET /posts", 200, 15*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(mc.likes.WithLabelValues("liked")))
	assert.Equal(t, 1.0, testutil.ToFloat64(mc.likes.WithLabelValues("unliked")))
	assert.Equal(t, 1.0, testutil.ToFloat64(mc.firstViews))
	assert.Equal(t, 1.0, testutil.ToFloat64(mc.requests.WithLabelValues("GET", "GET /posts", "200")))

	count, err := testutil.GatherAndCount(mc.Registry(), "blog_http_requests_total", "blog_like_toggles_total")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	var nilCollector *MetricsCollector
	assert.NotPanics(t, func() {
		nilCollector.RecordFirstView()
		nilCollector.IncrementErrors(ErrForbidden)
		nilCollector.ObserveRequest("GET", "/", 200, time.Second)
	})
}
