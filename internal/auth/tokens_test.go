package auth

import (
	"strings"
	"testing"
	"time"

	"boom-blog/internal/models"
	"boom-blog/internal/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokens(t *testing.T) *TokenService {
	t.Helper()
	svc, err := NewTokenService("test-secret", 30*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)
	return svc
}

func TestIssueAndDecode(t *testing.T) {
	svc := newTestTokens(t)
	userID := uuid.New()

	access, err := svc.IssueAccess(userID)
	require.NoError(t, err)
	claims, err := svc.Decode(access, AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, AccessToken, claims.TokenType)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), claims.ExpiresAt.Time, 2*time.Second)

	refresh, err := svc.IssueRefresh(userID)
	require.NoError(t, err)
	claims, err = svc.Decode(refresh, RefreshToken)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), claims.ExpiresAt.Time, 2*time.Second)
}

func TestDecodeRejectsWrongKind(t *testing.T) {
	svc := newTestTokens(t)
	pair, err := svc.IssuePair(uuid.New())
	require.NoError(t, err)

	_, err = svc.Decode(pair.AccessToken, RefreshToken)
	assert.True(t, utils.IsErrorCode(err, utils.ErrInvalidToken))

	_, err = svc.Decode(pair.RefreshToken, AccessToken)
	assert.True(t, utils.IsErrorCode(err, utils.ErrInvalidToken))
}

func TestDecodeRejectsExpired(t *testing.T) {
	svc := newTestTokens(t)
	issuedAt := time.Now().Add(-time.Hour)
	old := svc.WithClock(func() time.Time { return issuedAt })

	token, err := old.IssueAccess(uuid.New())
	require.NoError(t, err)

	claims, err := svc.Decode(token, AccessToken)
	assert.Nil(t, claims)
	assert.True(t, utils.IsErrorCode(err, utils.ErrInvalidToken))
}

func TestDecodeRejectsTampering(t *testing.T) {
	svc := newTestTokens(t)
	token, err := svc.IssueAccess(uuid.New())
	require.NoError(t, err)

	other, err := NewTokenService("another-secret", time.Minute, time.Hour)
	require.NoError(t, err)
	_, err = other.Decode(token, AccessToken)
	assert.True(t, utils.IsErrorCode(err, utils.ErrInvalidToken))

	forged, err := svc.IssueAccess(uuid.New())
	require.NoError(t, err)
	parts := strings.Split(token, ".")
	forgedParts := strings.Split(forged, ".")
	spliced := parts[0] + "." + forgedParts[1] + "." + parts[2]
	_, err = svc.Decode(spliced, AccessToken)
	assert.True(t, utils.IsErrorCode(err, utils.ErrInvalidToken))

	_, err = svc.Decode("", AccessToken)
	assert.True(t, utils.IsErrorCode(err, utils.ErrInvalidToken))
}

func TestDecodeRejectsOtherAlgorithms(t *testing.T) {
	svc := newTestTokens(t)
	userID := uuid.New()
	claims := &Claims{
		UserID:    userID,
		TokenType: AccessToken,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			Issuer:    tokenIssuer,
			Subject:   userID.String(),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = svc.Decode(token, AccessToken)
	assert.True(t, utils.IsErrorCode(err, utils.ErrInvalidToken))

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.Decode(unsigned, AccessToken)
	assert.True(t, utils.IsErrorCode(err, utils.ErrInvalidToken))
}

func TestNewTokenServiceValidation(t *testing.T) {
	_, err := NewTokenService("", time.Minute, time.Hour)
	assert.Error(t, err)
	_, err = NewTokenService("x", 0, time.Hour)
	assert.Error(t, err)
}

func TestIdentity(t *testing.T) {
	anon := Anonymous()
	_, ok := anon.User()
	assert.False(t, ok)
	assert.True(t, anon.IsAnonymous())
	assert.False(t, anon.IsAdmin())
	assert.Equal(t, uuid.Nil, anon.UserID())

	admin := Authenticated(&models.User{ID: uuid.New(), IsActive: true, IsAdmin: true})
	assert.True(t, admin.IsAdmin())

	inactiveAdmin := Authenticated(&models.User{ID: uuid.New(), IsActive: false, IsAdmin: true})
	assert.False(t, inactiveAdmin.IsAdmin())
	assert.False(t, inactiveAdmin.IsActive())
}
