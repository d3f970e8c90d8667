package auth

import (
	"errors"
	"fmt"
	"time"

	"boom-blog/internal/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenType distinguishes short-lived access tokens from refresh tokens.
type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

const tokenIssuer = "boom-blog-api"

// Claims represents the JWT claims for our application
type Claims struct {
	UserID    uuid.UUID `json:"user_id"`
	TokenType TokenType `json:"typ"`
	jwt.RegisteredClaims
}

// TokenPair is what a login or refresh hands back to the client.
type TokenPair struct {
	AccessToken     string
	RefreshToken    string
	RefreshTokenTTL time.Duration
}

// TokenService issues and decodes HS256 tokens. It holds no per-token state.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokenService(secret string, accessTTL, refreshTTL time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("token secret must not be empty")
	}
	if accessTTL <= 0 || refreshTTL <= 0 {
		return nil, errors.New("token lifetimes must be positive")
	}
	return &TokenService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}, nil
}

// WithClock returns a copy of the service that reads time from now. Used in tests.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	clone := *s
	clone.now = now
	return &clone
}

// IssueAccess creates an access token for the given user ID
func (s *TokenService) IssueAccess(userID uuid.UUID) (string, error) {
	return s.issue(userID, AccessToken, s.accessTTL)
}

// IssueRefresh creates a refresh token for the given user ID
func (s *TokenService) IssueRefresh(userID uuid.UUID) (string, error) {
	return s.issue(userID, RefreshToken, s.refreshTTL)
}

// IssuePair issues a fresh access and refresh token together.
func (s *TokenService) IssuePair(userID uuid.UUID) (*TokenPair, error) {
	access, err := s.IssueAccess(userID)
	if err != nil {
		return nil, err
	}
	refresh, err := s.IssueRefresh(userID)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh, RefreshTokenTTL: s.refreshTTL}, nil
}

func (s *TokenService) issue(userID uuid.UUID, kind TokenType, ttl time.Duration) (string, error) {
	now := s.now()
	claims := &Claims{
		UserID:    userID,
		TokenType: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   userID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", utils.NewAppError(utils.ErrInternal, "failed to sign token", err)
	}
	return signed, nil
}

// Decode validates signature, algorithm, expiry and token kind.
// On any failure it returns an INVALID_TOKEN error and no claims.
func (s *TokenService) Decode(tokenString string, want TokenType) (*Claims, error) {
	if tokenString == "" {
		return nil, utils.NewAppError(utils.ErrInvalidToken, "missing token", nil)
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&Claims{},
		func(token *jwt.Token) (interface{}, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, utils.NewAppError(utils.ErrInvalidToken, "token expired", err)
		}
		return nil, utils.NewAppError(utils.ErrInvalidToken, "invalid token", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, utils.NewAppError(utils.ErrInvalidToken, "invalid token", nil)
	}
	if claims.TokenType != want {
		return nil, utils.NewAppError(utils.ErrInvalidToken, fmt.Sprintf("expected %s token", want), nil)
	}
	if claims.UserID == uuid.Nil || claims.Subject != claims.UserID.String() {
		return nil, utils.NewAppError(utils.ErrInvalidToken, "invalid token subject", nil)
	}
	return claims, nil
}
