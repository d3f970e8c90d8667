package engine

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"boom-blog/internal/auth"
	"boom-blog/internal/config"
	"boom-blog/internal/database"
	"boom-blog/internal/models"
	"boom-blog/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	engine *Engine
	store  *database.SQLStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, err := database.NewSQLiteDB(config.SQLiteDSN(filepath.Join(t.TempDir(), "blog.db")), nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close(context.Background()) })
	require.NoError(t, store.InitializeTables(context.Background()))

	tokens, err := auth.NewTokenService("engine-test", 30*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)
	return &fixture{engine: NewEngine(store, tokens, utils.NewMetricsCollector(), nil), store: store}
}

// login signs in (registering if needed) and returns the caller identity.
func (f *fixture) login(t *testing.T, email string) auth.Identity {
	t.Helper()
	res, err := f.engine.LoginOrRegister(context.Background(), email, "password123")
	require.NoError(t, err)
	return auth.Authenticated(res.User)
}

func (f *fixture) admin(t *testing.T, email string) auth.Identity {
	t.Helper()
	user, err := f.engine.EnsureAdmin(context.Background(), email, "password123")
	require.NoError(t, err)
	return auth.Authenticated(user)
}

// reload re-reads the identity so flag changes are visible.
func (f *fixture) reload(t *testing.T, id auth.Identity) auth.Identity {
	t.Helper()
	user, err := f.store.GetUser(context.Background(), id.UserID())
	require.NoError(t, err)
	return auth.Authenticated(user)
}

func ptr[T any](v T) *T { return &v }

func TestLoginOrRegister(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first, err := f.engine.LoginOrRegister(ctx, "  New.User@Example.com ", "secret-pw")
	require.NoError(t, err)
	assert.True(t, first.Created)
	assert.True(t, first.User.IsActive)
	assert.False(t, first.User.IsAdmin)
	assert.Equal(t, "new.user@example.com", first.User.Email)
	assert.Equal(t, "new.user", first.User.Username)
	assert.NotEmpty(t, first.Tokens.AccessToken)
	assert.NotEmpty(t, first.Tokens.RefreshToken)

	again, err := f.engine.LoginOrRegister(ctx, "new.user@example.com", "secret-pw")
	require.NoError(t, err)
	assert.False(t, again.Created)
	assert.Equal(t, first.User.ID, again.User.ID)

	users, err := f.store.ListUsers(ctx, models.NewPagination(0, 0))
	require.NoError(t, err)
	assert.Equal(t, 1, users.Total)

	_, err = f.engine.LoginOrRegister(ctx, "new.user@example.com", "wrong")
	assert.True(t, utils.IsErrorCode(err, utils.ErrInvalidCredentials))
}

func TestLoginOrRegisterValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for _, email := range []string{"", "not-an-email", "Name <a@b.com>"} {
		_, err := f.engine.LoginOrRegister(ctx, email, "pw")
		assert.True(t, utils.IsErrorCode(err, utils.ErrInvalidInput), email)
	}
	_, err := f.engine.LoginOrRegister(ctx, "a@b.com", "")
	assert.True(t, utils.IsErrorCode(err, utils.ErrInvalidInput))

	long := strings.Repeat("a", 250) + "@example.com"
	_, err = f.engine.LoginOrRegister(ctx, long, "password123")
	assert.True(t, utils.IsErrorCode(err, utils.ErrInvalidInput))

	self := f.login(t, "short@example.com")
	_, err = f.engine.UpdateUser(ctx, self, self.UserID(), UserChanges{Email: &long})
	assert.True(t, utils.IsErrorCode(err, utils.ErrInvalidInput))
}

func TestLoginInactiveIsRefusedBeforePasswordCheck(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	admin := f.admin(t, "admin@example.com")
	member := f.login(t, "member@example.com")

	_, err := f.engine.ToggleUserActive(ctx, admin, member.UserID())
	require.NoError(t, err)

	_, err = f.engine.LoginOrRegister(ctx, "member@example.com", "password123")
	assert.True(t, utils.IsErrorCode(err, utils.ErrAccountInactive))
	_, err = f.engine.LoginOrRegister(ctx, "member@example.com", "wrong")
	assert.True(t, utils.IsErrorCode(err, utils.ErrAccountInactive))
}

func TestUsernameCollisionGetsSuffix(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	a, err := f.engine.LoginOrRegister(ctx, "sam@one.test", "pw")
	require.NoError(t, err)
	b, err := f.engine.LoginOrRegister(ctx, "sam@two.test", "pw")
	require.NoError(t, err)

	assert.Equal(t, "sam", a.User.Username)
	assert.NotEqual(t, a.User.Username, b.User.Username)
	assert.Contains(t, b.User.Username, "sam_")
}

func TestRefreshAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	admin := f.admin(t, "admin@example.com")

	res, err := f.engine.LoginOrRegister(ctx, "reader@example.com", "pw")
	require.NoError(t, err)

	user, err := f.engine.Authenticate(ctx, res.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, user.ID)

	_, err = f.engine.Authenticate(ctx, res.Tokens.RefreshToken)
	assert.True(t, utils.IsErrorCode(err, utils.ErrInvalidToken))

	user, pair, err := f.engine.Refresh(ctx, res.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, user.ID)
	claims, err := f.engine.Tokens().Decode(pair.AccessToken, auth.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.UserID)

	_, _, err = f.engine.Refresh(ctx, res.Tokens.AccessToken)
	assert.True(t, utils.IsErrorCode(err, utils.ErrInvalidToken))

	_, err = f.engine.ToggleUserActive(ctx, admin, res.User.ID)
	require.NoError(t, err)
	_, _, err = f.engine.Refresh(ctx, res.Tokens.RefreshToken)
	assert.True(t, utils.IsErrorCode(err, utils.ErrAccountInactive))
}

func TestEnsureAdminPromotesExistingUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	member := f.login(t, "boss@example.com")
	assert.False(t, member.IsAdmin())

	admin := f.admin(t, "boss@example.com")
	assert.Equal(t, member.UserID(), admin.UserID())
	assert.True(t, admin.IsAdmin())

	again, err := f.engine.EnsureAdmin(ctx, "boss@example.com", "password123")
	require.NoError(t, err)
	assert.True(t, again.IsAdmin)
}

func TestEnsureAdminTakesOverPreRegisteredAddress(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	squatter, err := f.engine.LoginOrRegister(ctx, "ops@example.com", "squatter-pw")
	require.NoError(t, err)

	admin, err := f.engine.EnsureAdmin(ctx, "ops@example.com", "operator-pw")
	require.NoError(t, err)
	assert.Equal(t, squatter.User.ID, admin.ID)
	assert.True(t, admin.IsAdmin)

	_, err = f.engine.LoginOrRegister(ctx, "ops@example.com", "squatter-pw")
	assert.True(t, utils.IsErrorCode(err, utils.ErrInvalidCredentials))

	res, err := f.engine.LoginOrRegister(ctx, "ops@example.com", "operator-pw")
	require.NoError(t, err)
	assert.True(t, res.User.IsAdmin)
}

func TestUserProfileRules(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	admin := f.admin(t, "admin@example.com")
	alice := f.login(t, "alice@example.com")
	bob := f.login(t, "bob@example.com")

	_, err := f.engine.GetUser(ctx, alice, bob.UserID())
	assert.True(t, utils.IsErrorCode(err, utils.ErrForbidden))

	got, err := f.engine.GetUser(ctx, admin, bob.UserID())
	require.NoError(t, err)
	assert.Equal(t, bob.UserID(), got.ID)

	updated, err := f.engine.UpdateUser(ctx, alice, alice.UserID(), UserChanges{Username: ptr("alice_w"), Password: ptr("newpass")})
	require.NoError(t, err)
	assert.Equal(t, "alice_w", updated.Username)
	_, err = f.engine.LoginOrRegister(ctx, "alice@example.com", "newpass")
	require.NoError(t, err)

	_, err = f.engine.UpdateUser(ctx, alice, alice.UserID(), UserChanges{IsAdmin: ptr(true)})
	assert.True(t, utils.IsErrorCode(err, utils.ErrForbidden))

	_, err = f.engine.UpdateUser(ctx, alice, alice.UserID(), UserChanges{Username: ptr("bob")})
	assert.True(t, utils.IsErrorCode(err, utils.ErrDuplicate))

	_, err = f.engine.ListUsers(ctx, alice, models.NewPagination(0, 0))
	assert.True(t, utils.IsErrorCode(err, utils.ErrForbidden))

	err = f.engine.DeactivateUser(ctx, admin, admin.UserID())
	assert.True(t, utils.IsErrorCode(err, utils.ErrForbidden))

	require.NoError(t, f.engine.DeactivateUser(ctx, admin, bob.UserID()))
	bob = f.reload(t, bob)
	assert.False(t, bob.IsActive())

	// Deactivated, not deleted: the profile is still there and readable by its owner.
	me, err := f.engine.GetUser(ctx, bob, bob.UserID())
	require.NoError(t, err)
	assert.False(t, me.IsActive)
}

func TestToggleUserActiveRules(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	admin := f.admin(t, "admin@example.com")
	alice := f.login(t, "alice@example.com")
	bob := f.login(t, "bob@example.com")

	_, err := f.engine.ToggleUserActive(ctx, alice, bob.UserID())
	assert.True(t, utils.IsErrorCode(err, utils.ErrForbidden))
	_, err = f.engine.ToggleUserActive(ctx, alice, alice.UserID())
	assert.True(t, utils.IsErrorCode(err, utils.ErrForbidden))
	_, err = f.engine.ToggleUserActive(ctx, admin, admin.UserID())
	assert.True(t, utils.IsErrorCode(err, utils.ErrForbidden))

	user, err := f.engine.ToggleUserActive(ctx, admin, bob.UserID())
	require.NoError(t, err)
	assert.False(t, user.IsActive)
	user, err = f.engine.ToggleUserActive(ctx, admin, bob.UserID())
	require.NoError(t, err)
	assert.True(t, user.IsActive)
}
