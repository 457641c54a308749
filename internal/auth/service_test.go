// AngelaMos | 2026
// service_test.go

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/bookstore-api/internal/core"
	"github.com/carterperez-dev/bookstore-api/internal/user"
)

type fakeUserRepo struct {
	byID    map[string]*user.User
	byEmail map[string]*user.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    map[string]*user.User{},
		byEmail: map[string]*user.User{},
	}
}

func (f *fakeUserRepo) Create(_ context.Context, u *user.User) error {
	if _, ok := f.byEmail[u.Email]; ok {
		return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
	}
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*user.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, fmt.Errorf("get user by id: %w", core.ErrNotFound)
	}
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(
	_ context.Context,
	email string,
) (*user.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, fmt.Errorf("get user by email: %w", core.ErrNotFound)
	}
	return u, nil
}

func (f *fakeUserRepo) Update(_ context.Context, u *user.User) error {
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUserRepo) UpdateRole(_ context.Context, id, role string) error {
	u, ok := f.byID[id]
	if !ok {
		return fmt.Errorf("update user role: %w", core.ErrNotFound)
	}
	u.Role = role
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id string) error {
	u, ok := f.byID[id]
	if !ok {
		return fmt.Errorf("delete user: %w", core.ErrNotFound)
	}
	delete(f.byEmail, u.Email)
	delete(f.byID, id)
	return nil
}

func (f *fakeUserRepo) List(
	_ context.Context,
	_ user.ListUsersParams,
) ([]user.User, int, error) {
	return nil, 0, nil
}

func newTestAuthService(t *testing.T) (*Service, *fakeUserRepo) {
	t.Helper()
	repo := newFakeUserRepo()
	tokens := newTestTokenService(t)
	return NewService(repo, tokens, slog.New(slog.DiscardHandler)), repo
}

func TestRegisterCreatesUserWithTokens(t *testing.T) {
	svc, repo := newTestAuthService(t)

	result, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Angela",
		Email:    "  Angela@Example.COM ",
		Password: "sup3r-secret-pw",
	})
	require.NoError(t, err)

	// Email is canonicalized to lowercase.
	assert.Equal(t, "angela@example.com", result.User.Email)
	assert.Equal(t, user.RoleUser, result.User.Role)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.NotEqual(t, result.AccessToken, result.RefreshToken)

	// Password is stored hashed.
	stored := repo.byEmail["angela@example.com"]
	require.NotNil(t, stored)
	assert.NotEqual(t, "sup3r-secret-pw", stored.PasswordHash)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestAuthService(t)

	req := RegisterRequest{
		Name:     "Angela",
		Email:    "angela@example.com",
		Password: "sup3r-secret-pw",
	}

	_, err := svc.Register(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), req)
	require.Error(t, err)

	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "EMAIL_EXISTS", appErr.Code)
	assert.Equal(t, 409, appErr.Status)
}

func TestLogin(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Angela",
		Email:    "angela@example.com",
		Password: "sup3r-secret-pw",
	})
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		result, err := svc.Login(context.Background(), LoginRequest{
			Email:    "ANGELA@example.com",
			Password: "sup3r-secret-pw",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), LoginRequest{
			Email:    "angela@example.com",
			Password: "wrong",
		})
		require.Error(t, err)

		var appErr *core.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "INVALID_CREDENTIALS", appErr.Code)
		assert.Equal(t, 401, appErr.Status)
	})

	t.Run("unknown email gets the same error", func(t *testing.T) {
		_, err := svc.Login(context.Background(), LoginRequest{
			Email:    "nobody@example.com",
			Password: "whatever",
		})
		require.Error(t, err)

		var appErr *core.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "INVALID_CREDENTIALS", appErr.Code)
	})
}

func TestRefreshMintsNewPair(t *testing.T) {
	svc, repo := newTestAuthService(t)

	result, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Angela",
		Email:    "angela@example.com",
		Password: "sup3r-secret-pw",
	})
	require.NoError(t, err)

	// Promote the user; the refreshed access token must carry the new
	// role because Refresh re-reads the user.
	stored := repo.byEmail["angela@example.com"]
	stored.Role = user.RoleAdmin

	refreshed, err := svc.Refresh(context.Background(), result.RefreshToken)
	require.NoError(t, err)

	tokens := newTestTokenService(t)
	claims, err := tokens.VerifyAccessToken(
		context.Background(),
		refreshed.AccessToken,
	)
	require.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, claims.Role)
}

func TestRefreshRejectsBadToken(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.Refresh(context.Background(), "garbage")
	require.Error(t, err)

	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "INVALID_REFRESH_TOKEN", appErr.Code)
	assert.Equal(t, 403, appErr.Status)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc, _ := newTestAuthService(t)

	result, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Angela",
		Email:    "angela@example.com",
		Password: "sup3r-secret-pw",
	})
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), result.AccessToken)
	require.Error(t, err)

	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "INVALID_REFRESH_TOKEN", appErr.Code)
}

// A structurally valid refresh token whose user no longer exists is
// reported as a missing user, not as a bad token.
func TestRefreshRejectsDeletedUser(t *testing.T) {
	svc, repo := newTestAuthService(t)

	result, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Angela",
		Email:    "angela@example.com",
		Password: "sup3r-secret-pw",
	})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(context.Background(), result.User.ID))

	_, err = svc.Refresh(context.Background(), result.RefreshToken)
	require.Error(t, err)

	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "USER_NOT_FOUND", appErr.Code)
	assert.Equal(t, 404, appErr.Status)
}
