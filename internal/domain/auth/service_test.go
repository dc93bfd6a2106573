package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"suratdesa/internal/core/apperror"
	"suratdesa/internal/core/id"
)

type memUserRepo struct {
	mu    sync.Mutex
	users map[id.ID]*User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[id.ID]*User)}
}

func (r *memUserRepo) Create(_ context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, uid id.ID) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[uid]
	if !ok {
		return nil, apperror.NewNotFound("user", uid)
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) GetByUsername(_ context.Context, username string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("user", username)
}

func (r *memUserRepo) Update(_ context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return apperror.NewNotFound("user", u.ID)
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) List(_ context.Context, _ UserFilter) ([]User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *memUserRepo) Exists(_ context.Context, username string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

type memTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]*RefreshToken
}

func newMemTokenRepo() *memTokenRepo {
	return &memTokenRepo{tokens: make(map[string]*RefreshToken)}
}

func (r *memTokenRepo) SaveRefreshToken(_ context.Context, t *RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *t
	r.tokens[t.TokenHash] = &cp
	return nil
}

func (r *memTokenRepo) GetRefreshToken(_ context.Context, hash string) (*RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[hash]
	if !ok {
		return nil, apperror.NewNotFound("refresh token", hash)
	}
	cp := *t
	return &cp, nil
}

func (r *memTokenRepo) RevokeRefreshToken(_ context.Context, tokenID id.ID, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tokens {
		if t.ID == tokenID {
			now := time.Now()
			t.RevokedAt = &now
			t.RevokedReason = reason
		}
	}
	return nil
}

func (r *memTokenRepo) RevokeAllUserTokens(_ context.Context, userID id.ID, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tokens {
		if t.UserID == userID && t.RevokedAt == nil {
			now := time.Now()
			t.RevokedAt = &now
			t.RevokedReason = reason
		}
	}
	return nil
}

func (r *memTokenRepo) CleanupExpiredTokens(_ context.Context) (int, error) {
	return 0, nil
}

type nopTxManager struct{}

func (nopTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	jwtSvc := NewJWTService(DefaultJWTConfig("test-secret"))
	return NewService(newMemUserRepo(), newMemTokenRepo(), nopTxManager{}, jwtSvc, DefaultServiceConfig())
}

func TestCreateUserAndLogin(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, "siti", "rahasia-desa", "Siti Aminah", RoleOperator)
	require.NoError(t, err)
	assert.Equal(t, RoleOperator, user.Role)
	assert.NotEqual(t, "rahasia-desa", user.PasswordHash)

	tokens, logged, err := svc.Login(ctx, Credentials{Username: "siti", Password: "rahasia-desa"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.Equal(t, "Bearer", tokens.TokenType)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "siti", "rahasia-desa", "Siti Aminah", RoleOperator)
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, Credentials{Username: "siti", Password: "salah"})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeUnauthorized))
}

func TestLoginLockoutAfterRepeatedFailures(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "siti", "rahasia-desa", "Siti Aminah", RoleOperator)
	require.NoError(t, err)

	for i := 0; i < svc.config.MaxLoginAttempts; i++ {
		_, _, err = svc.Login(ctx, Credentials{Username: "siti", Password: "salah"})
		require.Error(t, err)
	}

	// Correct password no longer helps while locked.
	_, _, err = svc.Login(ctx, Credentials{Username: "siti", Password: "rahasia-desa"})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeForbidden))
}

func TestCreateUserRejectsShortPassword(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CreateUser(context.Background(), "siti", "abc", "Siti Aminah", RoleOperator)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}

func TestCreateUserRejectsDuplicateUsername(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "siti", "rahasia-desa", "Siti Aminah", RoleOperator)
	require.NoError(t, err)

	_, err = svc.CreateUser(ctx, "siti", "rahasia-lain", "Siti Kedua", RoleAdmin)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeConflict))
}

func TestRefreshTokenRotation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "siti", "rahasia-desa", "Siti Aminah", RoleOperator)
	require.NoError(t, err)
	tokens, _, err := svc.Login(ctx, Credentials{Username: "siti", Password: "rahasia-desa"})
	require.NoError(t, err)

	fresh, err := svc.RefreshToken(ctx, tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, tokens.RefreshToken, fresh.RefreshToken)

	// The old token was rotated out and cannot be used again.
	_, err = svc.RefreshToken(ctx, tokens.RefreshToken)
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeUnauthorized))
}

func TestLogoutRevokesTokens(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, "siti", "rahasia-desa", "Siti Aminah", RoleOperator)
	require.NoError(t, err)
	tokens, _, err := svc.Login(ctx, Credentials{Username: "siti", Password: "rahasia-desa"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, user.ID))

	_, err = svc.RefreshToken(ctx, tokens.RefreshToken)
	assert.Error(t, err)
}

func TestJWTRoundTrip(t *testing.T) {
	jwtSvc := NewJWTService(DefaultJWTConfig("test-secret"))
	user := NewUser("siti", "hash", "Siti Aminah", RoleAdmin)

	token, expiresAt, err := jwtSvc.GenerateAccessToken(user)
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))

	uc, err := jwtSvc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), uc.UserID)
	assert.Equal(t, "siti", uc.Username)
	assert.True(t, uc.IsAdmin)

	// A token signed with a different secret is rejected.
	other := NewJWTService(DefaultJWTConfig("other-secret"))
	_, err = other.ValidateToken(token)
	assert.Error(t, err)
}
