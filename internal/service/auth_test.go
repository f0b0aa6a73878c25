package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/pantryapp/pantry-server/internal/auth"
	domainerrors "github.com/pantryapp/pantry-server/internal/errors"
	"github.com/pantryapp/pantry-server/internal/store/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupAuthTest creates services with temporary storage for testing.
func setupAuthTest(t *testing.T) (*AuthService, *SessionService) {
	t.Helper()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	s, err := sqlite.Open(dbPath, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	authKey, err := auth.LoadOrGenerateKey(tmpDir)
	require.NoError(t, err)

	tokenService, err := auth.NewTokenService(authKey, 15*time.Minute, 30*24*time.Hour)
	require.NoError(t, err)

	sessionService := NewSessionService(s, tokenService, nil)
	authService := NewAuthService(s, tokenService, sessionService, nil)

	return authService, sessionService
}

func TestAuthService_Register_FirstUserIsSuperuser(t *testing.T) {
	authService, _ := setupAuthTest(t)
	ctx := context.Background()

	user, err := authService.Register(ctx, RegisterRequest{
		Email:    "admin@example.com",
		Password: "password123",
		Name:     "Admin",
	})
	require.NoError(t, err)

	assert.True(t, user.IsSuperuser)
	assert.True(t, user.IsStaff)
	assert.True(t, user.IsActive)
	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "password123", user.PasswordHash)
}

func TestAuthService_Register_SecondUserIsRegular(t *testing.T) {
	authService, _ := setupAuthTest(t)
	ctx := context.Background()

	_, err := authService.Register(ctx, RegisterRequest{
		Email:    "admin@example.com",
		Password: "password123",
		Name:     "Admin",
	})
	require.NoError(t, err)

	user, err := authService.Register(ctx, RegisterRequest{
		Email:    "chef@example.com",
		Password: "password123",
		Name:     "Chef",
	})
	require.NoError(t, err)

	assert.False(t, user.IsSuperuser)
	assert.False(t, user.IsStaff)
	assert.True(t, user.IsActive)
}

func TestAuthService_Register_NormalizesEmail(t *testing.T) {
	authService, _ := setupAuthTest(t)

	user, err := authService.Register(context.Background(), RegisterRequest{
		Email:    "Chef@EXAMPLE.COM",
		Password: "password123",
		Name:     "Chef",
	})
	require.NoError(t, err)

	assert.Equal(t, "Chef@example.com", user.Email)
}

func TestAuthService_GetProfile(t *testing.T) {
	authService, _ := setupAuthTest(t)
	ctx := context.Background()

	user, err := authService.Register(ctx, RegisterRequest{
		Email:    "chef@example.com",
		Password: "password123",
		Name:     "Chef",
	})
	require.NoError(t, err)

	got, err := authService.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, "chef@example.com", got.Email)
	assert.Equal(t, "Chef", got.Name)

	_, err = authService.GetProfile(ctx, "user-missing")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	authService, _ := setupAuthTest(t)
	ctx := context.Background()

	req := RegisterRequest{
		Email:    "chef@example.com",
		Password: "password123",
		Name:     "Chef",
	}
	_, err := authService.Register(ctx, req)
	require.NoError(t, err)

	_, err = authService.Register(ctx, req)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrAlreadyExists))
}

func TestAuthService_Register_Validation(t *testing.T) {
	authService, _ := setupAuthTest(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  RegisterRequest
	}{
		{"missing email", RegisterRequest{Password: "password123", Name: "Chef"}},
		{"bad email", RegisterRequest{Email: "nope", Password: "password123", Name: "Chef"}},
		{"short password", RegisterRequest{Email: "chef@example.com", Password: "ab", Name: "Chef"}},
		{"missing name", RegisterRequest{Email: "chef@example.com", Password: "password123"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := authService.Register(ctx, tt.req)
			assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation), "got %v", err)
		})
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	authService, _ := setupAuthTest(t)
	ctx := context.Background()

	_, err := authService.Register(ctx, RegisterRequest{
		Email:    "chef@example.com",
		Password: "password123",
		Name:     "Chef",
	})
	require.NoError(t, err)

	resp, err := authService.Login(ctx, LoginRequest{
		Email:    "chef@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.NotEmpty(t, resp.SessionID)
	assert.False(t, resp.User.LastLoginAt.IsZero())
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	authService, _ := setupAuthTest(t)
	ctx := context.Background()

	_, err := authService.Register(ctx, RegisterRequest{
		Email:    "chef@example.com",
		Password: "password123",
		Name:     "Chef",
	})
	require.NoError(t, err)

	_, err = authService.Login(ctx, LoginRequest{
		Email:    "chef@example.com",
		Password: "wrong-password",
	})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	authService, _ := setupAuthTest(t)

	_, err := authService.Login(context.Background(), LoginRequest{
		Email:    "ghost@example.com",
		Password: "password123",
	})
	// Same error as a wrong password, nothing leaked.
	assert.True(t, domainerrors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestAuthService_VerifyAccessToken(t *testing.T) {
	authService, _ := setupAuthTest(t)
	ctx := context.Background()

	registered, err := authService.Register(ctx, RegisterRequest{
		Email:    "chef@example.com",
		Password: "password123",
		Name:     "Chef",
	})
	require.NoError(t, err)

	resp, err := authService.Login(ctx, LoginRequest{
		Email:    "chef@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	user, claims, err := authService.VerifyAccessToken(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.Equal(t, registered.ID, claims.UserID)
	assert.Equal(t, registered.Email, claims.Email)
}

func TestAuthService_VerifyAccessToken_Garbage(t *testing.T) {
	authService, _ := setupAuthTest(t)

	_, _, err := authService.VerifyAccessToken(context.Background(), "not-a-token")
	assert.Error(t, err)
}

func TestAuthService_RefreshTokens_Rotation(t *testing.T) {
	authService, _ := setupAuthTest(t)
	ctx := context.Background()

	_, err := authService.Register(ctx, RegisterRequest{
		Email:    "chef@example.com",
		Password: "password123",
		Name:     "Chef",
	})
	require.NoError(t, err)

	login, err := authService.Login(ctx, LoginRequest{
		Email:    "chef@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	refreshed, err := authService.RefreshTokens(ctx, RefreshRequest{
		RefreshToken: login.RefreshToken,
	})
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)
	assert.Equal(t, login.SessionID, refreshed.SessionID)

	// The old refresh token is dead after rotation.
	_, err = authService.RefreshTokens(ctx, RefreshRequest{
		RefreshToken: login.RefreshToken,
	})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrTokenExpired))
}

func TestAuthService_Logout(t *testing.T) {
	authService, _ := setupAuthTest(t)
	ctx := context.Background()

	_, err := authService.Register(ctx, RegisterRequest{
		Email:    "chef@example.com",
		Password: "password123",
		Name:     "Chef",
	})
	require.NoError(t, err)

	login, err := authService.Login(ctx, LoginRequest{
		Email:    "chef@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	require.NoError(t, authService.Logout(ctx, login.SessionID))

	// Refresh no longer works.
	_, err = authService.RefreshTokens(ctx, RefreshRequest{
		RefreshToken: login.RefreshToken,
	})
	assert.Error(t, err)
}

func TestAuthService_UpdateProfile(t *testing.T) {
	authService, _ := setupAuthTest(t)
	ctx := context.Background()

	user, err := authService.Register(ctx, RegisterRequest{
		Email:    "chef@example.com",
		Password: "password123",
		Name:     "Chef",
	})
	require.NoError(t, err)

	newName := "Head Chef"
	newPassword := "better-password"
	updated, err := authService.UpdateProfile(ctx, user.ID, UpdateProfileRequest{
		Name:     &newName,
		Password: &newPassword,
	})
	require.NoError(t, err)
	assert.Equal(t, "Head Chef", updated.Name)

	// Old password no longer works, new one does.
	_, err = authService.Login(ctx, LoginRequest{Email: "chef@example.com", Password: "password123"})
	assert.Error(t, err)

	_, err = authService.Login(ctx, LoginRequest{Email: "chef@example.com", Password: "better-password"})
	assert.NoError(t, err)
}

func TestAuthService_UpdateProfile_CannotTakeUsedEmail(t *testing.T) {
	authService, _ := setupAuthTest(t)
	ctx := context.Background()

	_, err := authService.Register(ctx, RegisterRequest{
		Email:    "first@example.com",
		Password: "password123",
		Name:     "First",
	})
	require.NoError(t, err)

	second, err := authService.Register(ctx, RegisterRequest{
		Email:    "second@example.com",
		Password: "password123",
		Name:     "Second",
	})
	require.NoError(t, err)

	taken := "first@example.com"
	_, err = authService.UpdateProfile(ctx, second.ID, UpdateProfileRequest{Email: &taken})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrAlreadyExists))
}
