package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/rental-moderation/internal/auth"
	"github.com/spec-kit/rental-moderation/internal/config"
	"github.com/spec-kit/rental-moderation/internal/domain"
	"github.com/spec-kit/rental-moderation/internal/repository"
)

func newAuthService(t *testing.T) (*AuthService, domain.Admin) {
	t.Helper()
	hash, err := auth.HashPassword("s3cret", bcrypt.MinCost)
	require.NoError(t, err)

	admin := domain.Admin{
		ID:           "ADM-1",
		Name:         "Priya",
		Email:        "priya@example.com",
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	cfg := config.Config{Auth: config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 60,
		BcryptCost:            bcrypt.MinCost,
	}}
	return NewAuthService(cfg, repository.NewMemoryAdminRepository([]domain.Admin{admin})), admin
}

func TestLoginSuccessIssuesToken(t *testing.T) {
	svc, seeded := newAuthService(t)

	admin, token, exp, err := svc.Login(context.Background(), "priya@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, admin.ID)
	assert.Equal(t, seeded.Email, admin.Email)
	assert.True(t, exp.After(time.Now()))

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, claims.AdminID)
}

func TestLoginEmailIsCaseInsensitive(t *testing.T) {
	svc, _ := newAuthService(t)

	_, _, _, err := svc.Login(context.Background(), "PRIYA@example.com", "s3cret")
	assert.NoError(t, err)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newAuthService(t)

	_, _, _, err := svc.Login(context.Background(), "priya@example.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", domainErrCode(t, err))
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _ := newAuthService(t)

	_, _, _, err := svc.Login(context.Background(), "nobody@example.com", "s3cret")
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", domainErrCode(t, err))
}
