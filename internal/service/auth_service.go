package service

import (
	"context"
	"errors"
	"time"

	"github.com/spec-kit/rental-moderation/internal/auth"
	"github.com/spec-kit/rental-moderation/internal/config"
	"github.com/spec-kit/rental-moderation/internal/domain"
	"github.com/spec-kit/rental-moderation/internal/repository"
	apperrors "github.com/spec-kit/rental-moderation/pkg/util"
)

// AuthService authenticates admins against the seeded credential store.
type AuthService struct {
	admins   repository.AdminRepository
	tokenMgr *auth.TokenManager
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, admins repository.AdminRepository) *AuthService {
	return &AuthService{
		admins:   admins,
		tokenMgr: auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
	}
}

// Login authenticates an admin and returns the profile with a signed
// token. The password hash never leaves this layer.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Admin, string, time.Time, error) {
	admin, err := s.admins.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrAdminNotFound) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, err
	}
	if err := auth.ComparePassword(admin.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	token, exp, err := s.tokenMgr.GenerateToken(admin.ID)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return admin, token, exp, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
