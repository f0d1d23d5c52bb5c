package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/rental-moderation/internal/api/dto"
	"github.com/spec-kit/rental-moderation/internal/service"
	apperrors "github.com/spec-kit/rental-moderation/pkg/util"
)

// AuthHandler exposes the admin login endpoint.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	admin, token, exp, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(dto.LoginResponse{
		User: dto.AdminProfile{
			ID:    admin.ID,
			Name:  admin.Name,
			Email: admin.Email,
		},
		Auth: dto.AuthResponse{Token: token, ExpiresAt: exp},
	})
}
