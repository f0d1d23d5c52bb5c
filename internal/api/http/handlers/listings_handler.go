package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/rental-moderation/internal/api/dto"
	"github.com/spec-kit/rental-moderation/internal/auth"
	"github.com/spec-kit/rental-moderation/internal/domain"
	"github.com/spec-kit/rental-moderation/internal/service"
	apperrors "github.com/spec-kit/rental-moderation/pkg/util"
)

// ListingsHandler manages the moderation endpoints.
type ListingsHandler struct {
	moderation *service.ModerationService
	stats      *service.StatsService
}

// NewListingsHandler constructs handler.
func NewListingsHandler(moderation *service.ModerationService, stats *service.StatsService) *ListingsHandler {
	return &ListingsHandler{moderation: moderation, stats: stats}
}

// List GET /listings.
func (h *ListingsHandler) List(c *fiber.Ctx) error {
	filter, err := parseListingQuery(c)
	if err != nil {
		return err
	}
	listings, err := h.moderation.ListListings(c.Context(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.ListingResponse, 0, len(listings))
	for i := range listings {
		items = append(items, dto.FromDomain(&listings[i]))
	}
	return c.JSON(items)
}

// SetStatus PUT /listings.
func (h *ListingsHandler) SetStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Admin == nil {
		return apperrors.NewUnauthorized("admin required")
	}
	var req dto.SetStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.ID == "" {
		return apperrors.NewValidationError("id required", nil)
	}

	decision, err := decisionFromRequest(req)
	if err != nil {
		return err
	}
	listing, err := h.moderation.Decide(c.Context(), principal.Admin.ID, req.ID, decision)
	if err != nil {
		return err
	}
	h.stats.Invalidate(c.Context())
	return c.JSON(dto.UpdatedItemResponse{UpdatedItem: dto.FromDomain(listing)})
}

// Update POST /listings.
func (h *ListingsHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Admin == nil {
		return apperrors.NewUnauthorized("admin required")
	}
	var req dto.UpdateListingRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.ID == "" {
		return apperrors.NewValidationError("id required", nil)
	}

	input := service.UpdateFieldsInput{
		Title:       req.UpdatedData.Title,
		Description: req.UpdatedData.Description,
		Price:       req.UpdatedData.Price,
		Location:    req.UpdatedData.Location,
	}
	listing, err := h.moderation.UpdateFields(c.Context(), req.ID, input)
	if err != nil {
		return err
	}
	h.stats.Invalidate(c.Context())
	return c.JSON(dto.UpdatedItemResponse{UpdatedItem: dto.FromDomain(listing)})
}

// Stats GET /listings/stats.
func (h *ListingsHandler) Stats(c *fiber.Ctx) error {
	overview, err := h.stats.Overview(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(overview)
}

func parseListingQuery(c *fiber.Ctx) (service.ListingFilter, error) {
	filter := service.ListingFilter{}
	if statusStr := strings.TrimSpace(c.Query("status")); statusStr != "" {
		status := domain.ListingStatus(statusStr)
		if !status.Valid() {
			return filter, apperrors.NewValidationError("unknown status filter", map[string]any{"status": statusStr})
		}
		filter.Status = &status
	}
	if category := strings.TrimSpace(c.Query("category")); category != "" {
		filter.Category = &category
	}
	return filter, nil
}

func decisionFromRequest(req dto.SetStatusRequest) (service.Decision, error) {
	switch domain.ListingStatus(req.Status) {
	case domain.ListingStatusApproved:
		return service.ApproveDecision{}, nil
	case domain.ListingStatusRejected:
		reason := ""
		if req.RejectionReason != nil {
			reason = *req.RejectionReason
		}
		return service.RejectDecision{Reason: reason}, nil
	default:
		return nil, apperrors.NewValidationError("status must be approved or rejected", map[string]any{"status": req.Status})
	}
}
