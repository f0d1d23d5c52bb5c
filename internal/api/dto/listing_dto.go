package dto

import (
	"time"

	"github.com/spec-kit/rental-moderation/internal/domain"
)

// ListingResponse is the wire shape of a listing. Field names follow the
// dashboard client contract.
type ListingResponse struct {
	ID              string               `json:"id"`
	Title           string               `json:"title"`
	Description     string               `json:"description"`
	Location        string               `json:"location"`
	Category        string               `json:"category"`
	Price           float64              `json:"price"`
	Status          domain.ListingStatus `json:"status"`
	CreatedAt       time.Time            `json:"createdAt"`
	UpdatedAt       time.Time            `json:"updatedAt"`
	UserID          string               `json:"userId"`
	Username        string               `json:"username"`
	AdminID         *string              `json:"adminId"`
	RejectionReason *string              `json:"rejectionReason"`
}

// SetStatusRequest is the PUT /listings payload.
type SetStatusRequest struct {
	ID              string  `json:"id"`
	Status          string  `json:"status"`
	RejectionReason *string `json:"rejectionReason"`
}

// UpdateFieldsPayload carries the editable subset of listing fields.
// Absent members are left untouched.
type UpdateFieldsPayload struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Location    *string  `json:"location"`
}

// UpdateListingRequest is the POST /listings payload.
type UpdateListingRequest struct {
	ID          string              `json:"id"`
	UpdatedData UpdateFieldsPayload `json:"updatedData"`
}

// UpdatedItemResponse wraps the single listing returned by mutations.
type UpdatedItemResponse struct {
	UpdatedItem ListingResponse `json:"updatedItem"`
}

// FromDomain maps a listing to its wire shape.
func FromDomain(listing *domain.Listing) ListingResponse {
	return ListingResponse{
		ID:              listing.ID,
		Title:           listing.Title,
		Description:     listing.Description,
		Location:        listing.Location,
		Category:        listing.Category,
		Price:           listing.Price,
		Status:          listing.Status,
		CreatedAt:       listing.CreatedAt,
		UpdatedAt:       listing.UpdatedAt,
		UserID:          listing.UserID,
		Username:        listing.Username,
		AdminID:         listing.AdminID,
		RejectionReason: listing.RejectionReason,
	}
}
