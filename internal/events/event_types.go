package events

import (
	"time"

	"github.com/spec-kit/rental-moderation/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventListingUpdated       EventType = "listing_updated"
	EventListingStatusChanged EventType = "listing_status_changed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ListingID string      `json:"listing_id"`
	AdminID   *string     `json:"admin_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// ListingUpdatedPayload payload.
type ListingUpdatedPayload struct {
	Fields []string `json:"fields"`
}

// ListingStatusChangedPayload payload.
type ListingStatusChangedPayload struct {
	OldStatus       domain.ListingStatus `json:"old_status"`
	NewStatus       domain.ListingStatus `json:"new_status"`
	RejectionReason *string              `json:"rejection_reason,omitempty"`
}
