package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/rental-moderation/internal/domain"
	"github.com/spec-kit/rental-moderation/internal/events"
	"github.com/spec-kit/rental-moderation/internal/repository"
	apperrors "github.com/spec-kit/rental-moderation/pkg/util"
)

// ModerationService enforces the listing status state machine and the
// field-merge policy on top of the store.
type ModerationService struct {
	listings   repository.ListingRepository
	dispatcher events.Dispatcher
}

// ModerationDependencies bundles collaborators for the service.
type ModerationDependencies struct {
	ListingRepo repository.ListingRepository
	Dispatcher  events.Dispatcher
}

// ListingFilter narrows ListListings results.
type ListingFilter struct {
	Status   *domain.ListingStatus
	Category *string
}

// UpdateFieldsInput carries the mutable subset of listing fields. Nil
// members are left untouched.
type UpdateFieldsInput struct {
	Title       *string
	Description *string
	Price       *float64
	Location    *string
}

// Decision is a tagged moderation request: ApproveDecision or
// RejectDecision.
type Decision interface {
	targetStatus() domain.ListingStatus
}

// ApproveDecision moves a pending listing to approved.
type ApproveDecision struct{}

func (ApproveDecision) targetStatus() domain.ListingStatus { return domain.ListingStatusApproved }

// RejectDecision moves a pending listing to rejected with a reason.
type RejectDecision struct {
	Reason string
}

func (RejectDecision) targetStatus() domain.ListingStatus { return domain.ListingStatusRejected }

// NewModerationService constructs the service.
func NewModerationService(deps ModerationDependencies) *ModerationService {
	return &ModerationService{
		listings:   deps.ListingRepo,
		dispatcher: deps.Dispatcher,
	}
}

// ListListings returns a snapshot of the collection, optionally filtered.
func (s *ModerationService) ListListings(ctx context.Context, filter ListingFilter) ([]domain.Listing, error) {
	all, err := s.listings.List(ctx)
	if err != nil {
		return nil, err
	}
	if filter.Status == nil && filter.Category == nil {
		return all, nil
	}
	filtered := make([]domain.Listing, 0, len(all))
	for _, listing := range all {
		if filter.Status != nil && listing.Status != *filter.Status {
			continue
		}
		if filter.Category != nil && !strings.EqualFold(listing.Category, *filter.Category) {
			continue
		}
		filtered = append(filtered, listing)
	}
	return filtered, nil
}

// GetListing fetches a single listing.
func (s *ModerationService) GetListing(ctx context.Context, id string) (*domain.Listing, error) {
	listing, err := s.listings.GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreError(err, id)
	}
	return listing, nil
}

// UpdateFields merges the provided fields into the listing and stamps
// updatedAt. Status, rejectionReason, identity and submitter fields are
// never touched here.
func (s *ModerationService) UpdateFields(ctx context.Context, id string, input UpdateFieldsInput) (*domain.Listing, error) {
	if input.Price != nil && *input.Price < 0 {
		return nil, apperrors.NewValidationError("price must be non-negative", map[string]any{"price": *input.Price})
	}

	changed := []string{}
	listing, err := s.listings.Mutate(ctx, id, func(l *domain.Listing) error {
		if input.Title != nil {
			l.Title = strings.TrimSpace(*input.Title)
			changed = append(changed, "title")
		}
		if input.Description != nil {
			l.Description = strings.TrimSpace(*input.Description)
			changed = append(changed, "description")
		}
		if input.Price != nil {
			l.Price = *input.Price
			changed = append(changed, "price")
		}
		if input.Location != nil {
			l.Location = strings.TrimSpace(*input.Location)
			changed = append(changed, "location")
		}
		l.UpdatedAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		return nil, mapStoreError(err, id)
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventListingUpdated,
		ListingID: listing.ID,
		Payload:   events.ListingUpdatedPayload{Fields: changed},
	})
	return listing, nil
}

// Decide applies a moderation decision. Only pending listings may be
// decided; approved and rejected are terminal.
func (s *ModerationService) Decide(ctx context.Context, adminID, id string, decision Decision) (*domain.Listing, error) {
	reject, isReject := decision.(RejectDecision)
	if isReject && strings.TrimSpace(reject.Reason) == "" {
		return nil, apperrors.NewValidationError("rejection reason required", nil)
	}

	var oldStatus domain.ListingStatus
	listing, err := s.listings.Mutate(ctx, id, func(l *domain.Listing) error {
		if l.Status != domain.ListingStatusPending {
			return apperrors.NewInvalidTransition(
				"listing already decided",
				map[string]any{"id": l.ID, "status": string(l.Status)},
			)
		}
		oldStatus = l.Status
		l.Status = decision.targetStatus()
		if isReject {
			reason := reject.Reason
			l.RejectionReason = &reason
		} else {
			// approval always clears any reason, whatever the input carried
			l.RejectionReason = nil
		}
		admin := adminID
		l.AdminID = &admin
		l.UpdatedAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		return nil, mapStoreError(err, id)
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventListingStatusChanged,
		ListingID: listing.ID,
		AdminID:   listing.AdminID,
		Payload: events.ListingStatusChangedPayload{
			OldStatus:       oldStatus,
			NewStatus:       listing.Status,
			RejectionReason: listing.RejectionReason,
		},
	})
	return listing, nil
}

func (s *ModerationService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func mapStoreError(err error, id string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound("listing", map[string]any{"id": id})
	}
	return err
}
