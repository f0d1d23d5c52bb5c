package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/rental-moderation/internal/domain"
	"github.com/spec-kit/rental-moderation/internal/events"
	"github.com/spec-kit/rental-moderation/internal/repository"
	apperrors "github.com/spec-kit/rental-moderation/pkg/util"
)

// recordingDispatcher captures published events for assertions.
type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) all() []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]events.Event(nil), d.events...)
}

func pendingListing(id string) domain.Listing {
	createdAt := time.Now().UTC().Add(-time.Hour)
	return domain.Listing{
		ID:          id,
		Title:       "Maruti Swift 2021",
		Description: "Well maintained hatchback",
		Location:    "Pune",
		Category:    "Hatchback",
		Price:       400,
		Status:      domain.ListingStatusPending,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
		UserID:      "CUST-1001",
		Username:    "asha",
	}
}

func newService(t *testing.T, listings ...domain.Listing) (*ModerationService, *recordingDispatcher) {
	t.Helper()
	repo := repository.NewMemoryListingRepository()
	require.NoError(t, repo.SeedIfEmpty(context.Background(), listings))
	dispatcher := &recordingDispatcher{}
	svc := NewModerationService(ModerationDependencies{ListingRepo: repo, Dispatcher: dispatcher})
	return svc, dispatcher
}

func domainErrCode(t *testing.T, err error) string {
	t.Helper()
	domainErr := apperrors.ToDomainError(err)
	require.NotNil(t, domainErr)
	return domainErr.Code
}

func TestDecideRejectThenApproveFails(t *testing.T) {
	svc, _ := newService(t, pendingListing("L1"))

	listing, err := svc.Decide(context.Background(), "ADM-1", "L1", RejectDecision{Reason: "too expensive"})
	require.NoError(t, err)
	assert.Equal(t, domain.ListingStatusRejected, listing.Status)
	require.NotNil(t, listing.RejectionReason)
	assert.Equal(t, "too expensive", *listing.RejectionReason)
	require.NotNil(t, listing.AdminID)
	assert.Equal(t, "ADM-1", *listing.AdminID)

	_, err = svc.Decide(context.Background(), "ADM-1", "L1", ApproveDecision{})
	require.Error(t, err)
	assert.Equal(t, "INVALID_TRANSITION", domainErrCode(t, err))

	// the failed transition must not have modified the listing
	current, err := svc.GetListing(context.Background(), "L1")
	require.NoError(t, err)
	assert.Equal(t, domain.ListingStatusRejected, current.Status)
	require.NotNil(t, current.RejectionReason)
	assert.Equal(t, "too expensive", *current.RejectionReason)
}

func TestDecideApproveClearsRejectionReason(t *testing.T) {
	svc, _ := newService(t, pendingListing("L1"))

	listing, err := svc.Decide(context.Background(), "ADM-1", "L1", ApproveDecision{})
	require.NoError(t, err)
	assert.Equal(t, domain.ListingStatusApproved, listing.Status)
	assert.Nil(t, listing.RejectionReason)
}

func TestDecideRejectRequiresReason(t *testing.T) {
	svc, _ := newService(t, pendingListing("L1"))

	for _, reason := range []string{"", "   "} {
		_, err := svc.Decide(context.Background(), "ADM-1", "L1", RejectDecision{Reason: reason})
		require.Error(t, err)
		assert.Equal(t, "VALIDATION_FAILED", domainErrCode(t, err))
	}

	current, err := svc.GetListing(context.Background(), "L1")
	require.NoError(t, err)
	assert.Equal(t, domain.ListingStatusPending, current.Status)
}

func TestDecideUnknownListing(t *testing.T) {
	svc, _ := newService(t, pendingListing("L1"))

	_, err := svc.Decide(context.Background(), "ADM-1", "L9", ApproveDecision{})
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", domainErrCode(t, err))
}

func TestDecidePublishesStatusChangedEvent(t *testing.T) {
	svc, dispatcher := newService(t, pendingListing("L1"))

	_, err := svc.Decide(context.Background(), "ADM-1", "L1", RejectDecision{Reason: "blurry photos"})
	require.NoError(t, err)

	published := dispatcher.all()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventListingStatusChanged, published[0].Type)
	assert.Equal(t, "L1", published[0].ListingID)
	payload, ok := published[0].Payload.(events.ListingStatusChangedPayload)
	require.True(t, ok)
	assert.Equal(t, domain.ListingStatusPending, payload.OldStatus)
	assert.Equal(t, domain.ListingStatusRejected, payload.NewStatus)
}

func TestUpdateFieldsMergesOnlyProvidedFields(t *testing.T) {
	seeded := pendingListing("L1")
	svc, _ := newService(t, seeded)

	price := 500.0
	listing, err := svc.UpdateFields(context.Background(), "L1", UpdateFieldsInput{Price: &price})
	require.NoError(t, err)

	assert.Equal(t, 500.0, listing.Price)
	assert.Equal(t, seeded.Title, listing.Title)
	assert.Equal(t, seeded.Description, listing.Description)
	assert.Equal(t, seeded.Location, listing.Location)
	assert.Equal(t, domain.ListingStatusPending, listing.Status)
	assert.Nil(t, listing.RejectionReason)
	assert.Nil(t, listing.AdminID)
	assert.Equal(t, seeded.UserID, listing.UserID)
	assert.Equal(t, seeded.Username, listing.Username)
	assert.Equal(t, seeded.CreatedAt, listing.CreatedAt)
	assert.True(t, listing.UpdatedAt.After(seeded.UpdatedAt))
}

func TestUpdateFieldsNeverTouchesModerationState(t *testing.T) {
	svc, _ := newService(t, pendingListing("L1"))

	_, err := svc.Decide(context.Background(), "ADM-1", "L1", RejectDecision{Reason: "duplicate"})
	require.NoError(t, err)

	title := "Maruti Swift 2021 (revised)"
	listing, err := svc.UpdateFields(context.Background(), "L1", UpdateFieldsInput{Title: &title})
	require.NoError(t, err)

	assert.Equal(t, domain.ListingStatusRejected, listing.Status)
	require.NotNil(t, listing.RejectionReason)
	assert.Equal(t, "duplicate", *listing.RejectionReason)
}

func TestUpdateFieldsRejectsNegativePrice(t *testing.T) {
	svc, _ := newService(t, pendingListing("L1"))

	price := -10.0
	_, err := svc.UpdateFields(context.Background(), "L1", UpdateFieldsInput{Price: &price})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", domainErrCode(t, err))
}

func TestUpdateFieldsUnknownListing(t *testing.T) {
	svc, _ := newService(t, pendingListing("L1"))

	title := "anything"
	_, err := svc.UpdateFields(context.Background(), "L9", UpdateFieldsInput{Title: &title})
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", domainErrCode(t, err))
}

func TestListListingsFilters(t *testing.T) {
	second := pendingListing("L2")
	second.Category = "SUV"
	third := pendingListing("L3")
	svc, _ := newService(t, pendingListing("L1"), second, third)

	_, err := svc.Decide(context.Background(), "ADM-1", "L3", ApproveDecision{})
	require.NoError(t, err)

	approved := domain.ListingStatusApproved
	byStatus, err := svc.ListListings(context.Background(), ListingFilter{Status: &approved})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, "L3", byStatus[0].ID)

	category := "suv"
	byCategory, err := svc.ListListings(context.Background(), ListingFilter{Category: &category})
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, "L2", byCategory[0].ID)

	all, err := svc.ListListings(context.Background(), ListingFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
