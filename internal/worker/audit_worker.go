package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/rental-moderation/internal/events"
)

// StartAuditWorker subscribes to moderation events and writes a
// structured audit line for each one.
func StartAuditWorker(dispatcher events.Dispatcher, logger *zap.Logger) {
	if dispatcher == nil {
		return
	}
	audit := logger.Named("audit")

	dispatcher.Subscribe(events.EventListingStatusChanged, func(_ context.Context, event events.Event) error {
		payload, _ := event.Payload.(events.ListingStatusChangedPayload)
		fields := []zap.Field{
			zap.String("event_id", event.ID),
			zap.String("listing_id", event.ListingID),
			zap.String("old_status", string(payload.OldStatus)),
			zap.String("new_status", string(payload.NewStatus)),
		}
		if event.AdminID != nil {
			fields = append(fields, zap.String("admin_id", *event.AdminID))
		}
		if payload.RejectionReason != nil {
			fields = append(fields, zap.String("rejection_reason", *payload.RejectionReason))
		}
		audit.Info("listing decision", fields...)
		return nil
	})

	dispatcher.Subscribe(events.EventListingUpdated, func(_ context.Context, event events.Event) error {
		payload, _ := event.Payload.(events.ListingUpdatedPayload)
		audit.Info("listing updated",
			zap.String("event_id", event.ID),
			zap.String("listing_id", event.ListingID),
			zap.Strings("fields", payload.Fields),
		)
		return nil
	})
}
