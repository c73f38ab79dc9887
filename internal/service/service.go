package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/lasoiree/venue-api/internal/domain"
	"github.com/lasoiree/venue-api/internal/metrics"
)

type EventPublisher interface {
	Publish(ctx context.Context, evt domain.Event) error
}

// publish runs after commit. Delivery failures are logged and never fail the caller.
func publish(ctx context.Context, pub EventPublisher, evt domain.Event) {
	if pub == nil {
		return
	}

	if err := pub.Publish(ctx, evt); err != nil {
		metrics.EventPublishFailures.WithLabelValues(string(evt.Type)).Inc()
		zap.L().Warn("failed to publish event",
			zap.String("type", string(evt.Type)),
			zap.String("venue_id", evt.VenueCode),
			zap.Uint("booking_id", evt.BookingID),
			zap.Error(err),
		)
	}
}

func observe(operation string, err error) {
	result := "ok"
	if err != nil {
		result = "internal"
		if derr, ok := domain.AsError(err); ok {
			result = derr.Code
		}
	}

	metrics.ObserveBooking(operation, result)
}
