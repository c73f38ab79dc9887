// Package events delivers committed booking and presence transitions to
// connected venue staff (websocket) and to RabbitMQ.
package events

import (
	"context"
	"errors"

	"github.com/lasoiree/venue-api/internal/domain"
)

type Publisher interface {
	Publish(ctx context.Context, evt domain.Event) error
}

// Multi publishes to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, evt domain.Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, evt); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

type Nop struct{}

func (Nop) Publish(context.Context, domain.Event) error { return nil }
