package service

import (
	"context"
	"fmt"

	"github.com/lasoiree/venue-api/internal/domain"
)

type MembershipRepository interface {
	IsVenueOwner(ctx context.Context, ownerID, venueID uint) (bool, error)
	IsVenueManager(ctx context.Context, managerID, venueID uint) (bool, error)
}

// Gate checks that an actor's role is allowed for an operation and that the
// actor holds that role at the target venue.
type Gate struct {
	repo MembershipRepository
}

func NewGate(repo MembershipRepository) *Gate {
	return &Gate{
		repo: repo,
	}
}

func (g *Gate) Authorize(ctx context.Context, actor domain.Actor, venueID uint, allowed ...domain.Role) error {
	if actor == nil || !roleAllowed(actor.Role(), allowed) {
		return domain.ErrPermissionDenied
	}

	var (
		member bool
		err    error
	)
	switch a := actor.(type) {
	case domain.CustomerActor:
		return nil
	case domain.OwnerActor:
		member, err = g.repo.IsVenueOwner(ctx, a.OwnerID, venueID)
		if err != nil {
			return fmt.Errorf("g.repo.IsVenueOwner -> %w", err)
		}
	case domain.ManagerActor:
		member, err = g.repo.IsVenueManager(ctx, a.ManagerID, venueID)
		if err != nil {
			return fmt.Errorf("g.repo.IsVenueManager -> %w", err)
		}
	case domain.WaiterActor:
		member = a.VenueID == venueID
	}

	if !member {
		return domain.ErrPermissionDenied
	}

	return nil
}

func roleAllowed(role domain.Role, allowed []domain.Role) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}

	return false
}
