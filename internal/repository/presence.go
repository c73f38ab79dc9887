package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/lasoiree/venue-api/internal/domain"
	"github.com/lasoiree/venue-api/internal/repository/dao"
)

type PresenceDAO interface {
	Open(ctx context.Context, userID, venueID uint, at time.Time) (dao.Presence, error)
	LatestOpen(ctx context.Context, userID uint) (dao.Presence, error)
	Close(ctx context.Context, id uint, at time.Time) (bool, error)
}

type PresenceRepository struct {
	dao PresenceDAO
}

func NewPresenceRepository(dao PresenceDAO) *PresenceRepository {
	return &PresenceRepository{
		dao: dao,
	}
}

func (r *PresenceRepository) CheckIn(ctx context.Context, userID uint, venue domain.Venue, at time.Time) (domain.Presence, error) {
	opened, err := r.dao.Open(ctx, userID, venue.ID, at)
	if err != nil {
		return domain.Presence{}, fmt.Errorf("r.dao.Open -> %w", translate(err))
	}

	opened.Venue.Code = venue.Code

	return presenceDaoToDomain(opened), nil
}

// LatestOpen returns the presence a location report applies to, with the venue attached.
func (r *PresenceRepository) LatestOpen(ctx context.Context, userID uint) (domain.Presence, domain.Venue, error) {
	found, err := r.dao.LatestOpen(ctx, userID)
	if err != nil {
		return domain.Presence{}, domain.Venue{}, fmt.Errorf("r.dao.LatestOpen -> %w", translate(err))
	}

	return presenceDaoToDomain(found), venueDaoToDomain(found.Venue), nil
}

func (r *PresenceRepository) Close(ctx context.Context, id uint, at time.Time) (bool, error) {
	closed, err := r.dao.Close(ctx, id, at)
	if err != nil {
		return false, fmt.Errorf("r.dao.Close -> %w", err)
	}

	return closed, nil
}

func presenceDaoToDomain(p dao.Presence) domain.Presence {
	return domain.Presence{
		ID:        p.ID,
		UserID:    p.UserID,
		VenueID:   p.VenueID,
		VenueCode: p.Venue.Code,
		TimeIn:    p.TimeIn,
		TimeOut:   p.TimeOut,
	}
}
