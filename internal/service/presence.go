package service

import (
	"context"
	"fmt"
	"time"

	"github.com/lasoiree/venue-api/internal/domain"
	"github.com/lasoiree/venue-api/internal/metrics"
	"github.com/lasoiree/venue-api/internal/pkg/geo"
)

const DefaultPresenceRadius = 50.0

type PresenceRepository interface {
	CheckIn(ctx context.Context, userID uint, venue domain.Venue, at time.Time) (domain.Presence, error)
	LatestOpen(ctx context.Context, userID uint) (domain.Presence, domain.Venue, error)
	Close(ctx context.Context, id uint, at time.Time) (bool, error)
}

type VenueFinder interface {
	FindByCode(ctx context.Context, code string) (domain.Venue, error)
}

type PresenceService struct {
	repo   PresenceRepository
	venues VenueFinder
	radius float64
	events EventPublisher
	now    func() time.Time
}

func NewPresenceService(repo PresenceRepository, venues VenueFinder, radiusMeters float64, events EventPublisher) *PresenceService {
	if radiusMeters <= 0 {
		radiusMeters = DefaultPresenceRadius
	}

	return &PresenceService{
		repo:   repo,
		venues: venues,
		radius: radiusMeters,
		events: events,
		now:    time.Now,
	}
}

// CheckIn opens a presence at the venue. One open presence per user and venue.
func (s *PresenceService) CheckIn(ctx context.Context, actor domain.Actor, venueCode string) (domain.Presence, error) {
	venue, err := s.venues.FindByCode(ctx, venueCode)
	if err != nil {
		return domain.Presence{}, fmt.Errorf("s.venues.FindByCode -> %w", err)
	}

	presence, err := s.repo.CheckIn(ctx, actor.UserID(), venue, s.now())
	if err != nil {
		return domain.Presence{}, fmt.Errorf("s.repo.CheckIn -> %w", err)
	}

	publish(ctx, s.events, domain.Event{
		Type:      domain.EventPresenceCheckedIn,
		VenueID:   venue.ID,
		VenueCode: venue.Code,
		ActorID:   actor.UserID(),
		Payload:   map[string]interface{}{"presence_id": presence.ID},
		At:        presence.TimeIn,
	})

	return presence, nil
}

// LocationCheck measures the distance from the user's most recent open presence
// venue. Beyond the radius the presence is closed by setting time_out.
func (s *PresenceService) LocationCheck(ctx context.Context, actor domain.Actor, at domain.GeoPoint) (domain.LocationCheck, error) {
	if !at.Valid() {
		return domain.LocationCheck{}, domain.ErrInvalidLocation
	}

	presence, venue, err := s.repo.LatestOpen(ctx, actor.UserID())
	if err != nil {
		return domain.LocationCheck{}, fmt.Errorf("s.repo.LatestOpen -> %w", err)
	}

	if venue.Geo == nil {
		return domain.LocationCheck{}, domain.ErrVenueLocationMissing
	}

	check := domain.LocationCheck{
		PresenceID:     presence.ID,
		VenueCode:      venue.Code,
		DistanceMeters: geo.Distance(venue.Geo.Lat, venue.Geo.Lon, at.Lat, at.Lon),
	}

	if check.DistanceMeters <= s.radius {
		check.WithinRange = true
		return check, nil
	}

	timeOut := s.now()
	closed, err := s.repo.Close(ctx, presence.ID, timeOut)
	if err != nil {
		return domain.LocationCheck{}, fmt.Errorf("s.repo.Close -> %w", err)
	}

	if !closed {
		return domain.LocationCheck{}, domain.ErrNoActivePresence
	}

	check.CheckedOut = true
	check.TimeOut = &timeOut
	metrics.PresenceCheckouts.Inc()

	publish(ctx, s.events, domain.Event{
		Type:      domain.EventPresenceCheckedOut,
		VenueID:   venue.ID,
		VenueCode: venue.Code,
		ActorID:   actor.UserID(),
		Payload:   map[string]interface{}{"presence_id": presence.ID, "distance_meters": check.DistanceMeters},
		At:        timeOut,
	})

	return check, nil
}
