package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lasoiree/venue-api/internal/domain"
)

func TestPresenceService_AutoCheckout(t *testing.T) {
	f := newFixture(t)
	_, venue := f.ownerWithVenue(t, "owner@example.com", &domain.GeoPoint{Lat: 12.90, Lon: 77.60})
	alice := f.customer(t, "alice@example.com")

	presence, err := f.presence.CheckIn(f.ctx, alice, venue.Code)
	require.NoError(t, err)
	assert.True(t, presence.Active())
	assert.Equal(t, venue.Code, presence.VenueCode)

	check, err := f.presence.LocationCheck(f.ctx, alice, domain.GeoPoint{Lat: 12.9001, Lon: 77.60})
	require.NoError(t, err)
	assert.True(t, check.WithinRange)
	assert.False(t, check.CheckedOut)
	assert.InDelta(t, 11.1, check.DistanceMeters, 0.5)

	check, err = f.presence.LocationCheck(f.ctx, alice, domain.GeoPoint{Lat: 13.10, Lon: 77.60})
	require.NoError(t, err)
	assert.False(t, check.WithinRange)
	assert.True(t, check.CheckedOut)
	assert.NotNil(t, check.TimeOut)
	assert.Greater(t, check.DistanceMeters, 22000.0)
	assert.Equal(t, presence.ID, check.PresenceID)

	_, err = f.presence.LocationCheck(f.ctx, alice, domain.GeoPoint{Lat: 13.10, Lon: 77.60})
	assertDomainErr(t, domain.ErrNoActivePresence, err)

	// The closed visit stays on record and a new one can start.
	again, err := f.presence.CheckIn(f.ctx, alice, venue.Code)
	require.NoError(t, err)
	assert.NotEqual(t, presence.ID, again.ID)

	assert.Equal(t, []domain.EventType{
		domain.EventPresenceCheckedIn,
		domain.EventPresenceCheckedOut,
		domain.EventPresenceCheckedIn,
	}, f.events.types())
}

func TestPresenceService_CheckInFailures(t *testing.T) {
	f := newFixture(t)
	_, venue := f.ownerWithVenue(t, "owner@example.com", &domain.GeoPoint{Lat: 12.90, Lon: 77.60})
	alice := f.customer(t, "alice@example.com")

	_, err := f.presence.CheckIn(f.ctx, alice, "VEN404")
	assertDomainErr(t, domain.ErrVenueNotFound, err)

	_, err = f.presence.CheckIn(f.ctx, alice, venue.Code)
	require.NoError(t, err)

	_, err = f.presence.CheckIn(f.ctx, alice, venue.Code)
	assertDomainErr(t, domain.ErrAlreadyCheckedIn, err)
}

func TestPresenceService_LocationCheckFailures(t *testing.T) {
	f := newFixture(t)
	_, venue := f.ownerWithVenue(t, "owner@example.com", nil)
	alice := f.customer(t, "alice@example.com")

	_, err := f.presence.LocationCheck(f.ctx, alice, domain.GeoPoint{Lat: 91, Lon: 0})
	assertDomainErr(t, domain.ErrInvalidLocation, err)

	_, err = f.presence.LocationCheck(f.ctx, alice, domain.GeoPoint{Lat: 12.9, Lon: 77.6})
	assertDomainErr(t, domain.ErrNoActivePresence, err)

	_, err = f.presence.CheckIn(f.ctx, alice, venue.Code)
	require.NoError(t, err)

	_, err = f.presence.LocationCheck(f.ctx, alice, domain.GeoPoint{Lat: 12.9, Lon: 77.6})
	assertDomainErr(t, domain.ErrVenueLocationMissing, err)
}

func TestPresenceService_LatestPresenceWins(t *testing.T) {
	f := newFixture(t)
	_, near := f.ownerWithVenue(t, "near@example.com", &domain.GeoPoint{Lat: 12.90, Lon: 77.60})
	_, far := f.ownerWithVenue(t, "far@example.com", &domain.GeoPoint{Lat: 28.61, Lon: 77.21})
	alice := f.customer(t, "alice@example.com")

	_, err := f.presence.CheckIn(f.ctx, alice, near.Code)
	require.NoError(t, err)
	latest, err := f.presence.CheckIn(f.ctx, alice, far.Code)
	require.NoError(t, err)

	check, err := f.presence.LocationCheck(f.ctx, alice, domain.GeoPoint{Lat: 28.61, Lon: 77.21})
	require.NoError(t, err)
	assert.Equal(t, latest.ID, check.PresenceID)
	assert.Equal(t, far.Code, check.VenueCode)
	assert.True(t, check.WithinRange)
}
