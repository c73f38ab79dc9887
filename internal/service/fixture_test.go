package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/lasoiree/venue-api/internal/cache"
	"github.com/lasoiree/venue-api/internal/domain"
	"github.com/lasoiree/venue-api/internal/repository"
	"github.com/lasoiree/venue-api/internal/repository/dao"
	"github.com/lasoiree/venue-api/internal/service"
)

const testPassword = "Secret#123"

type recorder struct {
	mu     sync.Mutex
	events []domain.Event
	err    error
}

func (r *recorder) Publish(_ context.Context, evt domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, evt)
	return r.err
}

func (r *recorder) types() []domain.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()

	types := make([]domain.EventType, 0, len(r.events))
	for _, evt := range r.events {
		types = append(types, evt.Type)
	}
	return types
}

type fixture struct {
	ctx      context.Context
	db       *gorm.DB
	events   *recorder
	members  *repository.UserRepository
	auth     *service.AuthService
	users    *service.UserService
	venues   *service.VenueService
	bookings *service.BookingService
	carts    *service.CartService
	presence *service.PresenceService
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, dao.InitTables(db))

	return db
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	return newFixtureWithDB(t, newTestDB(t))
}

func newFixtureWithDB(t *testing.T, db *gorm.DB) *fixture {
	t.Helper()

	events := &recorder{}

	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	venueRepo := repository.NewVenueRepository(dao.NewVenueDAO(db))
	bookingRepo := repository.NewBookingRepository(dao.NewBookingDAO(db))
	presenceRepo := repository.NewPresenceRepository(dao.NewPresenceDAO(db))

	gate := service.NewGate(userRepo)
	users := service.NewUserService(userRepo)

	return &fixture{
		ctx:      context.Background(),
		db:       db,
		events:   events,
		members:  userRepo,
		auth:     service.NewAuthService(userRepo, users),
		users:    users,
		venues:   service.NewVenueService(venueRepo, userRepo, gate, cache.NewMenuCache(nil, time.Minute)),
		bookings: service.NewBookingService(bookingRepo, gate, events),
		carts:    service.NewCartService(bookingRepo, gate, events),
		presence: service.NewPresenceService(presenceRepo, venueRepo, service.DefaultPresenceRadius, events),
	}
}

func (f *fixture) signup(t *testing.T, email string) domain.User {
	t.Helper()

	user, err := f.auth.Signup(f.ctx, domain.User{Email: email, Password: testPassword, Name: email})
	require.NoError(t, err)

	return user
}

func (f *fixture) actor(t *testing.T, user domain.User, role domain.Role) domain.Actor {
	t.Helper()

	actor, err := f.users.ResolveActor(f.ctx, user.ID, role)
	require.NoError(t, err)

	return actor
}

func (f *fixture) customer(t *testing.T, email string) domain.Actor {
	t.Helper()

	return f.actor(t, f.signup(t, email), domain.RoleCustomer)
}

// ownerWithVenue registers a new owner and a venue with two tables.
func (f *fixture) ownerWithVenue(t *testing.T, email string, geo *domain.GeoPoint) (domain.Actor, domain.Venue) {
	t.Helper()

	user := f.signup(t, email)
	_, err := f.users.BecomeOwner(f.ctx, user.ID)
	require.NoError(t, err)

	owner := f.actor(t, user, domain.RoleOwner)
	venue, err := f.venues.RegisterVenue(f.ctx, owner, domain.Venue{
		Name:       "Venue of " + email,
		City:       "Bengaluru",
		Geo:        geo,
		TableCount: 2,
		Capacity:   8,
	})
	require.NoError(t, err)

	return owner, venue
}

func (f *fixture) menuItem(t *testing.T, owner domain.Actor, venueCode, name, price string) domain.MenuItem {
	t.Helper()

	item, err := f.venues.AddMenuItem(f.ctx, owner, venueCode, domain.MenuItem{
		Name:        name,
		Price:       decimal.RequireFromString(price),
		IsAvailable: true,
		Tag:         domain.TagMainCourse,
	})
	require.NoError(t, err)

	return item
}

func (f *fixture) waiter(t *testing.T, owner domain.Actor, venueCode, email string) domain.Actor {
	t.Helper()

	user := f.signup(t, email)
	_, err := f.venues.AssignWaiter(f.ctx, owner, venueCode, email)
	require.NoError(t, err)

	return f.actor(t, user, domain.RoleWaiter)
}

func assertMoney(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()

	assert.Truef(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func assertDomainErr(t *testing.T, want *domain.Error, err error) {
	t.Helper()

	require.Error(t, err)
	assert.Truef(t, errors.Is(err, want), "want %s, got %v", want.Code, err)
}
