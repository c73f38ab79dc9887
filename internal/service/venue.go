package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lasoiree/venue-api/internal/domain"
)

type VenueRepository interface {
	Create(ctx context.Context, venue domain.Venue, ownerID uint) (domain.Venue, error)
	FindByCode(ctx context.Context, code string) (domain.Venue, error)
	Update(ctx context.Context, venue domain.Venue) (domain.Venue, error)
	AddTable(ctx context.Context, venue domain.Venue, number int) (domain.Table, error)
	ListTables(ctx context.Context, venue domain.Venue) ([]domain.Table, error)
	AddMenuItem(ctx context.Context, item domain.MenuItem) (domain.MenuItem, error)
	UpdateMenuItem(ctx context.Context, item domain.MenuItem) (domain.MenuItem, error)
	FindMenuItem(ctx context.Context, venueID uint, id uuid.UUID) (domain.MenuItem, error)
	ListMenu(ctx context.Context, venueID uint) ([]domain.MenuItem, error)
	AddOffer(ctx context.Context, offer domain.Offer) (domain.Offer, error)
	UpdateOffer(ctx context.Context, offer domain.Offer) (domain.Offer, error)
	FindOffer(ctx context.Context, venueID uint, id uuid.UUID) (domain.Offer, error)
	ListOffers(ctx context.Context, venueID uint, activeOnly bool) ([]domain.Offer, error)
}

type StaffRepository interface {
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	AppointManager(ctx context.Context, userID, venueID uint) (domain.Manager, error)
	AssignWaiter(ctx context.Context, userID, venueID uint) (domain.Waiter, error)
}

type MenuCache interface {
	Get(ctx context.Context, venueID uint) ([]domain.MenuItem, int64, bool)
	Set(ctx context.Context, venueID uint, version int64, items []domain.MenuItem) error
	Invalidate(ctx context.Context, venueID uint) error
}

type VenueService struct {
	repo  VenueRepository
	staff StaffRepository
	gate  *Gate
	cache MenuCache
}

func NewVenueService(repo VenueRepository, staff StaffRepository, gate *Gate, cache MenuCache) *VenueService {
	return &VenueService{
		repo:  repo,
		staff: staff,
		gate:  gate,
		cache: cache,
	}
}

// RegisterVenue creates the venue, its tables and the owner link in one transaction.
func (s *VenueService) RegisterVenue(ctx context.Context, actor domain.Actor, venue domain.Venue) (domain.Venue, error) {
	owner, ok := actor.(domain.OwnerActor)
	if !ok {
		return domain.Venue{}, domain.ErrPermissionDenied
	}

	created, err := s.repo.Create(ctx, venue, owner.OwnerID)
	if err != nil {
		return domain.Venue{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *VenueService) GetVenue(ctx context.Context, code string) (domain.Venue, error) {
	venue, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return domain.Venue{}, fmt.Errorf("s.repo.FindByCode -> %w", err)
	}

	return venue, nil
}

// authorizedVenue loads a venue and checks the actor may act on it as one of allowed.
func (s *VenueService) authorizedVenue(ctx context.Context, actor domain.Actor, code string, allowed ...domain.Role) (domain.Venue, error) {
	venue, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return domain.Venue{}, fmt.Errorf("s.repo.FindByCode -> %w", err)
	}

	if err = s.gate.Authorize(ctx, actor, venue.ID, allowed...); err != nil {
		return domain.Venue{}, fmt.Errorf("s.gate.Authorize -> %w", err)
	}

	return venue, nil
}

// StaffVenue returns the venue when the actor is its owner, one of its managers or its waiter.
func (s *VenueService) StaffVenue(ctx context.Context, actor domain.Actor, code string) (domain.Venue, error) {
	return s.authorizedVenue(ctx, actor, code, domain.RoleOwner, domain.RoleManager, domain.RoleWaiter)
}

func (s *VenueService) UpdateVenue(ctx context.Context, actor domain.Actor, code string, update domain.VenueUpdate) (domain.Venue, error) {
	venue, err := s.authorizedVenue(ctx, actor, code, domain.RoleOwner)
	if err != nil {
		return domain.Venue{}, err
	}

	updated, err := s.repo.Update(ctx, update.Apply(venue))
	if err != nil {
		return domain.Venue{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

func (s *VenueService) AppointManager(ctx context.Context, actor domain.Actor, code, email string) (domain.Manager, error) {
	venue, err := s.authorizedVenue(ctx, actor, code, domain.RoleOwner)
	if err != nil {
		return domain.Manager{}, err
	}

	user, err := s.staff.FindByEmail(ctx, email)
	if err != nil {
		return domain.Manager{}, fmt.Errorf("s.staff.FindByEmail -> %w", err)
	}

	manager, err := s.staff.AppointManager(ctx, user.ID, venue.ID)
	if err != nil {
		return domain.Manager{}, fmt.Errorf("s.staff.AppointManager -> %w", err)
	}

	return manager, nil
}

// AssignWaiter creates a waiter profile or moves an existing one to this venue.
func (s *VenueService) AssignWaiter(ctx context.Context, actor domain.Actor, code, email string) (domain.Waiter, error) {
	venue, err := s.authorizedVenue(ctx, actor, code, domain.RoleOwner, domain.RoleManager)
	if err != nil {
		return domain.Waiter{}, err
	}

	user, err := s.staff.FindByEmail(ctx, email)
	if err != nil {
		return domain.Waiter{}, fmt.Errorf("s.staff.FindByEmail -> %w", err)
	}

	waiter, err := s.staff.AssignWaiter(ctx, user.ID, venue.ID)
	if err != nil {
		return domain.Waiter{}, fmt.Errorf("s.staff.AssignWaiter -> %w", err)
	}

	return waiter, nil
}

// AddTable appends a table. A zero number takes the next free one.
func (s *VenueService) AddTable(ctx context.Context, actor domain.Actor, code string, number int) (domain.Table, error) {
	venue, err := s.authorizedVenue(ctx, actor, code, domain.RoleOwner, domain.RoleManager)
	if err != nil {
		return domain.Table{}, err
	}

	table, err := s.repo.AddTable(ctx, venue, number)
	if err != nil {
		return domain.Table{}, fmt.Errorf("s.repo.AddTable -> %w", err)
	}

	return table, nil
}

func (s *VenueService) ListTables(ctx context.Context, actor domain.Actor, code string) ([]domain.Table, error) {
	venue, err := s.authorizedVenue(ctx, actor, code, domain.RoleOwner, domain.RoleManager, domain.RoleWaiter)
	if err != nil {
		return nil, err
	}

	tables, err := s.repo.ListTables(ctx, venue)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListTables -> %w", err)
	}

	return tables, nil
}

func (s *VenueService) TableStats(ctx context.Context, actor domain.Actor, code string) (domain.TableStats, error) {
	tables, err := s.ListTables(ctx, actor, code)
	if err != nil {
		return domain.TableStats{}, err
	}

	stats := domain.TableStats{VenueCode: code, Total: len(tables)}
	for _, t := range tables {
		if t.IsOccupied {
			stats.Occupied++
		}
	}
	stats.Free = stats.Total - stats.Occupied

	return stats, nil
}

// ListMenu is open to any authenticated user and served from the cache when possible.
func (s *VenueService) ListMenu(ctx context.Context, code string) ([]domain.MenuItem, error) {
	venue, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByCode -> %w", err)
	}

	cached, version, ok := s.cache.Get(ctx, venue.ID)
	if ok {
		return cached, nil
	}

	items, err := s.repo.ListMenu(ctx, venue.ID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListMenu -> %w", err)
	}

	if err = s.cache.Set(ctx, venue.ID, version, items); err != nil {
		zap.L().Warn("failed to cache menu", zap.String("venue_id", code), zap.Error(err))
	}

	return items, nil
}

func (s *VenueService) AddMenuItem(ctx context.Context, actor domain.Actor, code string, item domain.MenuItem) (domain.MenuItem, error) {
	venue, err := s.authorizedVenue(ctx, actor, code, domain.RoleOwner, domain.RoleManager)
	if err != nil {
		return domain.MenuItem{}, err
	}

	if err = item.Check(); err != nil {
		return domain.MenuItem{}, err
	}

	item.VenueID = venue.ID
	created, err := s.repo.AddMenuItem(ctx, item)
	if err != nil {
		return domain.MenuItem{}, fmt.Errorf("s.repo.AddMenuItem -> %w", err)
	}

	s.invalidateMenu(ctx, venue)

	return created, nil
}

func (s *VenueService) UpdateMenuItem(ctx context.Context, actor domain.Actor, code string, id uuid.UUID, update domain.MenuItemUpdate) (domain.MenuItem, error) {
	venue, err := s.authorizedVenue(ctx, actor, code, domain.RoleOwner, domain.RoleManager)
	if err != nil {
		return domain.MenuItem{}, err
	}

	item, err := s.repo.FindMenuItem(ctx, venue.ID, id)
	if err != nil {
		return domain.MenuItem{}, fmt.Errorf("s.repo.FindMenuItem -> %w", err)
	}

	item = update.Apply(item)
	if err = item.Check(); err != nil {
		return domain.MenuItem{}, err
	}

	updated, err := s.repo.UpdateMenuItem(ctx, item)
	if err != nil {
		return domain.MenuItem{}, fmt.Errorf("s.repo.UpdateMenuItem -> %w", err)
	}

	s.invalidateMenu(ctx, venue)

	return updated, nil
}

func (s *VenueService) invalidateMenu(ctx context.Context, venue domain.Venue) {
	if err := s.cache.Invalidate(ctx, venue.ID); err != nil {
		zap.L().Warn("failed to invalidate menu cache", zap.String("venue_id", venue.Code), zap.Error(err))
	}
}

func (s *VenueService) ListOffers(ctx context.Context, code string, activeOnly bool) ([]domain.Offer, error) {
	venue, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByCode -> %w", err)
	}

	offers, err := s.repo.ListOffers(ctx, venue.ID, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListOffers -> %w", err)
	}

	return offers, nil
}

func (s *VenueService) AddOffer(ctx context.Context, actor domain.Actor, code string, offer domain.Offer) (domain.Offer, error) {
	venue, err := s.authorizedVenue(ctx, actor, code, domain.RoleOwner, domain.RoleManager)
	if err != nil {
		return domain.Offer{}, err
	}

	if err = offer.Check(); err != nil {
		return domain.Offer{}, err
	}

	offer.VenueID = venue.ID
	created, err := s.repo.AddOffer(ctx, offer)
	if err != nil {
		return domain.Offer{}, fmt.Errorf("s.repo.AddOffer -> %w", err)
	}

	return created, nil
}

func (s *VenueService) UpdateOffer(ctx context.Context, actor domain.Actor, code string, id uuid.UUID, update domain.OfferUpdate) (domain.Offer, error) {
	venue, err := s.authorizedVenue(ctx, actor, code, domain.RoleOwner, domain.RoleManager)
	if err != nil {
		return domain.Offer{}, err
	}

	offer, err := s.repo.FindOffer(ctx, venue.ID, id)
	if err != nil {
		return domain.Offer{}, fmt.Errorf("s.repo.FindOffer -> %w", err)
	}

	offer = update.Apply(offer)
	if err = offer.Check(); err != nil {
		return domain.Offer{}, err
	}

	updated, err := s.repo.UpdateOffer(ctx, offer)
	if err != nil {
		return domain.Offer{}, fmt.Errorf("s.repo.UpdateOffer -> %w", err)
	}

	return updated, nil
}
