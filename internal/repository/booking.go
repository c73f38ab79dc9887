package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lasoiree/venue-api/internal/domain"
	"github.com/lasoiree/venue-api/internal/repository/dao"
)

type BookingDAO interface {
	Transaction(ctx context.Context, fn func(tx *dao.BookingDAO) error) error
	Venues() *dao.VenueDAO
	Users() *dao.UserDAO
	FindTableByQR(ctx context.Context, qrCode string, forUpdate bool) (dao.Table, error)
	OccupyTable(ctx context.Context, tableID uint) error
	ReleaseTable(ctx context.Context, tableID uint) error
	Insert(ctx context.Context, booking dao.Booking) (dao.Booking, error)
	FindByID(ctx context.Context, id uint, forUpdate bool) (dao.Booking, error)
	FindOngoingByTable(ctx context.Context, tableID uint) (dao.Booking, error)
	ListByVenue(ctx context.Context, venueID uint, ongoing *bool) ([]dao.Booking, error)
	InsertParticipant(ctx context.Context, bookingID, userID uint) error
	AssignWaiter(ctx context.Context, bookingID, waiterID uint) (bool, error)
	End(ctx context.Context, bookingID uint, at time.Time) (bool, error)
	SetTotal(ctx context.Context, bookingID uint, total decimal.Decimal) error
	FindCart(ctx context.Context, bookingID uint) (dao.Cart, error)
	LockCart(ctx context.Context, bookingID uint) (dao.Cart, error)
	ListCartItems(ctx context.Context, cartID uint) ([]dao.CartItem, error)
	FindCartItem(ctx context.Context, cartID uint, menuItemID uuid.UUID) (dao.CartItem, error)
	SaveCartItem(ctx context.Context, item dao.CartItem) (dao.CartItem, error)
	DeleteCartItem(ctx context.Context, id uint) error
	SetCartTotal(ctx context.Context, cartID uint, total decimal.Decimal) error
}

// BookingRepository covers tables, bookings and carts. Methods called on the
// value handed to Transaction run inside that transaction.
type BookingRepository struct {
	dao BookingDAO
}

func NewBookingRepository(dao BookingDAO) *BookingRepository {
	return &BookingRepository{
		dao: dao,
	}
}

func (r *BookingRepository) Transaction(ctx context.Context, fn func(tx *BookingRepository) error) error {
	return r.dao.Transaction(ctx, func(tx *dao.BookingDAO) error {
		return fn(&BookingRepository{dao: tx})
	})
}

func (r *BookingRepository) FindTableByQR(ctx context.Context, qrCode string, forUpdate bool) (domain.Table, error) {
	found, err := r.dao.FindTableByQR(ctx, qrCode, forUpdate)
	if err != nil {
		return domain.Table{}, fmt.Errorf("r.dao.FindTableByQR -> %w", translate(err))
	}

	return tableDaoToDomain(found, found.Venue.Code), nil
}

func (r *BookingRepository) OccupyTable(ctx context.Context, tableID uint) error {
	if err := r.dao.OccupyTable(ctx, tableID); err != nil {
		return fmt.Errorf("r.dao.OccupyTable -> %w", translate(err))
	}

	return nil
}

func (r *BookingRepository) ReleaseTable(ctx context.Context, tableID uint) error {
	if err := r.dao.ReleaseTable(ctx, tableID); err != nil {
		return fmt.Errorf("r.dao.ReleaseTable -> %w", err)
	}

	return nil
}

// Create opens a booking on the table with the creator as first participant.
func (r *BookingRepository) Create(ctx context.Context, table domain.Table, userID uint) (domain.Booking, error) {
	created, err := r.dao.Insert(ctx, dao.Booking{
		VenueID:   table.VenueID,
		TableID:   table.ID,
		Ongoing:   true,
		TotalBill: decimal.Zero,
	})
	if err != nil {
		return domain.Booking{}, fmt.Errorf("r.dao.Insert -> %w", translate(err))
	}

	if err := r.dao.InsertParticipant(ctx, created.ID, userID); err != nil {
		return domain.Booking{}, fmt.Errorf("r.dao.InsertParticipant -> %w", translate(err))
	}

	return r.FindByID(ctx, created.ID, false)
}

func (r *BookingRepository) FindByID(ctx context.Context, id uint, forUpdate bool) (domain.Booking, error) {
	found, err := r.dao.FindByID(ctx, id, forUpdate)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("r.dao.FindByID -> %w", translate(err))
	}

	return bookingDaoToDomain(found), nil
}

func (r *BookingRepository) FindOngoingByTable(ctx context.Context, tableID uint) (domain.Booking, error) {
	found, err := r.dao.FindOngoingByTable(ctx, tableID)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("r.dao.FindOngoingByTable -> %w", translate(err))
	}

	return bookingDaoToDomain(found), nil
}

func (r *BookingRepository) ListByVenue(ctx context.Context, venueID uint, ongoing *bool) ([]domain.Booking, error) {
	found, err := r.dao.ListByVenue(ctx, venueID, ongoing)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListByVenue -> %w", err)
	}

	bookings := make([]domain.Booking, 0, len(found))
	for _, b := range found {
		bookings = append(bookings, bookingDaoToDomain(b))
	}

	return bookings, nil
}

func (r *BookingRepository) AddParticipant(ctx context.Context, bookingID, userID uint) error {
	if err := r.dao.InsertParticipant(ctx, bookingID, userID); err != nil {
		return fmt.Errorf("r.dao.InsertParticipant -> %w", translate(err))
	}

	return nil
}

func (r *BookingRepository) AssignWaiter(ctx context.Context, bookingID, waiterID uint) (bool, error) {
	ok, err := r.dao.AssignWaiter(ctx, bookingID, waiterID)
	if err != nil {
		return false, fmt.Errorf("r.dao.AssignWaiter -> %w", err)
	}

	return ok, nil
}

func (r *BookingRepository) End(ctx context.Context, bookingID uint, at time.Time) (bool, error) {
	ok, err := r.dao.End(ctx, bookingID, at)
	if err != nil {
		return false, fmt.Errorf("r.dao.End -> %w", err)
	}

	return ok, nil
}

func (r *BookingRepository) SetTotal(ctx context.Context, bookingID uint, total decimal.Decimal) error {
	if err := r.dao.SetTotal(ctx, bookingID, total); err != nil {
		return fmt.Errorf("r.dao.SetTotal -> %w", err)
	}

	return nil
}

func (r *BookingRepository) FindCart(ctx context.Context, bookingID uint) (domain.Cart, error) {
	found, err := r.dao.FindCart(ctx, bookingID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("r.dao.FindCart -> %w", translate(err))
	}

	return cartDaoToDomain(found), nil
}

// LockCart returns the booking's cart, creating it if absent, with its row locked and items loaded.
func (r *BookingRepository) LockCart(ctx context.Context, bookingID uint) (domain.Cart, error) {
	locked, err := r.dao.LockCart(ctx, bookingID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("r.dao.LockCart -> %w", translate(err))
	}

	if locked.Items, err = r.dao.ListCartItems(ctx, locked.ID); err != nil {
		return domain.Cart{}, fmt.Errorf("r.dao.ListCartItems -> %w", err)
	}

	return cartDaoToDomain(locked), nil
}

func (r *BookingRepository) ListCartItems(ctx context.Context, cartID uint) ([]domain.CartItem, error) {
	found, err := r.dao.ListCartItems(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListCartItems -> %w", err)
	}

	return cartItemsDaoToDomain(found), nil
}

func (r *BookingRepository) FindCartItem(ctx context.Context, cartID uint, menuItemID uuid.UUID) (domain.CartItem, error) {
	found, err := r.dao.FindCartItem(ctx, cartID, menuItemID)
	if err != nil {
		return domain.CartItem{}, fmt.Errorf("r.dao.FindCartItem -> %w", translate(err))
	}

	return cartItemDaoToDomain(found), nil
}

func (r *BookingRepository) SaveCartItem(ctx context.Context, cartID uint, item domain.CartItem) (domain.CartItem, error) {
	saved, err := r.dao.SaveCartItem(ctx, dao.CartItem{
		ID:         item.ID,
		CartID:     cartID,
		MenuItemID: item.MenuItemID,
		Name:       item.Name,
		Quantity:   item.Quantity,
		UnitPrice:  item.UnitPrice,
		TotalPrice: item.TotalPrice,
	})
	if err != nil {
		return domain.CartItem{}, fmt.Errorf("r.dao.SaveCartItem -> %w", err)
	}

	return cartItemDaoToDomain(saved), nil
}

func (r *BookingRepository) DeleteCartItem(ctx context.Context, id uint) error {
	if err := r.dao.DeleteCartItem(ctx, id); err != nil {
		return fmt.Errorf("r.dao.DeleteCartItem -> %w", err)
	}

	return nil
}

func (r *BookingRepository) SetCartTotal(ctx context.Context, cartID uint, total decimal.Decimal) error {
	if err := r.dao.SetCartTotal(ctx, cartID, total); err != nil {
		return fmt.Errorf("r.dao.SetCartTotal -> %w", err)
	}

	return nil
}

func (r *BookingRepository) FindMenuItem(ctx context.Context, venueID uint, id uuid.UUID) (domain.MenuItem, error) {
	found, err := r.dao.Venues().FindMenuItem(ctx, venueID, id)
	if err != nil {
		return domain.MenuItem{}, fmt.Errorf("r.dao.Venues().FindMenuItem -> %w", translate(err))
	}

	return menuItemDaoToDomain(found), nil
}

func (r *BookingRepository) FindVenue(ctx context.Context, id uint) (domain.Venue, error) {
	found, err := r.dao.Venues().FindByID(ctx, id)
	if err != nil {
		return domain.Venue{}, fmt.Errorf("r.dao.Venues().FindByID -> %w", translate(err))
	}

	return venueDaoToDomain(found), nil
}

func (r *BookingRepository) FindVenueByCode(ctx context.Context, code string) (domain.Venue, error) {
	found, err := r.dao.Venues().FindByCode(ctx, code)
	if err != nil {
		return domain.Venue{}, fmt.Errorf("r.dao.Venues().FindByCode -> %w", translate(err))
	}

	return venueDaoToDomain(found), nil
}

func (r *BookingRepository) FindWaiterByID(ctx context.Context, id uint) (domain.Waiter, error) {
	found, err := r.dao.Users().FindWaiterByID(ctx, id)
	if err != nil {
		return domain.Waiter{}, fmt.Errorf("r.dao.Users().FindWaiterByID -> %w", translate(err))
	}

	return waiterDaoToDomain(found), nil
}

func bookingDaoToDomain(b dao.Booking) domain.Booking {
	participants := make([]uint, 0, len(b.Participants))
	for _, p := range b.Participants {
		participants = append(participants, p.UserID)
	}

	return domain.Booking{
		ID:           b.ID,
		VenueID:      b.VenueID,
		VenueCode:    b.Venue.Code,
		TableID:      b.TableID,
		TableNumber:  b.Table.TableNumber,
		WaiterID:     b.WaiterID,
		Ongoing:      b.Ongoing,
		TotalBill:    b.TotalBill,
		Participants: participants,
		CreatedAt:    b.CreatedAt,
		EndedAt:      b.EndedAt,
	}
}

func cartDaoToDomain(c dao.Cart) domain.Cart {
	return domain.Cart{
		ID:        c.ID,
		BookingID: c.BookingID,
		TotalBill: c.TotalBill,
		Items:     cartItemsDaoToDomain(c.Items),
		UpdatedAt: c.UpdatedAt,
	}
}

func cartItemsDaoToDomain(items []dao.CartItem) []domain.CartItem {
	out := make([]domain.CartItem, 0, len(items))
	for _, item := range items {
		out = append(out, cartItemDaoToDomain(item))
	}

	return out
}

func cartItemDaoToDomain(c dao.CartItem) domain.CartItem {
	return domain.CartItem{
		ID:         c.ID,
		MenuItemID: c.MenuItemID,
		Name:       c.Name,
		Quantity:   c.Quantity,
		UnitPrice:  c.UnitPrice,
		TotalPrice: c.TotalPrice,
	}
}
