package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lasoiree/venue-api/internal/domain"
	"github.com/lasoiree/venue-api/internal/repository"
)

// CartService keeps each booking's cart. Totals are always recomputed from the
// full set of lines under the cart row lock, then mirrored onto the booking.
type CartService struct {
	repo   BookingRepository
	gate   *Gate
	events EventPublisher
	now    func() time.Time
}

func NewCartService(repo BookingRepository, gate *Gate, events EventPublisher) *CartService {
	return &CartService{
		repo:   repo,
		gate:   gate,
		events: events,
		now:    time.Now,
	}
}

// AddItem adds quantity of a menu item, priced at the item's current price.
func (s *CartService) AddItem(ctx context.Context, actor domain.Actor, bookingID uint, menuItemID uuid.UUID, quantity int) (cart domain.Cart, err error) {
	defer func() { observe("add_cart_item", err) }()

	if !domain.ValidQuantity(quantity) {
		return domain.Cart{}, domain.ErrInvalidQuantity
	}

	var booking domain.Booking
	err = s.repo.Transaction(ctx, func(tx *repository.BookingRepository) error {
		current, err := lockMutableBooking(ctx, tx, actor, bookingID)
		if err != nil {
			return err
		}
		booking = current

		item, err := tx.FindMenuItem(ctx, current.VenueID, menuItemID)
		if err != nil {
			return fmt.Errorf("tx.FindMenuItem -> %w", err)
		}

		if !item.IsAvailable {
			return domain.ErrMenuItemUnavailable
		}

		locked, err := tx.LockCart(ctx, bookingID)
		if err != nil {
			return fmt.Errorf("tx.LockCart -> %w", err)
		}

		line := domain.CartItem{MenuItemID: item.ID, Name: item.Name}
		if existing, ok := findLine(locked.Items, item.ID); ok {
			line = existing
		}
		line.Quantity += quantity
		if !domain.ValidQuantity(line.Quantity) {
			return domain.ErrInvalidQuantity
		}
		line.UnitPrice = item.Price
		line.TotalPrice = domain.LineTotal(item.Price, line.Quantity)

		if _, err = tx.SaveCartItem(ctx, locked.ID, line); err != nil {
			return fmt.Errorf("tx.SaveCartItem -> %w", err)
		}

		cart, err = recomputeCart(ctx, tx, locked)
		return err
	})
	if err != nil {
		return domain.Cart{}, fmt.Errorf("s.repo.Transaction -> %w", err)
	}

	s.publish(ctx, booking, actor, cart)

	return cart, nil
}

// RemoveItem takes one unit of a menu item off the cart, dropping the line at zero.
func (s *CartService) RemoveItem(ctx context.Context, actor domain.Actor, bookingID uint, menuItemID uuid.UUID) (cart domain.Cart, err error) {
	defer func() { observe("remove_cart_item", err) }()

	var booking domain.Booking
	err = s.repo.Transaction(ctx, func(tx *repository.BookingRepository) error {
		current, err := lockMutableBooking(ctx, tx, actor, bookingID)
		if err != nil {
			return err
		}
		booking = current

		if _, err = tx.FindCart(ctx, bookingID); err != nil {
			return fmt.Errorf("tx.FindCart -> %w", err)
		}

		locked, err := tx.LockCart(ctx, bookingID)
		if err != nil {
			return fmt.Errorf("tx.LockCart -> %w", err)
		}

		line, ok := findLine(locked.Items, menuItemID)
		if !ok {
			return domain.ErrItemNotInCart
		}

		if line.Quantity <= 1 {
			if err = tx.DeleteCartItem(ctx, line.ID); err != nil {
				return fmt.Errorf("tx.DeleteCartItem -> %w", err)
			}
		} else {
			line.Quantity--

			item, err := tx.FindMenuItem(ctx, current.VenueID, menuItemID)
			switch {
			case err == nil:
				line.UnitPrice = item.Price
			case !errors.Is(err, domain.ErrMenuItemNotFound):
				return fmt.Errorf("tx.FindMenuItem -> %w", err)
			}
			line.TotalPrice = domain.LineTotal(line.UnitPrice, line.Quantity)

			if _, err = tx.SaveCartItem(ctx, locked.ID, line); err != nil {
				return fmt.Errorf("tx.SaveCartItem -> %w", err)
			}
		}

		cart, err = recomputeCart(ctx, tx, locked)
		return err
	})
	if err != nil {
		return domain.Cart{}, fmt.Errorf("s.repo.Transaction -> %w", err)
	}

	s.publish(ctx, booking, actor, cart)

	return cart, nil
}

// GetCart returns the cart, or an empty one when nothing was ordered yet.
func (s *CartService) GetCart(ctx context.Context, actor domain.Actor, bookingID uint) (domain.Cart, error) {
	booking, err := s.repo.FindByID(ctx, bookingID, false)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if err = authorizeBookingRead(ctx, s.gate, actor, booking, domain.RoleOwner, domain.RoleManager); err != nil {
		return domain.Cart{}, err
	}

	cart, err := s.repo.FindCart(ctx, bookingID)
	if err != nil {
		if errors.Is(err, domain.ErrCartNotFound) {
			return domain.Cart{BookingID: bookingID, TotalBill: booking.TotalBill, Items: []domain.CartItem{}}, nil
		}
		return domain.Cart{}, fmt.Errorf("s.repo.FindCart -> %w", err)
	}

	return cart, nil
}

// GenerateBill renders an itemized snapshot of the cart. It also works after the booking ended.
func (s *CartService) GenerateBill(ctx context.Context, actor domain.Actor, bookingID uint) (domain.Bill, error) {
	booking, err := s.repo.FindByID(ctx, bookingID, false)
	if err != nil {
		return domain.Bill{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if err = authorizeBookingRead(ctx, s.gate, actor, booking, domain.RoleOwner, domain.RoleManager); err != nil {
		return domain.Bill{}, err
	}

	cart, err := s.repo.FindCart(ctx, bookingID)
	if err != nil {
		return domain.Bill{}, fmt.Errorf("s.repo.FindCart -> %w", err)
	}

	if !cart.TotalBill.IsPositive() {
		return domain.Bill{}, domain.ErrEmptyCart
	}

	venue, err := s.repo.FindVenue(ctx, booking.VenueID)
	if err != nil {
		return domain.Bill{}, fmt.Errorf("s.repo.FindVenue -> %w", err)
	}

	bill := domain.Bill{
		BookingID:   booking.ID,
		VenueCode:   venue.Code,
		VenueName:   venue.Name,
		TableNumber: booking.TableNumber,
		Ongoing:     booking.Ongoing,
		Lines:       make([]domain.BillLine, 0, len(cart.Items)),
		Total:       cart.TotalBill,
		GeneratedAt: s.now(),
	}

	if booking.WaiterID != nil {
		waiter, err := s.repo.FindWaiterByID(ctx, *booking.WaiterID)
		switch {
		case err == nil:
			bill.WaiterName = waiter.Name
		case !errors.Is(err, domain.ErrWaiterNotFound):
			return domain.Bill{}, fmt.Errorf("s.repo.FindWaiterByID -> %w", err)
		}
	}

	for _, item := range cart.Items {
		bill.Lines = append(bill.Lines, domain.BillLine{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: item.TotalPrice,
		})
	}

	return bill, nil
}

func (s *CartService) publish(ctx context.Context, booking domain.Booking, actor domain.Actor, cart domain.Cart) {
	publish(ctx, s.events, domain.Event{
		Type:        domain.EventCartUpdated,
		VenueID:     booking.VenueID,
		VenueCode:   booking.VenueCode,
		TableNumber: booking.TableNumber,
		BookingID:   booking.ID,
		ActorID:     actor.UserID(),
		Payload:     map[string]interface{}{"total_bill": cart.TotalBill, "items": len(cart.Items)},
		At:          s.now(),
	})
}

// lockMutableBooking locks the booking row and checks it still accepts cart changes from actor.
func lockMutableBooking(ctx context.Context, tx *repository.BookingRepository, actor domain.Actor, bookingID uint) (domain.Booking, error) {
	booking, err := tx.FindByID(ctx, bookingID, true)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("tx.FindByID -> %w", err)
	}

	if !booking.Ongoing {
		return domain.Booking{}, domain.ErrBookingNotOngoing
	}

	if actor == nil || !isBookingMember(actor, booking) {
		return domain.Booking{}, domain.ErrNotBookingMember
	}

	return booking, nil
}

func recomputeCart(ctx context.Context, tx *repository.BookingRepository, cart domain.Cart) (domain.Cart, error) {
	items, err := tx.ListCartItems(ctx, cart.ID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("tx.ListCartItems -> %w", err)
	}

	total := domain.SumCartItems(items)
	if total.GreaterThan(domain.MaxBillTotal) {
		return domain.Cart{}, domain.ErrBillLimit
	}

	if err = tx.SetCartTotal(ctx, cart.ID, total); err != nil {
		return domain.Cart{}, fmt.Errorf("tx.SetCartTotal -> %w", err)
	}

	if err = tx.SetTotal(ctx, cart.BookingID, total); err != nil {
		return domain.Cart{}, fmt.Errorf("tx.SetTotal -> %w", err)
	}

	cart.Items = items
	cart.TotalBill = total

	return cart, nil
}

func findLine(items []domain.CartItem, menuItemID uuid.UUID) (domain.CartItem, bool) {
	for _, item := range items {
		if item.MenuItemID == menuItemID {
			return item, true
		}
	}

	return domain.CartItem{}, false
}
