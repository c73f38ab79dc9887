package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lasoiree/venue-api/internal/domain"
	"github.com/lasoiree/venue-api/internal/repository"
)

type BookingRepository interface {
	Transaction(ctx context.Context, fn func(tx *repository.BookingRepository) error) error
	FindByID(ctx context.Context, id uint, forUpdate bool) (domain.Booking, error)
	ListByVenue(ctx context.Context, venueID uint, ongoing *bool) ([]domain.Booking, error)
	FindCart(ctx context.Context, bookingID uint) (domain.Cart, error)
	FindVenue(ctx context.Context, id uint) (domain.Venue, error)
	FindVenueByCode(ctx context.Context, code string) (domain.Venue, error)
	FindWaiterByID(ctx context.Context, id uint) (domain.Waiter, error)
}

// BookingService owns the table occupancy state machine. Every transition runs
// in one transaction with the table or booking row locked.
type BookingService struct {
	repo   BookingRepository
	gate   *Gate
	events EventPublisher
	now    func() time.Time
}

func NewBookingService(repo BookingRepository, gate *Gate, events EventPublisher) *BookingService {
	return &BookingService{
		repo:   repo,
		gate:   gate,
		events: events,
		now:    time.Now,
	}
}

// BookTable opens a booking on a free table. Concurrent bookers of the same
// table serialize on the table row; the loser gets ErrTableOccupied.
func (s *BookingService) BookTable(ctx context.Context, actor domain.Actor, qrCode string) (booking domain.Booking, err error) {
	defer func() { observe("book_table", err) }()

	if actor == nil || actor.Role() != domain.RoleCustomer {
		return domain.Booking{}, domain.ErrPermissionDenied
	}

	venueCode, tableNumber, err := domain.ParseQRCode(qrCode)
	if err != nil {
		return domain.Booking{}, err
	}

	err = s.repo.Transaction(ctx, func(tx *repository.BookingRepository) error {
		table, err := tx.FindTableByQR(ctx, domain.FormatQRCode(venueCode, tableNumber), true)
		if err != nil {
			return fmt.Errorf("tx.FindTableByQR -> %w", err)
		}

		if table.IsOccupied {
			return domain.ErrTableOccupied
		}

		if err = tx.OccupyTable(ctx, table.ID); err != nil {
			return fmt.Errorf("tx.OccupyTable -> %w", err)
		}

		booking, err = tx.Create(ctx, table, actor.UserID())
		if err != nil {
			return fmt.Errorf("tx.Create -> %w", err)
		}

		return nil
	})
	if err != nil {
		return domain.Booking{}, fmt.Errorf("s.repo.Transaction -> %w", err)
	}

	s.publish(ctx, domain.EventBookingCreated, booking, actor, nil)

	return booking, nil
}

// JoinTable adds the actor to the ongoing booking on an occupied table.
// Joining twice is an error, not a no-op.
func (s *BookingService) JoinTable(ctx context.Context, actor domain.Actor, qrCode string) (booking domain.Booking, err error) {
	defer func() { observe("join_table", err) }()

	if actor == nil || actor.Role() != domain.RoleCustomer {
		return domain.Booking{}, domain.ErrPermissionDenied
	}

	venueCode, tableNumber, err := domain.ParseQRCode(qrCode)
	if err != nil {
		return domain.Booking{}, err
	}

	err = s.repo.Transaction(ctx, func(tx *repository.BookingRepository) error {
		table, err := tx.FindTableByQR(ctx, domain.FormatQRCode(venueCode, tableNumber), true)
		if err != nil {
			return fmt.Errorf("tx.FindTableByQR -> %w", err)
		}

		if !table.IsOccupied {
			return domain.ErrTableNotOccupied
		}

		ongoing, err := tx.FindOngoingByTable(ctx, table.ID)
		if err != nil {
			if errors.Is(err, domain.ErrBookingNotFound) {
				return domain.ErrNoActiveBooking
			}
			return fmt.Errorf("tx.FindOngoingByTable -> %w", err)
		}

		if ongoing.HasParticipant(actor.UserID()) {
			return domain.ErrAlreadyJoined
		}

		if err = tx.AddParticipant(ctx, ongoing.ID, actor.UserID()); err != nil {
			return fmt.Errorf("tx.AddParticipant -> %w", err)
		}

		booking, err = tx.FindByID(ctx, ongoing.ID, false)
		if err != nil {
			return fmt.Errorf("tx.FindByID -> %w", err)
		}

		return nil
	})
	if err != nil {
		return domain.Booking{}, fmt.Errorf("s.repo.Transaction -> %w", err)
	}

	s.publish(ctx, domain.EventBookingJoined, booking, actor, nil)

	return booking, nil
}

// AcceptBooking assigns the acting waiter to an unassigned ongoing booking at their venue.
func (s *BookingService) AcceptBooking(ctx context.Context, actor domain.Actor, bookingID uint) (booking domain.Booking, err error) {
	defer func() { observe("accept_booking", err) }()

	waiter, ok := actor.(domain.WaiterActor)
	if !ok {
		return domain.Booking{}, domain.ErrPermissionDenied
	}

	err = s.repo.Transaction(ctx, func(tx *repository.BookingRepository) error {
		current, err := tx.FindByID(ctx, bookingID, true)
		if err != nil {
			return fmt.Errorf("tx.FindByID -> %w", err)
		}

		if current.VenueID != waiter.VenueID {
			return domain.ErrPermissionDenied
		}

		if !current.Ongoing {
			return domain.ErrBookingNotOngoing
		}

		if current.WaiterID != nil {
			return domain.ErrAlreadyAssigned
		}

		assigned, err := tx.AssignWaiter(ctx, bookingID, waiter.WaiterID)
		if err != nil {
			return fmt.Errorf("tx.AssignWaiter -> %w", err)
		}

		if !assigned {
			return domain.ErrAlreadyAssigned
		}

		booking, err = tx.FindByID(ctx, bookingID, false)
		if err != nil {
			return fmt.Errorf("tx.FindByID -> %w", err)
		}

		return nil
	})
	if err != nil {
		return domain.Booking{}, fmt.Errorf("s.repo.Transaction -> %w", err)
	}

	s.publish(ctx, domain.EventBookingAccepted, booking, actor, nil)

	return booking, nil
}

// EndBooking closes the booking and frees its table. The total stays as the cart left it.
func (s *BookingService) EndBooking(ctx context.Context, actor domain.Actor, bookingID uint) (booking domain.Booking, err error) {
	defer func() { observe("end_booking", err) }()

	if actor == nil {
		return domain.Booking{}, domain.ErrNotAuthorizedForBooking
	}

	err = s.repo.Transaction(ctx, func(tx *repository.BookingRepository) error {
		current, err := tx.FindByID(ctx, bookingID, true)
		if err != nil {
			return fmt.Errorf("tx.FindByID -> %w", err)
		}

		if !isBookingMember(actor, current) {
			return domain.ErrNotAuthorizedForBooking
		}

		if !current.Ongoing {
			return domain.ErrBookingNotOngoing
		}

		ended, err := tx.End(ctx, bookingID, s.now())
		if err != nil {
			return fmt.Errorf("tx.End -> %w", err)
		}

		if !ended {
			return domain.ErrBookingNotOngoing
		}

		if err = tx.ReleaseTable(ctx, current.TableID); err != nil {
			return fmt.Errorf("tx.ReleaseTable -> %w", err)
		}

		booking, err = tx.FindByID(ctx, bookingID, false)
		if err != nil {
			return fmt.Errorf("tx.FindByID -> %w", err)
		}

		return nil
	})
	if err != nil {
		return domain.Booking{}, fmt.Errorf("s.repo.Transaction -> %w", err)
	}

	s.publish(ctx, domain.EventBookingEnded, booking, actor, map[string]interface{}{
		"total_bill": booking.TotalBill,
	})

	return booking, nil
}

func (s *BookingService) GetBooking(ctx context.Context, actor domain.Actor, bookingID uint) (domain.Booking, error) {
	booking, err := s.repo.FindByID(ctx, bookingID, false)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if err = authorizeBookingRead(ctx, s.gate, actor, booking, domain.RoleOwner, domain.RoleManager, domain.RoleWaiter); err != nil {
		return domain.Booking{}, err
	}

	return booking, nil
}

// ListVenueBookings lets venue staff see bookings, e.g. waiters picking unassigned ones.
func (s *BookingService) ListVenueBookings(ctx context.Context, actor domain.Actor, venueCode string, ongoing *bool) ([]domain.Booking, error) {
	venue, err := s.repo.FindVenueByCode(ctx, venueCode)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindVenueByCode -> %w", err)
	}

	if err = s.gate.Authorize(ctx, actor, venue.ID, domain.RoleOwner, domain.RoleManager, domain.RoleWaiter); err != nil {
		return nil, fmt.Errorf("s.gate.Authorize -> %w", err)
	}

	bookings, err := s.repo.ListByVenue(ctx, venue.ID, ongoing)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListByVenue -> %w", err)
	}

	return bookings, nil
}

func (s *BookingService) publish(ctx context.Context, typ domain.EventType, booking domain.Booking, actor domain.Actor, payload interface{}) {
	publish(ctx, s.events, domain.Event{
		Type:        typ,
		VenueID:     booking.VenueID,
		VenueCode:   booking.VenueCode,
		TableNumber: booking.TableNumber,
		BookingID:   booking.ID,
		ActorID:     actor.UserID(),
		Payload:     payload,
		At:          s.now(),
	})
}

// isBookingMember reports whether actor is a participant or the assigned waiter.
func isBookingMember(actor domain.Actor, booking domain.Booking) bool {
	if booking.HasParticipant(actor.UserID()) {
		return true
	}

	if waiter, ok := actor.(domain.WaiterActor); ok {
		return booking.AssignedTo(waiter.WaiterID)
	}

	return false
}

// authorizeBookingRead admits booking members and the given venue staff roles.
func authorizeBookingRead(ctx context.Context, gate *Gate, actor domain.Actor, booking domain.Booking, staff ...domain.Role) error {
	if actor == nil {
		return domain.ErrNotBookingMember
	}

	if isBookingMember(actor, booking) {
		return nil
	}

	if err := gate.Authorize(ctx, actor, booking.VenueID, staff...); err != nil {
		if errors.Is(err, domain.ErrPermissionDenied) {
			return domain.ErrNotBookingMember
		}
		return fmt.Errorf("gate.Authorize -> %w", err)
	}

	return nil
}
