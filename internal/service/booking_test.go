package service_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lasoiree/venue-api/internal/domain"
	"github.com/lasoiree/venue-api/internal/repository/dao"
	"github.com/lasoiree/venue-api/internal/service"
)

func TestBookingService_HappyPath(t *testing.T) {
	f := newFixture(t)
	owner, venue := f.ownerWithVenue(t, "owner@example.com", nil)
	require.Equal(t, "VEN001", venue.Code)

	item := f.menuItem(t, owner, venue.Code, "Paneer Tikka", "100.00")
	alice := f.customer(t, "alice@example.com")
	bob := f.customer(t, "bob@example.com")

	booking, err := f.bookings.BookTable(f.ctx, alice, "VEN001::1")
	require.NoError(t, err)
	assert.True(t, booking.Ongoing)
	assert.Equal(t, 1, booking.TableNumber)
	assert.Equal(t, "VEN001", booking.VenueCode)
	assert.Equal(t, []uint{alice.UserID()}, booking.Participants)
	assert.Nil(t, booking.WaiterID)

	tables, err := f.venues.ListTables(f.ctx, owner, venue.Code)
	require.NoError(t, err)
	require.Len(t, tables, 2)
	assert.True(t, tables[0].IsOccupied)
	assert.False(t, tables[1].IsOccupied)

	joined, err := f.bookings.JoinTable(f.ctx, bob, "VEN001::1")
	require.NoError(t, err)
	assert.Equal(t, booking.ID, joined.ID)
	assert.ElementsMatch(t, []uint{alice.UserID(), bob.UserID()}, joined.Participants)

	cart, err := f.carts.AddItem(f.ctx, alice, booking.ID, item.ID, 2)
	require.NoError(t, err)
	assertMoney(t, "200.00", cart.TotalBill)

	cart, err = f.carts.RemoveItem(f.ctx, bob, booking.ID, item.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 1, cart.Items[0].Quantity)
	assertMoney(t, "100.00", cart.TotalBill)

	ended, err := f.bookings.EndBooking(f.ctx, alice, booking.ID)
	require.NoError(t, err)
	assert.False(t, ended.Ongoing)
	assert.NotNil(t, ended.EndedAt)
	assertMoney(t, "100.00", ended.TotalBill)

	stats, err := f.venues.TableStats(f.ctx, owner, venue.Code)
	require.NoError(t, err)
	assert.Equal(t, domain.TableStats{VenueCode: "VEN001", Total: 2, Occupied: 0, Free: 2}, stats)

	assert.Equal(t, []domain.EventType{
		domain.EventBookingCreated,
		domain.EventBookingJoined,
		domain.EventCartUpdated,
		domain.EventCartUpdated,
		domain.EventBookingEnded,
	}, f.events.types())
}

func TestBookingService_ConcurrentBookTable(t *testing.T) {
	assertSingleBookingWins(t, newFixture(t), 8)
}

// assertSingleBookingWins races n customers for one table: exactly one books it.
func assertSingleBookingWins(t *testing.T, f *fixture, n int) {
	t.Helper()

	_, venue := f.ownerWithVenue(t, "owner@example.com", nil)
	qr := domain.FormatQRCode(venue.Code, 1)

	customers := make([]domain.Actor, n)
	for i := range customers {
		customers[i] = f.customer(t, fmt.Sprintf("customer%d@example.com", i))
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		booked   int
		occupied int
		other    []error
	)
	start := make(chan struct{})
	for _, c := range customers {
		wg.Add(1)
		go func(actor domain.Actor) {
			defer wg.Done()
			<-start

			_, err := f.bookings.BookTable(f.ctx, actor, qr)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				booked++
			case errors.Is(err, domain.ErrTableOccupied):
				occupied++
			default:
				other = append(other, err)
			}
		}(c)
	}
	close(start)
	wg.Wait()

	assert.Empty(t, other)
	assert.Equal(t, 1, booked)
	assert.Equal(t, n-1, occupied)

	var ongoing int64
	require.NoError(t, f.db.Model(&dao.Booking{}).Where("ongoing = ?", true).Count(&ongoing).Error)
	assert.EqualValues(t, 1, ongoing)
}

func TestBookingService_BookTableFailures(t *testing.T) {
	f := newFixture(t)
	owner, venue := f.ownerWithVenue(t, "owner@example.com", nil)
	alice := f.customer(t, "alice@example.com")

	tests := []struct {
		name  string
		actor domain.Actor
		qr    string
		want  *domain.Error
	}{
		{name: "malformed", actor: alice, qr: "VEN001-1", want: domain.ErrInvalidQRFormat},
		{name: "zero table", actor: alice, qr: "VEN001::0", want: domain.ErrInvalidQRFormat},
		{name: "unknown table", actor: alice, qr: "VEN001::99", want: domain.ErrTableNotFound},
		{name: "unknown venue", actor: alice, qr: "VEN404::1", want: domain.ErrTableNotFound},
		{name: "owner role", actor: owner, qr: venue.Code + "::1", want: domain.ErrPermissionDenied},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.bookings.BookTable(f.ctx, tt.actor, tt.qr)
			assertDomainErr(t, tt.want, err)
		})
	}
}

func TestBookingService_JoinTable(t *testing.T) {
	f := newFixture(t)
	_, venue := f.ownerWithVenue(t, "owner@example.com", nil)
	alice := f.customer(t, "alice@example.com")
	bob := f.customer(t, "bob@example.com")
	qr := domain.FormatQRCode(venue.Code, 1)

	_, err := f.bookings.JoinTable(f.ctx, bob, qr)
	assertDomainErr(t, domain.ErrTableNotOccupied, err)

	booking, err := f.bookings.BookTable(f.ctx, alice, qr)
	require.NoError(t, err)

	_, err = f.bookings.JoinTable(f.ctx, alice, qr)
	assertDomainErr(t, domain.ErrAlreadyJoined, err)

	_, err = f.bookings.JoinTable(f.ctx, bob, qr)
	require.NoError(t, err)

	_, err = f.bookings.JoinTable(f.ctx, bob, qr)
	assertDomainErr(t, domain.ErrAlreadyJoined, err)

	current, err := f.bookings.GetBooking(f.ctx, bob, booking.ID)
	require.NoError(t, err)
	assert.Len(t, current.Participants, 2)
}

func TestBookingService_JoinTableWithoutOngoingBooking(t *testing.T) {
	f := newFixture(t)
	_, venue := f.ownerWithVenue(t, "owner@example.com", nil)
	bob := f.customer(t, "bob@example.com")

	// Occupied flag set with no booking behind it.
	require.NoError(t, f.db.Model(&dao.Table{}).
		Where("qr_code = ?", domain.FormatQRCode(venue.Code, 2)).
		Update("is_occupied", true).Error)

	_, err := f.bookings.JoinTable(f.ctx, bob, domain.FormatQRCode(venue.Code, 2))
	assertDomainErr(t, domain.ErrNoActiveBooking, err)
}

func TestBookingService_AcceptBooking(t *testing.T) {
	f := newFixture(t)
	owner, venue := f.ownerWithVenue(t, "owner@example.com", nil)
	otherOwner, otherVenue := f.ownerWithVenue(t, "other@example.com", nil)
	alice := f.customer(t, "alice@example.com")
	mallory := f.customer(t, "mallory@example.com")

	first := f.waiter(t, owner, venue.Code, "first@example.com")
	second := f.waiter(t, owner, venue.Code, "second@example.com")
	outsider := f.waiter(t, otherOwner, otherVenue.Code, "outsider@example.com")

	booking, err := f.bookings.BookTable(f.ctx, alice, domain.FormatQRCode(venue.Code, 1))
	require.NoError(t, err)

	_, err = f.bookings.AcceptBooking(f.ctx, alice, booking.ID)
	assertDomainErr(t, domain.ErrPermissionDenied, err)

	_, err = f.bookings.AcceptBooking(f.ctx, outsider, booking.ID)
	assertDomainErr(t, domain.ErrPermissionDenied, err)

	accepted, err := f.bookings.AcceptBooking(f.ctx, first, booking.ID)
	require.NoError(t, err)
	require.NotNil(t, accepted.WaiterID)
	assert.Equal(t, first.(domain.WaiterActor).WaiterID, *accepted.WaiterID)

	_, err = f.bookings.AcceptBooking(f.ctx, second, booking.ID)
	assertDomainErr(t, domain.ErrAlreadyAssigned, err)

	_, err = f.bookings.AcceptBooking(f.ctx, first, 9999)
	assertDomainErr(t, domain.ErrBookingNotFound, err)

	_, err = f.bookings.EndBooking(f.ctx, mallory, booking.ID)
	assertDomainErr(t, domain.ErrNotAuthorizedForBooking, err)

	_, err = f.bookings.EndBooking(f.ctx, second, booking.ID)
	assertDomainErr(t, domain.ErrNotAuthorizedForBooking, err)

	ended, err := f.bookings.EndBooking(f.ctx, first, booking.ID)
	require.NoError(t, err)
	assert.False(t, ended.Ongoing)
}

func TestBookingService_EndedBookingIsImmutable(t *testing.T) {
	f := newFixture(t)
	owner, venue := f.ownerWithVenue(t, "owner@example.com", nil)
	item := f.menuItem(t, owner, venue.Code, "Lime Soda", "40.00")
	alice := f.customer(t, "alice@example.com")
	bob := f.customer(t, "bob@example.com")
	waiter := f.waiter(t, owner, venue.Code, "waiter@example.com")
	qr := domain.FormatQRCode(venue.Code, 1)

	booking, err := f.bookings.BookTable(f.ctx, alice, qr)
	require.NoError(t, err)
	_, err = f.carts.AddItem(f.ctx, alice, booking.ID, item.ID, 1)
	require.NoError(t, err)
	_, err = f.bookings.EndBooking(f.ctx, alice, booking.ID)
	require.NoError(t, err)

	_, err = f.carts.AddItem(f.ctx, alice, booking.ID, item.ID, 1)
	assertDomainErr(t, domain.ErrBookingNotOngoing, err)

	_, err = f.carts.RemoveItem(f.ctx, alice, booking.ID, item.ID)
	assertDomainErr(t, domain.ErrBookingNotOngoing, err)

	_, err = f.bookings.JoinTable(f.ctx, bob, qr)
	assertDomainErr(t, domain.ErrTableNotOccupied, err)

	_, err = f.bookings.AcceptBooking(f.ctx, waiter, booking.ID)
	assertDomainErr(t, domain.ErrBookingNotOngoing, err)

	_, err = f.bookings.EndBooking(f.ctx, alice, booking.ID)
	assertDomainErr(t, domain.ErrBookingNotOngoing, err)

	frozen, err := f.bookings.GetBooking(f.ctx, alice, booking.ID)
	require.NoError(t, err)
	assertMoney(t, "40.00", frozen.TotalBill)
	assert.Len(t, frozen.Participants, 1)

	bill, err := f.carts.GenerateBill(f.ctx, alice, booking.ID)
	require.NoError(t, err)
	assert.False(t, bill.Ongoing)
	assertMoney(t, "40.00", bill.Total)

	// The table is free again and takes a fresh booking.
	next, err := f.bookings.BookTable(f.ctx, bob, qr)
	require.NoError(t, err)
	assert.NotEqual(t, booking.ID, next.ID)
}

func TestBookingService_Reads(t *testing.T) {
	f := newFixture(t)
	owner, venue := f.ownerWithVenue(t, "owner@example.com", nil)
	otherOwner, _ := f.ownerWithVenue(t, "other@example.com", nil)
	alice := f.customer(t, "alice@example.com")
	mallory := f.customer(t, "mallory@example.com")
	waiter := f.waiter(t, owner, venue.Code, "waiter@example.com")

	booking, err := f.bookings.BookTable(f.ctx, alice, domain.FormatQRCode(venue.Code, 2))
	require.NoError(t, err)

	for name, actor := range map[string]domain.Actor{"participant": alice, "owner": owner, "waiter": waiter} {
		t.Run(name, func(t *testing.T) {
			got, err := f.bookings.GetBooking(f.ctx, actor, booking.ID)
			require.NoError(t, err)
			assert.Equal(t, booking.ID, got.ID)
		})
	}

	_, err = f.bookings.GetBooking(f.ctx, mallory, booking.ID)
	assertDomainErr(t, domain.ErrNotBookingMember, err)

	_, err = f.bookings.GetBooking(f.ctx, otherOwner, booking.ID)
	assertDomainErr(t, domain.ErrNotBookingMember, err)

	ongoing := true
	list, err := f.bookings.ListVenueBookings(f.ctx, waiter, venue.Code, &ongoing)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 2, list[0].TableNumber)

	_, err = f.bookings.ListVenueBookings(f.ctx, alice, venue.Code, nil)
	assertDomainErr(t, domain.ErrPermissionDenied, err)

	_, err = f.bookings.ListVenueBookings(f.ctx, otherOwner, venue.Code, nil)
	assertDomainErr(t, domain.ErrPermissionDenied, err)
}

func TestBookingService_PublishFailureDoesNotFailTransition(t *testing.T) {
	f := newFixture(t)
	_, venue := f.ownerWithVenue(t, "owner@example.com", nil)
	alice := f.customer(t, "alice@example.com")

	f.events.err = errors.New("broker down")

	booking, err := f.bookings.BookTable(f.ctx, alice, domain.FormatQRCode(venue.Code, 1))
	require.NoError(t, err)
	assert.True(t, booking.Ongoing)
	assert.Equal(t, []domain.EventType{domain.EventBookingCreated}, f.events.types())
}

var _ service.EventPublisher = (*recorder)(nil)
