package service_test

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lasoiree/venue-api/internal/domain"
)

func TestCartService_TotalsFollowItems(t *testing.T) {
	f := newFixture(t)
	owner, venue := f.ownerWithVenue(t, "owner@example.com", nil)
	alice := f.customer(t, "alice@example.com")
	bob := f.customer(t, "bob@example.com")

	menu := []domain.MenuItem{
		f.menuItem(t, owner, venue.Code, "Masala Dosa", "12.50"),
		f.menuItem(t, owner, venue.Code, "Filter Coffee", "7.25"),
		f.menuItem(t, owner, venue.Code, "Gulab Jamun", "3.10"),
	}

	qr := domain.FormatQRCode(venue.Code, 1)
	booking, err := f.bookings.BookTable(f.ctx, alice, qr)
	require.NoError(t, err)
	_, err = f.bookings.JoinTable(f.ctx, bob, qr)
	require.NoError(t, err)

	_, err = f.carts.AddItem(f.ctx, alice, booking.ID, menu[0].ID, 1)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(42))
	actors := []domain.Actor{alice, bob}
	quantities := map[uuid.UUID]int{menu[0].ID: 1}

	for step := 0; step < 40; step++ {
		actor := actors[rng.Intn(len(actors))]
		item := menu[rng.Intn(len(menu))]

		var cart domain.Cart
		if rng.Intn(3) == 0 {
			cart, err = f.carts.RemoveItem(f.ctx, actor, booking.ID, item.ID)
			if quantities[item.ID] == 0 {
				assertDomainErr(t, domain.ErrItemNotInCart, err)
				continue
			}
			require.NoError(t, err)
			quantities[item.ID]--
		} else {
			qty := 1 + rng.Intn(3)
			cart, err = f.carts.AddItem(f.ctx, actor, booking.ID, item.ID, qty)
			require.NoError(t, err)
			quantities[item.ID] += qty
		}

		sum := decimal.Zero
		for _, line := range cart.Items {
			assert.Equal(t, quantities[line.MenuItemID], line.Quantity)
			assert.True(t, line.TotalPrice.Equal(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))),
				"step %d: line %s total %s", step, line.Name, line.TotalPrice)
			sum = sum.Add(line.TotalPrice)
		}
		assert.True(t, sum.Equal(cart.TotalBill), "step %d: sum %s total %s", step, sum, cart.TotalBill)

		current, err := f.bookings.GetBooking(f.ctx, alice, booking.ID)
		require.NoError(t, err)
		assert.True(t, current.TotalBill.Equal(cart.TotalBill), "step %d: booking %s cart %s", step, current.TotalBill, cart.TotalBill)

		stored, err := f.carts.GetCart(f.ctx, bob, booking.ID)
		require.NoError(t, err)
		assert.True(t, stored.TotalBill.Equal(cart.TotalBill))
	}
}

func TestCartService_AddItemFailures(t *testing.T) {
	f := newFixture(t)
	owner, venue := f.ownerWithVenue(t, "owner@example.com", nil)
	otherOwner, otherVenue := f.ownerWithVenue(t, "other@example.com", nil)
	alice := f.customer(t, "alice@example.com")
	mallory := f.customer(t, "mallory@example.com")

	item := f.menuItem(t, owner, venue.Code, "Idli", "30.00")
	foreign := f.menuItem(t, otherOwner, otherVenue.Code, "Burger", "90.00")

	unavailable := f.menuItem(t, owner, venue.Code, "Biryani", "250.00")
	off := false
	_, err := f.venues.UpdateMenuItem(f.ctx, owner, venue.Code, unavailable.ID, domain.MenuItemUpdate{IsAvailable: &off})
	require.NoError(t, err)

	booking, err := f.bookings.BookTable(f.ctx, alice, domain.FormatQRCode(venue.Code, 1))
	require.NoError(t, err)

	tests := []struct {
		name      string
		actor     domain.Actor
		bookingID uint
		itemID    uuid.UUID
		quantity  int
		want      *domain.Error
	}{
		{name: "zero quantity", actor: alice, bookingID: booking.ID, itemID: item.ID, quantity: 0, want: domain.ErrInvalidQuantity},
		{name: "negative quantity", actor: alice, bookingID: booking.ID, itemID: item.ID, quantity: -2, want: domain.ErrInvalidQuantity},
		{name: "quantity above line limit", actor: alice, bookingID: booking.ID, itemID: item.ID, quantity: domain.MaxLineQuantity + 1, want: domain.ErrInvalidQuantity},
		{name: "max int quantity", actor: alice, bookingID: booking.ID, itemID: item.ID, quantity: math.MaxInt, want: domain.ErrInvalidQuantity},
		{name: "unknown booking", actor: alice, bookingID: 9999, itemID: item.ID, quantity: 1, want: domain.ErrBookingNotFound},
		{name: "not a member", actor: mallory, bookingID: booking.ID, itemID: item.ID, quantity: 1, want: domain.ErrNotBookingMember},
		{name: "unknown item", actor: alice, bookingID: booking.ID, itemID: uuid.New(), quantity: 1, want: domain.ErrMenuItemNotFound},
		{name: "other venue item", actor: alice, bookingID: booking.ID, itemID: foreign.ID, quantity: 1, want: domain.ErrMenuItemNotFound},
		{name: "unavailable item", actor: alice, bookingID: booking.ID, itemID: unavailable.ID, quantity: 1, want: domain.ErrMenuItemUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.carts.AddItem(f.ctx, tt.actor, tt.bookingID, tt.itemID, tt.quantity)
			assertDomainErr(t, tt.want, err)
		})
	}
}

func TestCartService_LineQuantityLimit(t *testing.T) {
	f := newFixture(t)
	owner, venue := f.ownerWithVenue(t, "owner@example.com", nil)
	alice := f.customer(t, "alice@example.com")
	item := f.menuItem(t, owner, venue.Code, "Lassi", "10.00")

	booking, err := f.bookings.BookTable(f.ctx, alice, domain.FormatQRCode(venue.Code, 1))
	require.NoError(t, err)

	_, err = f.carts.AddItem(f.ctx, alice, booking.ID, item.ID, 1)
	require.NoError(t, err)

	_, err = f.carts.AddItem(f.ctx, alice, booking.ID, item.ID, math.MaxInt)
	assertDomainErr(t, domain.ErrInvalidQuantity, err)

	_, err = f.carts.AddItem(f.ctx, alice, booking.ID, item.ID, domain.MaxLineQuantity)
	assertDomainErr(t, domain.ErrInvalidQuantity, err)

	cart, err := f.carts.AddItem(f.ctx, alice, booking.ID, item.ID, domain.MaxLineQuantity-1)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, domain.MaxLineQuantity, cart.Items[0].Quantity)
	assertMoney(t, "9990.00", cart.TotalBill)

	_, err = f.carts.AddItem(f.ctx, alice, booking.ID, item.ID, 1)
	assertDomainErr(t, domain.ErrInvalidQuantity, err)

	current, err := f.bookings.GetBooking(f.ctx, alice, booking.ID)
	require.NoError(t, err)
	assertMoney(t, "9990.00", current.TotalBill)
	assert.False(t, current.TotalBill.IsNegative())
}

func TestCartService_BillLimit(t *testing.T) {
	assertBillLimit(t, newFixture(t))
}

// assertBillLimit fills a cart up to the numeric(12,2) ceiling with max-priced lines
// and checks the next line is rejected before anything is stored.
func assertBillLimit(t *testing.T, f *fixture) {
	t.Helper()

	owner, venue := f.ownerWithVenue(t, "owner@example.com", nil)
	alice := f.customer(t, "alice@example.com")

	booking, err := f.bookings.BookTable(f.ctx, alice, domain.FormatQRCode(venue.Code, 1))
	require.NoError(t, err)

	var cart domain.Cart
	for i := 0; i < 10; i++ {
		item := f.menuItem(t, owner, venue.Code, fmt.Sprintf("Champagne %d", i), domain.MaxMenuPrice.String())
		cart, err = f.carts.AddItem(f.ctx, alice, booking.ID, item.ID, domain.MaxLineQuantity)
		require.NoError(t, err)
	}
	assertMoney(t, "9990000000.00", cart.TotalBill)

	last := f.menuItem(t, owner, venue.Code, "Caviar", domain.MaxMenuPrice.String())
	_, err = f.carts.AddItem(f.ctx, alice, booking.ID, last.ID, 10)
	assertDomainErr(t, domain.ErrBillLimit, err)

	stored, err := f.carts.GetCart(f.ctx, alice, booking.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Items, 10)
	assertMoney(t, "9990000000.00", stored.TotalBill)
}

func TestCartService_RemoveItem(t *testing.T) {
	f := newFixture(t)
	owner, venue := f.ownerWithVenue(t, "owner@example.com", nil)
	alice := f.customer(t, "alice@example.com")
	dosa := f.menuItem(t, owner, venue.Code, "Dosa", "60.00")
	vada := f.menuItem(t, owner, venue.Code, "Vada", "25.00")

	booking, err := f.bookings.BookTable(f.ctx, alice, domain.FormatQRCode(venue.Code, 1))
	require.NoError(t, err)

	_, err = f.carts.RemoveItem(f.ctx, alice, booking.ID, dosa.ID)
	assertDomainErr(t, domain.ErrCartNotFound, err)

	_, err = f.carts.AddItem(f.ctx, alice, booking.ID, dosa.ID, 1)
	require.NoError(t, err)

	_, err = f.carts.RemoveItem(f.ctx, alice, booking.ID, vada.ID)
	assertDomainErr(t, domain.ErrItemNotInCart, err)

	cart, err := f.carts.RemoveItem(f.ctx, alice, booking.ID, dosa.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assertMoney(t, "0", cart.TotalBill)

	_, err = f.carts.GenerateBill(f.ctx, alice, booking.ID)
	assertDomainErr(t, domain.ErrEmptyCart, err)
}

func TestCartService_RepricesOnMutation(t *testing.T) {
	f := newFixture(t)
	owner, venue := f.ownerWithVenue(t, "owner@example.com", nil)
	alice := f.customer(t, "alice@example.com")
	item := f.menuItem(t, owner, venue.Code, "Thali", "100.00")

	booking, err := f.bookings.BookTable(f.ctx, alice, domain.FormatQRCode(venue.Code, 1))
	require.NoError(t, err)

	_, err = f.carts.AddItem(f.ctx, alice, booking.ID, item.ID, 1)
	require.NoError(t, err)

	price := decimal.RequireFromString("120.00")
	_, err = f.venues.UpdateMenuItem(f.ctx, owner, venue.Code, item.ID, domain.MenuItemUpdate{Price: &price})
	require.NoError(t, err)

	cart, err := f.carts.AddItem(f.ctx, alice, booking.ID, item.ID, 1)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assertMoney(t, "120.00", cart.Items[0].UnitPrice)
	assertMoney(t, "240.00", cart.TotalBill)
}

func TestCartService_GenerateBill(t *testing.T) {
	f := newFixture(t)
	owner, venue := f.ownerWithVenue(t, "owner@example.com", nil)
	alice := f.customer(t, "alice@example.com")
	mallory := f.customer(t, "mallory@example.com")
	waiter := f.waiter(t, owner, venue.Code, "waiter@example.com")
	naan := f.menuItem(t, owner, venue.Code, "Butter Naan", "45.00")
	dal := f.menuItem(t, owner, venue.Code, "Dal Makhani", "180.00")

	booking, err := f.bookings.BookTable(f.ctx, alice, domain.FormatQRCode(venue.Code, 2))
	require.NoError(t, err)

	_, err = f.carts.GenerateBill(f.ctx, alice, booking.ID)
	assertDomainErr(t, domain.ErrCartNotFound, err)

	_, err = f.bookings.AcceptBooking(f.ctx, waiter, booking.ID)
	require.NoError(t, err)

	_, err = f.carts.AddItem(f.ctx, alice, booking.ID, naan.ID, 3)
	require.NoError(t, err)
	_, err = f.carts.AddItem(f.ctx, waiter, booking.ID, dal.ID, 1)
	require.NoError(t, err)

	bill, err := f.carts.GenerateBill(f.ctx, owner, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, venue.Code, bill.VenueCode)
	assert.Equal(t, venue.Name, bill.VenueName)
	assert.Equal(t, 2, bill.TableNumber)
	assert.Equal(t, "waiter@example.com", bill.WaiterName)
	assert.True(t, bill.Ongoing)
	require.Len(t, bill.Lines, 2)
	assert.Equal(t, "Butter Naan", bill.Lines[0].Name)
	assert.Equal(t, 3, bill.Lines[0].Quantity)
	assertMoney(t, "135.00", bill.Lines[0].LineTotal)
	assertMoney(t, "315.00", bill.Total)

	_, err = f.carts.GenerateBill(f.ctx, mallory, booking.ID)
	assertDomainErr(t, domain.ErrNotBookingMember, err)
}
