package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQRCode(t *testing.T) {
	tests := []struct {
		qr     string
		venue  string
		number int
		err    error
	}{
		{qr: "VEN001::1", venue: "VEN001", number: 1},
		{qr: "VEN042::17", venue: "VEN042", number: 17},
		{qr: "VEN1234::3", venue: "VEN1234", number: 3},
		{qr: "VEN001:1", err: ErrInvalidQRFormat},
		{qr: "VEN001::", err: ErrInvalidQRFormat},
		{qr: "VEN001::0", err: ErrInvalidQRFormat},
		{qr: "VEN001::-1", err: ErrInvalidQRFormat},
		{qr: "VEN001::01", err: ErrInvalidQRFormat},
		{qr: "VEN001::1::2", err: ErrInvalidQRFormat},
		{qr: "VE001::1", err: ErrInvalidQRFormat},
		{qr: "VEN01::1", err: ErrInvalidQRFormat},
		{qr: "", err: ErrInvalidQRFormat},
	}
	for _, tt := range tests {
		t.Run(tt.qr, func(t *testing.T) {
			venue, number, err := ParseQRCode(tt.qr)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.venue, venue)
			assert.Equal(t, tt.number, number)
			assert.Equal(t, tt.qr, FormatQRCode(venue, number))
		})
	}
}

func TestFormatVenueCode(t *testing.T) {
	assert.Equal(t, "VEN001", FormatVenueCode(1))
	assert.Equal(t, "VEN099", FormatVenueCode(99))
	assert.Equal(t, "VEN1000", FormatVenueCode(1000))
	assert.True(t, ValidVenueCode(FormatVenueCode(1000)))
}

func TestParseRole(t *testing.T) {
	for _, role := range []Role{RoleCustomer, RoleOwner, RoleManager, RoleWaiter} {
		parsed, err := ParseRole(role.String())
		require.NoError(t, err)
		assert.Equal(t, role, parsed)
	}

	parsed, err := ParseRole(" Waiter ")
	require.NoError(t, err)
	assert.Equal(t, RoleWaiter, parsed)

	_, err = ParseRole("admin")
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestActorRoles(t *testing.T) {
	actors := map[Role]Actor{
		RoleCustomer: NewCustomerActor(1),
		RoleOwner:    NewOwnerActor(1, 2),
		RoleManager:  NewManagerActor(1, 3),
		RoleWaiter:   NewWaiterActor(1, 4, 5),
	}
	for role, actor := range actors {
		assert.Equal(t, role, actor.Role())
		assert.EqualValues(t, 1, actor.UserID())
	}
}

func TestErrorKinds(t *testing.T) {
	wrapped := fmt.Errorf("s.repo.FindByID -> %w", ErrBookingNotFound)

	derr, ok := AsError(wrapped)
	require.True(t, ok)
	assert.Equal(t, "BOOKING_NOT_FOUND", derr.Code)
	assert.Equal(t, KindNotFound, KindOf(wrapped))
	assert.Equal(t, KindConflict, KindOf(ErrTableOccupied))
	assert.Equal(t, KindPermissionDenied, KindOf(ErrNotBookingMember))
	assert.Equal(t, KindValidation, KindOf(NewValidationError(fmt.Errorf("name is required"))))
	assert.Equal(t, KindInternal, KindOf(fmt.Errorf("connection reset")))
}

func TestLineTotalAndSum(t *testing.T) {
	price := decimal.RequireFromString("33.33")

	assert.True(t, LineTotal(price, 3).Equal(decimal.RequireFromString("99.99")))

	items := []CartItem{
		{TotalPrice: LineTotal(price, 3)},
		{TotalPrice: LineTotal(decimal.RequireFromString("0.10"), 7)},
	}
	assert.True(t, SumCartItems(items).Equal(decimal.RequireFromString("100.69")))
	assert.True(t, SumCartItems(nil).IsZero())
}

func TestMoneyBounds(t *testing.T) {
	assert.False(t, ValidQuantity(0))
	assert.True(t, ValidQuantity(1))
	assert.True(t, ValidQuantity(MaxLineQuantity))
	assert.False(t, ValidQuantity(MaxLineQuantity+1))

	assert.True(t, ValidPrice(decimal.Zero))
	assert.True(t, ValidPrice(MaxMenuPrice))
	assert.False(t, ValidPrice(MaxMenuPrice.Add(decimal.RequireFromString("0.01"))))
	assert.False(t, ValidPrice(decimal.RequireFromString("1.005")))
	assert.False(t, ValidPrice(decimal.RequireFromString("-0.01")))

	// The largest line must fit numeric(12,2), and so must ten of them.
	maxLine := LineTotal(MaxMenuPrice, MaxLineQuantity)
	assert.False(t, maxLine.GreaterThan(MaxBillTotal))
	assert.False(t, maxLine.Mul(decimal.NewFromInt(10)).GreaterThan(MaxBillTotal))

	assert.NoError(t, MenuItem{Price: MaxMenuPrice}.Check())
	assert.ErrorIs(t, MenuItem{Price: decimal.RequireFromString("100000000")}.Check(), ErrInvalidPrice)
	assert.Equal(t, KindValidation, KindOf(MenuItem{Price: decimal.NewFromInt(5), Discount: decimal.NewFromInt(120)}.Check()))
}

func TestBookingMembership(t *testing.T) {
	waiterID := uint(9)
	booking := Booking{Participants: []uint{1, 2}, WaiterID: &waiterID}

	assert.True(t, booking.HasParticipant(2))
	assert.False(t, booking.HasParticipant(3))
	assert.True(t, booking.AssignedTo(9))
	assert.False(t, booking.AssignedTo(1))
	assert.False(t, Booking{}.AssignedTo(0))
}

func TestOfferCheck(t *testing.T) {
	start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(48 * time.Hour)
	before := start.Add(-time.Hour)
	twenty := decimal.NewFromInt(20)
	tooBig := decimal.NewFromInt(101)
	level := 3
	badLevel := 6

	tests := []struct {
		name  string
		offer Offer
		ok    bool
	}{
		{name: "free drink", offer: Offer{Type: OfferFreeDrink, StartDate: start}, ok: true},
		{name: "happy hour", offer: Offer{Type: OfferHappyHour, StartDate: start, EndDate: &end, DiscountPercentage: &twenty}, ok: true},
		{name: "happy hour without discount", offer: Offer{Type: OfferHappyHour, StartDate: start}},
		{name: "percentage off without discount", offer: Offer{Type: OfferPercentageOff, StartDate: start}},
		{name: "discount over 100", offer: Offer{Type: OfferPercentageOff, StartDate: start, DiscountPercentage: &tooBig}},
		{name: "end before start", offer: Offer{Type: OfferFreeDrink, StartDate: start, EndDate: &before}},
		{name: "level in range", offer: Offer{Type: OfferLaSoireeLevel, StartDate: start, Level: &level}, ok: true},
		{name: "level out of range", offer: Offer{Type: OfferLaSoireeLevel, StartDate: start, Level: &badLevel}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.offer.Check()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, KindValidation, KindOf(err))
		})
	}
}

func TestUpdatesApply(t *testing.T) {
	venue := Venue{Name: "Old", City: "Pune", Capacity: 10}
	name := "New"
	updated := VenueUpdate{Name: &name}.Apply(venue)
	assert.Equal(t, "New", updated.Name)
	assert.Equal(t, "Pune", updated.City)
	assert.Equal(t, 10, updated.Capacity)

	item := MenuItem{Name: "Tea", IsAvailable: true}
	off := false
	assert.False(t, MenuItemUpdate{IsAvailable: &off}.Apply(item).IsAvailable)
	assert.Equal(t, "Tea", MenuItemUpdate{}.Apply(item).Name)
}
