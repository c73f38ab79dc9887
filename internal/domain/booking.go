package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Booking struct {
	ID           uint            `json:"booking_id"`
	VenueID      uint            `json:"-"`
	VenueCode    string          `json:"venue_id"`
	TableID      uint            `json:"-"`
	TableNumber  int             `json:"table_number"`
	WaiterID     *uint           `json:"waiter_id"`
	Ongoing      bool            `json:"ongoing"`
	TotalBill    decimal.Decimal `json:"total_bill"`
	Participants []uint          `json:"participants"`
	CreatedAt    time.Time       `json:"created_at"`
	EndedAt      *time.Time      `json:"ended_at,omitempty"`
}

func (b Booking) HasParticipant(userID uint) bool {
	for _, id := range b.Participants {
		if id == userID {
			return true
		}
	}

	return false
}

func (b Booking) AssignedTo(waiterID uint) bool {
	return b.WaiterID != nil && *b.WaiterID == waiterID
}

type Cart struct {
	ID        uint            `json:"cart_id"`
	BookingID uint            `json:"booking_id"`
	TotalBill decimal.Decimal `json:"total_bill"`
	Items     []CartItem      `json:"items"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type CartItem struct {
	ID         uint            `json:"id"`
	MenuItemID uuid.UUID       `json:"menu_item_id"`
	Name       string          `json:"item_name"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// MaxLineQuantity bounds a single cart line. With MaxMenuPrice it keeps every
// line total inside the numeric(12,2) money columns.
const MaxLineQuantity = 999

var (
	MaxMenuPrice = decimal.RequireFromString("1000000.00")
	MaxBillTotal = decimal.RequireFromString("9999999999.99")
)

// ValidQuantity reports whether q is a storable cart line quantity.
func ValidQuantity(q int) bool {
	return q >= 1 && q <= MaxLineQuantity
}

// LineTotal is the price captured for a line: unit price times quantity.
func LineTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}

// SumCartItems recomputes a cart total from its lines.
func SumCartItems(items []CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.TotalPrice)
	}

	return total.Round(2)
}

type Bill struct {
	BookingID   uint            `json:"booking_id"`
	VenueCode   string          `json:"venue_id"`
	VenueName   string          `json:"venue_name"`
	TableNumber int             `json:"table_number"`
	WaiterName  string          `json:"waiter_name,omitempty"`
	Ongoing     bool            `json:"ongoing"`
	Lines       []BillLine      `json:"items"`
	Total       decimal.Decimal `json:"total_bill"`
	GeneratedAt time.Time       `json:"generated_at"`
}

type BillLine struct {
	Name      string          `json:"item_name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}
