package request

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/google/uuid"

	"github.com/lasoiree/venue-api/internal/domain"
)

var errMissingMenuItem = errors.New("menu_item_id is required")

// CartItemRequest adds one unit when quantity is omitted. An explicit 0 is
// skipped by ozzo as empty and rejected by the cart service.
type CartItemRequest struct {
	MenuItemID uuid.UUID `json:"menu_item_id"`
	Quantity   *int      `json:"quantity,omitempty"`
}

func (req *CartItemRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.MenuItemID, validation.By(requiredUUID)),
		validation.Field(&req.Quantity, validation.Min(1), validation.Max(domain.MaxLineQuantity)),
	)
}

func requiredUUID(value interface{}) error {
	if id, _ := value.(uuid.UUID); id == uuid.Nil {
		return errMissingMenuItem
	}

	return nil
}

func (req *CartItemRequest) Qty() int {
	if req.Quantity == nil {
		return 1
	}

	return *req.Quantity
}

type CheckInRequest struct {
	VenueID string `json:"venue_id"`
}

func (req *CheckInRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.VenueID, validation.Required),
	)
}

// LocationRequest uses pointers so that a coordinate of exactly 0 is still present.
type LocationRequest struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}

func (req *LocationRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Lat, validation.NotNil),
		validation.Field(&req.Lon, validation.NotNil),
	)
}
