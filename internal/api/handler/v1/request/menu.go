package request

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/shopspring/decimal"

	"github.com/lasoiree/venue-api/internal/domain"
)

var (
	errInvalidPrice    = errors.New("must be between 0 and 1000000.00 with at most 2 decimal places")
	errInvalidDiscount = errors.New("must be between 0 and 100")
)

var hundred = decimal.NewFromInt(100)

func price(value interface{}) error {
	var d decimal.Decimal
	switch v := value.(type) {
	case decimal.Decimal:
		d = v
	case *decimal.Decimal:
		if v == nil {
			return nil
		}
		d = *v
	}
	if !domain.ValidPrice(d) {
		return errInvalidPrice
	}

	return nil
}

func percentage(value interface{}) error {
	var d decimal.Decimal
	switch v := value.(type) {
	case decimal.Decimal:
		d = v
	case *decimal.Decimal:
		if v == nil {
			return nil
		}
		d = *v
	}
	if d.IsNegative() || d.GreaterThan(hundred) {
		return errInvalidDiscount
	}

	return nil
}

type MenuItemRequest struct {
	Name        string          `json:"item_name"`
	Description string          `json:"item_description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Discount    decimal.Decimal `json:"discount"`
	IsAvailable *bool           `json:"is_available,omitempty"`
	IsVeg       bool            `json:"is_veg"`
	Tag         domain.MenuTag  `json:"tag"`
}

func (req *MenuItemRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&req.Description, validation.Length(0, 500)),
		validation.Field(&req.Price, validation.By(price)),
		validation.Field(&req.Discount, validation.By(percentage)),
		validation.Field(&req.Tag, validation.Required, validation.In(domain.MenuTags...)),
	)
}

// MenuItem defaults to available when is_available is omitted.
func (req *MenuItemRequest) MenuItem() domain.MenuItem {
	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}

	return domain.MenuItem{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Discount:    req.Discount,
		IsAvailable: available,
		IsVeg:       req.IsVeg,
		Tag:         req.Tag,
	}
}

type UpdateMenuItemRequest struct {
	Name        *string          `json:"item_name,omitempty"`
	Description *string          `json:"item_description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Discount    *decimal.Decimal `json:"discount,omitempty"`
	IsAvailable *bool            `json:"is_available,omitempty"`
	IsVeg       *bool            `json:"is_veg,omitempty"`
	Tag         *domain.MenuTag  `json:"tag,omitempty"`
}

func (req *UpdateMenuItemRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.NilOrNotEmpty, validation.Length(1, 120)),
		validation.Field(&req.Description, validation.Length(0, 500)),
		validation.Field(&req.Price, validation.By(price)),
		validation.Field(&req.Discount, validation.By(percentage)),
		validation.Field(&req.Tag, validation.In(domain.MenuTags...)),
	)
}

func (req *UpdateMenuItemRequest) Update() domain.MenuItemUpdate {
	return domain.MenuItemUpdate{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Discount:    req.Discount,
		IsAvailable: req.IsAvailable,
		IsVeg:       req.IsVeg,
		Tag:         req.Tag,
	}
}

type OfferRequest struct {
	Type               domain.OfferType `json:"offer_type"`
	Description        string           `json:"description,omitempty"`
	Level              *int             `json:"level,omitempty"`
	StartDate          time.Time        `json:"start_date"`
	EndDate            *time.Time       `json:"end_date,omitempty"`
	DiscountPercentage *decimal.Decimal `json:"discount_percentage,omitempty"`
	IsEntryFeeRequired bool             `json:"is_entry_fee_required"`
	IsActive           *bool            `json:"is_active,omitempty"`
}

func (req *OfferRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Type, validation.Required, validation.In(domain.OfferTypes...)),
		validation.Field(&req.Description, validation.Length(0, 500)),
		validation.Field(&req.Level, validation.Min(1), validation.Max(5)),
		validation.Field(&req.StartDate, validation.Required),
		validation.Field(&req.DiscountPercentage, validation.By(percentage)),
	)
}

// Offer defaults to active when is_active is omitted.
func (req *OfferRequest) Offer() domain.Offer {
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	return domain.Offer{
		Type:               req.Type,
		Description:        req.Description,
		Level:              req.Level,
		StartDate:          req.StartDate,
		EndDate:            req.EndDate,
		DiscountPercentage: req.DiscountPercentage,
		IsEntryFeeRequired: req.IsEntryFeeRequired,
		IsActive:           active,
	}
}

type UpdateOfferRequest struct {
	Type               *domain.OfferType `json:"offer_type,omitempty"`
	Description        *string           `json:"description,omitempty"`
	Level              *int              `json:"level,omitempty"`
	StartDate          *time.Time        `json:"start_date,omitempty"`
	EndDate            *time.Time        `json:"end_date,omitempty"`
	DiscountPercentage *decimal.Decimal  `json:"discount_percentage,omitempty"`
	IsEntryFeeRequired *bool             `json:"is_entry_fee_required,omitempty"`
	IsActive           *bool             `json:"is_active,omitempty"`
}

func (req *UpdateOfferRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Type, validation.In(domain.OfferTypes...)),
		validation.Field(&req.Description, validation.Length(0, 500)),
		validation.Field(&req.Level, validation.Min(1), validation.Max(5)),
		validation.Field(&req.DiscountPercentage, validation.By(percentage)),
	)
}

func (req *UpdateOfferRequest) Update() domain.OfferUpdate {
	return domain.OfferUpdate{
		Type:               req.Type,
		Description:        req.Description,
		Level:              req.Level,
		StartDate:          req.StartDate,
		EndDate:            req.EndDate,
		DiscountPercentage: req.DiscountPercentage,
		IsEntryFeeRequired: req.IsEntryFeeRequired,
		IsActive:           req.IsActive,
	}
}
