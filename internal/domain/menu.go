package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type MenuTag string

const (
	TagChefSpecial MenuTag = "chef_special"
	TagStarter     MenuTag = "starter"
	TagMainCourse  MenuTag = "main_course"
	TagLiquor      MenuTag = "liquor"
	TagBeverage    MenuTag = "beverage"
	TagTobacco     MenuTag = "tobacco"
)

var MenuTags = []interface{}{TagChefSpecial, TagStarter, TagMainCourse, TagLiquor, TagBeverage, TagTobacco}

type MenuItem struct {
	ID          uuid.UUID       `json:"menu_item_id"`
	VenueID     uint            `json:"-"`
	Name        string          `json:"item_name"`
	Description string          `json:"item_description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Discount    decimal.Decimal `json:"discount"`
	IsAvailable bool            `json:"is_available"`
	IsVeg       bool            `json:"is_veg"`
	Tag         MenuTag         `json:"tag"`
}

type OfferType string

const (
	OfferFreeDrink     OfferType = "FREE_DRINK"
	OfferPercentageOff OfferType = "PERCENTAGE_OFF"
	OfferHappyHour     OfferType = "HAPPY_HOUR"
	OfferBuy1Get1      OfferType = "BUY1_GET1"
	OfferLaSoireeLevel OfferType = "LASOIREE_LEVEL"
	OfferEntryFee      OfferType = "ENTRY_FEE"
)

var OfferTypes = []interface{}{OfferFreeDrink, OfferPercentageOff, OfferHappyHour, OfferBuy1Get1, OfferLaSoireeLevel, OfferEntryFee}

var (
	errOfferDiscountRequired = errors.New("percentage off and happy hour offers require discount_percentage")
	errOfferEndBeforeStart   = errors.New("end_date must be after start_date")
	errOfferDiscountRange    = errors.New("discount_percentage must be between 0 and 100")
	errOfferLevelRange       = errors.New("level must be between 1 and 5")
	errMenuDiscountRange     = errors.New("discount must be between 0 and 100")
)

type Offer struct {
	ID                 uuid.UUID        `json:"offer_id"`
	VenueID            uint             `json:"-"`
	Type               OfferType        `json:"offer_type"`
	Description        string           `json:"description,omitempty"`
	Level              *int             `json:"level,omitempty"`
	StartDate          time.Time        `json:"start_date"`
	EndDate            *time.Time       `json:"end_date,omitempty"`
	DiscountPercentage *decimal.Decimal `json:"discount_percentage,omitempty"`
	IsEntryFeeRequired bool             `json:"is_entry_fee_required"`
	IsActive           bool             `json:"is_active"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

var hundred = decimal.NewFromInt(100)

// ValidPrice reports whether d fits a menu price column: non-negative, at most
// MaxMenuPrice and no more than 2 decimal places.
func ValidPrice(d decimal.Decimal) bool {
	return !d.IsNegative() && !d.GreaterThan(MaxMenuPrice) && d.Equal(d.Round(2))
}

// Check rejects a menu item that the catalog cannot store or bill.
func (m MenuItem) Check() error {
	if !ValidPrice(m.Price) {
		return ErrInvalidPrice
	}
	if m.Discount.IsNegative() || m.Discount.GreaterThan(hundred) {
		return NewValidationError(errMenuDiscountRange)
	}

	return nil
}

// Check enforces the cross-field offer rules that single-field validation cannot express.
func (o Offer) Check() error {
	if (o.Type == OfferPercentageOff || o.Type == OfferHappyHour) && (o.DiscountPercentage == nil || o.DiscountPercentage.IsZero()) {
		return NewValidationError(errOfferDiscountRequired)
	}
	if o.DiscountPercentage != nil && (o.DiscountPercentage.IsNegative() || o.DiscountPercentage.GreaterThan(hundred)) {
		return NewValidationError(errOfferDiscountRange)
	}
	if o.EndDate != nil && o.EndDate.Before(o.StartDate) {
		return NewValidationError(errOfferEndBeforeStart)
	}
	if o.Level != nil && (*o.Level < 1 || *o.Level > 5) {
		return NewValidationError(errOfferLevelRange)
	}

	return nil
}

type MenuItemUpdate struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Discount    *decimal.Decimal
	IsAvailable *bool
	IsVeg       *bool
	Tag         *MenuTag
}

func (u MenuItemUpdate) Apply(m MenuItem) MenuItem {
	if u.Name != nil {
		m.Name = *u.Name
	}
	if u.Description != nil {
		m.Description = *u.Description
	}
	if u.Price != nil {
		m.Price = *u.Price
	}
	if u.Discount != nil {
		m.Discount = *u.Discount
	}
	if u.IsAvailable != nil {
		m.IsAvailable = *u.IsAvailable
	}
	if u.IsVeg != nil {
		m.IsVeg = *u.IsVeg
	}
	if u.Tag != nil {
		m.Tag = *u.Tag
	}

	return m
}

type OfferUpdate struct {
	Type               *OfferType
	Description        *string
	Level              *int
	StartDate          *time.Time
	EndDate            *time.Time
	DiscountPercentage *decimal.Decimal
	IsEntryFeeRequired *bool
	IsActive           *bool
}

func (u OfferUpdate) Apply(o Offer) Offer {
	if u.Type != nil {
		o.Type = *u.Type
	}
	if u.Description != nil {
		o.Description = *u.Description
	}
	if u.Level != nil {
		o.Level = u.Level
	}
	if u.StartDate != nil {
		o.StartDate = *u.StartDate
	}
	if u.EndDate != nil {
		o.EndDate = u.EndDate
	}
	if u.DiscountPercentage != nil {
		o.DiscountPercentage = u.DiscountPercentage
	}
	if u.IsEntryFeeRequired != nil {
		o.IsEntryFeeRequired = *u.IsEntryFeeRequired
	}
	if u.IsActive != nil {
		o.IsActive = *u.IsActive
	}

	return o
}
