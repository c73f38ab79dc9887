package domain

import "errors"

// Kind classifies a domain failure so transports can map it without knowing every error.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindConflict
	KindPermissionDenied
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindPermissionDenied:
		return "permission_denied"
	case KindValidation:
		return "validation"
	default:
		return "internal"
	}
}

// Error is a business failure with a stable machine-readable code.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

var (
	ErrUserNotFound     = newError(KindNotFound, "USER_NOT_FOUND", "user not found")
	ErrVenueNotFound    = newError(KindNotFound, "VENUE_NOT_FOUND", "venue not found")
	ErrTableNotFound    = newError(KindNotFound, "TABLE_NOT_FOUND", "table not found")
	ErrBookingNotFound  = newError(KindNotFound, "BOOKING_NOT_FOUND", "booking not found")
	ErrWaiterNotFound   = newError(KindNotFound, "WAITER_NOT_FOUND", "waiter not found")
	ErrMenuItemNotFound = newError(KindNotFound, "MENU_ITEM_NOT_FOUND", "menu item not found")
	ErrOfferNotFound    = newError(KindNotFound, "OFFER_NOT_FOUND", "offer not found")
	ErrCartNotFound     = newError(KindNotFound, "CART_NOT_FOUND", "cart not found")
	ErrItemNotInCart    = newError(KindNotFound, "ITEM_NOT_IN_CART", "item is not in the cart")
	ErrNoActivePresence = newError(KindNotFound, "NO_ACTIVE_PRESENCE", "no active presence for user")

	ErrTableOccupied        = newError(KindConflict, "TABLE_OCCUPIED", "table is already occupied")
	ErrTableNotOccupied     = newError(KindConflict, "TABLE_NOT_OCCUPIED", "table is not occupied")
	ErrNoActiveBooking      = newError(KindConflict, "NO_ACTIVE_BOOKING", "table has no active booking")
	ErrAlreadyJoined        = newError(KindConflict, "ALREADY_JOINED", "user already joined this booking")
	ErrAlreadyAssigned      = newError(KindConflict, "ALREADY_ASSIGNED", "booking already has a waiter")
	ErrBookingNotOngoing    = newError(KindConflict, "BOOKING_NOT_ONGOING", "booking has ended")
	ErrEmptyCart            = newError(KindConflict, "EMPTY_CART", "cart is empty")
	ErrAlreadyCheckedIn     = newError(KindConflict, "ALREADY_CHECKED_IN", "user is already checked in at this venue")
	ErrVenueLocationMissing = newError(KindConflict, "VENUE_LOCATION_MISSING", "venue has no location")
	ErrTableNumberTaken     = newError(KindConflict, "TABLE_NUMBER_TAKEN", "table number already exists at this venue")
	ErrMenuItemUnavailable  = newError(KindConflict, "MENU_ITEM_UNAVAILABLE", "menu item is not available")
	ErrEmailTaken           = newError(KindConflict, "EMAIL_TAKEN", "email is already registered")
	ErrRoleAlreadyHeld      = newError(KindConflict, "ROLE_ALREADY_HELD", "user already holds this role")

	ErrPermissionDenied        = newError(KindPermissionDenied, "PERMISSION_DENIED", "permission denied")
	ErrRoleNotHeld             = newError(KindPermissionDenied, "ROLE_NOT_HELD", "user does not hold the claimed role")
	ErrNotBookingMember        = newError(KindPermissionDenied, "NOT_BOOKING_MEMBER", "user is not a member of this booking")
	ErrNotAuthorizedForBooking = newError(KindPermissionDenied, "NOT_AUTHORIZED_FOR_BOOKING", "user is not authorized for this booking")

	ErrInvalidQRFormat = newError(KindValidation, "INVALID_QR_FORMAT", "qr code must look like VEN001::1")
	ErrInvalidQuantity = newError(KindValidation, "INVALID_QUANTITY", "quantity must be between 1 and 999")
	ErrInvalidPrice    = newError(KindValidation, "INVALID_PRICE", "price must be between 0 and 1000000.00 with at most 2 decimal places")
	ErrBillLimit       = newError(KindValidation, "BILL_LIMIT_EXCEEDED", "cart total exceeds the billing limit")
	ErrInvalidLocation = newError(KindValidation, "INVALID_LOCATION", "latitude or longitude out of range")
	ErrInvalidRole     = newError(KindValidation, "INVALID_ROLE", "role must be one of customer, owner, manager, waiter")
)

// NewValidationError wraps a malformed-input failure that has no dedicated sentinel.
func NewValidationError(err error) *Error {
	return newError(KindValidation, "VALIDATION_FAILED", err.Error())
}

// AsError extracts the domain error from a wrapped chain.
func AsError(err error) (*Error, bool) {
	var derr *Error
	if errors.As(err, &derr) {
		return derr, true
	}

	return nil, false
}

// KindOf reports the kind of err, KindInternal for anything that is not a domain error.
func KindOf(err error) Kind {
	if derr, ok := AsError(err); ok {
		return derr.Kind
	}

	return KindInternal
}
