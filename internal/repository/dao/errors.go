package dao

import (
	"errors"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrUserEmailExists   = errors.New("user already exists")
	ErrUserNotFound      = errors.New("user not found")
	ErrOwnerNotFound     = errors.New("owner not found")
	ErrManagerNotFound   = errors.New("manager not found")
	ErrWaiterNotFound    = errors.New("waiter not found")
	ErrProfileExists     = errors.New("profile already exists")
	ErrVenueNotFound     = errors.New("venue not found")
	ErrTableNotFound     = errors.New("table not found")
	ErrTableNumberExists = errors.New("table number already exists")
	ErrMenuItemNotFound  = errors.New("menu item not found")
	ErrOfferNotFound     = errors.New("offer not found")
	ErrBookingNotFound   = errors.New("booking not found")
	ErrOngoingBooking    = errors.New("table already has an ongoing booking")
	ErrTableOccupied     = errors.New("table already occupied")
	ErrParticipantExists = errors.New("participant already joined")
	ErrCartNotFound      = errors.New("cart not found")
	ErrCartItemNotFound  = errors.New("cart item not found")
	ErrPresenceNotFound  = errors.New("presence not found")
	ErrPresenceOpen      = errors.New("presence already open")
)

// isUniqueViolation matches a duplicate-key error from Postgres (optionally
// restricted to a named constraint) or the translated gorm error.
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.UniqueViolation &&
			(constraint == "" || strings.Contains(pgErr.ConstraintName+pgErr.Message, constraint))
	}

	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func notFound(err error, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}

	return err
}
