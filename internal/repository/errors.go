package repository

import (
	"errors"

	"github.com/lasoiree/venue-api/internal/domain"
	"github.com/lasoiree/venue-api/internal/repository/dao"
)

var daoErrors = map[error]error{
	dao.ErrUserEmailExists:   domain.ErrEmailTaken,
	dao.ErrUserNotFound:      domain.ErrUserNotFound,
	dao.ErrOwnerNotFound:     domain.ErrRoleNotHeld,
	dao.ErrManagerNotFound:   domain.ErrRoleNotHeld,
	dao.ErrWaiterNotFound:    domain.ErrWaiterNotFound,
	dao.ErrProfileExists:     domain.ErrRoleAlreadyHeld,
	dao.ErrVenueNotFound:     domain.ErrVenueNotFound,
	dao.ErrTableNotFound:     domain.ErrTableNotFound,
	dao.ErrTableNumberExists: domain.ErrTableNumberTaken,
	dao.ErrMenuItemNotFound:  domain.ErrMenuItemNotFound,
	dao.ErrOfferNotFound:     domain.ErrOfferNotFound,
	dao.ErrBookingNotFound:   domain.ErrBookingNotFound,
	dao.ErrOngoingBooking:    domain.ErrTableOccupied,
	dao.ErrTableOccupied:     domain.ErrTableOccupied,
	dao.ErrParticipantExists: domain.ErrAlreadyJoined,
	dao.ErrCartNotFound:      domain.ErrCartNotFound,
	dao.ErrCartItemNotFound:  domain.ErrItemNotInCart,
	dao.ErrPresenceNotFound:  domain.ErrNoActivePresence,
	dao.ErrPresenceOpen:      domain.ErrAlreadyCheckedIn,
}

// translate swaps a dao sentinel for its domain error. Anything else passes through.
func translate(err error) error {
	for daoErr, domainErr := range daoErrors {
		if errors.Is(err, daoErr) {
			return domainErr
		}
	}

	return err
}
