package response

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lasoiree/venue-api/internal/domain"
)

func TestFromError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{name: "not found", err: domain.ErrTableNotFound, status: http.StatusNotFound, code: "TABLE_NOT_FOUND"},
		{name: "conflict", err: domain.ErrTableOccupied, status: http.StatusConflict, code: "TABLE_OCCUPIED"},
		{name: "permission", err: domain.ErrNotBookingMember, status: http.StatusForbidden, code: "NOT_BOOKING_MEMBER"},
		{name: "validation", err: domain.ErrInvalidQuantity, status: http.StatusBadRequest, code: "INVALID_QUANTITY"},
		{name: "wrapped", err: fmt.Errorf("s.repo.X -> %w", domain.ErrEmptyCart), status: http.StatusConflict, code: "EMPTY_CART"},
		{name: "internal", err: errors.New("connection refused"), status: http.StatusInternalServerError, code: codeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := FromError(tt.err)
			assert.Equal(t, tt.status, e.Status)
			assert.Equal(t, tt.code, e.Code)
			assert.ErrorIs(t, e, tt.err)
		})
	}
}

func TestErrInternalServerError_HidesCause(t *testing.T) {
	e := ErrInternalServerError(errors.New("pq: password authentication failed"))
	assert.NotContains(t, e.Message, "password")
}

func TestErrBadRequest_KeepsDomainCode(t *testing.T) {
	assert.Equal(t, "INVALID_QR_FORMAT", ErrBadRequest(domain.ErrInvalidQRFormat).Code)
	assert.Equal(t, codeBadRequest, ErrBadRequest(errors.New("EOF")).Code)
}
