package request

import (
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lasoiree/venue-api/internal/domain"
)

func TestSignupRequest_Validate(t *testing.T) {
	valid := func() SignupRequest {
		return SignupRequest{
			Email:           "alice@example.com",
			Password:        "secret123",
			ConfirmPassword: "secret123",
			Name:            "Alice",
		}
	}

	tests := []struct {
		name    string
		mutate  func(r *SignupRequest)
		wantErr error
	}{
		{name: "valid", mutate: func(*SignupRequest) {}},
		{name: "password without digit", mutate: func(r *SignupRequest) {
			r.Password, r.ConfirmPassword = "secretsecret", "secretsecret"
		}, wantErr: errInvalidPassword},
		{name: "password too short", mutate: func(r *SignupRequest) {
			r.Password, r.ConfirmPassword = "abc12", "abc12"
		}, wantErr: errInvalidPassword},
		{name: "confirmation mismatch", mutate: func(r *SignupRequest) {
			r.ConfirmPassword = "secret124"
		}, wantErr: errConfirmPasswordMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(&req)

			err := req.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("bad email", func(t *testing.T) {
		req := valid()
		req.Email = "not-an-email"
		assert.Error(t, req.Validate())
	})

	t.Run("bad phone", func(t *testing.T) {
		req := valid()
		req.Phone = "call me"
		assert.Error(t, req.Validate())
	})
}

func TestLoginRequest_ParsedRole(t *testing.T) {
	req := LoginRequest{Email: "a@example.com", Password: "x"}
	assert.NoError(t, req.Validate())
	assert.Equal(t, domain.RoleCustomer, req.ParsedRole())

	req.Role = "waiter"
	assert.NoError(t, req.Validate())
	assert.Equal(t, domain.RoleWaiter, req.ParsedRole())

	req.Role = "admin"
	assert.Error(t, req.Validate())
}

func TestMenuItemRequest_Validate(t *testing.T) {
	req := MenuItemRequest{
		Name:  "Paneer Tikka",
		Price: decimal.RequireFromString("249.50"),
		Tag:   domain.TagStarter,
	}
	assert.NoError(t, req.Validate())
	assert.True(t, req.MenuItem().IsAvailable)

	req.Price = decimal.RequireFromString("249.505")
	assert.Error(t, req.Validate())

	req.Price = decimal.RequireFromString("-1")
	assert.Error(t, req.Validate())

	req.Price = domain.MaxMenuPrice
	assert.NoError(t, req.Validate())

	req.Price = decimal.RequireFromString("1000000.01")
	assert.Error(t, req.Validate())

	req.Price = decimal.RequireFromString("99999999999.99")
	assert.Error(t, req.Validate())

	req.Price = decimal.RequireFromString("10")
	req.Discount = decimal.RequireFromString("101")
	assert.Error(t, req.Validate())

	req.Discount = decimal.Zero
	req.Tag = "dessert"
	assert.Error(t, req.Validate())
}

func TestUpdateMenuItemRequest_PriceBound(t *testing.T) {
	req := UpdateMenuItemRequest{}
	assert.NoError(t, req.Validate())

	over := decimal.RequireFromString("100000000")
	req.Price = &over
	assert.Error(t, req.Validate())

	ok := decimal.RequireFromString("999.99")
	req.Price = &ok
	assert.NoError(t, req.Validate())
}

func TestRegisterVenueRequest_Validate(t *testing.T) {
	req := RegisterVenueRequest{Name: "Skybar", City: "Pune", NumberOfTables: 4}
	assert.NoError(t, req.Validate())

	req.Geo = &domain.GeoPoint{Lat: 91, Lon: 0}
	assert.Error(t, req.Validate())

	req.Geo = &domain.GeoPoint{Lat: 18.52, Lon: 73.85}
	assert.NoError(t, req.Validate())

	req.City = ""
	assert.Error(t, req.Validate())
}

func TestCartItemRequest_Qty(t *testing.T) {
	req := CartItemRequest{}
	err := req.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), errMissingMenuItem.Error())
	assert.Equal(t, 1, req.Qty())

	req.MenuItemID = uuid.New()
	assert.NoError(t, req.Validate())

	three := 3
	req.Quantity = &three
	assert.NoError(t, req.Validate())
	assert.Equal(t, 3, req.Qty())

	maxQty := domain.MaxLineQuantity
	req.Quantity = &maxQty
	assert.NoError(t, req.Validate())

	tooMany := domain.MaxLineQuantity + 1
	req.Quantity = &tooMany
	assert.Error(t, req.Validate())

	huge := math.MaxInt
	req.Quantity = &huge
	assert.Error(t, req.Validate())

	negative := -1
	req.Quantity = &negative
	assert.Error(t, req.Validate())
}
