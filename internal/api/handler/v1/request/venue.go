package request

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/lasoiree/venue-api/internal/domain"
)

var errInvalidGeo = errors.New("lat must be within [-90, 90] and lon within [-180, 180]")

func validGeo(value interface{}) error {
	geo, _ := value.(*domain.GeoPoint)
	if geo != nil && !geo.Valid() {
		return errInvalidGeo
	}

	return nil
}

type RegisterVenueRequest struct {
	Name           string           `json:"name"`
	Description    string           `json:"description,omitempty"`
	Category       string           `json:"category,omitempty"`
	City           string           `json:"city"`
	Geo            *domain.GeoPoint `json:"geo_location,omitempty"`
	NumberOfTables int              `json:"number_of_tables"`
	TotalCapacity  int              `json:"total_capacity"`
}

func (req *RegisterVenueRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&req.City, validation.Required, validation.Length(1, 80)),
		validation.Field(&req.Description, validation.Length(0, 500)),
		validation.Field(&req.Geo, validation.By(validGeo)),
		validation.Field(&req.NumberOfTables, validation.Min(0), validation.Max(500)),
		validation.Field(&req.TotalCapacity, validation.Min(0)),
	)
}

func (req *RegisterVenueRequest) Venue() domain.Venue {
	return domain.Venue{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		City:        req.City,
		Geo:         req.Geo,
		TableCount:  req.NumberOfTables,
		Capacity:    req.TotalCapacity,
	}
}

type UpdateVenueRequest struct {
	Name          *string          `json:"name,omitempty"`
	Description   *string          `json:"description,omitempty"`
	Category      *string          `json:"category,omitempty"`
	City          *string          `json:"city,omitempty"`
	Geo           *domain.GeoPoint `json:"geo_location,omitempty"`
	TotalCapacity *int             `json:"total_capacity,omitempty"`
}

func (req *UpdateVenueRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.NilOrNotEmpty, validation.Length(1, 120)),
		validation.Field(&req.City, validation.NilOrNotEmpty, validation.Length(1, 80)),
		validation.Field(&req.Description, validation.Length(0, 500)),
		validation.Field(&req.Geo, validation.By(validGeo)),
		validation.Field(&req.TotalCapacity, validation.Min(0)),
	)
}

func (req *UpdateVenueRequest) Update() domain.VenueUpdate {
	return domain.VenueUpdate{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		City:        req.City,
		Geo:         req.Geo,
		Capacity:    req.TotalCapacity,
	}
}

// StaffRequest identifies an existing user to appoint as manager or assign as waiter.
type StaffRequest struct {
	Email string `json:"email"`
}

func (req *StaffRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Email, validation.Required, is.Email),
	)
}

// AddTableRequest takes the next free number when TableNumber is zero.
type AddTableRequest struct {
	TableNumber int `json:"table_number,omitempty"`
}

func (req *AddTableRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.TableNumber, validation.Min(0)),
	)
}
