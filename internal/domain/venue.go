package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	venueCodePrefix = "VEN"
	qrSeparator     = "::"
)

type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func (p GeoPoint) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

type Venue struct {
	ID          uint      `json:"-"`
	Code        string    `json:"venue_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	City        string    `json:"city"`
	Geo         *GeoPoint `json:"geo_location,omitempty"`
	TableCount  int       `json:"number_of_tables"`
	Capacity    int       `json:"total_capacity"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Table struct {
	ID          uint   `json:"id"`
	VenueID     uint   `json:"-"`
	VenueCode   string `json:"venue_id"`
	TableNumber int    `json:"table_number"`
	QRCode      string `json:"qr_code"`
	IsOccupied  bool   `json:"is_occupied"`
}

type TableStats struct {
	VenueCode string `json:"venue_id"`
	Total     int    `json:"total"`
	Occupied  int    `json:"occupied"`
	Free      int    `json:"free"`
}

// FormatVenueCode renders the n-th venue id, e.g. 1 -> VEN001.
func FormatVenueCode(seq int) string {
	return fmt.Sprintf("%s%03d", venueCodePrefix, seq)
}

// ValidVenueCode reports whether s looks like VEN followed by at least three digits.
func ValidVenueCode(s string) bool {
	digits, ok := strings.CutPrefix(s, venueCodePrefix)
	if !ok || len(digits) < 3 {
		return false
	}
	for _, c := range digits {
		if c < '0' || c > '9' {
			return false
		}
	}

	return true
}

// FormatQRCode builds the external table identifier <venue_id>::<table_number>.
func FormatQRCode(venueCode string, tableNumber int) string {
	return venueCode + qrSeparator + strconv.Itoa(tableNumber)
}

// ParseQRCode splits a table identifier and rejects anything not produced by FormatQRCode.
func ParseQRCode(qr string) (string, int, error) {
	venueCode, number, ok := strings.Cut(qr, qrSeparator)
	if !ok || !ValidVenueCode(venueCode) {
		return "", 0, ErrInvalidQRFormat
	}

	tableNumber, err := strconv.Atoi(number)
	if err != nil || tableNumber < 1 || strconv.Itoa(tableNumber) != number {
		return "", 0, ErrInvalidQRFormat
	}

	return venueCode, tableNumber, nil
}

// VenueUpdate is a partial update; nil fields are left unchanged.
type VenueUpdate struct {
	Name        *string
	Description *string
	Category    *string
	City        *string
	Geo         *GeoPoint
	Capacity    *int
}

func (u VenueUpdate) Apply(v Venue) Venue {
	if u.Name != nil {
		v.Name = *u.Name
	}
	if u.Description != nil {
		v.Description = *u.Description
	}
	if u.Category != nil {
		v.Category = *u.Category
	}
	if u.City != nil {
		v.City = *u.City
	}
	if u.Geo != nil {
		geo := *u.Geo
		v.Geo = &geo
	}
	if u.Capacity != nil {
		v.Capacity = *u.Capacity
	}

	return v
}
