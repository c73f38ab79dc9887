package domain

import "time"

type Presence struct {
	ID        uint       `json:"presence_id"`
	UserID    uint       `json:"user_id"`
	VenueID   uint       `json:"-"`
	VenueCode string     `json:"venue_id"`
	TimeIn    time.Time  `json:"time_in"`
	TimeOut   *time.Time `json:"time_out,omitempty"`
}

func (p Presence) Active() bool {
	return p.TimeOut == nil
}

type LocationCheck struct {
	PresenceID     uint       `json:"presence_id"`
	VenueCode      string     `json:"venue_id"`
	DistanceMeters float64    `json:"distance_meters"`
	WithinRange    bool       `json:"within_range"`
	CheckedOut     bool       `json:"checked_out"`
	TimeOut        *time.Time `json:"time_out,omitempty"`
}
