package domain

import "time"

type EventType string

const (
	EventBookingCreated     EventType = "booking.created"
	EventBookingJoined      EventType = "booking.joined"
	EventBookingAccepted    EventType = "booking.accepted"
	EventCartUpdated        EventType = "cart.updated"
	EventBookingEnded       EventType = "booking.ended"
	EventPresenceCheckedIn  EventType = "presence.checked_in"
	EventPresenceCheckedOut EventType = "presence.checked_out"
)

// Event is a committed state transition, fanned out to venue staff and the broker.
type Event struct {
	Type        EventType   `json:"type"`
	VenueID     uint        `json:"-"`
	VenueCode   string      `json:"venue_id"`
	TableNumber int         `json:"table_number,omitempty"`
	BookingID   uint        `json:"booking_id,omitempty"`
	ActorID     uint        `json:"actor_id"`
	Payload     interface{} `json:"payload,omitempty"`
	At          time.Time   `json:"at"`
}
