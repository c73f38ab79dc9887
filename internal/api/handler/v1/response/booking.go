package response

import "github.com/lasoiree/venue-api/internal/domain"

// BookingResponse adds the table QR id to a booking so clients can share it with guests.
type BookingResponse struct {
	domain.Booking
	QRCode string `json:"qr_code"`
}

func NewBookingResponse(b domain.Booking) BookingResponse {
	return BookingResponse{
		Booking: b,
		QRCode:  domain.FormatQRCode(b.VenueCode, b.TableNumber),
	}
}

func NewBookingResponses(bookings []domain.Booking) []BookingResponse {
	res := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		res = append(res, NewBookingResponse(b))
	}

	return res
}
