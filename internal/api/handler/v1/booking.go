package v1

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lasoiree/venue-api/internal/api/handler/v1/response"
	"github.com/lasoiree/venue-api/internal/domain"
)

type BookingService interface {
	BookTable(ctx context.Context, actor domain.Actor, qrCode string) (domain.Booking, error)
	JoinTable(ctx context.Context, actor domain.Actor, qrCode string) (domain.Booking, error)
	AcceptBooking(ctx context.Context, actor domain.Actor, bookingID uint) (domain.Booking, error)
	EndBooking(ctx context.Context, actor domain.Actor, bookingID uint) (domain.Booking, error)
	GetBooking(ctx context.Context, actor domain.Actor, bookingID uint) (domain.Booking, error)
	ListVenueBookings(ctx context.Context, actor domain.Actor, venueCode string, ongoing *bool) ([]domain.Booking, error)
}

type BookingHandler struct {
	svc BookingService
}

func NewBookingHandler(svc BookingService) *BookingHandler {
	return &BookingHandler{
		svc: svc,
	}
}

// HandleBookTable godoc
// @Summary      Book a table by its QR id
// @Description  Occupies the table and opens a booking with the caller as first participant. Customer role only.
// @Tags         bookings
// @Produce      json
// @Param        qrCode  path      string  true  "table QR id, e.g. VEN001::3"
// @Success      201     {object}  response.BookingResponse
// @Failure      400     {object}  response.Err
// @Failure      404     {object}  response.Err
// @Failure      409     {object}  response.Err
// @Router       /tables/{qrCode}/book [post]
// @Security BearerAuth
func (h *BookingHandler) HandleBookTable(ctx *gin.Context) {
	actor, respErr := actorFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	booking, err := h.svc.BookTable(ctx.Request.Context(), actor, ctx.Param("qrCode"))
	if err != nil {
		err = fmt.Errorf("v1.HandleBookTable -> h.svc.BookTable -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusCreated, response.NewBookingResponse(booking))
}

// HandleJoinTable godoc
// @Summary      Join the ongoing booking at a table
// @Tags         bookings
// @Produce      json
// @Param        qrCode  path      string  true  "table QR id"
// @Success      200     {object}  response.BookingResponse
// @Failure      400     {object}  response.Err
// @Failure      404     {object}  response.Err
// @Failure      409     {object}  response.Err
// @Router       /tables/{qrCode}/join [post]
// @Security BearerAuth
func (h *BookingHandler) HandleJoinTable(ctx *gin.Context) {
	actor, respErr := actorFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	booking, err := h.svc.JoinTable(ctx.Request.Context(), actor, ctx.Param("qrCode"))
	if err != nil {
		err = fmt.Errorf("v1.HandleJoinTable -> h.svc.JoinTable -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewBookingResponse(booking))
}

// HandleGetBooking godoc
// @Summary      Get a booking
// @Tags         bookings
// @Produce      json
// @Param        bookingID  path      int  true  "booking id"
// @Success      200        {object}  response.BookingResponse
// @Failure      403        {object}  response.Err
// @Failure      404        {object}  response.Err
// @Router       /bookings/{bookingID} [get]
// @Security BearerAuth
func (h *BookingHandler) HandleGetBooking(ctx *gin.Context) {
	actor, respErr := actorFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	bookingID, respErr := bookingIDParam(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	booking, err := h.svc.GetBooking(ctx.Request.Context(), actor, bookingID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetBooking -> h.svc.GetBooking -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewBookingResponse(booking))
}

// HandleAcceptBooking godoc
// @Summary      Accept a booking as its waiter
// @Description  Waiter role only. The first waiter to accept wins.
// @Tags         bookings
// @Produce      json
// @Param        bookingID  path      int  true  "booking id"
// @Success      200        {object}  response.BookingResponse
// @Failure      403        {object}  response.Err
// @Failure      404        {object}  response.Err
// @Failure      409        {object}  response.Err
// @Router       /bookings/{bookingID}/accept [post]
// @Security BearerAuth
func (h *BookingHandler) HandleAcceptBooking(ctx *gin.Context) {
	actor, respErr := actorFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	bookingID, respErr := bookingIDParam(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	booking, err := h.svc.AcceptBooking(ctx.Request.Context(), actor, bookingID)
	if err != nil {
		err = fmt.Errorf("v1.HandleAcceptBooking -> h.svc.AcceptBooking -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewBookingResponse(booking))
}

// HandleEndBooking godoc
// @Summary      End a booking and free its table
// @Description  Allowed for participants and the assigned waiter.
// @Tags         bookings
// @Produce      json
// @Param        bookingID  path      int  true  "booking id"
// @Success      200        {object}  response.BookingResponse
// @Failure      403        {object}  response.Err
// @Failure      404        {object}  response.Err
// @Failure      409        {object}  response.Err
// @Router       /bookings/{bookingID}/end [post]
// @Security BearerAuth
func (h *BookingHandler) HandleEndBooking(ctx *gin.Context) {
	actor, respErr := actorFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	bookingID, respErr := bookingIDParam(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	booking, err := h.svc.EndBooking(ctx.Request.Context(), actor, bookingID)
	if err != nil {
		err = fmt.Errorf("v1.HandleEndBooking -> h.svc.EndBooking -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewBookingResponse(booking))
}

// HandleListVenueBookings godoc
// @Summary      List bookings at a venue
// @Tags         bookings
// @Produce      json
// @Param        venueID  path      string  true   "venue id"
// @Param        ongoing  query     bool    false  "filter by state"
// @Success      200      {array}   response.BookingResponse
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Router       /venues/{venueID}/bookings [get]
// @Security BearerAuth
func (h *BookingHandler) HandleListVenueBookings(ctx *gin.Context) {
	actor, respErr := actorFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	ongoing, respErr := ongoingQuery(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	bookings, err := h.svc.ListVenueBookings(ctx.Request.Context(), actor, ctx.Param("venueID"), ongoing)
	if err != nil {
		err = fmt.Errorf("v1.HandleListVenueBookings -> h.svc.ListVenueBookings -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewBookingResponses(bookings))
}
