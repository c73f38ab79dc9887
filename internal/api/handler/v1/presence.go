package v1

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lasoiree/venue-api/internal/api/handler/v1/request"
	"github.com/lasoiree/venue-api/internal/api/handler/v1/response"
	"github.com/lasoiree/venue-api/internal/domain"
)

type PresenceService interface {
	CheckIn(ctx context.Context, actor domain.Actor, venueCode string) (domain.Presence, error)
	LocationCheck(ctx context.Context, actor domain.Actor, at domain.GeoPoint) (domain.LocationCheck, error)
}

type PresenceHandler struct {
	svc PresenceService
}

func NewPresenceHandler(svc PresenceService) *PresenceHandler {
	return &PresenceHandler{
		svc: svc,
	}
}

// HandleCheckIn godoc
// @Summary      Check in at a venue
// @Tags         presence
// @Accept       json
// @Produce      json
// @Param        request  body      request.CheckInRequest  true  "venue id"
// @Success      201      {object}  domain.Presence
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Router       /presence/check-in [post]
// @Security BearerAuth
func (h *PresenceHandler) HandleCheckIn(ctx *gin.Context) {
	actor, respErr := actorFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CheckInRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	presence, err := h.svc.CheckIn(ctx.Request.Context(), actor, req.VenueID)
	if err != nil {
		err = fmt.Errorf("v1.HandleCheckIn -> h.svc.CheckIn -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusCreated, presence)
}

// HandleLocationCheck godoc
// @Summary      Report the current location
// @Description  Checks the user out when they are further than the configured radius from the venue.
// @Tags         presence
// @Accept       json
// @Produce      json
// @Param        request  body      request.LocationRequest  true  "coordinates"
// @Success      200      {object}  domain.LocationCheck
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Router       /presence/location [post]
// @Security BearerAuth
func (h *PresenceHandler) HandleLocationCheck(ctx *gin.Context) {
	actor, respErr := actorFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.LocationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	check, err := h.svc.LocationCheck(ctx.Request.Context(), actor, domain.GeoPoint{Lat: *req.Lat, Lon: *req.Lon})
	if err != nil {
		err = fmt.Errorf("v1.HandleLocationCheck -> h.svc.LocationCheck -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, check)
}
