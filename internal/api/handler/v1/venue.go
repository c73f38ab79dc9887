package v1

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lasoiree/venue-api/internal/api/handler/v1/request"
	"github.com/lasoiree/venue-api/internal/api/handler/v1/response"
	"github.com/lasoiree/venue-api/internal/domain"
)

type VenueService interface {
	RegisterVenue(ctx context.Context, actor domain.Actor, venue domain.Venue) (domain.Venue, error)
	GetVenue(ctx context.Context, code string) (domain.Venue, error)
	UpdateVenue(ctx context.Context, actor domain.Actor, code string, update domain.VenueUpdate) (domain.Venue, error)
	AppointManager(ctx context.Context, actor domain.Actor, code, email string) (domain.Manager, error)
	AssignWaiter(ctx context.Context, actor domain.Actor, code, email string) (domain.Waiter, error)
	AddTable(ctx context.Context, actor domain.Actor, code string, number int) (domain.Table, error)
	ListTables(ctx context.Context, actor domain.Actor, code string) ([]domain.Table, error)
	TableStats(ctx context.Context, actor domain.Actor, code string) (domain.TableStats, error)
	ListMenu(ctx context.Context, code string) ([]domain.MenuItem, error)
	AddMenuItem(ctx context.Context, actor domain.Actor, code string, item domain.MenuItem) (domain.MenuItem, error)
	UpdateMenuItem(ctx context.Context, actor domain.Actor, code string, id uuid.UUID, update domain.MenuItemUpdate) (domain.MenuItem, error)
	ListOffers(ctx context.Context, code string, activeOnly bool) ([]domain.Offer, error)
	AddOffer(ctx context.Context, actor domain.Actor, code string, offer domain.Offer) (domain.Offer, error)
	UpdateOffer(ctx context.Context, actor domain.Actor, code string, id uuid.UUID, update domain.OfferUpdate) (domain.Offer, error)
}

type VenueHandler struct {
	svc VenueService
}

func NewVenueHandler(svc VenueService) *VenueHandler {
	return &VenueHandler{
		svc: svc,
	}
}

// HandleRegisterVenue godoc
// @Summary      Register a venue
// @Description  Assigns the next VENxxx id and creates tables 1..number_of_tables. Owner role only.
// @Tags         venues
// @Accept       json
// @Produce      json
// @Param        request  body      request.RegisterVenueRequest  true  "venue details"
// @Success      201      {object}  domain.Venue
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /venues [post]
// @Security BearerAuth
func (h *VenueHandler) HandleRegisterVenue(ctx *gin.Context) {
	actor, respErr := actorFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.RegisterVenueRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	venue, err := h.svc.RegisterVenue(ctx.Request.Context(), actor, req.Venue())
	if err != nil {
		err = fmt.Errorf("v1.HandleRegisterVenue -> h.svc.RegisterVenue -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusCreated, venue)
}

// HandleGetVenue godoc
// @Summary      Get a venue
// @Tags         venues
// @Produce      json
// @Param        venueID  path      string  true  "venue id, e.g. VEN001"
// @Success      200      {object}  domain.Venue
// @Failure      404      {object}  response.Err
// @Router       /venues/{venueID} [get]
// @Security BearerAuth
func (h *VenueHandler) HandleGetVenue(ctx *gin.Context) {
	venue, err := h.svc.GetVenue(ctx.Request.Context(), ctx.Param("venueID"))
	if err != nil {
		err = fmt.Errorf("v1.HandleGetVenue -> h.svc.GetVenue -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, venue)
}

// HandleUpdateVenue godoc
// @Summary      Update a venue
// @Tags         venues
// @Accept       json
// @Produce      json
// @Param        venueID  path      string                      true  "venue id"
// @Param        request  body      request.UpdateVenueRequest  true  "fields to change"
// @Success      200      {object}  domain.Venue
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Router       /venues/{venueID} [patch]
// @Security BearerAuth
func (h *VenueHandler) HandleUpdateVenue(ctx *gin.Context) {
	actor, respErr := actorFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.UpdateVenueRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	venue, err := h.svc.UpdateVenue(ctx.Request.Context(), actor, ctx.Param("venueID"), req.Update())
	if err != nil {
		err = fmt.Errorf("v1.HandleUpdateVenue -> h.svc.UpdateVenue -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, venue)
}

// HandleAppointManager godoc
// @Summary      Appoint an existing user as manager of the venue
// @Tags         staff
// @Accept       json
// @Produce      json
// @Param        venueID  path      string                true  "venue id"
// @Param        request  body      request.StaffRequest  true  "user email"
// @Success      201      {object}  domain.Manager
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Router       /venues/{venueID}/managers [post]
// @Security BearerAuth
func (h *VenueHandler) HandleAppointManager(ctx *gin.Context) {
	actor, respErr := actorFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.StaffRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	manager, err := h.svc.AppointManager(ctx.Request.Context(), actor, ctx.Param("venueID"), req.Email)
	if err != nil {
		err = fmt.Errorf("v1.HandleAppointManager -> h.svc.AppointManager -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusCreated, manager)
}

// HandleAssignWaiter godoc
// @Summary      Assign an existing user as waiter of the venue
// @Description  A waiter already assigned elsewhere is moved to this venue.
// @Tags         staff
// @Accept       json
// @Produce      json
// @Param        venueID  path      string                true  "venue id"
// @Param        request  body      request.StaffRequest  true  "user email"
// @Success      201      {object}  domain.Waiter
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Router       /venues/{venueID}/waiters [post]
// @Security BearerAuth
func (h *VenueHandler) HandleAssignWaiter(ctx *gin.Context) {
	actor, respErr := actorFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.StaffRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	waiter, err := h.svc.AssignWaiter(ctx.Request.Context(), actor, ctx.Param("venueID"), req.Email)
	if err != nil {
		err = fmt.Errorf("v1.HandleAssignWaiter -> h.svc.AssignWaiter -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusCreated, waiter)
}

// HandleAddTable godoc
// @Summary      Add a table
// @Tags         tables
// @Accept       json
// @Produce      json
// @Param        venueID  path      string                   true  "venue id"
// @Param        request  body      request.AddTableRequest  false "table number, next free when omitted"
// @Success      201      {object}  domain.Table
// @Failure      403      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Router       /venues/{venueID}/tables [post]
// @Security BearerAuth
func (h *VenueHandler) HandleAddTable(ctx *gin.Context) {
	actor, respErr := actorFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.AddTableRequest
	if ctx.Request.ContentLength != 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	table, err := h.svc.AddTable(ctx.Request.Context(), actor, ctx.Param("venueID"), req.TableNumber)
	if err != nil {
		err = fmt.Errorf("v1.HandleAddTable -> h.svc.AddTable -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusCreated, table)
}

// HandleListTables godoc
// @Summary      List tables with occupancy
// @Tags         tables
// @Produce      json
// @Param        venueID  path      string  true  "venue id"
// @Success      200      {array}   domain.Table
// @Failure      403      {object}  response.Err
// @Router       /venues/{venueID}/tables [get]
// @Security BearerAuth
func (h *VenueHandler) HandleListTables(ctx *gin.Context) {
	actor, respErr := actorFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	tables, err := h.svc.ListTables(ctx.Request.Context(), actor, ctx.Param("venueID"))
	if err != nil {
		err = fmt.Errorf("v1.HandleListTables -> h.svc.ListTables -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, tables)
}

// HandleTableStats godoc
// @Summary      Count occupied and free tables
// @Tags         tables
// @Produce      json
// @Param        venueID  path      string  true  "venue id"
// @Success      200      {object}  domain.TableStats
// @Failure      403      {object}  response.Err
// @Router       /venues/{venueID}/tables/stats [get]
// @Security BearerAuth
func (h *VenueHandler) HandleTableStats(ctx *gin.Context) {
	actor, respErr := actorFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	stats, err := h.svc.TableStats(ctx.Request.Context(), actor, ctx.Param("venueID"))
	if err != nil {
		err = fmt.Errorf("v1.HandleTableStats -> h.svc.TableStats -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, stats)
}

// HandleListMenu godoc
// @Summary      List the venue menu
// @Tags         menu
// @Produce      json
// @Param        venueID  path      string  true  "venue id"
// @Success      200      {array}   domain.MenuItem
// @Failure      404      {object}  response.Err
// @Router       /venues/{venueID}/menu [get]
// @Security BearerAuth
func (h *VenueHandler) HandleListMenu(ctx *gin.Context) {
	items, err := h.svc.ListMenu(ctx.Request.Context(), ctx.Param("venueID"))
	if err != nil {
		err = fmt.Errorf("v1.HandleListMenu -> h.svc.ListMenu -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, items)
}

// HandleAddMenuItem godoc
// @Summary      Add a menu item
// @Tags         menu
// @Accept       json
// @Produce      json
// @Param        venueID  path      string                   true  "venue id"
// @Param        request  body      request.MenuItemRequest  true  "menu item"
// @Success      201      {object}  domain.MenuItem
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Router       /venues/{venueID}/menu [post]
// @Security BearerAuth
func (h *VenueHandler) HandleAddMenuItem(ctx *gin.Context) {
	actor, respErr := actorFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.MenuItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	item, err := h.svc.AddMenuItem(ctx.Request.Context(), actor, ctx.Param("venueID"), req.MenuItem())
	if err != nil {
		err = fmt.Errorf("v1.HandleAddMenuItem -> h.svc.AddMenuItem -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusCreated, item)
}

// HandleUpdateMenuItem godoc
// @Summary      Update a menu item
// @Description  Price changes apply to lines added afterwards, not to lines already in a cart.
// @Tags         menu
// @Accept       json
// @Produce      json
// @Param        venueID     path      string                         true  "venue id"
// @Param        menuItemID  path      string                         true  "menu item id"
// @Param        request     body      request.UpdateMenuItemRequest  true  "fields to change"
// @Success      200         {object}  domain.MenuItem
// @Failure      400         {object}  response.Err
// @Failure      403         {object}  response.Err
// @Failure      404         {object}  response.Err
// @Router       /venues/{venueID}/menu/{menuItemID} [patch]
// @Security BearerAuth
func (h *VenueHandler) HandleUpdateMenuItem(ctx *gin.Context) {
	actor, respErr := actorFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	id, respErr := uuidParam(ctx, "menuItemID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.UpdateMenuItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	item, err := h.svc.UpdateMenuItem(ctx.Request.Context(), actor, ctx.Param("venueID"), id, req.Update())
	if err != nil {
		err = fmt.Errorf("v1.HandleUpdateMenuItem -> h.svc.UpdateMenuItem -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, item)
}

// HandleListOffers godoc
// @Summary      List venue offers
// @Tags         offers
// @Produce      json
// @Param        venueID  path      string  true   "venue id"
// @Param        active   query     bool    false  "only active offers"
// @Success      200      {array}   domain.Offer
// @Failure      404      {object}  response.Err
// @Router       /venues/{venueID}/offers [get]
// @Security BearerAuth
func (h *VenueHandler) HandleListOffers(ctx *gin.Context) {
	activeOnly, _ := strconv.ParseBool(ctx.Query("active"))

	offers, err := h.svc.ListOffers(ctx.Request.Context(), ctx.Param("venueID"), activeOnly)
	if err != nil {
		err = fmt.Errorf("v1.HandleListOffers -> h.svc.ListOffers -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, offers)
}

// HandleAddOffer godoc
// @Summary      Add an offer
// @Tags         offers
// @Accept       json
// @Produce      json
// @Param        venueID  path      string                true  "venue id"
// @Param        request  body      request.OfferRequest  true  "offer"
// @Success      201      {object}  domain.Offer
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Router       /venues/{venueID}/offers [post]
// @Security BearerAuth
func (h *VenueHandler) HandleAddOffer(ctx *gin.Context) {
	actor, respErr := actorFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.OfferRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	offer, err := h.svc.AddOffer(ctx.Request.Context(), actor, ctx.Param("venueID"), req.Offer())
	if err != nil {
		err = fmt.Errorf("v1.HandleAddOffer -> h.svc.AddOffer -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusCreated, offer)
}

// HandleUpdateOffer godoc
// @Summary      Update an offer
// @Tags         offers
// @Accept       json
// @Produce      json
// @Param        venueID  path      string                      true  "venue id"
// @Param        offerID  path      string                      true  "offer id"
// @Param        request  body      request.UpdateOfferRequest  true  "fields to change"
// @Success      200      {object}  domain.Offer
// @Failure      400      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Router       /venues/{venueID}/offers/{offerID} [patch]
// @Security BearerAuth
func (h *VenueHandler) HandleUpdateOffer(ctx *gin.Context) {
	actor, respErr := actorFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	id, respErr := uuidParam(ctx, "offerID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.UpdateOfferRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	offer, err := h.svc.UpdateOffer(ctx.Request.Context(), actor, ctx.Param("venueID"), id, req.Update())
	if err != nil {
		err = fmt.Errorf("v1.HandleUpdateOffer -> h.svc.UpdateOffer -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, offer)
}
