package v1

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lasoiree/venue-api/internal/api/handler/v1/request"
	"github.com/lasoiree/venue-api/internal/api/handler/v1/response"
	"github.com/lasoiree/venue-api/internal/domain"
)

type CartService interface {
	AddItem(ctx context.Context, actor domain.Actor, bookingID uint, menuItemID uuid.UUID, quantity int) (domain.Cart, error)
	RemoveItem(ctx context.Context, actor domain.Actor, bookingID uint, menuItemID uuid.UUID) (domain.Cart, error)
	GetCart(ctx context.Context, actor domain.Actor, bookingID uint) (domain.Cart, error)
	GenerateBill(ctx context.Context, actor domain.Actor, bookingID uint) (domain.Bill, error)
}

type CartHandler struct {
	svc CartService
}

func NewCartHandler(svc CartService) *CartHandler {
	return &CartHandler{
		svc: svc,
	}
}

// HandleGetCart godoc
// @Summary      Get the cart of a booking
// @Tags         cart
// @Produce      json
// @Param        bookingID  path      int  true  "booking id"
// @Success      200        {object}  domain.Cart
// @Failure      403        {object}  response.Err
// @Failure      404        {object}  response.Err
// @Router       /bookings/{bookingID}/cart [get]
// @Security BearerAuth
func (h *CartHandler) HandleGetCart(ctx *gin.Context) {
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

	cart, err := h.svc.GetCart(ctx.Request.Context(), actor, bookingID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetCart -> h.svc.GetCart -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, cart)
}

// HandleAddCartItem godoc
// @Summary      Add a menu item to the cart
// @Description  Adding an item already in the cart increases its quantity.
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        bookingID  path      int                      true  "booking id"
// @Param        request    body      request.CartItemRequest  true  "item and quantity"
// @Success      200        {object}  domain.Cart
// @Failure      400        {object}  response.Err
// @Failure      403        {object}  response.Err
// @Failure      404        {object}  response.Err
// @Failure      409        {object}  response.Err
// @Router       /bookings/{bookingID}/cart/items [post]
// @Security BearerAuth
func (h *CartHandler) HandleAddCartItem(ctx *gin.Context) {
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

	var req request.CartItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	cart, err := h.svc.AddItem(ctx.Request.Context(), actor, bookingID, req.MenuItemID, req.Qty())
	if err != nil {
		err = fmt.Errorf("v1.HandleAddCartItem -> h.svc.AddItem -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, cart)
}

// HandleRemoveCartItem godoc
// @Summary      Remove one unit of a menu item from the cart
// @Tags         cart
// @Produce      json
// @Param        bookingID   path      int     true  "booking id"
// @Param        menuItemID  path      string  true  "menu item id"
// @Success      200         {object}  domain.Cart
// @Failure      403         {object}  response.Err
// @Failure      404         {object}  response.Err
// @Failure      409         {object}  response.Err
// @Router       /bookings/{bookingID}/cart/items/{menuItemID} [delete]
// @Security BearerAuth
func (h *CartHandler) HandleRemoveCartItem(ctx *gin.Context) {
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

	menuItemID, respErr := uuidParam(ctx, "menuItemID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	cart, err := h.svc.RemoveItem(ctx.Request.Context(), actor, bookingID, menuItemID)
	if err != nil {
		err = fmt.Errorf("v1.HandleRemoveCartItem -> h.svc.RemoveItem -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, cart)
}

// HandleGetBill godoc
// @Summary      Generate the itemized bill
// @Tags         cart
// @Produce      json
// @Param        bookingID  path      int  true  "booking id"
// @Success      200        {object}  domain.Bill
// @Failure      403        {object}  response.Err
// @Failure      404        {object}  response.Err
// @Failure      409        {object}  response.Err
// @Router       /bookings/{bookingID}/bill [get]
// @Security BearerAuth
func (h *CartHandler) HandleGetBill(ctx *gin.Context) {
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

	bill, err := h.svc.GenerateBill(ctx.Request.Context(), actor, bookingID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetBill -> h.svc.GenerateBill -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, bill)
}
