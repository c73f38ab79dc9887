package v1

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lasoiree/venue-api/internal/api/handler/v1/response"
	"github.com/lasoiree/venue-api/internal/domain"
)

type UserService interface {
	GetUser(ctx context.Context, id uint) (domain.User, error)
	ListRoles(ctx context.Context, userID uint) ([]domain.RoleBinding, error)
	BecomeOwner(ctx context.Context, userID uint) (domain.Owner, error)
}

type UserHandler struct {
	svc UserService
}

func NewUserHandler(svc UserService) *UserHandler {
	return &UserHandler{
		svc: svc,
	}
}

// HandleGetMe godoc
// @Summary      Get the authenticated user
// @Tags         users
// @Produce      json
// @Success      200  {object}  domain.User
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Router       /users/me [get]
// @Security BearerAuth
func (h *UserHandler) HandleGetMe(ctx *gin.Context) {
	actor, respErr := actorFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	user, err := h.svc.GetUser(ctx.Request.Context(), actor.UserID())
	if err != nil {
		err = fmt.Errorf("v1.HandleGetMe -> h.svc.GetUser -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, user)
}

// HandleListRoles godoc
// @Summary      List the roles the authenticated user can log in as
// @Tags         users
// @Produce      json
// @Success      200  {array}   domain.RoleBinding
// @Failure      401  {object}  response.Err
// @Router       /users/me/roles [get]
// @Security BearerAuth
func (h *UserHandler) HandleListRoles(ctx *gin.Context) {
	actor, respErr := actorFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	roles, err := h.svc.ListRoles(ctx.Request.Context(), actor.UserID())
	if err != nil {
		err = fmt.Errorf("v1.HandleListRoles -> h.svc.ListRoles -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusOK, roles)
}

// HandleBecomeOwner godoc
// @Summary      Register the authenticated user as a venue owner
// @Description  Log in again with role "owner" to act as the owner.
// @Tags         users
// @Produce      json
// @Success      201  {object}  domain.Owner
// @Failure      401  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Router       /users/me/owner [post]
// @Security BearerAuth
func (h *UserHandler) HandleBecomeOwner(ctx *gin.Context) {
	actor, respErr := actorFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	owner, err := h.svc.BecomeOwner(ctx.Request.Context(), actor.UserID())
	if err != nil {
		err = fmt.Errorf("v1.HandleBecomeOwner -> h.svc.BecomeOwner -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	ctx.JSON(http.StatusCreated, owner)
}
