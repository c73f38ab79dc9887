package v1

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lasoiree/venue-api/internal/api/handler/v1/response"
	"github.com/lasoiree/venue-api/internal/api/middleware"
	"github.com/lasoiree/venue-api/internal/domain"
)

var errNoActor = errors.New("no actor on the request context")

// HandleHealthcheck godoc
// @Summary      Healthcheck
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       / [get]
func HandleHealthcheck(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func actorFromContext(ctx *gin.Context) (domain.Actor, *response.Err) {
	actor, ok := middleware.ActorFrom(ctx)
	if !ok {
		return nil, response.ErrUnauthenticated(errNoActor)
	}

	return actor, nil
}

func bookingIDParam(ctx *gin.Context) (uint, *response.Err) {
	id, err := strconv.ParseUint(ctx.Param("bookingID"), 10, 32)
	if err != nil || id == 0 {
		return 0, response.ErrBadRequest(fmt.Errorf("invalid booking id %q", ctx.Param("bookingID")))
	}

	return uint(id), nil
}

func uuidParam(ctx *gin.Context, name string) (uuid.UUID, *response.Err) {
	id, err := uuid.Parse(ctx.Param(name))
	if err != nil {
		return uuid.Nil, response.ErrBadRequest(fmt.Errorf("invalid %s: %w", name, err))
	}

	return id, nil
}

// ongoingQuery parses ?ongoing=true|false; absent means no filter.
func ongoingQuery(ctx *gin.Context) (*bool, *response.Err) {
	raw, ok := ctx.GetQuery("ongoing")
	if !ok {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, response.ErrBadRequest(fmt.Errorf("invalid ongoing filter %q", raw))
	}

	return &v, nil
}
