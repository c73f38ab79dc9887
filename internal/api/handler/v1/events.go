package v1

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/lasoiree/venue-api/internal/api/handler/v1/response"
	"github.com/lasoiree/venue-api/internal/domain"
)

type StaffVenueFinder interface {
	StaffVenue(ctx context.Context, actor domain.Actor, code string) (domain.Venue, error)
}

// VenueFeed attaches a websocket to the live events of one venue.
type VenueFeed interface {
	Serve(conn *websocket.Conn, venueID, userID uint)
}

type EventHandler struct {
	venues   StaffVenueFinder
	feed     VenueFeed
	upgrader websocket.Upgrader
}

// NewEventHandler accepts any origin when allowedOrigins is empty.
func NewEventHandler(venues StaffVenueFinder, feed VenueFeed, allowedOrigins []string) *EventHandler {
	return &EventHandler{
		venues: venues,
		feed:   feed,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin(allowedOrigins),
		},
	}
}

func checkOrigin(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}

	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		set[o] = struct{}{}
	}

	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		_, ok := set[u.Scheme+"://"+u.Host]

		return ok
	}
}

// HandleVenueEvents godoc
// @Summary      Live feed of booking and table events for venue staff
// @Description  Upgrades to a websocket. Pass the token as access_token when headers cannot be set.
// @Tags         events
// @Produce      json
// @Param        venueID  path      string  true  "venue id"
// @Success      101      {string}  string  "Switching Protocols to WebSocket"
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Router       /venues/{venueID}/events [get]
// @Security BearerAuth
func (h *EventHandler) HandleVenueEvents(ctx *gin.Context) {
	actor, respErr := actorFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	venue, err := h.venues.StaffVenue(ctx.Request.Context(), actor, ctx.Param("venueID"))
	if err != nil {
		err = fmt.Errorf("v1.HandleVenueEvents -> h.venues.StaffVenue -> %w", err)
		response.RenderErr(ctx, response.FromError(err))
		return
	}

	conn, err := h.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		zap.L().Warn("websocket upgrade failed",
			zap.String("request_id", requestid.Get(ctx)),
			zap.Error(err),
		)
		return
	}

	h.feed.Serve(conn, venue.ID, actor.UserID())
}
