package middleware

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/lasoiree/venue-api/internal/api/handler/v1/response"
	"github.com/lasoiree/venue-api/internal/domain"
	"github.com/lasoiree/venue-api/internal/pkg/jwthelper"
)

const (
	ctxKeyClaims = "jwt_claims"
	ctxKeyActor  = "actor"

	bearerPrefix = "Bearer "
	// Browsers cannot set headers on a websocket handshake. Only read on upgrades.
	tokenQueryParam = "access_token"
)

var errMissingToken = errors.New("missing bearer token")

type Authenticator struct {
	key []byte
}

func NewAuthenticator(key string) *Authenticator {
	return &Authenticator{key: []byte(key)}
}

// VerifyJWT rejects the request with 401 unless it carries a valid signed token.
func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString := bearerToken(ctx)
		if tokenString == "" {
			response.RenderErr(ctx, response.ErrUnauthenticated(errMissingToken))
			return
		}

		claims, err := jwthelper.ParseToken(a.key, tokenString)
		if err != nil {
			response.RenderErr(ctx, response.ErrUnauthenticated(err))
			return
		}

		ctx.Set(ctxKeyClaims, claims)
		ctx.Next()
	}
}

func bearerToken(ctx *gin.Context) string {
	header := ctx.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(header, bearerPrefix); ok {
		return strings.TrimSpace(token)
	}

	if websocket.IsWebSocketUpgrade(ctx.Request) {
		return ctx.Query(tokenQueryParam)
	}

	return ""
}

type ActorResolver interface {
	ResolveActor(ctx context.Context, userID uint, role domain.Role) (domain.Actor, error)
}

// ResolveActor turns the token claims into a verified actor. It must run after VerifyJWT.
func ResolveActor(resolver ActorResolver) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		claims, ok := ClaimsFrom(ctx)
		if !ok {
			response.RenderErr(ctx, response.ErrUnauthenticated(errMissingToken))
			return
		}

		role, err := domain.ParseRole(claims.Role)
		if err != nil {
			response.RenderErr(ctx, response.ErrUnauthenticated(err))
			return
		}

		actor, err := resolver.ResolveActor(ctx.Request.Context(), claims.UserID, role)
		if err != nil {
			if domain.KindOf(err) == domain.KindNotFound {
				response.RenderErr(ctx, response.ErrUnauthenticated(err))
				return
			}

			err = fmt.Errorf("middleware.ResolveActor -> resolver.ResolveActor -> %w", err)
			response.RenderErr(ctx, response.FromError(err))
			return
		}

		ctx.Set(ctxKeyActor, actor)
		ctx.Next()
	}
}

func ClaimsFrom(ctx *gin.Context) (*jwthelper.Claims, bool) {
	v, ok := ctx.Get(ctxKeyClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*jwthelper.Claims)

	return claims, ok
}

func ActorFrom(ctx *gin.Context) (domain.Actor, bool) {
	v, ok := ctx.Get(ctxKeyActor)
	if !ok {
		return nil, false
	}
	actor, ok := v.(domain.Actor)

	return actor, ok
}
