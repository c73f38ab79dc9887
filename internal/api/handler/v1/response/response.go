package response

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lasoiree/venue-api/internal/domain"
)

const (
	codeBadRequest       = "VALIDATION_FAILED"
	codeUnauthenticated  = "UNAUTHENTICATED"
	codeWrongCredentials = "WRONG_CREDENTIALS"
	codeInternal         = "INTERNAL"
)

// Err is the body of every failed response.
type Err struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`

	err error
}

func (e *Err) Error() string {
	if e.err != nil {
		return e.err.Error()
	}

	return e.Message
}

func (e *Err) Unwrap() error {
	return e.err
}

func RenderErr(ctx *gin.Context, e *Err) {
	if e.Status >= http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("request_id", requestid.Get(ctx)),
			zap.String("method", ctx.Request.Method),
			zap.String("path", ctx.FullPath()),
			zap.Error(e.err),
		)
	}

	ctx.AbortWithStatusJSON(e.Status, e)
}

// FromError maps a wrapped domain error onto its HTTP status. Anything else is internal.
func FromError(err error) *Err {
	derr, ok := domain.AsError(err)
	if !ok {
		return ErrInternalServerError(err)
	}

	return &Err{
		Code:    derr.Code,
		Message: derr.Message,
		Status:  statusOf(derr.Kind),
		err:     err,
	}
}

func statusOf(kind domain.Kind) int {
	switch kind {
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindPermissionDenied:
		return http.StatusForbidden
	case domain.KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func ErrBadRequest(err error) *Err {
	var derr *domain.Error
	if errors.As(err, &derr) && derr.Kind == domain.KindValidation {
		return FromError(err)
	}

	return &Err{
		Code:    codeBadRequest,
		Message: err.Error(),
		Status:  http.StatusBadRequest,
		err:     err,
	}
}

func ErrUnauthenticated(err error) *Err {
	return &Err{
		Code:    codeUnauthenticated,
		Message: "missing or invalid access token",
		Status:  http.StatusUnauthorized,
		err:     err,
	}
}

func ErrWrongCredentials(err error) *Err {
	return &Err{
		Code:    codeWrongCredentials,
		Message: "email or password is incorrect",
		Status:  http.StatusUnauthorized,
		err:     err,
	}
}

// ErrInternalServerError hides err from the client; it is only logged.
func ErrInternalServerError(err error) *Err {
	return &Err{
		Code:    codeInternal,
		Message: http.StatusText(http.StatusInternalServerError),
		Status:  http.StatusInternalServerError,
		err:     err,
	}
}
