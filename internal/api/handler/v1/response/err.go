package response

import (
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vietanh2810/festival-api/internal/apperror"
)

type Err struct {
	StatusCode int    `json:"-"`
	Msg        string `json:"error"`
}

func (e *Err) Error() string {
	return e.Msg
}

func NewErr(statusCode int, msg string) *Err {
	return &Err{
		StatusCode: statusCode,
		Msg:        msg,
	}
}

func ErrBadRequest(err error) *Err {
	return NewErr(http.StatusBadRequest, err.Error())
}

func ErrUnauthorized(msg string) *Err {
	return NewErr(http.StatusUnauthorized, msg)
}

func ErrInternalServerError() *Err {
	return NewErr(http.StatusInternalServerError, "internal server error")
}

// RenderErr writes e as the response body and aborts the chain.
func RenderErr(ctx *gin.Context, e *Err) {
	ctx.AbortWithStatusJSON(e.StatusCode, e)
}

// RenderFailure maps a service error to its HTTP status. Typed failures keep
// their message; anything else is logged and rendered as a plain 500.
func RenderFailure(ctx *gin.Context, err error) {
	kind := apperror.KindOf(err)
	status := apperror.HTTPStatus(kind)

	if status == http.StatusInternalServerError {
		zap.L().Error("unexpected error",
			zap.Error(err),
			zap.String("request_id", requestid.Get(ctx)),
			zap.String("path", ctx.FullPath()),
		)
		RenderErr(ctx, ErrInternalServerError())

		return
	}

	RenderErr(ctx, NewErr(status, err.Error()))
}
