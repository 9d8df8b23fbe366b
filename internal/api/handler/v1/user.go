package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/festival-api/internal/api/handler/v1/request"
	"github.com/vietanh2810/festival-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/festival-api/internal/api/middleware"
	"github.com/vietanh2810/festival-api/internal/domain"
)

type UserService interface {
	UpdateInfo(ctx context.Context, requester domain.User, targetUsername, newUsername, fullName string) (domain.User, *domain.Token, error)
	UpdateAccountStatus(ctx context.Context, requester domain.User, targetUsername string, active bool) (domain.User, error)
	Delete(ctx context.Context, requester domain.User, targetUsername string) error
}

type UserHandler struct {
	svc UserService
}

func NewUserHandler(svc UserService) *UserHandler {
	return &UserHandler{
		svc: svc,
	}
}

// HandleUpdateInfo godoc
// @Summary      Update username and/or full name of an account
// @Tags         users
// @Produce      json
// @Param        username   path      string true "target username"
// @Param        request    body      request.UpdateInfoRequest true "request body"
// @Success      200       {object}   domain.User
// @Failure      400       {object}   response.Err
// @Failure      403       {object}   response.Err
// @Failure      404       {object}   response.Err
// @Failure      409       {object}   response.Err
// @Failure      500       {object}   response.Err
// @Router       /users/{username} [put]
func (h *UserHandler) HandleUpdateInfo(ctx *gin.Context) {
	requester := middleware.RequesterFrom(ctx)
	if requester == nil {
		response.RenderErr(ctx, response.ErrUnauthorized("authentication required"))

		return
	}

	var req request.UpdateInfoRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	user, token, err := h.svc.UpdateInfo(ctx.Request.Context(), *requester, ctx.Param("username"), req.Username, req.FullName)
	if err != nil {
		response.RenderFailure(ctx, err)

		return
	}

	if token != nil {
		ctx.JSON(http.StatusOK, gin.H{
			"user":       user,
			"token":      token.Value,
			"expires_at": token.ExpiresAt,
		})

		return
	}

	ctx.JSON(http.StatusOK, user)
}

// HandleUpdateStatus godoc
// @Summary      Activate or deactivate an account (admin only)
// @Tags         users
// @Produce      json
// @Param        username   path      string true "target username"
// @Param        request    body      request.UpdateStatusRequest true "request body"
// @Success      200       {object}   domain.User
// @Failure      400       {object}   response.Err
// @Failure      403       {object}   response.Err
// @Failure      404       {object}   response.Err
// @Failure      500       {object}   response.Err
// @Router       /users/{username}/status [put]
func (h *UserHandler) HandleUpdateStatus(ctx *gin.Context) {
	requester := middleware.RequesterFrom(ctx)
	if requester == nil {
		response.RenderErr(ctx, response.ErrUnauthorized("authentication required"))

		return
	}

	var req request.UpdateStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	user, err := h.svc.UpdateAccountStatus(ctx.Request.Context(), *requester, ctx.Param("username"), *req.Active)
	if err != nil {
		response.RenderFailure(ctx, err)

		return
	}

	ctx.JSON(http.StatusOK, user)
}

// HandleDeleteUser godoc
// @Summary      Delete an account and its sessions (admin only)
// @Tags         users
// @Produce      json
// @Param        username   path      string true "target username"
// @Success      204
// @Failure      403       {object}   response.Err
// @Failure      404       {object}   response.Err
// @Failure      500       {object}   response.Err
// @Router       /users/{username} [delete]
func (h *UserHandler) HandleDeleteUser(ctx *gin.Context) {
	requester := middleware.RequesterFrom(ctx)
	if requester == nil {
		response.RenderErr(ctx, response.ErrUnauthorized("authentication required"))

		return
	}

	if err := h.svc.Delete(ctx.Request.Context(), *requester, ctx.Param("username")); err != nil {
		response.RenderFailure(ctx, err)

		return
	}

	ctx.Status(http.StatusNoContent)
}
