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

type AuthService interface {
	Register(ctx context.Context, username, password, fullName string) (domain.User, error)
	Login(ctx context.Context, username, password string) (domain.User, domain.Token, error)
	Logout(ctx context.Context, user domain.User) error
	UpdatePassword(ctx context.Context, user domain.User, oldPassword, newPassword string) (domain.Token, error)
}

type AuthHandler struct {
	svc AuthService
}

func NewAuthHandler(svc AuthService) *AuthHandler {
	return &AuthHandler{
		svc: svc,
	}
}

// HandleRegister godoc
// @Summary      Register a new account
// @Tags         auth
// @Produce      json
// @Param        request   body      request.RegisterRequest true "request body"
// @Success      201      {object}   domain.User
// @Failure      400      {object}   response.Err
// @Failure      409      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /auth/register [post]
func (h *AuthHandler) HandleRegister(ctx *gin.Context) {
	var req request.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	user, err := h.svc.Register(ctx.Request.Context(), req.Username, req.Password, req.FullName)
	if err != nil {
		response.RenderFailure(ctx, err)

		return
	}

	ctx.JSON(http.StatusCreated, user)
}

// HandleLogin godoc
// @Summary      Login and receive a session token
// @Tags         auth
// @Produce      json
// @Param        request   body      request.LoginRequest true "request body"
// @Success      200      {object}   response.LoginResponse
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /auth/login [post]
func (h *AuthHandler) HandleLogin(ctx *gin.Context) {
	var req request.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	user, token, err := h.svc.Login(ctx.Request.Context(), req.Username, req.Password)
	if err != nil {
		response.RenderFailure(ctx, err)

		return
	}

	ctx.JSON(http.StatusOK, response.LoginResponse{
		Token:     token.Value,
		ExpiresAt: token.ExpiresAt,
		User:      user,
	})
}

// HandleLogout godoc
// @Summary      Logout and retire every session of the caller
// @Tags         auth
// @Produce      json
// @Success      204
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /auth/logout [post]
func (h *AuthHandler) HandleLogout(ctx *gin.Context) {
	requester := middleware.RequesterFrom(ctx)
	if requester == nil {
		response.RenderErr(ctx, response.ErrUnauthorized("authentication required"))

		return
	}

	if err := h.svc.Logout(ctx.Request.Context(), *requester); err != nil {
		response.RenderFailure(ctx, err)

		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleUpdatePassword godoc
// @Summary      Change the caller's password
// @Tags         auth
// @Produce      json
// @Param        request   body      request.UpdatePasswordRequest true "request body"
// @Success      200      {object}   response.TokenResponse
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /auth/password [put]
func (h *AuthHandler) HandleUpdatePassword(ctx *gin.Context) {
	requester := middleware.RequesterFrom(ctx)
	if requester == nil {
		response.RenderErr(ctx, response.ErrUnauthorized("authentication required"))

		return
	}

	var req request.UpdatePasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))

		return
	}

	token, err := h.svc.UpdatePassword(ctx.Request.Context(), *requester, req.OldPassword, req.NewPassword)
	if err != nil {
		response.RenderFailure(ctx, err)

		return
	}

	ctx.JSON(http.StatusOK, response.TokenResponse{
		Token:     token.Value,
		ExpiresAt: token.ExpiresAt,
	})
}
