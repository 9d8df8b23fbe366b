package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/festival-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/festival-api/internal/domain"
)

// requesterKey is where the authenticated account is stored on the gin
// context.
const requesterKey = "requester"

// usernameHeader names the requesting account; the token travels in the
// standard Authorization bearer header.
const usernameHeader = "X-Requester-Username"

type RequesterGate interface {
	ValidateRequester(ctx context.Context, username, tokenValue string) (domain.User, error)
}

type Authenticator struct {
	gate RequesterGate
}

func NewAuthenticator(gate RequesterGate) *Authenticator {
	return &Authenticator{
		gate: gate,
	}
}

// RequireSession rejects the request unless the caller presents a username
// header and a valid bearer token of their own.
func (a *Authenticator) RequireSession() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		username := ctx.GetHeader(usernameHeader)
		token := bearerToken(ctx)
		if username == "" || token == "" {
			response.RenderErr(ctx, response.ErrUnauthorized("username header and bearer token are required"))

			return
		}

		user, err := a.gate.ValidateRequester(ctx.Request.Context(), username, token)
		if err != nil {
			response.RenderFailure(ctx, err)

			return
		}

		ctx.Set(requesterKey, user)
		ctx.Next()
	}
}

// OptionalSession authenticates the caller when credentials are supplied and
// lets anonymous requests through untouched. Supplied-but-invalid credentials
// still fail.
func (a *Authenticator) OptionalSession() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		username := ctx.GetHeader(usernameHeader)
		token := bearerToken(ctx)
		if username == "" && token == "" {
			ctx.Next()

			return
		}

		user, err := a.gate.ValidateRequester(ctx.Request.Context(), username, token)
		if err != nil {
			response.RenderFailure(ctx, err)

			return
		}

		ctx.Set(requesterKey, user)
		ctx.Next()
	}
}

// RequesterFrom returns the authenticated account set by RequireSession, or
// nil for an anonymous request.
func RequesterFrom(ctx *gin.Context) *domain.User {
	v, ok := ctx.Get(requesterKey)
	if !ok {
		return nil
	}

	user, ok := v.(domain.User)
	if !ok {
		return nil
	}

	return &user
}

func bearerToken(ctx *gin.Context) string {
	header := ctx.GetHeader("Authorization")
	if header == "" {
		return ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
