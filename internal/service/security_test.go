package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/festival-api/internal/apperror"
	"github.com/vietanh2810/festival-api/internal/domain"
)

func TestSecurityService_ValidateRequester(t *testing.T) {
	users := newFakeUserStore()
	tokens := newFakeTokenStore()
	tokenSvc := newTestTokenService(users, tokens)
	svc := NewSecurityService(users, tokenSvc)

	alice, err := users.Create(context.Background(), domain.User{Username: "alice_artist", Active: true})
	require.NoError(t, err)
	token, err := tokenSvc.Generate(context.Background(), alice)
	require.NoError(t, err)

	requester, err := svc.ValidateRequester(context.Background(), "alice_artist", token.Value)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, requester.ID)
}

func TestSecurityService_ValidateRequester_UnknownUser(t *testing.T) {
	users := newFakeUserStore()
	tokens := newFakeTokenStore()
	svc := NewSecurityService(users, newTestTokenService(users, tokens))

	_, err := svc.ValidateRequester(context.Background(), "nobody", "whatever")
	assert.Equal(t, apperror.NotFound, apperror.KindOf(err))
}

func TestSecurityService_ValidateRequester_DeactivatedAccount(t *testing.T) {
	users := newFakeUserStore()
	tokens := newFakeTokenStore()
	tokenSvc := newTestTokenService(users, tokens)
	svc := NewSecurityService(users, tokenSvc)

	_, err := users.Create(context.Background(), domain.User{Username: "alice_artist", Active: false})
	require.NoError(t, err)

	_, err = svc.ValidateRequester(context.Background(), "alice_artist", "whatever")
	assert.Equal(t, apperror.AccountDeactivated, apperror.KindOf(err))
}

func TestSecurityService_ValidateRequester_StolenToken(t *testing.T) {
	users := newFakeUserStore()
	tokens := newFakeTokenStore()
	tokenSvc := newTestTokenService(users, tokens)
	svc := NewSecurityService(users, tokenSvc)

	alice, err := users.Create(context.Background(), domain.User{Username: "alice_artist", Active: true})
	require.NoError(t, err)
	_, err = users.Create(context.Background(), domain.User{Username: "mallory", Active: true})
	require.NoError(t, err)

	token, err := tokenSvc.Generate(context.Background(), alice)
	require.NoError(t, err)

	_, err = svc.ValidateRequester(context.Background(), "mallory", token.Value)
	assert.Equal(t, apperror.TokenOwnershipViolation, apperror.KindOf(err))

	// Both accounts were forcibly deactivated, so even the rightful owner is
	// locked out until an admin reactivates them.
	for _, username := range []string{"alice_artist", "mallory"} {
		_, err = svc.ValidateRequester(context.Background(), username, token.Value)
		assert.Equal(t, apperror.AccountDeactivated, apperror.KindOf(err), username)

		user, findErr := users.FindByUsername(context.Background(), username)
		require.NoError(t, findErr)
		assert.False(t, user.Active)
	}
}
