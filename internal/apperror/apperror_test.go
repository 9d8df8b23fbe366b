package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	err := New(Forbidden, "nope")
	assert.Equal(t, Forbidden, KindOf(err))

	wrapped := fmt.Errorf("s.repo.Save -> %w", err)
	assert.Equal(t, Forbidden, KindOf(wrapped))

	twice := fmt.Errorf("handler -> %w", wrapped)
	assert.Equal(t, Forbidden, KindOf(twice))

	joined := errors.Join(errors.New("boom"), err)
	assert.Equal(t, Forbidden, KindOf(joined))

	assert.Equal(t, Internal, KindOf(errors.New("boom")))
	assert.Equal(t, Internal, KindOf(nil))
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		kind Kind
		want int
	}{
		{NotFound, http.StatusNotFound},
		{Unauthenticated, http.StatusUnauthorized},
		{SessionExpired, http.StatusUnauthorized},
		{SessionInactive, http.StatusUnauthorized},
		{InvalidCredentials, http.StatusUnauthorized},
		{TokenOwnershipViolation, http.StatusForbidden},
		{AccountDeactivated, http.StatusForbidden},
		{Forbidden, http.StatusForbidden},
		{InvalidPhaseTransition, http.StatusForbidden},
		{InvalidStatusTransition, http.StatusForbidden},
		{ValidationFailed, http.StatusBadRequest},
		{Conflict, http.StatusConflict},
		{Internal, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, HTTPStatus(tc.kind))
	}
}
