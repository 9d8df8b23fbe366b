package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRegisterRequest() RegisterRequest {
	return RegisterRequest{
		Username:        "alice_artist",
		Password:        "Str0ng!pass",
		ConfirmPassword: "Str0ng!pass",
		FullName:        "Alice Artist",
	}
}

func TestRegisterRequest_Validate(t *testing.T) {
	req := validRegisterRequest()
	require.NoError(t, req.Validate())
}

func TestRegisterRequest_UsernameRules(t *testing.T) {
	cases := []struct {
		username string
		valid    bool
	}{
		{"alice", true},
		{"alice_artist", true},
		{"Alice99", true},
		{"a2345", true},
		{"abcd", false},          // too short
		{"1alice", false},        // must start with a letter
		{"_alice", false},        // must start with a letter
		{"alice smith", false},   // no spaces
		{"alice-artist", false},  // no hyphens
		{"", false},
	}

	for _, tc := range cases {
		req := validRegisterRequest()
		req.Username = tc.username

		err := req.Validate()
		if tc.valid {
			assert.NoError(t, err, tc.username)
		} else {
			assert.Error(t, err, tc.username)
		}
	}
}

func TestRegisterRequest_PasswordRules(t *testing.T) {
	cases := []struct {
		password string
		valid    bool
	}{
		{"Str0ng!pass", true},
		{"aB3$efgh", true},
		{"aB3$efg", false},     // too short
		{"alllower3!", false},  // no upper case
		{"ALLUPPER3!", false},  // no lower case
		{"NoDigits!!", false},  // no digit
		{"NoSpecial33", false}, // no special character
	}

	for _, tc := range cases {
		req := validRegisterRequest()
		req.Password = tc.password
		req.ConfirmPassword = tc.password

		err := req.Validate()
		if tc.valid {
			assert.NoError(t, err, tc.password)
		} else {
			assert.ErrorIs(t, err, errInvalidPassword, tc.password)
		}
	}
}

func TestRegisterRequest_ConfirmMustMatch(t *testing.T) {
	req := validRegisterRequest()
	req.ConfirmPassword = "Different1!"

	assert.ErrorIs(t, req.Validate(), errPasswordMismatch)
}

func TestUpdatePasswordRequest_Validate(t *testing.T) {
	req := UpdatePasswordRequest{
		OldPassword:     "Old!pass123",
		NewPassword:     "New!pass123",
		ConfirmPassword: "New!pass123",
	}
	require.NoError(t, req.Validate())

	req.NewPassword = "weak"
	req.ConfirmPassword = "weak"
	assert.ErrorIs(t, req.Validate(), errInvalidPassword)

	req.NewPassword = "New!pass123"
	req.ConfirmPassword = "Other!pass123"
	assert.ErrorIs(t, req.Validate(), errPasswordMismatch)
}

func TestLoginRequest_Validate(t *testing.T) {
	require.NoError(t, (&LoginRequest{Username: "alice", Password: "x"}).Validate())
	assert.Error(t, (&LoginRequest{Username: "alice"}).Validate())
	assert.Error(t, (&LoginRequest{Password: "x"}).Validate())
}
