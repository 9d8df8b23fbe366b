package request

import (
	"errors"
	"regexp"

	"github.com/dlclark/regexp2"
	validation "github.com/go-ozzo/ozzo-validation"
)

const (
	usernameRegexPattern = `^[A-Za-z][A-Za-z0-9_]{4,}$`
	passwordRegexPattern = `^(?=.*[a-z])(?=.*[A-Z])(?=.*\d)(?=.*[^A-Za-z0-9\s]).{8,}$`
)

var (
	usernameExp = regexp.MustCompile(usernameRegexPattern)
	// The password rule needs lookaheads, which the stdlib engine rejects.
	passwordExp = regexp2.MustCompile(passwordRegexPattern, regexp2.None)

	errInvalidUsername  = errors.New("the username must start with a letter and be at least 5 characters of letters, digits or underscores")
	errInvalidPassword  = errors.New("the password must be at least 8 characters and contain an upper case letter, a lower case letter, a digit and a special character")
	errPasswordMismatch = errors.New("confirm password doesn't match the password")
)

type RegisterRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	FullName        string `json:"full_name"`
}

func (req *RegisterRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Username, validation.Required),
		validation.Field(&req.Password, validation.Required),
		validation.Field(&req.ConfirmPassword, validation.Required),
		validation.Field(&req.FullName, validation.Required, validation.Length(1, 100)),
	)
	if err != nil {
		return err
	}

	if !usernameExp.MatchString(req.Username) {
		return errInvalidUsername
	}

	if err := validatePassword(req.Password); err != nil {
		return err
	}

	if req.Password != req.ConfirmPassword {
		return errPasswordMismatch
	}

	return nil
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (req *LoginRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Username, validation.Required),
		validation.Field(&req.Password, validation.Required),
	)
}

type UpdatePasswordRequest struct {
	OldPassword     string `json:"old_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (req *UpdatePasswordRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.OldPassword, validation.Required),
		validation.Field(&req.NewPassword, validation.Required),
		validation.Field(&req.ConfirmPassword, validation.Required),
	)
	if err != nil {
		return err
	}

	if err := validatePassword(req.NewPassword); err != nil {
		return err
	}

	if req.NewPassword != req.ConfirmPassword {
		return errPasswordMismatch
	}

	return nil
}

func validatePassword(password string) error {
	ok, err := passwordExp.MatchString(password)
	if err != nil || !ok {
		return errInvalidPassword
	}

	return nil
}
