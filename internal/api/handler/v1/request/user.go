package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type UpdateInfoRequest struct {
	Username string `json:"username"`
	FullName string `json:"full_name"`
}

func (req *UpdateInfoRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.FullName, validation.Length(1, 100)),
	)
	if err != nil {
		return err
	}

	if req.Username != "" && !usernameExp.MatchString(req.Username) {
		return errInvalidUsername
	}

	return nil
}

type UpdateStatusRequest struct {
	Active *bool `json:"active"`
}

func (req *UpdateStatusRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Active, validation.NotNil),
	)
}
