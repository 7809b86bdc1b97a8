package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (req *LoginRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.Password, validation.Required),
	)
}

type ConfirmLoginRequest struct {
	Identifier string `json:"identifier"`
	Code       string `json:"code"`
}

func (req *ConfirmLoginRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Identifier, validation.Required, validation.Length(32, 32)),
		validation.Field(&req.Code, validation.Required, validation.Length(6, 6), is.Digit),
	)
}

type InitiatePasswordResetRequest struct {
	Email string `json:"email"`
}

func (req *InitiatePasswordResetRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Email, validation.Required, is.Email),
	)
}

type CompletePasswordResetRequest struct {
	Identifier      string `json:"identifier"`
	Code            string `json:"code"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (req *CompletePasswordResetRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Identifier, validation.Required, validation.Length(32, 32)),
		validation.Field(&req.Code, validation.Required, validation.Length(6, 6), is.Digit),
		validation.Field(&req.Password, validation.Required, validation.Length(8, 0)),
		validation.Field(&req.ConfirmPassword, validation.Required),
	)
}
