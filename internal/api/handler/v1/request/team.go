package request

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

var errNoPermissionChanges = errors.New("at least one permission change is required")

type AddTeamMemberRequest struct {
	Email       string   `json:"email"`
	FirstName   string   `json:"first_name"`
	LastName    string   `json:"last_name"`
	Permissions []string `json:"permissions"`
}

func (req *AddTeamMemberRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.FirstName, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.LastName, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Permissions, validation.Required),
	)
}

type UpdatePermissionsRequest struct {
	Assign   []string `json:"assign"`
	Unassign []string `json:"unassign"`
}

func (req *UpdatePermissionsRequest) Validate() error {
	if len(req.Assign) == 0 && len(req.Unassign) == 0 {
		return errNoPermissionChanges
	}

	return nil
}
