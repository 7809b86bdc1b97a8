package domain

import "time"

type UserType int

const (
	UserTypeAdmin UserType = iota + 1
	UserTypeCorpsMember
	UserTypeSuperAdmin
)

const (
	PermissionTeamManagement     = "team-management"
	PermissionLocationManagement = "location-management"

	AdminPolicyCode = "ADMIN"
)

type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	UserType  UserType  `json:"user_type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Permissions is the caller's resolved permission set, passed explicitly into
// privileged operations instead of being read from ambient request state.
type Permissions []string

func (p Permissions) Has(permission string) bool {
	for _, v := range p {
		if v == permission {
			return true
		}
	}
	return false
}
