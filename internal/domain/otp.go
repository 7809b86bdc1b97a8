package domain

import "time"

type OTPStatus int

const (
	OTPActive OTPStatus = iota
	OTPUsed
)

// OTP is a single-use login challenge. At most one row exists per user;
// issuing a new code overwrites the previous one in place.
type OTP struct {
	ID         int64
	UserID     int64
	Code       string
	Identifier string
	Status     OTPStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
