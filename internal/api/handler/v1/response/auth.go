package response

import (
	"time"

	"github.com/Anthon002/NYSCAttendance/internal/domain"
)

// OTPIssued correlates a pending OTP with the follow-up confirmation call.
type OTPIssued struct {
	Identifier string `json:"identifier"`
}

type LoginCompleted struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      domain.User `json:"user"`
}
