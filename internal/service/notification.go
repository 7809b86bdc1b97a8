package service

import (
	"context"
	"fmt"
)

// Mailer delivers a single transactional email. Implementations live outside
// the core; the workflows only need the pass/fail outcome.
type Mailer interface {
	Send(ctx context.Context, recipientEmail, recipientName, subject, htmlBody string) error
}

// NotificationService composes the emails the auth and team workflows send.
type NotificationService struct {
	mailer   Mailer
	appName  string
	adminURL string
}

func NewNotificationService(mailer Mailer, appName, adminURL string) *NotificationService {
	return &NotificationService{
		mailer:   mailer,
		appName:  appName,
		adminURL: adminURL,
	}
}

func (s *NotificationService) SendOTP(ctx context.Context, email, firstName, code string) error {
	body := fmt.Sprintf("Hi %s,<br><br>Your One-Time Password (OTP) is <b>%s</b>.<br><br>Please use this code to complete your verification. It will expire shortly.", firstName, code)

	return s.mailer.Send(ctx, email, firstName, fmt.Sprintf("%s | One-Time Password", s.appName), body)
}

func (s *NotificationService) SendLoginCredentials(ctx context.Context, email, firstName, password string) error {
	body := fmt.Sprintf("Hi %s,<br><br>You have been invited as an admin on the attendance coordination application.<br><br>Here are your login credentials:<br>Email: <b>%s</b><br>Password: <b>%s</b><br><br>Click the link below to login:<br><a href=%q>Log in</a>", firstName, email, password, s.adminURL)

	return s.mailer.Send(ctx, email, firstName, fmt.Sprintf("%s | Admin Invitation", s.appName), body)
}

func (s *NotificationService) SendAccountRemoved(ctx context.Context, email, firstName string) error {
	body := fmt.Sprintf("Hi %s,<br><br>Your account has been removed.<br><br>You no longer have access to the dashboard and can no longer manage corps members' attendance records.<br>If this was a mistake, please reach out to an admin with the proper permission.", firstName)

	return s.mailer.Send(ctx, email, firstName, fmt.Sprintf("%s | Account Removed", s.appName), body)
}
