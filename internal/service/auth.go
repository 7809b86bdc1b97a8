package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/Anthon002/NYSCAttendance/internal/domain"
	"github.com/Anthon002/NYSCAttendance/internal/pkg/randgen"
	"github.com/Anthon002/NYSCAttendance/internal/repository"
)

var (
	// ErrUserNotFound is returned when no account matches the given email.
	ErrUserNotFound = repository.ErrUserNotFound

	// ErrWrongPassword is returned when the password does not match.
	ErrWrongPassword = errors.New("the email or password is incorrect")

	// ErrOTPInvalid is returned when the OTP pair does not match an active code.
	ErrOTPInvalid = repository.ErrOTPInvalid

	// ErrPasswordMismatch is returned when password and confirmation differ.
	ErrPasswordMismatch = errors.New("the passwords do not match")

	// ErrNotificationFailed is returned when the OTP email could not be sent.
	ErrNotificationFailed = errors.New("we could not send the email at this time. Please try again")
)

// AuthUserRepository is the persistence surface the auth workflows need.
type AuthUserRepository interface {
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	SaveOTP(ctx context.Context, userID int64, code, identifier string) error
	RedeemOTPForLogin(ctx context.Context, identifier, code string) (domain.User, domain.Permissions, error)
	RedeemOTPForPasswordReset(ctx context.Context, identifier, code, passwordHash string) error
}

// Notifier sends the workflow emails. Failures are surfaced to callers so the
// client knows the code never went out.
type Notifier interface {
	SendOTP(ctx context.Context, email, firstName, code string) error
	SendLoginCredentials(ctx context.Context, email, firstName, password string) error
	SendAccountRemoved(ctx context.Context, email, firstName string) error
}

type AuthService struct {
	repo     AuthUserRepository
	notifier Notifier

	// Overridable in tests.
	otpCode    func() string
	identifier func() string
}

func NewAuthService(repo AuthUserRepository, notifier Notifier) *AuthService {
	return &AuthService{
		repo:       repo,
		notifier:   notifier,
		otpCode:    randgen.OTPCode,
		identifier: randgen.Identifier,
	}
}

// Login checks the credentials and, when they match, issues a fresh OTP to the
// account's email. The returned identifier pairs the pending OTP with the
// follow-up confirmation call. Issuing a new OTP replaces any previous one.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("s.repo.FindByEmail -> %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", ErrWrongPassword
	}

	return s.issueOTP(ctx, user)
}

// ConfirmLogin redeems the OTP and returns the account with its permissions.
// The OTP is consumed atomically, so a code can only ever succeed once.
func (s *AuthService) ConfirmLogin(ctx context.Context, identifier, code string) (domain.User, domain.Permissions, error) {
	user, perms, err := s.repo.RedeemOTPForLogin(ctx, identifier, code)
	if err != nil {
		if errors.Is(err, repository.ErrOTPInvalid) {
			return domain.User{}, nil, ErrOTPInvalid
		}
		return domain.User{}, nil, fmt.Errorf("s.repo.RedeemOTPForLogin -> %w", err)
	}

	return user, perms, nil
}

// InitiatePasswordReset issues an OTP to the account's email without requiring
// the current password.
func (s *AuthService) InitiatePasswordReset(ctx context.Context, email string) (string, error) {
	user, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("s.repo.FindByEmail -> %w", err)
	}

	return s.issueOTP(ctx, user)
}

// CompletePasswordReset redeems the OTP and stores the new password hash in
// the same transaction.
func (s *AuthService) CompletePasswordReset(ctx context.Context, identifier, code, password, confirmPassword string) error {
	if password != confirmPassword {
		return ErrPasswordMismatch
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("bcrypt.GenerateFromPassword -> %w", err)
	}

	if err := s.repo.RedeemOTPForPasswordReset(ctx, identifier, code, string(hash)); err != nil {
		if errors.Is(err, repository.ErrOTPInvalid) {
			return ErrOTPInvalid
		}
		return fmt.Errorf("s.repo.RedeemOTPForPasswordReset -> %w", err)
	}

	return nil
}

func (s *AuthService) issueOTP(ctx context.Context, user domain.User) (string, error) {
	code := s.otpCode()
	identifier := s.identifier()

	if err := s.repo.SaveOTP(ctx, user.ID, code, identifier); err != nil {
		return "", fmt.Errorf("s.repo.SaveOTP -> %w", err)
	}

	if err := s.notifier.SendOTP(ctx, user.Email, user.FirstName, code); err != nil {
		return "", fmt.Errorf("s.notifier.SendOTP: %v -> %w", err, ErrNotificationFailed)
	}

	return identifier, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
