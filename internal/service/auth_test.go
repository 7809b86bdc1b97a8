package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Anthon002/NYSCAttendance/internal/domain"
	"github.com/Anthon002/NYSCAttendance/internal/repository"
)

type storedOTP struct {
	userID     int64
	code       string
	identifier string
	used       bool
}

type fakeAuthRepo struct {
	users map[string]domain.User
	perms map[int64]domain.Permissions
	otp   *storedOTP

	resetPasswordHash string
}

func newFakeAuthRepo() *fakeAuthRepo {
	return &fakeAuthRepo{
		users: map[string]domain.User{},
		perms: map[int64]domain.Permissions{},
	}
}

func (f *fakeAuthRepo) addUser(email, password string, perms domain.Permissions) domain.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	user := domain.User{
		ID:       int64(len(f.users) + 1),
		Email:    email,
		Password: string(hash),
		UserType: domain.UserTypeAdmin,
	}
	f.users[email] = user
	f.perms[user.ID] = perms

	return user
}

func (f *fakeAuthRepo) FindByEmail(_ context.Context, email string) (domain.User, error) {
	if user, ok := f.users[email]; ok {
		return user, nil
	}

	return domain.User{}, repository.ErrUserNotFound
}

func (f *fakeAuthRepo) SaveOTP(_ context.Context, userID int64, code, identifier string) error {
	f.otp = &storedOTP{userID: userID, code: code, identifier: identifier}

	return nil
}

func (f *fakeAuthRepo) RedeemOTPForLogin(_ context.Context, identifier, code string) (domain.User, domain.Permissions, error) {
	if err := f.redeem(identifier, code); err != nil {
		return domain.User{}, nil, err
	}

	for _, user := range f.users {
		if user.ID == f.otp.userID {
			return user, f.perms[user.ID], nil
		}
	}

	return domain.User{}, nil, repository.ErrUserNotFound
}

func (f *fakeAuthRepo) RedeemOTPForPasswordReset(_ context.Context, identifier, code, passwordHash string) error {
	if err := f.redeem(identifier, code); err != nil {
		return err
	}
	f.resetPasswordHash = passwordHash

	return nil
}

func (f *fakeAuthRepo) redeem(identifier, code string) error {
	if f.otp == nil || f.otp.used || f.otp.identifier != identifier || f.otp.code != code {
		return repository.ErrOTPInvalid
	}
	f.otp.used = true

	return nil
}

type fakeNotifier struct {
	otpEmails        []string
	credentialEmails []string
	removalEmails    []string

	failSendOTP bool
}

func (f *fakeNotifier) SendOTP(_ context.Context, email, _, _ string) error {
	if f.failSendOTP {
		return errors.New("brevo responded with 503")
	}
	f.otpEmails = append(f.otpEmails, email)

	return nil
}

func (f *fakeNotifier) SendLoginCredentials(_ context.Context, email, _, _ string) error {
	f.credentialEmails = append(f.credentialEmails, email)

	return nil
}

func (f *fakeNotifier) SendAccountRemoved(_ context.Context, email, _ string) error {
	f.removalEmails = append(f.removalEmails, email)

	return nil
}

func TestAuthService_Login(t *testing.T) {
	repo := newFakeAuthRepo()
	repo.addUser("admin@example.com", "secret-pass-1", domain.Permissions{domain.PermissionTeamManagement})
	notifier := &fakeNotifier{}
	svc := NewAuthService(repo, notifier)

	identifier, err := svc.Login(context.Background(), "  Admin@Example.COM ", "secret-pass-1")
	require.NoError(t, err)

	assert.Len(t, identifier, 32)
	require.NotNil(t, repo.otp)
	assert.Equal(t, identifier, repo.otp.identifier)
	assert.Len(t, repo.otp.code, 6)
	assert.Equal(t, []string{"admin@example.com"}, notifier.otpEmails)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	repo := newFakeAuthRepo()
	repo.addUser("admin@example.com", "secret-pass-1", nil)
	svc := NewAuthService(repo, &fakeNotifier{})

	_, err := svc.Login(context.Background(), "admin@example.com", "wrong")

	assert.ErrorIs(t, err, ErrWrongPassword)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc := NewAuthService(newFakeAuthRepo(), &fakeNotifier{})

	_, err := svc.Login(context.Background(), "nobody@example.com", "whatever")

	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthService_Login_NotificationFailure(t *testing.T) {
	repo := newFakeAuthRepo()
	repo.addUser("admin@example.com", "secret-pass-1", nil)
	svc := NewAuthService(repo, &fakeNotifier{failSendOTP: true})

	_, err := svc.Login(context.Background(), "admin@example.com", "secret-pass-1")

	assert.ErrorIs(t, err, ErrNotificationFailed)
}

func TestAuthService_Login_ReplacesPreviousOTP(t *testing.T) {
	repo := newFakeAuthRepo()
	repo.addUser("admin@example.com", "secret-pass-1", nil)
	svc := NewAuthService(repo, &fakeNotifier{})

	first, err := svc.Login(context.Background(), "admin@example.com", "secret-pass-1")
	require.NoError(t, err)
	firstCode := repo.otp.code

	second, err := svc.Login(context.Background(), "admin@example.com", "secret-pass-1")
	require.NoError(t, err)

	// The first pair no longer redeems.
	_, _, err = svc.ConfirmLogin(context.Background(), first, firstCode)
	assert.ErrorIs(t, err, ErrOTPInvalid)

	_, _, err = svc.ConfirmLogin(context.Background(), second, repo.otp.code)
	assert.NoError(t, err)
}

func TestAuthService_ConfirmLogin(t *testing.T) {
	repo := newFakeAuthRepo()
	wantPerms := domain.Permissions{domain.PermissionTeamManagement, domain.PermissionLocationManagement}
	repo.addUser("admin@example.com", "secret-pass-1", wantPerms)
	svc := NewAuthService(repo, &fakeNotifier{})

	identifier, err := svc.Login(context.Background(), "admin@example.com", "secret-pass-1")
	require.NoError(t, err)

	user, perms, err := svc.ConfirmLogin(context.Background(), identifier, repo.otp.code)
	require.NoError(t, err)

	assert.Equal(t, "admin@example.com", user.Email)
	assert.Equal(t, wantPerms, perms)
}

func TestAuthService_ConfirmLogin_SingleUse(t *testing.T) {
	repo := newFakeAuthRepo()
	repo.addUser("admin@example.com", "secret-pass-1", nil)
	svc := NewAuthService(repo, &fakeNotifier{})

	identifier, err := svc.Login(context.Background(), "admin@example.com", "secret-pass-1")
	require.NoError(t, err)
	code := repo.otp.code

	_, _, err = svc.ConfirmLogin(context.Background(), identifier, code)
	require.NoError(t, err)

	_, _, err = svc.ConfirmLogin(context.Background(), identifier, code)
	assert.ErrorIs(t, err, ErrOTPInvalid)
}

func TestAuthService_ConfirmLogin_WrongCode(t *testing.T) {
	repo := newFakeAuthRepo()
	repo.addUser("admin@example.com", "secret-pass-1", nil)
	svc := NewAuthService(repo, &fakeNotifier{})

	identifier, err := svc.Login(context.Background(), "admin@example.com", "secret-pass-1")
	require.NoError(t, err)

	_, _, err = svc.ConfirmLogin(context.Background(), identifier, "000000")
	assert.ErrorIs(t, err, ErrOTPInvalid)
}

func TestAuthService_PasswordReset(t *testing.T) {
	repo := newFakeAuthRepo()
	repo.addUser("admin@example.com", "old-pass-1", nil)
	svc := NewAuthService(repo, &fakeNotifier{})

	identifier, err := svc.InitiatePasswordReset(context.Background(), "admin@example.com")
	require.NoError(t, err)

	err = svc.CompletePasswordReset(context.Background(), identifier, repo.otp.code, "new-pass-42", "new-pass-42")
	require.NoError(t, err)

	require.NotEmpty(t, repo.resetPasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.resetPasswordHash), []byte("new-pass-42")))
}

func TestAuthService_CompletePasswordReset_Mismatch(t *testing.T) {
	svc := NewAuthService(newFakeAuthRepo(), &fakeNotifier{})

	err := svc.CompletePasswordReset(context.Background(), "id", "123456", "new-pass-42", "different")

	assert.ErrorIs(t, err, ErrPasswordMismatch)
}
