package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Anthon002/NYSCAttendance/internal/domain"
	"github.com/Anthon002/NYSCAttendance/internal/pkg/randgen"
	"github.com/Anthon002/NYSCAttendance/internal/repository"
)

const tempPasswordLength = 12

var (
	// ErrUserEmailExists is returned when the email already belongs to a member.
	ErrUserEmailExists = repository.ErrUserEmailExists

	// ErrInvalidPermission is returned when a permission tag is not one the
	// system grants.
	ErrInvalidPermission = errors.New("one or more permissions are not recognized")

	// ErrUserImmutable is returned when the target account's permissions
	// cannot be edited.
	ErrUserImmutable = errors.New("this account's permissions cannot be changed")

	// ErrPermissionNotHeld is returned when unassigning a permission the
	// member does not hold.
	ErrPermissionNotHeld = errors.New("the member does not hold one of the permissions to remove")

	// ErrPermissionAlreadyHeld is returned when assigning a permission the
	// member already holds.
	ErrPermissionAlreadyHeld = errors.New("the member already holds one of the permissions to add")
)

// TeamUserRepository is the persistence surface the team workflows need.
type TeamUserRepository interface {
	FindByID(ctx context.Context, id int64) (domain.User, error)
	FindPermissions(ctx context.Context, userID int64) (domain.Permissions, error)
	CreateWithPermissions(ctx context.Context, user domain.User, permissions domain.Permissions) (domain.User, error)
	UpdatePermissions(ctx context.Context, userID int64, assign, unassign domain.Permissions) error
	Delete(ctx context.Context, userID int64) error
	List(ctx context.Context, search string, page, pageSize int) ([]domain.User, map[int64]domain.Permissions, int64, error)
}

type AddTeamMemberInput struct {
	Email       string
	FirstName   string
	LastName    string
	Permissions []string
}

type TeamMember struct {
	User        domain.User
	Permissions domain.Permissions
}

type TeamService struct {
	repo     TeamUserRepository
	notifier Notifier

	// Overridable in tests.
	tempPassword func(length int) string
}

func NewTeamService(repo TeamUserRepository, notifier Notifier) *TeamService {
	return &TeamService{
		repo:         repo,
		notifier:     notifier,
		tempPassword: randgen.TempPassword,
	}
}

// AddTeamMember creates an admin account with a generated temporary password
// and emails the credentials to the new member.
func (s *TeamService) AddTeamMember(ctx context.Context, perms domain.Permissions, input AddTeamMemberInput) (domain.User, error) {
	if !perms.Has(domain.PermissionTeamManagement) {
		return domain.User{}, ErrPermissionDenied
	}

	if err := validatePermissionTags(input.Permissions); err != nil {
		return domain.User{}, err
	}

	password := s.tempPassword(tempPasswordLength)
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("bcrypt.GenerateFromPassword -> %w", err)
	}

	user := domain.User{
		Email:     normalizeEmail(input.Email),
		Password:  string(hash),
		FirstName: input.FirstName,
		LastName:  input.LastName,
		UserType:  domain.UserTypeAdmin,
	}

	created, err := s.repo.CreateWithPermissions(ctx, user, input.Permissions)
	if err != nil {
		if errors.Is(err, repository.ErrUserEmailExists) {
			return domain.User{}, ErrUserEmailExists
		}
		return domain.User{}, fmt.Errorf("s.repo.CreateWithPermissions -> %w", err)
	}

	if err := s.notifier.SendLoginCredentials(ctx, created.Email, created.FirstName, password); err != nil {
		return domain.User{}, fmt.Errorf("s.notifier.SendLoginCredentials: %v -> %w", err, ErrNotificationFailed)
	}

	return created, nil
}

func (s *TeamService) ListTeamMembers(ctx context.Context, perms domain.Permissions, search string, page, pageSize int) ([]TeamMember, int64, error) {
	if !perms.Has(domain.PermissionTeamManagement) {
		return nil, 0, ErrPermissionDenied
	}

	users, permsByID, total, err := s.repo.List(ctx, search, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("s.repo.List -> %w", err)
	}

	members := make([]TeamMember, len(users))
	for i, u := range users {
		members[i] = TeamMember{User: u, Permissions: permsByID[u.ID]}
	}

	return members, total, nil
}

// UpdatePermissions grants and revokes permission tags on a member. Super
// admin accounts are immutable. A tag can only be revoked if held and only be
// granted if not already held.
func (s *TeamService) UpdatePermissions(ctx context.Context, perms domain.Permissions, userID int64, assign, unassign []string) error {
	if !perms.Has(domain.PermissionTeamManagement) {
		return ErrPermissionDenied
	}

	if err := validatePermissionTags(assign); err != nil {
		return err
	}
	if err := validatePermissionTags(unassign); err != nil {
		return err
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if user.UserType == domain.UserTypeSuperAdmin {
		return ErrUserImmutable
	}

	held, err := s.repo.FindPermissions(ctx, userID)
	if err != nil {
		return fmt.Errorf("s.repo.FindPermissions -> %w", err)
	}

	for _, tag := range unassign {
		if !held.Has(tag) {
			return ErrPermissionNotHeld
		}
	}
	for _, tag := range assign {
		if held.Has(tag) {
			return ErrPermissionAlreadyHeld
		}
	}

	if err := s.repo.UpdatePermissions(ctx, userID, assign, unassign); err != nil {
		return fmt.Errorf("s.repo.UpdatePermissions -> %w", err)
	}

	return nil
}

// RemoveTeamMember deletes the account and notifies the member. The deletion
// stands even when the notification cannot be delivered.
func (s *TeamService) RemoveTeamMember(ctx context.Context, perms domain.Permissions, userID int64) error {
	if !perms.Has(domain.PermissionTeamManagement) {
		return ErrPermissionDenied
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if user.UserType == domain.UserTypeSuperAdmin {
		return ErrUserImmutable
	}

	if err := s.repo.Delete(ctx, userID); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	if err := s.notifier.SendAccountRemoved(ctx, user.Email, user.FirstName); err != nil {
		zap.L().Warn("failed to send account removal notification",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
	}

	return nil
}

func validatePermissionTags(tags []string) error {
	for _, tag := range tags {
		if tag != domain.PermissionTeamManagement && tag != domain.PermissionLocationManagement {
			return ErrInvalidPermission
		}
	}

	return nil
}
