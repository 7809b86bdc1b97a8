package repository

import (
	"context"
	"fmt"

	"github.com/Anthon002/NYSCAttendance/internal/domain"
	"github.com/Anthon002/NYSCAttendance/internal/repository/dao"
)

var (
	ErrUserEmailExists = dao.ErrUserEmailExists
	ErrUserNotFound    = dao.ErrUserNotFound
	ErrOTPInvalid      = dao.ErrOTPInvalid
)

type UserDAO interface {
	FindByEmail(ctx context.Context, email string) (dao.User, error)
	FindByID(ctx context.Context, id int64) (dao.User, error)
	FindPermissions(ctx context.Context, userID int64) ([]string, error)
	UpsertOTP(ctx context.Context, userID int64, code, identifier string) error
	RedeemOTPForLogin(ctx context.Context, identifier, code string) (dao.User, []string, error)
	RedeemOTPForPasswordReset(ctx context.Context, identifier, code, passwordHash string) error
	InsertWithPermissions(ctx context.Context, user dao.User, permissions []string) (dao.User, error)
	UpdatePermissions(ctx context.Context, userID int64, assign, unassign []string) error
	Delete(ctx context.Context, userID int64) error
	ListWithPermissions(ctx context.Context, search string, page, pageSize int) ([]dao.User, map[int64][]string, int64, error)
}

type UserRepository struct {
	dao UserDAO
}

func NewUserRepository(dao UserDAO) *UserRepository {
	return &UserRepository{
		dao: dao,
	}
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	found, err := r.dao.FindByEmail(ctx, email)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByEmail -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (domain.User, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *UserRepository) FindPermissions(ctx context.Context, userID int64) (domain.Permissions, error) {
	permissions, err := r.dao.FindPermissions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindPermissions -> %w", err)
	}

	return permissions, nil
}

// SaveOTP installs a fresh ticket for the user; the previous code (if any)
// becomes unusable immediately.
func (r *UserRepository) SaveOTP(ctx context.Context, userID int64, code, identifier string) error {
	if err := r.dao.UpsertOTP(ctx, userID, code, identifier); err != nil {
		return fmt.Errorf("r.dao.UpsertOTP -> %w", err)
	}

	return nil
}

func (r *UserRepository) RedeemOTPForLogin(ctx context.Context, identifier, code string) (domain.User, domain.Permissions, error) {
	found, permissions, err := r.dao.RedeemOTPForLogin(ctx, identifier, code)
	if err != nil {
		return domain.User{}, nil, fmt.Errorf("r.dao.RedeemOTPForLogin -> %w", err)
	}

	return r.daoToDomain(found), permissions, nil
}

func (r *UserRepository) RedeemOTPForPasswordReset(ctx context.Context, identifier, code, passwordHash string) error {
	if err := r.dao.RedeemOTPForPasswordReset(ctx, identifier, code, passwordHash); err != nil {
		return fmt.Errorf("r.dao.RedeemOTPForPasswordReset -> %w", err)
	}

	return nil
}

func (r *UserRepository) CreateWithPermissions(ctx context.Context, user domain.User, permissions domain.Permissions) (domain.User, error) {
	created, err := r.dao.InsertWithPermissions(ctx, r.domainToDAO(user), permissions)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.InsertWithPermissions -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *UserRepository) UpdatePermissions(ctx context.Context, userID int64, assign, unassign domain.Permissions) error {
	if err := r.dao.UpdatePermissions(ctx, userID, assign, unassign); err != nil {
		return fmt.Errorf("r.dao.UpdatePermissions -> %w", err)
	}

	return nil
}

func (r *UserRepository) Delete(ctx context.Context, userID int64) error {
	if err := r.dao.Delete(ctx, userID); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *UserRepository) List(ctx context.Context, search string, page, pageSize int) ([]domain.User, map[int64]domain.Permissions, int64, error) {
	users, permissions, total, err := r.dao.ListWithPermissions(ctx, search, page, pageSize)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("r.dao.ListWithPermissions -> %w", err)
	}

	mapped := make([]domain.User, len(users))
	permsByID := make(map[int64]domain.Permissions, len(users))
	for i, u := range users {
		mapped[i] = r.daoToDomain(u)
		permsByID[u.ID] = permissions[u.ID]
	}

	return mapped, permsByID, total, nil
}

func (r *UserRepository) domainToDAO(u domain.User) dao.User {
	return dao.User{
		ID:        u.ID,
		Email:     u.Email,
		Password:  u.Password,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		UserType:  int(u.UserType),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (r *UserRepository) daoToDomain(u dao.User) domain.User {
	return domain.User{
		ID:        u.ID,
		Email:     u.Email,
		Password:  u.Password,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		UserType:  domain.UserType(u.UserType),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
