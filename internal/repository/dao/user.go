package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrUserEmailExists = errors.New("a user with this email already exists")
	ErrUserNotFound    = errors.New("user not found")
	ErrOTPInvalid      = errors.New("otp is invalid")
)

type User struct {
	ID int64 `gorm:"primaryKey"`

	Email     string `gorm:"size:255;not null;unique"`
	Password  string `gorm:"not null"`
	FirstName string `gorm:"size:100;not null"`
	LastName  string `gorm:"size:100;not null"`
	UserType  int    `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type UserPermission struct {
	ID     int64  `gorm:"primaryKey"`
	UserID int64  `gorm:"not null;index"`
	Value  string `gorm:"size:50;not null"`
}

type OTP struct {
	ID int64 `gorm:"primaryKey"`

	UserID     int64  `gorm:"not null;uniqueIndex"`
	Code       string `gorm:"size:6;not null"`
	Identifier string `gorm:"size:32;not null;index"`
	Status     int    `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

const (
	otpStatusActive = 0
	otpStatusUsed   = 1
)

// UserDAO owns the auth aggregate: users, their permission tags and their OTP
// tickets. The multi-table login and reset flows are transactional here so a
// half-applied flow is never observable.
type UserDAO struct {
	db *gorm.DB
}

func NewUserDAO(db *gorm.DB) *UserDAO {
	return &UserDAO{
		db: db,
	}
}

func (d *UserDAO) FindByEmail(ctx context.Context, email string) (User, error) {
	var user User

	result := d.db.WithContext(ctx).First(&user, "email = ?", strings.ToLower(strings.TrimSpace(email)))
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) FindByID(ctx context.Context, id int64) (User, error) {
	var user User

	result := d.db.WithContext(ctx).First(&user, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) FindPermissions(ctx context.Context, userID int64) ([]string, error) {
	var values []string

	result := d.db.WithContext(ctx).
		Model(&UserPermission{}).
		Where("user_id = ?", userID).
		Pluck("value", &values)
	if result.Error != nil {
		return nil, result.Error
	}

	return values, nil
}

// UpsertOTP installs a fresh ticket for the user, overwriting any previous row
// in place. The old code stops matching the moment this commits.
func (d *UserDAO) UpsertOTP(ctx context.Context, userID int64, code, identifier string) error {
	now := time.Now().UTC()

	result := d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"code":       code,
			"identifier": identifier,
			"status":     otpStatusActive,
			"updated_at": now,
		}),
	}).Create(&OTP{
		UserID:     userID,
		Code:       code,
		Identifier: identifier,
		Status:     otpStatusActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	})

	return result.Error
}

// redeemOTP flips an Active ticket matching (identifier, code) to Used and
// returns the owning user id. The single guarded UPDATE makes redemption
// first-wins under concurrent submissions of the same code.
func redeemOTP(tx *gorm.DB, identifier, code string) (int64, error) {
	var redeemed []OTP

	result := tx.Model(&redeemed).
		Clauses(clause.Returning{}).
		Where("identifier = ? AND code = ? AND status = ?", identifier, code, otpStatusActive).
		Updates(map[string]interface{}{
			"status":     otpStatusUsed,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	if len(redeemed) == 0 {
		return 0, ErrOTPInvalid
	}

	return redeemed[0].UserID, nil
}

// RedeemOTPForLogin consumes the ticket and loads the account plus its
// permission tags in one transaction.
func (d *UserDAO) RedeemOTPForLogin(ctx context.Context, identifier, code string) (User, []string, error) {
	var (
		user        User
		permissions []string
	)

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		userID, err := redeemOTP(tx, identifier, code)
		if err != nil {
			return err
		}

		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}

			return err
		}

		return tx.Model(&UserPermission{}).
			Where("user_id = ?", userID).
			Pluck("value", &permissions).Error
	})
	if err != nil {
		return User{}, nil, err
	}

	return user, permissions, nil
}

// RedeemOTPForPasswordReset consumes the ticket and installs the new password
// hash atomically; a failed update leaves the ticket unredeemed.
func (d *UserDAO) RedeemOTPForPasswordReset(ctx context.Context, identifier, code, passwordHash string) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		userID, err := redeemOTP(tx, identifier, code)
		if err != nil {
			return err
		}

		result := tx.Model(&User{}).
			Where("id = ?", userID).
			Updates(map[string]interface{}{
				"password":   passwordHash,
				"updated_at": time.Now().UTC(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrUserNotFound
		}

		return nil
	})
}

// InsertWithPermissions creates an admin account and its permission tags in
// one transaction.
func (d *UserDAO) InsertWithPermissions(ctx context.Context, user User, permissions []string) (User, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrUserEmailExists
		}

		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		for _, value := range permissions {
			if err := tx.Create(&UserPermission{UserID: user.ID, Value: value}).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return User{}, err
	}

	return user, nil
}

func (d *UserDAO) UpdatePermissions(ctx context.Context, userID int64, assign, unassign []string) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(unassign) > 0 {
			if err := tx.Where("user_id = ? AND value IN ?", userID, unassign).
				Delete(&UserPermission{}).Error; err != nil {
				return err
			}
		}

		for _, value := range assign {
			if err := tx.Create(&UserPermission{UserID: userID, Value: value}).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func (d *UserDAO) Delete(ctx context.Context, userID int64) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&User{}, userID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrUserNotFound
		}

		return tx.Where("user_id = ?", userID).Delete(&UserPermission{}).Error
	})
}

// ListWithPermissions returns admins matching the search term, each with their
// permission tags attached.
func (d *UserDAO) ListWithPermissions(ctx context.Context, search string, page, pageSize int) ([]User, map[int64][]string, int64, error) {
	query := d.db.WithContext(ctx).Model(&User{})

	if search = strings.ToLower(strings.TrimSpace(search)); search != "" {
		pattern := "%" + search + "%"
		query = query.Where(
			"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ?",
			pattern, pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, 0, err
	}

	var users []User
	result := query.
		Order("id ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&users)
	if result.Error != nil {
		return nil, nil, 0, result.Error
	}

	permissions := make(map[int64][]string, len(users))
	if len(users) > 0 {
		ids := make([]int64, 0, len(users))
		for _, u := range users {
			ids = append(ids, u.ID)
		}

		var rows []UserPermission
		if err := d.db.WithContext(ctx).Where("user_id IN ?", ids).Find(&rows).Error; err != nil {
			return nil, nil, 0, err
		}
		for _, row := range rows {
			permissions[row.UserID] = append(permissions[row.UserID], row.Value)
		}
	}

	return users, permissions, total, nil
}
