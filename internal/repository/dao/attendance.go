package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

var ErrAttendanceNotFound = errors.New("attendance record not found")

type Attendance struct {
	ID int64 `gorm:"primaryKey"`

	Identifier   string `gorm:"size:25"`
	FirstName    string `gorm:"size:100"`
	LastName     string `gorm:"size:100"`
	MiddleName   string `gorm:"size:100"`
	StateCode    string `gorm:"size:20"`
	Batch        int    `gorm:"not null"`
	CDS          int    `gorm:"not null;column:cds"`
	SerialNumber int64  `gorm:"not null"`
	LocationID   int64  `gorm:"not null;index"`
	Day          int    `gorm:"not null"`
	IsReserve    bool   `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"not null;index"`
	UpdatedAt time.Time `gorm:"not null"`
}

// SerialCounter holds the next badge number per (location, UTC day). Rows are
// only ever touched through the atomic upsert in nextSerial.
type SerialCounter struct {
	LocationID int64     `gorm:"primaryKey;autoIncrement:false"`
	Day        time.Time `gorm:"primaryKey;type:date"`
	Serial     int64     `gorm:"not null"`
}

// AttendanceFilter mirrors the listing/export query surface. Zero or nil
// fields are skipped; set fields compose with AND.
type AttendanceFilter struct {
	From      *time.Time
	To        *time.Time
	Batch     *int
	CDS       *int
	DayOfWeek *int
	Search    string
}

type AttendanceDAO struct {
	db *gorm.DB
}

func NewAttendanceDAO(db *gorm.DB) *AttendanceDAO {
	return &AttendanceDAO{
		db: db,
	}
}

func (d *AttendanceDAO) FindByIdentifier(ctx context.Context, identifier string) (Attendance, error) {
	var attendance Attendance

	result := d.db.WithContext(ctx).First(&attendance, "identifier = ?", strings.TrimSpace(identifier))
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Attendance{}, ErrAttendanceNotFound
		}

		return Attendance{}, result.Error
	}

	return attendance, nil
}

// nextSerial increments and returns the badge counter for (locationID, day) in
// a single statement, so two concurrent check-ins can never observe the same
// value.
func nextSerial(tx *gorm.DB, locationID int64, day time.Time) (int64, error) {
	var serial int64

	result := tx.Raw(`
		INSERT INTO serial_counters (location_id, day, serial) VALUES (?, ?, 1)
		ON CONFLICT (location_id, day) DO UPDATE SET serial = serial_counters.serial + 1
		RETURNING serial`,
		locationID, day.UTC().Truncate(24*time.Hour),
	).Scan(&serial)
	if result.Error != nil {
		return 0, result.Error
	}

	return serial, nil
}

// InsertWithSerial assigns the next per-location, per-day serial number and
// persists the record inside one transaction. When a concurrent request
// already claimed the identifier, the winner's record is returned with
// alreadyRecorded set instead of an error.
func (d *AttendanceDAO) InsertWithSerial(ctx context.Context, attendance Attendance) (saved Attendance, alreadyRecorded bool, err error) {
	err = d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		serial, serialErr := nextSerial(tx, attendance.LocationID, attendance.CreatedAt)
		if serialErr != nil {
			return serialErr
		}
		attendance.SerialNumber = serial

		if insertErr := tx.Create(&attendance).Error; insertErr != nil {
			return insertErr
		}
		saved = attendance

		return nil
	})
	if err != nil {
		if isUniqueViolation(err, "uni_attendances_identifier") {
			existing, findErr := d.FindByIdentifier(ctx, attendance.Identifier)
			if findErr != nil {
				return Attendance{}, false, findErr
			}

			return existing, true, nil
		}

		return Attendance{}, false, err
	}

	return saved, false, nil
}

func (d *AttendanceDAO) filtered(ctx context.Context, locationID int64, filter AttendanceFilter) *gorm.DB {
	query := d.db.WithContext(ctx).Model(&Attendance{}).Where("location_id = ?", locationID)

	if filter.From != nil {
		query = query.Where("created_at >= ?", startOfDayUTC(*filter.From))
	}
	if filter.To != nil {
		query = query.Where("created_at < ?", startOfDayUTC(*filter.To).AddDate(0, 0, 1))
	}
	if filter.Batch != nil {
		query = query.Where("batch = ?", *filter.Batch)
	}
	if filter.CDS != nil {
		query = query.Where("cds = ?", *filter.CDS)
	}
	if filter.DayOfWeek != nil {
		query = query.Where("day = ?", *filter.DayOfWeek)
	}
	if search := strings.ToLower(strings.TrimSpace(filter.Search)); search != "" {
		pattern := "%" + search + "%"
		query = query.Where(
			"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(middle_name) LIKE ? OR LOWER(state_code) LIKE ? OR identifier LIKE ?",
			pattern, pattern, pattern, pattern, pattern,
		)
	}

	return query
}

func (d *AttendanceDAO) List(ctx context.Context, locationID int64, filter AttendanceFilter, page, pageSize int) ([]Attendance, int64, error) {
	query := d.filtered(ctx, locationID, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []Attendance
	result := query.
		Order("id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&records)
	if result.Error != nil {
		return nil, 0, result.Error
	}

	return records, total, nil
}

// ListAll returns every matching record without pagination, for export.
func (d *AttendanceDAO) ListAll(ctx context.Context, locationID int64, filter AttendanceFilter) ([]Attendance, error) {
	var records []Attendance

	result := d.filtered(ctx, locationID, filter).Order("id DESC").Find(&records)
	if result.Error != nil {
		return nil, result.Error
	}

	return records, nil
}

func startOfDayUTC(t time.Time) time.Time {
	t = t.UTC()

	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
