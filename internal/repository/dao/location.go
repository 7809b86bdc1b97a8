package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

var (
	ErrLocationExists   = errors.New("a location under this name has already been created")
	ErrLocationNotFound = errors.New("location not found")
)

type Location struct {
	ID int64 `gorm:"primaryKey"`

	Name         string  `gorm:"size:100;not null"`
	Latitude     float64 `gorm:"not null"`
	Longitude    float64 `gorm:"not null"`
	RadiusMeters float64 `gorm:"not null"`
	Token        string  `gorm:"size:30;not null;index"`
	OpensAt      string  `gorm:"size:5;not null"`
	ClosesAt     string  `gorm:"size:5;not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type LocationDAO struct {
	db *gorm.DB
}

func NewLocationDAO(db *gorm.DB) *LocationDAO {
	return &LocationDAO{
		db: db,
	}
}

func (d *LocationDAO) Insert(ctx context.Context, location Location) (Location, error) {
	result := d.db.WithContext(ctx).Create(&location)
	if result.Error != nil {
		if isUniqueViolation(result.Error, "uni_locations_name_lower") {
			return Location{}, ErrLocationExists
		}

		return Location{}, result.Error
	}

	return location, nil
}

func (d *LocationDAO) NameExists(ctx context.Context, name string) (bool, error) {
	var count int64

	result := d.db.WithContext(ctx).
		Model(&Location{}).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).
		Count(&count)
	if result.Error != nil {
		return false, result.Error
	}

	return count > 0, nil
}

func (d *LocationDAO) FindByID(ctx context.Context, id int64) (Location, error) {
	var location Location

	result := d.db.WithContext(ctx).First(&location, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Location{}, ErrLocationNotFound
		}

		return Location{}, result.Error
	}

	return location, nil
}

func (d *LocationDAO) FindByToken(ctx context.Context, token string) (Location, error) {
	var location Location

	result := d.db.WithContext(ctx).First(&location, "token = ?", strings.TrimSpace(token))
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Location{}, ErrLocationNotFound
		}

		return Location{}, result.Error
	}

	return location, nil
}

// Update replaces a location's name and geometry. Schedule fields are fixed at
// creation time.
func (d *LocationDAO) Update(ctx context.Context, location Location) error {
	result := d.db.WithContext(ctx).
		Model(&Location{}).
		Where("id = ?", location.ID).
		Updates(map[string]interface{}{
			"name":          location.Name,
			"latitude":      location.Latitude,
			"longitude":     location.Longitude,
			"radius_meters": location.RadiusMeters,
			"updated_at":    time.Now().UTC(),
		})
	if result.Error != nil {
		if isUniqueViolation(result.Error, "uni_locations_name_lower") {
			return ErrLocationExists
		}

		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrLocationNotFound
	}

	return nil
}

func (d *LocationDAO) List(ctx context.Context, search string, page, pageSize int) ([]Location, int64, error) {
	query := d.db.WithContext(ctx).Model(&Location{})

	if search = strings.ToLower(strings.TrimSpace(search)); search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var locations []Location
	result := query.
		Order("name ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&locations)
	if result.Error != nil {
		return nil, 0, result.Error
	}

	return locations, total, nil
}
