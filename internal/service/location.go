package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Anthon002/NYSCAttendance/internal/domain"
	"github.com/Anthon002/NYSCAttendance/internal/pkg/randgen"
	"github.com/Anthon002/NYSCAttendance/internal/repository"
)

var (
	ErrLocationExists  = repository.ErrLocationExists
	ErrInvalidSchedule = errors.New("invalid opening or closing time provided. Please check and try again")
)

// Defaults applied when a schedule component is absent or unparsable. An
// out-of-range component is an error, not a fallback.
const (
	defaultOpensAt  = "07:00"
	defaultClosesAt = "09:00"
)

type LocationRepository interface {
	Create(ctx context.Context, location domain.Location) (domain.Location, error)
	NameExists(ctx context.Context, name string) (bool, error)
	FindByID(ctx context.Context, id int64) (domain.Location, error)
	Update(ctx context.Context, location domain.Location) error
	List(ctx context.Context, search string, page, pageSize int) ([]domain.Location, int64, error)
}

type CreateLocationInput struct {
	Name         string
	Latitude     float64
	Longitude    float64
	RadiusMeters float64
	OpensAt      string
	ClosesAt     string
}

type UpdateLocationInput struct {
	Name         string
	Latitude     float64
	Longitude    float64
	RadiusMeters float64
}

type LocationService struct {
	repo LocationRepository

	now func() time.Time
}

func NewLocationService(repo LocationRepository) *LocationService {
	return &LocationService{
		repo: repo,
		now:  time.Now,
	}
}

// Create registers a new geofenced attendance point and mints its public
// check-in token.
func (s *LocationService) Create(ctx context.Context, perms domain.Permissions, input CreateLocationInput) (domain.Location, error) {
	if !perms.Has(domain.PermissionLocationManagement) {
		return domain.Location{}, ErrPermissionDenied
	}

	if err := validateGeometry(input.Latitude, input.Longitude); err != nil {
		return domain.Location{}, err
	}

	opensAt, err := normalizeSchedule(input.OpensAt, defaultOpensAt)
	if err != nil {
		return domain.Location{}, err
	}
	closesAt, err := normalizeSchedule(input.ClosesAt, defaultClosesAt)
	if err != nil {
		return domain.Location{}, err
	}

	exists, err := s.repo.NameExists(ctx, input.Name)
	if err != nil {
		return domain.Location{}, fmt.Errorf("s.repo.NameExists -> %w", err)
	}
	if exists {
		return domain.Location{}, ErrLocationExists
	}

	now := s.now().UTC()
	created, err := s.repo.Create(ctx, domain.Location{
		Name:         strings.TrimSpace(input.Name),
		Latitude:     input.Latitude,
		Longitude:    input.Longitude,
		RadiusMeters: input.RadiusMeters,
		Token:        randgen.LocationToken(),
		OpensAt:      opensAt,
		ClosesAt:     closesAt,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return domain.Location{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

// Update replaces a location's name and geometry.
func (s *LocationService) Update(ctx context.Context, perms domain.Permissions, id int64, input UpdateLocationInput) error {
	if !perms.Has(domain.PermissionLocationManagement) {
		return ErrPermissionDenied
	}

	if err := validateGeometry(input.Latitude, input.Longitude); err != nil {
		return err
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrLocationNotFound) {
			return ErrLocationNotFound
		}

		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	err := s.repo.Update(ctx, domain.Location{
		ID:           id,
		Name:         strings.TrimSpace(input.Name),
		Latitude:     input.Latitude,
		Longitude:    input.Longitude,
		RadiusMeters: input.RadiusMeters,
	})
	if err != nil {
		if errors.Is(err, repository.ErrLocationExists) {
			return ErrLocationExists
		}

		return fmt.Errorf("s.repo.Update -> %w", err)
	}

	return nil
}

func (s *LocationService) Get(ctx context.Context, id int64) (domain.Location, error) {
	location, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrLocationNotFound) {
			return domain.Location{}, ErrLocationNotFound
		}

		return domain.Location{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return location, nil
}

func (s *LocationService) List(ctx context.Context, search string, page, pageSize int) ([]domain.Location, int64, error) {
	locations, total, err := s.repo.List(ctx, search, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("s.repo.List -> %w", err)
	}

	return locations, total, nil
}

func validateGeometry(latitude, longitude float64) error {
	if latitude < -90 || latitude > 90 {
		return ErrInvalidLatitude
	}
	if longitude < -180 || longitude > 180 {
		return ErrInvalidLongitude
	}

	return nil
}

// normalizeSchedule parses an HH:MM time-of-day string. An unparsable
// component falls back to the matching component of fallback; a parsed but
// out-of-range component (hour outside 0-23, minute outside 0-59) is
// rejected.
func normalizeSchedule(value, fallback string) (string, error) {
	parts := strings.SplitN(value, ":", 2)
	fallbackParts := strings.SplitN(fallback, ":", 2)

	hourText := parts[0]
	minuteText := ""
	if len(parts) == 2 {
		minuteText = parts[1]
	}

	hour, err := strconv.Atoi(strings.TrimSpace(hourText))
	if err != nil {
		hour, _ = strconv.Atoi(fallbackParts[0])
	} else if hour < 0 || hour > 23 {
		return "", ErrInvalidSchedule
	}

	minute, err := strconv.Atoi(strings.TrimSpace(minuteText))
	if err != nil {
		minute, _ = strconv.Atoi(fallbackParts[1])
	} else if minute < 0 || minute > 59 {
		return "", ErrInvalidSchedule
	}

	return fmt.Sprintf("%02d:%02d", hour, minute), nil
}
