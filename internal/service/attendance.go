package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Anthon002/NYSCAttendance/internal/domain"
	"github.com/Anthon002/NYSCAttendance/internal/pkg/geo"
	"github.com/Anthon002/NYSCAttendance/internal/repository"
)

var (
	ErrLocationNotFound   = repository.ErrLocationNotFound
	ErrAttendanceNotFound = errors.New("your attendance has not been recorded. Please log your attendance to continue")
	ErrPermissionDenied   = errors.New("you are not authorized to perform this action")

	ErrInvalidLatitude   = errors.New("invalid latitude. Latitude must be between -90 and 90")
	ErrInvalidLongitude  = errors.New("invalid longitude. Longitude must be between -180 and 180")
	ErrNameTooLong       = errors.New("name has exceeded our character limit")
	ErrIdentifierTooLong = errors.New("identifier has exceeded our character limit")
	ErrStateCodeTooLong  = errors.New("state code has exceeded our character limit")
	ErrInvalidBatch      = errors.New("an invalid batch was provided")
	ErrInvalidCDS        = errors.New("an invalid CDS group was provided")
)

// TooFarError rejects a check-in outside the location's geofence, carrying the
// computed distance for the user-facing message.
type TooFarError struct {
	DistanceMeters float64
	LocationName   string
}

func (e *TooFarError) Error() string {
	return fmt.Sprintf("you are too far from the designated spot (%.2fm). Please get closer to %s and try again", e.DistanceMeters, e.LocationName)
}

type AttendanceRepository interface {
	FindByIdentifier(ctx context.Context, identifier string) (domain.Attendance, error)
	Create(ctx context.Context, attendance domain.Attendance) (domain.Attendance, bool, error)
	List(ctx context.Context, locationID int64, filter domain.AttendanceFilter, page, pageSize int) ([]domain.Attendance, int64, error)
	ListAll(ctx context.Context, locationID int64, filter domain.AttendanceFilter) ([]domain.Attendance, error)
}

type AttendanceLocationRepository interface {
	FindByID(ctx context.Context, id int64) (domain.Location, error)
	FindByToken(ctx context.Context, token string) (domain.Location, error)
}

// Exporter renders attendance rows into a downloadable blob. The rendering
// format lives outside this service.
type Exporter interface {
	Render(records []domain.Attendance) ([]byte, error)
}

type CheckInInput struct {
	Identifier string
	FirstName  string
	LastName   string
	MiddleName string
	StateCode  string
	Batch      domain.Batch
	CDS        domain.CDS
	Latitude   float64
	Longitude  float64
}

type ReserveSpotInput struct {
	FirstName  string
	LastName   string
	MiddleName string
	StateCode  string
	Batch      domain.Batch
	CDS        domain.CDS
}

type AttendanceService struct {
	repo     AttendanceRepository
	locRepo  AttendanceLocationRepository
	exporter Exporter

	now func() time.Time
}

func NewAttendanceService(repo AttendanceRepository, locRepo AttendanceLocationRepository, exporter Exporter) *AttendanceService {
	return &AttendanceService{
		repo:     repo,
		locRepo:  locRepo,
		exporter: exporter,
		now:      time.Now,
	}
}

// CheckIn records attendance for a corps member standing inside the
// geofence of the location the token resolves to. Resubmitting an identifier
// that was already recorded is a no-op returning the stored serial number.
func (s *AttendanceService) CheckIn(ctx context.Context, token string, input CheckInInput) (domain.Attendance, error) {
	if err := validateCheckInInput(input); err != nil {
		return domain.Attendance{}, err
	}

	identifier := strings.TrimSpace(input.Identifier)

	existing, err := s.repo.FindByIdentifier(ctx, identifier)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrAttendanceNotFound) {
		return domain.Attendance{}, fmt.Errorf("s.repo.FindByIdentifier -> %w", err)
	}

	location, err := s.locRepo.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrLocationNotFound) {
			return domain.Attendance{}, ErrLocationNotFound
		}

		return domain.Attendance{}, fmt.Errorf("s.locRepo.FindByToken -> %w", err)
	}

	distance := geo.DistanceMeters(input.Latitude, input.Longitude, location.Latitude, location.Longitude)
	if distance > location.RadiusMeters {
		return domain.Attendance{}, &TooFarError{
			DistanceMeters: distance,
			LocationName:   location.Name,
		}
	}

	now := s.now().UTC()
	saved, _, err := s.repo.Create(ctx, domain.Attendance{
		Identifier: identifier,
		FirstName:  input.FirstName,
		LastName:   input.LastName,
		MiddleName: input.MiddleName,
		StateCode:  input.StateCode,
		Batch:      input.Batch,
		CDS:        input.CDS,
		LocationID: location.ID,
		Day:        int(now.Weekday()),
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		return domain.Attendance{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return saved, nil
}

// GetRecord returns today's serial number for an identifier. Records from
// previous days do not count as present today.
func (s *AttendanceService) GetRecord(ctx context.Context, identifier string) (domain.Attendance, error) {
	attendance, err := s.repo.FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, repository.ErrAttendanceNotFound) {
			return domain.Attendance{}, ErrAttendanceNotFound
		}

		return domain.Attendance{}, fmt.Errorf("s.repo.FindByIdentifier -> %w", err)
	}

	recorded := attendance.CreatedAt.UTC()
	today := s.now().UTC()
	if recorded.Year() != today.Year() || recorded.YearDay() != today.YearDay() {
		return domain.Attendance{}, ErrAttendanceNotFound
	}

	return attendance, nil
}

// ReserveSpot pre-books a badge number without location proof. The record is
// tagged reserved and carries no idempotency key.
func (s *AttendanceService) ReserveSpot(ctx context.Context, perms domain.Permissions, locationID int64, input ReserveSpotInput) (domain.Attendance, error) {
	if !perms.Has(domain.PermissionLocationManagement) {
		return domain.Attendance{}, ErrPermissionDenied
	}

	if err := validateNames(input.FirstName, input.LastName, input.MiddleName, input.StateCode); err != nil {
		return domain.Attendance{}, err
	}
	if !input.Batch.Valid() {
		return domain.Attendance{}, ErrInvalidBatch
	}
	if !input.CDS.Valid() {
		return domain.Attendance{}, ErrInvalidCDS
	}

	if _, err := s.locRepo.FindByID(ctx, locationID); err != nil {
		if errors.Is(err, repository.ErrLocationNotFound) {
			return domain.Attendance{}, ErrLocationNotFound
		}

		return domain.Attendance{}, fmt.Errorf("s.locRepo.FindByID -> %w", err)
	}

	now := s.now().UTC()
	saved, _, err := s.repo.Create(ctx, domain.Attendance{
		FirstName:  input.FirstName,
		LastName:   input.LastName,
		MiddleName: input.MiddleName,
		StateCode:  input.StateCode,
		Batch:      input.Batch,
		CDS:        input.CDS,
		LocationID: locationID,
		Day:        int(now.Weekday()),
		IsReserve:  true,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		return domain.Attendance{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return saved, nil
}

func (s *AttendanceService) List(ctx context.Context, locationID int64, filter domain.AttendanceFilter, page, pageSize int) ([]domain.Attendance, int64, error) {
	if _, err := s.locRepo.FindByID(ctx, locationID); err != nil {
		if errors.Is(err, repository.ErrLocationNotFound) {
			return nil, 0, ErrLocationNotFound
		}

		return nil, 0, fmt.Errorf("s.locRepo.FindByID -> %w", err)
	}

	records, total, err := s.repo.List(ctx, locationID, filter, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("s.repo.List -> %w", err)
	}

	return records, total, nil
}

// Export renders every record matching the filter through the configured
// exporter.
func (s *AttendanceService) Export(ctx context.Context, locationID int64, filter domain.AttendanceFilter) ([]byte, error) {
	if _, err := s.locRepo.FindByID(ctx, locationID); err != nil {
		if errors.Is(err, repository.ErrLocationNotFound) {
			return nil, ErrLocationNotFound
		}

		return nil, fmt.Errorf("s.locRepo.FindByID -> %w", err)
	}

	records, err := s.repo.ListAll(ctx, locationID, filter)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListAll -> %w", err)
	}

	blob, err := s.exporter.Render(records)
	if err != nil {
		return nil, fmt.Errorf("s.exporter.Render -> %w", err)
	}

	return blob, nil
}

func validateCheckInInput(input CheckInInput) error {
	if input.Latitude < -90 || input.Latitude > 90 {
		return ErrInvalidLatitude
	}
	if input.Longitude < -180 || input.Longitude > 180 {
		return ErrInvalidLongitude
	}
	if len(strings.TrimSpace(input.Identifier)) > 25 {
		return ErrIdentifierTooLong
	}
	if err := validateNames(input.FirstName, input.LastName, input.MiddleName, input.StateCode); err != nil {
		return err
	}
	if !input.Batch.Valid() {
		return ErrInvalidBatch
	}
	if !input.CDS.Valid() {
		return ErrInvalidCDS
	}

	return nil
}

func validateNames(firstName, lastName, middleName, stateCode string) error {
	if len(firstName) > 100 || len(lastName) > 100 || len(middleName) > 100 {
		return ErrNameTooLong
	}
	if len(stateCode) > 20 {
		return ErrStateCodeTooLong
	}

	return nil
}
