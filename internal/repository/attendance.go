package repository

import (
	"context"
	"fmt"

	"github.com/Anthon002/NYSCAttendance/internal/domain"
	"github.com/Anthon002/NYSCAttendance/internal/repository/dao"
)

var ErrAttendanceNotFound = dao.ErrAttendanceNotFound

type AttendanceDAO interface {
	FindByIdentifier(ctx context.Context, identifier string) (dao.Attendance, error)
	InsertWithSerial(ctx context.Context, attendance dao.Attendance) (dao.Attendance, bool, error)
	List(ctx context.Context, locationID int64, filter dao.AttendanceFilter, page, pageSize int) ([]dao.Attendance, int64, error)
	ListAll(ctx context.Context, locationID int64, filter dao.AttendanceFilter) ([]dao.Attendance, error)
}

type AttendanceRepository struct {
	dao AttendanceDAO
}

func NewAttendanceRepository(dao AttendanceDAO) *AttendanceRepository {
	return &AttendanceRepository{
		dao: dao,
	}
}

func (r *AttendanceRepository) FindByIdentifier(ctx context.Context, identifier string) (domain.Attendance, error) {
	found, err := r.dao.FindByIdentifier(ctx, identifier)
	if err != nil {
		return domain.Attendance{}, fmt.Errorf("r.dao.FindByIdentifier -> %w", err)
	}

	return r.daoToDomain(found), nil
}

// Create persists the record with a freshly allocated serial number. The
// returned flag reports whether a concurrent request with the same identifier
// won the race, in which case the existing record is returned.
func (r *AttendanceRepository) Create(ctx context.Context, attendance domain.Attendance) (domain.Attendance, bool, error) {
	saved, alreadyRecorded, err := r.dao.InsertWithSerial(ctx, r.domainToDAO(attendance))
	if err != nil {
		return domain.Attendance{}, false, fmt.Errorf("r.dao.InsertWithSerial -> %w", err)
	}

	return r.daoToDomain(saved), alreadyRecorded, nil
}

func (r *AttendanceRepository) List(ctx context.Context, locationID int64, filter domain.AttendanceFilter, page, pageSize int) ([]domain.Attendance, int64, error) {
	found, total, err := r.dao.List(ctx, locationID, r.filterToDAO(filter), page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("r.dao.List -> %w", err)
	}

	return r.daosToDomain(found), total, nil
}

func (r *AttendanceRepository) ListAll(ctx context.Context, locationID int64, filter domain.AttendanceFilter) ([]domain.Attendance, error) {
	found, err := r.dao.ListAll(ctx, locationID, r.filterToDAO(filter))
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListAll -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *AttendanceRepository) filterToDAO(f domain.AttendanceFilter) dao.AttendanceFilter {
	filter := dao.AttendanceFilter{
		From:      f.From,
		To:        f.To,
		DayOfWeek: f.DayOfWeek,
		Search:    f.Search,
	}
	if f.Batch != nil {
		batch := int(*f.Batch)
		filter.Batch = &batch
	}
	if f.CDS != nil {
		cds := int(*f.CDS)
		filter.CDS = &cds
	}

	return filter
}

func (r *AttendanceRepository) domainToDAO(a domain.Attendance) dao.Attendance {
	return dao.Attendance{
		ID:           a.ID,
		Identifier:   a.Identifier,
		FirstName:    a.FirstName,
		LastName:     a.LastName,
		MiddleName:   a.MiddleName,
		StateCode:    a.StateCode,
		Batch:        int(a.Batch),
		CDS:          int(a.CDS),
		SerialNumber: a.SerialNumber,
		LocationID:   a.LocationID,
		Day:          a.Day,
		IsReserve:    a.IsReserve,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func (r *AttendanceRepository) daoToDomain(a dao.Attendance) domain.Attendance {
	return domain.Attendance{
		ID:           a.ID,
		Identifier:   a.Identifier,
		FirstName:    a.FirstName,
		LastName:     a.LastName,
		MiddleName:   a.MiddleName,
		StateCode:    a.StateCode,
		Batch:        domain.Batch(a.Batch),
		CDS:          domain.CDS(a.CDS),
		SerialNumber: a.SerialNumber,
		LocationID:   a.LocationID,
		Day:          a.Day,
		IsReserve:    a.IsReserve,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func (r *AttendanceRepository) daosToDomain(records []dao.Attendance) []domain.Attendance {
	attendances := make([]domain.Attendance, len(records))
	for i, a := range records {
		attendances[i] = r.daoToDomain(a)
	}

	return attendances
}
