package repository

import (
	"context"
	"fmt"

	"github.com/Anthon002/NYSCAttendance/internal/domain"
	"github.com/Anthon002/NYSCAttendance/internal/repository/dao"
)

var (
	ErrLocationExists   = dao.ErrLocationExists
	ErrLocationNotFound = dao.ErrLocationNotFound
)

type LocationDAO interface {
	Insert(ctx context.Context, location dao.Location) (dao.Location, error)
	NameExists(ctx context.Context, name string) (bool, error)
	FindByID(ctx context.Context, id int64) (dao.Location, error)
	FindByToken(ctx context.Context, token string) (dao.Location, error)
	Update(ctx context.Context, location dao.Location) error
	List(ctx context.Context, search string, page, pageSize int) ([]dao.Location, int64, error)
}

type LocationRepository struct {
	dao LocationDAO
}

func NewLocationRepository(dao LocationDAO) *LocationRepository {
	return &LocationRepository{
		dao: dao,
	}
}

func (r *LocationRepository) Create(ctx context.Context, location domain.Location) (domain.Location, error) {
	created, err := r.dao.Insert(ctx, r.domainToDAO(location))
	if err != nil {
		return domain.Location{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *LocationRepository) NameExists(ctx context.Context, name string) (bool, error) {
	exists, err := r.dao.NameExists(ctx, name)
	if err != nil {
		return false, fmt.Errorf("r.dao.NameExists -> %w", err)
	}

	return exists, nil
}

func (r *LocationRepository) FindByID(ctx context.Context, id int64) (domain.Location, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Location{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *LocationRepository) FindByToken(ctx context.Context, token string) (domain.Location, error) {
	found, err := r.dao.FindByToken(ctx, token)
	if err != nil {
		return domain.Location{}, fmt.Errorf("r.dao.FindByToken -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *LocationRepository) Update(ctx context.Context, location domain.Location) error {
	if err := r.dao.Update(ctx, r.domainToDAO(location)); err != nil {
		return fmt.Errorf("r.dao.Update -> %w", err)
	}

	return nil
}

func (r *LocationRepository) List(ctx context.Context, search string, page, pageSize int) ([]domain.Location, int64, error) {
	found, total, err := r.dao.List(ctx, search, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("r.dao.List -> %w", err)
	}

	locations := make([]domain.Location, len(found))
	for i, l := range found {
		locations[i] = r.daoToDomain(l)
	}

	return locations, total, nil
}

func (r *LocationRepository) domainToDAO(l domain.Location) dao.Location {
	return dao.Location{
		ID:           l.ID,
		Name:         l.Name,
		Latitude:     l.Latitude,
		Longitude:    l.Longitude,
		RadiusMeters: l.RadiusMeters,
		Token:        l.Token,
		OpensAt:      l.OpensAt,
		ClosesAt:     l.ClosesAt,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
}

func (r *LocationRepository) daoToDomain(l dao.Location) domain.Location {
	return domain.Location{
		ID:           l.ID,
		Name:         l.Name,
		Latitude:     l.Latitude,
		Longitude:    l.Longitude,
		RadiusMeters: l.RadiusMeters,
		Token:        l.Token,
		OpensAt:      l.OpensAt,
		ClosesAt:     l.ClosesAt,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
}
