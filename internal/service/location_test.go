package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Anthon002/NYSCAttendance/internal/domain"
	"github.com/Anthon002/NYSCAttendance/internal/repository"
)

type fakeLocationRepo struct {
	locations []domain.Location
	nextID    int64
	updated   *domain.Location
	updateErr error
}

func (f *fakeLocationRepo) Create(_ context.Context, location domain.Location) (domain.Location, error) {
	f.nextID++
	location.ID = f.nextID
	f.locations = append(f.locations, location)

	return location, nil
}

func (f *fakeLocationRepo) NameExists(_ context.Context, name string) (bool, error) {
	for _, l := range f.locations {
		if strings.EqualFold(l.Name, strings.TrimSpace(name)) {
			return true, nil
		}
	}

	return false, nil
}

func (f *fakeLocationRepo) FindByID(_ context.Context, id int64) (domain.Location, error) {
	for _, l := range f.locations {
		if l.ID == id {
			return l, nil
		}
	}

	return domain.Location{}, repository.ErrLocationNotFound
}

func (f *fakeLocationRepo) Update(_ context.Context, location domain.Location) error {
	if f.updateErr != nil {
		return f.updateErr
	}

	f.updated = &location

	return nil
}

func (f *fakeLocationRepo) List(_ context.Context, _ string, _, _ int) ([]domain.Location, int64, error) {
	return f.locations, int64(len(f.locations)), nil
}

var locationManagerPerms = domain.Permissions{domain.PermissionLocationManagement}

func validCreateLocation() CreateLocationInput {
	return CreateLocationInput{
		Name:         "Central Hall",
		Latitude:     6.5244,
		Longitude:    3.3792,
		RadiusMeters: 200,
		OpensAt:      "06:30",
		ClosesAt:     "10:00",
	}
}

func TestLocationService_Create(t *testing.T) {
	repo := &fakeLocationRepo{}
	svc := NewLocationService(repo)

	created, err := svc.Create(context.Background(), locationManagerPerms, validCreateLocation())
	require.NoError(t, err)

	assert.Equal(t, "Central Hall", created.Name)
	assert.Len(t, created.Token, 10)
	assert.Equal(t, "06:30", created.OpensAt)
	assert.Equal(t, "10:00", created.ClosesAt)
}

func TestLocationService_Create_RequiresPermission(t *testing.T) {
	svc := NewLocationService(&fakeLocationRepo{})

	_, err := svc.Create(context.Background(), domain.Permissions{domain.PermissionTeamManagement}, validCreateLocation())

	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestLocationService_Create_DuplicateName(t *testing.T) {
	repo := &fakeLocationRepo{}
	svc := NewLocationService(repo)

	_, err := svc.Create(context.Background(), locationManagerPerms, validCreateLocation())
	require.NoError(t, err)

	input := validCreateLocation()
	input.Name = "central hall"

	_, err = svc.Create(context.Background(), locationManagerPerms, input)
	assert.ErrorIs(t, err, ErrLocationExists)
}

func TestLocationService_Create_Schedule(t *testing.T) {
	tests := []struct {
		name string

		opensAt  string
		closesAt string

		wantOpensAt  string
		wantClosesAt string
		wantErr      error
	}{
		{
			name:         "well formed times pass through",
			opensAt:      "08:15",
			closesAt:     "11:45",
			wantOpensAt:  "08:15",
			wantClosesAt: "11:45",
		},
		{
			name:         "empty times fall back to the defaults",
			opensAt:      "",
			closesAt:     "",
			wantOpensAt:  "07:00",
			wantClosesAt: "09:00",
		},
		{
			name:         "unparsable components fall back per component",
			opensAt:      "abc:30",
			closesAt:     "10:xyz",
			wantOpensAt:  "07:30",
			wantClosesAt: "10:00",
		},
		{
			name:         "single digit components are zero padded",
			opensAt:      "7:5",
			closesAt:     "9:0",
			wantOpensAt:  "07:05",
			wantClosesAt: "09:00",
		},
		{
			name:     "hour out of range is rejected",
			opensAt:  "24:00",
			closesAt: "09:00",
			wantErr:  ErrInvalidSchedule,
		},
		{
			name:     "minute out of range is rejected",
			opensAt:  "07:00",
			closesAt: "09:60",
			wantErr:  ErrInvalidSchedule,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewLocationService(&fakeLocationRepo{})

			input := validCreateLocation()
			input.OpensAt = tt.opensAt
			input.ClosesAt = tt.closesAt

			created, err := svc.Create(context.Background(), locationManagerPerms, input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantOpensAt, created.OpensAt)
			assert.Equal(t, tt.wantClosesAt, created.ClosesAt)
		})
	}
}

func TestLocationService_Create_InvalidGeometry(t *testing.T) {
	svc := NewLocationService(&fakeLocationRepo{})

	input := validCreateLocation()
	input.Latitude = 90.5

	_, err := svc.Create(context.Background(), locationManagerPerms, input)
	assert.ErrorIs(t, err, ErrInvalidLatitude)

	input = validCreateLocation()
	input.Longitude = 180.5

	_, err = svc.Create(context.Background(), locationManagerPerms, input)
	assert.ErrorIs(t, err, ErrInvalidLongitude)
}

func TestLocationService_Update(t *testing.T) {
	repo := &fakeLocationRepo{}
	svc := NewLocationService(repo)

	created, err := svc.Create(context.Background(), locationManagerPerms, validCreateLocation())
	require.NoError(t, err)

	err = svc.Update(context.Background(), locationManagerPerms, created.ID, UpdateLocationInput{
		Name:         "Annex Hall",
		Latitude:     6.6,
		Longitude:    3.4,
		RadiusMeters: 150,
	})
	require.NoError(t, err)

	require.NotNil(t, repo.updated)
	assert.Equal(t, "Annex Hall", repo.updated.Name)
	assert.Equal(t, 150.0, repo.updated.RadiusMeters)
}

func TestLocationService_Update_RenameCollision(t *testing.T) {
	repo := &fakeLocationRepo{}
	svc := NewLocationService(repo)

	created, err := svc.Create(context.Background(), locationManagerPerms, validCreateLocation())
	require.NoError(t, err)

	repo.updateErr = repository.ErrLocationExists

	err = svc.Update(context.Background(), locationManagerPerms, created.ID, UpdateLocationInput{
		Name:         "Annex Hall",
		Latitude:     6.6,
		Longitude:    3.4,
		RadiusMeters: 150,
	})

	assert.ErrorIs(t, err, ErrLocationExists)
}

func TestLocationService_Update_NotFound(t *testing.T) {
	svc := NewLocationService(&fakeLocationRepo{})

	err := svc.Update(context.Background(), locationManagerPerms, 99, UpdateLocationInput{
		Name:         "Annex Hall",
		Latitude:     6.6,
		Longitude:    3.4,
		RadiusMeters: 150,
	})

	assert.ErrorIs(t, err, ErrLocationNotFound)
}

func TestLocationService_Get_NotFound(t *testing.T) {
	svc := NewLocationService(&fakeLocationRepo{})

	_, err := svc.Get(context.Background(), 42)

	assert.ErrorIs(t, err, ErrLocationNotFound)
}
