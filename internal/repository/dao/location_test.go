package dao

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLocation(name, token string) Location {
	now := time.Now().UTC()

	return Location{
		Name:         name,
		Latitude:     6.5244,
		Longitude:    3.3792,
		RadiusMeters: 200,
		Token:        token,
		OpensAt:      "07:00",
		ClosesAt:     "09:00",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestLocationDAO_Insert_DuplicateNameRejected(t *testing.T) {
	d := NewLocationDAO(newTestDB(t))

	_, err := d.Insert(context.Background(), testLocation("Central Hall", "tok-one"))
	require.NoError(t, err)

	// Names are compared lowercased, so a casing change alone still
	// collides.
	_, err = d.Insert(context.Background(), testLocation("central hall", "tok-two"))
	assert.Error(t, err)
}

func TestLocationDAO_Update_RenameCollisionRejected(t *testing.T) {
	d := NewLocationDAO(newTestDB(t))

	_, err := d.Insert(context.Background(), testLocation("Central Hall", "tok-one"))
	require.NoError(t, err)
	annex, err := d.Insert(context.Background(), testLocation("Annex Hall", "tok-two"))
	require.NoError(t, err)

	annex.Name = "CENTRAL HALL"
	assert.Error(t, d.Update(context.Background(), annex))

	// The rejected rename leaves the row untouched.
	kept, err := d.FindByID(context.Background(), annex.ID)
	require.NoError(t, err)
	assert.Equal(t, "Annex Hall", kept.Name)
}

func TestLocationDAO_Update(t *testing.T) {
	d := NewLocationDAO(newTestDB(t))

	created, err := d.Insert(context.Background(), testLocation("Central Hall", "tok-one"))
	require.NoError(t, err)

	created.Name = "Main Hall"
	created.RadiusMeters = 150
	require.NoError(t, d.Update(context.Background(), created))

	updated, err := d.FindByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Main Hall", updated.Name)
	assert.Equal(t, 150.0, updated.RadiusMeters)

	// Schedule fields stay as created.
	assert.Equal(t, "07:00", updated.OpensAt)
	assert.Equal(t, "09:00", updated.ClosesAt)

	assert.ErrorIs(t, d.Update(context.Background(), Location{ID: 9999, Name: "Ghost"}), ErrLocationNotFound)
}

func TestLocationDAO_FindByToken(t *testing.T) {
	d := NewLocationDAO(newTestDB(t))

	created, err := d.Insert(context.Background(), testLocation("Central Hall", "tok-one"))
	require.NoError(t, err)

	found, err := d.FindByToken(context.Background(), " tok-one ")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = d.FindByToken(context.Background(), "tok-missing")
	assert.ErrorIs(t, err, ErrLocationNotFound)
}
