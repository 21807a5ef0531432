package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/tutorhub/internal/models"
)

func seeded(t *testing.T) *MemoryStore {
	t.Helper()
	store := NewMemoryStore()
	require.NoError(t, SeedDemo(store, time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)))
	return store
}

func TestMemoryStoreLogin(t *testing.T) {
	store := seeded(t)
	ctx := context.Background()

	acc, err := store.FindByLogin(ctx, "MILA@tutorhub.local")
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, acc.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(DemoPassword)))

	byName, err := store.FindByLogin(ctx, "ana")
	require.NoError(t, err)
	assert.Equal(t, int64(7), byName.ProfileID())

	_, err = store.FindByLogin(ctx, "nobody")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	require.NoError(t, store.MarkLoggedIn(ctx, acc.ID, time.Now()))
	again, _ := store.FindByLogin(ctx, "mila")
	assert.NotNil(t, again.LastLogin)
}

func TestMemoryStoreAttendance(t *testing.T) {
	store := seeded(t)
	ctx := context.Background()

	_, err := store.UpdateAttendanceStatus(ctx, 42, models.SubjectTeacher, 7, models.AttendancePresent)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	rec, err := store.UpdateAttendanceStatus(ctx, 42, models.SubjectStudent, 3, models.AttendancePresent)
	require.NoError(t, err)
	assert.Equal(t, models.AttendancePresent, rec.Status)

	rec, err = store.UpdateConfirmationStatus(ctx, 9, 3, models.ConfirmationConfirmed)
	require.NoError(t, err)
	assert.Equal(t, models.ConfirmationConfirmed, rec.ConfirmationStatus)

	records, err := store.ListByStudent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "2024-05-09", records[0].ClassSession.Date)
	assert.Equal(t, "Matematika", records[0].ClassSession.Course.Name)
	assert.Equal(t, "Boris Marković", records[2].ClassSession.Teacher.FullName)
}

func TestMemoryStoreSessions(t *testing.T) {
	store := seeded(t)
	ctx := context.Background()

	sessions, err := store.ListByDate(ctx, "2024-05-10")
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, int64(42), sessions[0].ID)
	assert.Equal(t, "Ana Jovanović", sessions[0].Teacher.FullName)

	roster, err := store.Roster(ctx, 42)
	require.NoError(t, err)
	require.Len(t, roster, 2)
	assert.Equal(t, "Luka Ilić", roster[0].FullName)

	date, err := store.SessionDate(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-11", date)

	_, err = store.SessionDate(ctx, 999)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
