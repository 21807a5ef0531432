package sandbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutorhub/internal/models"
	appErrors "github.com/noah-isme/tutorhub/pkg/errors"
)

func TestDirectoryProfiles(t *testing.T) {
	store := newSeededStore(t)
	svc := NewDirectoryService(store, store, nil, nil)

	student, err := svc.Student(bg, 3)
	require.NoError(t, err)
	assert.Equal(t, "Mila Petrović", student.FullName)

	teacher, err := svc.Teacher(bg, 8)
	require.NoError(t, err)
	assert.Equal(t, "Boris Marković", teacher.FullName)

	_, err = svc.Teacher(bg, 3)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrNotFound.Code))

	_, err = svc.Student(bg, -1)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation.Code))
}

func TestDirectoryFilterSessions(t *testing.T) {
	store := newSeededStore(t)
	svc := NewDirectoryService(store, store, nil, nil)

	resp, err := svc.FilterSessions(bg, models.SessionFilterRequest{Date: "2024-05-10T00:00:00Z"})
	require.NoError(t, err)
	require.Len(t, resp.Original.Data, 2)
	assert.Equal(t, int64(42), resp.Original.Data[0].ID)

	empty, err := svc.FilterSessions(bg, models.SessionFilterRequest{Date: "2030-01-01"})
	require.NoError(t, err)
	assert.NotNil(t, empty.Original.Data)

	_, err = svc.FilterSessions(bg, models.SessionFilterRequest{Date: "10.05.2024"})
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation.Code))
}
