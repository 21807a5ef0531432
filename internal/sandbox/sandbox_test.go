package sandbox

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutorhub/internal/repository"
	"github.com/noah-isme/tutorhub/pkg/clock"
)

// seededAt is 09:00 in Belgrade on 2024-05-10.
var seededAt = time.Date(2024, 5, 10, 7, 0, 0, 0, time.UTC)

func belgrade(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Belgrade")
	require.NoError(t, err)
	return loc
}

func newSeededStore(t *testing.T) *repository.MemoryStore {
	t.Helper()
	store := repository.NewMemoryStore()
	require.NoError(t, repository.SeedDemo(store, seededAt))
	return store
}

type recordingObserver struct {
	operations []string
}

func (r *recordingObserver) ObserveDBQuery(operation string, duration time.Duration) {
	r.operations = append(r.operations, operation)
}

func newFakeClock() *clock.Fake {
	return clock.NewFake(seededAt)
}

var bg = context.Background()
