package tokenstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutorhub/internal/models"
)

func TestFileStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store := NewFileStore(path)

	session, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, session)

	err = store.Save(ctx, &Session{
		Token:   "abc",
		User:    &models.User{ID: 1, Role: models.RoleStudent, Student: &models.ProfileRef{ID: 12}},
		Profile: &models.Profile{ID: 12, FullName: "Marko"},
	})
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	session, err = store.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "abc", session.Token)
	assert.Equal(t, int64(12), session.User.Student.ID)
	assert.False(t, session.SavedAt.IsZero())

	token, err := TokenSource{Store: store}.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	require.NoError(t, store.Clear(ctx))
	require.NoError(t, store.Clear(ctx))
	token, err = TokenSource{Store: store}.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))

	_, err := NewFileStore(path).Load(context.Background())
	assert.Error(t, err)
}

func TestMemoryStoreCopies(t *testing.T) {
	ctx := context.Background()
	var store MemoryStore
	in := &Session{Token: "one"}
	require.NoError(t, store.Save(ctx, in))
	in.Token = "mutated"

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "one", got.Token)

	require.NoError(t, store.Clear(ctx))
	got, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
}
