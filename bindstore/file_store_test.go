package bindstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/typebind-dev/typebind/handler/entities"
	"github.com/typebind-dev/typebind/handler/values"
)

func newStore(t *testing.T, opts ...FileStoreOption) *FileStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bindings.yaml")
	return NewFileStore(append([]FileStoreOption{WithPath(path)}, opts...)...)
}

func Test_FileStore_TypeRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	plain := values.MustNewTypeID("public.plain-text")

	_, err := store.DefaultForType(ctx, plain)
	assert.ErrorIs(t, err, entities.ErrNotFound)

	require.NoError(t, store.SetDefaultForType(ctx, "/Applications/TextEdit.app", plain))

	got, err := store.DefaultForType(ctx, plain)
	require.NoError(t, err)
	assert.Equal(t, "/Applications/TextEdit.app", got)

	// Identifier lookups are case-insensitive.
	got, err = store.DefaultForType(ctx, values.MustNewTypeID("Public.Plain-Text"))
	require.NoError(t, err)
	assert.Equal(t, "/Applications/TextEdit.app", got)

	// Overwrite.
	require.NoError(t, store.SetDefaultForType(ctx, "/Applications/Sublime.app", plain))
	got, err = store.DefaultForType(ctx, plain)
	require.NoError(t, err)
	assert.Equal(t, "/Applications/Sublime.app", got)
}

func Test_FileStore_SchemeRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	http := values.MustNewScheme("http")

	_, err := store.DefaultForScheme(ctx, http)
	assert.ErrorIs(t, err, entities.ErrNotFound)

	require.NoError(t, store.SetDefaultForScheme(ctx, "/Applications/Browser.app", http))

	got, err := store.DefaultForScheme(ctx, http)
	require.NoError(t, err)
	assert.Equal(t, "/Applications/Browser.app", got)

	// Type and scheme namespaces do not bleed into each other.
	_, err = store.DefaultForType(ctx, values.MustNewTypeID("http"))
	assert.ErrorIs(t, err, entities.ErrNotFound)
}

func Test_FileStore_PersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "bindings.yaml")
	plain := values.MustNewTypeID("public.plain-text")

	first := NewFileStore(WithPath(path))
	require.NoError(t, first.SetDefaultForType(ctx, "/Applications/TextEdit.app", plain))

	second := NewFileStore(WithPath(path))
	got, err := second.DefaultForType(ctx, plain)
	require.NoError(t, err)
	assert.Equal(t, "/Applications/TextEdit.app", got)
}

func Test_FileStore_WritePolicyVeto(t *testing.T) {
	ctx := context.Background()
	var vetoed []string
	store := newStore(t, WithWritePolicy(func(kind Kind, target, appPath string) bool {
		vetoed = append(vetoed, string(kind)+":"+target)
		return false
	}))
	plain := values.MustNewTypeID("public.plain-text")

	// The veto is silent: no error, no file, no binding.
	require.NoError(t, store.SetDefaultForType(ctx, "/Applications/TextEdit.app", plain))
	require.NoError(t, store.SetDefaultForScheme(ctx, "/Applications/Browser.app", values.MustNewScheme("http")))

	_, err := store.DefaultForType(ctx, plain)
	assert.ErrorIs(t, err, entities.ErrNotFound)
	_, err = os.Stat(store.Path())
	assert.True(t, os.IsNotExist(err))
	assert.Equal(t, []string{"type:public.plain-text", "scheme:http"}, vetoed)
}

func Test_FileStore_SelectiveWritePolicy(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, WithWritePolicy(func(kind Kind, target, appPath string) bool {
		return kind != KindScheme
	}))

	plain := values.MustNewTypeID("public.plain-text")
	require.NoError(t, store.SetDefaultForType(ctx, "/Applications/TextEdit.app", plain))
	require.NoError(t, store.SetDefaultForScheme(ctx, "/Applications/Browser.app", values.MustNewScheme("http")))

	got, err := store.DefaultForType(ctx, plain)
	require.NoError(t, err)
	assert.Equal(t, "/Applications/TextEdit.app", got)

	_, err = store.DefaultForScheme(ctx, values.MustNewScheme("http"))
	assert.ErrorIs(t, err, entities.ErrNotFound)
}

func Test_FileStore_CorruptFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "bindings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("types: [not a map"), 0o600))

	store := NewFileStore(WithPath(path))
	_, err := store.DefaultForType(ctx, values.MustNewTypeID("public.plain-text"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, entities.ErrNotFound)
}

func Test_FileStore_CreatesParentDirectory(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "deeper", "bindings.yaml")
	store := NewFileStore(WithPath(path))

	require.NoError(t, store.SetDefaultForType(ctx, "/Applications/TextEdit.app", values.MustNewTypeID("public.plain-text")))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func Test_FileStore_WriteLeavesNoTempFile(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	require.NoError(t, store.SetDefaultForType(ctx, "/Applications/TextEdit.app", values.MustNewTypeID("public.plain-text")))

	_, err := os.Stat(store.Path() + ".tmp")
	assert.True(t, os.IsNotExist(err))
}
