package fs_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/userstore/pkg/adapters/fs"
	"github.com/aretw0/userstore/pkg/core"
)

// setupStore creates a store over a fresh base directory.
// It returns the store and the (canonical) base path.
func setupStore(t *testing.T, opts ...func(*fs.Config)) (*fs.Store, string) {
	t.Helper()

	cfg := fs.Config{Path: t.TempDir()}
	for _, opt := range opts {
		opt(&cfg)
	}

	store, err := fs.NewStore(cfg)
	require.NoError(t, err)
	return store, store.Base()
}

func dirEntries(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestNewStore(t *testing.T) {
	t.Run("Canonicalizes Base Path", func(t *testing.T) {
		tmp := t.TempDir()
		nested := filepath.Join(tmp, "data")
		require.NoError(t, os.Mkdir(nested, 0755))

		store, err := fs.NewStore(fs.Config{Path: filepath.Join(nested, "..", "data")})
		require.NoError(t, err)

		want, err := filepath.EvalSymlinks(nested)
		require.NoError(t, err)
		assert.Equal(t, want, store.Base())
		assert.True(t, filepath.IsAbs(store.Base()))
	})

	t.Run("Resolves Symlinks", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("symlinks need privileges on windows")
		}
		tmp := t.TempDir()
		target := filepath.Join(tmp, "target")
		link := filepath.Join(tmp, "link")
		require.NoError(t, os.Mkdir(target, 0755))
		require.NoError(t, os.Symlink(target, link))

		store, err := fs.NewStore(fs.Config{Path: link})
		require.NoError(t, err)

		want, err := filepath.EvalSymlinks(target)
		require.NoError(t, err)
		assert.Equal(t, want, store.Base())
	})

	t.Run("Fails if Missing", func(t *testing.T) {
		_, err := fs.NewStore(fs.Config{Path: filepath.Join(t.TempDir(), "missing")})
		require.Error(t, err)
		assert.False(t, core.IsReject(err), "construction failures are system faults")
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})

	t.Run("Fails on Dangling Symlink", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("symlinks need privileges on windows")
		}
		link := filepath.Join(t.TempDir(), "dangling")
		require.NoError(t, os.Symlink(filepath.Join(t.TempDir(), "gone"), link))

		_, err := fs.NewStore(fs.Config{Path: link})
		assert.Error(t, err)
	})

	t.Run("Fails if Not a Directory", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

		_, err := fs.NewStore(fs.Config{Path: file})
		require.Error(t, err)
		assert.ErrorIs(t, err, core.ErrNotDirectory)
		assert.False(t, core.IsReject(err))
	})

	t.Run("Fails on Empty Path", func(t *testing.T) {
		_, err := fs.NewStore(fs.Config{})
		assert.Error(t, err)
	})
}

func TestScenario(t *testing.T) {
	store, base := setupStore(t)
	ctx := context.Background()
	alice := core.User{Name: "Alice", Age: 30}

	require.NoError(t, store.Write(ctx, "alice", alice))

	got, err := store.Read(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice, got)

	_, err = store.Read(ctx, "bob")
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.True(t, core.IsReject(err))

	_, err = store.Read(ctx, "../alice")
	assert.ErrorIs(t, err, core.ErrInvalidEntry)

	err = store.Write(ctx, "a/b", alice)
	assert.ErrorIs(t, err, core.ErrInvalidEntry)

	assert.Equal(t, []string{"alice"}, dirEntries(t, base))
}

func TestWrite(t *testing.T) {
	t.Run("Persists Compact JSON", func(t *testing.T) {
		store, base := setupStore(t)

		require.NoError(t, store.Write(context.Background(), "alice", core.User{Name: "Alice", Age: 30}))

		content, err := os.ReadFile(filepath.Join(base, "alice"))
		require.NoError(t, err)
		assert.Equal(t, `{"name":"Alice","age":30}`, string(content))
	})

	t.Run("Overwrites Fully", func(t *testing.T) {
		store, base := setupStore(t)
		ctx := context.Background()

		require.NoError(t, store.Write(ctx, "k", core.User{Name: "a much longer name than the next one", Age: 65535}))
		require.NoError(t, store.Write(ctx, "k", core.User{Name: "b", Age: 1}))

		content, err := os.ReadFile(filepath.Join(base, "k"))
		require.NoError(t, err)
		assert.Equal(t, `{"name":"b","age":1}`, string(content))
	})

	t.Run("Is Idempotent", func(t *testing.T) {
		store, _ := setupStore(t)
		ctx := context.Background()
		u := core.User{Name: "Carol", Age: 41}

		require.NoError(t, store.Write(ctx, "carol", u))
		require.NoError(t, store.Write(ctx, "carol", u))

		got, err := store.Read(ctx, "carol")
		require.NoError(t, err)
		assert.Equal(t, u, got)
	})

	t.Run("Atomic Mode Leaves No Temp Files", func(t *testing.T) {
		store, base := setupStore(t, func(c *fs.Config) { c.Atomic = true })
		ctx := context.Background()

		require.NoError(t, store.Write(ctx, "dave", core.User{Name: "Dave", Age: 7}))
		require.NoError(t, store.Write(ctx, "dave", core.User{Name: "Dave", Age: 8}))

		assert.Equal(t, []string{"dave"}, dirEntries(t, base))
		got, err := store.Read(ctx, "dave")
		require.NoError(t, err)
		assert.Equal(t, uint16(8), got.Age)
	})

	t.Run("Honors File Mode", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("unix permissions")
		}
		store, base := setupStore(t, func(c *fs.Config) { c.FileMode = 0600; c.Atomic = true })
		require.NoError(t, store.Write(context.Background(), "secret", core.User{Name: "S"}))

		info, err := os.Stat(filepath.Join(base, "secret"))
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	})

	t.Run("Invalid UTF-8 Name is a System Fault", func(t *testing.T) {
		store, base := setupStore(t)

		err := store.Write(context.Background(), "k", core.User{Name: "a\xffb", Age: 1})
		require.Error(t, err)
		assert.False(t, core.IsReject(err))
		assert.Contains(t, err.Error(), "failed to serialize")
		assert.Empty(t, dirEntries(t, base))
	})

	t.Run("Directory at Target is a System Fault", func(t *testing.T) {
		store, base := setupStore(t)
		require.NoError(t, os.Mkdir(filepath.Join(base, "taken"), 0755))

		err := store.Write(context.Background(), "taken", core.User{Name: "x"})
		require.Error(t, err)
		assert.False(t, core.IsReject(err))
	})
}

func TestInvalidEntriesTouchNothing(t *testing.T) {
	tmp := t.TempDir()
	baseDir := filepath.Join(tmp, "base")
	require.NoError(t, os.Mkdir(baseDir, 0755))

	store, err := fs.NewStore(fs.Config{Path: baseDir})
	require.NoError(t, err)
	ctx := context.Background()

	for _, raw := range []string{"../escaped", "/etc/passwd", "", ".", "..", "a/b", "nested/"} {
		err := store.Write(ctx, raw, core.User{Name: "evil"})
		assert.ErrorIs(t, err, core.ErrInvalidEntry, "write %q", raw)

		_, err = store.Read(ctx, raw)
		assert.ErrorIs(t, err, core.ErrInvalidEntry, "read %q", raw)
	}

	assert.Empty(t, dirEntries(t, baseDir))
	assert.Equal(t, []string{"base"}, dirEntries(t, tmp))
}

func TestRead(t *testing.T) {
	t.Run("Not Found is a Caller Fault", func(t *testing.T) {
		store, _ := setupStore(t)

		_, err := store.Read(context.Background(), "never-written")
		require.Error(t, err)

		var rej *core.RejectError
		require.ErrorAs(t, err, &rej)
		assert.Equal(t, core.ErrNotFound, rej.Err)
		assert.Equal(t, "never-written", rej.Input)
	})

	t.Run("Corrupt Data is a System Fault", func(t *testing.T) {
		store, base := setupStore(t)
		require.NoError(t, os.WriteFile(filepath.Join(base, "broken"), []byte("{not json"), 0644))

		_, err := store.Read(context.Background(), "broken")
		require.Error(t, err)
		assert.False(t, core.IsReject(err))
		assert.Contains(t, err.Error(), "failed to deserialize")
	})

	t.Run("Missing Field is Not Defaulted", func(t *testing.T) {
		store, base := setupStore(t)
		require.NoError(t, os.WriteFile(filepath.Join(base, "partial"), []byte(`{"name":"Eve"}`), 0644))

		_, err := store.Read(context.Background(), "partial")
		require.Error(t, err)
		assert.False(t, core.IsReject(err))
		assert.Contains(t, err.Error(), `missing field "age"`)
	})

	t.Run("Out of Range Age is a System Fault", func(t *testing.T) {
		store, base := setupStore(t)
		require.NoError(t, os.WriteFile(filepath.Join(base, "old"), []byte(`{"name":"Old","age":70000}`), 0644))

		_, err := store.Read(context.Background(), "old")
		require.Error(t, err)
		assert.False(t, core.IsReject(err))
	})

	t.Run("Directory at Target is a System Fault", func(t *testing.T) {
		store, base := setupStore(t)
		require.NoError(t, os.Mkdir(filepath.Join(base, "dir"), 0755))

		_, err := store.Read(context.Background(), "dir")
		require.Error(t, err)
		assert.False(t, core.IsReject(err))
	})

	t.Run("YAML Round Trip", func(t *testing.T) {
		store, base := setupStore(t, func(c *fs.Config) { c.Serializer = fs.NewYAMLSerializer() })
		ctx := context.Background()
		u := core.User{Name: "Frank", Age: 52}

		require.NoError(t, store.Write(ctx, "frank", u))

		content, err := os.ReadFile(filepath.Join(base, "frank"))
		require.NoError(t, err)
		assert.Equal(t, "name: Frank\nage: 52\n", string(content))

		got, err := store.Read(ctx, "frank")
		require.NoError(t, err)
		assert.Equal(t, u, got)
	})
}

func TestRoundTrip(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	cases := map[string]core.User{
		"zero":    {},
		"max-age": {Name: "Methuselah", Age: 65535},
		"unicode": {Name: "Zoë 山田", Age: 19},
		"quotes":  {Name: `"quoted" \ and <tags>`, Age: 3},
		".dot":    {Name: "hidden", Age: 1},
	}
	for key, u := range cases {
		require.NoError(t, store.Write(ctx, key, u), key)
	}
	for key, u := range cases {
		got, err := store.Read(ctx, key)
		require.NoError(t, err, key)
		assert.Equal(t, u, got, key)
	}
}

func TestList(t *testing.T) {
	store, base := setupStore(t)
	ctx := context.Background()

	for _, k := range []string{"carol", "alice", "bob", "admin-1"} {
		require.NoError(t, store.Write(ctx, k, core.User{Name: k}))
	}
	require.NoError(t, os.Mkdir(filepath.Join(base, "subdir"), 0755))

	t.Run("All Sorted", func(t *testing.T) {
		names, err := store.List(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, []string{"admin-1", "alice", "bob", "carol"}, names)
	})

	t.Run("Glob", func(t *testing.T) {
		names, err := store.List(ctx, "a*")
		require.NoError(t, err)
		assert.Equal(t, []string{"admin-1", "alice"}, names)

		names, err = store.List(ctx, "{bob,carol}")
		require.NoError(t, err)
		assert.Equal(t, []string{"bob", "carol"}, names)
	})

	t.Run("Bad Pattern is a Caller Fault", func(t *testing.T) {
		_, err := store.List(ctx, "[")
		assert.ErrorIs(t, err, core.ErrInvalidPattern)
		assert.True(t, core.IsReject(err))
	})
}

func TestState(t *testing.T) {
	store, base := setupStore(t, func(c *fs.Config) { c.Atomic = true })

	state, ok := store.State().(fs.StoreState)
	require.True(t, ok)
	assert.Equal(t, base, state.Base)
	assert.Equal(t, "json", state.Serializer)
	assert.True(t, state.Atomic)
	assert.Equal(t, 100, state.EventBuffer)
	assert.False(t, state.WatcherActive)
	assert.Equal(t, "fs-store", store.ComponentType())
}
