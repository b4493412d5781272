package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T, path string) *DB {
	t.Helper()
	db, err := Open(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestRememberSurvivesReopen(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), ".state", DBFile)

	db, err := Open(ctx, path)
	require.NoError(t, err)
	fps := NewFingerprints(db)

	seen, err := fps.Seen(ctx, "abc123")
	require.NoError(t, err)
	assert.False(t, seen)

	require.NoError(t, fps.Remember(ctx, "abc123"))
	seen, err = fps.Seen(ctx, "abc123")
	require.NoError(t, err)
	assert.True(t, seen)
	require.NoError(t, db.Close())

	reopened := openTemp(t, path)
	seen, err = NewFingerprints(reopened).Seen(ctx, "abc123")
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestRememberIsIdempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	fps := NewFingerprints(openTemp(t, filepath.Join(t.TempDir(), DBFile)))
	for i := 0; i < 3; i++ {
		require.NoError(t, fps.Remember(ctx, "dup"))
	}
	n, err := fps.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestPrune(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	fps := NewFingerprints(openTemp(t, filepath.Join(t.TempDir(), DBFile)))
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	fps.now = func() time.Time { return base }
	require.NoError(t, fps.Remember(ctx, "old"))
	fps.now = func() time.Time { return base.Add(90 * 24 * time.Hour) }
	require.NoError(t, fps.Remember(ctx, "new"))

	n, err := fps.Prune(ctx, base.Add(30*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	seen, err := fps.Seen(ctx, "old")
	require.NoError(t, err)
	assert.False(t, seen)
	seen, err = fps.Seen(ctx, "new")
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestMigrateIsRepeatable(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := openTemp(t, filepath.Join(t.TempDir(), DBFile))
	require.NoError(t, Migrate(ctx, db.Pool))

	var v int
	require.NoError(t, db.Pool.QueryRow(`PRAGMA user_version;`).Scan(&v))
	assert.Equal(t, schemaVersion, v)
}

type fakeDedupe struct {
	seen map[string]bool
	err  error
}

func (f fakeDedupe) Seen(_ context.Context, fp string) (bool, error) { return f.seen[fp], f.err }
func (f fakeDedupe) Remember(context.Context, string) error          { return errors.New("read-only") }

func TestOverlay(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	o := NewOverlay(fakeDedupe{seen: map[string]bool{"persisted": true}})

	seen, err := o.Seen(ctx, "persisted")
	require.NoError(t, err)
	assert.True(t, seen)

	seen, err = o.Seen(ctx, "fresh")
	require.NoError(t, err)
	assert.False(t, seen)

	require.NoError(t, o.Remember(ctx, "fresh"))
	seen, err = o.Seen(ctx, "fresh")
	require.NoError(t, err)
	assert.True(t, seen)

	empty := NewOverlay(nil)
	seen, err = empty.Seen(ctx, "anything")
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestLockIsExclusive(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	unlock, err := Lock(dir)
	require.NoError(t, err)

	_, err = Lock(dir)
	require.ErrorIs(t, err, ErrLocked)

	require.NoError(t, unlock())
	unlock2, err := Lock(dir)
	require.NoError(t, err)
	require.NoError(t, unlock2())
}
