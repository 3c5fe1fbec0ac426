package db

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hussein-Mazeh/givme/internal/vault"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()

	d, err := Open(context.Background(), filepath.Join(t.TempDir(), "cred.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open(context.Background(), "")
	assert.Error(t, err)
}

func TestOpenCreatesPrivateFile(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permissions are not enforced on windows")
	}

	path := filepath.Join(t.TempDir(), "nested", "cred.db")
	d, err := Open(context.Background(), path)
	require.NoError(t, err)
	defer d.Close()

	assert.Equal(t, path, d.Path())
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cred.db")
	ctx := context.Background()

	d, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, NewRecordStore(d).Insert(ctx, vault.Record{Key: "k", Value: "v"}))
	require.NoError(t, d.Close())

	d, err = Open(ctx, path)
	require.NoError(t, err)
	defer d.Close()

	ok, err := NewRecordStore(d).ExistsByKey(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRecordStoreInsertAndQuery(t *testing.T) {
	store := NewRecordStore(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, vault.Record{Key: "a2V5", Value: "dmFs", Info: "aW5mbw=="}))
	require.NoError(t, store.Insert(ctx, vault.Record{Key: "b3Ro", Value: "dmFs"}))

	recs, err := store.QueryByKey(ctx, "a2V5")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, vault.Record{Key: "a2V5", Value: "dmFs", Info: "aW5mbw=="}, recs[0])

	recs, err = store.QueryByKey(ctx, "b3Ro")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Empty(t, recs[0].Info)

	recs, err = store.QueryByKey(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestRecordStoreStoresNullInfo(t *testing.T) {
	d := openTestDB(t)
	store := NewRecordStore(d)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, vault.Record{Key: "k", Value: "v"}))

	var isNull bool
	err := d.sql.QueryRowContext(ctx, `SELECT info IS NULL FROM cred WHERE key = ?`, "k").Scan(&isNull)
	require.NoError(t, err)
	assert.True(t, isNull)
}

func TestRecordStoreDuplicateKey(t *testing.T) {
	store := NewRecordStore(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, vault.Record{Key: "k", Value: "one"}))
	err := store.Insert(ctx, vault.Record{Key: "k", Value: "two"})
	assert.ErrorIs(t, err, vault.ErrAlreadyExists)
}

func TestRecordStoreUpdate(t *testing.T) {
	store := NewRecordStore(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, vault.Record{Key: "k", Value: "one", Info: "note"}))
	require.NoError(t, store.UpdateByKey(ctx, "k", vault.Record{Key: "k", Value: "two"}))

	recs, err := store.QueryByKey(ctx, "k")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "two", recs[0].Value)
	assert.Empty(t, recs[0].Info)
}

func TestRecordStoreDelete(t *testing.T) {
	store := NewRecordStore(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, vault.Record{Key: "k", Value: "v"}))
	require.NoError(t, store.DeleteByKey(ctx, "k"))

	ok, err := store.ExistsByKey(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, store.DeleteByKey(ctx, "k"))
}

func TestRecordStoreBacksVault(t *testing.T) {
	store := NewRecordStore(openTestDB(t))
	ctx := context.Background()

	b := vault.NewBootstrapper(store, nil, nil, nil)
	s, err := b.SetupWith(ctx, "CorrectHorse")
	require.NoError(t, err)

	repo := vault.NewRepository(store, s)
	require.NoError(t, repo.Put(ctx, vault.NewCredential("github", "s3cr3t", "personal")))

	s, err = b.UnlockWith(ctx, "CorrectHorse")
	require.NoError(t, err)

	got, err := vault.NewRepository(store, s).Get(ctx, "github")
	require.NoError(t, err)
	assert.Equal(t, "s3cr3t", got.Value)
	assert.Equal(t, "personal", got.Info)

	_, err = b.UnlockWith(ctx, "WrongHorse")
	assert.ErrorIs(t, err, vault.ErrAuthentication)
}

func TestDataSourceNameEscapesPath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix paths")
	}

	dsn, err := dataSourceName("/tmp/my vault?x#1/cred.db")
	require.NoError(t, err)
	assert.Equal(t, "file:///tmp/my%20vault%3Fx%231/cred.db?_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)", dsn)

	dsn, err = dataSourceName("cred_debug.db")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(dsn, "file:///"), dsn)
	assert.True(t, strings.HasSuffix(dsn, "/cred_debug.db?_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)"), dsn)
}

func TestOpenPathWithQueryCharacters(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("'?' is not a valid file name character on windows")
	}

	dir := filepath.Join(t.TempDir(), "odd?name#dir")
	path := filepath.Join(dir, "cred.db")
	ctx := context.Background()

	d, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, NewRecordStore(d).Insert(ctx, vault.Record{Key: "k", Value: "v"}))
	require.NoError(t, d.Close())

	_, err = os.Stat(path)
	require.NoError(t, err, "database must live at the exact path")

	entries, err := os.ReadDir(filepath.Dir(dir))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no stray file created from a truncated path")
}
