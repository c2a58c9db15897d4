package storage

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Database {
	t.Helper()
	dir := t.TempDir()

	ldb, err := NewLevelDB(filepath.Join(dir, "leveldb"))
	require.NoError(t, err)
	t.Cleanup(ldb.Close)

	bdb, err := NewBoltDB(filepath.Join(dir, "vault.db"))
	require.NoError(t, err)
	t.Cleanup(bdb.Close)

	return map[string]Database{
		"memdb":   NewMemDB(),
		"leveldb": ldb,
		"boltdb":  bdb,
	}
}

func TestDatabaseRoundTrip(t *testing.T) {
	for name, db := range backends(t) {
		t.Run(name, func(t *testing.T) {
			key := []byte("vault/bal/pool/asset")
			value := []byte{0x01, 0x02, 0x03}

			require.NoError(t, db.Put(key, value))
			got, err := db.Get(key)
			require.NoError(t, err)
			require.Equal(t, value, got)

			require.NoError(t, db.Delete(key))
			_, err = db.Get(key)
			require.True(t, errors.Is(err, ErrKeyNotFound))
		})
	}
}

func TestDatabaseDeleteMissingKey(t *testing.T) {
	for name, db := range backends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, db.Delete([]byte("never-written")))
		})
	}
}

func TestDatabaseOverwrite(t *testing.T) {
	for name, db := range backends(t) {
		t.Run(name, func(t *testing.T) {
			key := []byte("counter")
			require.NoError(t, db.Put(key, []byte{0x01}))
			require.NoError(t, db.Put(key, []byte{0x02}))

			got, err := db.Get(key)
			require.NoError(t, err)
			require.Equal(t, []byte{0x02}, got)
		})
	}
}

func TestBoltDBPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault.db")

	db1, err := NewBoltDB(path)
	require.NoError(t, err)
	require.NoError(t, db1.Put([]byte("key"), []byte("value")))
	db1.Close()

	db2, err := NewBoltDB(path)
	require.NoError(t, err)
	defer db2.Close()

	got, err := db2.Get([]byte("key"))
	require.NoError(t, err)
	require.Equal(t, []byte("value"), got)
}
