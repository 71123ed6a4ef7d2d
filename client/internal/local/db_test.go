package local

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "colector.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestOpen(t *testing.T) {
	t.Run("Создание новой базы", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "colector.db")
		db, err := Open(path)
		require.NoError(t, err)
		assert.Equal(t, path, db.Path())
		require.NoError(t, db.Close())
		assert.FileExists(t, path)
	})

	t.Run("Повторное открытие занятой базы", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "colector.db")
		first, err := Open(path)
		require.NoError(t, err)
		defer first.Close()

		second, err := Open(path)
		require.ErrorIs(t, err, ErrLocked)
		assert.Nil(t, second)
	})

	t.Run("Открытие после закрытия", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "colector.db")
		first, err := Open(path)
		require.NoError(t, err)
		require.NoError(t, first.Close())

		second, err := Open(path)
		require.NoError(t, err)
		require.NoError(t, second.Close())
	})

	t.Run("Несуществующий каталог", func(t *testing.T) {
		_, err := Open(filepath.Join(t.TempDir(), "missing", "colector.db"))
		require.Error(t, err)
	})
}
