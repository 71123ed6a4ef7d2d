package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maynagashev/colectorpro/client/internal/local"
	"github.com/maynagashev/colectorpro/client/internal/prefs"
	"github.com/maynagashev/colectorpro/client/internal/tui"
	"github.com/maynagashev/colectorpro/models"
)

func TestPrintVersion(t *testing.T) {
	var buf bytes.Buffer
	printVersion(&buf)
	assert.Contains(t, buf.String(), "ColectorPro Client")
	assert.Contains(t, buf.String(), "Version: "+version)
}

func TestRootCmd_Version(t *testing.T) {
	called := false
	oldStart := startTUI
	startTUI = func(tui.Options) error {
		called = true
		return nil
	}
	t.Cleanup(func() { startTUI = oldStart })

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--version"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Build Date")
	assert.False(t, called)
}

func TestSetupLogging(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	f, err := setupLogging(dir, true)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	data, err := os.ReadFile(filepath.Join(dir, logFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Логгер инициализирован")
}

func TestSetupDependencies(t *testing.T) {
	t.Run("Локальная база", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "colector.db")
		deps := setupDependencies(&config{DBPath: path, ServerURL: "http://10.0.0.2:3001"})
		defer deps.Close()

		require.NotNil(t, deps.db)
		require.NotNil(t, deps.editor)
		p := deps.garage.Prefs()
		assert.Equal(t, models.StorageLocal, p.StorageMode)
		assert.Equal(t, "http://10.0.0.2:3001", p.ServerURL)

		deps.garage.Reload(context.Background())
		assert.Len(t, deps.garage.Cars(), 2, "пустая база заполняется примерами")
	})

	t.Run("Сохраненные настройки важнее флага", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "colector.db")
		db, err := local.Open(path)
		require.NoError(t, err)
		saved := prefs.Defaults()
		saved.ServerURL = "http://192.168.0.15:3001"
		saved.Language = models.LangEN
		require.NoError(t, saved.Save(db.Prefs()))
		require.NoError(t, db.Close())

		deps := setupDependencies(&config{DBPath: path, ServerURL: "http://10.0.0.2:3001"})
		defer deps.Close()
		assert.Equal(t, saved, deps.garage.Prefs())
	})

	t.Run("Занятая база", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "colector.db")
		first, err := local.Open(path)
		require.NoError(t, err)
		defer first.Close()

		deps := setupDependencies(&config{DBPath: path})
		defer deps.Close()

		assert.Nil(t, deps.db)
		deps.garage.Reload(context.Background())
		assert.Empty(t, deps.garage.Cars())
		assert.NoError(t, deps.garage.ConnErr())
		assert.NoError(t, deps.garage.ToggleLanguage(), "без базы настройки не сохраняются, но и не падают")
	})
}
