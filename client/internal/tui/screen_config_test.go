package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maynagashev/colectorpro/client/internal/i18n"
	"github.com/maynagashev/colectorpro/models"
)

func TestUpdateConfigScreen(t *testing.T) {
	t.Run("Переход на сервер", func(t *testing.T) {
		env := newTestEnv(t, sampleCar("1", "Local", 100))
		env.remote.cars = []models.Car{sampleCar("r", "Remote", 100)}

		updated, _ := pressKey(t, env.m, "s")
		m := asModel(t, updated)
		require.Equal(t, configScreen, m.state)
		assert.Equal(t, models.StorageLocal, m.configMode)

		updated, _ = pressSpecialKey(t, m, tea.KeyRight)
		m = asModel(t, updated)
		assert.Equal(t, models.StorageServer, m.configMode)
		assert.Contains(t, m.View(), i18n.T(models.LangPT, i18n.ServerURL))

		updated, _ = pressSpecialKey(t, m, tea.KeyTab)
		m = asModel(t, updated)
		m.configURLInput.SetValue("")
		updated, _ = pressKey(t, m, "http://192.168.0.15:3001/")
		m = asModel(t, updated)

		updated, cmd := pressSpecialKey(t, m, tea.KeyEnter)
		m = asModel(t, updated)
		require.NotNil(t, cmd)
		assert.Equal(t, carListScreen, m.state)

		p := m.garage.Prefs()
		assert.Equal(t, models.StorageServer, p.StorageMode)
		assert.Equal(t, "http://192.168.0.15:3001", p.ServerURL)
		assert.True(t, m.garage.Loading())

		updated, _ = m.Update(carsLoadedMsg{res: m.garage.Loader()(context.Background())})
		m = asModel(t, updated)
		require.Len(t, m.carList.Items(), 1)
		car, _ := m.selectedListCar()
		assert.Equal(t, "r", car.ID)
	})

	t.Run("Отмена не меняет настройки", func(t *testing.T) {
		env := newTestEnv(t)
		updated, _ := pressKey(t, env.m, "s")
		m := asModel(t, updated)
		updated, _ = pressSpecialKey(t, m, tea.KeyRight)
		m = asModel(t, updated)

		updated, _ = pressSpecialKey(t, m, tea.KeyEsc)
		m = asModel(t, updated)
		assert.Equal(t, carListScreen, m.state)
		assert.Equal(t, models.StorageLocal, m.garage.Prefs().StorageMode)
	})
}
