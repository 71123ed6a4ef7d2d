package tui

import (
	"context"
	"errors"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/maynagashev/colectorpro/client/internal/garage"
	"github.com/maynagashev/colectorpro/client/internal/prefs"
	"github.com/maynagashev/colectorpro/client/internal/storage"
	"github.com/maynagashev/colectorpro/models"
)

// memAdapter - хранилище в памяти для тестов интерфейса.
type memAdapter struct {
	mu      sync.Mutex
	cars    []models.Car
	loadErr error
	saveErr error
	calls   []string
}

func (a *memAdapter) List(context.Context) ([]models.Car, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]models.Car(nil), a.cars...), a.loadErr
}

func (a *memAdapter) Create(_ context.Context, car models.Car) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls = append(a.calls, "create:"+car.ID)
	return a.saveErr
}

func (a *memAdapter) Update(_ context.Context, car models.Car) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls = append(a.calls, "update:"+car.ID)
	return a.saveErr
}

func (a *memAdapter) Delete(_ context.Context, id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls = append(a.calls, "delete:"+id)
	return a.saveErr
}

func (a *memAdapter) SeedIfEmpty(ctx context.Context) ([]models.Car, error) {
	if a.loadErr != nil {
		return nil, a.loadErr
	}
	return a.List(ctx)
}

// fakeEditor возвращает заранее заданный результат редактирования.
type fakeEditor struct {
	result string
	err    error
	got    []string
}

func (e *fakeEditor) Edit(_ context.Context, image, instruction string) (string, error) {
	e.got = append(e.got, image, instruction)
	return e.result, e.err
}

// testEnv - модель вместе с хранилищами, на которых она построена.
type testEnv struct {
	m      *model
	local  *memAdapter
	remote *memAdapter
	editor *fakeEditor
}

func sampleCar(id, name string, date int64) models.Car {
	return models.Car{
		ID:        id,
		Name:      name,
		Brand:     "Hot Wheels",
		Category:  models.CategoryExotic,
		ImageURL:  "https://img/" + id + ".jpg",
		Images:    []string{"https://img/" + id + ".jpg"},
		DateAdded: date,
	}
}

// newTestEnv создает модель на локальном хранилище с загруженными cars.
func newTestEnv(t *testing.T, cars ...models.Car) *testEnv {
	t.Helper()
	env := &testEnv{
		local:  &memAdapter{cars: cars},
		remote: &memAdapter{},
		editor: &fakeEditor{},
	}
	g := garage.New(env.local, func(string) storage.Adapter { return env.remote }, prefs.Defaults(), nil)
	g.Reload(context.Background())

	m := initModel(g, env.editor, false)
	env.m = &m
	return env
}

// pressKey имитирует нажатие клавиши-символа и возвращает обновленную модель.
func pressKey(t *testing.T, m tea.Model, key string) (tea.Model, tea.Cmd) {
	t.Helper()
	return m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
}

// pressSpecialKey имитирует нажатие специальной клавиши и возвращает обновленную модель.
func pressSpecialKey(t *testing.T, m tea.Model, key tea.KeyType) (tea.Model, tea.Cmd) {
	t.Helper()
	return m.Update(tea.KeyMsg{Type: key})
}

// asModel выполняет безопасное приведение типа tea.Model к *model с проверкой.
func asModel(t *testing.T, m tea.Model) *model {
	t.Helper()
	mm, ok := m.(*model)
	require.True(t, ok, "Не удалось привести tea.Model к *model")
	return mm
}

// runCmd выполняет команду и возвращает сообщение. Пакетные команды не поддерживаются.
func runCmd(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)
	return cmd()
}

var errBoom = errors.New("boom")
