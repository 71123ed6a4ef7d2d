// Package garage управляет коллекцией в памяти независимо от интерфейса:
// выбирает активное хранилище по настройкам, загружает коллекцию
// и применяет изменения сразу, отправляя их в хранилище следом.
package garage

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/maynagashev/colectorpro/client/internal/prefs"
	"github.com/maynagashev/colectorpro/client/internal/storage"
	"github.com/maynagashev/colectorpro/models"
)

// RemoteFactory создает адаптер сервера для адреса baseURL.
type RemoteFactory func(baseURL string) storage.Adapter

// Garage хранит коллекцию и настройки. Методы вызываются из одного цикла событий;
// функции, возвращаемые Loader, Save и Delete, можно выполнять в других горутинах:
// из общего состояния они используют только order.
type Garage struct {
	local     storage.Adapter
	newRemote RemoteFactory
	remote    storage.Adapter
	remoteURL string

	prefs     prefs.Preferences
	prefStore prefs.Store

	cars    []models.Car
	connErr error
	loading bool
	gen     uint64 // увеличивается при каждой смене хранилища

	order *writeOrder
}

// writeOrder упорядочивает записи в хранилище по времени отправки.
// Запись пропускается, если для того же id уже выполнена более поздняя.
type writeOrder struct {
	write sync.Mutex // записи в хранилище выполняются по одной

	mu      sync.Mutex
	sent    map[string]uint64 // id -> версия последнего отправленного изменения
	applied map[string]uint64 // id -> версия последнего выполненного изменения
}

func newWriteOrder() *writeOrder {
	return &writeOrder{sent: map[string]uint64{}, applied: map[string]uint64{}}
}

// next выдает версию очередного изменения записи id.
func (o *writeOrder) next(id string) uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent[id]++
	return o.sent[id]
}

// run выполняет write, если за это время не выполнено более позднее изменение id.
func (o *writeOrder) run(id string, version uint64, write func() error) (bool, error) {
	o.write.Lock()
	defer o.write.Unlock()

	o.mu.Lock()
	stale := o.applied[id] > version
	o.mu.Unlock()
	if stale {
		return false, nil
	}

	if err := write(); err != nil {
		return true, err
	}
	o.mu.Lock()
	o.applied[id] = version
	o.mu.Unlock()
	return true, nil
}

// New создает Garage. prefStore может быть nil: тогда настройки не сохраняются.
func New(local storage.Adapter, newRemote RemoteFactory, p prefs.Preferences, prefStore prefs.Store) *Garage {
	return &Garage{
		local:     local,
		newRemote: newRemote,
		prefs:     p,
		prefStore: prefStore,
		cars:      []models.Car{},
		order:     newWriteOrder(),
	}
}

// Prefs возвращает текущие настройки.
func (g *Garage) Prefs() prefs.Preferences {
	return g.prefs
}

// Remote сообщает, что активно хранилище на сервере.
func (g *Garage) Remote() bool {
	return g.prefs.StorageMode == models.StorageServer
}

// Active возвращает адаптер, соответствующий текущему способу хранения.
// Адаптер сервера пересоздается при смене адреса.
func (g *Garage) Active() storage.Adapter {
	if !g.Remote() {
		return g.local
	}
	if g.remote == nil || g.remoteURL != g.prefs.ServerURL {
		g.remote = g.newRemote(g.prefs.ServerURL)
		g.remoteURL = g.prefs.ServerURL
	}
	return g.remote
}

// Cars возвращает копию всей коллекции в порядке отображения.
func (g *Garage) Cars() []models.Car {
	out := make([]models.Car, len(g.cars))
	copy(out, g.cars)
	return out
}

// Find возвращает запись по id.
func (g *Garage) Find(id string) (models.Car, bool) {
	for _, c := range g.cars {
		if c.ID == id {
			return c, true
		}
	}
	return models.Car{}, false
}

// Filtered применяет фильтр ко всей коллекции.
func (g *Garage) Filtered(f models.Filter) []models.Car {
	return f.Apply(g.cars)
}

// ConnErr возвращает ошибку последней загрузки с сервера или nil.
func (g *Garage) ConnErr() error {
	return g.connErr
}

// Loading сообщает, что загрузка запущена и еще не применена.
func (g *Garage) Loading() bool {
	return g.loading
}

// LoadResult - итог загрузки коллекции.
type LoadResult struct {
	Cars   []models.Car
	Err    error
	Remote bool
	gen    uint64
}

// Loader начинает загрузку: сбрасывает ошибку соединения и возвращает функцию,
// которая читает коллекцию из активного хранилища. Результат передается в ApplyLoad.
func (g *Garage) Loader() func(ctx context.Context) LoadResult {
	adapter := g.Active()
	remote := g.Remote()
	gen := g.gen
	g.connErr = nil
	g.loading = true

	return func(ctx context.Context) LoadResult {
		cars, err := adapter.SeedIfEmpty(ctx)
		return LoadResult{Cars: cars, Err: err, Remote: remote, gen: gen}
	}
}

// ApplyLoad применяет результат загрузки. Результат, полученный до смены хранилища, отбрасывается.
// Ошибка сервера сохраняется в ConnErr, ошибка локальной базы только логируется;
// в обоих случаях коллекция становится пустой.
func (g *Garage) ApplyLoad(res LoadResult) {
	if res.gen != g.gen {
		slog.Debug("Отброшен устаревший результат загрузки")
		return
	}
	g.loading = false

	if res.Err != nil {
		slog.Error("Не удалось загрузить коллекцию", "remote", res.Remote, "error", res.Err)
		if res.Remote {
			g.connErr = res.Err
		}
		g.cars = []models.Car{}
		return
	}

	cars := res.Cars
	if cars == nil {
		cars = []models.Car{}
	}
	g.cars = cars
	slog.Info("Коллекция загружена", "count", len(cars), "remote", res.Remote)
}

// Reload загружает коллекцию синхронно.
func (g *Garage) Reload(ctx context.Context) {
	g.ApplyLoad(g.Loader()(ctx))
}

// SetStorage меняет способ хранения и адрес сервера и сохраняет настройки.
// Данные между хранилищами не переносятся; после вызова нужна новая загрузка.
func (g *Garage) SetStorage(mode models.StorageMode, serverURL string) error {
	g.prefs.SetStorage(mode, serverURL)
	g.gen++
	g.connErr = nil
	g.loading = false
	return g.savePrefs()
}

// SwitchToLocal переключает на локальную базу.
func (g *Garage) SwitchToLocal() error {
	return g.SetStorage(models.StorageLocal, "")
}

// ToggleLanguage переключает язык и сразу сохраняет настройку.
func (g *Garage) ToggleLanguage() error {
	g.prefs.ToggleLanguage()
	return g.savePrefs()
}

// ToggleViewMode переключает вид списка и сразу сохраняет настройку.
func (g *Garage) ToggleViewMode() error {
	g.prefs.ToggleViewMode()
	return g.savePrefs()
}

func (g *Garage) savePrefs() error {
	if g.prefStore == nil {
		return nil
	}
	if err := g.prefs.Save(g.prefStore); err != nil {
		slog.Error("Не удалось сохранить настройки", "error", err)
		return err
	}
	return nil
}

// Op - тип изменения коллекции.
type Op string

// Изменения коллекции.
const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Result - итог записи изменения в хранилище.
type Result struct {
	Op    Op
	CarID string
	Err   error
	// ShouldAlert - ошибку нужно показать пользователю (только для сервера).
	ShouldAlert bool
}

// Commit записывает изменение в хранилище, активное на момент вызова Save или Delete.
// Изменения одной записи применяются в порядке вызова Save и Delete, даже если
// Commit выполняются в другом порядке: устаревшее изменение пропускается.
type Commit func(ctx context.Context) Result

// Save сразу применяет запись к коллекции и возвращает Commit для сохранения.
// Новая запись добавляется в начало, измененная заменяет запись с тем же id.
// При ошибке сохранения коллекция в памяти не откатывается.
func (g *Garage) Save(car models.Car, isUpdate bool) (Commit, error) {
	car.Normalize()
	if err := car.Validate(); err != nil {
		return nil, err
	}
	car = car.Clone()

	op := OpCreate
	if isUpdate {
		op = OpUpdate
		for i := range g.cars {
			if g.cars[i].ID == car.ID {
				g.cars[i] = car
			}
		}
	} else {
		g.cars = append([]models.Car{car}, g.cars...)
	}

	adapter, remote := g.Active(), g.Remote()
	version := g.order.next(car.ID)
	return func(ctx context.Context) Result {
		done, err := g.order.run(car.ID, version, func() error {
			if isUpdate {
				return adapter.Update(ctx, car)
			}
			return adapter.Create(ctx, car)
		})
		if !done {
			slog.Debug("Изменение устарело и пропущено", "op", op, "id", car.ID)
		}
		return result(op, car.ID, remote, err)
	}, nil
}

// Delete сразу убирает запись из коллекции и возвращает Commit для удаления в хранилище.
func (g *Garage) Delete(id string) Commit {
	kept := g.cars[:0:0]
	for _, c := range g.cars {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	g.cars = kept

	adapter, remote := g.Active(), g.Remote()
	version := g.order.next(id)
	return func(ctx context.Context) Result {
		_, err := g.order.run(id, version, func() error {
			return adapter.Delete(ctx, id)
		})
		return result(OpDelete, id, remote, err)
	}
}

func result(op Op, id string, remote bool, err error) Result {
	res := Result{Op: op, CarID: id}
	if err != nil {
		slog.Error("Не удалось записать изменение", "op", op, "id", id, "remote", remote, "error", err)
		res.Err = fmt.Errorf("%s %s: %w", op, id, err)
		res.ShouldAlert = remote
	}
	return res
}
