// Package prefs хранит настройки клиента: способ хранения, адрес сервера, язык и вид списка.
// Настройки читаются при старте и сохраняются при каждом изменении.
package prefs

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/maynagashev/colectorpro/client/internal/i18n"
	"github.com/maynagashev/colectorpro/models"
)

// Ключи настроек в хранилище.
const (
	KeyViewMode    = "viewMode"
	KeyLanguage    = "language"
	KeyStorageMode = "storageMode"
	KeyServerURL   = "serverUrl"
)

// DefaultServerURL - адрес сервера коллекции по умолчанию.
const DefaultServerURL = "http://localhost:3001"

// Store - хранилище пар ключ-значение для настроек.
type Store interface {
	Get(key string, v any) error
	Put(key string, v any) error
}

// Preferences - текущие настройки клиента.
type Preferences struct {
	ViewMode    models.ViewMode
	Language    models.Language
	StorageMode models.StorageMode
	ServerURL   string
}

// Defaults возвращает настройки по умолчанию.
func Defaults() Preferences {
	return Preferences{
		ViewMode:    models.ViewVerticalGrid,
		Language:    models.LangPT,
		StorageMode: models.StorageLocal,
		ServerURL:   DefaultServerURL,
	}
}

// Load читает каждую настройку отдельно. Отсутствующая или поврежденная настройка
// получает значение по умолчанию, остальные не затрагиваются.
func Load(store Store) Preferences {
	return LoadInto(store, Defaults())
}

// LoadInto работает как Load, но берет отсутствующие значения из base.
func LoadInto(store Store, base Preferences) Preferences {
	p := base

	var viewMode models.ViewMode
	if load(store, KeyViewMode, &viewMode) && viewMode.Valid() {
		p.ViewMode = viewMode
	}
	var lang models.Language
	if load(store, KeyLanguage, &lang) && lang.Valid() {
		p.Language = lang
	}
	var mode models.StorageMode
	if load(store, KeyStorageMode, &mode) && mode.Valid() {
		p.StorageMode = mode
	}
	var serverURL string
	if load(store, KeyServerURL, &serverURL) && strings.TrimSpace(serverURL) != "" {
		p.ServerURL = serverURL
	}
	return p
}

func load(store Store, key string, v any) bool {
	if err := store.Get(key, v); err != nil {
		slog.Debug("Настройка не загружена, используется значение по умолчанию", "key", key, "error", err)
		return false
	}
	return true
}

// Save сохраняет все настройки.
func (p Preferences) Save(store Store) error {
	values := []struct {
		key string
		v   any
	}{
		{KeyViewMode, p.ViewMode},
		{KeyLanguage, p.Language},
		{KeyStorageMode, p.StorageMode},
		{KeyServerURL, p.ServerURL},
	}
	for _, kv := range values {
		if err := store.Put(kv.key, kv.v); err != nil {
			return fmt.Errorf("ошибка сохранения настройки %s: %w", kv.key, err)
		}
	}
	return nil
}

// ToggleLanguage переключает pt и en.
func (p *Preferences) ToggleLanguage() {
	p.Language = i18n.Toggle(p.Language)
}

// ToggleViewMode переключает сетку и горизонтальную ленту.
func (p *Preferences) ToggleViewMode() {
	if p.ViewMode == models.ViewVerticalGrid {
		p.ViewMode = models.ViewHorizontalScroll
	} else {
		p.ViewMode = models.ViewVerticalGrid
	}
}

// SetStorage задает способ хранения и адрес сервера. Пустой адрес не меняет текущий.
func (p *Preferences) SetStorage(mode models.StorageMode, serverURL string) {
	if mode.Valid() {
		p.StorageMode = mode
	}
	if u := strings.TrimSpace(serverURL); u != "" {
		p.ServerURL = u
	}
}
