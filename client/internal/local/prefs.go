package local

import (
	"encoding/json"
	"errors"
	"fmt"

	"go.etcd.io/bbolt"
)

// ErrPrefNotFound возвращается, если настройка не сохранялась.
var ErrPrefNotFound = errors.New("настройка не найдена")

// PrefStore хранит настройки клиента: один ключ на настройку, значение - JSON.
type PrefStore struct {
	db *bbolt.DB
}

// Get декодирует значение key в v.
func (p *PrefStore) Get(key string, v any) error {
	return p.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(bucketPrefs)).Get([]byte(key))
		if data == nil {
			return ErrPrefNotFound
		}
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("ошибка декодирования настройки %s: %w", key, err)
		}
		return nil
	})
}

// Put сохраняет значение key.
func (p *PrefStore) Put(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("ошибка кодирования настройки %s: %w", key, err)
	}
	return p.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketPrefs)).Put([]byte(key), data)
	})
}
