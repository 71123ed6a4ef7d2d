// Package local - хранилище коллекции на устройстве поверх bbolt.
package local

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/flock"
	"go.etcd.io/bbolt"
)

const (
	bucketCars   = "cars"         // id -> Car JSON
	bucketByDate = "cars_by_date" // dateAdded(8 байт) || id -> id
	bucketPrefs  = "prefs"        // ключ настройки -> JSON-скаляр

	openTimeout     = time.Second
	filePermissions = 0o600
)

// ErrLocked возвращается, если база уже открыта другим процессом.
var ErrLocked = errors.New("локальная база уже используется другим процессом")

// DB - открытая локальная база. Один файл хранит и коллекцию, и настройки.
type DB struct {
	bolt *bbolt.DB
	lock *flock.Flock
	path string
}

// Open открывает (или создает) базу по пути path и захватывает файл блокировки <path>.lock.
func Open(path string) (*DB, error) {
	lock := flock.New(path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("ошибка захвата файла блокировки: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: %s", ErrLocked, path)
	}

	db, err := bbolt.Open(path, filePermissions, &bbolt.Options{Timeout: openTimeout})
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("ошибка открытия локальной базы: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{bucketCars, bucketByDate, bucketPrefs} {
			if _, bErr := tx.CreateBucketIfNotExists([]byte(name)); bErr != nil {
				return fmt.Errorf("ошибка создания бакета %s: %w", name, bErr)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		_ = lock.Unlock()
		return nil, err
	}

	slog.Info("Локальная база открыта", "path", path)
	return &DB{bolt: db, lock: lock, path: path}, nil
}

// Path возвращает путь к файлу базы.
func (d *DB) Path() string {
	return d.path
}

// Cars возвращает хранилище коллекции.
func (d *DB) Cars() *CarStore {
	return &CarStore{db: d.bolt, now: time.Now}
}

// Prefs возвращает хранилище настроек.
func (d *DB) Prefs() *PrefStore {
	return &PrefStore{db: d.bolt}
}

// Close закрывает базу и освобождает блокировку.
func (d *DB) Close() error {
	err := d.bolt.Close()
	if unlockErr := d.lock.Unlock(); unlockErr != nil && err == nil {
		err = unlockErr
	}
	return err
}
