package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // Драйвер PostgreSQL, импортируем для регистрации
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite" // Драйвер SQLite (без cgo), импортируем для регистрации
)

// Поддерживаемые драйверы БД.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const (
	maxOpenConns    = 25              // Максимальное количество открытых соединений
	maxIdleConns    = 25              // Максимальное количество простаивающих соединений
	connMaxLifetime = 5 * time.Minute // Максимальное время жизни соединения
	connMaxIdleTime = 5 * time.Minute // Максимальное время простоя соединения
)

// ErrUnsupportedDriver возвращается для неизвестного имени драйвера.
var ErrUnsupportedDriver = errors.New("неподдерживаемый драйвер БД")

//nolint:gochecknoinits // Регистрация плейсхолдеров для драйвера modernc.org/sqlite
func init() {
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// NewDB создает и возвращает новое подключение к БД.
func NewDB(driver, dsn string) (*sqlx.DB, error) {
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
	log.Info().Str("driver", driver).Msg("Подключение к БД...")

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к БД: %w", err)
	}

	// Проверка соединения
	if err = db.Ping(); err != nil {
		// Закрываем соединение в случае ошибки пинга
		if closeErr := db.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("Ошибка закрытия соединения с БД после неудачного пинга")
		}
		return nil, fmt.Errorf("ошибка проверки соединения с БД (ping): %w", err)
	}

	// Настройка пула соединений
	if driver == DriverSQLite {
		// SQLite допускает одного писателя, лишние соединения дают SQLITE_BUSY
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(maxOpenConns)
		db.SetMaxIdleConns(maxIdleConns)
		db.SetConnMaxLifetime(connMaxLifetime)
		db.SetConnMaxIdleTime(connMaxIdleTime)
	}

	log.Info().Str("driver", driver).Msg("Подключение к БД успешно установлено.")
	return db, nil
}
