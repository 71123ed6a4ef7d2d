package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// Имена колонок совпадают с исходной схемой (imageUrl, dateAdded),
// поэтому существующий файл cars.db подхватывается без переноса данных.
const createCarsTable = `CREATE TABLE IF NOT EXISTS cars (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	brand TEXT,
	model TEXT,
	category TEXT,
	imageUrl TEXT,
	images TEXT,
	dateAdded BIGINT
)`

const addImagesColumn = `ALTER TABLE cars ADD COLUMN images TEXT`

// columnsQuery возвращает запрос списка колонок таблицы cars для драйвера.
func columnsQuery(driver string) string {
	if driver == DriverPostgres {
		return `SELECT column_name FROM information_schema.columns WHERE table_name = 'cars'`
	}
	return `SELECT name FROM pragma_table_info('cars')`
}

// Migrate создает таблицу cars, если ее нет, и добавляет колонку images
// для баз, созданных до появления нескольких фото.
// Повторный вызов ничего не меняет.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, createCarsTable); err != nil {
		return fmt.Errorf("ошибка создания таблицы cars: %w", err)
	}

	var columns []string
	if err := db.SelectContext(ctx, &columns, columnsQuery(db.DriverName())); err != nil {
		return fmt.Errorf("ошибка чтения списка колонок cars: %w", err)
	}

	for _, c := range columns {
		if strings.EqualFold(c, "images") {
			return nil
		}
	}

	log.Warn().Msg("Обновление схемы БД: добавляется колонка 'images'...")
	if _, err := db.ExecContext(ctx, addImagesColumn); err != nil {
		return fmt.Errorf("ошибка добавления колонки images: %w", err)
	}
	return nil
}
