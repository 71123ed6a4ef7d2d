package models

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Category - метка категории модели. Набор значений закрыт.
type Category string

// Категории коллекции. Значения совпадают с теми, что хранятся в БД и передаются по сети.
const (
	CategoryMuscle  Category = "Muscle"
	CategoryExotic  Category = "Exotic"
	CategoryRace    Category = "Race"
	CategoryTruck   Category = "Truck"
	CategoryFantasy Category = "Fantasy"
	CategoryClassic Category = "Classic"
	CategoryOther   Category = "Other"

	// CategoryAll - псевдокатегория фильтра "все категории".
	CategoryAll Category = "All"
)

// Categories возвращает все категории в порядке отображения.
func Categories() []Category {
	return []Category{
		CategoryMuscle,
		CategoryExotic,
		CategoryRace,
		CategoryTruck,
		CategoryFantasy,
		CategoryClassic,
		CategoryOther,
	}
}

// ParseCategory возвращает категорию по ее имени (без учета регистра).
func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories() {
		if strings.EqualFold(string(c), strings.TrimSpace(s)) {
			return c, true
		}
	}
	return "", false
}

// Car представляет одну модель в коллекции.
// Тэги `json` совпадают с форматом, который использует сервер и локальное хранилище.
type Car struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Brand     string   `json:"brand,omitempty"`
	Model     string   `json:"model,omitempty"`
	Category  Category `json:"category"`
	ImageURL  string   `json:"imageUrl"`  // Обложка, всегда равна Images[0]
	Images    []string `json:"images"`    // Все фото, включая обложку
	DateAdded int64    `json:"dateAdded"` // Unix-время в миллисекундах, не меняется после создания
}

// Ошибки валидации формы.
var (
	ErrNameRequired   = errors.New("не указано название")
	ErrImagesRequired = errors.New("нужно хотя бы одно фото")
)

// NewCar создает новую запись с новым идентификатором и временем добавления now.
func NewCar(name, brand, model string, category Category, images []string, now time.Time) Car {
	car := Car{
		ID:        uuid.NewString(),
		Name:      name,
		Brand:     brand,
		Model:     model,
		Category:  category,
		Images:    append([]string(nil), images...),
		DateAdded: now.UnixMilli(),
	}
	car.Normalize()
	return car
}

// Normalize приводит запись к сохраняемому виду:
// обрезает пробелы в марке и модели и делает первое фото обложкой.
// Старые записи без списка фото получают список из одной обложки.
func (c *Car) Normalize() {
	c.Brand = strings.TrimSpace(c.Brand)
	c.Model = strings.TrimSpace(c.Model)
	if len(c.Images) == 0 && c.ImageURL != "" {
		c.Images = []string{c.ImageURL}
	}
	if len(c.Images) > 0 {
		c.ImageURL = c.Images[0]
	}
}

// Validate проверяет, что запись можно сохранить.
func (c Car) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrNameRequired
	}
	if len(c.Images) == 0 {
		return ErrImagesRequired
	}
	return nil
}

// AddedAt возвращает время добавления.
func (c Car) AddedAt() time.Time {
	return time.UnixMilli(c.DateAdded)
}

// Clone возвращает копию записи с отдельным срезом фото.
// Пустой и nil список различаются и сохраняются как есть.
func (c Car) Clone() Car {
	if c.Images != nil {
		c.Images = append(make([]string, 0, len(c.Images)), c.Images...)
	}
	return c
}

// SortByDateDesc сортирует записи от новых к старым.
func SortByDateDesc(cars []Car) {
	sort.SliceStable(cars, func(i, j int) bool {
		return cars[i].DateAdded > cars[j].DateAdded
	})
}
