package models

import "strings"

// Filter описывает условия отбора в списке.
// Пустые строки означают "без ограничения", Category пустая или CategoryAll - любые категории.
type Filter struct {
	Name     string
	Brand    string
	Model    string
	Category Category
}

// IsEmpty сообщает, что фильтр ничего не отсекает.
func (f Filter) IsEmpty() bool {
	return f.Name == "" && f.Brand == "" && f.Model == "" &&
		(f.Category == "" || f.Category == CategoryAll)
}

// Match проверяет одну запись.
func (f Filter) Match(c Car) bool {
	if !containsFold(c.Name, f.Name) {
		return false
	}
	if !containsFold(c.Brand, f.Brand) {
		return false
	}
	if !containsFold(c.Model, f.Model) {
		return false
	}
	if f.Category != "" && f.Category != CategoryAll && c.Category != f.Category {
		return false
	}
	return true
}

// Apply возвращает записи, подходящие под фильтр, сохраняя порядок.
// Полный проход по списку при каждом вызове, без индексов.
func (f Filter) Apply(cars []Car) []Car {
	out := make([]Car, 0, len(cars))
	for _, c := range cars {
		if f.Match(c) {
			out = append(out, c)
		}
	}
	return out
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
