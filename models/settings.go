package models

// ViewMode - раскладка списка.
type ViewMode string

const (
	ViewVerticalGrid     ViewMode = "VERTICAL_GRID"
	ViewHorizontalScroll ViewMode = "HORIZONTAL_SCROLL"
)

// Language - язык интерфейса.
type Language string

const (
	LangPT Language = "pt"
	LangEN Language = "en"
)

// StorageMode - активное хранилище коллекции.
type StorageMode string

const (
	StorageLocal  StorageMode = "local"
	StorageServer StorageMode = "server"
)

// Valid сообщает, что значение входит в допустимый набор.
func (v ViewMode) Valid() bool {
	return v == ViewVerticalGrid || v == ViewHorizontalScroll
}

// Valid сообщает, что значение входит в допустимый набор.
func (l Language) Valid() bool {
	return l == LangPT || l == LangEN
}

// Valid сообщает, что значение входит в допустимый набор.
func (s StorageMode) Valid() bool {
	return s == StorageLocal || s == StorageServer
}
