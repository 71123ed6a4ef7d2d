package models

// ListResponse - тело ответа GET /api/cars.
type ListResponse struct {
	Data []Car `json:"data"`
}

// MutationResponse - тело ответа на создание, изменение и удаление.
type MutationResponse struct {
	Message string `json:"message"`
	Data    *Car   `json:"data,omitempty"`
	Changes *int64 `json:"changes,omitempty"` // Количество затронутых строк (только для удаления)
}

// ErrorResponse - тело ответа с ошибкой.
type ErrorResponse struct {
	Error string `json:"error"`
}
