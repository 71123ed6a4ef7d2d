package middleware

import "net/http"

// DefaultMaxBodyBytes - предел тела запроса по умолчанию (фото передаются в base64 внутри JSON).
const DefaultMaxBodyBytes int64 = 50 << 20

// BodyLimit ограничивает размер тела запроса. Чтение сверх предела завершается ошибкой,
// которую обработчик видит как ошибку декодирования JSON.
func BodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil && maxBytes > 0 {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}
