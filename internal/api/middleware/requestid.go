// requestid.go — middleware присвоения request id каждому запросу.
// Id принимается из заголовка X-Request-Id (если пришёл от gateway)
// или генерируется как UUID v4; кладётся в контекст и в ответ.
package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// contextKey — тип для ключей контекста (избегаем коллизий).
type contextKey string

// ContextKeyRequestID — ключ request id в контексте запроса.
const ContextKeyRequestID contextKey = "request_id"

// requestIDHeader — HTTP-заголовок request id.
const requestIDHeader = "X-Request-Id"

// RequestID возвращает middleware, присваивающий запросу request id.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(requestIDHeader)
			if id == "" {
				id = uuid.New().String()
			}

			ctx := context.WithValue(r.Context(), ContextKeyRequestID, id)
			w.Header().Set(requestIDHeader, id)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestIDFromContext возвращает request id из контекста или пустую строку.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return id
	}
	return ""
}
