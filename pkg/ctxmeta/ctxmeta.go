// Пакет ctxmeta — нейтральный слой для метаданных, которые прокидываются
// через context.Context: request_id HTTP-запроса, идентификаторы группы потребителя,
// trace/span активного спана. HTTP-слой, цикл опроса и логгер зависят от него,
// но не друг от друга.
package ctxmeta

import "context"

type ctxKey string

const (
	// Ключи контекста (неэкспортируемый тип — чтобы избежать коллизий).
	KeyRequestID ctxKey = "request_id"
	KeyGroupID   ctxKey = "group_id"
	KeyClientID  ctxKey = "client_id"
)

// WithRequestID кладёт request_id в контекст (если пусто — ничего не делает).
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return withString(ctx, KeyRequestID, requestID)
}

// RequestIDFromContext достаёт request_id из контекста.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	return stringFrom(ctx, KeyRequestID)
}

// WithConsumer кладёт group_id и client_id группы потребителя.
func WithConsumer(ctx context.Context, groupID, clientID string) context.Context {
	return withString(withString(ctx, KeyGroupID, groupID), KeyClientID, clientID)
}

// GroupIDFromContext достаёт group_id.
func GroupIDFromContext(ctx context.Context) (string, bool) {
	return stringFrom(ctx, KeyGroupID)
}

// ClientIDFromContext достаёт client_id.
func ClientIDFromContext(ctx context.Context) (string, bool) {
	return stringFrom(ctx, KeyClientID)
}

func withString(ctx context.Context, key ctxKey, v string) context.Context {
	if ctx == nil || v == "" {
		return ctx
	}
	return context.WithValue(ctx, key, v)
}

func stringFrom(ctx context.Context, key ctxKey) (string, bool) {
	if ctx == nil {
		return "", false
	}
	if v, ok := ctx.Value(key).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
