package ports

import "context"

// Logger — минимальный контракт логгера для внешних слоёв.
// Метаданные (request_id, group_id, client_id) логгер достаёт из контекста сам.
type Logger interface {
	Infof(ctx context.Context, format string, args ...any)
	Warnf(ctx context.Context, format string, args ...any)
	Errorf(ctx context.Context, format string, args ...any)
}

// NopLogger — логгер, который ничего не пишет (тихий режим CLI, nil-логгер в конструкторах).
type NopLogger struct{}

func (NopLogger) Infof(context.Context, string, ...any)  {}
func (NopLogger) Warnf(context.Context, string, ...any)  {}
func (NopLogger) Errorf(context.Context, string, ...any) {}
