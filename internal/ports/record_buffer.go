package ports

import (
	"context"

	"github.com/Gunvolt24/kgroup/internal/domain"
)

// RecordBuffer — буфер последних записей в памяти.
// Требования к реализации: потокобезопасность; ограниченный размер; возврат копий.
type RecordBuffer interface {
	// Add — положить запись в буфер (вытесняя самую старую при переполнении).
	Add(ctx context.Context, record *domain.Record)

	// List — последние записи, от новых к старым, с пагинацией.
	List(ctx context.Context, limit, offset int) []*domain.Record

	// Get — запись по координатам, если она ещё в буфере и не просрочена.
	Get(ctx context.Context, topic string, partition int, offset int64) (*domain.Record, bool)
}
