package ports

import (
	"context"

	"github.com/Gunvolt24/kgroup/internal/domain"
)

// RecordRepository — архив полученных записей.
type RecordRepository interface {
	Save(ctx context.Context, groupID string, record *domain.Record) error
	ListByTopic(ctx context.Context, topic string, limit, offset int) ([]*domain.Record, error)
}
