package ports

import (
	"context"

	"github.com/Gunvolt24/kgroup/internal/domain"
)

// ConsumerInfo — снимок состояния группы для админ-API.
type ConsumerInfo struct {
	ClientID string `json:"client_id"`
	GroupID  string `json:"group_id"`
	Topic    string `json:"topic"`
	State    string `json:"state"`
	Offset   int64  `json:"offset"`
	Handlers int    `json:"handlers"`
}

// ConsumerAdminService — операции над группой, доступные из HTTP-слоя.
type ConsumerAdminService interface {
	Info(ctx context.Context) ConsumerInfo
	SetOffset(ctx context.Context, offset int64) error
	Shutdown(ctx context.Context)
	RecentRecords(ctx context.Context, limit, offset int) []*domain.Record
	RecentRecord(ctx context.Context, partition int, offset int64) (*domain.Record, bool)
	ArchivedRecords(ctx context.Context, topic string, limit, offset int) ([]*domain.Record, error)
}
