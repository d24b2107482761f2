package usecase

import (
	"context"

	"github.com/Gunvolt24/kgroup/internal/domain"
	"github.com/Gunvolt24/kgroup/internal/kafka"
	"github.com/Gunvolt24/kgroup/internal/ports"
)

// Проверка, что ConsumerService удовлетворяет интерфейсу ConsumerAdminService.
var _ ports.ConsumerAdminService = (*ConsumerService)(nil)

// consumerGroup — то, что админке нужно от *kafka.ConsumerGroup.
type consumerGroup interface {
	ClientID() string
	GroupID() string
	Topic() string
	State() kafka.State
	Offset() int64
	SetOffset(offset int64) error
	HandlerCount() int
	Shutdown()
}

// ConsumerService — фасад управления одной группой для HTTP-слоя.
type ConsumerService struct {
	group   consumerGroup
	records *RecordService
	log     ports.Logger
}

// NewConsumerService — DI-конструктор.
func NewConsumerService(group consumerGroup, records *RecordService, log ports.Logger) *ConsumerService {
	return &ConsumerService{group: group, records: records, log: log}
}

// Info — снимок идентификаторов и состояния группы.
func (s *ConsumerService) Info(_ context.Context) ports.ConsumerInfo {
	return ports.ConsumerInfo{
		ClientID: s.group.ClientID(),
		GroupID:  s.group.GroupID(),
		Topic:    s.group.Topic(),
		State:    s.group.State().String(),
		Offset:   s.group.Offset(),
		Handlers: s.group.HandlerCount(),
	}
}

// SetOffset — kafka.ErrNotRunning, если группа не запущена.
func (s *ConsumerService) SetOffset(ctx context.Context, offset int64) error {
	if err := s.group.SetOffset(offset); err != nil {
		s.log.Warnf(ctx, "set offset=%d rejected: %v", offset, err)
		return err
	}
	s.log.Infof(ctx, "offset set to %d", offset)
	return nil
}

// Shutdown — остановка группы по запросу оператора.
func (s *ConsumerService) Shutdown(ctx context.Context) {
	s.log.Infof(ctx, "consumer group shutdown requested state=%s", s.group.State())
	s.group.Shutdown()
}

func (s *ConsumerService) RecentRecords(ctx context.Context, limit, offset int) []*domain.Record {
	return s.records.RecentRecords(ctx, limit, offset)
}

// RecentRecord — запись топика группы из буфера.
func (s *ConsumerService) RecentRecord(ctx context.Context, partition int, offset int64) (*domain.Record, bool) {
	return s.records.RecentRecord(ctx, s.group.Topic(), partition, offset)
}

func (s *ConsumerService) ArchivedRecords(ctx context.Context, topic string, limit, offset int) ([]*domain.Record, error) {
	return s.records.ArchivedRecords(ctx, topic, limit, offset)
}
