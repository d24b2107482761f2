package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Gunvolt24/kgroup/internal/domain"
	"github.com/Gunvolt24/kgroup/internal/ports"
	"github.com/Gunvolt24/kgroup/pkg/ctxmeta"
	"github.com/Gunvolt24/kgroup/pkg/metrics"
)

// Проверка, что RecordService регистрируется в группе как обработчик.
var _ ports.MessageHandler = (*RecordService)(nil)

// ErrArchiveDisabled — архив в Postgres не подключён.
var ErrArchiveDisabled = errors.New("record archive is disabled")

// DefaultGroupName — имя группы для архива, если в контексте нет group_id.
const DefaultGroupName = "kgroup"

// RecordService — прикладная логика обработки записей (без знаний о транспорте):
// проверка, буфер последних записей и архив.
type RecordService struct {
	repo           ports.RecordRepository // nil — архив выключен
	buffer         ports.RecordBuffer
	log            ports.Logger
	validator      ports.RecordValidator
	processTimeout time.Duration
}

// NewRecordService — DI-конструктор. repo может быть nil.
func NewRecordService(
	repo ports.RecordRepository,
	buffer ports.RecordBuffer,
	log ports.Logger,
	validator ports.RecordValidator,
	processTimeout time.Duration,
) *RecordService {
	return &RecordService{
		repo:           repo,
		buffer:         buffer,
		log:            log,
		validator:      validator,
		processTimeout: processTimeout,
	}
}

// Handle — обработчик записи из группы.
// Шаги:
//  1. доменная валидация; невалидная запись пропускается с предупреждением;
//  2. запись в буфер последних записей;
//  3. сохранение в архив с ограничением по времени (если архив подключён).
//
// Ошибка архива возвращается группе: она её залогирует и учтёт, цикл продолжится.
func (s *RecordService) Handle(ctx context.Context, record *domain.Record) error {
	if err := s.validator.Validate(ctx, record); err != nil {
		metrics.ArchiveOps.WithLabelValues("invalid").Inc()
		s.log.Warnf(ctx, "record skipped: %v", err)
		return nil
	}

	s.buffer.Add(ctx, record)

	if s.repo == nil {
		return nil
	}

	saveCtx := ctx
	if s.processTimeout > 0 {
		var cancel context.CancelFunc
		saveCtx, cancel = context.WithTimeout(ctx, s.processTimeout)
		defer cancel()
	}

	start := time.Now()
	if err := s.repo.Save(saveCtx, groupName(ctx), record); err != nil {
		metrics.ArchiveOps.WithLabelValues("failed").Inc()
		s.log.Errorf(ctx, "repo.Save failed topic=%s partition=%d offset=%d err=%v",
			record.Topic, record.Partition, record.Offset, err)
		return fmt.Errorf("archive record offset=%d: %w", record.Offset, err)
	}
	metrics.ArchiveOps.WithLabelValues("saved").Inc()
	s.log.Infof(ctx, "record archived topic=%s offset=%d took=%s", record.Topic, record.Offset, time.Since(start))
	return nil
}

// RecentRecords — последние записи из буфера (пагинация уже валидирована на верхнем уровне).
func (s *RecordService) RecentRecords(ctx context.Context, limit, offset int) []*domain.Record {
	return s.buffer.List(ctx, limit, offset)
}

// RecentRecord — одна запись из буфера по координатам.
func (s *RecordService) RecentRecord(ctx context.Context, topic string, partition int, offset int64) (*domain.Record, bool) {
	return s.buffer.Get(ctx, topic, partition, offset)
}

// ArchivedRecords — проксирование в репозиторий.
func (s *RecordService) ArchivedRecords(ctx context.Context, topic string, limit, offset int) ([]*domain.Record, error) {
	if s.repo == nil {
		return nil, ErrArchiveDisabled
	}
	records, err := s.repo.ListByTopic(ctx, topic, limit, offset)
	if err != nil {
		s.log.Errorf(ctx, "repo.ListByTopic failed topic=%s err=%v", topic, err)
		return nil, err
	}
	return records, nil
}

func groupName(ctx context.Context) string {
	if id, ok := ctxmeta.GroupIDFromContext(ctx); ok && id != "" {
		return id
	}
	return DefaultGroupName
}
