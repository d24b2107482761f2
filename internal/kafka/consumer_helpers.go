package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/Gunvolt24/kgroup/internal/domain"
	"github.com/Gunvolt24/kgroup/internal/ports"
	"github.com/Gunvolt24/kgroup/pkg/metrics"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// dispatch — раздаёт запись снимку обработчиков по порядку регистрации.
// Ошибка или паника одного обработчика изолируется: логируем, считаем в метриках,
// отмечаем в спане и идём дальше.
func (g *ConsumerGroup) dispatch(ctx context.Context, rec *domain.Record, handlers []ports.MessageHandler) {
	ctx, span := g.tracer.Start(ctx, "kafka.dispatch",
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("messaging.destination.name", rec.Topic),
			attribute.Int("messaging.kafka.partition", rec.Partition),
			attribute.Int64("messaging.kafka.offset", rec.Offset),
			attribute.Int("handlers", len(handlers)),
		),
	)
	defer span.End()

	failed := 0
	for i, h := range handlers {
		if err := safeHandle(ctx, h, rec); err != nil {
			failed++
			span.RecordError(err)
			metrics.KafkaHandlerFailures.WithLabelValues(rec.Topic).Inc()
			g.log.Warnf(ctx, "handler #%d (%T) failed topic=%s partition=%d offset=%d: %v",
				i, h, rec.Topic, rec.Partition, rec.Offset, err)
			continue
		}
		metrics.KafkaRecordsDispatched.WithLabelValues(rec.Topic).Inc()
	}
	if failed > 0 {
		span.SetStatus(codes.Error, fmt.Sprintf("%d of %d handlers failed", failed, len(handlers)))
	}
}

// safeHandle — вызов обработчика с перехватом паники.
func safeHandle(ctx context.Context, h ports.MessageHandler, rec *domain.Record) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return h.Handle(ctx, rec)
}

// sleepWithBackoff ждет d или останавливается по контексту.
func sleepWithBackoff(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
