package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/Gunvolt24/kgroup/internal/domain"
	"github.com/Gunvolt24/kgroup/internal/ports"
	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
)

// confluentPollSlice — максимальный кусок блокирующего Poll: librdkafka нельзя
// разбудить извне, поэтому контекст проверяется между кусками.
const confluentPollSlice = 100 * time.Millisecond

// confluentConsumer — часть *kafka.Consumer, которой пользуется драйвер.
type confluentConsumer interface {
	SubscribeTopics(topics []string, rebalanceCb kafka.RebalanceCb) error
	Poll(timeoutMs int) kafka.Event
	Seek(partition kafka.TopicPartition, ignoredTimeoutMs int) error
	Close() error
}

// Проверка, что драйвер умеет перематывать позицию.
var _ Seeker = (*confluentClient)(nil)

// confluentClient — драйвер на confluent-kafka-go (librdkafka).
type confluentClient struct {
	props    Properties
	consumer confluentConsumer
	log      ports.Logger
	topic    string
}

// NewConfluentOpener — фабрика клиентов на librdkafka.
func NewConfluentOpener(log ports.Logger) Opener {
	return OpenerFunc(func(props Properties) (Client, error) {
		cm := props.ConfigMap()
		c, err := kafka.NewConsumer(&cm)
		if err != nil {
			return nil, fmt.Errorf("confluent consumer: %w", err)
		}
		return &confluentClient{props: props, consumer: c, log: log}, nil
	})
}

// ConfigMap — свойства в именах librdkafka. schema.registry.url и десериализаторы
// librdkafka не знает, они применяются на стороне драйвера.
func (p *Properties) ConfigMap() kafka.ConfigMap {
	reset := p.AutoOffsetReset
	if reset == "" {
		reset = OffsetResetEarliest
	}
	return kafka.ConfigMap{
		"bootstrap.servers":         joinBrokers(p.BootstrapServers),
		"client.id":                 p.ClientID,
		"group.id":                  p.GroupID,
		"enable.auto.commit":        p.EnableAutoCommit,
		"fetch.wait.max.ms":         int(p.FetchMaxWait.Milliseconds()),
		"max.partition.fetch.bytes": p.MaxPartitionFetchBytes,
		"auto.offset.reset":         reset,
	}
}

func (c *confluentClient) Subscribe(topic string) error {
	c.topic = topic
	return c.consumer.SubscribeTopics([]string{topic}, nil)
}

// Poll — ждёт первое сообщение не дольше timeout (кусками), затем забирает
// уже готовые события через Poll(0).
func (c *confluentClient) Poll(ctx context.Context, timeout time.Duration) ([]*domain.Record, error) {
	deadline := time.Now().Add(timeout)

	var first *domain.Record
	for first == nil {
		if ctx.Err() != nil {
			return nil, ErrInterrupted
		}
		remaining := time.Until(deadline)
		slice := min(max(remaining, 0), confluentPollSlice)

		rec, err := c.handleEvent(ctx, c.consumer.Poll(int(slice.Milliseconds())))
		if err != nil {
			return nil, err
		}
		if rec != nil {
			first = rec
			break
		}
		if remaining <= 0 {
			return nil, nil
		}
	}

	batch := []*domain.Record{first}
	for len(batch) < maxBatchSize {
		ev := c.consumer.Poll(0)
		if ev == nil {
			break
		}
		rec, err := c.handleEvent(ctx, ev)
		if err != nil {
			return nil, err
		}
		if rec != nil {
			batch = append(batch, rec)
		}
	}
	return batch, nil
}

// handleEvent — сообщение превращается в запись; фатальная ошибка librdkafka
// возвращается как ошибка транспорта; прочие события пропускаются.
func (c *confluentClient) handleEvent(ctx context.Context, ev kafka.Event) (*domain.Record, error) {
	switch e := ev.(type) {
	case nil:
		return nil, nil
	case *kafka.Message:
		if e.TopicPartition.Error != nil {
			return nil, fmt.Errorf("partition=%d: %w", e.TopicPartition.Partition, e.TopicPartition.Error)
		}
		return c.toRecord(e)
	case kafka.Error:
		if e.IsFatal() {
			return nil, fmt.Errorf("confluent fatal: %w", e)
		}
		c.log.Warnf(ctx, "confluent consumer error code=%s: %v", e.Code(), e)
		return nil, nil
	default:
		return nil, nil
	}
}

func (c *confluentClient) toRecord(msg *kafka.Message) (*domain.Record, error) {
	topic := c.topic
	if msg.TopicPartition.Topic != nil {
		topic = *msg.TopicPartition.Topic
	}
	offset := int64(msg.TopicPartition.Offset)

	key, value, err := decodeKV(&c.props, topic, msg.Key, msg.Value)
	if err != nil {
		return nil, fmt.Errorf("offset=%d: %w", offset, err)
	}
	var headers map[string][]byte
	if len(msg.Headers) > 0 {
		headers = make(map[string][]byte, len(msg.Headers))
		for _, h := range msg.Headers {
			headers[h.Key] = h.Value
		}
	}
	return &domain.Record{
		Topic:     topic,
		Partition: int(msg.TopicPartition.Partition),
		Offset:    offset,
		Key:       key,
		Value:     value,
		Timestamp: msg.Timestamp,
		Headers:   headers,
	}, nil
}

// Seek — следующая прочитанная запись партиции будет иметь данный offset.
func (c *confluentClient) Seek(partition int, offset int64) error {
	topic := c.topic
	return c.consumer.Seek(kafka.TopicPartition{
		Topic:     &topic,
		Partition: int32(partition),
		Offset:    kafka.Offset(offset),
	}, 0)
}

func (c *confluentClient) Close() error {
	return c.consumer.Close()
}
