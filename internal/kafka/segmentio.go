package kafka

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Gunvolt24/kgroup/internal/domain"
	"github.com/segmentio/kafka-go"
)

const (
	// segmentioMinWait — kafka-go не умеет «вернуться сразу»: нулевой дедлайн
	// гонится с уже буферизованными сообщениями, поэтому ждём хотя бы столько.
	segmentioMinWait = 5 * time.Millisecond
	// segmentioDrainWait — ожидание следующего уже прочитанного сообщения при добивке пачки.
	segmentioDrainWait = time.Millisecond
	maxBatchSize       = 500
)

// reader — минимальный контракт над kafka.Reader,
// чтобы легко подменять его моками в тестах.
type reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// segmentioClient — драйвер на segmentio/kafka-go. Оффсеты не коммитятся
// (FetchMessage без CommitMessages), перемотка не поддерживается:
// kafka-go запрещает SetOffset у читателя с GroupID.
type segmentioClient struct {
	props     Properties
	newReader func(kafka.ReaderConfig) reader
	reader    reader
	topic     string
}

// NewSegmentioOpener — фабрика клиентов на kafka.Reader.
func NewSegmentioOpener() Opener {
	return OpenerFunc(func(props Properties) (Client, error) {
		return newSegmentioClient(props, func(rc kafka.ReaderConfig) reader { return kafka.NewReader(rc) }), nil
	})
}

func newSegmentioClient(props Properties, newReader func(kafka.ReaderConfig) reader) *segmentioClient {
	return &segmentioClient{props: props, newReader: newReader}
}

// ReaderConfig — конфигурация kafka.Reader из свойств группы.
func (p *Properties) ReaderConfig(topic string) kafka.ReaderConfig {
	rc := kafka.ReaderConfig{
		Brokers:        p.BootstrapServers,
		GroupID:        p.GroupID,
		Topic:          topic,
		MinBytes:       1,
		MaxBytes:       p.MaxPartitionFetchBytes,
		MaxWait:        p.FetchMaxWait,
		CommitInterval: 0,
		Dialer: &kafka.Dialer{
			ClientID:  p.ClientID,
			Timeout:   10 * time.Second,
			DualStack: true,
		},
	}

	switch p.AutoOffsetReset {
	case "latest":
		rc.StartOffset = kafka.LastOffset
	default:
		rc.StartOffset = kafka.FirstOffset
	}

	return rc
}

func (c *segmentioClient) Subscribe(topic string) error {
	if c.reader != nil {
		return fmt.Errorf("kafka: already subscribed to %s", c.topic)
	}
	c.topic = topic
	c.reader = c.newReader(c.props.ReaderConfig(topic))
	return nil
}

// Poll — первое сообщение ждём не дольше timeout, затем добираем уже
// буферизованные сообщения, пока они приходят без ожидания.
func (c *segmentioClient) Poll(ctx context.Context, timeout time.Duration) ([]*domain.Record, error) {
	if c.reader == nil {
		return nil, ErrNotSubscribed
	}

	msg, ok, err := c.fetch(ctx, max(timeout, segmentioMinWait))
	if err != nil || !ok {
		return nil, err
	}

	batch := make([]*domain.Record, 0, 16)
	for {
		rec, derr := c.toRecord(&msg)
		if derr != nil {
			return nil, derr
		}
		batch = append(batch, rec)
		if len(batch) >= maxBatchSize {
			return batch, nil
		}

		msg, ok, err = c.fetch(ctx, segmentioDrainWait)
		if err != nil {
			if errors.Is(err, ErrInterrupted) {
				// Уже полученное отдаём; остановку цикл увидит по контексту.
				return batch, nil
			}
			return nil, err
		}
		if !ok {
			return batch, nil
		}
	}
}

// fetch — одно сообщение с ограничением ожидания; (_, false, nil) — таймаут без данных.
func (c *segmentioClient) fetch(ctx context.Context, wait time.Duration) (kafka.Message, bool, error) {
	fctx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()

	msg, err := c.reader.FetchMessage(fctx)
	switch {
	case err == nil:
		return msg, true, nil
	case ctx.Err() != nil:
		return kafka.Message{}, false, ErrInterrupted
	case errors.Is(err, context.DeadlineExceeded):
		return kafka.Message{}, false, nil
	default:
		return kafka.Message{}, false, err
	}
}

func (c *segmentioClient) toRecord(msg *kafka.Message) (*domain.Record, error) {
	key, value, err := decodeKV(&c.props, msg.Topic, msg.Key, msg.Value)
	if err != nil {
		return nil, fmt.Errorf("offset=%d: %w", msg.Offset, err)
	}
	var headers map[string][]byte
	if len(msg.Headers) > 0 {
		headers = make(map[string][]byte, len(msg.Headers))
		for _, h := range msg.Headers {
			headers[h.Key] = h.Value
		}
	}
	return &domain.Record{
		Topic:     msg.Topic,
		Partition: msg.Partition,
		Offset:    msg.Offset,
		Key:       key,
		Value:     value,
		Timestamp: msg.Time,
		Headers:   headers,
	}, nil
}

func (c *segmentioClient) Close() error {
	if c.reader == nil {
		return nil
	}
	return c.reader.Close()
}
