package kafka_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Gunvolt24/kgroup/internal/domain"
	mykafka "github.com/Gunvolt24/kgroup/internal/kafka"
)

type nopLogger struct{}

func (nopLogger) Infof(context.Context, string, ...any)  {}
func (nopLogger) Warnf(context.Context, string, ...any)  {}
func (nopLogger) Errorf(context.Context, string, ...any) {}

// fakeClient — клиент в памяти: пачки подаются через канал.
type fakeClient struct {
	batches chan []*domain.Record

	mu         sync.Mutex
	subscribed []string
	seeks      [][2]int64

	closed atomic.Int32
	polls  atomic.Int32
}

func newFakeClient() *fakeClient {
	return &fakeClient{batches: make(chan []*domain.Record, 16)}
}

func (f *fakeClient) Subscribe(topic string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subscribed = append(f.subscribed, topic)
	return nil
}

func (f *fakeClient) Poll(ctx context.Context, timeout time.Duration) ([]*domain.Record, error) {
	f.polls.Add(1)
	t := time.NewTimer(max(timeout, time.Millisecond))
	defer t.Stop()

	select {
	case <-ctx.Done():
		return nil, mykafka.ErrInterrupted
	case b := <-f.batches:
		return b, nil
	case <-t.C:
		return nil, nil
	}
}

func (f *fakeClient) Close() error {
	f.closed.Add(1)
	return nil
}

func (f *fakeClient) push(offsets ...int64) {
	batch := make([]*domain.Record, 0, len(offsets))
	for _, o := range offsets {
		batch = append(batch, &domain.Record{Topic: "orders", Partition: 0, Offset: o, Value: "v"})
	}
	f.batches <- batch
}

// seekableClient — fakeClient с поддержкой Seek.
type seekableClient struct{ *fakeClient }

func (s seekableClient) Seek(partition int, offset int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seeks = append(s.seeks, [2]int64{int64(partition), offset})
	return nil
}

func (s seekableClient) seekCalls() [][2]int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][2]int64(nil), s.seeks...)
}

// countingOpener — считает вызовы Open и отдаёт заранее созданного клиента.
type countingOpener struct {
	client mykafka.Client
	err    error
	opens  atomic.Int32
	props  atomic.Pointer[mykafka.Properties]
}

func (o *countingOpener) Open(props mykafka.Properties) (mykafka.Client, error) {
	o.opens.Add(1)
	o.props.Store(&props)
	if o.err != nil {
		return nil, o.err
	}
	return o.client, nil
}

// recordingHandler — запоминает offsets полученных записей.
type recordingHandler struct {
	mu      sync.Mutex
	offsets []int64
	err     error
	panics  bool
}

func (h *recordingHandler) Handle(_ context.Context, r *domain.Record) error {
	h.mu.Lock()
	h.offsets = append(h.offsets, r.Offset)
	h.mu.Unlock()
	if h.panics {
		panic("boom")
	}
	return h.err
}

func (h *recordingHandler) got() []int64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]int64(nil), h.offsets...)
}

var errHandler = errors.New("handler failed")

// runAsync запускает Run в отдельной горутине и возвращает канал с ошибкой.
func runAsync(ctx context.Context, g *mykafka.ConsumerGroup) <-chan error {
	errCh := make(chan error, 1)
	go func() { errCh <- g.Run(ctx) }()
	return errCh
}
