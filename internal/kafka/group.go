package kafka

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/Gunvolt24/kgroup/internal/domain"
	"github.com/Gunvolt24/kgroup/internal/ports"
	"github.com/Gunvolt24/kgroup/pkg/ctxmeta"
	"github.com/Gunvolt24/kgroup/pkg/metrics"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Проверка, что ConsumerGroup удовлетворяет интерфейсу верхнего уровня (порт приложения).
var _ ports.MessageConsumer = (*ConsumerGroup)(nil)

// NoOffset — значение Offset до первой полученной записи.
const NoOffset int64 = -1

// ErrNotRunning — операция допустима только в состоянии RUNNING.
var ErrNotRunning = errors.New("kafka: consumer group is not running")

// State — стадия жизненного цикла группы.
type State int32

const (
	StateUninitialized State = iota
	StateRunning
	StateStopped // терминальное: повторный Run — no-op, нужна новая группа
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "UNINITIALIZED"
	case StateRunning:
		return "RUNNING"
	case StateStopped:
		return "STOPPED"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Option — необязательные параметры группы.
type Option func(*ConsumerGroup)

// WithConfigHook — хук специализации конфигурации (выполняется в Run до вывода свойств).
func WithConfigHook(hook ConfigHook) Option {
	return func(g *ConsumerGroup) { g.hook = hook }
}

// WithTracer — трейсер для спанов диспетчеризации (по умолчанию глобальный otel).
func WithTracer(tracer trace.Tracer) Option {
	return func(g *ConsumerGroup) {
		if tracer != nil {
			g.tracer = tracer
		}
	}
}

type seekRequest struct {
	partition int
	offset    int64
}

// ConsumerGroup — один логический подписчик топика: владеет циклом опроса,
// отслеживает последний offset и раздаёт записи зарегистрированным обработчикам.
type ConsumerGroup struct {
	cfg    ConsumerConfig
	opener Opener
	log    ports.Logger
	hook   ConfigHook
	tracer trace.Tracer

	clientID string
	groupID  string

	handlers      handlerRegistry
	lastOffset    atomic.Int64
	lastPartition atomic.Int64

	// mu защищает client/wake/state/pendingSeek/starting/stopRequested.
	// Клиента создаёт и очищает только контроллер жизненного цикла.
	// Под mu не выполняются ни хук конфигурации, ни Opener.Open.
	mu            sync.Mutex
	client        Client
	wake          context.CancelFunc
	state         State
	pendingSeek   *seekRequest
	starting      bool
	stopRequested bool
}

// NewConsumerGroup — конструктор. Ошибки конфигурации обнаруживаются здесь, а не в Run.
func NewConsumerGroup(cfg *ConsumerConfig, opener Opener, log ports.Logger, opts ...Option) (*ConsumerGroup, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if opener == nil {
		return nil, fmt.Errorf("%w: opener is nil", ErrInvalidConfig)
	}
	if log == nil {
		log = ports.NopLogger{}
	}

	g := &ConsumerGroup{
		cfg:      cfg.clone(),
		opener:   opener,
		log:      log,
		tracer:   otel.Tracer("github.com/Gunvolt24/kgroup/internal/kafka"),
		clientID: uuid.NewString(),
		groupID:  uuid.NewString(),
		state:    StateUninitialized,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.lastOffset.Store(NoOffset)
	g.lastPartition.Store(0)
	return g, nil
}

// ClientID — сгенерированный при создании идентификатор клиента.
func (g *ConsumerGroup) ClientID() string { return g.clientID }

// GroupID — сгенерированный при создании идентификатор группы.
func (g *ConsumerGroup) GroupID() string { return g.groupID }

// Topic — топик из исходной конфигурации.
func (g *ConsumerGroup) Topic() string { return g.cfg.Topic }

// Config — копия исходной конфигурации (без изменений хука).
func (g *ConsumerGroup) Config() ConsumerConfig { return g.cfg.clone() }

// State — текущая стадия жизненного цикла.
func (g *ConsumerGroup) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Running — есть ли сейчас клиентское соединение.
func (g *ConsumerGroup) Running() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.client != nil
}

// Offset — offset последней полученной записи или NoOffset.
func (g *ConsumerGroup) Offset() int64 { return g.lastOffset.Load() }

// SetOffset — меняет отслеживаемый offset (только в RUNNING).
// Если клиент умеет Seek, цикл перемотает чтение на offset+1 перед следующим Poll;
// иначе значение только запоминается, а чтение продолжается с прежней позиции.
func (g *ConsumerGroup) SetOffset(offset int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.client == nil {
		return ErrNotRunning
	}
	g.lastOffset.Store(offset)
	if _, ok := g.client.(Seeker); ok {
		g.pendingSeek = &seekRequest{partition: int(g.lastPartition.Load()), offset: offset}
		return nil
	}
	g.log.Warnf(g.logCtx(context.Background()), "client cannot seek: offset=%d tracked only, consumption position unchanged", offset)
	return nil
}

// Register — добавить обработчик; nil и повторная регистрация — no-op.
func (g *ConsumerGroup) Register(h ports.MessageHandler) bool {
	return g.handlers.add(h)
}

// Remove — true, если обработчик был зарегистрирован.
func (g *ConsumerGroup) Remove(h ports.MessageHandler) bool {
	return g.handlers.remove(h)
}

// HandlerCount — число зарегистрированных обработчиков.
func (g *ConsumerGroup) HandlerCount() int { return g.handlers.len() }

// Run — инициализирует клиента, подписывается и крутит цикл опроса в текущей горутине.
// Повторный вызов при работающей (или уже остановленной) группе — no-op.
// Штатная остановка (Shutdown, отмена ctx) возвращает nil; ошибка транспорта — ошибку.
func (g *ConsumerGroup) Run(ctx context.Context) error {
	client, pollCtx, cfg, err := g.start(ctx)
	if err != nil || client == nil {
		return err
	}
	pollCtx = g.logCtx(pollCtx)
	defer g.finish(pollCtx, client)

	g.log.Infof(pollCtx, "kafka consumer group started topic=%s brokers=%v", cfg.Topic, cfg.Brokers)

	if err := client.Subscribe(cfg.Topic); err != nil {
		return fmt.Errorf("subscribe topic=%s: %w", cfg.Topic, err)
	}
	return g.loop(pollCtx, client, &cfg)
}

// Shutdown — будит заблокированный Poll и сразу очищает ссылку на клиента.
// Цикл может ещё завершать текущий шаг; клиента закроет Run.
func (g *ConsumerGroup) Shutdown() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.client == nil {
		// Запуск ещё идёт: клиента закроет start, как только Open вернётся.
		if g.starting {
			g.stopRequested = true
		}
		return
	}
	g.wake()
	g.client = nil
	g.wake = nil
	g.pendingSeek = nil
	g.state = StateStopped
}

// Close — адаптер к ports.MessageConsumer.
func (g *ConsumerGroup) Close() error {
	g.Shutdown()
	return nil
}

// start — переход UNINITIALIZED → RUNNING. Возвращает nil-клиента, если запуск не нужен
// или Shutdown пришёл, пока открывалось соединение.
func (g *ConsumerGroup) start(ctx context.Context) (Client, context.Context, ConsumerConfig, error) {
	g.mu.Lock()
	if g.client != nil || g.starting || g.state == StateStopped {
		g.mu.Unlock()
		return nil, nil, ConsumerConfig{}, nil
	}
	g.starting = true
	g.mu.Unlock()

	cfg, props, err := g.cfg.resolve(g.hook, g.clientID, g.groupID)
	if err != nil {
		g.abortStart(StateUninitialized)
		return nil, nil, ConsumerConfig{}, err
	}
	if g.stopPending() {
		g.abortStart(StateStopped)
		return nil, nil, ConsumerConfig{}, nil
	}

	client, err := g.opener.Open(props)
	if err != nil {
		g.abortStart(StateStopped)
		return nil, nil, ConsumerConfig{}, fmt.Errorf("open kafka client: %w", err)
	}

	g.mu.Lock()
	g.starting = false
	if g.stopRequested {
		g.state = StateStopped
		g.mu.Unlock()
		if err := client.Close(); err != nil {
			g.log.Warnf(g.logCtx(ctx), "kafka client close failed: %v", err)
		}
		g.log.Infof(g.logCtx(ctx), "kafka consumer group stopped before start")
		return nil, nil, ConsumerConfig{}, nil
	}
	pollCtx, wake := context.WithCancel(ctx)
	g.client = client
	g.wake = wake
	g.state = StateRunning
	g.mu.Unlock()
	metrics.KafkaGroupsRunning.Inc()

	g.log.Infof(g.logCtx(ctx), "kafka client opened properties=%v", props.Map())
	return client, pollCtx, cfg, nil
}

func (g *ConsumerGroup) stopPending() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stopRequested
}

// abortStart — неудачный запуск; state фиксирует, в какую стадию откатиться.
func (g *ConsumerGroup) abortStart(state State) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.starting = false
	if g.stopRequested {
		state = StateStopped
	}
	g.state = state
}

// finish — закрывает клиента при любом выходе из цикла и фиксирует STOPPED.
func (g *ConsumerGroup) finish(ctx context.Context, client Client) {
	g.mu.Lock()
	if g.client == client {
		g.wake()
		g.client = nil
		g.wake = nil
		g.pendingSeek = nil
	}
	g.state = StateStopped
	g.mu.Unlock()

	metrics.KafkaGroupsRunning.Dec()
	if err := client.Close(); err != nil {
		g.log.Warnf(ctx, "kafka client close failed: %v", err)
	}
	g.log.Infof(ctx, "kafka consumer group stopped last_offset=%d", g.Offset())
}

// loop — цикл опроса: Poll → обновление offset → раздача снимку обработчиков → пауза.
func (g *ConsumerGroup) loop(ctx context.Context, client Client, cfg *ConsumerConfig) error {
	for {
		g.applySeek(ctx, client)

		records, err := client.Poll(ctx, cfg.PollTimeout)
		if err != nil {
			if isInterrupted(ctx, err) {
				return nil
			}
			metrics.KafkaPollErrors.WithLabelValues(cfg.Topic).Inc()
			g.log.Errorf(ctx, "poll failed topic=%s: %v", cfg.Topic, err)
			return fmt.Errorf("poll topic=%s: %w", cfg.Topic, err)
		}

		if len(records) > 0 {
			metrics.KafkaRecordsConsumed.WithLabelValues(cfg.Topic).Add(float64(len(records)))
			// Пачка раздаётся целиком: Shutdown замечается только в Poll или в паузе,
			// поэтому обработчики получают контекст без отмены.
			handlerCtx := context.WithoutCancel(ctx)
			handlers := g.handlers.snapshot()
			for _, rec := range records {
				g.track(rec)
				g.dispatch(handlerCtx, rec, handlers)
			}
		}

		// Пауза после каждого цикла; прерывание паузы — сигнал остановки.
		if !sleepWithBackoff(ctx, cfg.IdleBackoff) {
			return nil
		}
	}
}

func (g *ConsumerGroup) track(rec *domain.Record) {
	g.lastOffset.Store(rec.Offset)
	g.lastPartition.Store(int64(rec.Partition))
	metrics.KafkaLastOffset.WithLabelValues(rec.Topic, g.groupID).Set(float64(rec.Offset))
}

// applySeek — выполняет отложенную перемотку в потоке цикла.
func (g *ConsumerGroup) applySeek(ctx context.Context, client Client) {
	g.mu.Lock()
	req := g.pendingSeek
	g.pendingSeek = nil
	g.mu.Unlock()

	if req == nil {
		return
	}
	seeker, ok := client.(Seeker)
	if !ok {
		return
	}
	if err := seeker.Seek(req.partition, req.offset+1); err != nil {
		g.log.Warnf(ctx, "seek failed partition=%d offset=%d: %v", req.partition, req.offset, err)
		return
	}
	g.log.Infof(ctx, "seek applied partition=%d next_offset=%d", req.partition, req.offset+1)
}

func (g *ConsumerGroup) logCtx(ctx context.Context) context.Context {
	return ctxmeta.WithConsumer(ctx, g.groupID, g.clientID)
}

// isInterrupted — ошибка Poll означает штатную остановку, а не сбой транспорта.
func isInterrupted(ctx context.Context, err error) bool {
	return errors.Is(err, ErrInterrupted) || ctx.Err() != nil
}
