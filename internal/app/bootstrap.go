package app

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Gunvolt24/kgroup/config"
	cachemem "github.com/Gunvolt24/kgroup/internal/cache/memory"
	"github.com/Gunvolt24/kgroup/internal/kafka"
	"github.com/Gunvolt24/kgroup/internal/ports"
	"github.com/Gunvolt24/kgroup/internal/repo/postgres"
	rest "github.com/Gunvolt24/kgroup/internal/transport/http"
	"github.com/Gunvolt24/kgroup/internal/usecase"
	"github.com/Gunvolt24/kgroup/pkg/logger"
	"github.com/Gunvolt24/kgroup/pkg/metrics"
	"github.com/Gunvolt24/kgroup/pkg/telemetry"
	"github.com/Gunvolt24/kgroup/pkg/validate"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
)

// Version — версия сборки (подставляется через -ldflags).
var Version = "dev"

// App — собранное приложение и его внешние интерфейсы (HTTP, группа консьюмера).
type App struct {
	Logger          ports.Logger          // логгер
	HTTPServer      *http.Server          // HTTP-сервер админки
	Consumer        ports.MessageConsumer // группа консьюмера
	gracefulTimeout time.Duration         // время ожидания завершения HTTP-сервера
}

// Cleanup — функция освобождения ресурсов.
type Cleanup func()

// applyGinMode — устанавливает режим Gin по строке;
// неизвестное значение → debug и предупреждение в лог.
func applyGinMode(ctx context.Context, mode string, log ports.Logger) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	case "", "debug":
		gin.SetMode(gin.DebugMode)
	default:
		gin.SetMode(gin.DebugMode)
		log.Warnf(ctx, "unknown GIN_MODE=%q, fallback to debug", mode)
	}
}

// ConsumerConfig — конфигурация группы из секции Kafka.
func ConsumerConfig(k *config.Kafka) (kafka.ConsumerConfig, error) {
	keyDes, err := kafka.DeserializerByName(k.KeyDeserializer)
	if err != nil {
		return kafka.ConsumerConfig{}, err
	}
	valDes, err := kafka.DeserializerByName(k.ValueDeserializer)
	if err != nil {
		return kafka.ConsumerConfig{}, err
	}
	return kafka.ConsumerConfig{
		Brokers:                k.Brokers,
		Topic:                  k.Topic,
		SchemaRegistryURL:      k.SchemaRegistryURL,
		KeyDeserializer:        keyDes,
		ValueDeserializer:      valDes,
		PollTimeout:            k.PollTimeout,
		IdleBackoff:            k.IdleBackoff,
		FetchMaxWait:           k.FetchMaxWait,
		MaxPartitionFetchBytes: k.MaxPartitionFetchBytes,
	}, nil
}

// Bootstrap — собирает зависимости и возвращает приложение, функцию очистки и ошибку.
func Bootstrap(ctx context.Context, cfg *config.Config) (*App, Cleanup, error) {
	// Логгер (dev/prod режим задаётся конфигурацией).
	logg, cleanupLogger, err := logger.NewZapLogger(cfg.Logger.IsProd)
	if err != nil {
		return nil, func() {}, err
	}

	// closers — освобождение ресурсов в обратном порядке.
	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	closers = append(closers, func() {
		if cErr := cleanupLogger(); cErr != nil {
			logg.Warnf(ctx, "cleanup logger: %v", cErr)
		}
	})
	fail := func(err error) (*App, Cleanup, error) {
		closeAll()
		return nil, func() {}, err
	}

	// Регистрация метрик (Prometheus).
	metrics.MustRegister()

	// Трейсинг OTEL (при включённой конфигурации); по умолчанию — no-op.
	groupOpts := []kafka.Option{}
	if cfg.Tracing.Enabled {
		shutdownTrace, tErr := telemetry.SetupTracing(ctx, telemetry.Config{
			ServiceName:    cfg.Tracing.ServiceName,
			ServiceVersion: Version,
			Endpoint:       cfg.Tracing.Endpoint,
			SampleRatio:    cfg.Tracing.SampleRatio,
		})
		if tErr != nil {
			logg.Warnf(ctx, "failed to setup tracing: %v", tErr)
		} else {
			logg.Infof(ctx, "otel tracing enabled service=%s endpoint=%s sample=%.2f",
				cfg.Tracing.ServiceName, cfg.Tracing.Endpoint, cfg.Tracing.SampleRatio)
			closers = append(closers, func() {
				if terr := shutdownTrace(context.Background()); terr != nil {
					logg.Warnf(ctx, "shutdown tracing: %v", terr)
				}
			})
			groupOpts = append(groupOpts, kafka.WithTracer(otel.Tracer(cfg.Tracing.ServiceName+"/kafka")))
		}
	}

	// Архив в Postgres (необязательный). Интерфейс остаётся nil, если архив выключен.
	var archive ports.RecordRepository
	if cfg.Postgres.Enabled {
		pool, pErr := postgres.NewPool(ctx, cfg.Postgres.DSN, cfg.Postgres.MaxConns)
		if pErr != nil {
			return fail(pErr)
		}
		closers = append(closers, pool.Close)
		if cfg.Postgres.AutoMigrate {
			applied, mErr := postgres.Migrate(ctx, pool)
			if mErr != nil {
				return fail(mErr)
			}
			logg.Infof(ctx, "postgres migrations applied=%d", applied)
		}
		archive = postgres.NewRecordRepository(pool)
		logg.Infof(ctx, "postgres archive enabled max_conns=%d", cfg.Postgres.MaxConns)
	}

	// Доменный слой: буфер последних записей, проверка, обработчик.
	buffer := cachemem.NewRecordBuffer(cfg.Buffer.Capacity, cfg.Buffer.TTL)
	recordValidator := validate.NewRecordValidator()
	records := usecase.NewRecordService(archive, buffer, logg, recordValidator, cfg.Kafka.ProcessTimeout)

	// Группа консьюмера.
	kafkaCfg, err := ConsumerConfig(&cfg.Kafka)
	if err != nil {
		return fail(err)
	}
	opener, err := kafka.OpenerByDriver(cfg.Kafka.Driver, logg)
	if err != nil {
		return fail(err)
	}
	group, err := kafka.NewConsumerGroup(&kafkaCfg, opener, logg, groupOpts...)
	if err != nil {
		return fail(err)
	}
	group.Register(records)
	closers = append(closers, group.Shutdown)

	// Режим Gin.
	applyGinMode(ctx, cfg.HTTP.GinMode, logg)

	// Имя сервиса для otelgin (только при включённом трейсинге).
	otelServiceName := ""
	if cfg.Tracing.Enabled {
		otelServiceName = cfg.Tracing.ServiceName
	}

	// Роутер и HTTP-сервер.
	admin := usecase.NewConsumerService(group, records, logg)
	httpHandler := rest.NewHandler(admin, logg, cfg.HTTP.HandlerTimeout)
	router := rest.NewRouter(httpHandler, otelServiceName)

	httpSrv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	logg.Infof(ctx, "consumer group prepared driver=%s topic=%s client_id=%s group_id=%s",
		cfg.Kafka.Driver, kafkaCfg.Topic, group.ClientID(), group.GroupID())

	app := &App{
		Logger:          logg,
		HTTPServer:      httpSrv,
		Consumer:        group,
		gracefulTimeout: cfg.HTTP.GracefulTimeout,
	}
	return app, closeAll, nil
}

// Run — запускает HTTP-сервер и группу; ждёт отмены контекста или ошибки и останавливает их.
// Штатная остановка группы через админку (POST /consumer/shutdown) сервис не завершает:
// состояние STOPPED остаётся доступным в GET /consumer.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 2)
	consumerDone := make(chan struct{})

	// Запуск группы.
	a.Logger.Infof(ctx, "kafka consumer group starting")
	go func() {
		defer close(consumerDone)
		if err := a.Consumer.Run(ctx); err != nil {
			errCh <- err
			return
		}
		a.Logger.Infof(ctx, "kafka consumer group stopped")
	}()

	// Запуск HTTP-сервера.
	a.Logger.Infof(ctx, "http server starting (addr=%s)", a.HTTPServer.Addr)
	go func() {
		if err := a.HTTPServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Ожидание сигнала остановки или фоновой ошибки.
	var runErr error
	select {
	case <-ctx.Done():
		a.Logger.Infof(ctx, "shutdown requested, starting graceful shutdown")
	case err := <-errCh:
		a.Logger.Errorf(ctx, "background error: %v", err)
		runErr = err
	}

	gt := a.gracefulTimeout
	if gt <= 0 {
		gt = 5 * time.Second
	}

	// Корректная остановка HTTP-сервера.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), gt)
	defer cancel()

	if err := a.HTTPServer.Shutdown(shutdownCtx); err != nil {
		a.Logger.Warnf(ctx, "http server shutdown failed: %v", err)
	} else {
		a.Logger.Infof(ctx, "http server stopped gracefully")
	}

	// Остановка группы и ожидание выхода из цикла.
	if err := a.Consumer.Close(); err != nil {
		a.Logger.Warnf(ctx, "kafka consumer close error: %v", err)
	}
	select {
	case <-consumerDone:
	case <-shutdownCtx.Done():
		a.Logger.Warnf(ctx, "kafka consumer group did not stop within %s", gt)
	}

	a.Logger.Infof(ctx, "service stopped")
	return runErr
}
