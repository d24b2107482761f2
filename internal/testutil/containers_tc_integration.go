//go:build integration

package testutil

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/modules/redpanda"
	"github.com/testcontainers/testcontainers-go/wait"

	pgrepo "github.com/Gunvolt24/kgroup/internal/repo/postgres"
)

// Образы контейнеров; переопределяются через окружение (например, для зеркала в CI).
var (
	postgresImage = envOr("KGROUP_TC_POSTGRES_IMAGE", "postgres:16-alpine")
	redpandaImage = envOr("KGROUP_TC_REDPANDA_IMAGE", "docker.redpanda.com/redpandadata/redpanda:v23.3.8")
)

var tcLogger = log.New(os.Stdout, "[tc] ", log.LstdFlags)

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// lifecycleLog — одна строка на старт и остановку контейнера.
func lifecycleLog(kind string) tc.ContainerLifecycleHooks {
	short := func(c tc.Container) string {
		id := c.GetContainerID()
		return id[:min(len(id), 12)]
	}
	return tc.ContainerLifecycleHooks{
		PostReadies: []tc.ContainerHook{
			func(_ context.Context, c tc.Container) error {
				tcLogger.Printf("%s ready id=%s", kind, short(c))
				return nil
			},
		},
		PostTerminates: []tc.ContainerHook{
			func(_ context.Context, c tc.Container) error {
				tcLogger.Printf("%s terminated id=%s", kind, short(c))
				return nil
			},
		},
	}
}

// PGContainer — Postgres для архива записей.
type PGContainer struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	DSN       string
}

// StartPostgresTC — поднимает Postgres и открывает к нему пул (без миграций).
func StartPostgresTC(ctx context.Context) (*PGContainer, func(context.Context) error, error) {
	pg, err := postgres.Run(
		ctx,
		postgresImage,
		tc.WithLifecycleHooks(lifecycleLog("postgres")),
		postgres.WithDatabase("kgroup"),
		postgres.WithUsername("app"),
		postgres.WithPassword("app"),
		tc.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("run postgres: %w", err)
	}

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = tc.TerminateContainer(pg)
		return nil, nil, fmt.Errorf("conn string: %w", err)
	}

	pool, err := pgrepo.NewPool(ctx, dsn, 5)
	if err != nil {
		_ = tc.TerminateContainer(pg)
		return nil, nil, err
	}

	stop := func(context.Context) error {
		pool.Close()
		return tc.TerminateContainer(pg)
	}
	return &PGContainer{Container: pg, DSN: dsn, Pool: pool}, stop, nil
}

// KafkaEnv — Kafka-совместимый брокер (Redpanda) со schema registry.
type KafkaEnv struct {
	Container         *redpanda.Container
	Brokers           []string
	SchemaRegistryURL string
	BaseTopic         string
}

// StartKafkaTC — поднимает Redpanda; топики создаются тестами явно (EnsureTopic).
func StartKafkaTC(ctx context.Context, baseTopic string) (*KafkaEnv, func(context.Context) error, error) {
	rp, err := redpanda.Run(
		ctx,
		redpandaImage,
		tc.WithLifecycleHooks(lifecycleLog("redpanda")),
		redpanda.WithAutoCreateTopics(),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("run redpanda: %w", err)
	}

	seed, err := rp.KafkaSeedBroker(ctx)
	if err != nil {
		_ = tc.TerminateContainer(rp)
		return nil, nil, fmt.Errorf("seed broker: %w", err)
	}
	registry, err := rp.SchemaRegistryAddress(ctx)
	if err != nil {
		_ = tc.TerminateContainer(rp)
		return nil, nil, fmt.Errorf("schema registry address: %w", err)
	}

	env := &KafkaEnv{
		Container:         rp,
		Brokers:           []string{seed},
		SchemaRegistryURL: registry,
		BaseTopic:         baseTopic,
	}
	stop := func(context.Context) error { return tc.TerminateContainer(rp) }
	return env, stop, nil
}
