//go:build integration

package kafka_test

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	cachemem "github.com/Gunvolt24/kgroup/internal/cache/memory"
	"github.com/Gunvolt24/kgroup/internal/domain"
	mykafka "github.com/Gunvolt24/kgroup/internal/kafka"
	pgrepo "github.com/Gunvolt24/kgroup/internal/repo/postgres"
	"github.com/Gunvolt24/kgroup/internal/testutil"
	"github.com/Gunvolt24/kgroup/internal/usecase"
	"github.com/Gunvolt24/kgroup/pkg/logger"
	"github.com/Gunvolt24/kgroup/pkg/validate"
)

var reUnsafe = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

func safe(t *testing.T) string { return reUnsafe.ReplaceAllString(t.Name(), "-") }

// collectHandler — копит полученные записи для проверок.
type collectHandler struct {
	mu      sync.Mutex
	records []*domain.Record
}

func (h *collectHandler) Handle(_ context.Context, r *domain.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r.Clone())
	return nil
}

func (h *collectHandler) snapshot() []*domain.Record {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]*domain.Record(nil), h.records...)
}

// waitRecords — ждёт, пока обработчик получит n записей.
func waitRecords(t *testing.T, h *collectHandler, n int, timeout time.Duration) []*domain.Record {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for {
		got := h.snapshot()
		if len(got) >= n {
			return got
		}
		if time.Now().After(deadline) {
			t.Fatalf("received %d of %d records in time", len(got), n)
		}
		time.Sleep(200 * time.Millisecond)
	}
}

func startKafka(t *testing.T) *testutil.KafkaEnv {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	kf, stop, err := testutil.StartKafkaTC(ctx, "orders-itc")
	require.NoError(t, err)
	t.Cleanup(func() { _ = stop(context.Background()) })
	return kf
}

func jsonMessages(from, to int) []kafka.Message {
	msgs := make([]kafka.Message, 0, to-from+1)
	for i := from; i <= to; i++ {
		msgs = append(msgs, kafka.Message{
			Key:     []byte(fmt.Sprintf("key-%d", i)),
			Value:   testutil.RecordPayload(int64(i)),
			Headers: []kafka.Header{{Key: "source", Value: []byte("itc")}},
		})
	}
	return msgs
}

func integrationConfig(kf *testutil.KafkaEnv, topic string) *mykafka.ConsumerConfig {
	return &mykafka.ConsumerConfig{
		Brokers:           kf.Brokers,
		Topic:             topic,
		SchemaRegistryURL: kf.SchemaRegistryURL,
		KeyDeserializer:   mykafka.StringDeserializer{},
		ValueDeserializer: mykafka.JSONDeserializer{},
		PollTimeout:       200 * time.Millisecond,
		IdleBackoff:       50 * time.Millisecond,
		FetchMaxWait:      200 * time.Millisecond,
	}
}

// Оба драйвера читают топик с начала, раздают записи и штатно останавливаются.
func TestConsumerGroup_Drivers_TC(t *testing.T) {
	kf := startKafka(t)

	for _, driver := range []string{mykafka.DriverSegmentio, mykafka.DriverConfluent} {
		t.Run(driver, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()

			topic := testutil.UniqueTopic(kf.BaseTopic + "-" + safe(t))
			require.NoError(t, testutil.EnsureTopic(ctx, kf.Brokers[0], topic, 1))
			require.NoError(t, testutil.Produce(ctx, kf.Brokers, topic, jsonMessages(0, 2)...))

			opener, err := mykafka.OpenerByDriver(driver, nopLogger{})
			require.NoError(t, err)
			g, err := mykafka.NewConsumerGroup(integrationConfig(kf, topic), opener, nopLogger{})
			require.NoError(t, err)

			h := &collectHandler{}
			require.True(t, g.Register(h))

			errCh := runAsync(ctx, g)
			got := waitRecords(t, h, 3, 30*time.Second)

			for i, r := range got[:3] {
				require.Equal(t, topic, r.Topic)
				require.EqualValues(t, i, r.Offset)
				require.Equal(t, fmt.Sprintf("key-%d", i), r.Key)
				require.Equal(t, map[string]any{"id": fmt.Sprintf("order-%d", i), "amount": float64(i)}, r.Value)
				require.Equal(t, []byte("itc"), r.Headers["source"])
			}
			require.EqualValues(t, 2, g.Offset())
			require.Equal(t, mykafka.StateRunning, g.State())

			g.Shutdown()
			select {
			case err := <-errCh:
				require.NoError(t, err)
			case <-time.After(15 * time.Second):
				t.Fatal("Run did not return after Shutdown")
			}
			require.Equal(t, mykafka.StateStopped, g.State())
		})
	}
}

// Запись, которую не удаётся десериализовать, — ошибка транспорта: цикл завершается.
func TestConsumerGroup_UndecodableRecordStopsLoop_TC(t *testing.T) {
	kf := startKafka(t)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	topic := testutil.UniqueTopic(kf.BaseTopic + "-" + safe(t))
	require.NoError(t, testutil.EnsureTopic(ctx, kf.Brokers[0], topic, 1))
	require.NoError(t, testutil.Produce(ctx, kf.Brokers, topic,
		kafka.Message{Value: testutil.RecordPayload(0)},
		kafka.Message{Value: []byte("not-a-json")},
	))

	g, err := mykafka.NewConsumerGroup(integrationConfig(kf, topic), mykafka.NewSegmentioOpener(), nopLogger{})
	require.NoError(t, err)
	h := &collectHandler{}
	g.Register(h)

	select {
	case err := <-runAsync(ctx, g):
		require.Error(t, err)
		require.Contains(t, err.Error(), "offset=1")
	case <-time.After(30 * time.Second):
		t.Fatal("Run did not fail on undecodable record")
	}
	require.Equal(t, mykafka.StateStopped, g.State())
	// пачка с битой записью отбрасывается целиком; валидная могла прийти отдельной пачкой
	require.LessOrEqual(t, len(h.snapshot()), 1)
}

// Полный путь: группа → RecordService → буфер и архив в Postgres.
func TestConsumerGroup_ArchivesRecords_TC(t *testing.T) {
	kf := startKafka(t)

	ctxStart, cancelStart := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancelStart()
	pg, stopPG, err := testutil.StartPostgresTC(ctxStart)
	require.NoError(t, err)
	t.Cleanup(func() { _ = stopPG(context.Background()) })
	require.NoError(t, testutil.ApplyMigrationsGoose(pg.DSN))

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, pg.DSN)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	logg, closer, err := logger.NewZapLogger(false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = closer() })

	repo := pgrepo.NewRecordRepository(pool)
	buffer := cachemem.NewRecordBuffer(100, time.Minute)
	svc := usecase.NewRecordService(repo, buffer, logg, validate.NewRecordValidator(), 5*time.Second)

	topic := testutil.UniqueTopic(kf.BaseTopic + "-" + safe(t))
	require.NoError(t, testutil.EnsureTopic(ctx, kf.Brokers[0], topic, 2))

	msgs := jsonMessages(0, 3)
	for i := range msgs {
		msgs[i].Partition = i % 2
	}
	require.NoError(t, testutil.Produce(ctx, kf.Brokers, topic, msgs...))

	g, err := mykafka.NewConsumerGroup(integrationConfig(kf, topic), mykafka.NewSegmentioOpener(), logg)
	require.NoError(t, err)
	g.Register(svc)
	errCh := runAsync(ctx, g)

	deadline := time.Now().Add(30 * time.Second)
	for {
		got, err := repo.ListByTopic(ctx, topic, 10, 0)
		require.NoError(t, err)
		if len(got) == len(msgs) {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("archived %d of %d records in time", len(got), len(msgs))
		}
		time.Sleep(200 * time.Millisecond)
	}
	require.Len(t, buffer.List(ctx, 10, 0), len(msgs))

	g.Shutdown()
	require.NoError(t, <-errCh)
}
