package kafka_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	mykafka "github.com/Gunvolt24/kgroup/internal/kafka"
)

func TestConsumerGroup_DispatchSpans(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	client := newFakeClient()
	g := newGroup(t, &countingOpener{client: client}, mykafka.WithTracer(tp.Tracer("test")))
	g.Register(&recordingHandler{})
	g.Register(&recordingHandler{err: errHandler})

	errCh := runAsync(context.Background(), g)
	require.Eventually(t, g.Running, waitFor, tick)

	client.push(7, 8)
	require.Eventually(t, func() bool { return len(rec.Ended()) == 2 }, waitFor, tick)

	g.Shutdown()
	require.NoError(t, waitStopped(t, errCh))

	for i, span := range rec.Ended() {
		require.Equal(t, "kafka.dispatch", span.Name())
		require.Equal(t, trace.SpanKindConsumer, span.SpanKind())
		require.Equal(t, codes.Error, span.Status().Code)
		require.Equal(t, "1 of 2 handlers failed", span.Status().Description)

		attrs := map[attribute.Key]attribute.Value{}
		for _, kv := range span.Attributes() {
			attrs[kv.Key] = kv.Value
		}
		require.Equal(t, "orders", attrs["messaging.destination.name"].AsString())
		require.Equal(t, int64(7+i), attrs["messaging.kafka.offset"].AsInt64())
		require.Equal(t, int64(2), attrs["handlers"].AsInt64())

		require.Len(t, span.Events(), 1, "handler error is recorded on the span")
	}
}
