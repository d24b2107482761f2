package logger_test

import (
	"context"
	"testing"

	"github.com/Gunvolt24/kgroup/pkg/ctxmeta"
	"github.com/Gunvolt24/kgroup/pkg/logger"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger_AddsContextFields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := logger.FromZap(zap.New(core))

	ctx := ctxmeta.WithRequestID(context.Background(), "req-1")
	ctx = ctxmeta.WithConsumer(ctx, "g-1", "c-1")

	l.Infof(ctx, "hello %s", "world")

	entries := logs.All()
	require.Len(t, entries, 1)
	require.Equal(t, "hello world", entries[0].Message)

	fields := entries[0].ContextMap()
	require.Equal(t, "req-1", fields["request_id"])
	require.Equal(t, "g-1", fields["group_id"])
	require.Equal(t, "c-1", fields["client_id"])
}

func TestZapLogger_NoMetadata(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	l := logger.FromZap(zap.New(core))

	l.Infof(context.Background(), "filtered")
	l.Warnf(context.Background(), "warn %d", 1)
	l.Errorf(context.Background(), "err %d", 2)

	entries := logs.All()
	require.Len(t, entries, 2)
	require.Empty(t, entries[0].ContextMap())
	require.Equal(t, "err 2", entries[1].Message)
}

func TestNewZapLogger_DevAndProd(t *testing.T) {
	for _, prod := range []bool{false, true} {
		l, cleanup, err := logger.NewZapLogger(prod)
		require.NoError(t, err)
		require.NotNil(t, l.Base())
		require.NotNil(t, l.Sugared())
		_ = cleanup()
	}
}
