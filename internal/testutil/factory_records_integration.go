//go:build integration

package testutil

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/Gunvolt24/kgroup/internal/domain"
)

func randHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func UniqSuffix() string { return randHex(6) }

// MakeRecord — запись в том виде, в каком её отдаёт JSON-десериализатор.
func MakeRecord(topic string, offset int64, opts ...func(*domain.Record)) *domain.Record {
	r := &domain.Record{
		Topic:     topic,
		Partition: 0,
		Offset:    offset,
		Key:       fmt.Sprintf("key-%d", offset),
		Value: map[string]any{
			"id":     fmt.Sprintf("order-%d", offset),
			"amount": float64(offset),
		},
		Timestamp: time.Now().UTC().Truncate(time.Millisecond),
		Headers:   map[string][]byte{"trace": []byte(UniqSuffix())},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// WithPartition — опция для MakeRecord.
func WithPartition(p int) func(*domain.Record) {
	return func(r *domain.Record) { r.Partition = p }
}

// RecordPayload — тело сообщения для продюсера в интеграционных тестах.
func RecordPayload(offset int64) []byte {
	return []byte(fmt.Sprintf(`{"id":"order-%d","amount":%d}`, offset, offset))
}
