package memory

import (
	"container/list"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Gunvolt24/kgroup/internal/domain"
	"github.com/Gunvolt24/kgroup/internal/ports"
	"github.com/Gunvolt24/kgroup/pkg/metrics"
)

var (
	_ ports.RecordBuffer   = (*RecordBuffer)(nil)
	_ ports.MessageHandler = (*RecordBuffer)(nil)
)

type entry struct {
	id        string
	record    *domain.Record
	expiresAt time.Time
}

// RecordBuffer — ограниченный буфер последних записей (LRU + TTL).
// Голова списка — самая свежая запись.
type RecordBuffer struct {
	capacity int
	ttl      time.Duration

	ll    *list.List
	index map[string]*list.Element

	mu sync.Mutex
}

func NewRecordBuffer(capacity int, ttl time.Duration) *RecordBuffer {
	if capacity <= 0 {
		capacity = 1
	}
	return &RecordBuffer{
		capacity: capacity,
		ttl:      ttl,
		ll:       list.New(),
		index:    make(map[string]*list.Element),
	}
}

// Handle — буфер можно регистрировать в группе напрямую как обработчик.
func (b *RecordBuffer) Handle(ctx context.Context, record *domain.Record) error {
	b.Add(ctx, record)
	return nil
}

// Add — повторная запись с тем же topic/partition/offset обновляет существующую.
func (b *RecordBuffer) Add(_ context.Context, record *domain.Record) {
	if record == nil {
		return
	}
	id := recordID(record)
	now := time.Now()

	b.mu.Lock()
	defer b.mu.Unlock()

	metrics.BufferOps.WithLabelValues("add").Inc()

	if elem, ok := b.index[id]; ok {
		ent := elem.Value.(*entry)
		ent.record = record.Clone()
		ent.expiresAt = b.expiryFrom(now)
		b.ll.MoveToFront(elem)
		return
	}

	b.pruneExpiredFromBack(now)

	elem := b.ll.PushFront(&entry{
		id:        id,
		record:    record.Clone(),
		expiresAt: b.expiryFrom(now),
	})
	b.index[id] = elem

	if b.ll.Len() > b.capacity {
		b.evictOldest()
	}
	metrics.BufferSize.Set(float64(len(b.index)))
}

// Get — запись по координатам, если она ещё в буфере.
func (b *RecordBuffer) Get(_ context.Context, topic string, partition int, offset int64) (*domain.Record, bool) {
	now := time.Now()

	b.mu.Lock()
	defer b.mu.Unlock()

	elem, ok := b.index[key(topic, partition, offset)]
	if !ok {
		return nil, false
	}
	ent := elem.Value.(*entry)
	if b.isExpired(ent, now) {
		metrics.BufferOps.WithLabelValues("expired").Inc()
		b.removeElement(elem)
		metrics.BufferSize.Set(float64(len(b.index)))
		return nil, false
	}
	return ent.record.Clone(), true
}

// List — копии записей от новых к старым; просроченные пропускаются.
func (b *RecordBuffer) List(_ context.Context, limit, offset int) []*domain.Record {
	if limit <= 0 {
		return nil
	}
	offset = max(offset, 0)
	now := time.Now()

	b.mu.Lock()
	defer b.mu.Unlock()

	b.pruneExpiredFromBack(now)

	out := make([]*domain.Record, 0, min(limit, b.ll.Len()))
	skipped := 0
	for e := b.ll.Front(); e != nil && len(out) < limit; e = e.Next() {
		ent := e.Value.(*entry)
		if b.isExpired(ent, now) {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		out = append(out, ent.record.Clone())
	}
	return out
}

// Len — число записей в буфере (включая ещё не вычищенные просроченные).
func (b *RecordBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ll.Len()
}

// ------вспомогательные функции------

func key(topic string, partition int, offset int64) string {
	return fmt.Sprintf("%s/%d/%d", topic, partition, offset)
}

func recordID(r *domain.Record) string {
	return key(r.Topic, r.Partition, r.Offset)
}

// evictOldest — удаляет самую старую запись.
func (b *RecordBuffer) evictOldest() {
	if back := b.ll.Back(); back != nil {
		b.removeElement(back)
		metrics.BufferOps.WithLabelValues("evicted").Inc()
	}
}

func (b *RecordBuffer) removeElement(elem *list.Element) {
	ent := elem.Value.(*entry)
	delete(b.index, ent.id)
	b.ll.Remove(elem)
}

func (b *RecordBuffer) isExpired(ent *entry, now time.Time) bool {
	if b.ttl <= 0 {
		return false
	}
	return now.After(ent.expiresAt)
}

func (b *RecordBuffer) expiryFrom(now time.Time) time.Time {
	if b.ttl <= 0 {
		return time.Time{}
	}
	return now.Add(b.ttl)
}

// pruneExpiredFromBack — удаляет просроченные записи из хвоста до первой актуальной.
func (b *RecordBuffer) pruneExpiredFromBack(now time.Time) {
	if b.ttl <= 0 {
		return
	}
	for {
		back := b.ll.Back()
		if back == nil {
			return
		}
		if !now.After(back.Value.(*entry).expiresAt) {
			return
		}
		b.removeElement(back)
		metrics.BufferOps.WithLabelValues("expired").Inc()
		metrics.BufferSize.Set(float64(len(b.index)))
	}
}
