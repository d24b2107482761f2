package main

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"sync/atomic"

	"github.com/Gunvolt24/kgroup/internal/domain"
)

// printer — обработчик группы: печатает каждую запись строкой JSON.
// При достижении limit вызывает stop (остановку группы).
type printer struct {
	mu    sync.Mutex
	enc   *json.Encoder
	limit int
	count atomic.Int64
	stop  func()
}

func newPrinter(w io.Writer, limit int, stop func()) *printer {
	return &printer{enc: json.NewEncoder(w), limit: limit, stop: stop}
}

func (p *printer) Handle(_ context.Context, record *domain.Record) error {
	p.mu.Lock()
	err := p.enc.Encode(record)
	p.mu.Unlock()
	if err != nil {
		return err
	}

	n := p.count.Add(1)
	if p.limit > 0 && n == int64(p.limit) && p.stop != nil {
		p.stop()
	}
	return nil
}

// Count — сколько записей напечатано.
func (p *printer) Count() int64 { return p.count.Load() }
