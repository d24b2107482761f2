//go:build !integration

package rest

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Gunvolt24/kgroup/internal/domain"
	"github.com/Gunvolt24/kgroup/internal/ports"
)

// --- Бенчмарки ---

// Базовый бенч: последние записи из буфера — сравниваем LEAN vs FULL пайплайн
func BenchmarkHTTP_RecentRecords(b *testing.B) {
	h := NewHandler(svcList{list: makeRecords(20)}, nopLogger{}, 2*time.Second)

	lean := makeLeanRouter(h)
	full := makeFullRouter(h)

	b.Run("lean/no-mw", func(b *testing.B) {
		benchServeGET(b, lean, "/consumer/records")
	})
	b.Run("full/prod-mw", func(b *testing.B) {
		benchServeGET(b, full, "/consumer/records")
	})
}

// Пагинация архива: 10/50/100 — измеряем рост аллокаций и времени
func BenchmarkHTTP_ArchivedRecords(b *testing.B) {
	for _, n := range []int{10, 50, 100} {
		b.Run("N="+strconv.Itoa(n), func(b *testing.B) {
			h := NewHandler(svcList{list: makeRecords(n)}, nopLogger{}, 2*time.Second)

			lean := makeLeanRouter(h)
			benchServeGET(b, lean, "/topics/orders/records?limit="+strconv.Itoa(n))
		})
	}
}

// Ошибочный путь (404): "цена" роутера и 404-хендлера
func BenchmarkHTTP_404(b *testing.B) {
	h := NewHandler(svcList{}, nopLogger{}, 2*time.Second)
	r := makeLeanRouter(h)

	b.ReportAllocs()
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			req, _ := http.NewRequest(http.MethodGet, "/nope", nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			_, _ = io.Copy(io.Discard, w.Body)
			if w.Code != http.StatusNotFound {
				b.Fatalf("status=%d", w.Code)
			}
		}
	})
}

// --- nopLogger — логгер, который не делает ничего. ---

type nopLogger struct{}

func (nopLogger) Infof(context.Context, string, ...any)  {}
func (nopLogger) Warnf(context.Context, string, ...any)  {}
func (nopLogger) Errorf(context.Context, string, ...any) {}

// --- Стабы ---

// заранее подготовленная выборка N записей (без аллокаций на каждом вызове)
type svcList struct{ list []*domain.Record }

func (s svcList) Info(context.Context) ports.ConsumerInfo { return ports.ConsumerInfo{} }
func (s svcList) SetOffset(context.Context, int64) error  { return nil }
func (s svcList) Shutdown(context.Context)                {}
func (s svcList) RecentRecords(context.Context, int, int) []*domain.Record {
	return s.list
}
func (s svcList) RecentRecord(context.Context, int, int64) (*domain.Record, bool) {
	if len(s.list) == 0 {
		return nil, false
	}
	return s.list[0], true
}
func (s svcList) ArchivedRecords(context.Context, string, int, int) ([]*domain.Record, error) {
	return s.list, nil
}

// --- функции-помощники ---

func makeRecords(n int) []*domain.Record {
	ts := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	list := make([]*domain.Record, 0, n)
	for i := 0; i < n; i++ {
		list = append(list, &domain.Record{
			Topic:     "orders",
			Offset:    int64(i),
			Key:       "key-" + strconv.Itoa(i),
			Value:     map[string]any{"id": i, "status": "paid"},
			Timestamp: ts,
		})
	}
	return list
}

func makeLeanRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New() // без Recovery/otel/logger — получаем меньшую аллокацию
	r.GET("/consumer/records", h.recentRecords)
	r.GET("/topics/:topic/records", h.archivedRecords)
	return r
}

func makeFullRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	// prod пайплайн из NewRouter
	return NewRouter(h, "")
}

func benchServeGET(b *testing.B, r *gin.Engine, path string) {
	b.Helper()
	b.ReportAllocs()
	b.ResetTimer()

	// Параллельный режим ближе к реальности без TCP
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			req, _ := http.NewRequest(http.MethodGet, path, nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			// вычитываем тело
			_, _ = io.Copy(io.Discard, w.Body)
			if w.Code != http.StatusOK {
				b.Fatalf("status=%d", w.Code)
			}
		}
	})
}
