package kafka

import (
	"context"
	"errors"
	"time"

	"github.com/Gunvolt24/kgroup/internal/domain"
)

var (
	// ErrInterrupted — опрос прерван сигналом пробуждения (Shutdown) или отменой контекста.
	// Это штатная остановка, а не ошибка транспорта.
	ErrInterrupted = errors.New("kafka: poll interrupted")

	// ErrNotSubscribed — Poll вызван до Subscribe.
	ErrNotSubscribed = errors.New("kafka: client is not subscribed")
)

// Client — соединение с брокером, которым владеет группа, пока находится в RUNNING.
// Методы вызываются только из потока цикла опроса.
type Client interface {
	// Subscribe — подписка на топик; вызывается один раз сразу после Open.
	Subscribe(topic string) error

	// Poll — ждёт не дольше timeout очередную пачку записей.
	// Пустая пачка без ошибки означает «записей пока нет».
	// При отмене ctx возвращает ErrInterrupted.
	Poll(ctx context.Context, timeout time.Duration) ([]*domain.Record, error)

	// Close — освобождает соединение.
	Close() error
}

// Seeker — необязательная возможность клиента: перемотать позицию чтения.
type Seeker interface {
	Seek(partition int, offset int64) error
}

// Opener — фабрика клиентов по набору свойств.
type Opener interface {
	Open(props Properties) (Client, error)
}

// OpenerFunc — адаптер функции к Opener.
type OpenerFunc func(props Properties) (Client, error)

// Open реализует Opener.
func (f OpenerFunc) Open(props Properties) (Client, error) { return f(props) }
