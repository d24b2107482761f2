package kafka

import (
	"reflect"
	"sync"

	"github.com/Gunvolt24/kgroup/internal/ports"
)

// handlerRegistry — список обработчиков в порядке регистрации.
// Писатели меняют срез под мьютексом; цикл берёт копию раз в цикл опроса
// и вызывает обработчики уже без блокировки.
type handlerRegistry struct {
	mu       sync.Mutex
	handlers []ports.MessageHandler
}

// add — добавить обработчик; nil, несравнимый или уже зарегистрированный — no-op.
func (r *handlerRegistry) add(h ports.MessageHandler) bool {
	if !usableHandler(h) {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(h) >= 0 {
		return false
	}
	r.handlers = append(r.handlers, h)
	return true
}

// remove — true, если обработчик был в реестре непосредственно перед вызовом.
func (r *handlerRegistry) remove(h ports.MessageHandler) bool {
	if !usableHandler(h) {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(h)
	if i < 0 {
		return false
	}
	// Новый срез, чтобы не портить уже выданные снимки.
	next := make([]ports.MessageHandler, 0, len(r.handlers)-1)
	next = append(next, r.handlers[:i]...)
	r.handlers = append(next, r.handlers[i+1:]...)
	return true
}

// snapshot — копия текущего набора для одного цикла диспетчеризации.
func (r *handlerRegistry) snapshot() []ports.MessageHandler {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.handlers) == 0 {
		return nil
	}
	return append([]ports.MessageHandler(nil), r.handlers...)
}

func (r *handlerRegistry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handlers)
}

// indexOf вызывается под r.mu.
func (r *handlerRegistry) indexOf(h ports.MessageHandler) int {
	for i, existing := range r.handlers {
		if existing == h {
			return i
		}
	}
	return -1
}

// usableHandler — не nil (в том числе типизированный nil) и сравним по идентичности.
func usableHandler(h ports.MessageHandler) bool {
	if h == nil {
		return false
	}
	v := reflect.ValueOf(h)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		if v.IsNil() {
			return false
		}
	}
	return v.Type().Comparable()
}
