package ports

import (
	"context"

	"github.com/Gunvolt24/kgroup/internal/domain"
)

// MessageHandler — обработчик одной полученной записи.
// Реализация должна быть сравнимой (указатель), реестр различает обработчики по идентичности.
// Ошибка не прерывает цикл: она логируется и учитывается в метриках.
type MessageHandler interface {
	Handle(ctx context.Context, record *domain.Record) error
}
