package validate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Gunvolt24/kgroup/internal/domain"
	"github.com/Gunvolt24/kgroup/internal/ports"
)

// Проверка, что RecordValidator удовлетворяет интерфейсу RecordValidator.
var _ ports.RecordValidator = (*RecordValidator)(nil)

// ErrInvalidRecord — базовая (sentinel error) ошибка валидации.
var ErrInvalidRecord = errors.New("record validation failed")

// DefaultMaxValueBytes — предел размера значения по умолчанию (1 MiB, как message.max.bytes у брокера).
const DefaultMaxValueBytes = 1 << 20

var minTimestamp = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// RecordValidator — проверка записи перед архивированием.
type RecordValidator struct {
	maxValueBytes int
	requireValue  bool
}

// Option — настройка RecordValidator.
type Option func(*RecordValidator)

// WithMaxValueBytes — предел размера значения; 0 — без ограничения.
func WithMaxValueBytes(n int) Option {
	return func(v *RecordValidator) { v.maxValueBytes = n }
}

// WithRequireValue — отклонять записи с пустым значением (tombstone).
func WithRequireValue() Option {
	return func(v *RecordValidator) { v.requireValue = true }
}

// NewRecordValidator — конструктор RecordValidator.
// Возвращает ErrInvalidRecord (с обёрнутой причиной) при любой проблеме.
func NewRecordValidator(opts ...Option) *RecordValidator {
	v := &RecordValidator{maxValueBytes: DefaultMaxValueBytes}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate — проверяет координаты, время и значение записи.
func (v *RecordValidator) Validate(_ context.Context, record *domain.Record) error {
	if err := v.validateCoordinates(record); err != nil {
		return err
	}
	if !record.Timestamp.IsZero() && record.Timestamp.Before(minTimestamp) {
		return fmt.Errorf("%w: timestamp некорректен", ErrInvalidRecord)
	}
	return v.validateValue(record.Value)
}

func (v *RecordValidator) validateCoordinates(record *domain.Record) error {
	if record == nil {
		return fmt.Errorf("%w: запись не может быть nil", ErrInvalidRecord)
	}
	if record.Topic == "" {
		return fmt.Errorf("%w: topic обязателен", ErrInvalidRecord)
	}
	if record.Partition < 0 {
		return fmt.Errorf("%w: partition должен быть неотрицательным", ErrInvalidRecord)
	}
	if record.Offset < 0 {
		return fmt.Errorf("%w: offset должен быть неотрицательным", ErrInvalidRecord)
	}
	return nil
}

// Размер значения считаем по тому, что уйдёт в архив.
func (v *RecordValidator) validateValue(value any) error {
	if value == nil {
		if v.requireValue {
			return fmt.Errorf("%w: value обязателен", ErrInvalidRecord)
		}
		return nil
	}
	if v.maxValueBytes <= 0 {
		return nil
	}

	var size int
	switch val := value.(type) {
	case string:
		size = len(val)
	case []byte:
		size = len(val)
	default:
		raw, err := json.Marshal(val)
		if err != nil {
			return fmt.Errorf("%w: value не сериализуется: %v", ErrInvalidRecord, err)
		}
		size = len(raw)
	}
	if size > v.maxValueBytes {
		return fmt.Errorf("%w: value %d байт больше предела %d", ErrInvalidRecord, size, v.maxValueBytes)
	}
	return nil
}
