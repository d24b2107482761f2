package validate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Gunvolt24/kgroup/internal/domain"
	"github.com/Gunvolt24/kgroup/internal/ports"
)

// RecordFromJSON — строгий разбор записи (формат вывода kgroup-tail) и её валидация.
func RecordFromJSON(ctx context.Context, validator ports.RecordValidator, raw []byte) (*domain.Record, error) {
	var record domain.Record
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&record); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	// гарантируем отсутствие данных после объекта
	if err := dec.Decode(new(struct{})); err != io.EOF {
		return nil, fmt.Errorf("invalid json: trailing data")
	}
	if err := validator.Validate(ctx, &record); err != nil {
		return nil, err
	}
	return &record, nil
}
