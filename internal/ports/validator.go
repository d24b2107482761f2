package ports

import (
	"context"

	"github.com/Gunvolt24/kgroup/internal/domain"
)

type RecordValidator interface {
	Validate(ctx context.Context, record *domain.Record) error
}
