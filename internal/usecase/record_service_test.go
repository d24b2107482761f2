package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Gunvolt24/kgroup/internal/domain"
	"github.com/Gunvolt24/kgroup/internal/ports/mocks"
	"github.com/Gunvolt24/kgroup/internal/usecase"
	"github.com/Gunvolt24/kgroup/pkg/ctxmeta"
	"github.com/Gunvolt24/kgroup/pkg/validate"
	"github.com/golang/mock/gomock"
)

type noopLogger struct{}

func (noopLogger) Infof(context.Context, string, ...any)  {}
func (noopLogger) Warnf(context.Context, string, ...any)  {}
func (noopLogger) Errorf(context.Context, string, ...any) {}

func record(offset int64) *domain.Record {
	return &domain.Record{Topic: "orders", Offset: offset, Value: "v"}
}

func TestHandle_InvalidRecordSkipped(t *testing.T) {
	ctrl := gomock.NewController(t)

	repo := mocks.NewMockRecordRepository(ctrl)
	buffer := mocks.NewMockRecordBuffer(ctrl)
	validator := mocks.NewMockRecordValidator(ctrl)

	rec := record(1)
	validator.EXPECT().Validate(gomock.Any(), rec).Return(validate.ErrInvalidRecord)
	buffer.EXPECT().Add(gomock.Any(), gomock.Any()).Times(0)
	repo.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	svc := usecase.NewRecordService(repo, buffer, noopLogger{}, validator, time.Second)

	if err := svc.Handle(context.Background(), rec); err != nil {
		t.Fatalf("invalid record must be skipped without error, got %v", err)
	}
}

func TestHandle_Success_BufferAndArchive(t *testing.T) {
	ctrl := gomock.NewController(t)

	repo := mocks.NewMockRecordRepository(ctrl)
	buffer := mocks.NewMockRecordBuffer(ctrl)
	validator := mocks.NewMockRecordValidator(ctrl)

	rec := record(2)
	ctx := ctxmeta.WithConsumer(context.Background(), "group-42", "client-1")

	gomock.InOrder(
		validator.EXPECT().Validate(gomock.Any(), rec).Return(nil),
		buffer.EXPECT().Add(gomock.Any(), rec),
		repo.EXPECT().Save(gomock.Any(), "group-42", rec).
			DoAndReturn(func(ctx context.Context, _ string, _ *domain.Record) error {
				if _, ok := ctx.Deadline(); !ok {
					t.Errorf("save must run with a processing deadline")
				}
				return nil
			}),
	)

	svc := usecase.NewRecordService(repo, buffer, noopLogger{}, validator, time.Second)

	if err := svc.Handle(ctx, rec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestHandle_NoGroupInContext_UsesDefaultName(t *testing.T) {
	ctrl := gomock.NewController(t)

	repo := mocks.NewMockRecordRepository(ctrl)
	buffer := mocks.NewMockRecordBuffer(ctrl)
	validator := mocks.NewMockRecordValidator(ctrl)

	validator.EXPECT().Validate(gomock.Any(), gomock.Any()).Return(nil)
	buffer.EXPECT().Add(gomock.Any(), gomock.Any())
	repo.EXPECT().Save(gomock.Any(), usecase.DefaultGroupName, gomock.Any()).Return(nil)

	svc := usecase.NewRecordService(repo, buffer, noopLogger{}, validator, 0)

	if err := svc.Handle(context.Background(), record(3)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestHandle_ArchiveFailure_ReturnsError(t *testing.T) {
	ctrl := gomock.NewController(t)

	repo := mocks.NewMockRecordRepository(ctrl)
	buffer := mocks.NewMockRecordBuffer(ctrl)
	validator := mocks.NewMockRecordValidator(ctrl)

	errDB := errors.New("db down")
	validator.EXPECT().Validate(gomock.Any(), gomock.Any()).Return(nil)
	buffer.EXPECT().Add(gomock.Any(), gomock.Any())
	repo.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any()).Return(errDB)

	svc := usecase.NewRecordService(repo, buffer, noopLogger{}, validator, time.Second)

	err := svc.Handle(context.Background(), record(4))
	if !errors.Is(err, errDB) || !strings.Contains(err.Error(), "offset=4") {
		t.Fatalf("want wrapped db error, got %v", err)
	}
}

func TestHandle_ArchiveDisabled_BufferOnly(t *testing.T) {
	ctrl := gomock.NewController(t)

	buffer := mocks.NewMockRecordBuffer(ctrl)
	validator := mocks.NewMockRecordValidator(ctrl)

	validator.EXPECT().Validate(gomock.Any(), gomock.Any()).Return(nil)
	buffer.EXPECT().Add(gomock.Any(), gomock.Any())

	svc := usecase.NewRecordService(nil, buffer, noopLogger{}, validator, time.Second)

	if err := svc.Handle(context.Background(), record(5)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.ArchivedRecords(context.Background(), "orders", 10, 0); !errors.Is(err, usecase.ErrArchiveDisabled) {
		t.Fatalf("want ErrArchiveDisabled, got %v", err)
	}
}

func TestReadMethods_Proxy(t *testing.T) {
	ctrl := gomock.NewController(t)

	repo := mocks.NewMockRecordRepository(ctrl)
	buffer := mocks.NewMockRecordBuffer(ctrl)
	validator := mocks.NewMockRecordValidator(ctrl)

	recent := []*domain.Record{record(9), record(8)}
	archived := []*domain.Record{record(1)}
	buffer.EXPECT().List(gomock.Any(), 2, 0).Return(recent)
	repo.EXPECT().ListByTopic(gomock.Any(), "orders", 10, 5).Return(archived, nil)

	svc := usecase.NewRecordService(repo, buffer, noopLogger{}, validator, time.Second)

	if got := svc.RecentRecords(context.Background(), 2, 0); len(got) != 2 || got[0].Offset != 9 {
		t.Fatalf("unexpected recent records: %v", got)
	}
	got, err := svc.ArchivedRecords(context.Background(), "orders", 10, 5)
	if err != nil || len(got) != 1 {
		t.Fatalf("unexpected archived records: %v err=%v", got, err)
	}
}
