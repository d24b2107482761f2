package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Gunvolt24/kgroup/internal/domain"
	"github.com/Gunvolt24/kgroup/internal/ports"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Проверка, что RecordRepository удовлетворяет интерфейсу RecordRepository.
var _ ports.RecordRepository = (*RecordRepository)(nil)

// RecordRepository — архив полученных записей на Postgres (pgxpool).
// Ключ, значение и заголовки хранятся как JSONB.
type RecordRepository struct {
	pool *pgxpool.Pool
}

// NewRecordRepository - конструктор RecordRepository.
func NewRecordRepository(pool *pgxpool.Pool) *RecordRepository { return &RecordRepository{pool: pool} }

// Save — идемпотентный upsert по (group_id, topic, partition, offset).
func (r *RecordRepository) Save(ctx context.Context, groupID string, record *domain.Record) error {
	if record == nil || record.Topic == "" {
		return errors.New("record is empty or topic is required")
	}
	if groupID == "" {
		return errors.New("group_id is required")
	}

	key, err := json.Marshal(record.Key)
	if err != nil {
		return fmt.Errorf("marshal key: %w", err)
	}
	value, err := json.Marshal(record.Value)
	if err != nil {
		return fmt.Errorf("marshal value: %w", err)
	}
	var headers []byte
	if len(record.Headers) > 0 {
		if headers, err = json.Marshal(record.Headers); err != nil {
			return fmt.Errorf("marshal headers: %w", err)
		}
	}

	var ts *time.Time
	if !record.Timestamp.IsZero() {
		t := record.Timestamp.UTC()
		ts = &t
	}

	if _, err = r.pool.Exec(ctx, `
		INSERT INTO consumed_records (
			group_id, topic, partition, offset_value, record_key, record_value, headers, record_ts
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (group_id, topic, partition, offset_value) DO UPDATE SET
			record_key = EXCLUDED.record_key,
			record_value = EXCLUDED.record_value,
			headers = EXCLUDED.headers,
			record_ts = EXCLUDED.record_ts,
			received_at = now()
	`,
		groupID, record.Topic, record.Partition, record.Offset, key, value, headers, ts,
	); err != nil {
		return fmt.Errorf("upsert record: %w", err)
	}
	return nil
}

// ListByTopic — постраничный список архивных записей топика, свежие первыми.
func (r *RecordRepository) ListByTopic(ctx context.Context, topic string, limit, offset int) ([]*domain.Record, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.pool.Query(ctx, `
		SELECT topic, partition, offset_value, record_key, record_value, headers, record_ts
		FROM consumed_records
		WHERE topic = $1
		ORDER BY received_at DESC, offset_value DESC
		LIMIT $2 OFFSET $3
	`, topic, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("select records: %w", err)
	}
	defer rows.Close()

	records := make([]*domain.Record, 0, limit)
	for rows.Next() {
		var (
			rec                 domain.Record
			key, value, headers []byte
			ts                  *time.Time
		)
		if err := rows.Scan(&rec.Topic, &rec.Partition, &rec.Offset, &key, &value, &headers, &ts); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		if rec.Key, err = decodeJSON(key); err != nil {
			return nil, fmt.Errorf("decode key offset=%d: %w", rec.Offset, err)
		}
		if rec.Value, err = decodeJSON(value); err != nil {
			return nil, fmt.Errorf("decode value offset=%d: %w", rec.Offset, err)
		}
		if len(headers) > 0 {
			if err := json.Unmarshal(headers, &rec.Headers); err != nil {
				return nil, fmt.Errorf("decode headers offset=%d: %w", rec.Offset, err)
			}
		}
		if ts != nil {
			rec.Timestamp = ts.UTC()
		}
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("records rows: %w", err)
	}
	return records, nil
}

func decodeJSON(raw []byte) (any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}
