package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	domain "github.com/bryanwahyu/finsight-ai/internal/domain/analysis"
)

// compile-time check terhadap port
var _ domain.Repository = (*RecordRepository)(nil)

type RecordRepository struct {
	db *sql.DB
}

func NewRecordRepository(db *sql.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

// Save inserts an analysis record; records are immutable so conflicts are no-ops
func (r *RecordRepository) Save(ctx context.Context, rec *domain.Record) error {
	const q = `
INSERT INTO analysis_records
  (id, filename, query, result_text, source_url, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
ON CONFLICT (id) DO NOTHING;
`
	filename := rec.Filename
	if strings.TrimSpace(filename) == "" {
		filename = "-"
	}
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := r.db.ExecContext(ctx, q, rec.ID, filename, rec.Query, rec.ResultText, rec.SourceURL, createdAt)
	return err
}

// Get returns one record by id
func (r *RecordRepository) Get(ctx context.Context, id domain.RecordID) (*domain.Record, error) {
	const q = `
SELECT id, filename, query, result_text, source_url, created_at
FROM analysis_records
WHERE id=$1;
`
	row := r.db.QueryRowContext(ctx, q, id)
	var rec domain.Record
	var created time.Time
	var sourceURL sql.NullString
	if err := row.Scan(&rec.ID, &rec.Filename, &rec.Query, &rec.ResultText, &sourceURL, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	rec.SourceURL = sourceURL.String
	rec.CreatedAt = created
	return &rec, nil
}

// List returns all records ordered by created_at desc
func (r *RecordRepository) List(ctx context.Context) ([]*domain.Record, error) {
	const q = `
SELECT id, filename, query, result_text, source_url, created_at
FROM analysis_records
ORDER BY created_at DESC, id DESC;
`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Record
	for rows.Next() {
		var rec domain.Record
		var created time.Time
		var sourceURL sql.NullString
		if err := rows.Scan(&rec.ID, &rec.Filename, &rec.Query, &rec.ResultText, &sourceURL, &created); err != nil {
			return nil, err
		}
		rec.SourceURL = sourceURL.String
		rec.CreatedAt = created
		out = append(out, &rec)
	}
	return out, rows.Err()
}
