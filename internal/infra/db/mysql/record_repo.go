package mysql

import (
	"context"
	"database/sql"
	"errors"
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

// Save inserts an analysis record; records are immutable so duplicate ids keep the first write
func (r *RecordRepository) Save(ctx context.Context, rec *domain.Record) error {
	const q = `
INSERT INTO analysis_records
  (id, filename, query, result_text, source_url, created_at)
VALUES (?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE id=id;
`
	filename := stringOrDash(rec.Filename)
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
WHERE id=?;
`
	row := r.db.QueryRowContext(ctx, q, id)
	rec, err := scanRecord(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return rec, nil
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
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func scanRecord(scan func(dest ...any) error) (*domain.Record, error) {
	var rec domain.Record
	var created time.Time
	var sourceURL sql.NullString
	if err := scan(&rec.ID, &rec.Filename, &rec.Query, &rec.ResultText, &sourceURL, &created); err != nil {
		return nil, err
	}
	rec.SourceURL = sourceURL.String
	rec.CreatedAt = created
	return &rec, nil
}
