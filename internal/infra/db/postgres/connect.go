package postgres

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq"
)

// Schema yang diharapkan:
//
//	CREATE TABLE analysis_records (
//	  id          TEXT PRIMARY KEY,
//	  filename    TEXT NOT NULL,
//	  query       TEXT NOT NULL,
//	  result_text TEXT NOT NULL,
//	  source_url  TEXT,
//	  created_at  TIMESTAMPTZ NOT NULL
//	);
//	CREATE INDEX idx_analysis_records_created_at ON analysis_records (created_at);
func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	// test ping
	ctx2, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx2); err != nil {
		return nil, err
	}
	return db, nil
}
