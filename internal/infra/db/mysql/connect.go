package mysql

import (
	"context"
	"database/sql"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Schema yang diharapkan:
//
//	CREATE TABLE analysis_records (
//	  id          VARCHAR(64) PRIMARY KEY,
//	  filename    VARCHAR(255) NOT NULL,
//	  query       TEXT NOT NULL,
//	  result_text MEDIUMTEXT NOT NULL,
//	  source_url  VARCHAR(512),
//	  created_at  DATETIME(6) NOT NULL,
//	  KEY idx_created_at (created_at)
//	);
func Connect(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
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

// stringOrDash returns "-" when the input is empty/whitespace
func stringOrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
