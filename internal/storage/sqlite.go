package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS rsvp_records (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	name       TEXT NOT NULL,
	kana       TEXT NOT NULL,
	attendance TEXT NOT NULL,
	email      TEXT NOT NULL,
	allergy    TEXT NOT NULL DEFAULT '',
	message    TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// StoredRecord is a row read back from a local store
type StoredRecord struct {
	ID        int64
	Row       Row
	CreatedAt time.Time
}

// SQLiteAppender keeps records in a local SQLite file
type SQLiteAppender struct {
	db *sql.DB
}

// NewSQLiteAppender opens (and creates if needed) the database at path
func NewSQLiteAppender(path string) (*SQLiteAppender, error) {
	// Ensure directory exists
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_busy_timeout=5000", path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// sqlite allows one writer at a time
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &SQLiteAppender{db: db}, nil
}

// Close closes the database
func (s *SQLiteAppender) Close() error {
	return s.db.Close()
}

// AppendRow inserts one record
func (s *SQLiteAppender) AppendRow(ctx context.Context, row Row) (Ack, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO rsvp_records (`+strings.Join(Columns[:], ", ")+`) VALUES (?, ?, ?, ?, ?, ?)`,
		row[0], row[1], row[2], row[3], row[4], row[5],
	)
	if err != nil {
		return Ack{}, fmt.Errorf("failed to insert record: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Ack{}, fmt.Errorf("failed to read record id: %w", err)
	}
	return Ack{Ref: fmt.Sprintf("rsvp_records/%d", id)}, nil
}

// ListRecords returns stored records in insertion order.
// A non-empty attendance label restricts the result to that answer.
func (s *SQLiteAppender) ListRecords(ctx context.Context, attendance string) ([]StoredRecord, error) {
	query := `SELECT id, ` + strings.Join(Columns[:], ", ") + `, created_at FROM rsvp_records`
	var args []any
	if attendance != "" {
		query += ` WHERE attendance = ?`
		args = append(args, attendance)
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var out []StoredRecord
	for rows.Next() {
		var r StoredRecord
		if err := rows.Scan(&r.ID, &r.Row[0], &r.Row[1], &r.Row[2], &r.Row[3], &r.Row[4], &r.Row[5], &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
