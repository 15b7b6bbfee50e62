package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS rsvp_records (
	id         BIGSERIAL PRIMARY KEY,
	name       TEXT NOT NULL,
	kana       TEXT NOT NULL,
	attendance TEXT NOT NULL,
	email      TEXT NOT NULL,
	allergy    TEXT NOT NULL DEFAULT '',
	message    TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

type pgQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresAppender keeps records in a PostgreSQL table
type PostgresAppender struct {
	pool *pgxpool.Pool
	q    pgQuerier
}

// ConnectPostgres opens a pool and makes sure the records table exists
func ConnectPostgres(ctx context.Context, dsn string) (*PostgresAppender, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("pgxpool: %w", err)
	}

	p := &PostgresAppender{pool: pool, q: pool}
	if err := p.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return p, nil
}

// EnsureSchema creates the records table if it is missing
func (p *PostgresAppender) EnsureSchema(ctx context.Context) error {
	if _, err := p.q.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("exec schema: %w", err)
	}
	return nil
}

// Close closes the pool
func (p *PostgresAppender) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}

// AppendRow inserts one record
func (p *PostgresAppender) AppendRow(ctx context.Context, row Row) (Ack, error) {
	sql := "INSERT INTO rsvp_records (" + strings.Join(Columns[:], ",") + ") VALUES ($1,$2,$3,$4,$5,$6) RETURNING id"

	var id int64
	if err := p.q.QueryRow(ctx, sql, row[0], row[1], row[2], row[3], row[4], row[5]).Scan(&id); err != nil {
		return Ack{}, fmt.Errorf("insert record: %w", err)
	}
	return Ack{Ref: fmt.Sprintf("rsvp_records/%d", id)}, nil
}
