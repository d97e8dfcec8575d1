package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS session_values (
	sid        TEXT NOT NULL,
	key        TEXT NOT NULL,
	value      TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (sid, key)
);`

type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pgx ping: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create session_values: %w", err)
	}
	slog.Info("postgres connected")
	return &Postgres{pool: pool}, nil
}

func (p *Postgres) Get(ctx context.Context, sid, key string) (string, error) {
	const query = `SELECT value FROM session_values WHERE sid = $1 AND key = $2;`

	var value string
	if err := p.pool.QueryRow(ctx, query, sid, key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("get session value: %w", err)
	}
	return value, nil
}

func (p *Postgres) Set(ctx context.Context, sid, key, value string) error {
	const query = `
	INSERT INTO session_values (sid, key, value)
	VALUES ($1, $2, $3)
	ON CONFLICT (sid, key) DO UPDATE SET value = EXCLUDED.value, updated_at = now();`

	if _, err := p.pool.Exec(ctx, query, sid, key, value); err != nil {
		return fmt.Errorf("set session value: %w", err)
	}
	return nil
}

func (p *Postgres) Delete(ctx context.Context, sid, key string) error {
	const query = `DELETE FROM session_values WHERE sid = $1 AND key = $2;`

	if _, err := p.pool.Exec(ctx, query, sid, key); err != nil {
		return fmt.Errorf("delete session value: %w", err)
	}
	return nil
}

func (p *Postgres) Clear(ctx context.Context, sid string) error {
	const query = `DELETE FROM session_values WHERE sid = $1;`

	if _, err := p.pool.Exec(ctx, query, sid); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
