package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"achievebot/internal/config"
)

var ErrNotFound = errors.New("storage: key not found")

// KV persists small string values per browser session.
type KV interface {
	Get(ctx context.Context, sid, key string) (string, error)
	Set(ctx context.Context, sid, key, value string) error
	Delete(ctx context.Context, sid, key string) error
	Clear(ctx context.Context, sid string) error
	Close() error
}

// Open returns the backend selected by cfg.Driver.
func Open(ctx context.Context, cfg config.Session) (KV, error) {
	var (
		kv  KV
		err error
	)
	switch cfg.Driver {
	case "bolt":
		kv, err = NewBolt(cfg.Path)
	case "sqlite":
		kv, err = NewSQLite(ctx, cfg.Path)
	case "postgres":
		kv, err = NewPostgres(ctx, cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown session driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	slog.Info("session storage ready", "driver", cfg.Driver)
	return kv, nil
}
