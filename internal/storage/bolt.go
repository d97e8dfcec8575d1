package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

var sessionsBucket = []byte("Sessions")

// Bolt keeps one nested bucket per session id inside Sessions.
type Bolt struct {
	db *bbolt.DB
}

func NewBolt(path string) (*Bolt, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt %s: %w", path, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(sessionsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create sessions bucket: %w", err)
	}
	return &Bolt{db: db}, nil
}

func (b *Bolt) Get(_ context.Context, sid, key string) (string, error) {
	var value string
	err := b.db.View(func(tx *bbolt.Tx) error {
		sess := tx.Bucket(sessionsBucket).Bucket([]byte(sid))
		if sess == nil {
			return ErrNotFound
		}
		v := sess.Get([]byte(key))
		if v == nil {
			return ErrNotFound
		}
		value = string(v)
		return nil
	})
	return value, err
}

func (b *Bolt) Set(_ context.Context, sid, key, value string) error {
	err := b.db.Update(func(tx *bbolt.Tx) error {
		sess, err := tx.Bucket(sessionsBucket).CreateBucketIfNotExists([]byte(sid))
		if err != nil {
			return err
		}
		return sess.Put([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("set session value: %w", err)
	}
	return nil
}

func (b *Bolt) Delete(_ context.Context, sid, key string) error {
	err := b.db.Update(func(tx *bbolt.Tx) error {
		sess := tx.Bucket(sessionsBucket).Bucket([]byte(sid))
		if sess == nil {
			return nil
		}
		return sess.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("delete session value: %w", err)
	}
	return nil
}

func (b *Bolt) Clear(_ context.Context, sid string) error {
	err := b.db.Update(func(tx *bbolt.Tx) error {
		root := tx.Bucket(sessionsBucket)
		if root.Bucket([]byte(sid)) == nil {
			return nil
		}
		return root.DeleteBucket([]byte(sid))
	})
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (b *Bolt) Close() error {
	return b.db.Close()
}
