package session

import (
	"context"
	"fmt"

	"achievebot/internal/storage"
)

const (
	KeyUser  = "user"
	KeyRole  = "role"
	KeyFlash = "flash"

	RoleStudent = "student"
	RoleTeacher = "teacher"
)

type User struct {
	Username string
	Role     string
}

func (u User) LoggedIn() bool {
	return u.Username != ""
}

// Store is one browser's key-value store.
type Store struct {
	kv  storage.KV
	sid string
}

func NewStore(kv storage.KV, sid string) *Store {
	return &Store{kv: kv, sid: sid}
}

func (s *Store) ID() string {
	return s.sid
}

// Get reports ok=false when the key is absent or the store is unreadable.
func (s *Store) Get(ctx context.Context, key string) (string, bool) {
	v, err := s.kv.Get(ctx, s.sid, key)
	if err != nil {
		return "", false
	}
	return v, true
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	return s.kv.Set(ctx, s.sid, key, value)
}

func (s *Store) Remove(ctx context.Context, key string) error {
	return s.kv.Delete(ctx, s.sid, key)
}

func (s *Store) Clear(ctx context.Context) error {
	return s.kv.Clear(ctx, s.sid)
}

func (s *Store) CurrentUser(ctx context.Context) User {
	username, _ := s.Get(ctx, KeyUser)
	role, _ := s.Get(ctx, KeyRole)
	return User{Username: username, Role: role}
}

func (s *Store) SetUser(ctx context.Context, u User) error {
	if err := s.Set(ctx, KeyUser, u.Username); err != nil {
		return fmt.Errorf("store user: %w", err)
	}
	if err := s.Set(ctx, KeyRole, u.Role); err != nil {
		return fmt.Errorf("store role: %w", err)
	}
	return nil
}

// TakeFlash returns and deletes the pending flash payload.
func (s *Store) TakeFlash(ctx context.Context) string {
	v, ok := s.Get(ctx, KeyFlash)
	if !ok {
		return ""
	}
	_ = s.Remove(ctx, KeyFlash)
	return v
}

type ctxKey struct{}

func WithStore(ctx context.Context, s *Store) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func FromContext(ctx context.Context) (*Store, bool) {
	s, ok := ctx.Value(ctxKey{}).(*Store)
	return s, ok
}
