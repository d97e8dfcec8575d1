package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"achievebot/internal/config"
	"achievebot/internal/storage"
)

type claims struct {
	SID string `json:"sid"`
	jwt.RegisteredClaims
}

// Manager ties a browser to its Store through a cookie holding a signed
// {sid, exp} token.
type Manager struct {
	kv         storage.KV
	cookieName string
	secret     []byte
	ttl        time.Duration
	secure     bool
	now        func() time.Time
}

func NewManager(kv storage.KV, cfg config.Session, secure bool) *Manager {
	return &Manager{
		kv:         kv,
		cookieName: cfg.CookieName,
		secret:     []byte(cfg.Secret),
		ttl:        cfg.TTL,
		secure:     secure,
		now:        time.Now,
	}
}

// Middleware attaches the caller's Store to the request context, starting a
// fresh session when the cookie is missing, forged or expired.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		store, err := m.load(r)
		if err != nil {
			store, err = m.Start(w)
			if err != nil {
				slog.Error("failed to start session", "err", err)
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
		}
		next.ServeHTTP(w, r.WithContext(WithStore(r.Context(), store)))
	})
}

// Start issues a new session id and cookie.
func (m *Manager) Start(w http.ResponseWriter) (*Store, error) {
	sid, err := newSessionID()
	if err != nil {
		return nil, err
	}
	token, err := m.sign(sid)
	if err != nil {
		return nil, err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return NewStore(m.kv, sid), nil
}

// Renew moves the caller to a new session id, carrying nothing over. Used on
// login so a pre-login id is never promoted.
func (m *Manager) Renew(w http.ResponseWriter, r *http.Request) (*Store, error) {
	if old, ok := FromContext(r.Context()); ok {
		if err := old.Clear(r.Context()); err != nil {
			slog.Warn("failed to clear previous session", "err", err)
		}
	}
	return m.Start(w)
}

func (m *Manager) load(r *http.Request) (*Store, error) {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil {
		return nil, err
	}
	sid, err := m.parse(cookie.Value)
	if err != nil {
		return nil, err
	}
	return NewStore(m.kv, sid), nil
}

func (m *Manager) sign(sid string) (string, error) {
	now := m.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		SID: sid,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

func (m *Manager) parse(tokenStr string) (string, error) {
	var c claims
	tok, err := jwt.ParseWithClaims(tokenStr, &c, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.now))
	if err != nil {
		return "", err
	}
	if !tok.Valid || c.SID == "" {
		return "", errors.New("invalid session token")
	}
	return c.SID, nil
}

func newSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	return hex.EncodeToString(b), nil
}
