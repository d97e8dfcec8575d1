package ui

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindWarning Kind = "warning"
	KindInfo    Kind = "info"
)

const (
	DefaultToastDuration = 3 * time.Second
	// exitAnimation is how long the reverse slide runs before removal.
	exitAnimation = 300 * time.Millisecond
)

type Notification struct {
	ID       string        `json:"id"`
	Message  string        `json:"message"`
	Kind     Kind          `json:"kind"`
	Duration time.Duration `json:"duration"`
	ShownAt  time.Time     `json:"shown_at"`
}

// RemoveAt is when the notification leaves the screen.
func (n Notification) RemoveAt() time.Time {
	return n.ShownAt.Add(n.Duration + exitAnimation)
}

// Icon returns the glyph shown next to the message.
func (n Notification) Icon() string {
	switch n.Kind {
	case KindSuccess:
		return "✅"
	case KindError:
		return "❌"
	case KindWarning:
		return "⚠️"
	default:
		return "ℹ️"
	}
}

// Toaster queues transient notifications in arrival order. Duplicates are
// kept and nothing caps the queue.
type Toaster struct {
	items    []Notification
	duration time.Duration
	now      func() time.Time
}

func NewToaster(defaultDuration time.Duration, now func() time.Time) *Toaster {
	if defaultDuration <= 0 {
		defaultDuration = DefaultToastDuration
	}
	if now == nil {
		now = time.Now
	}
	return &Toaster{duration: defaultDuration, now: now}
}

// Show appends a notification; duration <= 0 uses the default.
func (t *Toaster) Show(message string, kind Kind, duration time.Duration) Notification {
	if duration <= 0 {
		duration = t.duration
	}
	switch kind {
	case KindSuccess, KindError, KindWarning, KindInfo:
	default:
		kind = KindInfo
	}
	n := Notification{
		ID:       uuid.NewString(),
		Message:  message,
		Kind:     kind,
		Duration: duration,
		ShownAt:  t.now(),
	}
	t.items = append(t.items, n)
	return n
}

func (t *Toaster) Success(message string) { t.Show(message, KindSuccess, 0) }
func (t *Toaster) Error(message string)   { t.Show(message, KindError, 0) }
func (t *Toaster) Warning(message string) { t.Show(message, KindWarning, 0) }
func (t *Toaster) Info(message string)    { t.Show(message, KindInfo, 0) }

// All returns every queued notification.
func (t *Toaster) All() []Notification {
	out := make([]Notification, len(t.items))
	copy(out, t.items)
	return out
}

// Visible returns the notifications still on screen at now.
func (t *Toaster) Visible(now time.Time) []Notification {
	var out []Notification
	for _, n := range t.items {
		if now.Before(n.RemoveAt()) {
			out = append(out, n)
		}
	}
	return out
}

// Prune drops notifications that have left the screen.
func (t *Toaster) Prune(now time.Time) {
	t.items = t.Visible(now)
}

func (t *Toaster) Len() int {
	return len(t.items)
}

// Export serializes the queue so it survives a redirect. An empty queue
// exports as "".
func (t *Toaster) Export() (string, error) {
	if len(t.items) == 0 {
		return "", nil
	}
	b, err := json.Marshal(t.items)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Import appends previously exported notifications, restarting their clocks.
func (t *Toaster) Import(payload string) error {
	if payload == "" {
		return nil
	}
	var items []Notification
	if err := json.Unmarshal([]byte(payload), &items); err != nil {
		return err
	}
	now := t.now()
	for _, n := range items {
		n.ShownAt = now
		t.items = append(t.items, n)
	}
	return nil
}
