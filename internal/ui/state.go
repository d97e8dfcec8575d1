// Package ui holds the per-request feedback state a page renders: toasts,
// modals, the loading overlay and charts.
package ui

import (
	"context"
	"time"

	"achievebot/internal/chart"
)

type State struct {
	Toast   *Toaster
	Modals  *Modals
	Loading *Loading
	Charts  *chart.Registry
}

func NewState(toastDuration time.Duration, now func() time.Time) *State {
	return &State{
		Toast:   NewToaster(toastDuration, now),
		Modals:  &Modals{},
		Loading: &Loading{},
		Charts:  chart.NewRegistry(),
	}
}

type ctxKey struct{}

func WithState(ctx context.Context, s *State) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

func FromContext(ctx context.Context) (*State, bool) {
	s, ok := ctx.Value(ctxKey{}).(*State)
	return s, ok
}
