// Package toast is the ephemeral feedback surface of the console.
package toast

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultDuration is how long a toast stays visible when none is given.
const DefaultDuration = 5 * time.Second

// Toast is a transient message for the user.
type Toast struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Duration    time.Duration `json:"duration"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// Presenter receives toasts to show.
type Presenter interface {
	Show(title, description string, duration time.Duration)
}

// Feed keeps recently shown toasts until they expire.
type Feed struct {
	mu       sync.Mutex
	items    []Toast
	limit    int
	fallback time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewFeed returns a feed retaining at most limit live toasts.
func NewFeed(defaultDuration time.Duration, limit int, logger *zap.Logger) *Feed {
	if defaultDuration <= 0 {
		defaultDuration = DefaultDuration
	}
	if limit <= 0 {
		limit = 20
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Feed{fallback: defaultDuration, limit: limit, logger: logger.Named("toast"), now: time.Now}
}

// Show records a toast; a non-positive duration uses the feed default.
func (f *Feed) Show(title, description string, duration time.Duration) {
	if duration <= 0 {
		duration = f.fallback
	}
	t := Toast{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		Duration:    duration,
		CreatedAt:   f.now(),
	}

	f.mu.Lock()
	f.items = append(f.pruneLocked(t.CreatedAt), t)
	if len(f.items) > f.limit {
		f.items = f.items[len(f.items)-f.limit:]
	}
	f.mu.Unlock()

	f.logger.Debug("toast", zap.String("title", title), zap.Duration("duration", duration))
}

// Active returns unexpired toasts, oldest first.
func (f *Feed) Active() []Toast {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = f.pruneLocked(f.now())
	return append([]Toast(nil), f.items...)
}

func (f *Feed) pruneLocked(now time.Time) []Toast {
	kept := f.items[:0]
	for _, t := range f.items {
		if now.Before(t.CreatedAt.Add(t.Duration)) {
			kept = append(kept, t)
		}
	}
	return kept
}
