// Package notify keeps the console notification log and delivery preferences.
package notify

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hongminglow/all-in-console/internal/models"
	"github.com/hongminglow/all-in-console/internal/toast"
)

var (
	// ErrInvalidCategory is returned for an unknown notification category.
	ErrInvalidCategory = errors.New("invalid notification category")
	// ErrInvalidFrequency is returned for an unknown delivery frequency.
	ErrInvalidFrequency = errors.New("invalid notification frequency")
)

// Store is the newest-first notification log. The zero value is not usable;
// construct with NewStore.
type Store struct {
	presenter toast.Presenter
	logger    *zap.Logger
	now       func() time.Time

	mu    sync.RWMutex
	items []models.Notification
	prefs models.NotificationPreferences
}

// NewStore returns an empty store with default preferences. presenter may be
// nil when toasts are not wanted.
func NewStore(presenter toast.Presenter, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		presenter: presenter,
		logger:    logger.Named("notify"),
		now:       time.Now,
		prefs:     models.DefaultNotificationPreferences(),
	}
}

// Add prepends a new unread notification. A toast is raised when delivery is
// realtime and the category is enabled.
func (s *Store) Add(title, description string, category models.Category, link string) (models.Notification, error) {
	if !category.Valid() {
		return models.Notification{}, fmt.Errorf("%w: %q", ErrInvalidCategory, category)
	}
	n := models.Notification{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		Timestamp:   s.now(),
		Category:    category,
		Link:        link,
	}

	s.mu.Lock()
	s.items = append([]models.Notification{n}, s.items...)
	raise := s.prefs.Frequency == models.FrequencyRealtime && s.prefs.Categories[category]
	s.mu.Unlock()

	s.logger.Debug("notification added", zap.String("id", n.ID), zap.String("category", string(category)))
	if raise && s.presenter != nil {
		s.presenter.Show(title, description, 0)
	}
	return n, nil
}

// MarkAsRead flags one notification as read. Unknown ids are ignored.
func (s *Store) MarkAsRead(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Read = true
			return
		}
	}
}

// MarkAllAsRead flags every notification as read.
func (s *Store) MarkAllAsRead() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		s.items[i].Read = true
	}
}

// ClearAll empties the log.
func (s *Store) ClearAll() {
	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()
}

// List returns a copy of the log, newest first.
func (s *Store) List() []models.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Notification{}, s.items...)
}

// UnreadCount counts unread notifications.
func (s *Store) UnreadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, item := range s.items {
		if !item.Read {
			n++
		}
	}
	return n
}

// Preferences returns a copy of the delivery preferences.
func (s *Store) Preferences() models.NotificationPreferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs.Clone()
}

// UpdatePreferences merges patch into the preferences. Categories merge per
// key. The patch is validated as a whole before anything is applied.
func (s *Store) UpdatePreferences(patch models.PreferencesPatch) (models.NotificationPreferences, error) {
	if patch.Frequency != nil && !patch.Frequency.Valid() {
		return models.NotificationPreferences{}, fmt.Errorf("%w: %q", ErrInvalidFrequency, *patch.Frequency)
	}
	for c := range patch.Categories {
		if !c.Valid() {
			return models.NotificationPreferences{}, fmt.Errorf("%w: %q", ErrInvalidCategory, c)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if patch.Frequency != nil {
		s.prefs.Frequency = *patch.Frequency
	}
	for c, enabled := range patch.Categories {
		s.prefs.Categories[c] = enabled
	}
	if patch.EmailSummary != nil {
		s.prefs.EmailSummary = *patch.EmailSummary
	}
	return s.prefs.Clone(), nil
}
