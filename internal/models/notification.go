package models

import "time"

// Category classifies a notification for icon selection and preference filtering.
type Category string

const (
	CategoryData     Category = "data"
	CategoryProfile  Category = "profile"
	CategoryReport   Category = "report"
	CategoryAI       Category = "ai"
	CategoryDocument Category = "document"
	CategoryUser     Category = "user"
)

// Categories lists every known category in display order.
var Categories = []Category{
	CategoryData,
	CategoryProfile,
	CategoryReport,
	CategoryAI,
	CategoryDocument,
	CategoryUser,
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Notification is a system-generated alert shown in the console.
type Notification struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
	Category    Category  `json:"category"`
	Read        bool      `json:"read"`
	Link        string    `json:"link,omitempty"`
}

// Frequency controls how notifications are delivered to the user.
type Frequency string

const (
	FrequencyRealtime Frequency = "realtime"
	FrequencyDaily    Frequency = "daily"
	FrequencyOff      Frequency = "off"
)

// Valid reports whether f is a known frequency.
func (f Frequency) Valid() bool {
	return f == FrequencyRealtime || f == FrequencyDaily || f == FrequencyOff
}

// NotificationPreferences are the per-session delivery settings.
type NotificationPreferences struct {
	Frequency    Frequency         `json:"frequency"`
	Categories   map[Category]bool `json:"categories"`
	EmailSummary bool              `json:"emailSummary"`
}

// DefaultNotificationPreferences enables realtime delivery for every category.
func DefaultNotificationPreferences() NotificationPreferences {
	cats := make(map[Category]bool, len(Categories))
	for _, c := range Categories {
		cats[c] = true
	}
	return NotificationPreferences{
		Frequency:  FrequencyRealtime,
		Categories: cats,
	}
}

// Clone returns a deep copy of the preferences.
func (p NotificationPreferences) Clone() NotificationPreferences {
	out := p
	out.Categories = make(map[Category]bool, len(p.Categories))
	for k, v := range p.Categories {
		out.Categories[k] = v
	}
	return out
}

// PreferencesPatch is a partial update; nil fields are left untouched.
type PreferencesPatch struct {
	Frequency    *Frequency        `json:"frequency,omitempty"`
	Categories   map[Category]bool `json:"categories,omitempty"`
	EmailSummary *bool             `json:"emailSummary,omitempty"`
}
