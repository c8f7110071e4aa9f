package notify

import (
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/all-in-console/internal/models"
)

type recordingPresenter struct {
	mu     sync.Mutex
	titles []string
}

func (r *recordingPresenter) Show(title, _ string, _ time.Duration) {
	r.mu.Lock()
	r.titles = append(r.titles, title)
	r.mu.Unlock()
}

func (r *recordingPresenter) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.titles)
}

func TestAddPrependsUnread(t *testing.T) {
	s := NewStore(nil, nil)
	first, err := s.Add("Import done", "42 rows", models.CategoryData, "/data")
	require.NoError(t, err)
	second, err := s.Add("Report ready", "", models.CategoryReport, "")
	require.NoError(t, err)

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
	assert.False(t, list[0].Read)
	assert.Equal(t, "/data", list[1].Link)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 2, s.UnreadCount())
}

func TestAddRejectsUnknownCategory(t *testing.T) {
	s := NewStore(nil, nil)
	_, err := s.Add("x", "", models.Category("billing"), "")
	assert.ErrorIs(t, err, ErrInvalidCategory)
	assert.Empty(t, s.List())
}

func TestUnreadCountTracksMutations(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 20; round++ {
		s := NewStore(nil, nil)
		added := 1 + rng.Intn(15)
		var ids []string
		for i := 0; i < added; i++ {
			n, err := s.Add("t", "d", models.Categories[rng.Intn(len(models.Categories))], "")
			require.NoError(t, err)
			ids = append(ids, n.ID)
		}
		read := map[string]bool{}
		for i := 0; i < rng.Intn(added+1); i++ {
			id := ids[rng.Intn(len(ids))]
			s.MarkAsRead(id)
			read[id] = true
		}
		s.MarkAsRead("unknown-id")
		assert.Equal(t, added-len(read), s.UnreadCount())

		s.MarkAllAsRead()
		assert.Equal(t, 0, s.UnreadCount())
	}
}

func TestClearAll(t *testing.T) {
	s := NewStore(nil, nil)
	_, err := s.Add("a", "", models.CategoryAI, "")
	require.NoError(t, err)
	s.ClearAll()
	assert.Empty(t, s.List())
	assert.Equal(t, 0, s.UnreadCount())
}

func TestToastFollowsPreferences(t *testing.T) {
	p := &recordingPresenter{}
	s := NewStore(p, nil)

	_, err := s.Add("a", "", models.CategoryUser, "")
	require.NoError(t, err)
	assert.Equal(t, 1, p.count())

	_, err = s.UpdatePreferences(models.PreferencesPatch{Categories: map[models.Category]bool{models.CategoryUser: false}})
	require.NoError(t, err)
	_, err = s.Add("b", "", models.CategoryUser, "")
	require.NoError(t, err)
	_, err = s.Add("c", "", models.CategoryData, "")
	require.NoError(t, err)
	assert.Equal(t, 2, p.count())

	daily := models.FrequencyDaily
	_, err = s.UpdatePreferences(models.PreferencesPatch{Frequency: &daily})
	require.NoError(t, err)
	_, err = s.Add("d", "", models.CategoryData, "")
	require.NoError(t, err)
	assert.Equal(t, 2, p.count())
	assert.Equal(t, 4, s.UnreadCount())
}

func TestUpdatePreferencesMerges(t *testing.T) {
	s := NewStore(nil, nil)
	yes := true
	off := models.FrequencyOff

	prefs, err := s.UpdatePreferences(models.PreferencesPatch{
		EmailSummary: &yes,
		Categories:   map[models.Category]bool{models.CategoryAI: false},
	})
	require.NoError(t, err)
	assert.Equal(t, models.FrequencyRealtime, prefs.Frequency)
	assert.True(t, prefs.EmailSummary)
	assert.False(t, prefs.Categories[models.CategoryAI])
	assert.True(t, prefs.Categories[models.CategoryData])

	prefs, err = s.UpdatePreferences(models.PreferencesPatch{Frequency: &off})
	require.NoError(t, err)
	assert.Equal(t, models.FrequencyOff, prefs.Frequency)
	assert.True(t, prefs.EmailSummary)
	assert.False(t, prefs.Categories[models.CategoryAI])

	// returned preferences are copies
	prefs.Categories[models.CategoryData] = false
	assert.True(t, s.Preferences().Categories[models.CategoryData])
}

func TestUpdatePreferencesRejectsInvalid(t *testing.T) {
	s := NewStore(nil, nil)
	bad := models.Frequency("hourly")
	_, err := s.UpdatePreferences(models.PreferencesPatch{Frequency: &bad})
	assert.ErrorIs(t, err, ErrInvalidFrequency)

	yes := true
	_, err = s.UpdatePreferences(models.PreferencesPatch{
		EmailSummary: &yes,
		Categories:   map[models.Category]bool{"nope": true},
	})
	assert.ErrorIs(t, err, ErrInvalidCategory)
	assert.False(t, s.Preferences().EmailSummary)
}
