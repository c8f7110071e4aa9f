package toast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedExpiresToasts(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	f := NewFeed(5*time.Second, 10, nil)
	f.now = func() time.Time { return now }

	f.Show("Saved", "Report saved", 0)
	f.Show("Long", "stays", time.Minute)

	active := f.Active()
	require.Len(t, active, 2)
	assert.Equal(t, DefaultDuration, active[0].Duration)

	now = now.Add(6 * time.Second)
	active = f.Active()
	require.Len(t, active, 1)
	assert.Equal(t, "Long", active[0].Title)
}

func TestFeedLimit(t *testing.T) {
	f := NewFeed(time.Minute, 2, nil)
	f.Show("a", "", 0)
	f.Show("b", "", 0)
	f.Show("c", "", 0)

	active := f.Active()
	require.Len(t, active, 2)
	assert.Equal(t, "b", active[0].Title)
	assert.Equal(t, "c", active[1].Title)
}
