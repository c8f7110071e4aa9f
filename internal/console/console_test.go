package console

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/all-in-console/internal/config"
	"github.com/hongminglow/all-in-console/internal/storage/slot"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		JWTSecret:      "test-secret",
		JWTIssuer:      "console-test",
		JWTTTL:         time.Hour,
		SessionBackend: config.SessionMemory,
		SessionWatch:   true,
		ToastDuration:  time.Minute,
	}
}

func TestNewWiresStores(t *testing.T) {
	app, err := New(context.Background(), testConfig(t), nil)
	require.NoError(t, err)
	defer app.Close()

	_, ok := app.Session.Current()
	assert.False(t, ok)

	_, err = app.Session.Login(context.Background(), "user@example.com", "")
	require.NoError(t, err)
	assert.True(t, app.Access.Can("dashboard:view"))

	_, ok = app.Messages.Receive("3", "Sarah Johnson", "hi there")
	require.True(t, ok)
	assert.Equal(t, 1, app.Notifications.UnreadCount(), "incoming messages raise a notification")
	assert.Len(t, app.Toasts.Active(), 1)

	app.Session.Logout(context.Background())
	assert.Empty(t, app.Messages.Messages(), "logout resets the message log")
}

func TestSeedDemoMessagesOnLogin(t *testing.T) {
	cfg := testConfig(t)
	cfg.SeedDemoMessages = true
	app, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer app.Close()

	_, err = app.Session.Login(context.Background(), "user@example.com", "")
	require.NoError(t, err)

	convs := app.Messages.Conversations()
	require.NotEmpty(t, convs)
	assert.Equal(t, 1, app.Messages.UnreadTotal())
	for _, c := range convs {
		assert.NotEqual(t, "2", c.UserID)
	}
}

func TestRestoreAndWatchFileSession(t *testing.T) {
	cfg := testConfig(t)
	cfg.SessionBackend = config.SessionFile
	cfg.SessionPath = filepath.Join(t.TempDir(), "session.json")

	writer, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer writer.Close()
	_, err = writer.Session.Login(context.Background(), "user@example.com", "")
	require.NoError(t, err)

	reader, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)
	defer reader.Close()
	current, ok := reader.Session.Current()
	require.True(t, ok)
	assert.Equal(t, "2", current.ID)
	require.IsType(t, &slot.File{}, reader.Slot)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- reader.WatchSession(ctx) }()

	require.Eventually(t, func() bool {
		if _, err := writer.Session.Login(context.Background(), "admin@example.com", ""); err != nil {
			return false
		}
		current, ok := reader.Session.Current()
		return ok && current.ID == "1"
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestWatchSessionNoopForMemorySlot(t *testing.T) {
	app, err := New(context.Background(), testConfig(t), nil)
	require.NoError(t, err)
	defer app.Close()
	assert.NoError(t, app.WatchSession(context.Background()))
}

func TestIdentitiesFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.IdentitiesFile = filepath.Join(t.TempDir(), "missing.yaml")
	_, err := New(context.Background(), cfg, nil)
	assert.Error(t, err)
}
