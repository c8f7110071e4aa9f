package respond

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRedirectEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	Redirect(rec, http.StatusForbidden, "permission denied", "/dashboard", nil)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var env Envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	assert.Equal(t, Envelope{Code: http.StatusForbidden, Message: "permission denied", Redirect: "/dashboard"}, env)
}

func TestEncodeFailureIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	t.Cleanup(restore)

	rec := httptest.NewRecorder()
	JSON(rec, http.StatusOK, "ok", make(chan int))

	entries := logs.FilterMessage("encode response payload").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(http.StatusOK), entries[0].ContextMap()["status"])
}
