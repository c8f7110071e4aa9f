package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/hongminglow/all-in-console/internal/access"
	"github.com/hongminglow/all-in-console/internal/auth"
	"github.com/hongminglow/all-in-console/internal/models"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusTeapot)
})

func TestCORSListedOrigin(t *testing.T) {
	h := CORS([]string{"https://console.example/"}, okHandler)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://Console.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "https://Console.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORSUnlistedOrigin(t *testing.T) {
	h := CORS([]string{"https://console.example"}, okHandler)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSPreflight(t *testing.T) {
	h := CORS([]string{"*"}, okHandler)

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://any.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
	assert.Equal(t, corsMaxAge, rec.Header().Get("Access-Control-Max-Age"))
}

func TestLoggingRecordsStatus(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	h := Logging(zap.New(core), okHandler)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "/health", fields["path"])
		assert.EqualValues(t, http.StatusTeapot, fields["status"])
	}
}

type staticIdentities struct{ identity *models.Identity }

func (s staticIdentities) Current() (models.Identity, bool) {
	if s.identity == nil {
		return models.Identity{}, false
	}
	return *s.identity, true
}

func (s staticIdentities) HasPermission(c string) bool {
	return s.identity != nil && s.identity.Grants(c)
}

func TestGuard(t *testing.T) {
	tokens := auth.NewTokenManager("secret", "console-test", time.Hour)
	viewer := &models.Identity{ID: "2", Role: models.RoleUser, Permissions: []string{models.CapDashboardView}}
	ids := staticIdentities{viewer}
	guard := NewGuard(tokens, ids, access.NewEvaluator(ids, nil))

	token, err := tokens.Generate(*viewer)
	if !assert.NoError(t, err) {
		return
	}
	foreign, err := tokens.Generate(models.Identity{ID: "9"})
	if !assert.NoError(t, err) {
		return
	}

	var seen models.Identity
	inner := func(w http.ResponseWriter, r *http.Request) {
		seen, _ = IdentityFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	}

	tests := []struct {
		name       string
		header     string
		capability string
		want       int
	}{
		{"no header", "", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, "", http.StatusUnauthorized},
		{"garbage", "Bearer nope", "", http.StatusUnauthorized},
		{"other identity", "Bearer " + foreign, "", http.StatusUnauthorized},
		{"granted", "Bearer " + token, models.CapDashboardView, http.StatusOK},
		{"lowercase scheme", "bearer " + token, "", http.StatusOK},
		{"denied", "Bearer " + token, models.CapUsersManage, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			guard.Require(tt.capability, inner)(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
	assert.Equal(t, "2", seen.ID)
}
