package handlers

import (
	"net/http"
	"time"

	"github.com/hongminglow/all-in-console/internal/http/respond"
)

// SessionProbe reports whether an identity is logged in.
type SessionProbe func() bool

// HealthHandler returns uptime and whether a console session is active.
type HealthHandler struct {
	startedAt time.Time
	active    SessionProbe
}

// NewHealthHandler creates a health endpoint handler. active may be nil.
func NewHealthHandler(startedAt time.Time, active SessionProbe) *HealthHandler {
	return &HealthHandler{startedAt: startedAt, active: active}
}

// Register wires the handler into a ServeMux.
func (h *HealthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/health", h.handle)
}

func (h *HealthHandler) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	sessionState := "none"
	if h.active != nil && h.active() {
		sessionState = "active"
	}
	respond.JSON(w, http.StatusOK, "ok", map[string]string{
		"status":  "ok",
		"uptime":  time.Since(h.startedAt).Truncate(time.Second).String(),
		"session": sessionState,
	})
}
