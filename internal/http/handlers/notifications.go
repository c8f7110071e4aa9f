package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/hongminglow/all-in-console/internal/http/respond"
	"github.com/hongminglow/all-in-console/internal/middleware"
	"github.com/hongminglow/all-in-console/internal/models"
	"github.com/hongminglow/all-in-console/internal/models/dto"
	"github.com/hongminglow/all-in-console/internal/notify"
)

// NotificationHandler exposes the notification log and preferences.
type NotificationHandler struct {
	store *notify.Store
	guard *middleware.Guard
}

// NewNotificationHandler constructs the handler.
func NewNotificationHandler(store *notify.Store, guard *middleware.Guard) *NotificationHandler {
	return &NotificationHandler{store: store, guard: guard}
}

// Register attaches notification routes to the mux.
func (h *NotificationHandler) Register(mux *http.ServeMux) {
	require := func(fn http.HandlerFunc) http.HandlerFunc {
		return h.guard.Require(models.CapNotificationsView, fn)
	}
	mux.HandleFunc("/notifications", require(h.handleCollection))
	mux.HandleFunc("/notifications/read-all", require(h.handleReadAll))
	mux.HandleFunc("/notifications/{id}/read", require(h.handleRead))
	mux.HandleFunc("/notifications/preferences", require(h.handlePreferences))
}

func (h *NotificationHandler) handleCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.writeList(w, http.StatusOK, "ok")
	case http.MethodPost:
		var req dto.AddNotificationRequest
		if err := decodeJSON(w, r, &req); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
			return
		}
		if strings.TrimSpace(req.Title) == "" {
			respond.Error(w, http.StatusBadRequest, "title is required")
			return
		}
		n, err := h.store.Add(strings.TrimSpace(req.Title), req.Description, models.Category(req.Category), req.Link)
		if err != nil {
			if errors.Is(err, notify.ErrInvalidCategory) {
				respond.Error(w, http.StatusBadRequest, err.Error())
				return
			}
			respond.Error(w, http.StatusInternalServerError, "failed to add notification")
			return
		}
		respond.JSON(w, http.StatusCreated, "notification added", n)
	case http.MethodDelete:
		h.store.ClearAll()
		h.writeList(w, http.StatusOK, "notifications cleared")
	default:
		methodNotAllowed(w)
	}
}

func (h *NotificationHandler) handleRead(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	h.store.MarkAsRead(r.PathValue("id"))
	h.writeList(w, http.StatusOK, "ok")
}

func (h *NotificationHandler) handleReadAll(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	h.store.MarkAllAsRead()
	h.writeList(w, http.StatusOK, "ok")
}

func (h *NotificationHandler) handlePreferences(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		respond.JSON(w, http.StatusOK, "ok", h.store.Preferences())
	case http.MethodPatch:
		var patch models.PreferencesPatch
		if err := decodeJSON(w, r, &patch); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
			return
		}
		prefs, err := h.store.UpdatePreferences(patch)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		respond.JSON(w, http.StatusOK, "preferences updated", prefs)
	default:
		methodNotAllowed(w)
	}
}

func (h *NotificationHandler) writeList(w http.ResponseWriter, status int, message string) {
	respond.JSON(w, status, message, dto.NotificationListResponse{
		Notifications: h.store.List(),
		UnreadCount:   h.store.UnreadCount(),
	})
}
