package handlers

import (
	"net/http"

	"github.com/hongminglow/all-in-console/internal/http/respond"
	"github.com/hongminglow/all-in-console/internal/toast"
)

// ToastHandler lists toasts that have not expired yet.
type ToastHandler struct {
	feed *toast.Feed
}

func NewToastHandler(feed *toast.Feed) *ToastHandler {
	return &ToastHandler{feed: feed}
}

func (h *ToastHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/toasts", h.handle)
}

func (h *ToastHandler) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	respond.JSON(w, http.StatusOK, "ok", h.feed.Active())
}
