package handlers

import (
	"net/http"
	"strings"

	"github.com/hongminglow/all-in-console/internal/http/respond"
	"github.com/hongminglow/all-in-console/internal/messaging"
	"github.com/hongminglow/all-in-console/internal/middleware"
	"github.com/hongminglow/all-in-console/internal/models"
	"github.com/hongminglow/all-in-console/internal/models/dto"
)

// MessageHandler exposes direct messaging for the current identity.
type MessageHandler struct {
	store *messaging.Store
	guard *middleware.Guard
}

// NewMessageHandler constructs the handler.
func NewMessageHandler(store *messaging.Store, guard *middleware.Guard) *MessageHandler {
	return &MessageHandler{store: store, guard: guard}
}

// Register attaches messaging routes to the mux.
func (h *MessageHandler) Register(mux *http.ServeMux) {
	require := func(fn http.HandlerFunc) http.HandlerFunc {
		return h.guard.Require(models.CapMessagesSend, fn)
	}
	mux.HandleFunc("/messages", require(h.handleSend))
	mux.HandleFunc("/messages/conversations", require(h.handleConversations))
	mux.HandleFunc("/messages/active", require(h.handleActive))
	mux.HandleFunc("/messages/{userId}", require(h.handleThread))
	mux.HandleFunc("/messages/{userId}/read", require(h.handleRead))
}

func (h *MessageHandler) handleSend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req dto.SendMessageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	msg, ok := h.store.Send(req.RecipientID, req.RecipientName, req.Content)
	if !ok {
		// Blank content is ignored rather than rejected.
		respond.JSON(w, http.StatusOK, "message ignored", nil)
		return
	}
	respond.JSON(w, http.StatusCreated, "message sent", msg)
}

func (h *MessageHandler) handleConversations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	h.writeConversations(w, "ok")
}

func (h *MessageHandler) handleActive(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		methodNotAllowed(w)
		return
	}
	var req dto.ActiveConversationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	h.store.SetActiveConversation(strings.TrimSpace(req.UserID))
	h.writeConversations(w, "ok")
}

func (h *MessageHandler) handleThread(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	userID := r.PathValue("userId")
	messages := h.store.Thread(userID)
	if messages == nil {
		messages = []models.Message{}
	}
	respond.JSON(w, http.StatusOK, "ok", dto.ThreadResponse{UserID: userID, Messages: messages})
}

func (h *MessageHandler) handleRead(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	h.store.MarkAsRead(r.PathValue("userId"))
	h.writeConversations(w, "ok")
}

func (h *MessageHandler) writeConversations(w http.ResponseWriter, message string) {
	respond.JSON(w, http.StatusOK, message, dto.ConversationListResponse{
		Conversations: h.store.Conversations(),
		UnreadTotal:   h.store.UnreadTotal(),
		Active:        h.store.ActiveConversation(),
	})
}
