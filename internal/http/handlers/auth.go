package handlers

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/hongminglow/all-in-console/internal/access"
	"github.com/hongminglow/all-in-console/internal/http/respond"
	"github.com/hongminglow/all-in-console/internal/middleware"
	"github.com/hongminglow/all-in-console/internal/models"
	"github.com/hongminglow/all-in-console/internal/models/dto"
	"github.com/hongminglow/all-in-console/internal/session"
	"github.com/hongminglow/all-in-console/internal/storage"
	"github.com/hongminglow/all-in-console/internal/toast"
)

// AuthHandler owns login/logout and identity/permission queries.
type AuthHandler struct {
	session   *session.Store
	evaluator *access.Evaluator
	directory storage.IdentityDirectory
	guard     *middleware.Guard
	toasts    toast.Presenter
	logger    *zap.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(sess *session.Store, evaluator *access.Evaluator, directory storage.IdentityDirectory, guard *middleware.Guard, toasts toast.Presenter, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{session: sess, evaluator: evaluator, directory: directory, guard: guard, toasts: toasts, logger: logger}
}

// Register attaches auth routes to the mux.
func (h *AuthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/login", h.handleLogin)
	mux.HandleFunc("/logout", h.handleLogout)
	mux.HandleFunc("/me", h.guard.Require("", h.handleMe))
	mux.HandleFunc("/permissions/{capability}", h.guard.Require("", h.handlePermission))
	mux.HandleFunc("/routes/decision", h.handleDecision)
	mux.HandleFunc("/contacts", h.guard.Require("", h.handleContacts))
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req dto.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		respond.Error(w, http.StatusBadRequest, "email is required")
		return
	}
	identity, err := h.session.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, session.ErrInvalidCredentials) {
			h.toast("Login failed", "Invalid email or password.")
			respond.Error(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		h.logger.Error("login failed", zap.String("email", req.Email), zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "failed to log in")
		return
	}
	h.toast("Welcome back", "Logged in as "+identity.Name+".")
	respond.JSON(w, http.StatusOK, "login successful", dto.LoginResponse{Token: h.session.Token(), Identity: identity})
}

func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	h.session.Logout(r.Context())
	respond.JSON(w, http.StatusOK, "logged out", nil)
}

func (h *AuthHandler) handleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	identity, _ := middleware.IdentityFrom(r.Context())
	respond.JSON(w, http.StatusOK, "ok", identity)
}

func (h *AuthHandler) handlePermission(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	capability := r.PathValue("capability")
	respond.JSON(w, http.StatusOK, "ok", dto.PermissionResponse{
		Capability: capability,
		Allowed:    h.evaluator.Can(capability),
	})
}

func (h *AuthHandler) handleDecision(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	path := strings.TrimSpace(r.URL.Query().Get("path"))
	if path == "" {
		respond.Error(w, http.StatusBadRequest, "path is required")
		return
	}
	decision := h.evaluator.Decide(path)
	respond.JSON(w, http.StatusOK, "ok", dto.RouteDecisionResponse{
		Path:     path,
		Decision: decision.String(),
		Redirect: h.evaluator.Redirect(decision),
	})
}

func (h *AuthHandler) handleContacts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	me, _ := middleware.IdentityFrom(r.Context())
	all, err := h.directory.List(r.Context())
	if err != nil {
		h.logger.Error("list contacts", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "failed to list contacts")
		return
	}
	contacts := make([]models.Identity, 0, len(all))
	for _, identity := range all {
		if identity.ID != me.ID {
			contacts = append(contacts, identity)
		}
	}
	respond.JSON(w, http.StatusOK, "ok", contacts)
}

func (h *AuthHandler) toast(title, description string) {
	if h.toasts != nil {
		h.toasts.Show(title, description, 0)
	}
}
