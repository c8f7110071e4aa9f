package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/hongminglow/all-in-console/internal/access"
	"github.com/hongminglow/all-in-console/internal/auth"
	"github.com/hongminglow/all-in-console/internal/http/respond"
	"github.com/hongminglow/all-in-console/internal/models"
)

type identityKey struct{}

// IdentityFrom returns the identity attached by Guard.
func IdentityFrom(ctx context.Context) (models.Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(models.Identity)
	return identity, ok
}

// Guard authenticates bearer tokens against the current session and gates
// handlers on capabilities.
type Guard struct {
	tokens     *auth.TokenManager
	identities access.Identities
	evaluator  *access.Evaluator
}

// NewGuard builds a guard over the session's identities.
func NewGuard(tokens *auth.TokenManager, identities access.Identities, evaluator *access.Evaluator) *Guard {
	return &Guard{tokens: tokens, identities: identities, evaluator: evaluator}
}

// Require wraps next so it only runs for the current identity holding
// capability. An empty capability only requires authentication.
func (g *Guard) Require(capability string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearerToken(r)
		if !ok {
			unauthorized(w, "missing bearer token")
			return
		}
		claims, err := g.tokens.Parse(raw)
		if err != nil {
			unauthorized(w, "invalid token")
			return
		}
		current, ok := g.identities.Current()
		if !ok || current.ID != claims.Subject {
			unauthorized(w, "session is no longer active")
			return
		}

		decision := g.evaluator.Require(capability)
		switch decision {
		case access.Allow:
		case access.RedirectLogin:
			unauthorized(w, "login required")
			return
		default:
			respond.Redirect(w, http.StatusForbidden, "permission denied", g.evaluator.Redirect(decision), map[string]string{
				"capability": capability,
			})
			return
		}

		ctx := context.WithValue(r.Context(), identityKey{}, current)
		next(w, r.WithContext(ctx))
	}
}

func unauthorized(w http.ResponseWriter, message string) {
	respond.Redirect(w, http.StatusUnauthorized, message, access.LoginPath, nil)
}

func bearerToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
