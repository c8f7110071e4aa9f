// Package access gates console routes and actions on the current identity's
// capabilities.
package access

import (
	"sort"
	"strings"

	"github.com/hongminglow/all-in-console/internal/models"
)

// Decision is the routing outcome for a protected path.
type Decision int

const (
	Allow Decision = iota
	RedirectLogin
	RedirectDefault
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect-login"
	case RedirectDefault:
		return "redirect-default"
	default:
		return "unknown"
	}
}

const (
	LoginPath   = "/login"
	DefaultPath = "/dashboard"
	// FallbackPath only requires a login.
	FallbackPath = "/profile"
)

// Identities is the part of the session store the evaluator needs.
type Identities interface {
	Current() (models.Identity, bool)
	HasPermission(capability string) bool
}

// Rule protects every path under Prefix with Capability. An empty Capability
// only requires a logged-in identity.
type Rule struct {
	Prefix     string
	Capability string
}

// DefaultRules is the console route table.
func DefaultRules() []Rule {
	return []Rule{
		{Prefix: "/dashboard", Capability: models.CapDashboardView},
		{Prefix: "/analytics", Capability: models.CapAnalyticsView},
		{Prefix: "/opportunities", Capability: models.CapOpportunitiesView},
		{Prefix: "/labour", Capability: models.CapLabourView},
		{Prefix: "/notifications", Capability: models.CapNotificationsView},
		{Prefix: "/messages", Capability: models.CapMessagesSend},
		{Prefix: FallbackPath},
		{Prefix: "/admin/companies", Capability: models.CapCompaniesManage},
		{Prefix: "/admin/billing", Capability: models.CapBillingManage},
		{Prefix: "/admin/users", Capability: models.CapUsersManage},
		{Prefix: "/admin/modules", Capability: models.CapModulesManage},
	}
}

// Evaluator answers capability and route questions. It holds no state of its
// own beyond the route table.
type Evaluator struct {
	identities Identities
	rules      []Rule
}

// NewEvaluator builds an evaluator; rules are matched longest prefix first.
func NewEvaluator(identities Identities, rules []Rule) *Evaluator {
	sorted := append([]Rule(nil), rules...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].Prefix) > len(sorted[j].Prefix)
	})
	return &Evaluator{identities: identities, rules: sorted}
}

// Can reports whether the current identity may use capability.
func (e *Evaluator) Can(capability string) bool {
	return e.identities.HasPermission(capability)
}

// Decide returns the routing decision for path. Paths outside the route
// table are public.
func (e *Evaluator) Decide(path string) Decision {
	rule, ok := e.match(path)
	if !ok {
		return Allow
	}
	return e.Require(rule.Capability)
}

// Require is Decide for an explicit capability; "" only requires a login.
func (e *Evaluator) Require(capability string) Decision {
	if _, ok := e.identities.Current(); !ok {
		return RedirectLogin
	}
	if capability != "" && !e.identities.HasPermission(capability) {
		return RedirectDefault
	}
	return Allow
}

// Redirect returns the target path for d, or "" for Allow. A refused
// identity goes to DefaultPath when it may open it, else to FallbackPath, and
// to LoginPath when both are refused.
func (e *Evaluator) Redirect(d Decision) string {
	switch d {
	case Allow:
		return ""
	case RedirectDefault:
		for _, path := range []string{DefaultPath, FallbackPath} {
			if e.Decide(path) == Allow {
				return path
			}
		}
	}
	return LoginPath
}

func (e *Evaluator) match(path string) (Rule, bool) {
	path = "/" + strings.Trim(path, "/")
	for _, r := range e.rules {
		prefix := "/" + strings.Trim(r.Prefix, "/")
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return r, true
		}
	}
	return Rule{}, false
}
