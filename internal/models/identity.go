package models

import "time"

// Identity captures the authenticated user driving permission checks and
// message/notification attribution.
type Identity struct {
	ID           string   `json:"id" yaml:"id"`
	Name         string   `json:"name" yaml:"name"`
	Email        string   `json:"email" yaml:"email"`
	Role         string   `json:"role" yaml:"role"`
	Permissions  []string `json:"permissions" yaml:"permissions"`
	Avatar       string   `json:"avatar,omitempty" yaml:"avatar,omitempty"`
	PasswordHash string   `json:"-" yaml:"password_hash,omitempty"`
}

// IsSuperuser reports whether the identity bypasses capability checks.
func (i Identity) IsSuperuser() bool {
	return i.Role == RoleSuperuser
}

// Grants reports whether the identity's role or permission set covers capability.
func (i Identity) Grants(capability string) bool {
	if i.IsSuperuser() {
		return true
	}
	for _, p := range i.Permissions {
		if p == capability || p == PermissionAll {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no slices with i.
func (i Identity) Clone() Identity {
	out := i
	if i.Permissions != nil {
		out.Permissions = append([]string(nil), i.Permissions...)
	}
	return out
}

// SessionRecord is the payload persisted in the session slot.
type SessionRecord struct {
	Identity Identity  `json:"identity"`
	Token    string    `json:"token"`
	IssuedAt time.Time `json:"issuedAt"`
}
