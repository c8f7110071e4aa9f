package dto

import "github.com/hongminglow/all-in-console/internal/models"

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token    string          `json:"token"`
	Identity models.Identity `json:"identity"`
}

type PermissionResponse struct {
	Capability string `json:"capability"`
	Allowed    bool   `json:"allowed"`
}

type RouteDecisionResponse struct {
	Path     string `json:"path"`
	Decision string `json:"decision"`
	Redirect string `json:"redirect,omitempty"`
}
