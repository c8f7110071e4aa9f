package memory

import "github.com/hongminglow/all-in-console/internal/models"

// DemoIdentities is the built-in identity table used when no database or seed
// file is configured.
func DemoIdentities() []models.Identity {
	return []models.Identity{
		{
			ID:          "1",
			Name:        "Admin User",
			Email:       "admin@example.com",
			Role:        models.RoleSuperuser,
			Permissions: []string{models.PermissionAll},
		},
		{
			ID:    "2",
			Name:  "Regular User",
			Email: "user@example.com",
			Role:  models.RoleUser,
			Permissions: []string{
				models.CapDashboardView,
				models.CapAnalyticsView,
				models.CapOpportunitiesView,
				models.CapNotificationsView,
				models.CapMessagesSend,
			},
		},
		{
			ID:    "3",
			Name:  "Sarah Johnson",
			Email: "sarah.johnson@example.com",
			Role:  models.RoleUser,
			Permissions: []string{
				models.CapDashboardView,
				models.CapLabourView,
				models.CapMessagesSend,
			},
			Avatar: "/avatars/sarah.png",
		},
		{
			ID:    "4",
			Name:  "Michael Chen",
			Email: "michael.chen@example.com",
			Role:  models.RoleUser,
			Permissions: []string{
				models.CapDashboardView,
				models.CapAnalyticsView,
				models.CapMessagesSend,
			},
			Avatar: "/avatars/michael.png",
		},
		{
			ID:          "5",
			Name:        "Emma Davis",
			Email:       "emma.davis@example.com",
			Role:        models.RoleUser,
			Permissions: []string{models.CapDashboardView},
			Avatar:      "/avatars/emma.png",
		},
	}
}
