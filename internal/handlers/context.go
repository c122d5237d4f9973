package handlers

import (
	"github.com/labstack/echo/v4"
	"github.com/redsocial-app/backend/internal/middleware"
	"github.com/redsocial-app/backend/internal/models"
)

// actorID returns the authenticated actor's id, or 0 when the request
// carries no identity.
func actorID(c echo.Context) uint {
	id, _ := c.Get(middleware.ContextUserID).(uint)
	return id
}

// actorRole returns the authenticated actor's role; absent means standard.
func actorRole(c echo.Context) string {
	role, _ := c.Get(middleware.ContextRole).(string)
	if role == "" {
		return models.RoleStandard
	}
	return role
}
