package handlers

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/redsocial-app/backend/internal/apperrors"
	"github.com/redsocial-app/backend/internal/models"
	"github.com/redsocial-app/backend/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowEndpointLifecycle(t *testing.T) {
	e, db := setupTestEnv(t)
	h := NewFollowHandler(repositories.NewPostgresFollowRepository(db))

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	target := func(method string, id uint) (echo.Context, func() map[string]interface{}) {
		c, rec := newContext(e, method, "/", "", alice.ID, models.RoleStandard)
		c.SetPath("/api/v1/users/:id/follow")
		c.SetParamNames("id")
		c.SetParamValues(fmt.Sprint(id))
		return c, func() map[string]interface{} { return decodeBody(t, rec) }
	}

	// Self-follow is rejected before any lookup.
	c, _ := target(http.MethodPost, alice.ID)
	err := h.FollowUser(c)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	c, body := target(http.MethodPost, bob.ID)
	require.NoError(t, h.FollowUser(c))
	assert.Equal(t, true, body()["success"])

	// Repeating the follow is a conflict.
	c, _ = target(http.MethodPost, bob.ID)
	err = h.FollowUser(c)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))

	c, body = target(http.MethodGet, bob.ID)
	require.NoError(t, h.CheckFollowing(c))
	assert.Equal(t, true, body()["following"])

	c, _ = target(http.MethodDelete, bob.ID)
	require.NoError(t, h.UnfollowUser(c))

	c, _ = target(http.MethodDelete, bob.ID)
	err = h.UnfollowUser(c)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestFollowStatsEndpoint(t *testing.T) {
	e, db := setupTestEnv(t)
	repo := repositories.NewPostgresFollowRepository(db)
	h := NewFollowHandler(repo)

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	carol := seedUser(t, db, "carol")

	for _, follower := range []*models.User{bob, carol} {
		_, err := repo.Follow(context.Background(), follower.ID, alice.ID)
		require.NoError(t, err)
	}

	c, rec := newContext(e, http.MethodGet, "/", "", 0, "")
	c.SetPath("/api/v1/users/:id/follow-stats")
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(alice.ID))
	require.NoError(t, h.Stats(c))

	data := decodeBody(t, rec)["data"].(map[string]interface{})
	assert.EqualValues(t, 2, data["followers"])
	assert.EqualValues(t, 0, data["following"])
}
