package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/redsocial-app/backend/internal/apperrors"
	"github.com/redsocial-app/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowSelfIsRejected(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresFollowRepository(db)

	alice := seedUser(t, db, "alice")

	_, err := repo.Follow(context.Background(), alice.ID, alice.ID)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestFollowMissingUserIsNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresFollowRepository(db)

	alice := seedUser(t, db, "alice")

	_, err := repo.Follow(context.Background(), alice.ID, 9999)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestFollowDuplicateIsConflict(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresFollowRepository(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	edge, err := repo.Follow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.NotZero(t, edge.ID)

	_, err = repo.Follow(ctx, alice.ID, bob.ID)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))

	// The reverse edge is a distinct relationship.
	_, err = repo.Follow(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
}

func TestUnfollowMissingEdgeIsNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresFollowRepository(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	err := repo.Unfollow(ctx, alice.ID, bob.ID)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))

	_, err = repo.Follow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	require.NoError(t, repo.Unfollow(ctx, alice.ID, bob.ID))

	following, err := repo.IsFollowing(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, following)
}

func TestFollowersAndFollowingNewestEdgeFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresFollowRepository(db)
	ctx := context.Background()

	target := seedUser(t, db, "target")
	first := seedUser(t, db, "first")
	second := seedUser(t, db, "second")

	base := now(t).Add(-time.Hour)
	require.NoError(t, db.Create(&models.Follow{FollowerID: first.ID, FolloweeID: target.ID, CreatedAt: base}).Error)
	require.NoError(t, db.Create(&models.Follow{FollowerID: second.ID, FolloweeID: target.ID, CreatedAt: base.Add(time.Minute)}).Error)

	followers, err := repo.Followers(ctx, target.ID)
	require.NoError(t, err)
	require.Len(t, followers, 2)
	assert.Equal(t, "second", followers[0].User.Username)
	assert.Equal(t, "first", followers[1].User.Username)

	following, err := repo.Following(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, "target", following[0].User.Username)
}

func TestFollowingIDsAndStats(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresFollowRepository(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	carol := seedUser(t, db, "carol")

	_, err := repo.Follow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = repo.Follow(ctx, alice.ID, carol.ID)
	require.NoError(t, err)
	_, err = repo.Follow(ctx, bob.ID, alice.ID)
	require.NoError(t, err)

	ids, err := repo.FollowingIDs(ctx, alice.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{bob.ID, carol.ID}, ids)

	seedPost(t, db, alice, "published", now(t))
	draft := &models.Post{Title: "draft", Content: "d", Status: "draft", UserID: alice.ID}
	require.NoError(t, db.Create(draft).Error)

	stats, err := repo.Stats(ctx, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.Followers)
	assert.EqualValues(t, 2, stats.Following)
	assert.EqualValues(t, 1, stats.PublishedPosts)
}
