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

func TestGetByIDComputesCounts(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresPostRepository(db)
	reactions := NewPostgresReactionRepository(db)
	ctx := context.Background()

	author := seedUser(t, db, "author")
	reader := seedUser(t, db, "reader")
	post := seedPost(t, db, author, "counted", now(t))
	seedComment(t, db, reader, post, "nice")
	seedComment(t, db, author, post, "thanks")
	_, _, err := reactions.Toggle(ctx, reader.ID, models.PostTarget(post.ID), "like")
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, got.CommentCount)
	assert.EqualValues(t, 1, got.ReactionCount)
	assert.Equal(t, author.ID, got.User.ID)
}

func TestGetByIDMissingIsNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresPostRepository(db)

	_, err := repo.GetByID(context.Background(), 9999)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestFeedFiltersByAuthorAndOrders(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresPostRepository(db)
	ctx := context.Background()

	followee := seedUser(t, db, "followee")
	stranger := seedUser(t, db, "stranger")

	base := now(t).Add(-time.Hour)
	older := seedPost(t, db, followee, "older", base)
	newer := seedPost(t, db, followee, "newer", base.Add(10*time.Minute))
	seedPost(t, db, stranger, "unrelated", base.Add(20*time.Minute))

	draft := &models.Post{Title: "draft", Content: "d", Status: "draft", UserID: followee.ID, PublishedAt: base.Add(30 * time.Minute)}
	require.NoError(t, db.Create(draft).Error)

	posts, err := repo.Feed(ctx, []uint{followee.ID}, 50)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, newer.ID, posts[0].ID)
	assert.Equal(t, older.ID, posts[1].ID)
}

func TestFeedRespectsLimitAndEmptyAuthorSet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresPostRepository(db)
	ctx := context.Background()

	author := seedUser(t, db, "author")
	base := now(t).Add(-time.Hour)
	for i := 0; i < 3; i++ {
		seedPost(t, db, author, "p", base.Add(time.Duration(i)*time.Minute))
	}

	posts, err := repo.Feed(ctx, []uint{author.ID}, 2)
	require.NoError(t, err)
	assert.Len(t, posts, 2)

	posts, err = repo.Feed(ctx, nil, 10)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestClampPopularLimit(t *testing.T) {
	assert.Equal(t, PopularDefault, ClampPopularLimit(0))
	assert.Equal(t, PopularDefault, ClampPopularLimit(-5))
	assert.Equal(t, 1, ClampPopularLimit(1))
	assert.Equal(t, 37, ClampPopularLimit(37))
	assert.Equal(t, PopularMaxLimit, ClampPopularLimit(50))
	assert.Equal(t, PopularMaxLimit, ClampPopularLimit(1000))
}

func TestPopularOrdersByReactionsThenRecency(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresPostRepository(db)
	reactions := NewPostgresReactionRepository(db)
	ctx := context.Background()

	author := seedUser(t, db, "author")
	base := now(t).Add(-time.Hour)

	quiet := seedPost(t, db, author, "quiet", base)
	hot := seedPost(t, db, author, "hot", base.Add(time.Minute))
	tiedOld := seedPost(t, db, author, "tied-old", base.Add(2*time.Minute))
	tiedNew := seedPost(t, db, author, "tied-new", base.Add(3*time.Minute))

	fans := []*models.User{seedUser(t, db, "f1"), seedUser(t, db, "f2"), seedUser(t, db, "f3")}
	for _, fan := range fans {
		_, _, err := reactions.Toggle(ctx, fan.ID, models.PostTarget(hot.ID), "like")
		require.NoError(t, err)
	}
	_, _, err := reactions.Toggle(ctx, fans[0].ID, models.PostTarget(tiedOld.ID), "like")
	require.NoError(t, err)
	_, _, err = reactions.Toggle(ctx, fans[1].ID, models.PostTarget(tiedNew.ID), "like")
	require.NoError(t, err)

	posts, err := repo.Popular(ctx, 10)
	require.NoError(t, err)
	require.Len(t, posts, 4)
	assert.Equal(t, hot.ID, posts[0].ID)
	// Equal counts fall back to publication recency.
	assert.Equal(t, tiedNew.ID, posts[1].ID)
	assert.Equal(t, tiedOld.ID, posts[2].ID)
	assert.Equal(t, quiet.ID, posts[3].ID)

	// A smaller limit is a prefix of the larger ranking.
	top2, err := repo.Popular(ctx, 2)
	require.NoError(t, err)
	require.Len(t, top2, 2)
	assert.Equal(t, posts[0].ID, top2[0].ID)
	assert.Equal(t, posts[1].ID, top2[1].ID)
}

func TestSearchIsCaseInsensitiveOverTitleContentTags(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresPostRepository(db)
	ctx := context.Background()

	author := seedUser(t, db, "author")
	base := now(t).Add(-time.Hour)

	byTitle := seedPost(t, db, author, "Gopher news", base)
	byContent := &models.Post{
		Title: "untitled", Content: "all about GOPHERS", Status: models.PostStatusPublished,
		PublishedAt: base.Add(time.Minute), UserID: author.ID,
	}
	require.NoError(t, db.Create(byContent).Error)
	byTags := &models.Post{
		Title: "tips", Content: "misc", Tags: "golang,gopher", Status: models.PostStatusPublished,
		PublishedAt: base.Add(2 * time.Minute), UserID: author.ID,
	}
	require.NoError(t, db.Create(byTags).Error)
	seedPost(t, db, author, "cooking", base.Add(3*time.Minute))

	posts, err := repo.Search(ctx, "gopher")
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, byTags.ID, posts[0].ID)
	assert.Equal(t, byContent.ID, posts[1].ID)
	assert.Equal(t, byTitle.ID, posts[2].ID)
}

func TestDeleteCascadesEngagementRows(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresPostRepository(db)
	reactions := NewPostgresReactionRepository(db)
	ctx := context.Background()

	author := seedUser(t, db, "author")
	fan := seedUser(t, db, "fan")
	post := seedPost(t, db, author, "doomed", now(t))
	comment := seedComment(t, db, fan, post, "bye")

	_, _, err := reactions.Toggle(ctx, fan.ID, models.PostTarget(post.ID), "like")
	require.NoError(t, err)
	_, _, err = reactions.Toggle(ctx, author.ID, models.CommentTarget(comment.ID), "like")
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, post.ID))

	var posts, comments, reactionRows int64
	require.NoError(t, db.Model(&models.Post{}).Count(&posts).Error)
	require.NoError(t, db.Model(&models.Comment{}).Count(&comments).Error)
	require.NoError(t, db.Model(&models.Reaction{}).Count(&reactionRows).Error)
	assert.Zero(t, posts)
	assert.Zero(t, comments)
	assert.Zero(t, reactionRows)

	err = repo.Delete(ctx, post.ID)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}
