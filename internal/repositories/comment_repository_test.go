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

func TestCommentListByPostNewestFirstWithCounts(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresCommentRepository(db)
	reactions := NewPostgresReactionRepository(db)
	ctx := context.Background()

	author := seedUser(t, db, "author")
	reader := seedUser(t, db, "reader")
	post := seedPost(t, db, author, "hello", now(t))
	other := seedPost(t, db, author, "other", now(t))

	base := now(t).Add(-time.Hour)
	older := &models.Comment{Content: "older", UserID: reader.ID, PostID: post.ID, CreatedAt: base}
	require.NoError(t, db.Create(older).Error)
	newer := &models.Comment{Content: "newer", UserID: reader.ID, PostID: post.ID, CreatedAt: base.Add(time.Minute)}
	require.NoError(t, db.Create(newer).Error)
	seedComment(t, db, reader, other, "elsewhere")

	_, _, err := reactions.Toggle(ctx, author.ID, models.CommentTarget(older.ID), "like")
	require.NoError(t, err)

	comments, err := repo.ListByPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, newer.ID, comments[0].ID)
	assert.Equal(t, older.ID, comments[1].ID)
	assert.EqualValues(t, 1, comments[1].ReactionCount)
	assert.Equal(t, "reader", comments[0].User.Username)
}

func TestCommentGetByIDMissingIsNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresCommentRepository(db)

	_, err := repo.GetByID(context.Background(), 9999)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestCommentDeleteCascadesReactions(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresCommentRepository(db)
	reactions := NewPostgresReactionRepository(db)
	ctx := context.Background()

	author := seedUser(t, db, "author")
	fan := seedUser(t, db, "fan")
	post := seedPost(t, db, author, "hello", now(t))
	comment := seedComment(t, db, author, post, "doomed")

	_, _, err := reactions.Toggle(ctx, fan.ID, models.CommentTarget(comment.ID), "like")
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, comment.ID))

	summary, err := reactions.SummaryForComment(ctx, comment.ID)
	require.NoError(t, err)
	assert.Empty(t, summary)

	err = repo.Delete(ctx, comment.ID)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}
