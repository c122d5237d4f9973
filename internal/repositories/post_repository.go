package repositories

import (
	"context"
	"errors"
	"strings"

	"github.com/redsocial-app/backend/internal/apperrors"
	"github.com/redsocial-app/backend/internal/models"
	"gorm.io/gorm"
)

// Result caps for read pipelines.
const (
	FeedMaxLimit    = 50
	PopularMinLimit = 1
	PopularMaxLimit = 50
	PopularDefault  = 10
	PostSearchLimit = 50
)

// postWithCounts attaches the engagement counts computed at read time.
const postWithCounts = "posts.*, " +
	"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comment_count, " +
	"(SELECT COUNT(*) FROM reactions WHERE reactions.post_id = posts.id) AS reaction_count"

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	List(ctx context.Context) ([]models.Post, error)
	ListByUser(ctx context.Context, userID uint, publishedOnly bool) ([]models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
	Feed(ctx context.Context, authorIDs []uint, limit int) ([]models.Post, error)
	Popular(ctx context.Context, limit int) ([]models.Post, error)
	Search(ctx context.Context, term string) ([]models.Post, error)
}

// PostgresPostRepository implements PostRepository for PostgreSQL
type PostgresPostRepository struct {
	db *gorm.DB
}

// NewPostgresPostRepository creates a new PostgresPostRepository
func NewPostgresPostRepository(db *gorm.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

// Create persists a new post.
func (r *PostgresPostRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return apperrors.Internal("failed to create post", err)
	}
	return nil
}

// GetByID retrieves a post with author, category and engagement counts.
func (r *PostgresPostRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Select(postWithCounts).
		Preload("User").
		Preload("Category").
		First(&post, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("the post does not exist")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to look up post", err)
	}
	return &post, nil
}

// List retrieves all published posts with author and category, newest first.
func (r *PostgresPostRepository) List(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).
		Select(postWithCounts).
		Preload("User").
		Preload("Category").
		Where("status = ?", models.PostStatusPublished).
		Order("published_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, apperrors.Internal("failed to list posts", err)
	}
	return posts, nil
}

// ListByUser retrieves a user's posts newest first, optionally restricted
// to published ones (the public profile view).
func (r *PostgresPostRepository) ListByUser(ctx context.Context, userID uint, publishedOnly bool) ([]models.Post, error) {
	q := r.db.WithContext(ctx).
		Select(postWithCounts).
		Preload("Category").
		Where("user_id = ?", userID)
	if publishedOnly {
		q = q.Where("status = ?", models.PostStatusPublished)
	}
	var posts []models.Post
	if err := q.Order("published_at DESC").Find(&posts).Error; err != nil {
		return nil, apperrors.Internal("failed to list user posts", err)
	}
	return posts, nil
}

// Update saves the editable fields of an existing post.
func (r *PostgresPostRepository) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return apperrors.Internal("failed to update post", err)
	}
	return nil
}

// Delete removes a post together with its comments and reactions in one
// transaction so no dangling engagement rows survive.
func (r *PostgresPostRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var commentIDs []uint
		if err := tx.Model(&models.Comment{}).Where("post_id = ?", id).Pluck("id", &commentIDs).Error; err != nil {
			return apperrors.Internal("failed to collect post comments", err)
		}
		if len(commentIDs) > 0 {
			if err := tx.Where("comment_id IN ?", commentIDs).Delete(&models.Reaction{}).Error; err != nil {
				return apperrors.Internal("failed to delete comment reactions", err)
			}
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Reaction{}).Error; err != nil {
			return apperrors.Internal("failed to delete post reactions", err)
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return apperrors.Internal("failed to delete post comments", err)
		}
		res := tx.Delete(&models.Post{}, id)
		if res.Error != nil {
			return apperrors.Internal("failed to delete post", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.NotFound("the post does not exist")
		}
		return nil
	})
}

// Feed selects published posts authored by any of authorIDs, publication
// time descending, truncated to limit. Counts are computed at read time,
// not cached.
func (r *PostgresPostRepository) Feed(ctx context.Context, authorIDs []uint, limit int) ([]models.Post, error) {
	if len(authorIDs) == 0 {
		return []models.Post{}, nil
	}
	if limit < 1 || limit > FeedMaxLimit {
		limit = FeedMaxLimit
	}
	var posts []models.Post
	err := r.db.WithContext(ctx).
		Select(postWithCounts).
		Preload("User").
		Preload("Category").
		Where("user_id IN ?", authorIDs).
		Where("status = ?", models.PostStatusPublished).
		Order("published_at DESC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, apperrors.Internal("failed to assemble feed", err)
	}
	return posts, nil
}

// ClampPopularLimit applies the [1,50] clamp with a default of 10; an
// out-of-range or absent limit is never an error for this parameter.
func ClampPopularLimit(limit int) int {
	switch {
	case limit <= 0:
		return PopularDefault
	case limit > PopularMaxLimit:
		return PopularMaxLimit
	}
	return limit
}

// Popular orders published posts by reaction count descending, breaking
// ties by publication time descending.
func (r *PostgresPostRepository) Popular(ctx context.Context, limit int) ([]models.Post, error) {
	limit = ClampPopularLimit(limit)
	var posts []models.Post
	err := r.db.WithContext(ctx).
		Select(postWithCounts).
		Preload("User").
		Preload("Category").
		Where("status = ?", models.PostStatusPublished).
		Order("reaction_count DESC, published_at DESC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, apperrors.Internal("failed to rank posts", err)
	}
	return posts, nil
}

// Search matches the term as a case-insensitive substring over title,
// content and tags of published posts, newest first, capped at 50.
func (r *PostgresPostRepository) Search(ctx context.Context, term string) ([]models.Post, error) {
	pattern := "%" + strings.TrimSpace(term) + "%"
	var posts []models.Post
	err := r.db.WithContext(ctx).
		Select(postWithCounts).
		Preload("User").
		Preload("Category").
		Where("status = ?", models.PostStatusPublished).
		Where("LOWER(title) LIKE LOWER(?) OR LOWER(content) LIKE LOWER(?) OR LOWER(tags) LIKE LOWER(?)", pattern, pattern, pattern).
		Order("published_at DESC").
		Limit(PostSearchLimit).
		Find(&posts).Error
	if err != nil {
		return nil, apperrors.Internal("failed to search posts", err)
	}
	return posts, nil
}
