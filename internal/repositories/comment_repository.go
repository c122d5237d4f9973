package repositories

import (
	"context"
	"errors"

	"github.com/redsocial-app/backend/internal/apperrors"
	"github.com/redsocial-app/backend/internal/models"
	"gorm.io/gorm"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	ListByPost(ctx context.Context, postID uint) ([]models.Comment, error)
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id uint) error
}

// PostgresCommentRepository implements CommentRepository for PostgreSQL
type PostgresCommentRepository struct {
	db *gorm.DB
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository
func NewPostgresCommentRepository(db *gorm.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

// Create persists a new comment.
func (r *PostgresCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return apperrors.Internal("failed to create comment", err)
	}
	return nil
}

// GetByID retrieves a comment with its author and reaction count.
func (r *PostgresCommentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).
		Select("comments.*, (SELECT COUNT(*) FROM reactions WHERE reactions.comment_id = comments.id) AS reaction_count").
		Preload("User").
		First(&comment, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("the comment does not exist")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to look up comment", err)
	}
	return &comment, nil
}

// ListByPost retrieves a post's comments newest first with authors and
// reaction counts.
func (r *PostgresCommentRepository) ListByPost(ctx context.Context, postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).
		Select("comments.*, (SELECT COUNT(*) FROM reactions WHERE reactions.comment_id = comments.id) AS reaction_count").
		Preload("User").
		Where("post_id = ?", postID).
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		return nil, apperrors.Internal("failed to list comments", err)
	}
	return comments, nil
}

// Update saves an edited comment.
func (r *PostgresCommentRepository) Update(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Save(comment).Error; err != nil {
		return apperrors.Internal("failed to update comment", err)
	}
	return nil
}

// Delete removes the comment and every reaction targeting it as a single
// atomic unit.
func (r *PostgresCommentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comment_id = ?", id).Delete(&models.Reaction{}).Error; err != nil {
			return apperrors.Internal("failed to delete comment reactions", err)
		}
		res := tx.Delete(&models.Comment{}, id)
		if res.Error != nil {
			return apperrors.Internal("failed to delete comment", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.NotFound("the comment does not exist")
		}
		return nil
	})
}
