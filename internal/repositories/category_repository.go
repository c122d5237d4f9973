package repositories

import (
	"context"
	"errors"

	"github.com/redsocial-app/backend/internal/apperrors"
	"github.com/redsocial-app/backend/internal/models"
	"gorm.io/gorm"
)

// CategoryRepository is read-only: the taxonomy is managed elsewhere, the
// engine only resolves references.
type CategoryRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Category, error)
}

// PostgresCategoryRepository implements CategoryRepository for PostgreSQL
type PostgresCategoryRepository struct {
	db *gorm.DB
}

// NewPostgresCategoryRepository creates a new PostgresCategoryRepository
func NewPostgresCategoryRepository(db *gorm.DB) *PostgresCategoryRepository {
	return &PostgresCategoryRepository{db: db}
}

// GetByID retrieves a category by ID.
func (r *PostgresCategoryRepository) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).First(&category, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("the category does not exist")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to look up category", err)
	}
	return &category, nil
}
