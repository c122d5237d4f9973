package repositories

import (
	"context"
	"errors"
	"strings"

	"github.com/redsocial-app/backend/internal/apperrors"
	"github.com/redsocial-app/backend/internal/models"
	"gorm.io/gorm"
)

// UserSearchLimit caps user search results.
const UserSearchLimit = 20

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	UsernameTaken(ctx context.Context, username string, excludeID uint) (bool, error)
	Search(ctx context.Context, term string) ([]models.User, error)
}

// PostgresUserRepository implements UserRepository for PostgreSQL
type PostgresUserRepository struct {
	db *gorm.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// Create persists a new user; duplicate email or username is a conflict.
func (r *PostgresUserRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.Conflict("email or username already registered")
		}
		return apperrors.Internal("failed to create user", err)
	}
	return nil
}

// GetByID retrieves a user by ID.
func (r *PostgresUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("the user does not exist")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to look up user", err)
	}
	return &user, nil
}

// GetByEmail retrieves a user by email.
func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("the user does not exist")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to look up user", err)
	}
	return &user, nil
}

// Update saves an existing user.
func (r *PostgresUserRepository) Update(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.Conflict("email or username already registered")
		}
		return apperrors.Internal("failed to update user", err)
	}
	return nil
}

// UsernameTaken reports whether another user already holds the username
// (case-insensitive).
func (r *PostgresUserRepository) UsernameTaken(ctx context.Context, username string, excludeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("LOWER(username) = LOWER(?) AND id <> ?", strings.TrimSpace(username), excludeID).
		Count(&count).Error
	if err != nil {
		return false, apperrors.Internal("failed to check username", err)
	}
	return count > 0, nil
}

// Search matches the term as a case-insensitive substring over name and
// username of active users, newest first, capped at 20.
func (r *PostgresUserRepository) Search(ctx context.Context, term string) ([]models.User, error) {
	pattern := "%" + strings.TrimSpace(term) + "%"
	var users []models.User
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Where("LOWER(name) LIKE LOWER(?) OR LOWER(username) LIKE LOWER(?)", pattern, pattern).
		Order("created_at DESC").
		Limit(UserSearchLimit).
		Find(&users).Error
	if err != nil {
		return nil, apperrors.Internal("failed to search users", err)
	}
	return users, nil
}
