package repositories

import (
	"context"
	"errors"

	"github.com/redsocial-app/backend/internal/apperrors"
	"github.com/redsocial-app/backend/internal/models"
	"gorm.io/gorm"
)

// FollowRepository defines the interface for follow-edge data operations
type FollowRepository interface {
	Follow(ctx context.Context, followerID, followeeID uint) (*models.Follow, error)
	Unfollow(ctx context.Context, followerID, followeeID uint) error
	IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error)
	Followers(ctx context.Context, userID uint) ([]models.FollowEntry, error)
	Following(ctx context.Context, userID uint) ([]models.FollowEntry, error)
	FollowingIDs(ctx context.Context, userID uint) ([]uint, error)
	Stats(ctx context.Context, userID uint) (*models.FollowStats, error)
}

// PostgresFollowRepository implements FollowRepository for PostgreSQL
type PostgresFollowRepository struct {
	db *gorm.DB
}

// NewPostgresFollowRepository creates a new PostgresFollowRepository
func NewPostgresFollowRepository(db *gorm.DB) *PostgresFollowRepository {
	return &PostgresFollowRepository{db: db}
}

// Follow creates the follower -> followee edge. Self-follow is a
// validation error regardless of whether the users exist; a missing
// followee is not found; a duplicate edge is a conflict. The composite
// unique index is the authority for duplicates, so there is no
// check-then-insert window.
func (r *PostgresFollowRepository) Follow(ctx context.Context, followerID, followeeID uint) (*models.Follow, error) {
	if followerID == followeeID {
		return nil, apperrors.Validation("you cannot follow yourself")
	}

	var edge models.Follow
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var followee models.User
		if err := tx.First(&followee, followeeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("the user to follow does not exist")
			}
			return apperrors.Internal("failed to look up user", err)
		}

		edge = models.Follow{FollowerID: followerID, FolloweeID: followeeID}
		if err := tx.Create(&edge).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.Conflict("you already follow this user")
			}
			return apperrors.Internal("failed to create follow edge", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &edge, nil
}

// Unfollow removes the edge; a missing edge is not found.
func (r *PostgresFollowRepository) Unfollow(ctx context.Context, followerID, followeeID uint) error {
	res := r.db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&models.Follow{})
	if res.Error != nil {
		return apperrors.Internal("failed to delete follow edge", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("you do not follow this user")
	}
	return nil
}

// IsFollowing reports whether the follower -> followee edge exists.
func (r *PostgresFollowRepository) IsFollowing(ctx context.Context, followerID, followeeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&count).Error
	if err != nil {
		return false, apperrors.Internal("failed to check follow edge", err)
	}
	return count > 0, nil
}

func (r *PostgresFollowRepository) listEdges(ctx context.Context, matchColumn, joinColumn string, userID uint) ([]models.FollowEntry, error) {
	var edges []models.Follow
	err := r.db.WithContext(ctx).
		Where(matchColumn+" = ?", userID).
		Order("created_at DESC").
		Find(&edges).Error
	if err != nil {
		return nil, apperrors.Internal("failed to list follow edges", err)
	}
	if len(edges) == 0 {
		return []models.FollowEntry{}, nil
	}

	ids := make([]uint, len(edges))
	for i, e := range edges {
		if joinColumn == "follower_id" {
			ids[i] = e.FollowerID
		} else {
			ids[i] = e.FolloweeID
		}
	}

	var users []models.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, apperrors.Internal("failed to load users for follow listing", err)
	}
	byID := make(map[uint]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	entries := make([]models.FollowEntry, 0, len(edges))
	for i, e := range edges {
		u, ok := byID[ids[i]]
		if !ok {
			continue
		}
		entries = append(entries, models.FollowEntry{User: u.ToSummary(), FollowedAt: e.CreatedAt})
	}
	return entries, nil
}

// Followers lists the users following userID, most recent edge first.
func (r *PostgresFollowRepository) Followers(ctx context.Context, userID uint) ([]models.FollowEntry, error) {
	return r.listEdges(ctx, "followee_id", "follower_id", userID)
}

// Following lists the users userID follows, most recent edge first.
func (r *PostgresFollowRepository) Following(ctx context.Context, userID uint) ([]models.FollowEntry, error) {
	return r.listEdges(ctx, "follower_id", "followee_id", userID)
}

// FollowingIDs returns the followee id set used for feed fan-out.
func (r *PostgresFollowRepository) FollowingIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ?", userID).
		Pluck("followee_id", &ids).Error
	if err != nil {
		return nil, apperrors.Internal("failed to list followees", err)
	}
	return ids, nil
}

// Stats aggregates follower/following counts and the user's published
// post count.
func (r *PostgresFollowRepository) Stats(ctx context.Context, userID uint) (*models.FollowStats, error) {
	db := r.db.WithContext(ctx)
	var stats models.FollowStats
	if err := db.Model(&models.Follow{}).Where("followee_id = ?", userID).Count(&stats.Followers).Error; err != nil {
		return nil, apperrors.Internal("failed to count followers", err)
	}
	if err := db.Model(&models.Follow{}).Where("follower_id = ?", userID).Count(&stats.Following).Error; err != nil {
		return nil, apperrors.Internal("failed to count followees", err)
	}
	if err := db.Model(&models.Post{}).
		Where("user_id = ? AND status = ?", userID, models.PostStatusPublished).
		Count(&stats.PublishedPosts).Error; err != nil {
		return nil, apperrors.Internal("failed to count published posts", err)
	}
	return &stats, nil
}
