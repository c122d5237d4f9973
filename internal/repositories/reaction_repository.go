package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/redsocial-app/backend/internal/apperrors"
	"github.com/redsocial-app/backend/internal/authz"
	"github.com/redsocial-app/backend/internal/models"
	"gorm.io/gorm"
)

// toggleMaxAttempts bounds the retry loop for inserts that lose a race
// against a concurrent toggle on the same (actor, target) key.
const toggleMaxAttempts = 3

// ReactionRepository defines the interface for reaction data operations
type ReactionRepository interface {
	Toggle(ctx context.Context, actorID uint, target models.ReactionTarget, kind string) (models.ReactionOutcome, *models.Reaction, error)
	FindForActor(ctx context.Context, actorID uint, target models.ReactionTarget) (*models.Reaction, error)
	SummaryForPost(ctx context.Context, postID uint) ([]models.ReactionSummary, error)
	SummaryForComment(ctx context.Context, commentID uint) ([]models.ReactionSummary, error)
	DeleteOwned(ctx context.Context, actorID uint, reactionID uint) error
}

// PostgresReactionRepository implements ReactionRepository for PostgreSQL
type PostgresReactionRepository struct {
	db *gorm.DB
}

// NewPostgresReactionRepository creates a new PostgresReactionRepository
func NewPostgresReactionRepository(db *gorm.DB) *PostgresReactionRepository {
	return &PostgresReactionRepository{db: db}
}

func targetScope(q *gorm.DB, target models.ReactionTarget) *gorm.DB {
	if id, ok := target.PostID(); ok {
		return q.Where("post_id = ?", id)
	}
	id, _ := target.CommentID()
	return q.Where("comment_id = ?", id)
}

// Toggle implements the three-way reaction branch: absent -> create, same
// kind -> remove, different kind -> update with a fresh timestamp. The
// lookup and the mutation run in one transaction; a duplicate-key failure
// on the insert means a concurrent call won the race, so the whole branch
// is re-run against the committed row instead of failing.
func (r *PostgresReactionRepository) Toggle(ctx context.Context, actorID uint, target models.ReactionTarget, kind string) (models.ReactionOutcome, *models.Reaction, error) {
	for attempt := 0; attempt < toggleMaxAttempts; attempt++ {
		var (
			outcome models.ReactionOutcome
			row     *models.Reaction
		)
		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var existing models.Reaction
			err := targetScope(tx.Where("user_id = ?", actorID), target).First(&existing).Error
			switch {
			case err == nil:
				if existing.Kind == kind {
					if err := tx.Delete(&models.Reaction{}, existing.ID).Error; err != nil {
						return err
					}
					outcome = models.ReactionRemoved
					return nil
				}
				existing.Kind = kind
				existing.CreatedAt = time.Now().UTC()
				if err := tx.Save(&existing).Error; err != nil {
					return err
				}
				outcome, row = models.ReactionUpdated, &existing
				return nil
			case errors.Is(err, gorm.ErrRecordNotFound):
				postID, commentID := target.Columns()
				created := models.Reaction{
					Kind:      kind,
					UserID:    actorID,
					PostID:    postID,
					CommentID: commentID,
					CreatedAt: time.Now().UTC(),
				}
				if err := tx.Create(&created).Error; err != nil {
					return err
				}
				outcome, row = models.ReactionCreated, &created
				return nil
			default:
				return err
			}
		})
		if err == nil {
			return outcome, row, nil
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			continue
		}
		return "", nil, apperrors.Internal("failed to process reaction", err)
	}
	return "", nil, apperrors.Internal("reaction toggle did not settle after retries", nil)
}

// FindForActor returns the actor's reaction on the target, or nil when the
// actor has not reacted.
func (r *PostgresReactionRepository) FindForActor(ctx context.Context, actorID uint, target models.ReactionTarget) (*models.Reaction, error) {
	var reaction models.Reaction
	err := targetScope(r.db.WithContext(ctx).Where("user_id = ?", actorID), target).First(&reaction).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Internal("failed to look up reaction", err)
	}
	return &reaction, nil
}

type reactionUserRow struct {
	Kind     string
	UserID   uint
	Name     string
	Username string
	PhotoURL string
}

func (r *PostgresReactionRepository) summary(ctx context.Context, column string, id uint) ([]models.ReactionSummary, error) {
	var rows []reactionUserRow
	err := r.db.WithContext(ctx).
		Model(&models.Reaction{}).
		Select("reactions.kind, users.id AS user_id, users.name, users.username, users.photo_url").
		Joins("JOIN users ON users.id = reactions.user_id").
		Where(column+" = ?", id).
		Order("reactions.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Internal("failed to summarize reactions", err)
	}

	// Group by kind label preserving most-recent-first user order within
	// each group. No kind is privileged.
	index := make(map[string]int)
	summaries := make([]models.ReactionSummary, 0, len(rows))
	for _, row := range rows {
		i, ok := index[row.Kind]
		if !ok {
			i = len(summaries)
			index[row.Kind] = i
			summaries = append(summaries, models.ReactionSummary{Kind: row.Kind})
		}
		summaries[i].Count++
		summaries[i].Users = append(summaries[i].Users, models.UserSummary{
			ID:       row.UserID,
			Name:     row.Name,
			Username: row.Username,
			PhotoURL: row.PhotoURL,
		})
	}
	return summaries, nil
}

// SummaryForPost groups a post's reactions by kind with the reacting users.
func (r *PostgresReactionRepository) SummaryForPost(ctx context.Context, postID uint) ([]models.ReactionSummary, error) {
	return r.summary(ctx, "reactions.post_id", postID)
}

// SummaryForComment groups a comment's reactions by kind with the reacting users.
func (r *PostgresReactionRepository) SummaryForComment(ctx context.Context, commentID uint) ([]models.ReactionSummary, error) {
	return r.summary(ctx, "reactions.comment_id", commentID)
}

// DeleteOwned removes a reaction by id after verifying the actor owns it.
func (r *PostgresReactionRepository) DeleteOwned(ctx context.Context, actorID uint, reactionID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var reaction models.Reaction
		if err := tx.First(&reaction, reactionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("reaction does not exist")
			}
			return apperrors.Internal("failed to look up reaction", err)
		}
		if err := authz.Authorize(actorID, models.RoleStandard, reaction.UserID, authz.Owner); err != nil {
			return err
		}
		if err := tx.Delete(&models.Reaction{}, reactionID).Error; err != nil {
			return apperrors.Internal("failed to delete reaction", err)
		}
		return nil
	})
}
