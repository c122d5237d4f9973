package models

import "time"

// Comment represents a comment on a post
type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Content   string    `json:"content" gorm:"size:500;not null"`
	Edited    bool      `json:"edited" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	User      User      `json:"-"`
	PostID    uint      `json:"post_id" gorm:"index;not null"`

	// Computed at read time for listings.
	ReactionCount int64 `json:"reaction_count" gorm:"->;-:migration"`
}

// CreateCommentRequest defines the request body for creating a new comment
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=500"`
}

// UpdateCommentRequest defines the request body for updating an existing comment
type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=500"`
}
