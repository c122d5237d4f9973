package models

import "time"

// PostStatusPublished is the only status the engagement engine filters on.
const PostStatusPublished = "published"

// Post represents a publication authored by a user.
type Post struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"size:200;not null"`
	Content     string    `json:"content" gorm:"not null"`
	Tags        string    `json:"tags,omitempty" gorm:"size:255"`
	ImageURL    string    `json:"image_url,omitempty"`
	Status      string    `json:"status" gorm:"size:20;index;default:'published'"`
	PublishedAt time.Time `json:"published_at" gorm:"index"`
	UpdatedAt   time.Time `json:"updated_at"`
	UserID      uint      `json:"user_id" gorm:"index;not null"`
	User        User      `json:"-"`
	CategoryID  *uint     `json:"category_id,omitempty" gorm:"index"`
	Category    *Category `json:"-"`

	// Engagement counts computed at read time, never stored.
	CommentCount  int64 `json:"comment_count" gorm:"->;-:migration"`
	ReactionCount int64 `json:"reaction_count" gorm:"->;-:migration"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Title      string `json:"title" validate:"required,min=1,max=200"`
	Content    string `json:"content" validate:"required,min=1"`
	Tags       string `json:"tags,omitempty" validate:"omitempty,max=255"`
	ImageURL   string `json:"image_url,omitempty" validate:"omitempty,url"`
	CategoryID *uint  `json:"category_id,omitempty"`
}

// UpdatePostRequest defines the request body for updating an existing post
type UpdatePostRequest struct {
	Title      string `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Content    string `json:"content,omitempty" validate:"omitempty,min=1"`
	Tags       string `json:"tags,omitempty" validate:"omitempty,max=255"`
	ImageURL   string `json:"image_url,omitempty" validate:"omitempty,url"`
	CategoryID *uint  `json:"category_id,omitempty"`
}
