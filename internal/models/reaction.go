package models

import (
	"errors"
	"time"
)

// ReactionOutcome is the result of a toggle call.
type ReactionOutcome string

const (
	ReactionCreated ReactionOutcome = "created"
	ReactionUpdated ReactionOutcome = "updated"
	ReactionRemoved ReactionOutcome = "removed"
)

// ErrAmbiguousTarget is returned when a request does not name exactly one
// of post/comment as the reaction target.
var ErrAmbiguousTarget = errors.New("reaction target must be exactly one of post or comment")

// Reaction represents a user's reaction to a post or a comment. Exactly
// one of PostID/CommentID is set; the check constraint keeps the
// disjunction at the row level and the partial unique indexes enforce
// at-most-one reaction per (user, target).
type Reaction struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Kind      string    `json:"kind" gorm:"size:30;not null"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uint      `json:"user_id" gorm:"not null;index;uniqueIndex:idx_user_post_reaction,where:post_id IS NOT NULL;uniqueIndex:idx_user_comment_reaction,where:comment_id IS NOT NULL"`
	User      User      `json:"-"`
	PostID    *uint     `json:"post_id,omitempty" gorm:"index;uniqueIndex:idx_user_post_reaction,where:post_id IS NOT NULL;check:chk_reaction_target,(post_id IS NULL) <> (comment_id IS NULL)"`
	CommentID *uint     `json:"comment_id,omitempty" gorm:"index;uniqueIndex:idx_user_comment_reaction,where:comment_id IS NOT NULL"`
}

type targetKind int

const (
	targetPost targetKind = iota + 1
	targetComment
)

// ReactionTarget is a tagged union over {post, comment}. The zero value is
// invalid; use PostTarget or CommentTarget.
type ReactionTarget struct {
	kind targetKind
	id   uint
}

// PostTarget builds a target pointing at a post.
func PostTarget(id uint) ReactionTarget {
	return ReactionTarget{kind: targetPost, id: id}
}

// CommentTarget builds a target pointing at a comment.
func CommentTarget(id uint) ReactionTarget {
	return ReactionTarget{kind: targetComment, id: id}
}

// PostID reports the post id and whether the target is a post.
func (t ReactionTarget) PostID() (uint, bool) {
	return t.id, t.kind == targetPost
}

// CommentID reports the comment id and whether the target is a comment.
func (t ReactionTarget) CommentID() (uint, bool) {
	return t.id, t.kind == targetComment
}

// IsZero reports whether the target was never set.
func (t ReactionTarget) IsZero() bool {
	return t.kind == 0
}

// Columns returns the nullable column pair the row persists.
func (t ReactionTarget) Columns() (postID, commentID *uint) {
	id := t.id
	switch t.kind {
	case targetPost:
		return &id, nil
	case targetComment:
		return nil, &id
	}
	return nil, nil
}

// ReactRequest defines the request body for the toggle endpoint.
type ReactRequest struct {
	Kind      string `json:"kind" validate:"required,min=1,max=30"`
	PostID    *uint  `json:"post_id,omitempty"`
	CommentID *uint  `json:"comment_id,omitempty"`
}

// Target converts the nullable pair from the wire into the tagged union,
// rejecting "both set" and "neither set".
func (r ReactRequest) Target() (ReactionTarget, error) {
	switch {
	case r.PostID != nil && r.CommentID != nil:
		return ReactionTarget{}, ErrAmbiguousTarget
	case r.PostID != nil:
		return PostTarget(*r.PostID), nil
	case r.CommentID != nil:
		return CommentTarget(*r.CommentID), nil
	}
	return ReactionTarget{}, ErrAmbiguousTarget
}

// ReactionSummary is one group of the per-target reaction breakdown.
type ReactionSummary struct {
	Kind  string        `json:"kind"`
	Count int64         `json:"count"`
	Users []UserSummary `json:"users"`
}
