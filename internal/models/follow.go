package models

import "time"

// Follow represents a directed follower -> followee edge. The composite
// unique index is the authority for the no-duplicate-edge invariant.
type Follow struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	FollowerID uint      `json:"follower_id" gorm:"index;uniqueIndex:idx_follower_followee;not null"`
	FolloweeID uint      `json:"followee_id" gorm:"index;uniqueIndex:idx_follower_followee;not null"`
	CreatedAt  time.Time `json:"created_at"`
}

// FollowEntry is one row of a followers/following listing.
type FollowEntry struct {
	User       UserSummary `json:"user"`
	FollowedAt time.Time   `json:"followed_at"`
}

// FollowStats aggregates a user's social counters.
type FollowStats struct {
	Followers      int64 `json:"followers"`
	Following      int64 `json:"following"`
	PublishedPosts int64 `json:"published_posts"`
}
