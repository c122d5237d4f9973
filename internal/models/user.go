package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// User roles. Anything that is not an admin is a standard user.
const (
	RoleStandard = "standard"
	RoleAdmin    = "admin"
)

// User represents a registered account. Users are deactivated via the
// Active flag, never hard-deleted.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"size:100;not null"`
	Username     string    `json:"username" gorm:"size:50;uniqueIndex;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Age          *int      `json:"age,omitempty"`
	Role         string    `json:"role" gorm:"size:20;default:'standard'"`
	PhotoURL     string    `json:"photo_url,omitempty"`
	Bio          string    `json:"bio,omitempty" gorm:"size:500"`
	Active       bool      `json:"active" gorm:"default:true;index"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserSummary is the compact author/follower view embedded in listings.
type UserSummary struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	PhotoURL string `json:"photo_url,omitempty"`
	Bio      string `json:"bio,omitempty"`
}

// ToSummary converts a user to its compact representation.
func (u *User) ToSummary() UserSummary {
	return UserSummary{
		ID:       u.ID,
		Name:     u.Name,
		Username: u.Username,
		PhotoURL: u.PhotoURL,
		Bio:      u.Bio,
	}
}

// RegisterRequest defines the request body for local registration.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Username string `json:"username" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest defines the request body for local login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// FirebaseLoginRequest defines the request body for the Firebase token exchange.
type FirebaseLoginRequest struct {
	IDToken string `json:"id_token" validate:"required"`
	Name    string `json:"name,omitempty" validate:"omitempty,max=100"`
	Username string `json:"username,omitempty" validate:"omitempty,max=50"`
}

// ChangePasswordRequest defines the request body for changing the password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}

// UserProfile is a user together with their aggregate social counts.
type UserProfile struct {
	User
	PublishedPosts int64 `json:"published_posts"`
	Followers      int64 `json:"followers"`
	Following      int64 `json:"following"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}
