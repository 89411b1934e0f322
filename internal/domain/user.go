package domain

import (
	"strings"
	"time"
)

// User is an account. Email is unique and doubles as the public identifier of a similar user.
type User struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Email      string    `gorm:"type:text;not null;uniqueIndex:idx_users_email" json:"email"`
	FirstName  string    `gorm:"type:text;not null" json:"first_name"`
	Surname    string    `gorm:"type:text;not null" json:"surname"`
	IsActive   bool      `gorm:"not null" json:"is_active"`
	DateJoined time.Time `json:"date_joined"`
}

// TableName returns the database table name for User.
func (User) TableName() string {
	return "users"
}

// FullName returns "first surname" with surrounding whitespace trimmed.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.Surname)
}

// Profile stores user-editable details. One per user.
type Profile struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_profiles_user" json:"user_id"`
	FirstName string    `gorm:"type:text" json:"first_name"`
	Surname   string    `gorm:"type:text" json:"surname"`
	AvatarKey string    `gorm:"type:text" json:"-"`
	AvatarURL string    `gorm:"-" json:"avatar_url,omitempty"`
	Slug      string    `gorm:"type:text;index:idx_profiles_slug" json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for Profile.
func (Profile) TableName() string {
	return "profiles"
}
