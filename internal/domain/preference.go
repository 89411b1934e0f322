package domain

import "time"

// PreferenceType classifies a preference.
// Values include PreferenceTypeCuisine and PreferenceTypePrice.
type PreferenceType string

const (
	PreferenceTypeCuisine PreferenceType = "Cuisine"
	PreferenceTypePrice   PreferenceType = "Price"
)

// Preference is a selectable taste attribute such as a cuisine or a price band.
// Only rows with IsSelectable participate in preference vectors.
type Preference struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Description  string         `gorm:"type:text;not null;uniqueIndex:idx_preferences_description" json:"description"`
	Type         PreferenceType `gorm:"type:text;not null;index:idx_preferences_type" json:"type"`
	IsSelectable bool           `gorm:"not null" json:"is_selectable"`
}

// TableName returns the database table name for Preference.
func (Preference) TableName() string {
	return "preferences"
}

// UserPreference links a user to a preference. A (user, preference) pair occurs at most once.
type UserPreference struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	UserID       uint       `gorm:"not null;uniqueIndex:idx_user_preferences_pair;index:idx_user_preferences_user" json:"user_id"`
	PreferenceID uint       `gorm:"not null;uniqueIndex:idx_user_preferences_pair;index:idx_user_preferences_preference" json:"preference_id"`
	Preference   Preference `gorm:"foreignKey:PreferenceID;constraint:OnDelete:CASCADE" json:"preference"`
	CreatedAt    time.Time  `json:"created_at"`
	LastAccessed time.Time  `gorm:"index:idx_user_preferences_last_accessed" json:"last_accessed"`
}

// TableName returns the database table name for UserPreference.
func (UserPreference) TableName() string {
	return "user_preferences"
}
