package domain

import "time"

// Restaurant holds the display attributes of a restaurant.
// The recommendation core only reads it; fields are passed through to responses.
type Restaurant struct {
	ID             uint     `gorm:"primaryKey" json:"id"`
	Name           string   `gorm:"column:restaurant_name;type:text;not null;index:idx_restaurants_name" json:"name"`
	PrimaryCuisine string   `gorm:"type:text;index:idx_restaurants_cuisine" json:"primary_cuisine"`
	OverallRating  *float64 `gorm:"index:idx_restaurants_rating" json:"overall_rating"`
	Latitude       *float64 `json:"latitude"`
	Longitude      *float64 `json:"longitude"`
	Zone           string   `gorm:"type:text;index:idx_restaurants_zone" json:"zone"`
	Telephone      string   `gorm:"type:text" json:"telephone"`
	Website        string   `gorm:"type:text" json:"website"`
	Price          string   `gorm:"type:text" json:"price"`
	FoodRating     *float64 `json:"food_rating"`
	ServiceRating  *float64 `json:"service_rating"`
	ValueRating    *float64 `json:"value_rating"`
	AmbienceRating *float64 `json:"ambience_rating"`
	NoiseLevel     string   `gorm:"type:text" json:"noise_level"`
	PhotoURL       string   `gorm:"type:text" json:"photo_url"`
	Address        string   `gorm:"type:text" json:"address"`
	LocationID     int      `gorm:"not null" json:"location_id"`
	DressCode      string   `gorm:"type:text" json:"dress_code"`
}

// TableName returns the database table name for Restaurant.
func (Restaurant) TableName() string {
	return "restaurants"
}

// UserLikedRestaurant links a user to a restaurant they liked.
// A (user, restaurant) pair occurs at most once; LikedDate drives retention.
type UserLikedRestaurant struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	UserID       uint       `gorm:"not null;uniqueIndex:idx_user_liked_pair;index:idx_user_liked_user" json:"user_id"`
	RestaurantID uint       `gorm:"not null;uniqueIndex:idx_user_liked_pair;index:idx_user_liked_restaurant" json:"restaurant_id"`
	Restaurant   Restaurant `gorm:"foreignKey:RestaurantID;constraint:OnDelete:CASCADE" json:"restaurant"`
	LikedDate    time.Time  `gorm:"not null;index:idx_user_liked_date" json:"liked_date"`
}

// TableName returns the database table name for UserLikedRestaurant.
func (UserLikedRestaurant) TableName() string {
	return "user_liked_restaurants"
}

// ZoneLocation is a distinct (zone, location id) pair used for busyness predictions.
type ZoneLocation struct {
	Zone       string `json:"zone"`
	LocationID int    `json:"location_id"`
}
