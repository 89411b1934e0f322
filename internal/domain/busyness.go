package domain

import "time"

// WeatherData is one observation pulled from the weather API.
type WeatherData struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Timestamp     time.Time `gorm:"not null;index:idx_weather_timestamp" json:"timestamp"`
	Temperature   float64   `json:"temperature"`
	Dewpoint      float64   `json:"dewpoint"`
	Precipitation float64   `json:"precipitation"`
}

// TableName returns the database table name for WeatherData.
func (WeatherData) TableName() string {
	return "weather_data"
}

// PredictionModel describes a trained busyness model whose artifact lives in object storage.
type PredictionModel struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ModelName   string    `gorm:"type:text;not null;index:idx_prediction_models_name" json:"model_name"`
	Description string    `gorm:"type:text" json:"description"`
	ArtifactKey string    `gorm:"type:text;not null" json:"artifact_key"`
	IsActive    bool      `gorm:"not null;index:idx_prediction_models_active" json:"is_active"`
	UpdatedAt   time.Time `gorm:"index:idx_prediction_models_updated" json:"updated_at"`
}

// TableName returns the database table name for PredictionModel.
func (PredictionModel) TableName() string {
	return "prediction_models"
}

// ZoneBusyness is the predicted busyness for one zone.
type ZoneBusyness struct {
	Zone           string  `json:"zone"`
	LocationID     int     `json:"location_id"`
	PredictedValue float64 `json:"predicted_value"`
}

// BusynessPrediction is the full prediction set for one point in time.
type BusynessPrediction struct {
	Time        string         `json:"time"`
	Predictions []ZoneBusyness `json:"predictions"`
}
