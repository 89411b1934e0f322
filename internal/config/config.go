package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Cache       CacheConfig       `mapstructure:"cache"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Storage     StorageConfig     `mapstructure:"storage"`
	Recommend   RecommendConfig   `mapstructure:"recommend"`
	Busyness    BusynessConfig    `mapstructure:"busyness"`
	Weather     WeatherConfig     `mapstructure:"weather"`
	Maintenance MaintenanceConfig `mapstructure:"maintenance"`
}

type ServerConfig struct {
	Port      int        `mapstructure:"port"`
	Mode      string     `mapstructure:"mode"`
	JWTSecret string     `mapstructure:"jwt_secret"`
	CORS      CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	AllowAllOrigins bool     `mapstructure:"allow_all_origins"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Path            string        `mapstructure:"path"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// DSN returns the connection string for the configured driver.
func (c *DatabaseConfig) DSN() string {
	if c.Driver == "postgres" {
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
	}
	return c.Path
}

// Cache backends.
const (
	CacheBackendRedis = "redis"
	CacheBackendLocal = "local"
	CacheBackendNone  = "none"
)

// CacheConfig selects the computation cache backend. "redis" is shared by
// every process; "local" keeps entries inside one process and is only
// coherent when the API and maintenance jobs never run side by side;
// "none" recomputes every value.
type CacheConfig struct {
	Backend string `mapstructure:"backend"`
}

type RedisConfig struct {
	Addr           string        `mapstructure:"addr"`
	Password       string        `mapstructure:"password"`
	DB             int           `mapstructure:"db"`
	KeyPrefix      string        `mapstructure:"key_prefix"`
	PoolSize       int           `mapstructure:"pool_size"`
	DialTimeout    time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	BreakerTimeout time.Duration `mapstructure:"breaker_timeout"`
}

type StorageConfig struct {
	Type      string `mapstructure:"type"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	PublicURL string `mapstructure:"public_url"`
}

// RecommendConfig holds the lifetimes of user-derived cache entries.
type RecommendConfig struct {
	RecommendationsTTL  time.Duration `mapstructure:"recommendations_ttl"`
	SimilarUsersTTL     time.Duration `mapstructure:"similar_users_ttl"`
	UserPreferencesTTL  time.Duration `mapstructure:"user_preferences_ttl"`
	LikedRestaurantsTTL time.Duration `mapstructure:"liked_restaurants_ttl"`
	ProfileTTL          time.Duration `mapstructure:"profile_ttl"`
	RestaurantsTTL      time.Duration `mapstructure:"restaurants_ttl"`
}

type BusynessConfig struct {
	PredictionTTL time.Duration `mapstructure:"prediction_ttl"`
	ModelTTL      time.Duration `mapstructure:"model_ttl"`
	WeatherTTL    time.Duration `mapstructure:"weather_ttl"`
}

type WeatherConfig struct {
	APIURL    string        `mapstructure:"api_url"`
	Latitude  float64       `mapstructure:"latitude"`
	Longitude float64       `mapstructure:"longitude"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type MaintenanceConfig struct {
	PreferenceRetentionDays int `mapstructure:"preference_retention_days"`
	LikeRetentionDays       int `mapstructure:"like_retention_days"`
	WeatherRetentionDays    int `mapstructure:"weather_retention_days"`
}

func Load(configPath string) (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.jwt_secret", "")
	v.SetDefault("server.cors.allow_all_origins", true)
	v.SetDefault("server.cors.allowed_origins", []string{})
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "./data/recommender.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "recommender")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("cache.backend", CacheBackendRedis)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "recommender:")
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.dial_timeout", 5*time.Second)
	v.SetDefault("redis.read_timeout", 3*time.Second)
	v.SetDefault("redis.write_timeout", 3*time.Second)
	v.SetDefault("redis.breaker_timeout", 30*time.Second)
	v.SetDefault("storage.type", "")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.use_ssl", false)
	v.SetDefault("storage.bucket", "recommender")
	v.SetDefault("storage.region", "")
	v.SetDefault("storage.public_url", "")
	v.SetDefault("recommend.recommendations_ttl", time.Hour)
	v.SetDefault("recommend.similar_users_ttl", time.Hour)
	v.SetDefault("recommend.user_preferences_ttl", time.Hour)
	v.SetDefault("recommend.liked_restaurants_ttl", time.Hour)
	v.SetDefault("recommend.profile_ttl", time.Hour)
	v.SetDefault("recommend.restaurants_ttl", 2*time.Hour)
	v.SetDefault("busyness.prediction_ttl", 10*time.Minute)
	v.SetDefault("busyness.model_ttl", time.Hour)
	v.SetDefault("busyness.weather_ttl", 6*time.Hour)
	v.SetDefault("weather.api_url", "https://api.open-meteo.com/v1/forecast")
	v.SetDefault("weather.latitude", 40.7831)
	v.SetDefault("weather.longitude", -73.9712)
	v.SetDefault("weather.timeout", 10*time.Second)
	v.SetDefault("maintenance.preference_retention_days", 180)
	v.SetDefault("maintenance.like_retention_days", 180)
	v.SetDefault("maintenance.weather_retention_days", 7)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Bind environment variables explicitly for sensitive data
	v.BindEnv("server.jwt_secret", "JWT_SECRET")
	v.BindEnv("database.driver", "DATABASE_DRIVER")
	v.BindEnv("database.host", "DATABASE_HOST")
	v.BindEnv("database.password", "DATABASE_PASSWORD")
	v.BindEnv("cache.backend", "CACHE_BACKEND")
	v.BindEnv("redis.addr", "REDIS_ADDR")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("storage.endpoint", "STORAGE_ENDPOINT")
	v.BindEnv("storage.access_key", "STORAGE_ACCESS_KEY")
	v.BindEnv("storage.secret_key", "STORAGE_SECRET_KEY")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
