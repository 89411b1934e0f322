package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/savorly/recommender/internal/api/handler"
	"github.com/savorly/recommender/internal/api/middleware"
	"github.com/savorly/recommender/internal/config"
	"github.com/savorly/recommender/internal/logger"
	"github.com/savorly/recommender/internal/service"
)

// Services bundles the services exposed over HTTP.
type Services struct {
	Recommendations *service.RecommendationService
	Preferences     *service.PreferenceService
	Likes           *service.LikedRestaurantService
	Profiles        *service.ProfileService
	Busyness        *service.BusynessService
	Restaurants     *service.RestaurantService
}

// SetupRouter configures the Gin router with all routes
func SetupRouter(svcs *Services, cfg *config.ServerConfig, log *logger.Logger) *gin.Engine {
	// Set Gin mode
	switch cfg.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware(log))
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.Metrics())

	healthHandler := handler.NewHealthHandler()
	recommendationHandler := handler.NewRecommendationHandler(svcs.Recommendations)
	preferenceHandler := handler.NewPreferenceHandler(svcs.Preferences)
	likedHandler := handler.NewLikedRestaurantHandler(svcs.Likes)
	profileHandler := handler.NewProfileHandler(svcs.Profiles)
	busynessHandler := handler.NewBusynessHandler(svcs.Busyness)
	restaurantHandler := handler.NewRestaurantHandler(svcs.Restaurants)

	// Health check
	r.GET("/health", healthHandler.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := r.Group("/api/v1")
	v1.Use(middleware.Auth(cfg.JWTSecret))
	{
		// Recommendations
		v1.GET("/users/similar", recommendationHandler.SimilarUsers)
		v1.GET("/recommendations", recommendationHandler.Recommendations)

		// Restaurants
		v1.GET("/restaurants", restaurantHandler.List)
		v1.GET("/restaurants/search", restaurantHandler.Search)

		// Preferences
		v1.GET("/preferences", preferenceHandler.Catalogue)
		v1.GET("/user-preferences", preferenceHandler.List)
		v1.POST("/user-preferences", preferenceHandler.Add)
		v1.DELETE("/user-preferences/:preference_id", preferenceHandler.Remove)

		// Liked restaurants
		v1.GET("/liked-restaurants", likedHandler.List)
		v1.POST("/liked-restaurants", likedHandler.Add)
		v1.DELETE("/liked-restaurants/:restaurant_id", likedHandler.Remove)

		// Profile
		v1.GET("/profile", profileHandler.Get)
		v1.PUT("/profile", profileHandler.Update)
		v1.DELETE("/profile", profileHandler.Delete)
		v1.PUT("/profile/avatar", profileHandler.UpdateAvatar)

		// Busyness
		v1.GET("/busyness", busynessHandler.Predict)
	}

	return r
}
