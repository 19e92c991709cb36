package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/PurpleDrip/Travel-Planner/internal/app/domain/auth"
	"github.com/PurpleDrip/Travel-Planner/internal/app/domain/itinerary"
	"github.com/PurpleDrip/Travel-Planner/internal/app/middleware"
	"github.com/PurpleDrip/Travel-Planner/internal/pkg/config"
)

// AppHandlers groups the HTTP handlers registered on the router.
type AppHandlers struct {
	Auth      *auth.AuthHandlers
	Itinerary *itinerary.ItineraryHandlers
	JWTConfig auth.JWTConfig
}

// Setup wires repositories, services and handlers, then registers all routes.
func Setup(r *gin.Engine, dbPool *pgxpool.Pool, cfg *config.Config, log *zap.Logger) error {
	handlers, err := setupDependencies(dbPool, cfg, log)
	if err != nil {
		return err
	}
	setupRouter(r, handlers, cfg)
	return nil
}

func setupDependencies(dbPool *pgxpool.Pool, cfg *config.Config, log *zap.Logger) (*AppHandlers, error) {
	authRepo := auth.NewPostgresAuthRepo(dbPool, log)
	authService := auth.NewAuthService(authRepo, cfg, log)

	generator, err := itinerary.NewGeminiGenerator(context.Background(), cfg, log)
	if err != nil {
		return nil, err
	}

	itineraryRepo := itinerary.NewPostgresItineraryRepo(dbPool, log)
	itineraryService := itinerary.NewItineraryService(itineraryRepo, generator, log)

	return &AppHandlers{
		Auth:      auth.NewAuthHandlers(authService, log),
		Itinerary: itinerary.NewItineraryHandlers(itineraryService, log),
		JWTConfig: authService.JWTConfig(),
	}, nil
}

func setupRouter(r *gin.Engine, handlers *AppHandlers, cfg *config.Config) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "ok",
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
			"environment": cfg.Environment,
		})
	})

	authGroup := r.Group("/api/auth")
	{
		authGroup.POST("/register", handlers.Auth.RegisterHandler)
		authGroup.POST("/login", handlers.Auth.LoginHandler)
	}

	// One generation per second per IP with a small burst; generation is the
	// only route reaching the external model.
	generateLimiter := middleware.NewRateLimiter(rate.Limit(1), 3)

	itineraries := r.Group("/api/itineraries")
	itineraries.Use(auth.JWTAuthMiddleware(handlers.JWTConfig))
	{
		itineraries.POST("/generate", generateLimiter.Limit(), handlers.Itinerary.GenerateItinerary)
		itineraries.GET("/list", handlers.Itinerary.ListItineraries)
		itineraries.GET("/:id", handlers.Itinerary.GetItinerary)
		itineraries.GET("/:id/pdf", handlers.Itinerary.ExportItineraryPDF)
		itineraries.PUT("/:id", handlers.Itinerary.UpdateItinerary)
		itineraries.DELETE("/:id", handlers.Itinerary.DeleteItinerary)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
	})
}
