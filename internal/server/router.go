package server

import (
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	appmw "github.com/PurpleDrip/Travel-Planner/internal/app/middleware"
	"github.com/PurpleDrip/Travel-Planner/internal/pkg/config"
	"github.com/PurpleDrip/Travel-Planner/internal/routes"
)

// SetupRouter configures and returns the Gin router with all middleware and routes
func SetupRouter(dbPool *pgxpool.Pool, cfg *config.Config, logger *zap.Logger) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(ginzap.GinzapWithConfig(logger, &ginzap.Config{
		UTC:        true,
		TimeFormat: time.RFC3339,
	}))
	r.Use(ginzap.RecoveryWithZap(logger, true))
	r.Use(otelgin.Middleware("travel-planner"))
	r.Use(appmw.CORSMiddleware())
	r.Use(appmw.SecurityMiddleware())

	if err := routes.Setup(r, dbPool, cfg, logger); err != nil {
		return nil, err
	}

	return r, nil
}
