package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/Wikid82/lockward/internal/api/handlers"
	"github.com/Wikid82/lockward/internal/api/middleware"
	"github.com/Wikid82/lockward/internal/config"
	"github.com/Wikid82/lockward/internal/database"
	"github.com/Wikid82/lockward/internal/services"
)

const adminRole = "admin"

// Options carries collaborators whose lifecycle is owned by the caller.
type Options struct {
	// Audit receives access log entries. Nil writes synchronously.
	Audit services.AuditRecorder
	// Reporter receives audit failures. Nil builds one from cfg.Alert.
	Reporter services.Reporter
}

// Register wires up API routes and performs automatic migrations.
func Register(router *gin.Engine, db *gorm.DB, cfg config.Config, opts Options) error {
	if err := database.AutoMigrate(db); err != nil {
		return err
	}

	reporter := opts.Reporter
	if reporter == nil {
		reporter = services.NewErrorReporter(cfg.Alert)
	}
	audit := opts.Audit
	if audit == nil {
		audit = services.NewAccessLogService(db)
	}

	health := handlers.NewHealthHandler(db)
	router.GET("/health", health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	api.GET("/health", health)

	// Lock controllers are not authenticated; the access endpoint sits on
	// the trusted controller network.
	access := handlers.NewAccessHandler(services.NewAccessService(services.NewCardService(db), audit, reporter))
	api.GET("/access", access.Check)

	tokens := services.NewTokenService(cfg.JWTSecret)
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(tokens))
	admin := middleware.RequireRole(adminRole)

	locks := handlers.NewLockHandler(db)
	protected.GET("/locks", locks.List)
	protected.GET("/locks/:uid", locks.Get)
	protected.POST("/locks", admin, locks.Create)
	protected.PUT("/locks/:uid", admin, locks.Update)
	protected.DELETE("/locks/:uid", admin, locks.Delete)

	cards := handlers.NewCardHandler(db)
	protected.GET("/cards", cards.List)
	protected.GET("/cards/:uid", admin, cards.Get)
	protected.POST("/cards", admin, cards.Create)
	protected.PUT("/cards/:uid", admin, cards.Update)
	protected.PUT("/cards/:uid/locks", admin, cards.AssignLocks)
	protected.DELETE("/cards/:uid", admin, cards.Delete)
	protected.POST("/cards/:uid/approve", admin, cards.Approve)
	protected.POST("/cards/:uid/revoke", admin, cards.Revoke)

	logs := handlers.NewAccessLogHandler(db, cfg.NewCardWindow)
	protected.GET("/access-logs", logs.List)
	protected.GET("/access-logs/new-cards", logs.NewCards)
	protected.GET("/access-logs/score-report", logs.ScoreReport)
	protected.GET("/access-logs/:uuid", logs.Get)
	protected.PUT("/access-logs/:uuid/score", admin, logs.Score)

	projects := handlers.NewProjectHandler(db)
	protected.GET("/projects", projects.List)
	protected.GET("/projects/:uid", projects.Get)
	protected.POST("/projects", admin, projects.Create)
	protected.PUT("/projects/:uid", admin, projects.Update)
	protected.DELETE("/projects/:uid", admin, projects.Delete)

	return nil
}
