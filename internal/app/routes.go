package app

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/julienby/taskflow/internal/cache"
	"github.com/julienby/taskflow/internal/config"
	"github.com/julienby/taskflow/internal/handlers"
	"github.com/julienby/taskflow/internal/repo"
	"github.com/julienby/taskflow/internal/service"
	"github.com/julienby/taskflow/internal/web"
)

func newRouter(cfg config.Config, db *sqlx.DB, rdb *redis.Client) *gin.Engine {
	if cfg.App.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(cors.Default())
	r.SetHTMLTemplate(web.Templates())

	Setup(r, cfg, db, rdb)
	return r
}

// Setup registers all routes on the given engine.
func Setup(r *gin.Engine, cfg config.Config, db *sqlx.DB, rdb *redis.Client) {
	r.GET("/health", healthHandler(cfg))
	r.GET("/version", versionHandler(cfg))

	taskRepo := repo.NewSQLiteTaskRepo(db)
	var taskCache *cache.TaskCache
	if rdb != nil {
		taskCache = cache.NewTaskCache(rdb, cfg.Redis.DefaultTTL.Duration())
	}
	taskSvc := service.NewTaskService(taskRepo, taskCache)
	taskHandler := handlers.NewTaskHandler(taskSvc)

	r.GET("/", taskHandler.Index)
	registerTaskRoutes(r, taskHandler)
}

func registerTaskRoutes(r *gin.Engine, h *handlers.TaskHandler) {
	r.GET("/tasks", h.List)
	r.GET("/tasks/:id/edit", h.EditForm)
	r.POST("/tasks", h.Create)
	r.POST("/tasks/reorder", h.Reorder)
	r.POST("/tasks/:id", h.Update)
	r.POST("/tasks/:id/toggle", h.Toggle)
	r.DELETE("/tasks/:id", h.Delete)
}

func healthHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true, "env": cfg.App.Env})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, gin.H{"version": cfg.App.Version})
	}
}
