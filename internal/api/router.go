package api

import (
	"github.com/gin-gonic/gin"

	"github.com/Hoddity/virt/internal/api/handlers"
	"github.com/Hoddity/virt/internal/api/middleware"
	"github.com/Hoddity/virt/internal/metrics"
	"github.com/Hoddity/virt/internal/objstore"
	"github.com/Hoddity/virt/internal/queue"
	"github.com/Hoddity/virt/internal/storage"
)

// Router manages API routing and handlers
type Router struct {
	engine         *gin.Engine
	taskHandler    *handlers.TaskHandler
	queueHandler   *handlers.QueueHandler
	metricsHandler *handlers.MetricsHandler
	uploadHandler  *handlers.UploadHandler
}

// NewRouter creates a new API router with all handlers initialized
func NewRouter(
	taskRepo storage.TaskRepository,
	queueClient queue.Client,
	queueName string,
	store *metrics.Store,
	uploader objstore.Uploader,
) *Router {
	router := &Router{
		engine:         gin.New(),
		taskHandler:    handlers.NewTaskHandler(taskRepo, store),
		queueHandler:   handlers.NewQueueHandler(queueClient, queueName, store),
		metricsHandler: handlers.NewMetricsHandler(store),
		uploadHandler:  handlers.NewUploadHandler(uploader),
	}

	router.setupMiddleware(store)
	router.setupRoutes()

	return router
}

// setupMiddleware configures global middleware
func (r *Router) setupMiddleware(store *metrics.Store) {
	// Request counting and tracing headers
	r.engine.Use(middleware.MetricsMiddleware(store))

	// Logging middleware
	r.engine.Use(middleware.LoggingMiddleware())

	// Error handling middleware
	r.engine.Use(middleware.ErrorHandlerMiddleware())

	// Recovery middleware (catch panics)
	r.engine.Use(gin.Recovery())
}

// setupRoutes configures all API routes
func (r *Router) setupRoutes() {
	// Health check
	r.engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "healthy",
		})
	})

	// Prometheus-style scrape endpoint
	r.engine.GET("/metrics", r.metricsHandler.GetPrometheus)

	// API v1 routes
	v1 := r.engine.Group("/api/v1")
	{
		tasks := v1.Group("/tasks")
		{
			tasks.GET("", r.taskHandler.ListTasks)
			tasks.POST("", r.taskHandler.CreateTask)
			tasks.GET("/:id", r.taskHandler.GetTask)
			tasks.PUT("/:id", r.taskHandler.UpdateTask)
			tasks.DELETE("/:id", r.taskHandler.DeleteTask)
		}

		queue := v1.Group("/queue")
		{
			queue.POST("/send", r.queueHandler.SendMessage)
			queue.GET("/stats", r.queueHandler.GetStats)
		}

		v1.GET("/metrics", r.metricsHandler.GetMetrics)
		v1.POST("/metrics/reset", r.metricsHandler.Reset)

		v1.POST("/uploads", r.uploadHandler.Upload)
	}
}

// Engine returns the underlying Gin engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// Run starts the HTTP server
func (r *Router) Run(addr string) error {
	return r.engine.Run(addr)
}
