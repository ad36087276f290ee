package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/readtrack/internal/database"
	"github.com/mrlokans/readtrack/internal/events"
	"github.com/mrlokans/readtrack/internal/greeting"
	"github.com/mrlokans/readtrack/internal/library"
	"github.com/mrlokans/readtrack/internal/watch"
)

// RouterConfig carries the dependencies of every controller, so wiring
// stays in one place and tests can assemble partial routers.
type RouterConfig struct {
	Library  *library.Service
	Events   *events.Service
	Greeting *greeting.Service
	Hub      *watch.Hub
	DB       *database.Database
	Logger   *zap.Logger
	Version  string
}

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	health := NewHealthController(cfg.DB, cfg.Version)
	router.GET("/health", health.Status)

	booksController := NewBooksController(cfg.Library, cfg.Logger)
	eventsController := NewEventsController(cfg.Events, cfg.Logger)
	statsController := NewStatsController(cfg.Library, cfg.Greeting, cfg.Logger)

	api := router.Group("/api")
	{
		api.POST("/books", booksController.AddBook)
		api.GET("/books", booksController.GetBooks)
		api.GET("/books/:id", booksController.GetBook)
		api.PUT("/books/:id/state", booksController.UpdateState)
		api.PUT("/books/:id/progress", booksController.UpdateProgress)
		api.PUT("/books/:id/rating", booksController.UpdateRating)
		api.PUT("/books/:id", booksController.UpdateManual)
		api.DELETE("/books/:id", booksController.DeleteBook)

		api.GET("/books/:id/events", eventsController.ByBook)
		api.GET("/events", eventsController.Recent)

		api.GET("/stats", statsController.GetStats)
		api.GET("/greeting", statsController.GetGreeting)

		if cfg.Hub != nil {
			watchController := NewWatchController(cfg.Hub)
			api.GET("/watch", watchController.Stream)
		}
	}

	return router
}
