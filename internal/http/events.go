package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/readtrack/internal/entities"
	"github.com/mrlokans/readtrack/internal/events"
	"github.com/mrlokans/readtrack/internal/results"
)

type EventsController struct {
	events *events.Service
	logger *zap.Logger
}

func NewEventsController(svc *events.Service, logger *zap.Logger) *EventsController {
	return &EventsController{events: svc, logger: logger}
}

// Recent lists the user's latest history entries. Supports ?limit= and
// ?type= filters. The log service returns plain errors, so the handlers
// classify them here via results.Run.
func (controller *EventsController) Recent(c *gin.Context) {
	userID := GetUserID(c)

	if t := c.Query("type"); t != "" {
		res := results.Run(controller.logger, results.CategoryNetwork, func() ([]entities.BookEvent, error) {
			return controller.events.ByType(userID, entities.EventType(t))
		})
		respondResult(c, http.StatusOK, res)
		return
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondBadRequest(c, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	res := results.Run(controller.logger, results.CategoryNetwork, func() ([]entities.BookEvent, error) {
		return controller.events.Recent(userID, limit)
	})
	respondResult(c, http.StatusOK, res)
}

// ByBook lists one book's history, newest first.
func (controller *EventsController) ByBook(c *gin.Context) {
	res := results.Run(controller.logger, results.CategoryNetwork, func() ([]entities.BookEvent, error) {
		return controller.events.ByBook(GetUserID(c), c.Param("id"))
	})
	respondResult(c, http.StatusOK, res)
}
