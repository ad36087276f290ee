package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/readtrack/internal/entities"
	"github.com/mrlokans/readtrack/internal/greeting"
	"github.com/mrlokans/readtrack/internal/library"
	"github.com/mrlokans/readtrack/internal/results"
)

type StatsController struct {
	library  *library.Service
	greeting *greeting.Service
	logger   *zap.Logger
}

func NewStatsController(lib *library.Service, greet *greeting.Service, logger *zap.Logger) *StatsController {
	return &StatsController{library: lib, greeting: greet, logger: logger}
}

// GetStats recomputes and returns the user's dashboard statistics.
func (controller *StatsController) GetStats(c *gin.Context) {
	invoke(c, controller.logger, http.StatusOK, func() results.Result[*entities.Statistics] {
		return controller.library.Statistics(GetUserID(c))
	})
}

// GetGreeting returns the personalized dashboard message. The endpoint
// never fails on provider errors; worst case it serves the template. A
// request already cancelled by the client is not forwarded to the
// provider at all.
func (controller *StatsController) GetGreeting(c *gin.Context) {
	res := controller.library.Statistics(GetUserID(c))
	if !res.Success {
		respondResult(c, 0, res)
		return
	}

	msg := results.RunCtx(c.Request.Context(), controller.logger, results.CategoryNetwork,
		func(ctx context.Context) (gin.H, error) {
			return gin.H{"message": controller.greeting.Message(ctx, res.Data)}, nil
		})
	respondResult(c, http.StatusOK, msg)
}
