package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/readtrack/internal/entities"
	"github.com/mrlokans/readtrack/internal/library"
	"github.com/mrlokans/readtrack/internal/results"
)

type BooksController struct {
	library *library.Service
	logger  *zap.Logger
}

func NewBooksController(lib *library.Service, logger *zap.Logger) *BooksController {
	return &BooksController{library: lib, logger: logger}
}

func (controller *BooksController) AddBook(c *gin.Context) {
	var input library.AddBookInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBadRequest(c, "invalid book payload: "+err.Error())
		return
	}

	invoke(c, controller.logger, http.StatusCreated, func() results.Result[*entities.Book] {
		return controller.library.AddBook(GetUserID(c), input)
	})
}

// GetBooks lists the collection; ?state= narrows it to one reading state.
func (controller *BooksController) GetBooks(c *gin.Context) {
	invoke(c, controller.logger, http.StatusOK, func() results.Result[[]entities.Book] {
		if state := c.Query("state"); state != "" {
			return controller.library.GetBooksByState(GetUserID(c), entities.ReadingState(state))
		}
		return controller.library.GetBooks(GetUserID(c))
	})
}

func (controller *BooksController) GetBook(c *gin.Context) {
	invoke(c, controller.logger, http.StatusOK, func() results.Result[*entities.Book] {
		return controller.library.GetBook(GetUserID(c), c.Param("id"))
	})
}

type updateStateRequest struct {
	State entities.ReadingState `json:"state" binding:"required"`
}

func (controller *BooksController) UpdateState(c *gin.Context) {
	var req updateStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "state is required")
		return
	}

	invoke(c, controller.logger, http.StatusOK, func() results.Result[*entities.Book] {
		return controller.library.UpdateBookState(GetUserID(c), c.Param("id"), req.State)
	})
}

type updateProgressRequest struct {
	CurrentPage *int `json:"current_page" binding:"required"`
}

func (controller *BooksController) UpdateProgress(c *gin.Context) {
	var req updateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "current_page is required")
		return
	}

	invoke(c, controller.logger, http.StatusOK, func() results.Result[*entities.Book] {
		return controller.library.UpdateBookProgress(GetUserID(c), c.Param("id"), *req.CurrentPage)
	})
}

type updateRatingRequest struct {
	Rating *int `json:"rating" binding:"required"`
}

func (controller *BooksController) UpdateRating(c *gin.Context) {
	var req updateRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "rating is required")
		return
	}

	invoke(c, controller.logger, http.StatusOK, func() results.Result[*entities.Book] {
		return controller.library.UpdateBookRating(GetUserID(c), c.Param("id"), *req.Rating)
	})
}

// UpdateManual is the correction endpoint: it skips the state transition
// table on purpose and is routed separately so the bypass is auditable.
func (controller *BooksController) UpdateManual(c *gin.Context) {
	var updates library.ManualUpdate
	if err := c.ShouldBindJSON(&updates); err != nil {
		respondBadRequest(c, "invalid update payload: "+err.Error())
		return
	}

	invoke(c, controller.logger, http.StatusOK, func() results.Result[*entities.Book] {
		return controller.library.UpdateBookManual(GetUserID(c), c.Param("id"), updates)
	})
}

func (controller *BooksController) DeleteBook(c *gin.Context) {
	invoke(c, controller.logger, http.StatusOK, func() results.Result[struct{}] {
		return controller.library.DeleteBook(GetUserID(c), c.Param("id"))
	})
}
