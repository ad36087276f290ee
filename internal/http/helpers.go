package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/readtrack/internal/results"
)

// DefaultUserID is used when no identity header is present. Identity
// provisioning itself lives outside this service; handlers only scope data
// by whatever user id the front door supplies.
const DefaultUserID = uint(0)

// userIDHeader carries the caller's identity from the authenticating proxy.
const userIDHeader = "X-User-ID"

// GetUserID extracts the acting user's id from the request.
func GetUserID(c *gin.Context) uint {
	raw := c.GetHeader(userIDHeader)
	if raw == "" {
		return DefaultUserID
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return DefaultUserID
	}
	return uint(id)
}

// statusFor maps an error category to an HTTP status code.
func statusFor(err *results.StandardError) int {
	switch err.Category {
	case results.CategoryValidation:
		return http.StatusBadRequest
	case results.CategoryAuthorization:
		return http.StatusForbidden
	case results.CategoryBusinessLogic:
		return http.StatusUnprocessableEntity
	case results.CategoryNetwork:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondResult renders the uniform envelope. The full technical error
// stays in the logs; the client sees the user message, category and the
// correlation id.
func respondResult[T any](c *gin.Context, status int, res results.Result[T]) {
	if res.Success {
		c.JSON(status, res)
		return
	}
	c.JSON(statusFor(res.Error), gin.H{
		"success": false,
		"error": gin.H{
			"id":          res.Error.ID,
			"category":    res.Error.Category,
			"severity":    res.Error.Severity,
			"message":     res.Error.UserMessage,
			"recoverable": res.Error.Recoverable,
			"retryable":   res.Error.Retryable,
		},
	})
}

// respondBadRequest renders a validation failure for malformed input that
// never reached a service.
func respondBadRequest(c *gin.Context, message string) {
	respondResult(c, 0, results.Fail[struct{}](results.Validation(message, message)))
}

// invoke runs a service operation with panic containment. A panic inside
// the operation still answers in the standard envelope, as a classified
// system error with a correlation id, instead of a bare 500.
func invoke[T any](c *gin.Context, logger *zap.Logger, status int, op func() results.Result[T]) {
	wrapped := results.Run(logger, results.CategorySystem, func() (results.Result[T], error) {
		return op(), nil
	})
	if !wrapped.Success {
		respondResult(c, 0, results.Fail[T](wrapped.Error))
		return
	}
	respondResult(c, status, wrapped.Data)
}
