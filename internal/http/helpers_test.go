package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mrlokans/readtrack/internal/results"
)

func TestInvoke_PanicAnswersInEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/boom", func(c *gin.Context) {
		invoke(c, zap.NewNop(), http.StatusOK, func() results.Result[struct{}] {
			panic("boom")
		})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	// The crash must not surface as a bare empty 500: the client still
	// gets the classified envelope with a correlation id.
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	require.NotEmpty(t, w.Body.String())

	var resp struct {
		Success bool `json:"success"`
		Error   struct {
			ID       string `json:"id"`
			Category string `json:"category"`
			Severity string `json:"severity"`
			Message  string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, string(results.CategorySystem), resp.Error.Category)
	assert.Len(t, resp.Error.ID, 36)
	assert.NotEmpty(t, resp.Error.Message)
}

func TestInvoke_SuccessPassesEnvelopeThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/ok", func(c *gin.Context) {
		invoke(c, zap.NewNop(), http.StatusOK, func() results.Result[string] {
			return results.Ok("fine")
		})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":"fine"}`, w.Body.String())
}
