package greeting

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mrlokans/readtrack/internal/entities"
)

type stubProvider struct {
	text string
	err  error
}

func (s *stubProvider) Generate(ctx context.Context, prompt string) (string, error) {
	return s.text, s.err
}

func (s *stubProvider) Name() string { return "stub" }

func TestService_UsesProviderText(t *testing.T) {
	svc := NewService(&stubProvider{text: "Happy reading!"}, zap.NewNop())

	got := svc.Message(context.Background(), &entities.Statistics{BooksInLibrary: 3})
	assert.Equal(t, "Happy reading!", got)
}

func TestService_FallsBackOnProviderError(t *testing.T) {
	svc := NewService(&stubProvider{err: errors.New("upstream down")}, zap.NewNop())

	stats := &entities.Statistics{BooksInLibrary: 5, CurrentlyReading: 1, TotalBooksRead: 2}
	got := svc.Message(context.Background(), stats)
	assert.Equal(t, Fallback(stats), got)
	assert.NotEmpty(t, got)
}

func TestService_FallsBackWithoutProvider(t *testing.T) {
	svc := NewService(nil, zap.NewNop())

	got := svc.Message(context.Background(), nil)
	assert.Contains(t, got, "first book")
}

func TestFallback_Variants(t *testing.T) {
	assert.Contains(t, Fallback(nil), "first book")
	assert.Contains(t, Fallback(&entities.Statistics{}), "first book")

	reading := Fallback(&entities.Statistics{BooksInLibrary: 4, CurrentlyReading: 2, TotalBooksRead: 1})
	assert.Contains(t, reading, "reading 2")

	done := Fallback(&entities.Statistics{BooksInLibrary: 4, TotalBooksRead: 3})
	assert.Contains(t, done, "finished 3")
}

func TestHTTPProvider_Generate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text": "  Hello reader!  "}`))
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.URL, "test-model", time.Second)
	got, err := p.Generate(context.Background(), "say hi")
	require.NoError(t, err)
	assert.Equal(t, "Hello reader!", got)
}

func TestHTTPProvider_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p := NewHTTPProvider(srv.URL, "", time.Second)
	_, err := p.Generate(context.Background(), "say hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestHTTPProvider_NoEndpoint(t *testing.T) {
	p := NewHTTPProvider("", "", time.Second)
	_, err := p.Generate(context.Background(), "say hi")
	assert.Error(t, err)
}
