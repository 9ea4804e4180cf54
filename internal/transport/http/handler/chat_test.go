package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-code-reviewer/internal/ai"
	appsvc "ai-code-reviewer/internal/app"
	"ai-code-reviewer/internal/ratelimit"
	"ai-code-reviewer/internal/session"
	"ai-code-reviewer/internal/transport/http/middleware"
)

type fixedCompleter struct {
	response string
}

func (f *fixedCompleter) Complete(context.Context, []ai.ChatMessage, ai.CompleteOptions) (string, error) {
	return f.response, nil
}

// mapKV backs handler tests with a real in-memory store.
type mapKV struct {
	mu      sync.Mutex
	values  map[string]string
	expires map[string]time.Time
}

func newMapKV() *mapKV {
	return &mapKV{values: map[string]string{}, expires: map[string]time.Time{}}
}

func (k *mapKV) Get(_ context.Context, key string) (string, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	v, ok := k.values[key]
	if !ok || !time.Now().Before(k.expires[key]) {
		return "", session.ErrKeyNotFound
	}
	return v, nil
}

func (k *mapKV) Set(_ context.Context, key, value string, ttl time.Duration) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.values[key] = value
	k.expires[key] = time.Now().Add(ttl)
	return nil
}

func (k *mapKV) Delete(_ context.Context, key string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	delete(k.values, key)
	delete(k.expires, key)
	return nil
}

type testEnvelope struct {
	Success bool           `json:"success"`
	Data    map[string]any `json:"data"`
	Error   *struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
}

func newTestRouter(t *testing.T, limit int, authCfg middleware.AuthConfig) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := session.NewStore(newMapKV(), time.Hour)
	svc := appsvc.NewReviewService(store, &fixedCompleter{
		response: "Warning: found an issue.\n1. Handle the error return.",
	}, nil, ai.CompleteOptions{})
	chatHandler := NewChatHandler(svc, 1000)

	limiter := ratelimit.New(limit, time.Minute)

	router := gin.New()
	api := router.Group("/api")
	api.Use(middleware.RateLimit(limiter))

	chatGroup := api.Group("/chat")
	if authCfg.Enabled() {
		chatGroup.Use(middleware.RequireToken(authCfg))
	}
	chatGroup.POST("/session", chatHandler.CreateSession)
	chatGroup.POST("/review", chatHandler.Review)
	chatGroup.GET("/session/:id", chatHandler.GetSession)
	chatGroup.DELETE("/session/:id", chatHandler.DeleteSession)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string, headers map[string]string) (*httptest.ResponseRecorder, testEnvelope) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var envelope testEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope), "body: %s", rec.Body.String())
	return rec, envelope
}

func TestReviewEndToEnd(t *testing.T) {
	router := newTestRouter(t, 100, middleware.AuthConfig{})

	rec, env := doJSON(t, router, http.MethodPost, "/api/chat/review",
		`{"code":"function f(){ return 1 }"}`, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, env.Success)
	assert.NotEmpty(t, env.Data["session_id"])
	assert.NotEmpty(t, env.Data["review"])
	assert.Contains(t, []string{"info", "warning", "critical"}, env.Data["severity"])
}

func TestReviewContinuesSession(t *testing.T) {
	router := newTestRouter(t, 100, middleware.AuthConfig{})

	_, first := doJSON(t, router, http.MethodPost, "/api/chat/review",
		`{"code":"function f(){ return 1 }"}`, nil)
	sessionID := first.Data["session_id"].(string)

	_, second := doJSON(t, router, http.MethodPost, "/api/chat/review",
		`{"session_id":"`+sessionID+`","code":"what does it do?"}`, nil)
	assert.Equal(t, sessionID, second.Data["session_id"])

	rec, info := doJSON(t, router, http.MethodGet, "/api/chat/session/"+sessionID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(4), info.Data["message_count"], "two turns, two messages each")
}

func TestReviewValidation(t *testing.T) {
	router := newTestRouter(t, 100, middleware.AuthConfig{})

	tests := []struct {
		name string
		body string
	}{
		{"missing code", `{}`},
		{"empty code", `{"code":""}`},
		{"non-string code", `{"code":42}`},
		{"over max length", `{"code":"` + strings.Repeat("x", 1001) + `"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := doJSON(t, router, http.MethodPost, "/api/chat/review", tt.body, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			require.NotNil(t, env.Error)
			assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
		})
	}
}

func TestSessionLifecycleEndpoints(t *testing.T) {
	router := newTestRouter(t, 100, middleware.AuthConfig{})

	rec, created := doJSON(t, router, http.MethodPost, "/api/chat/session", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	sessionID := created.Data["session_id"].(string)
	assert.NotEmpty(t, created.Data["expires_at"])

	rec, got := doJSON(t, router, http.MethodGet, "/api/chat/session/"+sessionID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(0), got.Data["message_count"])

	rec, _ = doJSON(t, router, http.MethodDelete, "/api/chat/session/"+sessionID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env := doJSON(t, router, http.MethodGet, "/api/chat/session/"+sessionID, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "SESSION_ERROR", env.Error.Code)
}

func TestLookupUnknownSessionIsNotAutoCreated(t *testing.T) {
	router := newTestRouter(t, 100, middleware.AuthConfig{})

	rec, env := doJSON(t, router, http.MethodGet, "/api/chat/session/does-not-exist", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "SESSION_ERROR", env.Error.Code)
}

func TestRateLimitHeadersAndRejection(t *testing.T) {
	router := newTestRouter(t, 2, middleware.AuthConfig{})

	rec, _ := doJSON(t, router, http.MethodPost, "/api/chat/session", "", nil)
	assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Reset"))

	doJSON(t, router, http.MethodPost, "/api/chat/session", "", nil)

	rec, env := doJSON(t, router, http.MethodPost, "/api/chat/session", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", env.Error.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
}

func TestAuthMiddleware(t *testing.T) {
	authCfg := middleware.AuthConfig{AccessToken: "sesame"}
	router := newTestRouter(t, 100, authCfg)

	rec, env := doJSON(t, router, http.MethodPost, "/api/chat/session", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "AUTHENTICATION_ERROR", env.Error.Code)

	rec, _ = doJSON(t, router, http.MethodPost, "/api/chat/session", "", map[string]string{
		"Authorization": "Bearer wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, env = doJSON(t, router, http.MethodPost, "/api/chat/session", "", map[string]string{
		"Authorization": "Bearer sesame",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
}
