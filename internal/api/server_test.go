// internal/api/server_test.go
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"copywriter/internal/accounts"
	"copywriter/internal/common/auth"
	"copywriter/internal/common/config"
	"copywriter/internal/common/logger"
	"copywriter/internal/copywriting"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ==========================
// Test Helper Functions
// ==========================

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

type testEnv struct {
	server *Server
	cookie *http.Cookie
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "copywriter", Version: "test", Environment: "test"},
		Auth: config.AuthConfig{
			JWTSecret:         "test-secret",
			TokenTTLHours:     168,
			CookieName:        "token",
			MinPasswordLength: 6,
			BcryptCost:        bcrypt.MinCost,
			InvitationCodes: []config.InvitationCode{
				{Code: "QZ202588", Role: "user"},
				{Code: "VIPQZ8888", Role: "admin"},
			},
		},
		Generation: config.GenerationConfig{DefaultStyle: "Playful", MaxProductNameLength: 200, MaxSellingPointLength: 2000},
	}
}

func newTestEnv(t *testing.T, revocations auth.RevocationStore, checks map[string]Pinger) *testEnv {
	t.Helper()
	cfg := testConfig()
	log := logger.NewTestLogger(t)
	issuer := auth.NewSessionIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL(), revocations)

	srv := NewServer(Deps{
		Config:      cfg,
		Accounts:    accounts.NewService(accounts.NewMemoryStore(), issuer, cfg.Auth, log),
		Copywriting: copywriting.NewService(cfg.Generation, log),
		Logger:      zaptest.NewLogger(t),
		Checks:      checks,
	})
	return &testEnv{server: srv}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if e.cookie != nil {
		req.AddCookie(e.cookie)
	}
	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == "token" {
			return c
		}
	}
	return nil
}

// signIn registers and logs in, keeping the session cookie for later requests.
func (e *testEnv) signIn(t *testing.T, email, code string) {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/auth/register", gin.H{"email": email, "password": "secret1", "invitationCode": code})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = e.do(t, http.MethodPost, "/api/auth/login", gin.H{"email": email, "password": "secret1"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	e.cookie = sessionCookie(rec)
	require.NotNil(t, e.cookie)
}

// ==========================
// Auth flow
// ==========================

func TestAuthFlow(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	rec := env.do(t, http.MethodPost, "/api/auth/register", gin.H{"email": "Ada@Example.com", "password": "secret1", "invitationCode": "QZ202588"})
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "ada@example.com", user["email"])
	assert.NotContains(t, user, "passwordHash")
	assert.NotContains(t, rec.Body.String(), "$2a$")

	rec = env.do(t, http.MethodPost, "/api/auth/login", gin.H{"email": "ada@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, rec.Code)
	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, 7*24*3600, cookie.MaxAge)
	assert.Equal(t, float64(1), decode(t, rec)["user"].(map[string]interface{})["usageCount"])
	env.cookie = cookie

	rec = env.do(t, http.MethodGet, "/api/auth/me", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode(t, rec)["user"].(map[string]interface{})
	assert.Equal(t, "ada@example.com", me["email"])
	assert.Equal(t, "user", me["role"])

	rec = env.do(t, http.MethodPost, "/api/auth/logout", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cleared := sessionCookie(rec)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.True(t, cleared.MaxAge < 0)
}

func TestMe_WithoutSession(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	rec := env.do(t, http.MethodGet, "/api/auth/me", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user": null}`, rec.Body.String())

	env.cookie = &http.Cookie{Name: "token", Value: "garbage"}
	rec = env.do(t, http.MethodGet, "/api/auth/me", nil)
	assert.JSONEq(t, `{"user": null}`, rec.Body.String())
}

func TestAuthErrors(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	env.signIn(t, "taken@example.com", "QZ202588")

	tests := []struct {
		name       string
		path       string
		body       interface{}
		wantStatus int
		wantCode   string
	}{
		{"malformed json", "/api/auth/register", "not an object", http.StatusBadRequest, "INVALID_INPUT"},
		{"bad email", "/api/auth/register", gin.H{"email": "nope", "password": "secret1", "invitationCode": "QZ202588"}, http.StatusBadRequest, "INVALID_EMAIL"},
		{"weak password", "/api/auth/register", gin.H{"email": "a@b.co", "password": "123", "invitationCode": "QZ202588"}, http.StatusBadRequest, "WEAK_PASSWORD"},
		{"password too long", "/api/auth/register", gin.H{"email": "a@b.co", "password": strings.Repeat("p", 100), "invitationCode": "QZ202588"}, http.StatusBadRequest, "WEAK_PASSWORD"},
		{"missing login password", "/api/auth/login", gin.H{"email": "taken@example.com"}, http.StatusBadRequest, "INVALID_INPUT"},
		{"bad invitation", "/api/auth/register", gin.H{"email": "a@b.co", "password": "secret1", "invitationCode": "X"}, http.StatusBadRequest, "INVALID_INVITATION_CODE"},
		{"duplicate", "/api/auth/register", gin.H{"email": "taken@example.com", "password": "secret1", "invitationCode": "QZ202588"}, http.StatusConflict, "USER_ALREADY_EXISTS"},
		{"unknown user", "/api/auth/login", gin.H{"email": "who@example.com", "password": "secret1"}, http.StatusUnauthorized, "USER_NOT_FOUND"},
		{"wrong password", "/api/auth/login", gin.H{"email": "taken@example.com", "password": "secret2"}, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decode(t, rec)
			assert.Equal(t, tt.wantCode, body["code"])
			assert.Equal(t, false, body["success"])
		})
	}
}

func TestLogout_RevokesWithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	env := newTestEnv(t, auth.NewRedisRevocationStore(client), nil)
	env.signIn(t, "ada@example.com", "QZ202588")
	token := env.cookie

	rec := env.do(t, http.MethodPost, "/api/auth/logout", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, mr.Keys(), 1)

	// The browser would drop the cookie; a replayed token must still fail.
	env.cookie = token
	rec = env.do(t, http.MethodPost, "/api/generate", gin.H{"productName": "Mug", "sellingPoint": "Warm"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "SESSION_INVALID", decode(t, rec)["code"])
}

// ==========================
// Generation
// ==========================

func TestGenerate(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	rec := env.do(t, http.MethodPost, "/api/generate", gin.H{"productName": "Mug", "sellingPoint": "Warm"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	env.signIn(t, "ada@example.com", "QZ202588")

	rec = env.do(t, http.MethodPost, "/api/generate", gin.H{
		"productName": "Bluetooth Headphones", "sellingPoint": "Noise cancelling, 30h battery", "style": "专业",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "Professional", body["style"])
	assert.Equal(t, "Audio", body["productType"])
	assert.Equal(t, "template", body["mode"])
	assert.Len(t, body["titles"], 3)
	assert.Len(t, body["tags"], 5)
	assert.NotEmpty(t, body["text"])

	rec = env.do(t, http.MethodPost, "/api/generate", gin.H{"productName": " ", "sellingPoint": "Warm"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_INPUT", decode(t, rec)["code"])

	rec = env.do(t, http.MethodPost, "/api/generate", gin.H{"productName": "Mug", "sellingPoint": "Warm", "mode": "ai"})
	require.Equal(t, http.StatusOK, rec.Code)
	body = decode(t, rec)
	assert.Equal(t, "template", body["mode"])
	assert.Equal(t, copywriting.FallbackNotConfigured, body["fallbackReason"])
}

func TestAIGenerate_NotConfigured(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	env.signIn(t, "ada@example.com", "QZ202588")

	rec := env.do(t, http.MethodPost, "/api/ai-generate", gin.H{"prompt": "Write about tea"})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "BACKEND_NOT_CONFIGURED", decode(t, rec)["code"])

	rec = env.do(t, http.MethodPost, "/api/ai-generate", gin.H{"context": "no prompt"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckAPIStatus(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	rec := env.do(t, http.MethodGet, "/api/check-api-status", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "missing", body["status"])
	assert.Equal(t, false, body["hasApiKey"])
	_, err := time.Parse(time.RFC3339, body["timestamp"].(string))
	assert.NoError(t, err)
}

// ==========================
// Operations
// ==========================

func TestDebugStore_AdminOnly(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	env.signIn(t, "user@example.com", "QZ202588")

	rec := env.do(t, http.MethodGet, "/api/debug/store", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	env.signIn(t, "admin@example.com", "VIPQZ8888")
	rec = env.do(t, http.MethodGet, "/api/debug/store", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"driver":"memory","userCount":2}`, rec.Body.String())
}

func TestHealthAndReady(t *testing.T) {
	healthy := newTestEnv(t, nil, map[string]Pinger{"store": pingFunc(func(context.Context) error { return nil })})

	rec := healthy.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))

	rec = healthy.do(t, http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	broken := newTestEnv(t, nil, map[string]Pinger{"redis": pingFunc(func(context.Context) error { return errors.New("connection refused") })})
	rec = broken.do(t, http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection refused")

	rec = healthy.do(t, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestID_Propagates(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))
}
