package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/emilythestrangee/quote-vault/backend/internal/config"
	"github.com/emilythestrangee/quote-vault/backend/internal/database"
	"github.com/emilythestrangee/quote-vault/backend/internal/middleware"
	"github.com/emilythestrangee/quote-vault/backend/internal/models"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
	}
}

// setupTestDB creates a throwaway sqlite DB with the real schema for each test
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

// setupRouter returns a gin engine with the application routes wired to a
// fresh test DB
func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := setupTestDB(t)
	cfg := testConfig()
	h := NewHandler(db, cfg)

	r := gin.New()
	r.POST("/auth/register", h.Auth.Register)
	r.POST("/auth/login", h.Auth.Login)

	protected := r.Group("")
	protected.Use(middleware.AuthMiddleware(db, cfg.JWTSecret))
	{
		protected.POST("/quotes", h.Quote.CreateQuote)
		protected.GET("/quotes", h.Quote.GetQuotes)
		protected.GET("/quotes/:id", h.Quote.GetQuote)
		protected.PATCH("/quotes/:id", h.Quote.UpdateQuote)
		protected.DELETE("/quotes/:id", h.Quote.DeleteQuote)

		protected.POST("/votes/quote/:quoteId", h.Vote.CastVote)
		protected.DELETE("/votes/quote/:quoteId", h.Vote.RemoveVote)
		protected.GET("/votes/my-votes", h.Vote.GetMyVotes)
		protected.GET("/votes/quote/:quoteId", h.Vote.GetQuoteVotes)

		protected.GET("/analytics/votes", h.Analytics.GetVoteAnalytics)
		protected.GET("/analytics/quotes", h.Analytics.GetQuoteAnalytics)

		protected.GET("/users/profile", h.User.GetProfile)
		protected.GET("/users/stats", h.User.GetStats)
	}

	return r, db
}

// doRequest performs a JSON request against the test router
func doRequest(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(raw)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// registerUser creates a user through the API and returns their token
func registerUser(t *testing.T, r *gin.Engine, username string) string {
	t.Helper()

	w := doRequest(t, r, http.MethodPost, "/auth/register", "", gin.H{
		"username": username,
		"email":    fmt.Sprintf("%s@example.com", username),
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	token, ok := decodeBody(t, w)["token"].(string)
	require.True(t, ok)
	return token
}

// promoteAdmin flips a user's role directly in the DB; the middleware picks
// the new role up on the next request.
func promoteAdmin(t *testing.T, db *gorm.DB, username string) {
	t.Helper()
	err := db.Model(&models.User{}).Where("username = ?", username).Update("role", models.RoleAdmin).Error
	require.NoError(t, err)
}

// createQuote creates a quote through the API and returns its id
func createQuote(t *testing.T, r *gin.Engine, token string, body gin.H) int {
	t.Helper()

	w := doRequest(t, r, http.MethodPost, "/quotes", token, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id, ok := decodeBody(t, w)["id"].(float64)
	require.True(t, ok)
	return int(id)
}

// castVote casts a vote through the API
func castVote(t *testing.T, r *gin.Engine, token string, quoteID, value int) {
	t.Helper()

	w := doRequest(t, r, http.MethodPost, fmt.Sprintf("/votes/quote/%d", quoteID), token, gin.H{"value": value})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

// quoteTotalVotes reads the stored counter straight from the DB
func quoteTotalVotes(t *testing.T, db *gorm.DB, quoteID int) int {
	t.Helper()

	var quote models.Quote
	require.NoError(t, db.First(&quote, quoteID).Error)
	return quote.TotalVotes
}
