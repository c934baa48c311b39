package server

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/quote-vault/backend/internal/config"
	"github.com/emilythestrangee/quote-vault/backend/internal/database"
	"github.com/emilythestrangee/quote-vault/backend/internal/handlers"
	"github.com/emilythestrangee/quote-vault/backend/internal/middleware"
)

type Server struct {
	cfg     *config.Config
	db      database.Service
	handler *handlers.Handler
}

// NewServer creates and configures a new server
func NewServer(cfg *config.Config) *http.Server {
	// Initialize database
	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Create unified handler
	handler := handlers.NewHandler(db.GetDB(), cfg)

	// Create server instance
	newServer := &Server{
		cfg:     cfg,
		db:      db,
		handler: handler,
	}

	// Configure Gin router
	router := newServer.RegisterRoutes()

	// Create HTTP server
	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Printf("🚀 Server starting on port %s\n", cfg.Port)
	fmt.Println("📝 Press Ctrl+C to stop the server")

	return server
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	r := gin.Default()

	// CORS configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.db.Health())
	})

	// Auth routes (public)
	r.POST("/auth/register", s.handler.Auth.Register)
	r.POST("/auth/login", s.handler.Auth.Login)

	// Protected routes (authentication required)
	protected := r.Group("")
	protected.Use(middleware.AuthMiddleware(s.db.GetDB(), s.cfg.JWTSecret))
	{
		// Quote routes
		protected.POST("/quotes", s.handler.Quote.CreateQuote)
		protected.GET("/quotes", s.handler.Quote.GetQuotes)
		protected.GET("/quotes/:id", s.handler.Quote.GetQuote)
		protected.PATCH("/quotes/:id", s.handler.Quote.UpdateQuote)
		protected.DELETE("/quotes/:id", s.handler.Quote.DeleteQuote)

		// Vote routes
		protected.POST("/votes/quote/:quoteId", s.handler.Vote.CastVote)
		protected.DELETE("/votes/quote/:quoteId", s.handler.Vote.RemoveVote)
		protected.GET("/votes/my-votes", s.handler.Vote.GetMyVotes)
		protected.GET("/votes/quote/:quoteId", s.handler.Vote.GetQuoteVotes)

		// Analytics routes
		protected.GET("/analytics/votes", s.handler.Analytics.GetVoteAnalytics)
		protected.GET("/analytics/quotes", s.handler.Analytics.GetQuoteAnalytics)

		// User routes
		protected.GET("/users/profile", s.handler.User.GetProfile)
		protected.GET("/users/stats", s.handler.User.GetStats)
	}

	return r
}
