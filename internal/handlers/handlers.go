package handlers

import (
	"gorm.io/gorm"

	"github.com/emilythestrangee/quote-vault/backend/internal/config"
)

// Handler combines all handler types
type Handler struct {
	Auth      *AuthHandler
	Quote     *QuoteHandler
	Vote      *VoteHandler
	Analytics *AnalyticsHandler
	User      *UserHandler
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(db *gorm.DB, cfg *config.Config) *Handler {
	return &Handler{
		Auth:      NewAuthHandler(db, cfg),
		Quote:     NewQuoteHandler(db),
		Vote:      NewVoteHandler(db),
		Analytics: NewAnalyticsHandler(db),
		User:      NewUserHandler(db),
	}
}
