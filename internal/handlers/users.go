package handlers

import (
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/emilythestrangee/quote-vault/backend/internal/middleware"
	"github.com/emilythestrangee/quote-vault/backend/internal/models"
)

type UserHandler struct {
	db *gorm.DB
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{db: db}
}

// GetProfile returns the requester's profile with activity counts
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var quoteCount, voteCount int64
	h.db.Model(&models.Quote{}).Where("created_by_id = ?", userID).Count(&quoteCount)
	h.db.Model(&models.Vote{}).Where("user_id = ?", userID).Count(&voteCount)

	c.JSON(http.StatusOK, gin.H{
		"id":             user.ID,
		"username":       user.Username,
		"email":          user.Email,
		"role":           user.Role,
		"created_at":     user.CreatedAt,
		"updated_at":     user.UpdatedAt,
		"quotes_created": quoteCount,
		"votes_given":    voteCount,
	})
}

// GetStats returns the requester's profile plus their quotes, votes and
// derived totals
func (h *UserHandler) GetStats(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var quotes []models.Quote
	h.db.Where("created_by_id = ?", userID).Order("total_votes desc").Find(&quotes)

	var votes []models.Vote
	h.db.Preload("Quote").Where("user_id = ?", userID).Order("created_at desc").Find(&votes)

	totalVotesReceived := 0
	quoteList := []gin.H{}
	for _, q := range quotes {
		totalVotesReceived += q.TotalVotes
		quoteList = append(quoteList, gin.H{
			"id":          q.ID,
			"content":     q.Content,
			"total_votes": q.TotalVotes,
			"created_at":  q.CreatedAt,
		})
	}

	voteList := []gin.H{}
	for _, v := range votes {
		voteList = append(voteList, gin.H{
			"quote_id":   v.QuoteID,
			"value":      v.Value,
			"created_at": v.CreatedAt,
			"quote": gin.H{
				"id":          v.Quote.ID,
				"content":     v.Quote.Content,
				"author":      v.Quote.Author,
				"total_votes": v.Quote.TotalVotes,
			},
		})
	}

	averageVotesPerQuote := 0.0
	if len(quotes) > 0 {
		averageVotesPerQuote = math.Round(float64(totalVotesReceived)/float64(len(quotes))*100) / 100
	}

	c.JSON(http.StatusOK, gin.H{
		"id":         user.ID,
		"username":   user.Username,
		"email":      user.Email,
		"role":       user.Role,
		"created_at": user.CreatedAt,
		"quotes":     quoteList,
		"votes":      voteList,
		"stats": gin.H{
			"quotes_created":          len(quotes),
			"votes_given":             len(votes),
			"total_votes_received":    totalVotesReceived,
			"average_votes_per_quote": averageVotesPerQuote,
		},
	})
}
