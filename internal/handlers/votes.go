package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/emilythestrangee/quote-vault/backend/internal/middleware"
	"github.com/emilythestrangee/quote-vault/backend/internal/models"
)

type VoteHandler struct {
	db *gorm.DB
}

func NewVoteHandler(db *gorm.DB) *VoteHandler {
	return &VoteHandler{db: db}
}

// CastVote records a vote on a quote. The insert and the counter increment
// share one transaction; the unique index on (user_id, quote_id) aborts the
// whole transaction for the loser of a concurrent double-cast, so the
// counter never drifts.
func (h *VoteHandler) CastVote(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	quoteID, err := strconv.Atoi(c.Param("quoteId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quote id"})
		return
	}

	var input models.CastVoteRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Vote value must be -1 or 1"})
		return
	}

	var quote models.Quote
	if err := h.db.Where("is_active = ?", true).First(&quote, quoteID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Quote not found"})
		return
	}

	// Advisory pre-check for a friendly 409; the unique index is the real
	// guard under races.
	var existing models.Vote
	if err := h.db.Where("user_id = ? AND quote_id = ?", userID, quoteID).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "You have already voted for this quote"})
		return
	}

	txErr := h.db.Transaction(func(tx *gorm.DB) error {
		vote := models.Vote{
			UserID:  userID,
			QuoteID: quoteID,
			Value:   input.Value,
		}
		if err := tx.Create(&vote).Error; err != nil {
			return err
		}
		return tx.Model(&models.Quote{}).
			Where("id = ?", quoteID).
			UpdateColumn("total_votes", gorm.Expr("total_votes + ?", input.Value)).Error
	})
	if txErr != nil {
		if errors.Is(txErr, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "You have already voted for this quote"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record vote"})
		return
	}

	if err := h.db.Preload("CreatedBy").First(&quote, quoteID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch quote"})
		return
	}

	c.JSON(http.StatusOK, quoteResponse(&quote, input.Value))
}

// removeVote deletes the user's vote on a quote and rolls the counter back
// by the vote's value, in one transaction. The lookup and the delete both
// run inside the transaction, and the delete must match a row; a removal
// that lost a race with a concurrent one aborts instead of decrementing
// the counter a second time.
func (h *VoteHandler) removeVote(userID, quoteID int) error {
	return h.db.Transaction(func(tx *gorm.DB) error {
		var vote models.Vote
		if err := tx.Where("user_id = ? AND quote_id = ?", userID, quoteID).First(&vote).Error; err != nil {
			return err
		}

		res := tx.Where("user_id = ? AND quote_id = ?", userID, quoteID).Delete(&models.Vote{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return tx.Model(&models.Quote{}).
			Where("id = ?", quoteID).
			UpdateColumn("total_votes", gorm.Expr("total_votes - ?", vote.Value)).Error
	})
}

// RemoveVote un-votes: deletes the row and rolls the quote's counter back
// by the vote's prior value, atomically.
func (h *VoteHandler) RemoveVote(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	quoteID, err := strconv.Atoi(c.Param("quoteId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quote id"})
		return
	}

	if err := h.removeVote(userID, quoteID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Vote not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove vote"})
		return
	}

	var quote models.Quote
	if err := h.db.Preload("CreatedBy").First(&quote, quoteID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch quote"})
		return
	}

	c.JSON(http.StatusOK, quoteResponse(&quote, 0))
}

// GetMyVotes returns the requester's votes, newest first, with their quotes
func (h *VoteHandler) GetMyVotes(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var votes []models.Vote
	if err := h.db.Preload("Quote").Where("user_id = ?", userID).Order("created_at desc").Find(&votes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch votes"})
		return
	}

	responses := []gin.H{}
	for _, v := range votes {
		responses = append(responses, gin.H{
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

	c.JSON(http.StatusOK, responses)
}

// GetQuoteVotes returns all votes for a quote plus a summary
func (h *VoteHandler) GetQuoteVotes(c *gin.Context) {
	quoteID, err := strconv.Atoi(c.Param("quoteId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quote id"})
		return
	}

	var votes []models.Vote
	if err := h.db.Preload("User").Where("quote_id = ?", quoteID).Order("created_at desc").Find(&votes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch votes"})
		return
	}

	upvotes, downvotes, score := 0, 0, 0
	responses := []gin.H{}
	for _, v := range votes {
		if v.Value == 1 {
			upvotes++
		} else {
			downvotes++
		}
		score += v.Value
		responses = append(responses, gin.H{
			"user_id":    v.UserID,
			"username":   v.User.Username,
			"value":      v.Value,
			"created_at": v.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"votes": responses,
		"summary": gin.H{
			"total":     len(votes),
			"upvotes":   upvotes,
			"downvotes": downvotes,
			"score":     score,
		},
	})
}
