package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/emilythestrangee/quote-vault/backend/internal/middleware"
	"github.com/emilythestrangee/quote-vault/backend/internal/models"
)

type QuoteHandler struct {
	db *gorm.DB
}

func NewQuoteHandler(db *gorm.DB) *QuoteHandler {
	return &QuoteHandler{db: db}
}

// sortColumns maps API sort keys to database columns.
var sortColumns = map[string]string{
	"createdAt":  "created_at",
	"totalVotes": "total_votes",
	"content":    "content",
}

func quoteResponse(quote *models.Quote, currentUserVote int) gin.H {
	tags := quote.Tags
	if tags == nil {
		tags = []string{}
	}
	return gin.H{
		"id":       quote.ID,
		"content":  quote.Content,
		"author":   quote.Author,
		"category": quote.Category,
		"tags":     tags,
		"created_by": gin.H{
			"id":       quote.CreatedBy.ID,
			"username": quote.CreatedBy.Username,
		},
		"total_votes":       quote.TotalVotes,
		"is_active":         quote.IsActive,
		"current_user_vote": currentUserVote,
		"created_at":        quote.CreatedAt,
		"updated_at":        quote.UpdatedAt,
	}
}

// currentUserVotes returns the requester's vote value per quote id, 0 when
// the user has not voted.
func (h *QuoteHandler) currentUserVotes(userID int, quoteIDs []int) map[int]int {
	votes := make(map[int]int, len(quoteIDs))
	if len(quoteIDs) == 0 {
		return votes
	}

	var rows []models.Vote
	h.db.Where("user_id = ? AND quote_id IN ?", userID, quoteIDs).Find(&rows)
	for _, v := range rows {
		votes[v.QuoteID] = v.Value
	}
	return votes
}

// CreateQuote creates a new quote owned by the requester
func (h *QuoteHandler) CreateQuote(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input models.CreateQuoteRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	quote := models.Quote{
		Content:     input.Content,
		Author:      input.Author,
		Category:    input.Category,
		Tags:        input.Tags,
		CreatedByID: userID,
		TotalVotes:  0,
		IsActive:    true,
	}

	if err := h.db.Create(&quote).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create quote"})
		return
	}

	if err := h.db.Preload("CreatedBy").First(&quote, quote.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch quote"})
		return
	}

	c.JSON(http.StatusCreated, quoteResponse(&quote, 0))
}

// GetQuotes returns a page of active quotes with search, sorting and the
// requester's own vote on each row
func (h *QuoteHandler) GetQuotes(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var query models.QuoteQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	base := h.db.Model(&models.Quote{}).Where("is_active = ?", true)
	if query.Search != "" {
		pattern := "%" + query.Search + "%"
		base = base.Where("LOWER(content) LIKE LOWER(?) OR LOWER(author) LIKE LOWER(?)", pattern, pattern)
	}
	// Reused for both the count and the page query.
	base = base.Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch quotes"})
		return
	}

	column, known := sortColumns[query.SortBy]
	if !known {
		column = "created_at"
	}
	direction := "desc"
	if query.SortOrder == "asc" {
		direction = "asc"
	}

	var quotes []models.Quote
	offset := (query.Page - 1) * query.Limit
	err := base.
		Preload("CreatedBy").
		Order(column + " " + direction).
		Limit(query.Limit).
		Offset(offset).
		Find(&quotes).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch quotes"})
		return
	}

	quoteIDs := make([]int, len(quotes))
	for i, q := range quotes {
		quoteIDs[i] = q.ID
	}
	userVotes := h.currentUserVotes(userID, quoteIDs)

	responses := []gin.H{}
	for i := range quotes {
		responses = append(responses, quoteResponse(&quotes[i], userVotes[quotes[i].ID]))
	}

	pages := int(total) / query.Limit
	if int(total)%query.Limit != 0 {
		pages++
	}

	c.JSON(http.StatusOK, gin.H{
		"quotes": responses,
		"pagination": gin.H{
			"page":  query.Page,
			"limit": query.Limit,
			"total": total,
			"pages": pages,
		},
	})
}

// GetQuote returns a single active quote with the requester's vote and the
// list of voters
func (h *QuoteHandler) GetQuote(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	quoteID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quote id"})
		return
	}

	var quote models.Quote
	if err := h.db.Preload("CreatedBy").Where("is_active = ?", true).First(&quote, quoteID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Quote not found"})
		return
	}

	var votes []models.Vote
	h.db.Preload("User").Where("quote_id = ?", quote.ID).Find(&votes)

	currentUserVote := 0
	voters := []gin.H{}
	for _, v := range votes {
		if v.UserID == userID {
			currentUserVote = v.Value
		}
		voters = append(voters, gin.H{
			"user_id":  v.UserID,
			"username": v.User.Username,
			"value":    v.Value,
		})
	}

	response := quoteResponse(&quote, currentUserVote)
	response["votes"] = voters

	c.JSON(http.StatusOK, response)
}

// UpdateQuote updates a quote. Content is immutable once any vote exists,
// and only the creator or an admin may edit.
func (h *QuoteHandler) UpdateQuote(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	quoteID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quote id"})
		return
	}

	var input models.UpdateQuoteRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var quote models.Quote
	if err := h.db.First(&quote, quoteID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Quote not found"})
		return
	}

	if quote.TotalVotes != 0 {
		c.JSON(http.StatusForbidden, gin.H{"error": "Cannot edit quote with existing votes"})
		return
	}

	if quote.CreatedByID != userID && middleware.Role(c) != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only edit your own quotes"})
		return
	}

	if input.Content != nil {
		quote.Content = *input.Content
	}
	if input.Author != nil {
		quote.Author = *input.Author
	}
	if input.Category != nil {
		quote.Category = *input.Category
	}
	if input.Tags != nil {
		quote.Tags = input.Tags
	}
	if input.IsActive != nil {
		quote.IsActive = *input.IsActive
	}

	if err := h.db.Save(&quote).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update quote"})
		return
	}

	if err := h.db.Preload("CreatedBy").First(&quote, quote.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch quote"})
		return
	}

	c.JSON(http.StatusOK, quoteResponse(&quote, 0))
}

// DeleteQuote removes a quote: admins hard-delete the row and its votes,
// creators soft-delete so historical aggregates stay correct.
func (h *QuoteHandler) DeleteQuote(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	quoteID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quote id"})
		return
	}

	var quote models.Quote
	if err := h.db.First(&quote, quoteID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Quote not found"})
		return
	}

	if middleware.Role(c) == models.RoleAdmin {
		err := h.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("quote_id = ?", quote.ID).Delete(&models.Vote{}).Error; err != nil {
				return err
			}
			return tx.Delete(&quote).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete quote"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Quote deleted permanently"})
		return
	}

	if quote.CreatedByID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own quotes"})
		return
	}

	if err := h.db.Model(&quote).Update("is_active", false).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete quote"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Quote deleted successfully"})
}
