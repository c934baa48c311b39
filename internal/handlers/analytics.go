package handlers

import (
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/emilythestrangee/quote-vault/backend/internal/models"
)

type AnalyticsHandler struct {
	db *gorm.DB
}

func NewAnalyticsHandler(db *gorm.DB) *AnalyticsHandler {
	return &AnalyticsHandler{db: db}
}

const (
	dailyWindowDays   = 30
	monthlyWindowSize = 12
	topQuotesLimit    = 10
	topCreatorsLimit  = 10
	topCategoryLimit  = 10
	topTagsLimit      = 15
)

// GetVoteAnalytics returns the vote-side rollups: overview counters, top
// quotes, the up/down split, category stats and a 30-day daily series.
func (h *AnalyticsHandler) GetVoteAnalytics(c *gin.Context) {
	var totalQuotes, totalVotes, totalUsers int64
	if err := h.db.Model(&models.Quote{}).Where("is_active = ?", true).Count(&totalQuotes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute analytics"})
		return
	}
	h.db.Model(&models.Vote{}).Count(&totalVotes)
	h.db.Model(&models.User{}).Count(&totalUsers)

	averageVotesPerQuote := 0.0
	if totalQuotes > 0 {
		averageVotesPerQuote = float64(totalVotes) / float64(totalQuotes)
	}

	var topQuotes []models.Quote
	h.db.Preload("CreatedBy").
		Where("is_active = ?", true).
		Order("total_votes desc").
		Limit(topQuotesLimit).
		Find(&topQuotes)

	topVoted := []gin.H{}
	for _, q := range topQuotes {
		topVoted = append(topVoted, gin.H{
			"id":          q.ID,
			"content":     q.Content,
			"author":      q.Author,
			"category":    q.Category,
			"total_votes": q.TotalVotes,
			"created_by":  gin.H{"username": q.CreatedBy.Username},
		})
	}

	var upvotes, downvotes int64
	h.db.Model(&models.Vote{}).Where("value = ?", 1).Count(&upvotes)
	h.db.Model(&models.Vote{}).Where("value = ?", -1).Count(&downvotes)

	type categoryRow struct {
		Category   string
		QuoteCount int64
		TotalVotes int64
	}
	var categories []categoryRow
	h.db.Model(&models.Quote{}).
		Select("category, COUNT(*) as quote_count, COALESCE(SUM(total_votes), 0) as total_votes").
		Where("is_active = ? AND category <> ''", true).
		Group("category").
		Order("quote_count desc").
		Limit(topCategoryLimit).
		Scan(&categories)

	categoryStats := []gin.H{}
	for _, row := range categories {
		categoryStats = append(categoryStats, gin.H{
			"category":    row.Category,
			"quote_count": row.QuoteCount,
			"total_votes": row.TotalVotes,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"overview": gin.H{
			"total_quotes":            totalQuotes,
			"total_votes":             totalVotes,
			"total_users":             totalUsers,
			"average_votes_per_quote": averageVotesPerQuote,
		},
		"top_voted_quotes":  topVoted,
		"vote_distribution": []gin.H{{"type": "upvotes", "count": upvotes}, {"type": "downvotes", "count": downvotes}},
		"category_stats":    categoryStats,
		"daily_votes":       h.dailyVotes(),
	})
}

// dailyVotes buckets the trailing 30 days of votes by day, oldest first.
// Days with no votes are present with zero counts.
func (h *AnalyticsHandler) dailyVotes() []gin.H {
	now := time.Now().UTC()
	windowStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).
		AddDate(0, 0, -(dailyWindowDays - 1))

	var votes []models.Vote
	h.db.Select("value", "created_at").Where("created_at >= ?", windowStart).Find(&votes)

	type dayBucket struct {
		upvotes   int
		downvotes int
	}
	buckets := make(map[string]dayBucket)
	for _, v := range votes {
		key := v.CreatedAt.UTC().Format("2006-01-02")
		b := buckets[key]
		if v.Value == 1 {
			b.upvotes++
		} else {
			b.downvotes++
		}
		buckets[key] = b
	}

	result := make([]gin.H, 0, dailyWindowDays)
	for i := dailyWindowDays - 1; i >= 0; i-- {
		key := now.AddDate(0, 0, -i).Format("2006-01-02")
		b := buckets[key]
		result = append(result, gin.H{
			"date":      key,
			"upvotes":   b.upvotes,
			"downvotes": b.downvotes,
			"total":     b.upvotes + b.downvotes,
		})
	}
	return result
}

// GetQuoteAnalytics returns the quote-side rollups: unvoted count, most
// active creators, tag popularity and a 12-month creation series.
func (h *AnalyticsHandler) GetQuoteAnalytics(c *gin.Context) {
	var quotesWithoutVotes int64
	if err := h.db.Model(&models.Quote{}).Where("is_active = ? AND total_votes = 0", true).Count(&quotesWithoutVotes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute analytics"})
		return
	}

	// Creator ranking counts soft-deleted quotes too.
	type creatorRow struct {
		Username   string
		QuoteCount int64
	}
	var creators []creatorRow
	h.db.Model(&models.Quote{}).
		Select("users.username, COUNT(quotes.id) as quote_count").
		Joins("JOIN users ON users.id = quotes.created_by_id").
		Group("users.username").
		Order("quote_count desc").
		Limit(topCreatorsLimit).
		Scan(&creators)

	mostActive := []gin.H{}
	for _, row := range creators {
		mostActive = append(mostActive, gin.H{
			"username":    row.Username,
			"quote_count": row.QuoteCount,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"quotes_without_votes": quotesWithoutVotes,
		"most_active_users":    mostActive,
		"tag_popularity":       h.tagPopularity(),
		"monthly_quotes":       h.monthlyQuotes(),
	})
}

// tagPopularity counts tag usage across active quotes. Tags live in a
// serialized column, so the reduction happens here rather than in SQL.
func (h *AnalyticsHandler) tagPopularity() []gin.H {
	var quotes []models.Quote
	h.db.Select("tags", "total_votes").Where("is_active = ?", true).Find(&quotes)

	type tagStat struct {
		tag        string
		count      int
		totalVotes int
	}
	stats := make(map[string]*tagStat)
	for _, q := range quotes {
		for _, tag := range q.Tags {
			if stats[tag] == nil {
				stats[tag] = &tagStat{tag: tag}
			}
			stats[tag].count++
			stats[tag].totalVotes += q.TotalVotes
		}
	}

	ordered := make([]*tagStat, 0, len(stats))
	for _, s := range stats {
		ordered = append(ordered, s)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].count != ordered[j].count {
			return ordered[i].count > ordered[j].count
		}
		return ordered[i].tag < ordered[j].tag
	})
	if len(ordered) > topTagsLimit {
		ordered = ordered[:topTagsLimit]
	}

	result := []gin.H{}
	for _, s := range ordered {
		result = append(result, gin.H{
			"tag":         s.tag,
			"count":       s.count,
			"total_votes": s.totalVotes,
		})
	}
	return result
}

// monthlyQuotes buckets the trailing 12 months of quote creation, oldest
// first, with zero-filled months.
func (h *AnalyticsHandler) monthlyQuotes() []gin.H {
	now := time.Now().UTC()
	windowStart := time.Date(now.Year(), now.Month()-time.Month(monthlyWindowSize-1), 1, 0, 0, 0, 0, time.UTC)

	var quotes []models.Quote
	h.db.Select("created_at").Where("created_at >= ?", windowStart).Find(&quotes)

	buckets := make(map[string]int)
	for _, q := range quotes {
		buckets[q.CreatedAt.UTC().Format("2006-01")]++
	}

	result := make([]gin.H, 0, monthlyWindowSize)
	for i := monthlyWindowSize - 1; i >= 0; i-- {
		key := time.Date(now.Year(), now.Month()-time.Month(i), 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
		result = append(result, gin.H{
			"month": key,
			"count": buckets[key],
		})
	}
	return result
}
