package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetProfile(t *testing.T) {
	r, _ := setupRouter(t)
	alice := registerUser(t, r, "alice")
	bob := registerUser(t, r, "bob")

	quoteID := createQuote(t, r, alice, gin.H{"content": "alice's quote"})
	castVote(t, r, bob, quoteID, 1)

	w := doRequest(t, r, http.MethodGet, "/users/profile", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "alice", body["username"])
	assert.Equal(t, float64(1), body["quotes_created"])
	assert.Equal(t, float64(0), body["votes_given"])

	w = doRequest(t, r, http.MethodGet, "/users/profile", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	assert.Equal(t, float64(0), body["quotes_created"])
	assert.Equal(t, float64(1), body["votes_given"])
}

func TestGetStats(t *testing.T) {
	r, _ := setupRouter(t)
	alice := registerUser(t, r, "alice")
	bob := registerUser(t, r, "bob")
	carol := registerUser(t, r, "carol")

	first := createQuote(t, r, alice, gin.H{"content": "popular quote"})
	second := createQuote(t, r, alice, gin.H{"content": "quiet quote"})
	castVote(t, r, bob, first, 1)
	castVote(t, r, carol, first, 1)
	castVote(t, r, alice, second, 1)

	w := doRequest(t, r, http.MethodGet, "/users/stats", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)

	stats := body["stats"].(map[string]any)
	assert.Equal(t, float64(2), stats["quotes_created"])
	assert.Equal(t, float64(1), stats["votes_given"])
	assert.Equal(t, float64(3), stats["total_votes_received"])
	assert.Equal(t, float64(1.5), stats["average_votes_per_quote"])

	// Quotes ordered by received votes
	quotes := body["quotes"].([]any)
	require.Len(t, quotes, 2)
	assert.Equal(t, float64(first), quotes[0].(map[string]any)["id"])

	votes := body["votes"].([]any)
	require.Len(t, votes, 1)
	assert.Equal(t, "quiet quote", votes[0].(map[string]any)["quote"].(map[string]any)["content"])
}
