package models

import "time"

// Vote is one user's vote on one quote. The composite unique index is the
// source of truth for the one-vote-per-user-per-quote rule; votes cascade
// away when their quote is hard-deleted.
type Vote struct {
	ID      int   `gorm:"primaryKey" json:"id"`
	UserID  int   `gorm:"uniqueIndex:idx_votes_user_quote;not null" json:"user_id"`
	QuoteID int   `gorm:"uniqueIndex:idx_votes_user_quote;not null" json:"quote_id"`
	Value   int   `gorm:"not null;check:value IN (-1,1)" json:"value"`
	User    User  `gorm:"foreignKey:UserID" json:"-"`
	Quote   Quote `gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CastVoteRequest struct {
	Value int `json:"value" binding:"required,oneof=-1 1"`
}
