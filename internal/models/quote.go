package models

import "time"

type Quote struct {
	ID          int      `gorm:"primaryKey" json:"id"`
	Content     string   `gorm:"size:500;not null" json:"content"`
	Author      string   `json:"author,omitempty"`
	Category    string   `json:"category,omitempty"`
	Tags        []string `gorm:"serializer:json" json:"tags"`
	CreatedByID int      `json:"created_by_id"`
	CreatedBy   User     `gorm:"foreignKey:CreatedByID" json:"created_by"`

	// Denormalized running total of vote values, adjusted in the same
	// transaction as every vote insert/delete.
	TotalVotes int  `gorm:"default:0" json:"total_votes"`
	IsActive   bool `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateQuoteRequest struct {
	Content  string   `json:"content" binding:"required,max=500"`
	Author   string   `json:"author" binding:"max=100"`
	Category string   `json:"category" binding:"max=50"`
	Tags     []string `json:"tags"`
}

type UpdateQuoteRequest struct {
	Content  *string  `json:"content" binding:"omitempty,max=500"`
	Author   *string  `json:"author" binding:"omitempty,max=100"`
	Category *string  `json:"category" binding:"omitempty,max=50"`
	Tags     []string `json:"tags"`
	IsActive *bool    `json:"is_active"`
}

type QuoteQuery struct {
	Page      int    `form:"page,default=1" binding:"min=1"`
	Limit     int    `form:"limit,default=10" binding:"min=1,max=100"`
	Search    string `form:"search"`
	SortBy    string `form:"sortBy,default=createdAt" binding:"omitempty,oneof=createdAt totalVotes content"`
	SortOrder string `form:"sortOrder,default=desc" binding:"omitempty,oneof=asc desc"`
}
