package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	PropertyStatusAvailable  = "available"
	PropertyStatusUnderOffer = "under_offer"
	PropertyStatusSold       = "sold"
)

type Property struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Title         string    `json:"title" binding:"required"`
	Description   string    `json:"description" gorm:"type:varchar(2000)"`
	PropertyType  string    `json:"property_type" binding:"required"` // apartment|villa|plot|commercial
	Status        string    `json:"status" gorm:"default:available"`
	City          string    `json:"city" gorm:"index" binding:"required"`
	Locality      string    `json:"locality"`
	Address       string    `json:"address"`
	Price         float64   `json:"price"`
	Bedrooms      int       `json:"bedrooms"`
	Bathrooms     int       `json:"bathrooms"`
	AreaSqft      float64   `json:"area_sqft"`
	ReraNumber    string    `json:"rera_number"`
	IsVerified    bool      `json:"is_verified" gorm:"default:false"`
	FeedURLs      string    `json:"feed_urls"`
	ThumbnailURLs string    `json:"thumbnail_urls"`
	AgentName     string    `json:"agent_name"`
	AgentPhone    string    `json:"agent_phone"`
	CreatedBy     uint      `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type PropertyFilter struct {
	City         string  `form:"city"`
	PropertyType string  `form:"property_type"`
	Status       string  `form:"status"`
	MinPrice     float64 `form:"min_price"`
	MaxPrice     float64 `form:"max_price"`
	Page         int     `form:"page"`
}
