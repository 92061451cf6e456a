package domain

import "time"

// Product is a catalog item. Products are locally authoritative and mirrored
// to the remote document store when one is configured.
type Product struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"index" json:"name"`
	Price       float64   `json:"price"` // price in main currency units (PLN)
	Description string    `gorm:"size:1024" json:"description"`
	Category    string    `gorm:"size:64" json:"category"`
	Icon        string    `gorm:"size:16" json:"icon"`    // short glyph shown on the card
	Image       string    `gorm:"size:2048" json:"image"` // URL or data URI
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
