package model

import (
	"time"

	"github.com/google/uuid"
)

// StockMovement records every stock change on a product. Created inside the
// checkout transaction (one row per decremented size) and on restock.
// Movements are never modified or deleted.
type StockMovement struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index"`
	// Size is nil for sizeless products
	Size *string
	// Quantity: positive = stock in, negative = stock out
	Quantity    int `gorm:"not null"`
	StockBefore int `gorm:"not null"`
	StockAfter  int `gorm:"not null"`
	// Kind: "sale" | "restock"
	Kind   string `gorm:"not null"`
	Reason string
	// ReferenceID links to the originating SalesNote when Kind == "sale"
	ReferenceID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt   time.Time
}

// TableName overrides GORM's default pluralization.
func (StockMovement) TableName() string { return "stock_movements" }
