package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog entry. Stock is the aggregate available quantity;
// when SizeStocks is non-empty it must always equal the sum of the per-size
// counts — every write path that touches a size recomputes it.
type Product struct {
	ID       uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name     string          `gorm:"index;not null"`
	Category string          `gorm:"not null"`
	Price    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Image    string
	Stock    int `gorm:"not null;default:0"`
	// CreatedBy scopes the product to the owning store/user
	CreatedBy string `gorm:"index;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	SizeStocks []SizeStock `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

// HasSizes reports whether stock is tracked per size for this product.
// Sizeless products decrement the aggregate Stock directly.
func (p *Product) HasSizes() bool { return len(p.SizeStocks) > 0 }

// SizeStock holds the available count for one size of a product.
// Sizes are unique per product; Position preserves the catalog ordering.
type SizeStock struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_product_size"`
	Size      string    `gorm:"not null;uniqueIndex:idx_product_size"`
	Stock     int       `gorm:"not null;default:0"`
	Position  int       `gorm:"not null;default:0"`
}
