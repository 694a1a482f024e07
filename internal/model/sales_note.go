package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SalesNote is the immutable record of a completed sale. Seller and customer
// data are copied at creation time so later edits to users or customers never
// retroactively alter historical notes. Notes are NEVER updated or deleted.
type SalesNote struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	// CreatedBy scopes the note to the owning store/user
	CreatedBy string `gorm:"index;not null"`

	SellerCode   string `gorm:"type:varchar(5);not null"`
	SellerName   string
	SellerUserID *uuid.UUID `gorm:"type:uuid"`

	CustomerCedula  string `gorm:"not null"`
	CustomerName    string `gorm:"not null"`
	CustomerPhone   int64  `gorm:"not null"`
	CustomerAddress string `gorm:"not null"`

	SuggestedTotal decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaidTotal      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// DiscountAmount = SuggestedTotal - PaidTotal, always >= 0
	DiscountAmount decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// PaymentMethod: "cash" | "transfer" | "card"
	PaymentMethod string `gorm:"type:varchar(20);not null"`

	CreatedAt time.Time `gorm:"index"`

	Items []SaleItem `gorm:"foreignKey:NoteID;constraint:OnDelete:CASCADE"`
}

// SaleItem is one grouped product line of a note: multiple cart lines for the
// same product collapse into one item with a consolidated size breakdown.
type SaleItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NoteID    uuid.UUID `gorm:"type:uuid;index;not null"`
	ProductID uuid.UUID `gorm:"type:uuid;not null"`
	Name      string    `gorm:"not null"`
	Image     string
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Quantity  int             `gorm:"not null"`

	SizeOrders []SizeOrder `gorm:"foreignKey:SaleItemID;constraint:OnDelete:CASCADE"`
}

// SizeOrder is the per-size quantity breakdown of a sale item.
// sum(SizeOrders.Quantity) == SaleItem.Quantity whenever present.
type SizeOrder struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleItemID uuid.UUID `gorm:"type:uuid;index;not null"`
	Size       string    `gorm:"not null"`
	Quantity   int       `gorm:"not null"`
}
