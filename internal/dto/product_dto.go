package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type SizeStockDTO struct {
	Size  string `json:"size"  validate:"required"`
	Stock int    `json:"stock" validate:"min=0"`
}

type CreateProductRequest struct {
	Name     string          `json:"name"     validate:"required,min=2,max=120"`
	Category string          `json:"category" validate:"required"`
	Price    decimal.Decimal `json:"price"    validate:"required"`
	Image    string          `json:"image"`
	// Stock is ignored when sizeStocks is non-empty; the aggregate is derived
	Stock      int            `json:"stock"      validate:"min=0"`
	SizeStocks []SizeStockDTO `json:"sizeStocks" validate:"dive"`
}

type UpdateProductRequest struct {
	Name     *string          `json:"name"     validate:"omitempty,min=2,max=120"`
	Category *string          `json:"category"`
	Price    *decimal.Decimal `json:"price"`
	Image    *string          `json:"image"`
}

// ReplaceStockRequest restocks a product: the per-size list (or the flat
// stock for sizeless products) replaces the current counts wholesale.
type ReplaceStockRequest struct {
	Stock      *int           `json:"stock"      validate:"omitempty,min=0"`
	SizeStocks []SizeStockDTO `json:"sizeStocks" validate:"dive"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductFilter struct {
	Search   string `form:"search"`
	Category string `form:"category"`
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Category   string          `json:"category"`
	Price      decimal.Decimal `json:"price"`
	Image      string          `json:"image"`
	Stock      int             `json:"stock"`
	SizeStocks []SizeStockDTO  `json:"sizeStocks"`
	CreatedAt  string          `json:"createdAt"`
}

type ProductListResponse struct {
	Data  []ProductResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// StockMovementResponse is one row of a product's movement ledger.
type StockMovementResponse struct {
	ID          string  `json:"id"`
	Size        *string `json:"size"`
	Quantity    int     `json:"quantity"`
	StockBefore int     `json:"stockBefore"`
	StockAfter  int     `json:"stockAfter"`
	Kind        string  `json:"kind"`
	ReferenceID *string `json:"referenceId"`
	CreatedAt   string  `json:"createdAt"`
}

// AvailabilityResponse is the stock ledger read for one product.
type AvailabilityResponse struct {
	ProductID  string         `json:"productId"`
	HasSizes   bool           `json:"hasSizes"`
	SizeStocks []SizeStockDTO `json:"sizeStocks"`
	TotalStock int            `json:"totalStock"`
}
