package dto

import "github.com/shopspring/decimal"

// ─── Checkout request ────────────────────────────────────────────────────────

type SizeOrderDTO struct {
	Size     string `json:"size"     validate:"required"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
}

// CheckoutItem is one cart line as held by the client. Name and price are the
// snapshots captured when the product was added to the cart.
type CheckoutItem struct {
	ProductID string          `json:"productId" validate:"required,uuid"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
	Price     decimal.Decimal `json:"price"    validate:"required"`
	Size      *string         `json:"size"`
	Quantity  int             `json:"quantity" validate:"required,min=1"`
	// SizeOrders is the explicit per-size breakdown when the line was edited
	// after being added; when absent, Size+Quantity describe the line.
	SizeOrders []SizeOrderDTO `json:"sizeOrders" validate:"dive"`
}

type CheckoutRequest struct {
	SellerCode string `json:"sellerCode" validate:"required,len=5,numeric"`

	CustomerCedula  string `json:"customerCedula"`
	CustomerName    string `json:"customerName"`
	CustomerPhone   int64  `json:"customerPhone"`
	CustomerAddress string `json:"customerAddress"`
	// CustomerEmail is optional. When present, the receipt worker mails the PDF.
	CustomerEmail *string `json:"customerEmail" validate:"omitempty,email"`

	CartItems []CheckoutItem `json:"cartItems" validate:"dive"`

	PaidTotal     decimal.Decimal `json:"paidTotal"`
	PaymentMethod string          `json:"paymentMethod" validate:"required,oneof=cash transfer card"`
}

// ─── Sales note responses ────────────────────────────────────────────────────

type SaleItemResponse struct {
	ProductID  string          `json:"productId"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Quantity   int             `json:"quantity"`
	SizeOrders []SizeOrderDTO  `json:"sizeOrders"`
}

type SalesNoteResponse struct {
	ID              string             `json:"id"`
	SellerCode      string             `json:"sellerCode"`
	SellerName      string             `json:"sellerName"`
	CustomerCedula  string             `json:"customerCedula"`
	CustomerName    string             `json:"customerName"`
	CustomerPhone   int64              `json:"customerPhone"`
	CustomerAddress string             `json:"customerAddress"`
	CartItems       []SaleItemResponse `json:"cartItems"`
	SuggestedTotal  decimal.Decimal    `json:"suggestedTotal"`
	PaidTotal       decimal.Decimal    `json:"paidTotal"`
	DiscountAmount  decimal.Decimal    `json:"discountAmount"`
	PaymentMethod   string             `json:"paymentMethod"`
	CreatedAt       string             `json:"createdAt"`
}

// SalesNoteFilter is bound from the query string of GET /v1/sales-notes.
type SalesNoteFilter struct {
	// CreatedBy narrows the listing to one store scope; empty = all
	CreatedBy string `form:"createdBy"`
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type SalesNoteListResponse struct {
	Data  []SalesNoteResponse `json:"data"`
	Total int64               `json:"total"`
	Page  int                 `json:"page"`
	Limit int                 `json:"limit"`
}
