package service

import (
	"context"
	"fmt"

	"modapos/internal/model"
	"modapos/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DecrementLine is one requested decrement: a size (empty for sizeless
// products) and a positive quantity.
type DecrementLine struct {
	Size     string
	Quantity int
}

// Availability is the ledger read for one product.
type Availability struct {
	HasSizes   bool
	SizeStocks []model.SizeStock
	TotalStock int
}

// StockService is the single source of truth for available quantity per
// product and per size. No operation through it can drive a count below zero.
type StockService interface {
	GetAvailability(ctx context.Context, productID uuid.UUID) (*Availability, error)
	// ValidateDecrement checks every requested line against current stock
	// without mutating anything. Calling it twice without an intervening
	// ApplyDecrementTx yields the same result.
	ValidateDecrement(ctx context.Context, productID uuid.UUID, lines []DecrementLine) error
	// ApplyDecrementTx re-validates under row locks and commits the decrement
	// for one product, all lines or none. Must run inside the caller's
	// transaction so a later failure in the same sale rolls everything back.
	ApplyDecrementTx(ctx context.Context, tx *gorm.DB, productID uuid.UUID, lines []DecrementLine, noteID *uuid.UUID) error
	// ListMovements returns the product's movement ledger, newest first.
	ListMovements(ctx context.Context, productID uuid.UUID) ([]model.StockMovement, error)
}

type stockService struct {
	products  repository.ProductRepository
	movements repository.StockMovementRepository
}

func NewStockService(products repository.ProductRepository, movements repository.StockMovementRepository) StockService {
	return &stockService{products: products, movements: movements}
}

func (s *stockService) GetAvailability(ctx context.Context, productID uuid.UUID) (*Availability, error) {
	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, ErrProductNotFound
	}
	return &Availability{
		HasSizes:   p.HasSizes(),
		SizeStocks: p.SizeStocks,
		TotalStock: p.Stock,
	}, nil
}

func (s *stockService) ValidateDecrement(ctx context.Context, productID uuid.UUID, lines []DecrementLine) error {
	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return ErrProductNotFound
	}
	return validateAgainst(p, lines)
}

// validateAgainst checks requested lines against the product's current counts.
// Sizeless products are checked as a single implicit line against the
// aggregate; sized products check each size independently.
func validateAgainst(p *model.Product, lines []DecrementLine) error {
	if !p.HasSizes() {
		requested := 0
		for _, l := range lines {
			if l.Size != "" {
				return &InvalidSizeError{Product: p.Name, Size: l.Size}
			}
			requested += l.Quantity
		}
		if requested > p.Stock {
			return &InsufficientStockError{Product: p.Name, Available: p.Stock, Requested: requested}
		}
		return nil
	}

	bySize := make(map[string]int, len(p.SizeStocks))
	for _, s := range p.SizeStocks {
		bySize[s.Size] = s.Stock
	}
	for _, l := range lines {
		available, ok := bySize[l.Size]
		if !ok {
			return &InvalidSizeError{Product: p.Name, Size: l.Size}
		}
		if l.Quantity > available {
			return &InsufficientStockError{
				Product:   p.Name,
				Size:      l.Size,
				Available: available,
				Requested: l.Quantity,
			}
		}
	}
	return nil
}

func (s *stockService) ListMovements(ctx context.Context, productID uuid.UUID) ([]model.StockMovement, error) {
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return nil, ErrProductNotFound
	}
	return s.movements.ListByProduct(ctx, productID)
}

func (s *stockService) ApplyDecrementTx(ctx context.Context, tx *gorm.DB, productID uuid.UUID, lines []DecrementLine, noteID *uuid.UUID) error {
	p, err := s.products.FindForUpdateTx(tx, productID)
	if err != nil {
		return ErrProductNotFound
	}

	// Data may have changed since the pre-flight read, so validate again
	// under the row locks before touching anything.
	if err := validateAgainst(p, lines); err != nil {
		return err
	}

	if !p.HasSizes() {
		requested := 0
		for _, l := range lines {
			requested += l.Quantity
		}
		before := p.Stock
		p.Stock = max(0, p.Stock-requested)
		if err := s.products.SaveStockTx(tx, p); err != nil {
			return fmt.Errorf("save stock for %s: %w", p.Name, err)
		}
		return s.movements.CreateTx(tx, &model.StockMovement{
			ProductID:   p.ID,
			Quantity:    -requested,
			StockBefore: before,
			StockAfter:  p.Stock,
			Kind:        "sale",
			ReferenceID: noteID,
		})
	}

	for _, l := range lines {
		for i := range p.SizeStocks {
			ss := &p.SizeStocks[i]
			if ss.Size != l.Size {
				continue
			}
			before := ss.Stock
			// Counts never go below zero.
			ss.Stock = max(0, ss.Stock-l.Quantity)

			size := l.Size
			if err := s.movements.CreateTx(tx, &model.StockMovement{
				ProductID:   p.ID,
				Size:        &size,
				Quantity:    -l.Quantity,
				StockBefore: before,
				StockAfter:  ss.Stock,
				Kind:        "sale",
				ReferenceID: noteID,
			}); err != nil {
				return err
			}
			break
		}
	}

	// The aggregate must reconcile with the per-size counts after every write.
	total := 0
	for _, ss := range p.SizeStocks {
		total += ss.Stock
	}
	p.Stock = total

	if err := s.products.SaveStockTx(tx, p); err != nil {
		return fmt.Errorf("save stock for %s: %w", p.Name, err)
	}
	return nil
}
