package service

import (
	"context"
	"fmt"
	"time"

	"modapos/internal/dto"
	"modapos/internal/model"
	"modapos/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductService manages the catalog. Stock writes outside a sale go through
// ReplaceStock so the aggregate count and the per-size counts never diverge.
type ProductService interface {
	Create(ctx context.Context, scope string, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// ReplaceStock swaps the product's counts wholesale and records the
	// adjustment as restock movements.
	ReplaceStock(ctx context.Context, id uuid.UUID, req dto.ReplaceStockRequest) (*dto.ProductResponse, error)
}

type productService struct {
	repo      repository.ProductRepository
	movements repository.StockMovementRepository
}

func NewProductService(repo repository.ProductRepository, movements repository.StockMovementRepository) ProductService {
	return &productService{repo: repo, movements: movements}
}

// DuplicateSizeError names a size listed twice in a stock request.
type DuplicateSizeError struct {
	Size string
}

func (e *DuplicateSizeError) Error() string {
	return fmt.Sprintf("duplicate size in request: %q", e.Size)
}

func (s *productService) Create(ctx context.Context, scope string, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	sizes, err := sizesFromDTO(req.SizeStocks)
	if err != nil {
		return nil, err
	}

	p := &model.Product{
		Name:       req.Name,
		Category:   req.Category,
		Price:      req.Price,
		Image:      req.Image,
		CreatedBy:  scope,
		SizeStocks: sizes,
	}
	// The aggregate is derived from the size list when one is given
	if len(sizes) > 0 {
		p.Stock = sumSizes(sizes)
	} else {
		p.Stock = req.Stock
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return productToResponse(p), nil
}

func (s *productService) Get(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrProductNotFound
	}
	return productToResponse(p), nil
}

func (s *productService) List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, *productToResponse(&products[i]))
	}
	return &dto.ProductListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrProductNotFound
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Category != nil {
		p.Category = *req.Category
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.Image != nil {
		p.Image = *req.Image
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return productToResponse(p), nil
}

func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return ErrProductNotFound
	}
	return s.repo.Delete(ctx, id)
}

func (s *productService) ReplaceStock(ctx context.Context, id uuid.UUID, req dto.ReplaceStockRequest) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrProductNotFound
	}

	sizes, err := sizesFromDTO(req.SizeStocks)
	if err != nil {
		return nil, err
	}

	newStock := 0
	if len(sizes) > 0 {
		newStock = sumSizes(sizes)
	} else if req.Stock != nil {
		newStock = *req.Stock
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.ReplaceStockTx(tx, id, newStock, sizes); err != nil {
			return fmt.Errorf("replace stock for %s: %w", p.Name, err)
		}
		// One movement per size, or one aggregate movement for sizeless stock
		if len(sizes) > 0 {
			prev := make(map[string]int, len(p.SizeStocks))
			for _, ss := range p.SizeStocks {
				prev[ss.Size] = ss.Stock
			}
			for _, ss := range sizes {
				size := ss.Size
				before := prev[size]
				if before == ss.Stock {
					continue
				}
				if err := s.movements.CreateTx(tx, &model.StockMovement{
					ProductID:   id,
					Size:        &size,
					Quantity:    ss.Stock - before,
					StockBefore: before,
					StockAfter:  ss.Stock,
					Kind:        "restock",
				}); err != nil {
					return err
				}
			}
			return nil
		}
		if p.Stock == newStock {
			return nil
		}
		return s.movements.CreateTx(tx, &model.StockMovement{
			ProductID:   id,
			Quantity:    newStock - p.Stock,
			StockBefore: p.Stock,
			StockAfter:  newStock,
			Kind:        "restock",
		})
	})
	if txErr != nil {
		return nil, txErr
	}

	return s.Get(ctx, id)
}

// sizesFromDTO validates uniqueness and maps the request list to model rows.
func sizesFromDTO(in []dto.SizeStockDTO) ([]model.SizeStock, error) {
	seen := make(map[string]bool, len(in))
	sizes := make([]model.SizeStock, 0, len(in))
	for i, ss := range in {
		if seen[ss.Size] {
			return nil, &DuplicateSizeError{Size: ss.Size}
		}
		seen[ss.Size] = true
		sizes = append(sizes, model.SizeStock{
			Size:     ss.Size,
			Stock:    ss.Stock,
			Position: i,
		})
	}
	return sizes, nil
}

func sumSizes(sizes []model.SizeStock) int {
	total := 0
	for _, ss := range sizes {
		total += ss.Stock
	}
	return total
}

func productToResponse(p *model.Product) *dto.ProductResponse {
	sizes := make([]dto.SizeStockDTO, 0, len(p.SizeStocks))
	for _, ss := range p.SizeStocks {
		sizes = append(sizes, dto.SizeStockDTO{Size: ss.Size, Stock: ss.Stock})
	}
	return &dto.ProductResponse{
		ID:         p.ID.String(),
		Name:       p.Name,
		Category:   p.Category,
		Price:      p.Price,
		Image:      p.Image,
		Stock:      p.Stock,
		SizeStocks: sizes,
		CreatedAt:  p.CreatedAt.Format(time.RFC3339),
	}
}
