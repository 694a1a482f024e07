package repository

import (
	"context"

	"modapos/internal/dto"
	"modapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductRepository defines the data access contract for the catalog and its
// stock counts. Services depend on this interface, not on the concrete GORM
// implementation, enabling unit testing via in-memory stubs.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, int64, error)
	Update(ctx context.Context, p *model.Product) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Used inside transactions — callers must pass the tx instance.
	// FindForUpdateTx takes row locks on the product and its size rows so
	// concurrent checkouts against the same product serialize.
	FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Product, error)
	// SaveStockTx persists the aggregate and per-size counts of p.
	SaveStockTx(tx *gorm.DB, p *model.Product) error
	// ReplaceStockTx swaps the full per-size list (restock).
	ReplaceStockTx(tx *gorm.DB, id uuid.UUID, stock int, sizes []model.SizeStock) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) DB() *gorm.DB { return r.db }

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Preload("SizeStocks", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Product{})
	if filter.Search != "" {
		q = q.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("SizeStocks", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Order("created_at DESC").
		Limit(filter.Limit).Offset(offset).
		Find(&products).Error
	return products, total, err
}

func (r *productRepo) Update(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&model.SizeStock{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Product{}, "id = ?", id).Error
	})
}

func (r *productRepo) FindForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("product_id = ?", id).Order("position ASC").
		Find(&p.SizeStocks).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) SaveStockTx(tx *gorm.DB, p *model.Product) error {
	if err := tx.Model(&model.Product{}).Where("id = ?", p.ID).
		Update("stock", p.Stock).Error; err != nil {
		return err
	}
	for i := range p.SizeStocks {
		s := &p.SizeStocks[i]
		if err := tx.Model(&model.SizeStock{}).Where("id = ?", s.ID).
			Update("stock", s.Stock).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *productRepo) ReplaceStockTx(tx *gorm.DB, id uuid.UUID, stock int, sizes []model.SizeStock) error {
	if err := tx.Where("product_id = ?", id).Delete(&model.SizeStock{}).Error; err != nil {
		return err
	}
	for i := range sizes {
		sizes[i].ProductID = id
		sizes[i].Position = i
		if err := tx.Create(&sizes[i]).Error; err != nil {
			return err
		}
	}
	return tx.Model(&model.Product{}).Where("id = ?", id).Update("stock", stock).Error
}
