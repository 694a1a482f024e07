package repository

import (
	"context"

	"modapos/internal/dto"
	"modapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SalesNoteRepository is the append-only store of completed sales.
// There is deliberately no Update or Delete: notes are immutable ledger
// entries once created.
type SalesNoteRepository interface {
	Create(ctx context.Context, tx *gorm.DB, n *model.SalesNote) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.SalesNote, error)
	List(ctx context.Context, filter dto.SalesNoteFilter) ([]model.SalesNote, int64, error)
	DB() *gorm.DB // exposes the DB for transaction creation in the service layer
}

type salesNoteRepo struct{ db *gorm.DB }

func NewSalesNoteRepository(db *gorm.DB) SalesNoteRepository { return &salesNoteRepo{db: db} }

func (r *salesNoteRepo) DB() *gorm.DB { return r.db }

func (r *salesNoteRepo) Create(ctx context.Context, tx *gorm.DB, n *model.SalesNote) error {
	return tx.WithContext(ctx).Create(n).Error
}

func (r *salesNoteRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.SalesNote, error) {
	var n model.SalesNote
	err := r.db.WithContext(ctx).
		Preload("Items.SizeOrders").
		First(&n, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *salesNoteRepo) List(ctx context.Context, filter dto.SalesNoteFilter) ([]model.SalesNote, int64, error) {
	var notes []model.SalesNote
	var total int64

	q := r.db.WithContext(ctx).Model(&model.SalesNote{})
	if filter.CreatedBy != "" {
		q = q.Where("created_by = ?", filter.CreatedBy)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Preload("Items.SizeOrders").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&notes).Error
	return notes, total, err
}
