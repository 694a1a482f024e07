package repository

import (
	"context"
	"errors"

	"modapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CustomerRepository is the customer directory keyed by (createdBy, cedula).
type CustomerRepository interface {
	FindByCedula(ctx context.Context, scope, cedula string) (*model.Customer, error)
	List(ctx context.Context) ([]model.Customer, error)
	// UpsertTx creates the customer or overwrites name/phone/address of the
	// existing (scope, cedula) record. Runs inside the checkout transaction.
	UpsertTx(tx *gorm.DB, c *model.Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type customerRepo struct{ db *gorm.DB }

func NewCustomerRepository(db *gorm.DB) CustomerRepository { return &customerRepo{db: db} }

func (r *customerRepo) FindByCedula(ctx context.Context, scope, cedula string) (*model.Customer, error) {
	var c model.Customer
	err := r.db.WithContext(ctx).
		Where("created_by = ? AND cedula = ?", scope, cedula).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *customerRepo) List(ctx context.Context) ([]model.Customer, error) {
	var customers []model.Customer
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&customers).Error
	return customers, err
}

func (r *customerRepo) UpsertTx(tx *gorm.DB, c *model.Customer) error {
	var existing model.Customer
	err := tx.Where("created_by = ? AND cedula = ?", c.CreatedBy, c.Cedula).
		First(&existing).Error
	switch {
	case err == nil:
		existing.Name = c.Name
		existing.Phone = c.Phone
		existing.Address = c.Address
		if err := tx.Save(&existing).Error; err != nil {
			return err
		}
		c.ID = existing.ID
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return tx.Create(c).Error
	default:
		return err
	}
}

func (r *customerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Customer{}, "id = ?", id).Error
}
