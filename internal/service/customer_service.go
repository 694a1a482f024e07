package service

import (
	"context"
	"errors"
	"time"

	"modapos/internal/dto"
	"modapos/internal/model"
	"modapos/internal/repository"

	"gorm.io/gorm"
)

var ErrCustomerNotFound = errors.New("customer not found")

// CustomerService is the read/write surface of the customer directory.
// Checkout writes customers through its own transaction; this service covers
// the standalone directory endpoints.
type CustomerService interface {
	GetByCedula(ctx context.Context, scope, cedula string) (*dto.CustomerResponse, error)
	List(ctx context.Context) (*dto.CustomerListResponse, error)
	Upsert(ctx context.Context, scope string, req dto.UpsertCustomerRequest) (*dto.CustomerResponse, error)
	Delete(ctx context.Context, scope, cedula string) error
}

type customerService struct {
	repo repository.CustomerRepository
	db   *gorm.DB
}

func NewCustomerService(repo repository.CustomerRepository, db *gorm.DB) CustomerService {
	return &customerService{repo: repo, db: db}
}

func (s *customerService) GetByCedula(ctx context.Context, scope, cedula string) (*dto.CustomerResponse, error) {
	c, err := s.repo.FindByCedula(ctx, scope, cedula)
	if err != nil {
		return nil, ErrCustomerNotFound
	}
	return customerToResponse(c), nil
}

func (s *customerService) List(ctx context.Context) (*dto.CustomerListResponse, error) {
	customers, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CustomerResponse, 0, len(customers))
	for i := range customers {
		items = append(items, *customerToResponse(&customers[i]))
	}
	return &dto.CustomerListResponse{Data: items}, nil
}

func (s *customerService) Upsert(ctx context.Context, scope string, req dto.UpsertCustomerRequest) (*dto.CustomerResponse, error) {
	c := &model.Customer{
		Cedula:    req.Cedula,
		Name:      req.Name,
		Phone:     req.Phone,
		Address:   req.Address,
		CreatedBy: scope,
	}
	err := runTx(ctx, s.db, func(tx *gorm.DB) error {
		return s.repo.UpsertTx(tx, c)
	})
	if err != nil {
		return nil, err
	}
	return customerToResponse(c), nil
}

func (s *customerService) Delete(ctx context.Context, scope, cedula string) error {
	c, err := s.repo.FindByCedula(ctx, scope, cedula)
	if err != nil {
		return ErrCustomerNotFound
	}
	return s.repo.Delete(ctx, c.ID)
}

func customerToResponse(c *model.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:        c.ID.String(),
		Cedula:    c.Cedula,
		Name:      c.Name,
		Phone:     c.Phone,
		Address:   c.Address,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}
}
