package service_test

import (
	"context"
	"errors"

	"modapos/internal/dto"
	"modapos/internal/model"
	"modapos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

// stubProductRepo is an in-memory ProductRepository. Reads hand out deep
// copies so a failed operation cannot leak mutations into the stored state;
// SaveStockTx copies the counts back, mirroring a real commit.
type stubProductRepo struct {
	products map[uuid.UUID]*model.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*model.Product)}
}

func copyProduct(p *model.Product) *model.Product {
	cp := *p
	cp.SizeStocks = make([]model.SizeStock, len(p.SizeStocks))
	copy(cp.SizeStocks, p.SizeStocks)
	return &cp
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	for i := range p.SizeStocks {
		if p.SizeStocks[i].ID == uuid.Nil {
			p.SizeStocks[i].ID = uuid.New()
		}
		p.SizeStocks[i].ProductID = p.ID
	}
	r.products[p.ID] = copyProduct(p)
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return copyProduct(p), nil
}

func (r *stubProductRepo) List(_ context.Context, filter dto.ProductFilter) ([]model.Product, int64, error) {
	var out []model.Product
	for _, p := range r.products {
		out = append(out, *copyProduct(p))
	}
	return out, int64(len(out)), nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	if _, ok := r.products[p.ID]; !ok {
		return errors.New("not found")
	}
	r.products[p.ID] = copyProduct(p)
	return nil
}

func (r *stubProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.products, id)
	return nil
}

func (r *stubProductRepo) FindForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return copyProduct(p), nil
}

func (r *stubProductRepo) SaveStockTx(_ *gorm.DB, p *model.Product) error {
	stored, ok := r.products[p.ID]
	if !ok {
		return errors.New("not found")
	}
	stored.Stock = p.Stock
	for _, ss := range p.SizeStocks {
		for i := range stored.SizeStocks {
			if stored.SizeStocks[i].ID == ss.ID {
				stored.SizeStocks[i].Stock = ss.Stock
			}
		}
	}
	return nil
}

func (r *stubProductRepo) ReplaceStockTx(_ *gorm.DB, id uuid.UUID, stock int, sizes []model.SizeStock) error {
	stored, ok := r.products[id]
	if !ok {
		return errors.New("not found")
	}
	for i := range sizes {
		if sizes[i].ID == uuid.Nil {
			sizes[i].ID = uuid.New()
		}
		sizes[i].ProductID = id
		sizes[i].Position = i
	}
	stored.SizeStocks = sizes
	stored.Stock = stock
	return nil
}

func (r *stubProductRepo) DB() *gorm.DB { return nil }

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// stubSalesNoteRepo stores created notes in memory.
type stubSalesNoteRepo struct {
	notes map[uuid.UUID]*model.SalesNote
	// failCreate simulates a write error inside the checkout transaction
	failCreate bool
}

func newStubSalesNoteRepo() *stubSalesNoteRepo {
	return &stubSalesNoteRepo{notes: make(map[uuid.UUID]*model.SalesNote)}
}

func (r *stubSalesNoteRepo) Create(_ context.Context, _ *gorm.DB, n *model.SalesNote) error {
	if r.failCreate {
		return errors.New("insert failed")
	}
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	r.notes[n.ID] = n
	return nil
}

func (r *stubSalesNoteRepo) FindByID(_ context.Context, id uuid.UUID) (*model.SalesNote, error) {
	n, ok := r.notes[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return n, nil
}

func (r *stubSalesNoteRepo) List(_ context.Context, filter dto.SalesNoteFilter) ([]model.SalesNote, int64, error) {
	var out []model.SalesNote
	for _, n := range r.notes {
		if filter.CreatedBy != "" && n.CreatedBy != filter.CreatedBy {
			continue
		}
		out = append(out, *n)
	}
	return out, int64(len(out)), nil
}

func (r *stubSalesNoteRepo) DB() *gorm.DB { return nil }

var _ repository.SalesNoteRepository = (*stubSalesNoteRepo)(nil)

// stubCustomerRepo keys customers by (scope, cedula) like the real table.
type stubCustomerRepo struct {
	customers map[string]*model.Customer
}

func newStubCustomerRepo() *stubCustomerRepo {
	return &stubCustomerRepo{customers: make(map[string]*model.Customer)}
}

func customerKey(scope, cedula string) string { return scope + "/" + cedula }

func (r *stubCustomerRepo) FindByCedula(_ context.Context, scope, cedula string) (*model.Customer, error) {
	c, ok := r.customers[customerKey(scope, cedula)]
	if !ok {
		return nil, errors.New("not found")
	}
	return c, nil
}

func (r *stubCustomerRepo) List(_ context.Context) ([]model.Customer, error) {
	var out []model.Customer
	for _, c := range r.customers {
		out = append(out, *c)
	}
	return out, nil
}

func (r *stubCustomerRepo) UpsertTx(_ *gorm.DB, c *model.Customer) error {
	key := customerKey(c.CreatedBy, c.Cedula)
	if existing, ok := r.customers[key]; ok {
		existing.Name = c.Name
		existing.Phone = c.Phone
		existing.Address = c.Address
		c.ID = existing.ID
		return nil
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.customers[key] = c
	return nil
}

func (r *stubCustomerRepo) Delete(_ context.Context, id uuid.UUID) error {
	for k, c := range r.customers {
		if c.ID == id {
			delete(r.customers, k)
		}
	}
	return nil
}

var _ repository.CustomerRepository = (*stubCustomerRepo)(nil)

// stubUserRepo indexes staff by email and seller code.
type stubUserRepo struct {
	byEmail map[string]*model.User
	byCode  map[string]*model.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		byEmail: make(map[string]*model.User),
		byCode:  make(map[string]*model.User),
	}
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.byEmail[u.Email] = u
	r.byCode[u.Code] = u
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	for _, u := range r.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, errors.New("not found")
	}
	return u, nil
}

func (r *stubUserRepo) FindByCode(_ context.Context, code string) (*model.User, error) {
	u, ok := r.byCode[code]
	if !ok {
		return nil, errors.New("not found")
	}
	return u, nil
}

func (r *stubUserRepo) CodeExists(_ context.Context, code string) (bool, error) {
	_, ok := r.byCode[code]
	return ok, nil
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

// stubMovementRepo captures appended movements for assertions.
type stubMovementRepo struct {
	movements []model.StockMovement
}

func (r *stubMovementRepo) CreateTx(_ *gorm.DB, m *model.StockMovement) error {
	r.movements = append(r.movements, *m)
	return nil
}

func (r *stubMovementRepo) ListByProduct(_ context.Context, productID uuid.UUID) ([]model.StockMovement, error) {
	var out []model.StockMovement
	for _, m := range r.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, nil
}

var _ repository.StockMovementRepository = (*stubMovementRepo)(nil)

// ── Seed helpers ─────────────────────────────────────────────────────────────

// seedSizedProduct creates a product with per-size counts. The aggregate is
// the sum of the sizes.
func seedSizedProduct(repo *stubProductRepo, name string, price float64, sizes map[string]int, order []string) *model.Product {
	p := &model.Product{
		ID:        uuid.New(),
		Name:      name,
		Category:  "apparel",
		Price:     decimal.NewFromFloat(price),
		CreatedBy: "store-1",
	}
	total := 0
	for i, size := range order {
		stock := sizes[size]
		p.SizeStocks = append(p.SizeStocks, model.SizeStock{
			ID:        uuid.New(),
			ProductID: p.ID,
			Size:      size,
			Stock:     stock,
			Position:  i,
		})
		total += stock
	}
	p.Stock = total
	repo.products[p.ID] = p
	return copyProduct(p)
}

// seedPlainProduct creates a sizeless product with a flat aggregate count.
func seedPlainProduct(repo *stubProductRepo, name string, price float64, stock int) *model.Product {
	p := &model.Product{
		ID:        uuid.New(),
		Name:      name,
		Category:  "accessories",
		Price:     decimal.NewFromFloat(price),
		Stock:     stock,
		CreatedBy: "store-1",
	}
	repo.products[p.ID] = p
	return copyProduct(p)
}
