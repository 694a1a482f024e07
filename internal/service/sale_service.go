package service

import (
	"context"
	"fmt"
	"time"

	"modapos/internal/cart"
	"modapos/internal/dto"
	"modapos/internal/model"
	"modapos/internal/repository"
	"modapos/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SaleService converts a validated cart into a persisted SalesNote plus the
// matching stock decrements. It is the one place in the system where financial
// records and physical counts must move together.
type SaleService interface {
	// Checkout runs the full sale: precondition checks, then one atomic
	// transaction covering customer upsert, note creation and every stock
	// decrement. On success the cart is cleared and the created note returned.
	Checkout(ctx context.Context, scope string, crt *cart.Cart, req dto.CheckoutRequest) (*dto.SalesNoteResponse, error)
	GetNote(ctx context.Context, id uuid.UUID) (*dto.SalesNoteResponse, error)
	ListNotes(ctx context.Context, filter dto.SalesNoteFilter) (*dto.SalesNoteListResponse, error)
}

type saleService struct {
	notes      repository.SalesNoteRepository
	products   repository.ProductRepository
	customers  repository.CustomerRepository
	users      repository.UserRepository
	stock      StockService
	dispatcher *worker.Dispatcher
}

func NewSaleService(
	notes repository.SalesNoteRepository,
	products repository.ProductRepository,
	customers repository.CustomerRepository,
	users repository.UserRepository,
	stock StockService,
	dispatcher *worker.Dispatcher,
) SaleService {
	return &saleService{
		notes:      notes,
		products:   products,
		customers:  customers,
		users:      users,
		stock:      stock,
		dispatcher: dispatcher,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

func (s *saleService) Checkout(ctx context.Context, scope string, crt *cart.Cart, req dto.CheckoutRequest) (*dto.SalesNoteResponse, error) {
	// 1. Seller code must resolve to a known staff member.
	seller, err := s.users.FindByCode(ctx, req.SellerCode)
	if err != nil {
		return nil, ErrUnknownSeller
	}

	// 2. Customer identity fields must all be present.
	switch {
	case req.CustomerCedula == "":
		return nil, &MissingCustomerFieldError{Field: "cedula"}
	case req.CustomerName == "":
		return nil, &MissingCustomerFieldError{Field: "name"}
	case req.CustomerPhone == 0:
		return nil, &MissingCustomerFieldError{Field: "phone"}
	case req.CustomerAddress == "":
		return nil, &MissingCustomerFieldError{Field: "address"}
	}

	// 3. Non-empty cart.
	if crt.Len() == 0 {
		return nil, ErrEmptyCart
	}

	// 4. Resolve products and require a size selection wherever the product
	//    tracks sizes.
	resolved := make(map[uuid.UUID]*model.Product)
	for _, line := range crt.Lines() {
		p, ok := resolved[line.ProductID]
		if !ok {
			p, err = s.products.FindByID(ctx, line.ProductID)
			if err != nil {
				return nil, ErrProductNotFound
			}
			resolved[line.ProductID] = p
		}
		if p.HasSizes() && len(line.SizeOrders) == 0 {
			return nil, &MissingSizeSelectionError{Product: p.Name}
		}
	}

	// 5. Paid total must be positive.
	if !req.PaidTotal.IsPositive() {
		return nil, ErrInvalidPaidTotal
	}

	// 6. Suggested total is recomputed here from the cart lines; the client
	//    never supplies it.
	suggested := crt.Subtotal()
	if req.PaidTotal.GreaterThan(suggested) {
		return nil, ErrPaidExceedsSuggested
	}

	// Group cart lines by product, consolidating size breakdowns.
	grouped := groupByProduct(crt, resolved)

	// 7. Pre-flight stock validation for every grouped product. The same
	//    checks run again inside the transaction under row locks; this pass
	//    exists to reject hopeless carts before any write begins.
	for _, g := range grouped {
		if err := s.stock.ValidateDecrement(ctx, g.product.ID, g.decrements()); err != nil {
			return nil, err
		}
	}

	discount := suggested.Sub(req.PaidTotal)
	sellerID := seller.ID

	note := &model.SalesNote{
		CreatedBy:       scope,
		SellerCode:      seller.Code,
		SellerName:      seller.Name,
		SellerUserID:    &sellerID,
		CustomerCedula:  req.CustomerCedula,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerAddress: req.CustomerAddress,
		SuggestedTotal:  suggested,
		PaidTotal:       req.PaidTotal,
		DiscountAmount:  discount,
		PaymentMethod:   req.PaymentMethod,
	}
	for _, g := range grouped {
		item := model.SaleItem{
			ProductID: g.product.ID,
			Name:      g.name,
			Image:     g.image,
			Price:     g.priceDec,
			Quantity:  g.quantity,
		}
		for _, so := range g.sizeOrders {
			item.SizeOrders = append(item.SizeOrders, model.SizeOrder{
				Size:     so.Size,
				Quantity: so.Quantity,
			})
		}
		note.Items = append(note.Items, item)
	}

	// Persist-and-decrement is one transaction: a recorded sale whose stock
	// was not decremented cannot exist.
	txErr := runTx(ctx, s.notes.DB(), func(tx *gorm.DB) error {
		customer := &model.Customer{
			Cedula:    req.CustomerCedula,
			Name:      req.CustomerName,
			Phone:     req.CustomerPhone,
			Address:   req.CustomerAddress,
			CreatedBy: scope,
		}
		if err := s.customers.UpsertTx(tx, customer); err != nil {
			return fmt.Errorf("upsert customer %s: %w", req.CustomerCedula, err)
		}

		if err := s.notes.Create(ctx, tx, note); err != nil {
			return fmt.Errorf("create sales note: %w", err)
		}

		noteID := note.ID
		for _, g := range grouped {
			if err := s.stock.ApplyDecrementTx(ctx, tx, g.product.ID, g.decrements(), &noteID); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	crt.Clear()

	// Receipt generation and email are best-effort and asynchronous. The
	// sale is already committed at this point.
	if s.dispatcher != nil {
		payload := worker.ReceiptJobPayload{NoteID: note.ID.String()}
		if req.CustomerEmail != nil {
			payload.CustomerEmail = *req.CustomerEmail
		}
		if err := s.dispatcher.EnqueueReceipt(ctx, payload); err != nil {
			log.Warn().Err(err).Str("note_id", note.ID.String()).Msg("failed to enqueue receipt job")
		}
	}

	return noteToResponse(note), nil
}

// productGroup carries one product's consolidated sale quantities. Lines for
// the same size across multiple cart entries are summed, so the stock ledger
// sees a single decrement request per product.
type productGroup struct {
	product    *model.Product
	name       string
	image      string
	priceDec   decimal.Decimal
	quantity   int
	sizeOrders []cart.SizeOrder
}

// decrements translates the group into ledger lines: sized products decrement
// per size, sizeless products decrement the aggregate with one implicit line.
func (g *productGroup) decrements() []DecrementLine {
	if len(g.sizeOrders) == 0 {
		return []DecrementLine{{Quantity: g.quantity}}
	}
	lines := make([]DecrementLine, 0, len(g.sizeOrders))
	for _, so := range g.sizeOrders {
		lines = append(lines, DecrementLine{Size: so.Size, Quantity: so.Quantity})
	}
	return lines
}

func groupByProduct(crt *cart.Cart, resolved map[uuid.UUID]*model.Product) []*productGroup {
	index := make(map[uuid.UUID]*productGroup)
	var groups []*productGroup

	for _, line := range crt.Lines() {
		g, ok := index[line.ProductID]
		if !ok {
			g = &productGroup{
				product:  resolved[line.ProductID],
				name:     line.Name,
				image:    line.Image,
				priceDec: line.Price,
			}
			index[line.ProductID] = g
			groups = append(groups, g)
		}
		g.quantity += line.Quantity
		for _, so := range line.SizeOrders {
			g.sizeOrders = mergeOrders(g.sizeOrders, so)
		}
	}
	return groups
}

func mergeOrders(orders []cart.SizeOrder, add cart.SizeOrder) []cart.SizeOrder {
	for i := range orders {
		if orders[i].Size == add.Size {
			orders[i].Quantity += add.Quantity
			return orders
		}
	}
	return append(orders, add)
}

func (s *saleService) GetNote(ctx context.Context, id uuid.UUID) (*dto.SalesNoteResponse, error) {
	note, err := s.notes.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("sales note not found: %w", err)
	}
	return noteToResponse(note), nil
}

func (s *saleService) ListNotes(ctx context.Context, filter dto.SalesNoteFilter) (*dto.SalesNoteListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	notes, total, err := s.notes.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SalesNoteResponse, 0, len(notes))
	for i := range notes {
		items = append(items, *noteToResponse(&notes[i]))
	}
	return &dto.SalesNoteListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func noteToResponse(n *model.SalesNote) *dto.SalesNoteResponse {
	items := make([]dto.SaleItemResponse, 0, len(n.Items))
	for _, item := range n.Items {
		orders := make([]dto.SizeOrderDTO, 0, len(item.SizeOrders))
		for _, so := range item.SizeOrders {
			orders = append(orders, dto.SizeOrderDTO{Size: so.Size, Quantity: so.Quantity})
		}
		items = append(items, dto.SaleItemResponse{
			ProductID:  item.ProductID.String(),
			Name:       item.Name,
			Price:      item.Price,
			Quantity:   item.Quantity,
			SizeOrders: orders,
		})
	}
	return &dto.SalesNoteResponse{
		ID:              n.ID.String(),
		SellerCode:      n.SellerCode,
		SellerName:      n.SellerName,
		CustomerCedula:  n.CustomerCedula,
		CustomerName:    n.CustomerName,
		CustomerPhone:   n.CustomerPhone,
		CustomerAddress: n.CustomerAddress,
		CartItems:       items,
		SuggestedTotal:  n.SuggestedTotal,
		PaidTotal:       n.PaidTotal,
		DiscountAmount:  n.DiscountAmount,
		PaymentMethod:   n.PaymentMethod,
		CreatedAt:       n.CreatedAt.Format(time.RFC3339),
	}
}
