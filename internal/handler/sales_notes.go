package handler

import (
	"errors"
	"net/http"

	"modapos/internal/apierror"
	"modapos/internal/cart"
	"modapos/internal/dto"
	"modapos/internal/middleware"
	"modapos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SalesNotesHandler struct{ svc service.SaleService }

func NewSalesNotesHandler(svc service.SaleService) *SalesNotesHandler {
	return &SalesNotesHandler{svc: svc}
}

// Checkout godoc
// @Summary      Finalize a sale
// @Description  Creates the immutable sales note and decrements stock in one atomic transaction.
// @Tags         sales-notes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CheckoutRequest true "Checkout data"
// @Success      201  {object} dto.SalesNoteResponse
// @Failure      400  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /v1/checkout [post]
func (h *SalesNotesHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)

	crt, err := cartFromItems(req.CartItems)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}

	resp, err := h.svc.Checkout(c.Request.Context(), claims.UserID, crt, req)
	if err != nil {
		c.JSON(checkoutStatus(err), apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// cartFromItems rebuilds the server-side cart from the client's line list.
// Lines for the same (product, size) merge; explicit sizeOrders expand into
// one line per size.
func cartFromItems(items []dto.CheckoutItem) (*cart.Cart, error) {
	crt := cart.New()
	for _, item := range items {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, errors.New("invalid product id: " + item.ProductID)
		}
		if len(item.SizeOrders) > 0 {
			for _, so := range item.SizeOrders {
				crt.AddLine(productID, item.Name, item.Image, item.Price, so.Size, so.Quantity)
			}
			continue
		}
		size := cart.NoSize
		if item.Size != nil {
			size = *item.Size
		}
		crt.AddLine(productID, item.Name, item.Image, item.Price, size, item.Quantity)
	}
	return crt, nil
}

// checkoutStatus maps checkout failures to HTTP codes: stock conflicts are
// 409 so the client knows to re-fetch availability; everything else the
// client can fix is 400.
func checkoutStatus(err error) int {
	var insufficient *service.InsufficientStockError
	if errors.As(err, &insufficient) {
		return http.StatusConflict
	}
	switch {
	case errors.Is(err, service.ErrUnknownSeller),
		errors.Is(err, service.ErrProductNotFound):
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}

// Get godoc
// @Summary      Fetch one sales note
// @Tags         sales-notes
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Note UUID"
// @Success      200 {object} dto.SalesNoteResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/sales-notes/{id} [get]
func (h *SalesNotesHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return
	}
	resp, err := h.svc.GetNote(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("sales note not found"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List godoc
// @Summary      List sales notes
// @Tags         sales-notes
// @Produce      json
// @Security     BearerAuth
// @Param        createdBy query string false "Scope filter"
// @Param        page      query int    false "Page (default 1)"
// @Param        limit     query int    false "Page size (default 50)"
// @Success      200       {object} dto.SalesNoteListResponse
// @Router       /v1/sales-notes [get]
func (h *SalesNotesHandler) List(c *gin.Context) {
	var filter dto.SalesNoteFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListNotes(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list sales notes"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
