package handler

import (
	"net/http"

	"modapos/internal/apierror"
	"modapos/internal/dto"
	"modapos/internal/middleware"
	"modapos/internal/service"

	"github.com/gin-gonic/gin"
)

type CustomersHandler struct{ svc service.CustomerService }

func NewCustomersHandler(svc service.CustomerService) *CustomersHandler {
	return &CustomersHandler{svc: svc}
}

// List returns the full customer directory for the store.
func (h *CustomersHandler) List(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("failed to list customers"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetByCedula looks a customer up within the caller's scope, used by the POS
// to prefill the checkout form.
func (h *CustomersHandler) GetByCedula(c *gin.Context) {
	claims := middleware.GetClaims(c)
	cedula := c.Param("cedula")
	if cedula == "" {
		c.JSON(http.StatusBadRequest, apierror.New("cedula is required"))
		return
	}
	resp, err := h.svc.GetByCedula(c.Request.Context(), claims.UserID, cedula)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("customer not found"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete removes a customer from the caller's directory.
func (h *CustomersHandler) Delete(c *gin.Context) {
	claims := middleware.GetClaims(c)
	cedula := c.Param("cedula")
	if cedula == "" {
		c.JSON(http.StatusBadRequest, apierror.New("cedula is required"))
		return
	}
	if err := h.svc.Delete(c.Request.Context(), claims.UserID, cedula); err != nil {
		c.JSON(http.StatusNotFound, apierror.New("customer not found"))
		return
	}
	c.Status(http.StatusNoContent)
}

// Upsert creates or refreshes a directory record outside of checkout.
func (h *CustomersHandler) Upsert(c *gin.Context) {
	var req dto.UpsertCustomerRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	resp, err := h.svc.Upsert(c.Request.Context(), claims.UserID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}
