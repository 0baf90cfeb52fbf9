package handlers

import (
	"github.com/gin-gonic/gin"

	"backoffice/internal/domain"
	"backoffice/internal/domain/documents/invoice"
	"backoffice/internal/infrastructure/http/v1/dto"
	"backoffice/internal/infrastructure/metrics"
)

// InvoiceHandler handles invoice requests.
type InvoiceHandler struct {
	*BaseHandler
	service *invoice.Service
}

func NewInvoiceHandler(base *BaseHandler, service *invoice.Service) *InvoiceHandler {
	return &InvoiceHandler{BaseHandler: base, service: service}
}

// Create issues a manual invoice.
// POST /invoices
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req dto.CreateInvoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}
	inv, err := h.service.CreateManual(c.Request.Context(), req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Issued(metrics.KindInvoice)
	h.Created(c, dto.FromInvoice(inv))
}

// GET /invoices/:id
func (h *InvoiceHandler) Get(c *gin.Context) {
	invoiceID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	inv, err := h.service.Get(c.Request.Context(), invoiceID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromInvoice(inv))
}

// GET /invoices
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	f, ok := h.ListFilter(c)
	if !ok {
		return
	}
	res, err := h.service.List(c.Request.Context(), f)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, domain.MapList(res, dto.FromInvoice))
}

// POST /invoices/:id/authorize
func (h *InvoiceHandler) Authorize(c *gin.Context) {
	invoiceID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	inv, err := h.service.Authorize(c.Request.Context(), invoiceID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromInvoice(inv))
}
