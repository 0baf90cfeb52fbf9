package handlers

import (
	"github.com/gin-gonic/gin"

	"backoffice/internal/domain/documents/invoice"
	"backoffice/internal/domain/documents/order"
	"backoffice/internal/infrastructure/http/v1/dto"
	"backoffice/internal/infrastructure/metrics"
)

// OrderHandler handles order lifecycle requests.
type OrderHandler struct {
	*BaseHandler
	service  *order.Service
	invoices *invoice.Service
}

func NewOrderHandler(base *BaseHandler, service *order.Service, invoices *invoice.Service) *OrderHandler {
	return &OrderHandler{BaseHandler: base, service: service, invoices: invoices}
}

// Create places an order and reserves its stock.
// POST /orders
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}
	o, err := h.service.Create(c.Request.Context(), req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Issued(metrics.KindOrder)
	h.Created(c, o)
}

// GET /orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	orderID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	o, err := h.service.Get(c.Request.Context(), orderID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, o)
}

// GET /orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
	f, ok := h.ListFilter(c)
	if !ok {
		return
	}
	res, err := h.service.List(c.Request.Context(), f)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, res)
}

// POST /orders/:id/status
func (h *OrderHandler) Transition(c *gin.Context) {
	orderID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req dto.TransitionRequest
	if !h.BindJSON(c, &req) {
		return
	}
	o, err := h.service.Transition(c.Request.Context(), orderID, req.Status)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, o)
}

// POST /orders/:id/dispatch
func (h *OrderHandler) Dispatch(c *gin.Context) {
	orderID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req dto.DispatchRequest
	if !h.BindJSON(c, &req) {
		return
	}
	o, err := h.service.Dispatch(c.Request.Context(), orderID, req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, o)
}

// POST /orders/:id/deliver
func (h *OrderHandler) Deliver(c *gin.Context) {
	orderID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req dto.DeliverRequest
	if !h.BindOptionalJSON(c, &req) {
		return
	}
	o, err := h.service.Deliver(c.Request.Context(), orderID, order.DeliveryInput{
		RecipientName:     req.RecipientName,
		RecipientDocument: req.RecipientDocument,
	})
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, o)
}

// PickItem records the picked quantity of one line.
// POST /order-items/:id/pick
func (h *OrderHandler) PickItem(c *gin.Context) {
	itemID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req dto.PickRequest
	if !h.BindJSON(c, &req) {
		return
	}
	item, err := h.service.PickItem(c.Request.Context(), itemID, req.PickedQuantity)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, item)
}

// Invoice issues the invoice of an order.
// POST /orders/:id/invoice
func (h *OrderHandler) Invoice(c *gin.Context) {
	orderID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req dto.InvoiceOrderRequest
	if !h.BindOptionalJSON(c, &req) {
		return
	}
	inv, err := h.invoices.CreateFromOrder(c.Request.Context(), orderID, req.ToOptions())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Issued(metrics.KindInvoice)
	h.Created(c, dto.FromInvoice(inv))
}
