package handlers

import (
	"github.com/gin-gonic/gin"

	"backoffice/internal/domain/registers/inventory"
	"backoffice/internal/infrastructure/http/v1/dto"
)

type InventoryHandler struct {
	*BaseHandler
	ledger *inventory.Service
}

func NewInventoryHandler(base *BaseHandler, ledger *inventory.Service) *InventoryHandler {
	return &InventoryHandler{BaseHandler: base, ledger: ledger}
}

// Availability returns per-location stock and the total.
// GET /inventory/:productId
func (h *InventoryHandler) Availability(c *gin.Context) {
	productID, ok := h.ParamID(c, "productId")
	if !ok {
		return
	}
	av, err := h.ledger.Availability(c.Request.Context(), productID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, av)
}

// Restock adds stock outside any document and records a manual movement.
// POST /inventory/:productId/restock
func (h *InventoryHandler) Restock(c *gin.Context) {
	productID, ok := h.ParamID(c, "productId")
	if !ok {
		return
	}
	var req dto.RestockRequest
	if !h.BindJSON(c, &req) {
		return
	}
	rec, err := h.ledger.Restock(c.Request.Context(), req.ToInput(productID))
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, rec)
}
