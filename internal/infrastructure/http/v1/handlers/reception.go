package handlers

import (
	"github.com/gin-gonic/gin"

	"backoffice/internal/domain/documents/reception"
	"backoffice/internal/infrastructure/http/v1/dto"
	"backoffice/internal/infrastructure/metrics"
)

// ReceptionHandler handles supplier reception requests.
type ReceptionHandler struct {
	*BaseHandler
	service *reception.Service
}

func NewReceptionHandler(base *BaseHandler, service *reception.Service) *ReceptionHandler {
	return &ReceptionHandler{BaseHandler: base, service: service}
}

// POST /receptions
func (h *ReceptionHandler) Create(c *gin.Context) {
	var req dto.CreateReceptionRequest
	if !h.BindJSON(c, &req) {
		return
	}
	r, err := h.service.Create(c.Request.Context(), req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, r)
}

// GET /receptions/:id
func (h *ReceptionHandler) Get(c *gin.Context) {
	receptionID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	r, err := h.service.Get(c.Request.Context(), receptionID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, r)
}

// POST /receptions/:id/approve
func (h *ReceptionHandler) Approve(c *gin.Context) {
	receptionID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	r, err := h.service.Approve(c.Request.Context(), receptionID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Issued(metrics.KindReception)
	h.OK(c, r)
}
