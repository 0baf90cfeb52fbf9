package handlers

import (
	"github.com/gin-gonic/gin"

	"backoffice/internal/domain/documents/client_return"
	"backoffice/internal/infrastructure/http/v1/dto"
	"backoffice/internal/infrastructure/metrics"
)

// ReturnHandler handles client return requests.
type ReturnHandler struct {
	*BaseHandler
	service *client_return.Service
}

func NewReturnHandler(base *BaseHandler, service *client_return.Service) *ReturnHandler {
	return &ReturnHandler{BaseHandler: base, service: service}
}

// POST /returns
func (h *ReturnHandler) Create(c *gin.Context) {
	var req dto.CreateReturnRequest
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

// GET /returns/:id
func (h *ReturnHandler) Get(c *gin.Context) {
	returnID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	r, err := h.service.Get(c.Request.Context(), returnID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, r)
}

// GET /returns
func (h *ReturnHandler) ListReturns(c *gin.Context) {
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

// Approve restocks the return and issues its credit note.
// POST /returns/:id/approve
func (h *ReturnHandler) Approve(c *gin.Context) {
	returnID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	res, err := h.service.Approve(c.Request.Context(), returnID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Issued(metrics.KindCreditNote)
	h.OK(c, res)
}

// POST /returns/:id/reject
func (h *ReturnHandler) Reject(c *gin.Context) {
	returnID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	var req dto.RejectReturnRequest
	if !h.BindOptionalJSON(c, &req) {
		return
	}
	r, err := h.service.Reject(c.Request.Context(), returnID, req.Reason)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, r)
}

// GET /credit-notes/:id
func (h *ReturnHandler) CreditNote(c *gin.Context) {
	creditNoteID, ok := h.ParamID(c, "id")
	if !ok {
		return
	}
	cn, err := h.service.CreditNote(c.Request.Context(), creditNoteID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, cn)
}
