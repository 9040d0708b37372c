package handlers

import (
	"github.com/gin-gonic/gin"

	"claimsdesk/internal/domain/exports"
	"claimsdesk/internal/infrastructure/http/v1/dto"
)

// ExportsHandler handles export layouts per insurer + claim type.
type ExportsHandler struct {
	BaseHandler
	exports *exports.Service
}

func NewExportsHandler(service *exports.Service) *ExportsHandler {
	return &ExportsHandler{exports: service}
}

func (h *ExportsHandler) scope(c *gin.Context) (exports.Scope, bool) {
	insurerID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return exports.Scope{}, false
	}
	claimTypeID, ok := h.ParseIDParam(c, "claimTypeID")
	if !ok {
		return exports.Scope{}, false
	}
	return exports.Scope{InsurerID: insurerID, ClaimTypeID: claimTypeID}, true
}

// List returns the export layout of one scope, enriched with type and
// reference names, ordered by sort priority.
func (h *ExportsHandler) List(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}

	views, err := h.exports.GetByScope(c.Request.Context(), scope)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, views)
}

// Reconcile replaces the export layout of one scope with the submitted
// list. Row order defines sort priority.
func (h *ExportsHandler) Reconcile(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}
	var req dto.ReconcileExportDocumentsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.exports.Reconcile(c.Request.Context(), scope, req.ToDomain()); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "export layout reconciled")
}
