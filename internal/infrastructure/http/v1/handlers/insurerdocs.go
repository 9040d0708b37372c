package handlers

import (
	"github.com/gin-gonic/gin"

	"claimsdesk/internal/domain/insurerdocs"
	"claimsdesk/internal/infrastructure/http/v1/dto"
)

// InsurerDocsHandler handles the per-insurer probatory document lists.
type InsurerDocsHandler struct {
	BaseHandler
	docs *insurerdocs.Service
}

func NewInsurerDocsHandler(service *insurerdocs.Service) *InsurerDocsHandler {
	return &InsurerDocsHandler{docs: service}
}

func (h *InsurerDocsHandler) scope(c *gin.Context) (insurerdocs.Scope, bool) {
	insurerID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return insurerdocs.Scope{}, false
	}
	claimTypeID, ok := h.ParseIDParam(c, "claimTypeID")
	if !ok {
		return insurerdocs.Scope{}, false
	}
	return insurerdocs.Scope{InsurerID: insurerID, ClaimTypeID: claimTypeID}, true
}

// List returns the ordered document list of one insurer + claim type,
// enriched with catalog metadata.
func (h *InsurerDocsHandler) List(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}

	views, err := h.docs.GetByScope(c.Request.Context(), scope)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, views)
}

// Reconcile replaces the list wholesale. An empty document array clears
// the scope.
func (h *InsurerDocsHandler) Reconcile(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}
	var req dto.ReconcileInsurerDocumentsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.docs.Reconcile(c.Request.Context(), scope, req.ToDomain()); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "documents reconciled")
}
