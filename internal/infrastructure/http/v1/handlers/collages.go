package handlers

import (
	"github.com/gin-gonic/gin"

	"claimsdesk/internal/domain/collages"
	"claimsdesk/internal/infrastructure/http/v1/dto"
)

// CollagesHandler handles collage CRUD and document lists.
type CollagesHandler struct {
	BaseHandler
	collages *collages.Service
}

func NewCollagesHandler(service *collages.Service) *CollagesHandler {
	return &CollagesHandler{collages: service}
}

func (h *CollagesHandler) List(c *gin.Context) {
	all, err := h.collages.GetAll(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, all)
}

// ListByScope returns the collage views of one insurer + claim type.
func (h *CollagesHandler) ListByScope(c *gin.Context) {
	insurerID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}
	claimTypeID, ok := h.ParseIDParam(c, "claimTypeID")
	if !ok {
		return
	}

	views, err := h.collages.GetByScope(c.Request.Context(), insurerID, claimTypeID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, views)
}

// Get returns one collage with claim-type name and ordered documents.
func (h *CollagesHandler) Get(c *gin.Context) {
	id, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	view, err := h.collages.GetView(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, view)
}

func (h *CollagesHandler) Create(c *gin.Context) {
	var req dto.UpsertCollageRequest
	if !h.BindJSON(c, &req) {
		return
	}

	collage := collages.Collage{
		InsurerID:   req.InsurerID,
		ClaimTypeID: req.ClaimTypeID,
		Name:        req.Name,
		Columns:     req.Columns,
	}
	if err := h.collages.Create(c.Request.Context(), &collage, req.ToDocuments()); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, collage.ID)
}

func (h *CollagesHandler) Update(c *gin.Context) {
	id, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpsertCollageRequest
	if !h.BindJSON(c, &req) {
		return
	}

	collage := collages.Collage{
		ID:          id,
		InsurerID:   req.InsurerID,
		ClaimTypeID: req.ClaimTypeID,
		Name:        req.Name,
		Columns:     req.Columns,
	}
	if err := h.collages.Update(c.Request.Context(), collage, req.ToDocuments()); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "collage updated")
}

func (h *CollagesHandler) Delete(c *gin.Context) {
	id, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.collages.Delete(c.Request.Context(), id); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
