package handlers

import (
	"github.com/gin-gonic/gin"

	"claimsdesk/internal/domain/claimtypes"
	"claimsdesk/internal/domain/documents"
	"claimsdesk/internal/domain/exports"
	"claimsdesk/internal/domain/insurers"
	"claimsdesk/internal/infrastructure/http/v1/dto"
)

// CatalogHandler handles the lookup catalogs: claim types, insurance
// companies, probatory documents and export document types.
type CatalogHandler struct {
	BaseHandler
	claimTypes *claimtypes.Service
	insurers   *insurers.Service
	documents  *documents.Service
	exports    *exports.Service
}

func NewCatalogHandler(
	claimTypeService *claimtypes.Service,
	insurerService *insurers.Service,
	documentService *documents.Service,
	exportService *exports.Service,
) *CatalogHandler {
	return &CatalogHandler{
		claimTypes: claimTypeService,
		insurers:   insurerService,
		documents:  documentService,
		exports:    exportService,
	}
}

// --- Claim types (read-only lookup) ---

func (h *CatalogHandler) ListClaimTypes(c *gin.Context) {
	all, err := h.claimTypes.GetAll(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, all)
}

// --- Export document types (read-only lookup) ---

func (h *CatalogHandler) ListExportTypes(c *gin.Context) {
	all, err := h.exports.GetTypes(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, all)
}

// --- Insurance companies ---

func (h *CatalogHandler) ListInsurers(c *gin.Context) {
	all, err := h.insurers.GetAll(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, all)
}

func (h *CatalogHandler) GetInsurer(c *gin.Context) {
	id, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	company, err := h.insurers.GetByID(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, company)
}

func (h *CatalogHandler) CreateInsurer(c *gin.Context) {
	var req dto.UpsertInsurerRequest
	if !h.BindJSON(c, &req) {
		return
	}

	company := insurers.InsuranceCompany{Name: req.Name, IsEnabled: req.IsEnabled}
	if err := h.insurers.Create(c.Request.Context(), &company); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, company.ID)
}

func (h *CatalogHandler) UpdateInsurer(c *gin.Context) {
	id, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpsertInsurerRequest
	if !h.BindJSON(c, &req) {
		return
	}

	company := insurers.InsuranceCompany{ID: id, Name: req.Name, IsEnabled: req.IsEnabled}
	if err := h.insurers.Update(c.Request.Context(), company); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "insurance company updated")
}

func (h *CatalogHandler) DeleteInsurer(c *gin.Context) {
	id, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.insurers.Delete(c.Request.Context(), id); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// --- Probatory documents ---

func (h *CatalogHandler) ListDocuments(c *gin.Context) {
	all, err := h.documents.GetAll(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, all)
}

func (h *CatalogHandler) GetDocument(c *gin.Context) {
	id, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	doc, err := h.documents.GetByID(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, doc)
}

func (h *CatalogHandler) CreateDocument(c *gin.Context) {
	var req dto.UpsertDocumentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc := documents.ProbatoryDocument{Name: req.Name, Orientation: documents.Orientation(req.Orientation)}
	if err := h.documents.Create(c.Request.Context(), &doc); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, doc.ID)
}

func (h *CatalogHandler) UpdateDocument(c *gin.Context) {
	id, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpsertDocumentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc := documents.ProbatoryDocument{ID: id, Name: req.Name, Orientation: documents.Orientation(req.Orientation)}
	if err := h.documents.Update(c.Request.Context(), doc); err != nil {
		h.Error(c, err)
		return
	}
	h.Success(c, "probatory document updated")
}

func (h *CatalogHandler) DeleteDocument(c *gin.Context) {
	id, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.documents.Delete(c.Request.Context(), id); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
