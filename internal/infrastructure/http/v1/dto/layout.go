package dto

import (
	"claimsdesk/internal/domain/collages"
	"claimsdesk/internal/domain/exports"
	"claimsdesk/internal/domain/insurerdocs"
)

// --- Insurer document lists ---

// InsurerDocumentItem is one entry of an insurer document upsert. Array
// position becomes the persisted sort order; any client-supplied
// priority is ignored.
type InsurerDocumentItem struct {
	ProbatoryDocumentID int64 `json:"probatoryDocumentId" binding:"required,gt=0"`
	GroupID             int64 `json:"groupId"`
}

// ReconcileInsurerDocumentsRequest replaces the document list of one
// insurer + claim type.
type ReconcileInsurerDocumentsRequest struct {
	Documents []InsurerDocumentItem `json:"documents"`
}

// ToDomain maps items to domain rows; scope is applied by the service.
func (r *ReconcileInsurerDocumentsRequest) ToDomain() []insurerdocs.InsurerDocument {
	out := make([]insurerdocs.InsurerDocument, len(r.Documents))
	for i, item := range r.Documents {
		out[i] = insurerdocs.InsurerDocument{
			ProbatoryDocumentID: item.ProbatoryDocumentID,
			GroupID:             item.GroupID,
		}
	}
	return out
}

// --- Collages ---

// CollageDocumentItem is one entry of a collage document list.
type CollageDocumentItem struct {
	ProbatoryDocumentID int64 `json:"probatoryDocumentId" binding:"required,gt=0"`
}

// UpsertCollageRequest creates or updates a collage together with its
// ordered document list. A nil Documents field on update leaves the
// list untouched.
type UpsertCollageRequest struct {
	InsurerID   int64                 `json:"insuranceCompanyId" binding:"required,gt=0"`
	ClaimTypeID int64                 `json:"claimTypeId" binding:"required,gt=0"`
	Name        string                `json:"name" binding:"required"`
	Columns     int                   `json:"columns" binding:"required,gt=0"`
	Documents   []CollageDocumentItem `json:"documents"`
}

// ToDocuments maps the document items to domain rows.
func (r *UpsertCollageRequest) ToDocuments() []collages.CollageDocument {
	if r.Documents == nil {
		return nil
	}
	out := make([]collages.CollageDocument, len(r.Documents))
	for i, item := range r.Documents {
		out[i] = collages.CollageDocument{ProbatoryDocumentID: item.ProbatoryDocumentID}
	}
	return out
}

// --- Export layout ---

// ExportDocumentItem is one entry of an export layout upsert. Exactly
// one of ProbatoryDocumentID and CollageID must be set.
type ExportDocumentItem struct {
	ExportDocumentTypeID int64  `json:"exportDocumentTypeId" binding:"required,gt=0"`
	ProbatoryDocumentID  *int64 `json:"probatoryDocumentId,omitempty"`
	CollageID            *int64 `json:"collageId,omitempty"`
}

// ReconcileExportDocumentsRequest replaces the export layout of one
// insurer + claim type.
type ReconcileExportDocumentsRequest struct {
	Documents []ExportDocumentItem `json:"documents"`
}

// ToDomain maps items to domain rows. Ref validation happens in the
// service; an item with both or neither reference maps to a zero Ref
// that the service rejects.
func (r *ReconcileExportDocumentsRequest) ToDomain() []exports.ExportDocument {
	out := make([]exports.ExportDocument, len(r.Documents))
	for i, item := range r.Documents {
		doc := exports.ExportDocument{ExportTypeID: item.ExportDocumentTypeID}
		switch {
		case item.ProbatoryDocumentID != nil && item.CollageID == nil:
			doc.Ref = exports.DocumentRef(*item.ProbatoryDocumentID)
		case item.CollageID != nil && item.ProbatoryDocumentID == nil:
			doc.Ref = exports.CollageRef(*item.CollageID)
		}
		out[i] = doc
	}
	return out
}
