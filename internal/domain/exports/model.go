// Package exports manages the export layout of an insurer + claim type:
// which probatory documents and collages appear in each export document
// type, and in what order. An export entry points at either a probatory
// document or a collage, expressed as a tagged reference rather than a
// pair of nullable foreign keys.
package exports

import (
	"fmt"
	"time"

	"claimsdesk/internal/core/apperror"
)

// ExportType is a lookup row describing one kind of generated export
// document (cover letter, document checklist, ...). Read-only here.
type ExportType struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// RefKind discriminates what an export entry points at.
type RefKind string

const (
	RefDocument RefKind = "document"
	RefCollage  RefKind = "collage"
)

// Ref is a tagged reference to a probatory document or a collage.
// The zero value is invalid.
type Ref struct {
	Kind RefKind `json:"kind"`
	ID   int64   `json:"id"`
}

// DocumentRef points an export entry at a probatory document.
func DocumentRef(id int64) Ref { return Ref{Kind: RefDocument, ID: id} }

// CollageRef points an export entry at a collage.
func CollageRef(id int64) Ref { return Ref{Kind: RefCollage, ID: id} }

func (r Ref) Validate() error {
	switch r.Kind {
	case RefDocument, RefCollage:
	default:
		return apperror.NewValidation(fmt.Sprintf("unknown export reference kind %q", r.Kind))
	}
	if r.ID <= 0 {
		return apperror.NewValidation("export reference id must be positive").WithDetail("id", r.ID)
	}
	return nil
}

// Scope identifies the set of rows one upsert call fully replaces.
type Scope struct {
	InsurerID   int64
	ClaimTypeID int64
}

// ExportDocument is one entry of an export layout. Within its scope the
// row is identified by export type plus reference; SortPriority is the
// only mutable field.
type ExportDocument struct {
	ID           int64     `db:"id" json:"id"`
	InsurerID    int64     `db:"insurance_company_id" json:"insuranceCompanyId"`
	ClaimTypeID  int64     `db:"claim_type_id" json:"claimTypeId"`
	ExportTypeID int64     `db:"export_document_type_id" json:"exportDocumentTypeId"`
	Ref          Ref       `db:"-" json:"ref"`
	SortPriority int       `db:"sort_priority" json:"sortPriority"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// scopeKey combines scope, export type and reference for mirroring
// against the full-table snapshot.
type scopeKey struct {
	insurerID    int64
	claimTypeID  int64
	exportTypeID int64
	ref          Ref
}

// naturalKey identifies a row within one scope.
type naturalKey struct {
	exportTypeID int64
	ref          Ref
}

func (d ExportDocument) key() scopeKey {
	return scopeKey{
		insurerID:    d.InsurerID,
		claimTypeID:  d.ClaimTypeID,
		exportTypeID: d.ExportTypeID,
		ref:          d.Ref,
	}
}

func (d ExportDocument) natural() naturalKey {
	return naturalKey{exportTypeID: d.ExportTypeID, ref: d.Ref}
}

// View is an ExportDocument enriched with the export type name and the
// name of the referenced document or collage.
type View struct {
	ExportDocument
	TypeName string `json:"typeName"`
	RefName  string `json:"refName"`
}
