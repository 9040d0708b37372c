// Package collages provides insurer collages: named arrangements of probatory
// documents rendered as one sheet (e.g. the photo set an adjuster assembles
// for an auto claim). A collage owns an ordered document list managed through
// the diff-and-upsert engine.
package collages

import (
	"context"
	"strings"
	"time"

	"claimsdesk/internal/core/apperror"
)

// Collage is the aggregate root.
type Collage struct {
	ID          int64     `db:"id" json:"id"`
	InsurerID   int64     `db:"insurance_company_id" json:"insuranceCompanyId"`
	ClaimTypeID int64     `db:"claim_type_id" json:"claimTypeId"`
	Name        string    `db:"name" json:"name"`
	Columns     int       `db:"columns" json:"columns"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// Validate checks aggregate invariants.
func (c *Collage) Validate(_ context.Context) error {
	if strings.TrimSpace(c.Name) == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	if c.InsurerID <= 0 {
		return apperror.NewValidation("insurance company id must be positive").WithDetail("id", c.InsurerID)
	}
	if c.ClaimTypeID <= 0 {
		return apperror.NewValidation("claim type id must be positive").WithDetail("id", c.ClaimTypeID)
	}
	if c.Columns < 1 {
		return apperror.NewValidation("columns must be at least 1").WithDetail("field", "columns")
	}
	return nil
}

// CollageDocument links a probatory document into a collage.
// ProbatoryDocumentID is the natural key within the collage scope;
// SortPriority is the only mutable field.
type CollageDocument struct {
	ID                  int64     `db:"id" json:"id"`
	CollageID           int64     `db:"collage_id" json:"collageId"`
	ProbatoryDocumentID int64     `db:"probatory_document_id" json:"probatoryDocumentId"`
	SortPriority        int       `db:"sort_priority" json:"sortPriority"`
	CreatedAt           time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt           time.Time `db:"updated_at" json:"updatedAt"`
}

type collageDocKey struct {
	collageID  int64
	documentID int64
}

func (d CollageDocument) key() collageDocKey {
	return collageDocKey{collageID: d.CollageID, documentID: d.ProbatoryDocumentID}
}

// View is a Collage enriched with its claim-type name and ordered documents.
type View struct {
	Collage
	ClaimTypeName string            `json:"claimTypeName"`
	Documents     []CollageDocument `json:"documents"`
}
