// Package insurerdocs manages the probatory documents required by one
// insurance company for one claim type. The list is replaced wholesale per
// scope through the diff-and-upsert engine; request array order becomes the
// persisted sort order.
package insurerdocs

import "time"

// Scope identifies the set of rows one upsert call fully replaces.
// Rows outside the scope are never touched.
type Scope struct {
	InsurerID   int64
	ClaimTypeID int64
}

// InsurerDocument links a probatory document to an insurer + claim type.
// ProbatoryDocumentID is the natural key within the scope; GroupID and
// SortPriority are the mutable fields.
type InsurerDocument struct {
	ID                  int64     `db:"id" json:"id"`
	InsurerID           int64     `db:"insurance_company_id" json:"insuranceCompanyId"`
	ClaimTypeID         int64     `db:"claim_type_id" json:"claimTypeId"`
	ProbatoryDocumentID int64     `db:"probatory_document_id" json:"probatoryDocumentId"`
	GroupID             int64     `db:"group_id" json:"groupId"`
	SortPriority        int       `db:"sort_priority" json:"sortPriority"`
	CreatedAt           time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt           time.Time `db:"updated_at" json:"updatedAt"`
}

// scopeKey combines scope and natural key for mirroring against the
// full-table snapshot.
type scopeKey struct {
	insurerID   int64
	claimTypeID int64
	documentID  int64
}

func (d InsurerDocument) key() scopeKey {
	return scopeKey{insurerID: d.InsurerID, claimTypeID: d.ClaimTypeID, documentID: d.ProbatoryDocumentID}
}

// View is an InsurerDocument enriched with catalog metadata for API reads.
type View struct {
	InsurerDocument
	DocumentName        string `json:"documentName"`
	DocumentOrientation string `json:"documentOrientation"`
}
