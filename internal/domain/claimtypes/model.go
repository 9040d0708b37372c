// Package claimtypes provides the claim-type lookup (auto, theft, glass, ...).
// Claim types partition every insurer-scoped document configuration.
package claimtypes

import "time"

// ClaimType is a lookup row describing one kind of claim an insurer handles.
type ClaimType struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}
