// Package documents provides the probatory-document catalog: the master list
// of evidence documents (driver licence, circulation card, claim form, ...)
// referenced by insurer configurations, collages and export settings.
package documents

import (
	"context"
	"strings"

	"claimsdesk/internal/core/apperror"
	"time"
)

// Orientation is the page orientation a probatory document is rendered in.
type Orientation string

const (
	OrientationPortrait  Orientation = "portrait"
	OrientationLandscape Orientation = "landscape"
)

// ProbatoryDocument is one catalog entry.
type ProbatoryDocument struct {
	ID          int64       `db:"id" json:"id"`
	Name        string      `db:"name" json:"name"`
	Orientation Orientation `db:"orientation" json:"orientation"`
	CreatedAt   time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updatedAt"`
}

// Validate checks catalog invariants.
func (d *ProbatoryDocument) Validate(_ context.Context) error {
	if strings.TrimSpace(d.Name) == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	switch d.Orientation {
	case OrientationPortrait, OrientationLandscape:
	default:
		return apperror.NewValidation("invalid orientation").
			WithDetail("field", "orientation").
			WithDetail("value", string(d.Orientation))
	}
	return nil
}
