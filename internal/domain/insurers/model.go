// Package insurers provides the insurance-company catalog.
package insurers

import (
	"context"
	"strings"
	"time"

	"claimsdesk/internal/core/apperror"
)

// InsuranceCompany is one insurer the back office administers claims for.
type InsuranceCompany struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	IsEnabled bool      `db:"is_enabled" json:"isEnabled"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Validate checks catalog invariants.
func (c *InsuranceCompany) Validate(_ context.Context) error {
	if strings.TrimSpace(c.Name) == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	return nil
}
