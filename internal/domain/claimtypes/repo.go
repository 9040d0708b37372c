package claimtypes

import "context"

// Repository defines persistence for the claim-type lookup.
type Repository interface {
	// ListAll returns every claim type ordered by id.
	ListAll(ctx context.Context) ([]ClaimType, error)
}
