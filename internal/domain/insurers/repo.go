package insurers

import "context"

// Repository defines persistence for the insurance-company catalog.
type Repository interface {
	// ListAll returns every insurer ordered by name.
	ListAll(ctx context.Context) ([]InsuranceCompany, error)

	// Insert persists a new insurer and fills its generated ID and timestamps.
	Insert(ctx context.Context, company *InsuranceCompany) error

	// Update persists the mutable fields of an existing insurer.
	Update(ctx context.Context, company InsuranceCompany) error

	// Delete removes an insurer by primary key.
	Delete(ctx context.Context, id int64) error
}
