package documents

import "context"

// Repository defines persistence for the probatory-document catalog.
type Repository interface {
	// ListAll returns every catalog entry ordered by name.
	ListAll(ctx context.Context) ([]ProbatoryDocument, error)

	// Insert persists a new entry and fills its generated ID and timestamps.
	Insert(ctx context.Context, doc *ProbatoryDocument) error

	// Update persists the mutable fields of an existing entry.
	Update(ctx context.Context, doc ProbatoryDocument) error

	// Delete removes an entry by primary key.
	Delete(ctx context.Context, id int64) error
}
