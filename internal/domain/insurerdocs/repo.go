package insurerdocs

import "context"

// Repository defines persistence for insurer-scoped probatory documents.
type Repository interface {
	// ListAll returns every row across all scopes (feeds the snapshot).
	ListAll(ctx context.Context) ([]InsurerDocument, error)

	// Insert persists new rows and returns them with generated primary keys.
	Insert(ctx context.Context, docs []InsurerDocument) ([]InsurerDocument, error)

	// Update persists the mutable fields of existing rows by primary key.
	Update(ctx context.Context, docs []InsurerDocument) error

	// Delete removes rows by primary key.
	Delete(ctx context.Context, ids []int64) error
}
