package exports

import "context"

// TypeRepository defines read access to the export type lookup table.
type TypeRepository interface {
	ListAll(ctx context.Context) ([]ExportType, error)
}

// Repository defines persistence for export layout entries.
type Repository interface {
	// ListAll returns every row across all scopes (feeds the snapshot).
	ListAll(ctx context.Context) ([]ExportDocument, error)

	// Insert persists new rows and returns them with generated primary keys.
	Insert(ctx context.Context, docs []ExportDocument) ([]ExportDocument, error)

	// Update persists the mutable fields of existing rows by primary key.
	Update(ctx context.Context, docs []ExportDocument) error

	// Delete removes rows by primary key.
	Delete(ctx context.Context, ids []int64) error
}
