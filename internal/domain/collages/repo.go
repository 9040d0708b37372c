package collages

import "context"

// Repository defines persistence for collage aggregate roots.
type Repository interface {
	// ListAll returns every collage ordered by name.
	ListAll(ctx context.Context) ([]Collage, error)

	// Insert persists a new collage and fills its generated ID and timestamps.
	Insert(ctx context.Context, collage *Collage) error

	// Update persists the mutable fields of an existing collage.
	Update(ctx context.Context, collage Collage) error

	// Delete removes a collage by primary key.
	Delete(ctx context.Context, id int64) error
}

// DocumentRepository defines persistence for collage document rows.
type DocumentRepository interface {
	// ListAll returns every row across all collages (feeds the snapshot).
	ListAll(ctx context.Context) ([]CollageDocument, error)

	// Insert persists new rows and returns them with generated primary keys.
	Insert(ctx context.Context, docs []CollageDocument) ([]CollageDocument, error)

	// Update persists the mutable fields of existing rows by primary key.
	Update(ctx context.Context, docs []CollageDocument) error

	// Delete removes rows by primary key.
	Delete(ctx context.Context, ids []int64) error
}
