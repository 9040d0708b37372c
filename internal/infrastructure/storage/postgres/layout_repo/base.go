// Package layout_repo provides PostgreSQL repositories for the ordered,
// scope-replaced document lists: insurer probatory documents, collage
// documents and export layout entries.
package layout_repo

import (
	"github.com/Masterminds/squirrel"
)

// builder returns a squirrel builder with PostgreSQL placeholder format.
func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}
