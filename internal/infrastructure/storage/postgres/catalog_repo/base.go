// Package catalog_repo provides PostgreSQL repositories for the lookup
// catalogs: claim types, insurance companies, probatory documents and
// export document types.
package catalog_repo

import (
	"github.com/Masterminds/squirrel"
)

// builder returns a squirrel builder with PostgreSQL placeholder format.
func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}
