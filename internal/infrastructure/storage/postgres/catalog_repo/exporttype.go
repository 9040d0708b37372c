package catalog_repo

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"

	"claimsdesk/internal/domain/exports"
	"claimsdesk/internal/infrastructure/storage/postgres"
)

var _ exports.TypeRepository = (*ExportTypeRepo)(nil)

// ExportTypeRepo reads the export-document-type lookup table.
type ExportTypeRepo struct {
	txm *postgres.TxManager
}

func NewExportTypeRepo(txm *postgres.TxManager) *ExportTypeRepo {
	return &ExportTypeRepo{txm: txm}
}

func (r *ExportTypeRepo) ListAll(ctx context.Context) ([]exports.ExportType, error) {
	q := builder().
		Select("id", "name", "created_at", "updated_at").
		From("export_document_types").
		OrderBy("id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []exports.ExportType
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list export document types: %w", err)
	}
	return rows, nil
}
