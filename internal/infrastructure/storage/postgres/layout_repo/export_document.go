package layout_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"claimsdesk/internal/domain/exports"
	"claimsdesk/internal/infrastructure/storage/postgres"
)

var _ exports.Repository = (*ExportDocRepo)(nil)

// ExportDocRepo persists export layout rows. The domain's tagged
// reference is stored as a pair of nullable foreign keys, exactly one of
// which is set per row.
type ExportDocRepo struct {
	txm *postgres.TxManager
}

func NewExportDocRepo(txm *postgres.TxManager) *ExportDocRepo {
	return &ExportDocRepo{txm: txm}
}

// exportRow is the table shape of one export layout entry.
type exportRow struct {
	ID                  int64     `db:"id"`
	InsurerID           int64     `db:"insurance_company_id"`
	ClaimTypeID         int64     `db:"claim_type_id"`
	ExportTypeID        int64     `db:"export_document_type_id"`
	ProbatoryDocumentID *int64    `db:"probatory_document_id"`
	CollageID           *int64    `db:"collage_id"`
	SortPriority        int       `db:"sort_priority"`
	CreatedAt           time.Time `db:"created_at"`
	UpdatedAt           time.Time `db:"updated_at"`
}

func (row exportRow) toDomain() (exports.ExportDocument, error) {
	doc := exports.ExportDocument{
		ID:           row.ID,
		InsurerID:    row.InsurerID,
		ClaimTypeID:  row.ClaimTypeID,
		ExportTypeID: row.ExportTypeID,
		SortPriority: row.SortPriority,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
	switch {
	case row.ProbatoryDocumentID != nil && row.CollageID == nil:
		doc.Ref = exports.DocumentRef(*row.ProbatoryDocumentID)
	case row.CollageID != nil && row.ProbatoryDocumentID == nil:
		doc.Ref = exports.CollageRef(*row.CollageID)
	default:
		return doc, fmt.Errorf("export row %d references neither or both of document and collage", row.ID)
	}
	return doc, nil
}

// refColumns splits a tagged reference into the two nullable columns.
func refColumns(ref exports.Ref) (documentID, collageID *int64) {
	switch ref.Kind {
	case exports.RefDocument:
		documentID = &ref.ID
	case exports.RefCollage:
		collageID = &ref.ID
	}
	return documentID, collageID
}

func (r *ExportDocRepo) ListAll(ctx context.Context) ([]exports.ExportDocument, error) {
	q := builder().
		Select("id", "insurance_company_id", "claim_type_id", "export_document_type_id",
			"probatory_document_id", "collage_id", "sort_priority", "created_at", "updated_at").
		From("insurance_export_probatory_documents").
		OrderBy("insurance_company_id", "claim_type_id", "export_document_type_id", "sort_priority")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []exportRow
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list export documents: %w", err)
	}

	out := make([]exports.ExportDocument, 0, len(rows))
	for _, row := range rows {
		doc, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}

func (r *ExportDocRepo) Insert(ctx context.Context, docs []exports.ExportDocument) ([]exports.ExportDocument, error) {
	if len(docs) == 0 {
		return nil, nil
	}

	q := builder().
		Insert("insurance_export_probatory_documents").
		Columns("insurance_company_id", "claim_type_id", "export_document_type_id",
			"probatory_document_id", "collage_id", "sort_priority", "created_at", "updated_at")
	for _, d := range docs {
		documentID, collageID := refColumns(d.Ref)
		q = q.Values(d.InsurerID, d.ClaimTypeID, d.ExportTypeID,
			documentID, collageID, d.SortPriority, d.CreatedAt, d.UpdatedAt)
	}
	q = q.Suffix("RETURNING id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert: %w", err)
	}

	rows, err := r.txm.GetQuerier(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("insert export documents: %w", err)
	}
	defer rows.Close()

	out := append([]exports.ExportDocument(nil), docs...)
	for i := 0; rows.Next(); i++ {
		if err := rows.Scan(&out[i].ID); err != nil {
			return nil, fmt.Errorf("scan inserted id: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("insert export documents: %w", err)
	}
	return out, nil
}

func (r *ExportDocRepo) Update(ctx context.Context, docs []exports.ExportDocument) error {
	querier := r.txm.GetQuerier(ctx)
	for _, d := range docs {
		q := builder().
			Update("insurance_export_probatory_documents").
			Set("sort_priority", d.SortPriority).
			Set("updated_at", d.UpdatedAt).
			Where(squirrel.Eq{"id": d.ID})

		sql, args, err := q.ToSql()
		if err != nil {
			return fmt.Errorf("build update: %w", err)
		}
		if _, err := querier.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("update export document %d: %w", d.ID, err)
		}
	}
	return nil
}

func (r *ExportDocRepo) Delete(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	q := builder().
		Delete("insurance_export_probatory_documents").
		Where(squirrel.Eq{"id": ids})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete export documents: %w", err)
	}
	return nil
}
