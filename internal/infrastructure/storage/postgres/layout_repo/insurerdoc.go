package layout_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"claimsdesk/internal/domain/insurerdocs"
	"claimsdesk/internal/infrastructure/storage/postgres"
)

var _ insurerdocs.Repository = (*InsurerDocRepo)(nil)

// InsurerDocRepo persists insurer-scoped probatory document rows.
type InsurerDocRepo struct {
	txm *postgres.TxManager
}

func NewInsurerDocRepo(txm *postgres.TxManager) *InsurerDocRepo {
	return &InsurerDocRepo{txm: txm}
}

func (r *InsurerDocRepo) ListAll(ctx context.Context) ([]insurerdocs.InsurerDocument, error) {
	q := builder().
		Select("id", "insurance_company_id", "claim_type_id", "probatory_document_id",
			"group_id", "sort_priority", "created_at", "updated_at").
		From("insurance_probatory_documents").
		OrderBy("insurance_company_id", "claim_type_id", "sort_priority")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []insurerdocs.InsurerDocument
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list insurer documents: %w", err)
	}
	return rows, nil
}

// Insert persists rows one statement with RETURNING id so generated keys
// land back in the returned slice in input order.
func (r *InsurerDocRepo) Insert(ctx context.Context, docs []insurerdocs.InsurerDocument) ([]insurerdocs.InsurerDocument, error) {
	if len(docs) == 0 {
		return nil, nil
	}

	q := builder().
		Insert("insurance_probatory_documents").
		Columns("insurance_company_id", "claim_type_id", "probatory_document_id",
			"group_id", "sort_priority", "created_at", "updated_at")
	for _, d := range docs {
		q = q.Values(d.InsurerID, d.ClaimTypeID, d.ProbatoryDocumentID,
			d.GroupID, d.SortPriority, d.CreatedAt, d.UpdatedAt)
	}
	q = q.Suffix("RETURNING id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert: %w", err)
	}

	rows, err := r.txm.GetQuerier(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("insert insurer documents: %w", err)
	}
	defer rows.Close()

	out := append([]insurerdocs.InsurerDocument(nil), docs...)
	for i := 0; rows.Next(); i++ {
		if err := rows.Scan(&out[i].ID); err != nil {
			return nil, fmt.Errorf("scan inserted id: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("insert insurer documents: %w", err)
	}
	return out, nil
}

func (r *InsurerDocRepo) Update(ctx context.Context, docs []insurerdocs.InsurerDocument) error {
	querier := r.txm.GetQuerier(ctx)
	for _, d := range docs {
		q := builder().
			Update("insurance_probatory_documents").
			Set("group_id", d.GroupID).
			Set("sort_priority", d.SortPriority).
			Set("updated_at", d.UpdatedAt).
			Where(squirrel.Eq{"id": d.ID})

		sql, args, err := q.ToSql()
		if err != nil {
			return fmt.Errorf("build update: %w", err)
		}
		if _, err := querier.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("update insurer document %d: %w", d.ID, err)
		}
	}
	return nil
}

func (r *InsurerDocRepo) Delete(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	q := builder().
		Delete("insurance_probatory_documents").
		Where(squirrel.Eq{"id": ids})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete insurer documents: %w", err)
	}
	return nil
}
