package layout_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"claimsdesk/internal/domain/collages"
	"claimsdesk/internal/infrastructure/storage/postgres"
)

var _ collages.DocumentRepository = (*CollageDocRepo)(nil)

// CollageDocRepo persists collage document rows.
type CollageDocRepo struct {
	txm *postgres.TxManager
}

func NewCollageDocRepo(txm *postgres.TxManager) *CollageDocRepo {
	return &CollageDocRepo{txm: txm}
}

func (r *CollageDocRepo) ListAll(ctx context.Context) ([]collages.CollageDocument, error) {
	q := builder().
		Select("id", "collage_id", "probatory_document_id", "sort_priority",
			"created_at", "updated_at").
		From("insurance_collage_probatory_documents").
		OrderBy("collage_id", "sort_priority")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []collages.CollageDocument
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list collage documents: %w", err)
	}
	return rows, nil
}

func (r *CollageDocRepo) Insert(ctx context.Context, docs []collages.CollageDocument) ([]collages.CollageDocument, error) {
	if len(docs) == 0 {
		return nil, nil
	}

	q := builder().
		Insert("insurance_collage_probatory_documents").
		Columns("collage_id", "probatory_document_id", "sort_priority",
			"created_at", "updated_at")
	for _, d := range docs {
		q = q.Values(d.CollageID, d.ProbatoryDocumentID, d.SortPriority, d.CreatedAt, d.UpdatedAt)
	}
	q = q.Suffix("RETURNING id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert: %w", err)
	}

	rows, err := r.txm.GetQuerier(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("insert collage documents: %w", err)
	}
	defer rows.Close()

	out := append([]collages.CollageDocument(nil), docs...)
	for i := 0; rows.Next(); i++ {
		if err := rows.Scan(&out[i].ID); err != nil {
			return nil, fmt.Errorf("scan inserted id: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("insert collage documents: %w", err)
	}
	return out, nil
}

func (r *CollageDocRepo) Update(ctx context.Context, docs []collages.CollageDocument) error {
	querier := r.txm.GetQuerier(ctx)
	for _, d := range docs {
		q := builder().
			Update("insurance_collage_probatory_documents").
			Set("sort_priority", d.SortPriority).
			Set("updated_at", d.UpdatedAt).
			Where(squirrel.Eq{"id": d.ID})

		sql, args, err := q.ToSql()
		if err != nil {
			return fmt.Errorf("build update: %w", err)
		}
		if _, err := querier.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("update collage document %d: %w", d.ID, err)
		}
	}
	return nil
}

func (r *CollageDocRepo) Delete(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	q := builder().
		Delete("insurance_collage_probatory_documents").
		Where(squirrel.Eq{"id": ids})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete collage documents: %w", err)
	}
	return nil
}
