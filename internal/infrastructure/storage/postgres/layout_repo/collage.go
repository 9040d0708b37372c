package layout_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"claimsdesk/internal/domain/collages"
	"claimsdesk/internal/infrastructure/storage/postgres"
)

var _ collages.Repository = (*CollageRepo)(nil)

// CollageRepo persists collage aggregate roots.
type CollageRepo struct {
	txm *postgres.TxManager
}

func NewCollageRepo(txm *postgres.TxManager) *CollageRepo {
	return &CollageRepo{txm: txm}
}

func (r *CollageRepo) ListAll(ctx context.Context) ([]collages.Collage, error) {
	q := builder().
		Select("id", "insurance_company_id", "claim_type_id", "name", "columns",
			"created_at", "updated_at").
		From("insurance_collages").
		OrderBy("name")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []collages.Collage
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list collages: %w", err)
	}
	return rows, nil
}

func (r *CollageRepo) Insert(ctx context.Context, collage *collages.Collage) error {
	q := builder().
		Insert("insurance_collages").
		Columns("insurance_company_id", "claim_type_id", "name", "columns",
			"created_at", "updated_at").
		Values(collage.InsurerID, collage.ClaimTypeID, collage.Name, collage.Columns,
			collage.CreatedAt, collage.UpdatedAt).
		Suffix("RETURNING id")

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if err := r.txm.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&collage.ID); err != nil {
		return fmt.Errorf("insert collage: %w", err)
	}
	return nil
}

func (r *CollageRepo) Update(ctx context.Context, collage collages.Collage) error {
	q := builder().
		Update("insurance_collages").
		Set("name", collage.Name).
		Set("columns", collage.Columns).
		Set("updated_at", collage.UpdatedAt).
		Where(squirrel.Eq{"id": collage.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("update collage: %w", err)
	}
	return nil
}

func (r *CollageRepo) Delete(ctx context.Context, id int64) error {
	q := builder().
		Delete("insurance_collages").
		Where(squirrel.Eq{"id": id})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete collage: %w", err)
	}
	return nil
}
