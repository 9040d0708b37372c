package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"claimsdesk/internal/domain/documents"
	"claimsdesk/internal/infrastructure/storage/postgres"
)

var _ documents.Repository = (*DocumentRepo)(nil)

// DocumentRepo persists the probatory-document catalog.
type DocumentRepo struct {
	txm *postgres.TxManager
}

func NewDocumentRepo(txm *postgres.TxManager) *DocumentRepo {
	return &DocumentRepo{txm: txm}
}

func (r *DocumentRepo) ListAll(ctx context.Context) ([]documents.ProbatoryDocument, error) {
	q := builder().
		Select("id", "name", "orientation", "created_at", "updated_at").
		From("probatory_documents").
		OrderBy("name")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []documents.ProbatoryDocument
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list probatory documents: %w", err)
	}
	return rows, nil
}

func (r *DocumentRepo) Insert(ctx context.Context, doc *documents.ProbatoryDocument) error {
	q := builder().
		Insert("probatory_documents").
		Columns("name", "orientation", "created_at", "updated_at").
		Values(doc.Name, doc.Orientation, doc.CreatedAt, doc.UpdatedAt).
		Suffix("RETURNING id")

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if err := r.txm.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&doc.ID); err != nil {
		return fmt.Errorf("insert probatory document: %w", err)
	}
	return nil
}

func (r *DocumentRepo) Update(ctx context.Context, doc documents.ProbatoryDocument) error {
	q := builder().
		Update("probatory_documents").
		Set("name", doc.Name).
		Set("orientation", doc.Orientation).
		Set("updated_at", doc.UpdatedAt).
		Where(squirrel.Eq{"id": doc.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("update probatory document: %w", err)
	}
	return nil
}

func (r *DocumentRepo) Delete(ctx context.Context, id int64) error {
	q := builder().
		Delete("probatory_documents").
		Where(squirrel.Eq{"id": id})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete probatory document: %w", err)
	}
	return nil
}
