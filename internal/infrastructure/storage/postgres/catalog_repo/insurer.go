package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"claimsdesk/internal/domain/insurers"
	"claimsdesk/internal/infrastructure/storage/postgres"
)

var _ insurers.Repository = (*InsurerRepo)(nil)

// InsurerRepo persists insurance companies.
type InsurerRepo struct {
	txm *postgres.TxManager
}

func NewInsurerRepo(txm *postgres.TxManager) *InsurerRepo {
	return &InsurerRepo{txm: txm}
}

func (r *InsurerRepo) ListAll(ctx context.Context) ([]insurers.InsuranceCompany, error) {
	q := builder().
		Select("id", "name", "is_enabled", "created_at", "updated_at").
		From("insurance_companies").
		OrderBy("name")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []insurers.InsuranceCompany
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list insurance companies: %w", err)
	}
	return rows, nil
}

func (r *InsurerRepo) Insert(ctx context.Context, company *insurers.InsuranceCompany) error {
	q := builder().
		Insert("insurance_companies").
		Columns("name", "is_enabled", "created_at", "updated_at").
		Values(company.Name, company.IsEnabled, company.CreatedAt, company.UpdatedAt).
		Suffix("RETURNING id")

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if err := r.txm.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&company.ID); err != nil {
		return fmt.Errorf("insert insurance company: %w", err)
	}
	return nil
}

func (r *InsurerRepo) Update(ctx context.Context, company insurers.InsuranceCompany) error {
	q := builder().
		Update("insurance_companies").
		Set("name", company.Name).
		Set("is_enabled", company.IsEnabled).
		Set("updated_at", company.UpdatedAt).
		Where(squirrel.Eq{"id": company.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("update insurance company: %w", err)
	}
	return nil
}

func (r *InsurerRepo) Delete(ctx context.Context, id int64) error {
	q := builder().
		Delete("insurance_companies").
		Where(squirrel.Eq{"id": id})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete insurance company: %w", err)
	}
	return nil
}
