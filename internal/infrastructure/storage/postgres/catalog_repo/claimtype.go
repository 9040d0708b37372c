package catalog_repo

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"

	"claimsdesk/internal/domain/claimtypes"
	"claimsdesk/internal/infrastructure/storage/postgres"
)

var _ claimtypes.Repository = (*ClaimTypeRepo)(nil)

// ClaimTypeRepo reads the claim-type lookup table.
type ClaimTypeRepo struct {
	txm *postgres.TxManager
}

func NewClaimTypeRepo(txm *postgres.TxManager) *ClaimTypeRepo {
	return &ClaimTypeRepo{txm: txm}
}

func (r *ClaimTypeRepo) ListAll(ctx context.Context) ([]claimtypes.ClaimType, error) {
	q := builder().
		Select("id", "name", "description", "created_at", "updated_at").
		From("claim_types").
		OrderBy("name")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []claimtypes.ClaimType
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list claim types: %w", err)
	}
	return rows, nil
}
