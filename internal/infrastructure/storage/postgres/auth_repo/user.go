// Package auth_repo provides the PostgreSQL repository for user accounts
// and password history.
package auth_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"claimsdesk/internal/domain/users"
	"claimsdesk/internal/infrastructure/storage/postgres"
)

var _ users.Repository = (*UserRepo)(nil)

// UserRepo persists user accounts.
type UserRepo struct {
	txm *postgres.TxManager
}

func NewUserRepo(txm *postgres.TxManager) *UserRepo {
	return &UserRepo{txm: txm}
}

func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *UserRepo) ListAll(ctx context.Context) ([]users.User, error) {
	q := builder().
		Select("id", "name", "email", "role", "password_hash",
			"last_login_attempt", "time_last_attempt", "created_at", "updated_at").
		From("users").
		OrderBy("name")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []users.User
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return rows, nil
}

func (r *UserRepo) Insert(ctx context.Context, user *users.User) error {
	q := builder().
		Insert("users").
		Columns("name", "email", "role", "password_hash",
			"last_login_attempt", "time_last_attempt", "created_at", "updated_at").
		Values(user.Name, user.Email, user.Role, user.PasswordHash,
			user.LastLoginAttempt, user.TimeLastAttempt, user.CreatedAt, user.UpdatedAt).
		Suffix("RETURNING id")

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if err := r.txm.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&user.ID); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepo) Update(ctx context.Context, user users.User) error {
	q := builder().
		Update("users").
		Set("name", user.Name).
		Set("email", user.Email).
		Set("role", user.Role).
		Set("password_hash", user.PasswordHash).
		Set("last_login_attempt", user.LastLoginAttempt).
		Set("time_last_attempt", user.TimeLastAttempt).
		Set("updated_at", user.UpdatedAt).
		Where(squirrel.Eq{"id": user.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	q := builder().
		Delete("users").
		Where(squirrel.Eq{"id": id})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func (r *UserRepo) ListPasswordHistory(ctx context.Context, userID int64) ([]users.PasswordRecord, error) {
	q := builder().
		Select("id", "user_id", "hash", "created_at").
		From("user_password_history").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []users.PasswordRecord
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list password history: %w", err)
	}
	return rows, nil
}

func (r *UserRepo) InsertPasswordHistory(ctx context.Context, rec *users.PasswordRecord) error {
	q := builder().
		Insert("user_password_history").
		Columns("user_id", "hash", "created_at").
		Values(rec.UserID, rec.Hash, rec.CreatedAt).
		Suffix("RETURNING id")

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if err := r.txm.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&rec.ID); err != nil {
		return fmt.Errorf("insert password record: %w", err)
	}
	return nil
}
