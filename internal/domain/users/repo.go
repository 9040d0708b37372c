package users

import "context"

// Repository defines persistence for user accounts and their password
// history.
type Repository interface {
	// ListAll returns every account ordered by name.
	ListAll(ctx context.Context) ([]User, error)

	// Insert persists a new account and fills its generated ID.
	Insert(ctx context.Context, user *User) error

	// Update persists the mutable fields of an existing account.
	Update(ctx context.Context, user User) error

	// Delete removes an account by primary key.
	Delete(ctx context.Context, id int64) error

	// ListPasswordHistory returns the password records of one account,
	// newest first.
	ListPasswordHistory(ctx context.Context, userID int64) ([]PasswordRecord, error)

	// InsertPasswordHistory appends a password record.
	InsertPasswordHistory(ctx context.Context, rec *PasswordRecord) error
}
