package users

import (
	"context"
	"fmt"
	"strings"
	"time"

	"claimsdesk/internal/core/apperror"
	"claimsdesk/internal/core/tx"
	"claimsdesk/internal/domain/cache"
	"claimsdesk/internal/domain/notify"
	"claimsdesk/pkg/logger"
)

// SnapshotKey is the cache key for the full user collection.
const SnapshotKey = "snapshot:users"

// Temporary-password generation gives up after this many collisions with
// the password history.
const maxPasswordAttempts = 10

const temporaryPasswordLength = 12

// SecurityLockConfig governs the login lock. LockLength is how long a
// lock holds; TimeFrame is the window within which failed attempts
// accumulate.
type SecurityLockConfig struct {
	Enabled         bool
	MaximumAttempts int
	LockLength      time.Duration
	TimeFrame       time.Duration
}

// DefaultSecurityLockConfig locks for 30 minutes after 3 failures
// within an hour.
func DefaultSecurityLockConfig() SecurityLockConfig {
	return SecurityLockConfig{
		Enabled:         true,
		MaximumAttempts: 3,
		LockLength:      30 * time.Minute,
		TimeFrame:       60 * time.Minute,
	}
}

// Service provides cached CRUD over user accounts, authentication with
// the security lock, and the temporary-password lifecycle.
type Service struct {
	repo     Repository
	store    cache.Store
	txm      tx.Manager
	hasher   PasswordHasher
	notifier notify.Notifier
	lock     SecurityLockConfig
	clock    func() time.Time
}

// NewService creates a user service.
func NewService(repo Repository, store cache.Store, txm tx.Manager, hasher PasswordHasher, notifier notify.Notifier, lock SecurityLockConfig) *Service {
	return &Service{
		repo:     repo,
		store:    store,
		txm:      txm,
		hasher:   hasher,
		notifier: notifier,
		lock:     lock,
		clock:    time.Now,
	}
}

// WithClock overrides the time source (tests).
func (s *Service) WithClock(clock func() time.Time) *Service {
	s.clock = clock
	return s
}

// GetAll returns all accounts through the read-through cache.
func (s *Service) GetAll(ctx context.Context) ([]User, error) {
	if snap, ok := cache.Snapshot[User](ctx, s.store, SnapshotKey); ok {
		return snap, nil
	}

	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	s.store.Set(ctx, SnapshotKey, rows)
	return rows, nil
}

// GetByID returns one account, resolved through GetAll.
func (s *Service) GetByID(ctx context.Context, id int64) (*User, error) {
	if id <= 0 {
		return nil, apperror.NewValidation("user id must be positive").WithDetail("id", id)
	}

	all, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == id {
			user := all[i]
			return &user, nil
		}
	}
	return nil, apperror.NewNotFound("user", id)
}

// findByEmail resolves an account through the cached collection.
// Absence is the expected benign outcome here, not an error.
func (s *Service) findByEmail(ctx context.Context, email string) (*User, error) {
	all, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if strings.EqualFold(all[i].Email, email) {
			user := all[i]
			return &user, nil
		}
	}
	return nil, nil
}

// Create inserts a new account with its initial password. Email is
// unique across accounts.
func (s *Service) Create(ctx context.Context, user *User, password string) error {
	if err := user.Validate(ctx); err != nil {
		return err
	}
	if password == "" {
		return apperror.NewValidation("password is required").WithDetail("field", "password")
	}

	existing, err := s.findByEmail(ctx, user.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return apperror.NewDuplicate("user", "email", user.Email)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}

	now := s.clock().UTC()
	user.PasswordHash = hash
	user.CreatedAt = now
	user.UpdatedAt = now

	err = s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Insert(ctx, user); err != nil {
			return err
		}
		return s.repo.InsertPasswordHistory(ctx, &PasswordRecord{
			UserID:    user.ID,
			Hash:      hash,
			CreatedAt: now,
		})
	})
	if err != nil {
		return err
	}

	if snap, ok := cache.Snapshot[User](ctx, s.store, SnapshotKey); ok {
		s.store.Set(ctx, SnapshotKey, append(snap, *user))
	}

	logger.Info(ctx, "user created", "user_id", user.ID, "email", user.Email)
	return nil
}

// Update modifies profile fields and mirrors the change onto the
// snapshot. Password and lock state are untouched here.
func (s *Service) Update(ctx context.Context, user User) error {
	if err := user.Validate(ctx); err != nil {
		return err
	}

	current, err := s.GetByID(ctx, user.ID)
	if err != nil {
		return err
	}

	existing, err := s.findByEmail(ctx, user.Email)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != user.ID {
		return apperror.NewDuplicate("user", "email", user.Email)
	}

	current.Name = user.Name
	current.Email = user.Email
	current.Role = user.Role
	current.UpdatedAt = s.clock().UTC()

	err = s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Update(ctx, *current)
	})
	if err != nil {
		return err
	}

	if snap, ok := cache.Snapshot[User](ctx, s.store, SnapshotKey); ok {
		for i := range snap {
			if snap[i].ID == current.ID {
				snap[i].Name = current.Name
				snap[i].Email = current.Email
				snap[i].Role = current.Role
				snap[i].UpdatedAt = current.UpdatedAt
			}
		}
		s.store.Set(ctx, SnapshotKey, snap)
	}

	return nil
}

// Delete removes an account from database and snapshot.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	if snap, ok := cache.Snapshot[User](ctx, s.store, SnapshotKey); ok {
		kept := snap[:0:0]
		for _, u := range snap {
			if u.ID != id {
				kept = append(kept, u)
			}
		}
		s.store.Set(ctx, SnapshotKey, kept)
	}

	logger.Info(ctx, "user deleted", "user_id", id)
	return nil
}

// Authenticate runs one login attempt through the security lock.
// An unknown email returns a nil result and writes no state; the caller
// maps that to the same generic failure as a wrong password.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}

	now := s.clock().UTC()
	elapsed := now.Sub(user.TimeLastAttempt)
	if elapsed < 0 {
		elapsed = -elapsed
	}

	locked := s.lock.Enabled &&
		user.LastLoginAttempt > s.lock.MaximumAttempts &&
		elapsed < s.lock.LockLength

	// A counter older than the time frame is stale; it self-clears
	// before the attempt is judged.
	dirty := false
	if elapsed > s.lock.TimeFrame {
		user.LastLoginAttempt = 0
		user.TimeLastAttempt = now
		elapsed = 0
		dirty = true
	}

	success := false
	if !locked {
		if s.hasher.Compare(user.PasswordHash, password) {
			success = true
			user.LastLoginAttempt = 0
			user.TimeLastAttempt = now
			dirty = true
		} else {
			// After a lock window has fully elapsed the counter restarts
			// at 1 instead of climbing further.
			if user.LastLoginAttempt > s.lock.MaximumAttempts && elapsed >= s.lock.LockLength {
				user.LastLoginAttempt = 1
			} else {
				user.LastLoginAttempt++
			}
			user.TimeLastAttempt = now
			// The mismatch itself persists only while the lock can still
			// move; a prior stale-counter reset stays dirty regardless.
			dirty = dirty || (s.lock.Enabled && user.LastLoginAttempt <= s.lock.MaximumAttempts+1)
		}
	}

	if s.lock.Enabled && user.LastLoginAttempt > s.lock.MaximumAttempts {
		locked = true
		success = false
	}

	if dirty {
		if err := s.persistLockState(ctx, *user); err != nil {
			return nil, err
		}
	}

	if !success {
		logger.Info(ctx, "login attempt failed",
			"user_id", user.ID,
			"attempts", user.LastLoginAttempt,
			"locked", locked,
		)
	}
	return &LoginResult{User: *user, Success: success, Locked: locked}, nil
}

// GenerateTemporaryPassword replaces an account's password with a random
// one never present in its history, records it, and notifies the user.
// Returns the plaintext so the caller can display it once.
func (s *Service) GenerateTemporaryPassword(ctx context.Context, id int64) (string, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	history, err := s.repo.ListPasswordHistory(ctx, user.ID)
	if err != nil {
		return "", err
	}

	for attempt := 0; attempt < maxPasswordAttempts; attempt++ {
		candidate, err := randomPassword(temporaryPasswordLength)
		if err != nil {
			return "", err
		}
		if s.usedBefore(history, candidate) {
			continue
		}

		hash, err := s.hasher.Hash(candidate)
		if err != nil {
			return "", err
		}

		now := s.clock().UTC()
		user.PasswordHash = hash
		user.UpdatedAt = now

		err = s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
			if err := s.repo.Update(ctx, *user); err != nil {
				return err
			}
			return s.repo.InsertPasswordHistory(ctx, &PasswordRecord{
				UserID:    user.ID,
				Hash:      hash,
				CreatedAt: now,
			})
		})
		if err != nil {
			return "", err
		}

		if snap, ok := cache.Snapshot[User](ctx, s.store, SnapshotKey); ok {
			for i := range snap {
				if snap[i].ID == user.ID {
					snap[i].PasswordHash = hash
					snap[i].UpdatedAt = now
				}
			}
			s.store.Set(ctx, SnapshotKey, snap)
		}

		if s.notifier != nil {
			msg := notify.Message{
				To:      user.Email,
				Subject: "Your temporary password",
				Body:    fmt.Sprintf("A temporary password was issued for your account: %s", candidate),
			}
			if err := s.notifier.Send(ctx, msg); err != nil {
				logger.Warn(ctx, "temporary password notification failed", "user_id", user.ID, "error", err)
			}
		}

		logger.Info(ctx, "temporary password issued", "user_id", user.ID)
		return candidate, nil
	}

	return "", apperror.NewRetryExhausted("generate temporary password", maxPasswordAttempts)
}

func (s *Service) usedBefore(history []PasswordRecord, candidate string) bool {
	for _, rec := range history {
		if s.hasher.Compare(rec.Hash, candidate) {
			return true
		}
	}
	return false
}

// persistLockState writes the attempt counter and timestamp to the
// database and mirrors them by field copy onto an existing snapshot.
func (s *Service) persistLockState(ctx context.Context, user User) error {
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Update(ctx, user)
	})
	if err != nil {
		return err
	}

	if snap, ok := cache.Snapshot[User](ctx, s.store, SnapshotKey); ok {
		for i := range snap {
			if snap[i].ID == user.ID {
				snap[i].LastLoginAttempt = user.LastLoginAttempt
				snap[i].TimeLastAttempt = user.TimeLastAttempt
			}
		}
		s.store.Set(ctx, SnapshotKey, snap)
	}
	return nil
}
