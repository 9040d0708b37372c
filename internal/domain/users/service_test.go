package users

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"claimsdesk/internal/core/apperror"
	"claimsdesk/internal/domain/cache"
	"claimsdesk/internal/domain/notify"
)

type memRepo struct {
	users   []User
	history []PasswordRecord
	nextID  int64
	updates int
	inserts int
}

func (r *memRepo) ListAll(context.Context) ([]User, error) {
	return append([]User(nil), r.users...), nil
}

func (r *memRepo) Insert(_ context.Context, u *User) error {
	r.inserts++
	r.nextID++
	u.ID = r.nextID
	r.users = append(r.users, *u)
	return nil
}

func (r *memRepo) Update(_ context.Context, u User) error {
	r.updates++
	for i := range r.users {
		if r.users[i].ID == u.ID {
			r.users[i] = u
		}
	}
	return nil
}

func (r *memRepo) Delete(_ context.Context, id int64) error {
	kept := r.users[:0]
	for _, u := range r.users {
		if u.ID != id {
			kept = append(kept, u)
		}
	}
	r.users = kept
	return nil
}

func (r *memRepo) ListPasswordHistory(_ context.Context, userID int64) ([]PasswordRecord, error) {
	var out []PasswordRecord
	for _, rec := range r.history {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *memRepo) InsertPasswordHistory(_ context.Context, rec *PasswordRecord) error {
	r.nextID++
	rec.ID = r.nextID
	r.history = append(r.history, *rec)
	return nil
}

type txStub struct{}

func (txStub) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// plainHasher makes hashes deterministic so tests can seed users directly.
type plainHasher struct{}

func (plainHasher) Hash(plain string) (string, error) { return "h:" + plain, nil }
func (plainHasher) Compare(hash, plain string) bool   { return hash == "h:"+plain }

// collideHasher treats every candidate as already present in history.
type collideHasher struct{ plainHasher }

func (collideHasher) Compare(string, string) bool { return true }

type notifierStub struct {
	sent []notify.Message
}

func (n *notifierStub) Send(_ context.Context, msg notify.Message) error {
	n.sent = append(n.sent, msg)
	return nil
}

var start = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

type fixture struct {
	svc   *Service
	repo  *memRepo
	store *cache.FakeStore
	now   *time.Time
	sent  *notifierStub
}

func newFixture(t *testing.T, lock SecurityLockConfig) *fixture {
	t.Helper()
	repo := &memRepo{}
	store := cache.NewFakeStore()
	now := start
	sent := &notifierStub{}
	svc := NewService(repo, store, txStub{}, plainHasher{}, sent, lock).
		WithClock(func() time.Time { return now })
	f := &fixture{svc: svc, repo: repo, store: store, now: &now, sent: sent}

	user := &User{Name: "Ana", Email: "ana@example.com", Role: RoleAdmin}
	require.NoError(t, svc.Create(context.Background(), user, "right-horse"))
	return f
}

func (f *fixture) advance(d time.Duration) { *f.now = f.now.Add(d) }

func lockConfig() SecurityLockConfig {
	return SecurityLockConfig{
		Enabled:         true,
		MaximumAttempts: 3,
		LockLength:      30 * time.Minute,
		TimeFrame:       60 * time.Minute,
	}
}

func TestAuthenticate_LocksAfterMaximumAttempts(t *testing.T) {
	f := newFixture(t, lockConfig())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		f.advance(time.Minute)
		res, err := f.svc.Authenticate(ctx, "ana@example.com", "wrong")
		require.NoError(t, err)
		assert.False(t, res.Success)
		assert.False(t, res.Locked)
		assert.Equal(t, i+1, res.User.LastLoginAttempt)
	}

	f.advance(time.Minute)
	res, err := f.svc.Authenticate(ctx, "ana@example.com", "wrong")
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.True(t, res.Locked)

	// The correct password is rejected while the lock holds.
	f.advance(time.Minute)
	res, err = f.svc.Authenticate(ctx, "ana@example.com", "right-horse")
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.True(t, res.Locked)

	// Once the lock window elapses the correct password succeeds and
	// the counter resets.
	f.advance(31 * time.Minute)
	res, err = f.svc.Authenticate(ctx, "ana@example.com", "right-horse")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.False(t, res.Locked)
	assert.Zero(t, res.User.LastLoginAttempt)
}

func TestAuthenticate_CounterResetsAfterTimeFrame(t *testing.T) {
	f := newFixture(t, lockConfig())
	ctx := context.Background()

	f.advance(time.Minute)
	_, err := f.svc.Authenticate(ctx, "ana@example.com", "wrong")
	require.NoError(t, err)
	f.advance(time.Minute)
	_, err = f.svc.Authenticate(ctx, "ana@example.com", "wrong")
	require.NoError(t, err)

	f.advance(61 * time.Minute)
	res, err := f.svc.Authenticate(ctx, "ana@example.com", "wrong")
	require.NoError(t, err)
	assert.Equal(t, 1, res.User.LastLoginAttempt)
	assert.False(t, res.Locked)
}

func TestAuthenticate_CounterRestartsAfterLockExpiry(t *testing.T) {
	f := newFixture(t, lockConfig())
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		f.advance(time.Minute)
		_, err := f.svc.Authenticate(ctx, "ana@example.com", "wrong")
		require.NoError(t, err)
	}

	// Past the lock window but within the time frame: a wrong password
	// restarts the count at 1 instead of climbing.
	f.advance(31 * time.Minute)
	res, err := f.svc.Authenticate(ctx, "ana@example.com", "wrong")
	require.NoError(t, err)
	assert.Equal(t, 1, res.User.LastLoginAttempt)
	assert.False(t, res.Locked)
}

func TestAuthenticate_UnknownEmailWritesNothing(t *testing.T) {
	f := newFixture(t, lockConfig())
	ctx := context.Background()

	updates := f.repo.updates
	sets := f.store.SetCalls
	res, err := f.svc.Authenticate(ctx, "ghost@example.com", "whatever")
	require.NoError(t, err)
	assert.Nil(t, res)
	assert.Equal(t, updates, f.repo.updates)
	assert.Equal(t, sets, f.store.SetCalls)
}

func TestAuthenticate_DisabledLockNeverLocks(t *testing.T) {
	cfg := lockConfig()
	cfg.Enabled = false
	f := newFixture(t, cfg)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		f.advance(time.Minute)
		res, err := f.svc.Authenticate(ctx, "ana@example.com", "wrong")
		require.NoError(t, err)
		assert.False(t, res.Locked)
	}

	f.advance(time.Minute)
	res, err := f.svc.Authenticate(ctx, "ana@example.com", "right-horse")
	require.NoError(t, err)
	assert.True(t, res.Success)
}

func TestAuthenticate_DisabledLockStillPersistsStaleReset(t *testing.T) {
	cfg := lockConfig()
	cfg.Enabled = false
	f := newFixture(t, cfg)
	ctx := context.Background()

	// Stale counter left over from when the lock was enabled.
	f.repo.users[0].LastLoginAttempt = 2
	f.repo.users[0].TimeLastAttempt = *f.now

	f.advance(61 * time.Minute)
	updates := f.repo.updates
	res, err := f.svc.Authenticate(ctx, "ana@example.com", "wrong")
	require.NoError(t, err)
	assert.False(t, res.Locked)

	// The time-frame self-clear is a state change and must reach the
	// repository even though mismatches alone are not persisted.
	assert.Equal(t, updates+1, f.repo.updates)
	assert.Equal(t, 1, f.repo.users[0].LastLoginAttempt)
	assert.Equal(t, *f.now, f.repo.users[0].TimeLastAttempt)
}

func TestAuthenticate_LockStateMirroredIntoSnapshot(t *testing.T) {
	f := newFixture(t, lockConfig())
	ctx := context.Background()

	f.advance(time.Minute)
	_, err := f.svc.Authenticate(ctx, "ana@example.com", "wrong")
	require.NoError(t, err)

	snap, ok := cache.Snapshot[User](ctx, f.store, SnapshotKey)
	require.True(t, ok)
	require.Len(t, snap, 1)
	assert.Equal(t, 1, snap[0].LastLoginAttempt)
	assert.Equal(t, *f.now, snap[0].TimeLastAttempt)
}

func TestCreate_RejectsDuplicateEmail(t *testing.T) {
	f := newFixture(t, lockConfig())
	ctx := context.Background()

	dup := &User{Name: "Bea", Email: "ANA@example.com", Role: RoleAgent}
	err := f.svc.Create(ctx, dup, "pw")
	require.Error(t, err)
	assert.True(t, apperror.IsDuplicate(err))
}

func TestUpdate_RejectsEmailOfAnotherUser(t *testing.T) {
	f := newFixture(t, lockConfig())
	ctx := context.Background()

	second := &User{Name: "Bea", Email: "bea@example.com", Role: RoleAgent}
	require.NoError(t, f.svc.Create(ctx, second, "pw"))

	second.Email = "ana@example.com"
	err := f.svc.Update(ctx, *second)
	require.Error(t, err)
	assert.True(t, apperror.IsDuplicate(err))

	// Keeping your own email is not a conflict.
	second.Email = "bea@example.com"
	second.Name = "Beatriz"
	require.NoError(t, f.svc.Update(ctx, *second))
}

func TestGenerateTemporaryPassword_RotatesAndNotifies(t *testing.T) {
	f := newFixture(t, lockConfig())
	ctx := context.Background()

	user, err := f.svc.GetByID(ctx, 1)
	require.NoError(t, err)
	oldHash := user.PasswordHash

	plain, err := f.svc.GenerateTemporaryPassword(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, plain, temporaryPasswordLength)

	refreshed, err := f.svc.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.NotEqual(t, oldHash, refreshed.PasswordHash)

	history, err := f.repo.ListPasswordHistory(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, history, 2)

	require.Len(t, f.sent.sent, 1)
	assert.Equal(t, "ana@example.com", f.sent.sent[0].To)
	assert.Contains(t, f.sent.sent[0].Body, plain)

	res, err := f.svc.Authenticate(ctx, "ana@example.com", plain)
	require.NoError(t, err)
	assert.True(t, res.Success)
}

func TestGenerateTemporaryPassword_ExhaustsRetryBudget(t *testing.T) {
	repo := &memRepo{}
	store := cache.NewFakeStore()
	svc := NewService(repo, store, txStub{}, collideHasher{}, &notifierStub{}, lockConfig()).
		WithClock(func() time.Time { return start })

	user := &User{Name: "Ana", Email: "ana@example.com", Role: RoleAdmin}
	require.NoError(t, svc.Create(context.Background(), user, "pw"))

	_, err := svc.GenerateTemporaryPassword(context.Background(), user.ID)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeRetryExhausted, appErr.Code)
}
