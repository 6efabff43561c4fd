package application

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/yogapermana/accountd/internal/domain/entity"
	"github.com/yogapermana/accountd/internal/domain/repository"
)

var errCommitFailed = errors.New("commit failed")

// fakeAccountRepo is an in-memory durable store for accounts. Records are
// stored by value so callers never share pointers with the store, and
// failCommit simulates a transaction that rolls back.
type fakeAccountRepo struct {
	mu         sync.Mutex
	accounts   map[string]entity.UserAccount
	failCommit bool
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: map[string]entity.UserAccount{}}
}

func (r *fakeAccountRepo) GetByUsername(_ context.Context, username string) (*entity.UserAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.accounts[username]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *fakeAccountRepo) GetByPendingActivationKey(_ context.Context, key string) (*entity.UserAccount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.accounts {
		if u.ActivationKey == key && !u.Enabled {
			u := u
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeAccountRepo) Create(_ context.Context, u *entity.UserAccount) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCommit {
		return errCommitFailed
	}
	if _, ok := r.accounts[u.Username]; ok {
		return repository.ErrDuplicate
	}
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	r.accounts[u.Username] = *u
	return nil
}

func (r *fakeAccountRepo) Update(_ context.Context, u *entity.UserAccount) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCommit {
		return errCommitFailed
	}
	if _, ok := r.accounts[u.Username]; !ok {
		return repository.ErrNotFound
	}
	u.UpdatedAt = time.Now().UTC()
	r.accounts[u.Username] = *u
	return nil
}

// fakeCache is an in-memory stand-in for the Redis cache. evict simulates
// TTL expiry; failReads makes every Get error like an unreachable cache.
type fakeCache struct {
	mu        sync.Mutex
	entries   map[string]entity.UserAccount
	failReads bool
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]entity.UserAccount{}}
}

func (c *fakeCache) Get(_ context.Context, username string) (*entity.UserAccount, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failReads {
		return nil, false, errors.New("cache unavailable")
	}
	u, ok := c.entries[username]
	if !ok {
		return nil, false, nil
	}
	return &u, true, nil
}

func (c *fakeCache) Put(_ context.Context, u *entity.UserAccount) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[u.Username] = *u
	return nil
}

func (c *fakeCache) Flush(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[string]entity.UserAccount{}
	return nil
}

func (c *fakeCache) evict(username string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, username)
}

func (c *fakeCache) peek(username string) (entity.UserAccount, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	u, ok := c.entries[username]
	return u, ok
}

// fakeDispatcher records submitted jobs.
type fakeDispatcher struct {
	mu   sync.Mutex
	jobs []any
}

func (d *fakeDispatcher) Submit(_ context.Context, task any) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.jobs = append(d.jobs, task)
	return nil
}

func (d *fakeDispatcher) submitted() []any {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]any(nil), d.jobs...)
}

// fakeLoginRepo is an in-memory durable store for persistent logins.
type fakeLoginRepo struct {
	mu         sync.Mutex
	logins     map[string]entity.PersistentLogin // keyed by series
	failCommit bool
}

func newFakeLoginRepo() *fakeLoginRepo {
	return &fakeLoginRepo{logins: map[string]entity.PersistentLogin{}}
}

func (r *fakeLoginRepo) Create(_ context.Context, l *entity.PersistentLogin) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCommit {
		return errCommitFailed
	}
	if _, ok := r.logins[l.Series]; ok {
		return repository.ErrDuplicate
	}
	r.logins[l.Series] = *l
	return nil
}

func (r *fakeLoginRepo) GetBySeries(_ context.Context, series string) (*entity.PersistentLogin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.logins[series]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &l, nil
}

func (r *fakeLoginRepo) FindByUsername(_ context.Context, username string) ([]*entity.PersistentLogin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.PersistentLogin
	for _, l := range r.logins {
		if l.Username == username {
			l := l
			out = append(out, &l)
		}
	}
	return out, nil
}

func (r *fakeLoginRepo) UpdateToken(_ context.Context, series, token string, lastUsed time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.logins[series]
	if !ok {
		return repository.ErrNotFound
	}
	if r.failCommit {
		return errCommitFailed
	}
	l.Token = token
	l.LastUsed = lastUsed
	r.logins[series] = l
	return nil
}

func (r *fakeLoginRepo) DeleteByUsername(_ context.Context, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCommit {
		return errCommitFailed
	}
	for series, l := range r.logins {
		if l.Username == username {
			delete(r.logins, series)
		}
	}
	return nil
}
