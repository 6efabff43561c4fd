package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/yogapermana/accountd/internal/domain/entity"
	"github.com/yogapermana/accountd/internal/domain/repository"
	"github.com/yogapermana/accountd/pkg/mailer"
)

var (
	ErrAccountNotFound  = errors.New("account not found")
	ErrDuplicateAccount = errors.New("account already exists")
	ErrSubjectNotFound  = errors.New("authentication subject not found")
)

// Directory owns the account records. All reads are cache-aside against
// Redis; all writes go through the durable store first, and the cache and
// task queue are only touched after the store transaction committed.
type Directory struct {
	Accounts repository.UserAccountRepository
	Cache    AccountCache
	Tasks    TaskDispatcher
	Logger   *logrus.Logger

	// Optional best-effort search index for the admin surface.
	ES      *elasticsearch.Client
	ESIndex string
}

func NewDirectory(accounts repository.UserAccountRepository, cache AccountCache, tasks TaskDispatcher, logger *logrus.Logger) *Directory {
	return &Directory{Accounts: accounts, Cache: cache, Tasks: tasks, Logger: logger}
}

// LookupByUsername checks the cache first and falls back to the durable
// store on a miss, repopulating the cache when the account exists.
func (s *Directory) LookupByUsername(ctx context.Context, username string) (*entity.UserAccount, error) {
	if u, ok := s.cacheGet(ctx, username); ok {
		return u, nil
	}

	u, err := s.Accounts.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	s.cachePut(ctx, u)
	return u, nil
}

// CreateAccount persists a new account and, only after the store commit
// succeeded, fills the cache and submits the activation-email job. The
// cache is consulted first for a fast positive, but absence in the cache
// proves nothing: the store is always the authority on uniqueness.
func (s *Directory) CreateAccount(ctx context.Context, u *entity.UserAccount, locale string) error {
	if _, ok := s.cacheGet(ctx, u.Username); ok {
		return ErrDuplicateAccount
	}
	if _, err := s.Accounts.GetByUsername(ctx, u.Username); err == nil {
		return ErrDuplicateAccount
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	if err := s.Accounts.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrDuplicateAccount
		}
		return fmt.Errorf("create account: %w", err)
	}

	s.cachePut(ctx, u)
	s.submitActivationEmail(ctx, u.Username, locale)
	s.indexAccount(ctx, u)
	return nil
}

// Activate enables the account holding the given activation key. A key
// that matches no pending account is a no-op, not an error; repeated
// activation with a consumed key therefore returns false.
func (s *Directory) Activate(ctx context.Context, key string) (bool, error) {
	u, err := s.Accounts.GetByPendingActivationKey(ctx, key)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	u.Enabled = true
	if err := s.Accounts.Update(ctx, u); err != nil {
		return false, fmt.Errorf("activate account: %w", err)
	}
	s.cachePut(ctx, u)
	s.indexAccount(ctx, u)
	return true, nil
}

// IsActivationEmailSent reports whether the activation email for the
// account has been dispatched. Feeds the authentication path, so an
// unknown username is a subject-not-found, not a plain not-found.
func (s *Directory) IsActivationEmailSent(ctx context.Context, username string) (bool, error) {
	u, err := s.LookupByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return false, ErrSubjectNotFound
		}
		return false, err
	}
	return u.ActivationEmailSent, nil
}

// MarkActivationEmailSent flips the sent flag on the authoritative record
// and refreshes the cache after the commit.
func (s *Directory) MarkActivationEmailSent(ctx context.Context, username string) error {
	u, err := s.Accounts.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSubjectNotFound
		}
		return err
	}

	u.ActivationEmailSent = true
	if err := s.Accounts.Update(ctx, u); err != nil {
		return fmt.Errorf("mark activation email sent: %w", err)
	}
	s.cachePut(ctx, u)
	return nil
}

// FlushCache drops every cache entry. Administrative surface only.
func (s *Directory) FlushCache(ctx context.Context) error {
	return s.Cache.Flush(ctx)
}

func (s *Directory) cacheGet(ctx context.Context, username string) (*entity.UserAccount, bool) {
	u, ok, err := s.Cache.Get(ctx, username)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("username", username).Warn("cache read failed")
		}
		return nil, false
	}
	return u, ok
}

func (s *Directory) cachePut(ctx context.Context, u *entity.UserAccount) {
	if err := s.Cache.Put(ctx, u); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("username", u.Username).Warn("cache write failed")
	}
}

func (s *Directory) submitActivationEmail(ctx context.Context, username, locale string) {
	if s.Tasks == nil {
		return
	}
	job := mailer.ActivationEmailJob{Username: username, Locale: locale}
	if err := s.Tasks.Submit(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("username", username).Error("activation email job not submitted")
	}
}

func (s *Directory) indexAccount(ctx context.Context, u *entity.UserAccount) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	// Never index password material.
	doc := map[string]any{
		"username":     u.Username,
		"email":        u.Email,
		"display_name": u.DisplayName,
		"role":         u.Role,
		"enabled":      u.Enabled,
		"created_at":   u.CreatedAt.Format(time.RFC3339Nano),
		"updated_at":   u.UpdatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESIndex, DocumentID: u.Username, Body: strings.NewReader(string(b)), Refresh: "false"}

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("username", u.Username).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("username", u.Username).Warn("es index response error")
	}
}

// SearchAccounts runs a multi_match query over the account index. Returns
// an empty slice when search is not configured.
func (s *Directory) SearchAccounts(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"username^2", "email", "display_name"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
