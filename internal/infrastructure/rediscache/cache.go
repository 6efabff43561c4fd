package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yogapermana/accountd/internal/domain/entity"
)

// AccountCache stores account records in Redis as JSON with a fixed TTL.
// It is a read-through accelerator only: a miss for any reason (expiry,
// eviction, redis down) is reported as absent, never as failure of the
// lookup itself.
type AccountCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(rdb *redis.Client, ttl time.Duration) *AccountCache {
	return &AccountCache{rdb: rdb, ttl: ttl}
}

func accountKey(username string) string {
	return "account:" + username
}

// Get returns the cached account, or ok=false on a miss.
func (c *AccountCache) Get(ctx context.Context, username string) (*entity.UserAccount, bool, error) {
	b, err := c.rdb.Get(ctx, accountKey(username)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	u := &entity.UserAccount{}
	if err := json.Unmarshal(b, u); err != nil {
		return nil, false, err
	}
	return u, true, nil
}

// Put stores the account under its username with the configured TTL.
func (c *AccountCache) Put(ctx context.Context, u *entity.UserAccount) error {
	b, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, accountKey(u.Username), b, c.ttl).Err()
}

// Flush drops the whole cache. Administrative use only.
func (c *AccountCache) Flush(ctx context.Context) error {
	return c.rdb.FlushDB(ctx).Err()
}
