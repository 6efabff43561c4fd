package application

import (
	"context"

	"github.com/yogapermana/accountd/internal/domain/entity"
)

// AccountCache is the volatile cache boundary. The cache is best-effort:
// it may miss for any reason and is never the source of truth.
type AccountCache interface {
	Get(ctx context.Context, username string) (*entity.UserAccount, bool, error)
	Put(ctx context.Context, u *entity.UserAccount) error
	Flush(ctx context.Context) error
}

// TaskDispatcher submits fire-and-forget background jobs. Submission must
// not block on the job actually running.
type TaskDispatcher interface {
	Submit(ctx context.Context, task any) error
}
