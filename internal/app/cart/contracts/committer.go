package contracts

import (
	"context"

	"github.com/light-bringer/cart-pricing-service/internal/pkg/committer"
)

// Committer applies commit plans atomically.
type Committer interface {
	Apply(ctx context.Context, plan *committer.CommitPlan) error
	ApplyWithVersionCheck(ctx context.Context, guard committer.VersionGuard, plan *committer.CommitPlan) error
}

var _ Committer = (*committer.Committer)(nil)
