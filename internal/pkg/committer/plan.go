// Package committer implements the Golden Mutation Pattern for Spanner transactions.
//
// Domain aggregates change state in memory, repositories translate those
// changes into Spanner mutations without applying them, and usecases collect
// the mutations (aggregate rows plus outbox events) into a CommitPlan that is
// applied atomically at the end:
//
//	cart, err := carts.GetByID(ctx, cartID)
//	if err := cart.Checkout(at, prices); err != nil {
//	    return err
//	}
//
//	plan := committer.NewPlan()
//	plan.AddMultiple(carts.UpdateMuts(cart))
//	for _, event := range cart.DomainEvents() {
//	    plan.Add(outbox.InsertMut(outbox.EnrichEvent(event, payload)))
//	}
//
//	return comm.ApplyWithVersionCheck(ctx, committer.VersionGuard{...}, plan)
//
// Either every mutation in the plan is written or none is.
package committer

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/spanner"
)

// ErrOptimisticLockConflict is returned when the guarded row changed after it was loaded.
var ErrOptimisticLockConflict = errors.New("optimistic lock conflict: concurrent modification detected")

// CommitPlan is a typed wrapper around Spanner mutations.
// It collects mutations from multiple sources and applies them atomically.
type CommitPlan struct {
	mutations []*spanner.Mutation
}

// NewPlan creates a new empty CommitPlan.
func NewPlan() *CommitPlan {
	return &CommitPlan{
		mutations: make([]*spanner.Mutation, 0),
	}
}

// Add adds a mutation to the plan.
// Nil mutations are silently ignored for convenience.
func (cp *CommitPlan) Add(mut *spanner.Mutation) {
	if mut != nil {
		cp.mutations = append(cp.mutations, mut)
	}
}

// AddMultiple adds multiple mutations to the plan.
func (cp *CommitPlan) AddMultiple(muts []*spanner.Mutation) {
	for _, mut := range muts {
		cp.Add(mut)
	}
}

// Mutations returns all collected mutations.
func (cp *CommitPlan) Mutations() []*spanner.Mutation {
	return cp.mutations
}

// IsEmpty returns true if the plan has no mutations.
func (cp *CommitPlan) IsEmpty() bool {
	return len(cp.mutations) == 0
}

// Count returns the number of mutations in the plan.
func (cp *CommitPlan) Count() int {
	return len(cp.mutations)
}

// VersionGuard identifies the row whose version must still match when the plan is applied.
type VersionGuard struct {
	Table           string
	Key             spanner.Key
	VersionColumn   string
	ExpectedVersion int64
}

// Committer provides transaction execution for CommitPlans.
type Committer struct {
	client *spanner.Client
}

// NewCommitter creates a new Committer.
func NewCommitter(client *spanner.Client) *Committer {
	return &Committer{client: client}
}

// Apply executes the CommitPlan atomically within a Spanner read-write transaction.
func (c *Committer) Apply(ctx context.Context, plan *CommitPlan) error {
	if plan == nil || plan.IsEmpty() {
		return nil
	}

	_, err := c.client.ReadWriteTransaction(ctx, func(ctx context.Context, txn *spanner.ReadWriteTransaction) error {
		return txn.BufferWrite(plan.Mutations())
	})
	if err != nil {
		return fmt.Errorf("failed to apply commit plan: %w", err)
	}

	return nil
}

// ApplyWithVersionCheck executes the CommitPlan with optimistic locking.
// The guarded row is re-read inside the transaction; if its version differs
// from the one the aggregate was loaded with, nothing is written and
// ErrOptimisticLockConflict is returned.
func (c *Committer) ApplyWithVersionCheck(ctx context.Context, guard VersionGuard, plan *CommitPlan) error {
	if plan == nil || plan.IsEmpty() {
		return nil
	}

	_, err := c.client.ReadWriteTransaction(ctx, func(ctx context.Context, txn *spanner.ReadWriteTransaction) error {
		row, err := txn.ReadRow(ctx, guard.Table, guard.Key, []string{guard.VersionColumn})
		if err != nil {
			return fmt.Errorf("failed to read %s version: %w", guard.Table, err)
		}

		var current int64
		if err := row.Column(0, &current); err != nil {
			return fmt.Errorf("failed to parse version: %w", err)
		}

		if current != guard.ExpectedVersion {
			return fmt.Errorf("%w: expected version %d, got %d", ErrOptimisticLockConflict, guard.ExpectedVersion, current)
		}

		return txn.BufferWrite(plan.Mutations())
	})
	if err != nil {
		if errors.Is(err, ErrOptimisticLockConflict) {
			return err
		}
		return fmt.Errorf("failed to apply commit plan with version check: %w", err)
	}

	return nil
}
