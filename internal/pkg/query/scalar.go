package query

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
)

// Querier runs a statement. *spanner.ReadOnlyTransaction and
// *spanner.ReadWriteTransaction both satisfy it.
type Querier interface {
	Query(ctx context.Context, statement spanner.Statement) *spanner.RowIterator
}

// ScalarInt64 runs a single-row, single-column statement such as a Count query.
func ScalarInt64(ctx context.Context, q Querier, stmt spanner.Statement) (int64, error) {
	iter := q.Query(ctx, stmt)
	defer iter.Stop()

	row, err := iter.Next()
	if err != nil {
		return 0, fmt.Errorf("failed to run scalar query: %w", err)
	}

	var v int64
	if err := row.Columns(&v); err != nil {
		return 0, fmt.Errorf("failed to parse scalar result: %w", err)
	}
	return v, nil
}
