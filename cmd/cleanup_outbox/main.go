package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"cloud.google.com/go/spanner"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"

	"github.com/light-bringer/cart-pricing-service/internal/models/m_outbox"
	"github.com/light-bringer/cart-pricing-service/internal/pkg/config"
	"github.com/light-bringer/cart-pricing-service/internal/pkg/logger"
	"github.com/light-bringer/cart-pricing-service/internal/pkg/query"
)

// deleteBatchSize bounds the mutations committed per transaction.
const deleteBatchSize = 500

// Options for the outbox cleanup job
type Options struct {
	SpannerDB              string
	CompletedRetentionDays int
	FailedRetentionDays    int
	DryRun                 bool
}

// retention pairs an event status with the cutoff before which it is removed.
type retention struct {
	status string
	cutoff time.Time
}

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	opts := Options{}
	flag.StringVar(&opts.SpannerDB, "database", cfg.SpannerDB, "Spanner database (format: projects/PROJECT/instances/INSTANCE/databases/DATABASE)")
	flag.IntVar(&opts.CompletedRetentionDays, "completed-retention", 30, "Retention days for completed events")
	flag.IntVar(&opts.FailedRetentionDays, "failed-retention", 90, "Retention days for failed events")
	flag.BoolVar(&opts.DryRun, "dry-run", false, "Show what would be deleted without actually deleting")
	flag.Parse()

	log, err := logger.New(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := cleanupOutbox(context.Background(), opts, log); err != nil {
		log.Fatal("cleanup failed", zap.Error(err))
	}

	log.Info("cleanup completed successfully")
}

func cleanupOutbox(ctx context.Context, opts Options, log *zap.Logger) error {
	client, err := spanner.NewClient(ctx, opts.SpannerDB)
	if err != nil {
		return fmt.Errorf("failed to create Spanner client: %w", err)
	}
	defer client.Close()

	rules := retentionRules(time.Now().UTC(), opts)

	log.Info("starting outbox cleanup",
		zap.String("database", opts.SpannerDB),
		zap.Time("completed_cutoff", rules[0].cutoff),
		zap.Time("failed_cutoff", rules[1].cutoff),
		zap.Bool("dry_run", opts.DryRun),
	)

	var total int64
	for _, rule := range rules {
		var n int64
		if opts.DryRun {
			n, err = query.ScalarInt64(ctx, client.Single(), expiredEvents(rule).Count().Build())
		} else {
			n, err = deleteExpired(ctx, client, rule)
		}
		if err != nil {
			return fmt.Errorf("%s events: %w", rule.status, err)
		}
		log.Info("expired events", zap.String("status", rule.status), zap.Int64("count", n), zap.Bool("dry_run", opts.DryRun))
		total += n
	}

	if opts.DryRun {
		log.Info("dry run: nothing deleted, run without -dry-run to delete", zap.Int64("would_delete", total))
	} else {
		log.Info("deleted expired events", zap.Int64("deleted", total))
	}
	return nil
}

// retentionRules returns the completed and failed cutoffs, in that order.
// Pending events are never removed.
func retentionRules(now time.Time, opts Options) []retention {
	return []retention{
		{status: m_outbox.StatusCompleted, cutoff: now.AddDate(0, 0, -opts.CompletedRetentionDays)},
		{status: m_outbox.StatusFailed, cutoff: now.AddDate(0, 0, -opts.FailedRetentionDays)},
	}
}

func expiredEvents(rule retention) *query.Builder {
	return query.From(m_outbox.TableName).
		Where(query.Eq(m_outbox.Status, rule.status)).
		Where(query.Lt(m_outbox.ProcessedAt, rule.cutoff))
}

// deleteExpired removes matching events in batches and returns how many went.
func deleteExpired(ctx context.Context, client *spanner.Client, rule retention) (int64, error) {
	model := m_outbox.NewModel()
	stmt := expiredEvents(rule).Select(m_outbox.EventID).Limit(deleteBatchSize).Build()

	var deleted int64
	for {
		ids, err := collectIDs(ctx, client, stmt)
		if err != nil {
			return deleted, err
		}
		if len(ids) == 0 {
			return deleted, nil
		}

		mutations := make([]*spanner.Mutation, 0, len(ids))
		for _, id := range ids {
			mutations = append(mutations, model.DeleteMut(id))
		}
		if _, err := client.Apply(ctx, mutations); err != nil {
			return deleted, fmt.Errorf("failed to delete events: %w", err)
		}
		deleted += int64(len(ids))

		if len(ids) < deleteBatchSize {
			return deleted, nil
		}
	}
}

func collectIDs(ctx context.Context, client *spanner.Client, stmt spanner.Statement) ([]string, error) {
	iter := client.Single().Query(ctx, stmt)
	defer iter.Stop()

	var ids []string
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			return ids, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to query events: %w", err)
		}

		var id string
		if err := row.Columns(&id); err != nil {
			return nil, fmt.Errorf("failed to parse row: %w", err)
		}
		ids = append(ids, id)
	}
}
