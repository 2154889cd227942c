package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"cloud.google.com/go/spanner"
	"go.uber.org/zap"

	"github.com/light-bringer/cart-pricing-service/internal/app/cart/queries/list_events"
	"github.com/light-bringer/cart-pricing-service/internal/app/cart/repo"
	"github.com/light-bringer/cart-pricing-service/internal/pkg/config"
	"github.com/light-bringer/cart-pricing-service/internal/pkg/logger"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	database := flag.String("database", cfg.SpannerDB, "Spanner database path")
	eventType := flag.String("type", "", "Only events of this type, e.g. cart.checked_out")
	cartID := flag.String("cart", "", "Only events of this cart")
	status := flag.String("status", "", "Only events in this status (pending, completed, failed)")
	limit := flag.Int("limit", 10, "Maximum number of events")
	flag.Parse()

	log, err := logger.New(logger.Options{Level: cfg.LogLevel, Format: "console"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx := context.Background()

	client, err := spanner.NewClient(ctx, *database)
	if err != nil {
		log.Fatal("failed to create client", zap.Error(err))
	}
	defer client.Close()

	req := &list_events.Request{Limit: *limit}
	if *eventType != "" {
		req.EventType = eventType
	}
	if *cartID != "" {
		req.AggregateID = cartID
	}
	if *status != "" {
		req.Status = status
	}

	events, total, err := list_events.NewQuery(repo.NewEventsReadModel(client)).Execute(ctx, req)
	if err != nil {
		log.Fatal("failed to list events", zap.Error(err))
	}

	if len(events) == 0 {
		fmt.Println("No events found!")
		return
	}

	fmt.Printf("Found %d events (total: %d):\n\n", len(events), total)
	for i, event := range events {
		payload, _ := event.Payload.MarshalJSON()
		fmt.Printf("%d. %s\n", i+1, event.EventType)
		fmt.Printf("   Event ID: %s\n", event.EventID)
		fmt.Printf("   Cart ID: %s\n", event.AggregateID)
		fmt.Printf("   Status: %s\n", event.Status)
		fmt.Printf("   Created: %s\n", event.CreatedAt.Format("2006-01-02 15:04:05"))
		fmt.Printf("   Payload: %s\n\n", payload)
	}
}
