package fetcher

import (
	"context"
	"log/slog"
	"time"

	"wapi/internal/weather"
	"wapi/internal/weatherapi"
)

type ConditionsClient interface {
	Current(ctx context.Context, query string, opts ...weatherapi.CallOption) (*weather.Current, error)
}

type Store interface {
	UpsertLocation(ctx context.Context, query string, loc weather.Location) error
	InsertConditions(ctx context.Context, snapshots []weather.Snapshot) error
}

// Fetcher periodically snapshots current conditions for a fixed set of queries.
type Fetcher struct {
	client    ConditionsClient
	store     Store
	locations []string
	now       func() time.Time
}

func New(client ConditionsClient, store Store, locations []string) *Fetcher {
	return &Fetcher{client: client, store: store, locations: locations, now: time.Now}
}

func (f *Fetcher) RunLoop(ctx context.Context, interval time.Duration) {
	if len(f.locations) == 0 {
		slog.Info("no tracked locations, conditions fetcher not started")
		return
	}
	slog.Info("conditions fetcher starting", "interval", interval, "locations", len(f.locations))

	f.fetchConditions(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("conditions fetcher stopped")
			return
		case <-ticker.C:
			f.fetchConditions(ctx)
		}
	}
}

// fetchConditions runs one pass over the tracked locations. A failing
// location is logged and skipped.
func (f *Fetcher) fetchConditions(ctx context.Context) int {
	start := time.Now()
	bulk := weatherapi.NewBulkRequest("current")
	for _, q := range f.locations {
		bulk.Add("", q)
	}

	var snapshots []weather.Snapshot
	var failed int
	for _, q := range bulk.Queries() {
		if ctx.Err() != nil {
			return len(snapshots)
		}
		current, err := f.client.Current(ctx, q.Query)
		if err != nil {
			slog.Error("failed to fetch conditions", "err", err, "query", q.Query, "request_id", q.ID)
			failed++
			continue
		}
		if err := f.store.UpsertLocation(ctx, q.Query, current.Location); err != nil {
			slog.Error("failed to upsert location", "err", err, "query", q.Query)
		}
		snapshots = append(snapshots, weather.Snapshot{Query: q.Query, Current: current, FetchedAt: f.now()})
	}

	if len(snapshots) > 0 {
		if err := f.store.InsertConditions(ctx, snapshots); err != nil {
			slog.Error("failed to insert conditions", "err", err)
			return 0
		}
	}

	slog.Info("conditions fetched",
		"locations", bulk.Len(),
		"stored", len(snapshots),
		"failed", failed,
		"duration", time.Since(start),
	)
	return len(snapshots)
}
