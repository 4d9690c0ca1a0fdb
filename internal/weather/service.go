package weather

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// ErrNoSnapshot is returned by a ConditionsStore with nothing stored for a query.
var ErrNoSnapshot = errors.New("no stored conditions")

// Snapshot is current conditions for a query as recorded at FetchedAt.
type Snapshot struct {
	Query     string
	Current   *Current
	FetchedAt time.Time
}

// Report is what the service answers for a weather lookup.
type Report struct {
	Current   *Current  `json:"current"`
	Forecast  *Forecast `json:"forecast,omitempty"`
	Source    string    `json:"source"`
	FetchedAt time.Time `json:"fetched_at"`
}

const (
	SourceStore = "store"
	SourceLive  = "live"
)

type ConditionsStore interface {
	LatestConditions(ctx context.Context, query string) (*Snapshot, error)
	InsertConditions(ctx context.Context, snapshots []Snapshot) error
}

// Provider is the upstream weather API.
type Provider interface {
	Current(ctx context.Context, query string) (*Current, error)
	Forecast(ctx context.Context, query string, days int) (*Forecast, error)
	History(ctx context.Context, query, date string) (*Forecast, error)
	Future(ctx context.Context, query, date string) (*Forecast, error)
	Astronomy(ctx context.Context, query, date string) (*Astronomy, error)
	Marine(ctx context.Context, query string, days int) (*Marine, error)
	IPLookup(ctx context.Context, ip string) (*IPInfo, error)
	Sports(ctx context.Context, query string) (*Sports, error)
	Search(ctx context.Context, query string) ([]Location, error)
}

type forecastKey struct {
	query string
	days  int
}

type Service struct {
	store         ConditionsStore
	provider      Provider
	forecastCache *Cache[forecastKey, *Forecast]
	maxAge        time.Duration
	now           func() time.Time
}

func NewService(store ConditionsStore, provider Provider, forecastCacheTTL time.Duration) *Service {
	return &Service{
		store:         store,
		provider:      provider,
		forecastCache: NewCache[forecastKey, *Forecast](forecastCacheTTL),
		maxAge:        30 * time.Minute,
		now:           time.Now,
	}
}

// Weather returns current conditions for query, from the store when the
// latest snapshot is recent enough, plus days of forecast when days > 0.
func (s *Service) Weather(ctx context.Context, query string, days int) (*Report, error) {
	report, err := s.current(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("current: %w", err)
	}
	if days > 0 {
		forecast, err := s.forecast(ctx, query, days)
		if err != nil {
			return nil, fmt.Errorf("forecast: %w", err)
		}
		report.Forecast = forecast
	}
	return report, nil
}

func (s *Service) current(ctx context.Context, query string) (*Report, error) {
	snap, err := s.store.LatestConditions(ctx, query)
	switch {
	case err == nil && snap != nil && s.now().Sub(snap.FetchedAt) <= s.maxAge:
		return &Report{Current: snap.Current, Source: SourceStore, FetchedAt: snap.FetchedAt}, nil
	case err != nil && !errors.Is(err, ErrNoSnapshot):
		slog.Warn("failed to load stored conditions", "err", err, "query", query)
	}

	current, err := s.provider.Current(ctx, query)
	if err != nil {
		return nil, err
	}
	fetchedAt := s.now()
	if storeErr := s.store.InsertConditions(ctx, []Snapshot{{Query: query, Current: current, FetchedAt: fetchedAt}}); storeErr != nil {
		slog.Warn("failed to store conditions", "err", storeErr, "query", query)
	}
	return &Report{Current: current, Source: SourceLive, FetchedAt: fetchedAt}, nil
}

func (s *Service) forecast(ctx context.Context, query string, days int) (*Forecast, error) {
	key := forecastKey{query: strings.ToLower(strings.TrimSpace(query)), days: days}
	if cached, ok := s.forecastCache.Get(key); ok {
		return cached, nil
	}

	forecast, err := s.provider.Forecast(ctx, query, days)
	if err != nil {
		return nil, err
	}
	s.forecastCache.Set(key, forecast)
	return forecast, nil
}

func (s *Service) History(ctx context.Context, query, date string) (*Forecast, error) {
	return s.provider.History(ctx, query, date)
}

func (s *Service) Future(ctx context.Context, query, date string) (*Forecast, error) {
	return s.provider.Future(ctx, query, date)
}

func (s *Service) Astronomy(ctx context.Context, query, date string) (*Astronomy, error) {
	return s.provider.Astronomy(ctx, query, date)
}

func (s *Service) Marine(ctx context.Context, query string, days int) (*Marine, error) {
	return s.provider.Marine(ctx, query, days)
}

func (s *Service) IPLookup(ctx context.Context, ip string) (*IPInfo, error) {
	return s.provider.IPLookup(ctx, ip)
}

func (s *Service) Sports(ctx context.Context, query string) (*Sports, error) {
	return s.provider.Sports(ctx, query)
}

func (s *Service) Search(ctx context.Context, query string) ([]Location, error) {
	return s.provider.Search(ctx, query)
}
