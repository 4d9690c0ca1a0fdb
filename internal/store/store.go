package store

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"wapi/internal/weather"
	"wapi/internal/weatherapi"
)

//go:embed schema.sql
var schema string

type Store struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to db: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// UpsertLocation records the location a tracked query resolved to.
func (s *Store) UpsertLocation(ctx context.Context, query string, loc weather.Location) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO tracked_locations (query, name, region, country, lat, lon, tz_id, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		 ON CONFLICT (query) DO UPDATE SET
		   name = $2, region = $3, country = $4, lat = $5, lon = $6, tz_id = $7, updated_at = NOW()`,
		query, loc.Name, loc.Region, loc.Country, loc.Lat, loc.Lon, loc.TimezoneID,
	)
	if err != nil {
		return fmt.Errorf("upsert location: %w", err)
	}
	return nil
}

// InsertConditions stores snapshots in one batch. A snapshot for a reading
// already stored (same query and last_updated_epoch) only refreshes fetched_at.
func (s *Store) InsertConditions(ctx context.Context, snapshots []weather.Snapshot) error {
	batch := &pgx.Batch{}
	for _, snap := range snapshots {
		c := snap.Current
		if c == nil {
			return fmt.Errorf("insert conditions: snapshot for %q has no conditions", snap.Query)
		}
		payload, err := json.Marshal(c.Raw)
		if err != nil {
			return fmt.Errorf("encode conditions payload: %w", err)
		}
		batch.Queue(
			`INSERT INTO conditions (
				query, last_updated_epoch, fetched_at, temp_c, feelslike_c, humidity,
				wind_kph, wind_dir, condition_text, condition_code, is_day, payload
			)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			 ON CONFLICT (query, last_updated_epoch) DO UPDATE SET fetched_at = $3`,
			snap.Query, c.LastUpdatedEpoch, snap.FetchedAt, c.TempC, c.FeelsLikeC, c.Humidity,
			c.WindKPH, c.WindDir, c.Condition.Text, c.Condition.Code, c.IsDay, payload,
		)
	}
	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()
	for range snapshots {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("insert conditions: %w", err)
		}
	}
	return nil
}

// LatestConditions returns the most recently fetched snapshot for query,
// rebuilt from the stored payload. It returns weather.ErrNoSnapshot when
// nothing is stored.
func (s *Store) LatestConditions(ctx context.Context, query string) (*weather.Snapshot, error) {
	var payload []byte
	var fetchedAt time.Time
	err := s.pool.QueryRow(ctx,
		`SELECT payload, fetched_at
		 FROM conditions
		 WHERE query = $1
		 ORDER BY fetched_at DESC
		 LIMIT 1`,
		query,
	).Scan(&payload, &fetchedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, weather.ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("latest conditions: %w", err)
	}

	current, err := decodeConditions(payload)
	if err != nil {
		return nil, fmt.Errorf("latest conditions: %w", err)
	}
	return &weather.Snapshot{Query: query, Current: current, FetchedAt: fetchedAt}, nil
}

func decodeConditions(payload []byte) (*weather.Current, error) {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return weatherapi.ParseCurrent(raw, 200, nil)
}
