package routing

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// PGCache keeps provider results in Postgres so they survive restarts.
// This is the one piece of state the engine is allowed to persist between
// optimization calls.
type PGCache struct {
	db  *sql.DB
	ttl time.Duration
}

func NewPGCache(databaseURL string, ttl time.Duration) (*PGCache, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return &PGCache{db: db, ttl: ttl}, nil
}

// Init creates the cache table if it does not exist.
func (c *PGCache) Init(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS route_cache (
			key        text PRIMARY KEY,
			payload    jsonb NOT NULL,
			expires_at timestamptz NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("init route_cache: %w", err)
	}
	return nil
}

func (c *PGCache) Get(ctx context.Context, key string) (Route, bool, error) {
	var data []byte
	err := c.db.QueryRowContext(ctx,
		`SELECT payload FROM route_cache WHERE key = $1 AND expires_at > now()`, key,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return Route{}, false, nil
	}
	if err != nil {
		return Route{}, false, fmt.Errorf("route_cache get: %w", err)
	}
	var r Route
	if err := json.Unmarshal(data, &r); err != nil {
		return Route{}, false, fmt.Errorf("decode cached route: %w", err)
	}
	return r, true, nil
}

func (c *PGCache) Put(ctx context.Context, key string, r Route) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode route: %w", err)
	}
	_, err = c.db.ExecContext(ctx, `
		INSERT INTO route_cache (key, payload, expires_at)
		VALUES ($1, $2, now() + $3::interval)
		ON CONFLICT (key) DO UPDATE SET payload = EXCLUDED.payload, expires_at = EXCLUDED.expires_at`,
		key, data, fmt.Sprintf("%f seconds", c.ttl.Seconds()),
	)
	if err != nil {
		return fmt.Errorf("route_cache put: %w", err)
	}
	return nil
}

// Prune removes expired rows; intended for a periodic caller.
func (c *PGCache) Prune(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM route_cache WHERE expires_at <= now()`)
	if err != nil {
		return fmt.Errorf("route_cache prune: %w", err)
	}
	return nil
}

func (c *PGCache) Close() error { return c.db.Close() }
