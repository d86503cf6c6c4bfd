// Package store provides durable snapshot storage for the session cart.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/abgdnv/gocart/internal/cart"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgStore implements cart.SnapshotStore using PostgreSQL. The whole cart
// is stored as one JSONB payload under a fixed snapshot key, so a save
// is a single atomic upsert.
type PgStore struct {
	db     *pgxpool.Pool
	key    string
	logger *slog.Logger
}

var _ cart.SnapshotStore = (*PgStore)(nil)

// NewPgStore creates a snapshot store bound to the given snapshot key.
func NewPgStore(dbp *pgxpool.Pool, key string, logger *slog.Logger) *PgStore {
	return &PgStore{
		db:     dbp,
		key:    key,
		logger: logger.With("component", "snapshot_store"),
	}
}

// Load reads the stored snapshot. A missing row yields an empty cart.
// A malformed payload is logged and also yields an empty cart; the bad
// row is overwritten by the next save.
func (p *PgStore) Load(ctx context.Context) ([]cart.Item, error) {
	var payload []byte
	err := p.db.QueryRow(ctx, `SELECT payload FROM cart_snapshots WHERE key = $1`, p.key).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load cart snapshot %q: %w", p.key, err)
	}

	var items []cart.Item
	if err := json.Unmarshal(payload, &items); err != nil {
		p.logger.WarnContext(ctx, "Malformed cart snapshot, starting with an empty cart", "key", p.key, "error", err)
		return nil, nil
	}
	return items, nil
}

// Save upserts the serialized cart under the snapshot key.
func (p *PgStore) Save(ctx context.Context, items []cart.Item) error {
	if items == nil {
		items = []cart.Item{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to serialize cart snapshot: %w", err)
	}
	_, err = p.db.Exec(ctx, `
		INSERT INTO cart_snapshots (key, payload, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()`,
		p.key, payload)
	if err != nil {
		return fmt.Errorf("failed to save cart snapshot %q: %w", p.key, err)
	}
	return nil
}
