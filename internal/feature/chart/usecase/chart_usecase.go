// Package usecase implements the snapshot read/refresh protocol and the
// chart-window projection for cached full-history payloads.
package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"chart_backend/internal/feature/chart/domain/entity"
)

const (
	// DefaultProviderID is used when a request names no provider.
	DefaultProviderID = "yahoo"

	// SnapshotInterval is the candle interval snapshots are collected at.
	SnapshotInterval = "1mo"

	// SnapshotTTL is how long the backing store keeps a snapshot.
	SnapshotTTL = 14 * 24 * time.Hour

	snapshotKeyPrefix = "snapshot:chart"

	// bootstrapLookback is the full-history window fetched on refresh.
	bootstrapLookback = 30 * 365 * 24 * time.Hour
)

// SnapshotStore abstracts the key-value backing store for snapshots. Get
// reports absence (including TTL expiry, which the store enforces itself)
// via the second return value.
// Following Go convention: interfaces are defined by the consumer (usecase).
type SnapshotStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// ChartProvider is the upstream market-data capability: a full-history chart
// fetch returning the provider's raw JSON response.
type ChartProvider interface {
	FetchChart(ctx context.Context, symbol string, from, to int64) (json.RawMessage, error)
}

// ChartUsecase serves chart reads from persisted snapshots and performs
// admin-gated snapshot refreshes. Reads never trigger upstream calls;
// freshness is entirely refresh-driven.
type ChartUsecase struct {
	store     SnapshotStore
	providers map[string]ChartProvider
	adminKey  string
	now       func() time.Time
}

// NewChartUsecase creates a ChartUsecase. An empty adminKey disables the
// refresh path entirely. Unknown provider ids fall back to the default.
func NewChartUsecase(store SnapshotStore, providers map[string]ChartProvider, adminKey string) *ChartUsecase {
	return &ChartUsecase{
		store:     store,
		providers: providers,
		adminKey:  adminKey,
		now:       time.Now,
	}
}

// SnapshotKey composes the deterministic store key for one (provider,
// symbol) pair. The symbol is uppercased so request casing never splits the
// cache.
func SnapshotKey(providerID, symbol string) string {
	return fmt.Sprintf("%s:%s:%s:%s", snapshotKeyPrefix, providerID, strings.ToUpper(symbol), SnapshotInterval)
}

// resolveProvider maps a request's provider parameter to a registered
// provider, falling back to the default for unknown or empty ids.
func (u *ChartUsecase) resolveProvider(providerID string) (string, ChartProvider) {
	id := strings.ToLower(strings.TrimSpace(providerID))
	if p, ok := u.providers[id]; ok {
		return id, p
	}
	return DefaultProviderID, u.providers[DefaultProviderID]
}

// Refresh replaces the snapshot for (provider, symbol) with the full
// available history up to now. It requires the configured admin key; with no
// key configured every refresh is rejected. On upstream failure the existing
// snapshot is left untouched.
func (u *ChartUsecase) Refresh(ctx context.Context, providerID, symbol, adminKey string) error {
	if u.adminKey == "" || adminKey != u.adminKey {
		return ErrUnauthorized
	}

	id, provider := u.resolveProvider(providerID)
	if provider == nil {
		return fmt.Errorf("no provider registered for %q", id)
	}

	to := u.now().Unix()
	from := to - int64(bootstrapLookback/time.Second)
	if from < 0 {
		from = 0
	}

	payload, err := provider.FetchChart(ctx, symbol, from, to)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	snap := entity.Snapshot{
		Provider:  id,
		Symbol:    symbol,
		Interval:  SnapshotInterval,
		UpdatedAt: u.now().UTC().Format(time.RFC3339),
		Payload:   payload,
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		return err
	}

	return u.store.Put(ctx, SnapshotKey(id, symbol), raw, SnapshotTTL)
}

// GetChart reads the snapshot for (provider, symbol) and projects it to the
// [from, to] window. from <= 0 means the beginning of time, to <= 0 means
// now. It returns the sliced payload and the snapshot's update time.
func (u *ChartUsecase) GetChart(ctx context.Context, providerID, symbol string, from, to int64) (json.RawMessage, string, error) {
	id, _ := u.resolveProvider(providerID)

	raw, ok, err := u.store.Get(ctx, SnapshotKey(id, symbol))
	if err != nil {
		return nil, "", err
	}
	if !ok {
		return nil, "", ErrSnapshotNotReady
	}

	var snap entity.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, "", fmt.Errorf("corrupt snapshot for %s: %w", SnapshotKey(id, symbol), err)
	}
	if len(snap.Payload) == 0 {
		return nil, "", ErrSnapshotNotReady
	}

	if from < 0 {
		from = 0
	}
	if to <= 0 {
		to = u.now().Unix()
	}

	sliced, err := SliceChartPayload(snap.Payload, from, to)
	if err != nil {
		return nil, "", err
	}
	return sliced, snap.UpdatedAt, nil
}
