package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"chart_backend/internal/feature/resolve/domain"
)

// AliasConfig holds configuration for the remote alias table.
type AliasConfig struct {
	URL string        // location of the company-mappings JSON document
	TTL time.Duration // how long a built index stays fresh
}

// LoadAliasConfig loads alias-table configuration from environment variables.
func LoadAliasConfig() AliasConfig {
	url := os.Getenv("COMPANY_MAPPINGS_URL")
	if url == "" {
		url = "https://stock-backtesting-gmc.pages.dev/company-mappings.json"
	}
	return AliasConfig{URL: url, TTL: 10 * time.Minute}
}

// aliasDocument mirrors the remote JSON shape.
type aliasDocument struct {
	Markets map[string][]aliasRow `json:"markets"`
}

type aliasRow struct {
	Symbol  string   `json:"symbol"`
	Ko      string   `json:"ko"`
	En      string   `json:"en"`
	Aliases []string `json:"aliases"`
}

// aliasIndex holds the per-market and combined alias→symbol maps. An index
// is always built whole from one fetch, never merged incrementally.
type aliasIndex struct {
	kr  map[string]string
	us  map[string]string
	all map[string]string
}

// AliasIndexLoader serves alias lookups from a TTL-cached in-memory index.
// The index is rebuilt at most once per TTL window; any fetch or parse
// failure keeps the previous index so resolution degrades instead of
// failing. Concurrent refreshes may duplicate a fetch; the mutex only
// guards the state swap, last write wins.
type AliasIndexLoader struct {
	cfg    AliasConfig
	client *http.Client
	now    func() time.Time

	mu      sync.Mutex
	builtAt time.Time
	index   *aliasIndex
}

// NewAliasIndexLoader creates an AliasIndexLoader with the given config and
// HTTP client.
func NewAliasIndexLoader(cfg AliasConfig, client *http.Client) *AliasIndexLoader {
	if cfg.TTL <= 0 {
		cfg.TTL = 10 * time.Minute
	}
	return &AliasIndexLoader{cfg: cfg, client: client, now: time.Now}
}

// Lookup resolves a candidate key against the alias index, scoped to market
// when one is given and falling back to the combined map otherwise. A nil
// index (never built) reports a miss for every key.
func (l *AliasIndexLoader) Lookup(ctx context.Context, key, market string) (string, bool) {
	idx := l.load(ctx)
	if idx == nil {
		return "", false
	}
	var m map[string]string
	switch market {
	case domain.MarketKR:
		m = idx.kr
	case domain.MarketUS:
		m = idx.us
	default:
		m = idx.all
	}
	sym, ok := m[key]
	return sym, ok
}

// load returns the cached index, rebuilding it when the TTL has lapsed.
func (l *AliasIndexLoader) load(ctx context.Context) *aliasIndex {
	l.mu.Lock()
	idx, builtAt := l.index, l.builtAt
	l.mu.Unlock()

	now := l.now()
	if idx != nil && now.Sub(builtAt) < l.cfg.TTL {
		return idx
	}

	fresh, err := l.fetch(ctx)
	if err != nil {
		slog.Warn("alias index refresh failed, keeping previous index", "url", l.cfg.URL, "error", err)
		return idx
	}

	l.mu.Lock()
	l.index, l.builtAt = fresh, now
	l.mu.Unlock()
	return fresh
}

func (l *AliasIndexLoader) fetch(ctx context.Context) (*aliasIndex, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.cfg.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Cache-Control", "no-cache")

	res, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("alias table http %d", res.StatusCode)
	}

	var doc aliasDocument
	if err := json.NewDecoder(res.Body).Decode(&doc); err != nil {
		return nil, err
	}
	return buildAliasIndex(doc), nil
}

// buildAliasIndex normalizes every alias of every row into the per-market
// and combined maps. Later rows overwrite earlier ones on key collision.
func buildAliasIndex(doc aliasDocument) *aliasIndex {
	idx := &aliasIndex{
		kr:  map[string]string{},
		us:  map[string]string{},
		all: map[string]string{},
	}

	for _, market := range []string{domain.MarketKR, domain.MarketUS} {
		target := idx.kr
		if market == domain.MarketUS {
			target = idx.us
		}
		for _, row := range doc.Markets[market] {
			symbol := strings.ToUpper(strings.TrimSpace(row.Symbol))
			if symbol == "" {
				continue
			}
			aliases := append([]string{row.Ko, row.En, symbol}, row.Aliases...)
			for _, alias := range aliases {
				k := domain.Normalize(alias)
				if k == "" {
					continue
				}
				target[k] = symbol
				idx.all[k] = symbol
			}
		}
	}

	return idx
}
