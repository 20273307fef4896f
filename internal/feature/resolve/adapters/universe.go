package adapters

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/encoding/korean"

	"chart_backend/internal/feature/resolve/domain"
)

// UniverseConfig holds the remote listing sources for the market universes.
type UniverseConfig struct {
	// KRXListURL is the corpList.do download endpoint; the marketType query
	// parameter selects the sub-market segment.
	KRXListURL string
	KRXReferer string
	// ConstituentsURL is the S&P 500 constituents page; the table with
	// id="constituents" is scraped.
	ConstituentsURL string
	TTL             time.Duration
}

// LoadUniverseConfig loads universe-scrape configuration from environment
// variables, with the well-known public sources as defaults.
func LoadUniverseConfig() UniverseConfig {
	cfg := UniverseConfig{
		KRXListURL:      os.Getenv("KRX_CORP_LIST_URL"),
		ConstituentsURL: os.Getenv("SP500_CONSTITUENTS_URL"),
		KRXReferer:      "https://kind.krx.co.kr/",
		TTL:             24 * time.Hour,
	}
	if cfg.KRXListURL == "" {
		cfg.KRXListURL = "https://kind.krx.co.kr/corpgeneral/corpList.do?method=download"
	}
	if cfg.ConstituentsURL == "" {
		cfg.ConstituentsURL = "https://en.wikipedia.org/wiki/List_of_S%26P_500_companies"
	}
	return cfg
}

// UniverseLoader scrapes the KRX listing service and the constituents table
// into per-market NormalizedKey→symbol maps, cached per market for the TTL.
// A failed scrape keeps the previous map; a nil map means the universe is
// unavailable, which is different from an empty one ("no companies").
type UniverseLoader struct {
	cfg    UniverseConfig
	client *http.Client
	now    func() time.Time

	mu        sync.Mutex
	krBuiltAt time.Time
	kr        map[string]string
	usBuiltAt time.Time
	us        map[string]string
}

// NewUniverseLoader creates a UniverseLoader with the given config and HTTP
// client.
func NewUniverseLoader(cfg UniverseConfig, client *http.Client) *UniverseLoader {
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	return &UniverseLoader{cfg: cfg, client: client, now: time.Now}
}

// Lookup resolves a candidate key against the universe of the given market.
// Markets other than kr/us have no universe and always miss.
func (l *UniverseLoader) Lookup(ctx context.Context, key, market string) (string, bool) {
	var m map[string]string
	switch market {
	case domain.MarketKR:
		m = l.loadKR(ctx)
	case domain.MarketUS:
		m = l.loadUS(ctx)
	default:
		return "", false
	}
	if m == nil {
		return "", false
	}
	sym, ok := m[key]
	return sym, ok
}

// loadKR returns the Korean universe, scraping both sub-market segments
// concurrently when the cache is stale. KOSDAQ entries overwrite KOSPI ones
// on key collision.
func (l *UniverseLoader) loadKR(ctx context.Context) map[string]string {
	l.mu.Lock()
	cached, builtAt := l.kr, l.krBuiltAt
	l.mu.Unlock()

	now := l.now()
	if cached != nil && now.Sub(builtAt) < l.cfg.TTL {
		return cached
	}

	var kospi, kosdaq map[string]string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		kospi, err = l.fetchKRXMap(gctx, "stockMkt", ".KS")
		return err
	})
	g.Go(func() error {
		var err error
		kosdaq, err = l.fetchKRXMap(gctx, "kosdaqMkt", ".KQ")
		return err
	})
	if err := g.Wait(); err != nil {
		slog.Warn("kr universe refresh failed, keeping previous map", "error", err)
		return cached
	}

	merged := make(map[string]string, len(kospi)+len(kosdaq))
	for k, v := range kospi {
		merged[k] = v
	}
	for k, v := range kosdaq {
		merged[k] = v
	}

	l.mu.Lock()
	l.kr, l.krBuiltAt = merged, now
	l.mu.Unlock()
	return merged
}

// fetchKRXMap downloads one sub-market listing and builds its key→symbol
// map. The payload is EUC-KR; a decode failure falls back to the raw bytes.
func (l *UniverseLoader) fetchKRXMap(ctx context.Context, marketType, suffix string) (map[string]string, error) {
	url := fmt.Sprintf("%s&marketType=%s", l.cfg.KRXListURL, marketType)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Referer", l.cfg.KRXReferer)

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
		return nil, fmt.Errorf("krx listing http %d", res.StatusCode)
	}

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	html := decodeEUCKR(raw)

	m := map[string]string{}
	for _, cells := range tableRows(html) {
		if len(cells) < 2 {
			continue
		}
		name := cells[0]
		code := nonDigitRe.ReplaceAllString(cells[1], "")
		if name == "" || len(code) != 6 {
			continue
		}
		symbol := code + suffix
		for _, key := range domain.CandidateKeys(name) {
			m[key] = symbol
		}
	}
	return m, nil
}

var nonDigitRe = regexp.MustCompile(`\D`)

// decodeEUCKR decodes KRX's EUC-KR payload, falling back to interpreting the
// bytes as UTF-8 when the decode fails.
func decodeEUCKR(raw []byte) string {
	decoded, err := korean.EUCKR.NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw)
	}
	return string(decoded)
}

// loadUS returns the US universe, scraping the constituents table when the
// cache is stale.
func (l *UniverseLoader) loadUS(ctx context.Context) map[string]string {
	l.mu.Lock()
	cached, builtAt := l.us, l.usBuiltAt
	l.mu.Unlock()

	now := l.now()
	if cached != nil && now.Sub(builtAt) < l.cfg.TTL {
		return cached
	}

	fresh, err := l.fetchConstituentsMap(ctx)
	if err != nil {
		slog.Warn("us universe refresh failed, keeping previous map", "error", err)
		return cached
	}

	l.mu.Lock()
	l.us, l.usBuiltAt = fresh, now
	l.mu.Unlock()
	return fresh
}

func (l *UniverseLoader) fetchConstituentsMap(ctx context.Context) (map[string]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.cfg.ConstituentsURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

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
		return nil, fmt.Errorf("constituents page http %d", res.StatusCode)
	}

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	table, ok := findTableByID(string(raw), "constituents")
	if !ok {
		return nil, fmt.Errorf("constituents table not found")
	}

	m := map[string]string{}
	for _, cells := range tableRows(table) {
		if len(cells) < 2 {
			continue
		}
		rawSymbol, name := cells[0], cells[1]
		if rawSymbol == "" || name == "" {
			continue
		}
		// Listing pages use period share-class notation; quote symbols use
		// hyphens (BRK.B -> BRK-B).
		symbol := strings.ToUpper(strings.ReplaceAll(rawSymbol, ".", "-"))
		for _, key := range domain.CandidateKeys(name) {
			m[key] = symbol
		}
		m[domain.Normalize(symbol)] = symbol
	}
	return m, nil
}
