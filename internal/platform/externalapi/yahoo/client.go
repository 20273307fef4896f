package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	chartusecase "chart_backend/internal/feature/chart/usecase"
	"chart_backend/internal/feature/resolve/domain"
	resolveusecase "chart_backend/internal/feature/resolve/usecase"
	"chart_backend/internal/platform/externalapi/yahoo/dto"
)

// Client calls the Yahoo Finance query API.
type Client struct {
	cfg    Config
	client *http.Client
}

// Compile-time checks that Client satisfies the provider capabilities.
var (
	_ chartusecase.ChartProvider   = (*Client)(nil)
	_ resolveusecase.QuoteSearcher = (*Client)(nil)
)

// NewClient creates a Client with the given config and HTTP client.
func NewClient(cfg Config, client *http.Client) *Client {
	return &Client{cfg: cfg, client: client}
}

// FetchChart fetches the monthly chart history for symbol over [from, to]
// and returns the raw response body. The payload is stored verbatim in
// snapshots, so no decoding happens here.
func (c *Client) FetchChart(ctx context.Context, symbol string, from, to int64) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("period1", strconv.FormatInt(from, 10))
	q.Set("period2", strconv.FormatInt(to, 10))
	q.Set("interval", "1mo")
	q.Set("events", "history")

	u := fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.cfg.BaseURL, url.PathEscape(symbol), q.Encode())

	body, err := c.get(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("yahoo chart %s: %w", symbol, err)
	}
	return body, nil
}

// SearchQuotes runs the fuzzy quote search and returns the result rows.
func (c *Client) SearchQuotes(ctx context.Context, query string, count int) ([]domain.Quote, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("quotesCount", strconv.Itoa(count))
	q.Set("newsCount", "0")

	u := fmt.Sprintf("%s/v1/finance/search?%s", c.cfg.BaseURL, q.Encode())

	body, err := c.get(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("yahoo search %q: %w", query, err)
	}

	var res dto.SearchResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("yahoo search %q: %w", query, err)
	}

	quotes := make([]domain.Quote, 0, len(res.Quotes))
	for _, row := range res.Quotes {
		quotes = append(quotes, domain.Quote{
			Symbol:    strings.ToUpper(strings.TrimSpace(row.Symbol)),
			ShortName: row.Shortname,
			LongName:  row.Longname,
			QuoteType: row.QuoteType,
		})
	}
	return quotes, nil
}

func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	res, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("http %d: %s", res.StatusCode, truncate(string(body), 200))
	}
	return body, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
