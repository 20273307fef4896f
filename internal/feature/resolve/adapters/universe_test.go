package adapters

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/text/encoding/korean"
)

const kospiFixture = `<html><body><table>
<tr><th>회사명</th><th>종목코드</th></tr>
<tr><td>삼성전자</td><td>005930</td></tr>
<tr><td>엘지전자</td><td>066570</td></tr>
<tr><td>비상장테스트</td><td>12345</td></tr>
</table></body></html>`

const kosdaqFixture = `<html><body><table>
<tr><td>에코프로</td><td>086520</td></tr>
<tr><td>삼성전자</td><td>999999</td></tr>
</table></body></html>`

const constituentsFixture = `<html><body>
<table id="wrong"><tr><td>ZZZ</td><td>Wrong Table</td></tr></table>
<table class="wikitable sortable" id="constituents">
<tr><th>Symbol</th><th>Security</th></tr>
<tr><td><a href="#">AAPL</a></td><td>Apple Inc.</td></tr>
<tr><td>BRK.B</td><td>Berkshire Hathaway</td></tr>
</table></body></html>`

// eucKR encodes a fixture the way the KRX listing service serves it.
func eucKR(t *testing.T, s string) []byte {
	t.Helper()
	b, err := korean.EUCKR.NewEncoder().Bytes([]byte(s))
	if err != nil {
		t.Fatalf("failed to encode fixture: %v", err)
	}
	return b
}

func newUniverseLoader(t *testing.T, handler http.HandlerFunc) *UniverseLoader {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	cfg := UniverseConfig{
		KRXListURL:      server.URL + "/corpList.do?method=download",
		KRXReferer:      server.URL,
		ConstituentsURL: server.URL + "/constituents",
		TTL:             time.Hour,
	}
	return NewUniverseLoader(cfg, server.Client())
}

func krxHandler(t *testing.T, calls *atomic.Int32) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			calls.Add(1)
		}
		switch r.URL.Query().Get("marketType") {
		case "stockMkt":
			_, _ = w.Write(eucKR(t, kospiFixture))
		case "kosdaqMkt":
			_, _ = w.Write(eucKR(t, kosdaqFixture))
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}
}

func TestUniverseLoader_KRLookup(t *testing.T) {
	t.Parallel()

	loader := newUniverseLoader(t, krxHandler(t, nil))
	ctx := context.Background()

	tests := []struct {
		name string
		key  string
		want string
		hit  bool
	}{
		{name: "kospi row", key: "삼성전자", want: "999999.KQ", hit: true}, // kosdaq overwrites on collision
		{name: "expanded key variant", key: "lg전자", want: "066570.KS", hit: true},
		{name: "original spelling", key: "엘지전자", want: "066570.KS", hit: true},
		{name: "kosdaq suffix", key: "에코프로", want: "086520.KQ", hit: true},
		{name: "short code skipped", key: "비상장테스트", hit: false},
		{name: "unknown name", key: "없는회사", hit: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sym, ok := loader.Lookup(ctx, tt.key, "kr")
			if ok != tt.hit {
				t.Fatalf("Lookup(%q) hit = %v, want %v", tt.key, ok, tt.hit)
			}
			if ok && sym != tt.want {
				t.Errorf("Lookup(%q) = %q, want %q", tt.key, sym, tt.want)
			}
		})
	}
}

func TestUniverseLoader_KRFetchesBothSegmentsOnce(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	loader := newUniverseLoader(t, krxHandler(t, &calls))

	ctx := context.Background()
	loader.Lookup(ctx, "삼성전자", "kr")
	loader.Lookup(ctx, "에코프로", "kr")

	if got := calls.Load(); got != 2 {
		t.Errorf("expected exactly 2 segment fetches (one per sub-market), got %d", got)
	}
}

func TestUniverseLoader_KRKeepsStaleMapOnFailure(t *testing.T) {
	t.Parallel()

	var fail atomic.Bool
	loader := newUniverseLoader(t, func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		krxHandler(t, nil)(w, r)
	})

	current := time.Now()
	loader.now = func() time.Time { return current }

	ctx := context.Background()
	if _, ok := loader.Lookup(ctx, "삼성전자", "kr"); !ok {
		t.Fatal("expected initial scrape to succeed")
	}

	fail.Store(true)
	current = current.Add(25 * time.Hour)

	if sym, ok := loader.Lookup(ctx, "엘지전자", "kr"); !ok || sym != "066570.KS" {
		t.Errorf("expected stale map to serve, got (%q, %v)", sym, ok)
	}
}

func TestUniverseLoader_USLookup(t *testing.T) {
	t.Parallel()

	loader := newUniverseLoader(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(constituentsFixture))
	})
	ctx := context.Background()

	tests := []struct {
		name string
		key  string
		want string
		hit  bool
	}{
		{name: "company name", key: "appleinc", want: "AAPL", hit: true},
		{name: "symbol maps to itself", key: "aapl", want: "AAPL", hit: true},
		{name: "period becomes hyphen", key: "berkshirehathaway", want: "BRK-B", hit: true},
		{name: "normalized hyphenated symbol", key: "brkb", want: "BRK-B", hit: true},
		{name: "row from wrong table ignored", key: "wrongtable", hit: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sym, ok := loader.Lookup(ctx, tt.key, "us")
			if ok != tt.hit {
				t.Fatalf("Lookup(%q) hit = %v, want %v", tt.key, ok, tt.hit)
			}
			if ok && sym != tt.want {
				t.Errorf("Lookup(%q) = %q, want %q", tt.key, sym, tt.want)
			}
		})
	}
}

func TestUniverseLoader_UnspecifiedMarketSkipsUniverse(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	loader := newUniverseLoader(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})

	if _, ok := loader.Lookup(context.Background(), "whatever", "jp"); ok {
		t.Error("expected miss for market without a universe")
	}
	if calls.Load() != 0 {
		t.Error("expected no upstream fetch for market without a universe")
	}
}

func TestUniverseLoader_NeverBuiltMeansUnavailable(t *testing.T) {
	t.Parallel()

	loader := newUniverseLoader(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	if _, ok := loader.Lookup(context.Background(), "삼성전자", "kr"); ok {
		t.Error("expected miss when universe was never built")
	}
}
