package adapters

import (
	"context"

	"chart_backend/internal/feature/resolve/domain"
)

// Hand-curated name→symbol fallbacks for the names users actually type.
// These survive even when every remote source is down.
var krNameToSymbol = map[string]string{
	"삼성전자":   "005930.KS",
	"삼성전자우":  "005935.KS",
	"sk하이닉스": "000660.KS",
	"lg전자":   "066570.KS",
	"엘지전자":   "066570.KS",
	"현대차":    "005380.KS",
	"기아":     "000270.KS",
	"네이버":    "035420.KS",
	"naver":  "035420.KS",
	"카카오":    "035720.KS",
}

var usNameToSymbol = map[string]string{
	"애플":      "AAPL",
	"마이크로소프트": "MSFT",
	"엔비디아":    "NVDA",
	"아마존":     "AMZN",
	"알파벳":     "GOOGL",
	"구글":      "GOOGL",
	"메타":      "META",
	"테슬라":     "TSLA",
}

// StaticTable resolves candidate keys against the curated per-market maps.
type StaticTable struct{}

// NewStaticTable returns a StaticTable.
func NewStaticTable() StaticTable { return StaticTable{} }

// Lookup returns the curated symbol for key in the given market, if any.
func (StaticTable) Lookup(_ context.Context, key, market string) (string, bool) {
	switch market {
	case domain.MarketKR:
		sym, ok := krNameToSymbol[key]
		return sym, ok
	case domain.MarketUS:
		sym, ok := usNameToSymbol[key]
		return sym, ok
	default:
		return "", false
	}
}
