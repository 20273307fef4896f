// Package adapters implements the resolver's lookup tiers against their
// remote sources: the alias table, the market-universe listings and the
// static fallback maps.
package adapters

import (
	"regexp"
	"strings"
)

// Narrow, deliberately brittle HTML table scraper. Contract: rows are
// <tr>...</tr> blocks, cells are <td>...</td> blocks, cell text is the block
// with tags stripped, &nbsp;/&amp; unescaped and whitespace collapsed. Rows
// with fewer than two cells are skipped by the callers. Anything fancier
// than the KRX listing download or the constituents wiki table is out of
// scope; unit tests pin the expected fixtures.
var (
	tableRowRe  = regexp.MustCompile(`(?is)<tr[^>]*>(.*?)</tr>`)
	tableCellRe = regexp.MustCompile(`(?is)<td[^>]*>(.*?)</td>`)
	htmlTagRe   = regexp.MustCompile(`<[^>]*>`)
	spaceRunRe  = regexp.MustCompile(`\s+`)
)

// tableRows extracts the cell texts of every row in the given HTML fragment.
func tableRows(html string) [][]string {
	var rows [][]string
	for _, rowMatch := range tableRowRe.FindAllStringSubmatch(html, -1) {
		cellMatches := tableCellRe.FindAllStringSubmatch(rowMatch[1], -1)
		if len(cellMatches) == 0 {
			continue
		}
		cells := make([]string, 0, len(cellMatches))
		for _, m := range cellMatches {
			cells = append(cells, stripTags(m[1]))
		}
		rows = append(rows, cells)
	}
	return rows
}

// findTableByID locates the first <table> element carrying the given id
// attribute. The whole element including nested markup is returned.
func findTableByID(html, id string) (string, bool) {
	re := regexp.MustCompile(`(?is)<table[^>]*id="` + regexp.QuoteMeta(id) + `".*?</table>`)
	m := re.FindString(html)
	if m == "" {
		return "", false
	}
	return m, true
}

// stripTags reduces an HTML fragment to its visible text.
func stripTags(v string) string {
	s := htmlTagRe.ReplaceAllString(v, "")
	s = strings.ReplaceAll(s, "&nbsp;", " ")
	s = strings.ReplaceAll(s, "&amp;", "&")
	s = spaceRunRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
