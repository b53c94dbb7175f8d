// Package search implements the Search Engine: quick_search,
// filtered_search, and search_applications over the Index Store's all_items
// view and applications table (§4.6). Ranking is pushed into SQL where an
// index helps (quick_search, search_applications); filtered_search's
// predicate set is cheap enough in SQL but its final ordering is small
// enough to finish in memory, matching the design note that "ranking is
// done in SQL where indices help and in-memory only for the small filtered
// result set."
package search

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/atomicobject/diskdex/internal/store"
)

// Limits bounds the three operations' result sets (§7 "Query limits").
type Limits struct {
	QuickSearch      int
	FilteredSearch   int
	ApplicationSearch int
}

// DefaultLimits matches the sizes spec.md calls out as examples.
func DefaultLimits() Limits {
	return Limits{QuickSearch: 100, FilteredSearch: 200, ApplicationSearch: 9}
}

// Engine answers ranked queries against a Store (§4.6).
type Engine struct {
	db     *sql.DB
	store  *store.Store
	limits Limits
}

// New builds an Engine over st using lim (DefaultLimits() if zero-valued).
func New(st *store.Store, lim Limits) *Engine {
	if lim.QuickSearch == 0 {
		lim.QuickSearch = 100
	}
	if lim.FilteredSearch == 0 {
		lim.FilteredSearch = 200
	}
	if lim.ApplicationSearch == 0 {
		lim.ApplicationSearch = 9
	}
	return &Engine{db: st.DB(), store: st, limits: lim}
}

// tokenize trims, lowercases, splits on whitespace, and drops empty tokens
// (§4.6 "Query preprocessing").
func tokenize(query string) []string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(query)))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

func escapeLike(s string) string {
	r := strings.NewReplacer("\\", "\\\\", "%", "\\%", "_", "\\_")
	return r.Replace(s)
}

// QuickSearch ranks all_items rows against query (§4.6 "quick_search").
// Substring matches are ranked and filtered in SQL; rows that only satisfy
// spec.md's "multi-token fuzziness" invariant (an approximate, gap-tolerant
// subsequence match, e.g. "webxdev" against "website_development") are found
// by a Go-side fallback pass and appended at the catch-all rank 4, the
// substring CASE expression's ELSE branch. For a single token that branch is
// never reached in SQL (the WHERE clause guarantees a contains-match); for
// several tokens it is, when every token occurs in the name but the joined
// query does not.
func (e *Engine) QuickSearch(ctx context.Context, query string) ([]store.Item, error) {
	tokens := tokenize(query)
	if len(tokens) == 0 {
		return nil, nil
	}

	var rows *sql.Rows
	var err error
	if len(tokens) == 1 {
		rows, err = e.quickSearchSingleToken(ctx, tokens[0])
	} else {
		rows, err = e.quickSearchMultiToken(ctx, tokens)
	}
	if err != nil {
		return nil, err
	}

	items, err := scanRankedItems(rows)
	rows.Close()
	if err != nil {
		return nil, err
	}

	if len(items) < e.limits.QuickSearch {
		seen := make(map[string]bool, len(items))
		for _, it := range items {
			seen[it.Path] = true
		}
		fuzzy, err := e.quickSearchFuzzyFallback(ctx, tokens, seen)
		if err != nil {
			return nil, err
		}
		items = append(items, fuzzy...)
	}

	sortItems(items)
	if len(items) > e.limits.QuickSearch {
		items = items[:e.limits.QuickSearch]
	}
	return items, nil
}

// quickSearchSingleToken ranks by exact equality (1), starts-with (2),
// contains (3), else 4, filtered by lower(name) LIKE '%token%'.
func (e *Engine) quickSearchSingleToken(ctx context.Context, token string) (*sql.Rows, error) {
	const query = `
SELECT path, name, type, COALESCE(category, ''), size, modifiedAt, isFavorite,
	CASE
		WHEN lower(name) = ? THEN 1
		WHEN lower(name) LIKE ? ESCAPE '\' THEN 2
		WHEN lower(name) LIKE ? ESCAPE '\' THEN 3
		ELSE 4
	END AS rank
FROM all_items
WHERE lower(name) LIKE ? ESCAPE '\'
`
	esc := escapeLike(token)
	return e.db.QueryContext(ctx, query, token, esc+"%", "%"+esc+"%", "%"+esc+"%")
}

// quickSearchMultiToken requires every token as a substring of name (AND),
// keeping the same 1-4 rank scale against the full (joined) query.
func (e *Engine) quickSearchMultiToken(ctx context.Context, tokens []string) (*sql.Rows, error) {
	full := strings.Join(tokens, " ")
	escFull := escapeLike(full)

	var likeClauses []string
	args := make([]any, 0, len(tokens)+4)
	for _, t := range tokens {
		likeClauses = append(likeClauses, "lower(name) LIKE ? ESCAPE '\\'")
		args = append(args, "%"+escapeLike(t)+"%")
	}

	query := fmt.Sprintf(`
SELECT path, name, type, COALESCE(category, ''), size, modifiedAt, isFavorite,
	CASE
		WHEN lower(name) = ? THEN 1
		WHEN lower(name) LIKE ? ESCAPE '\' THEN 2
		WHEN lower(name) LIKE ? ESCAPE '\' THEN 3
		ELSE 4
	END AS rank
FROM all_items
WHERE %s
`, strings.Join(likeClauses, " AND "))

	finalArgs := make([]any, 0, len(args)+3)
	finalArgs = append(finalArgs, full, escFull+"%", "%"+escFull+"%")
	finalArgs = append(finalArgs, args...)
	return e.db.QueryContext(ctx, query, finalArgs...)
}

// fuzzyScanCap bounds how many all_items rows the fuzzy fallback examines,
// since an approximate subsequence match can't be pushed into a SQL WHERE
// clause the way literal substring matching can.
const fuzzyScanCap = 5000

// quickSearchFuzzyFallback scans candidate rows not already returned by the
// substring query and keeps the ones where every token fuzzy-matches the
// item name.
func (e *Engine) quickSearchFuzzyFallback(ctx context.Context, tokens []string, exclude map[string]bool) ([]store.Item, error) {
	const query = `
SELECT path, name, type, COALESCE(category, ''), size, modifiedAt, isFavorite
FROM all_items
LIMIT ?
`
	rows, err := e.db.QueryContext(ctx, query, fuzzyScanCap)
	if err != nil {
		return nil, fmt.Errorf("fuzzy candidate scan: %w", err)
	}
	defer rows.Close()

	var items []store.Item
	for rows.Next() {
		var it store.Item
		var isFav int
		if err := rows.Scan(&it.Path, &it.Name, &it.Type, &it.Category, &it.Size, &it.ModifiedAt, &isFav); err != nil {
			return nil, fmt.Errorf("scan fuzzy candidate row: %w", err)
		}
		if exclude[it.Path] || !fuzzyMatchAll(tokens, it.Name) {
			continue
		}
		it.IsFavorite = isFav != 0
		it.Rank = 4
		items = append(items, it)
	}
	return items, rows.Err()
}

// fuzzyMatchAll reports whether every token approximately matches name.
func fuzzyMatchAll(tokens []string, name string) bool {
	for _, t := range tokens {
		if !fuzzyMatch(t, name) {
			return false
		}
	}
	return true
}

// fuzzyMatch reports whether token is an approximate subsequence of name:
// the characters of token must appear in order in name, skipping at most
// fuzzyAllowedGaps(len(token)) of token's own characters along the way.
func fuzzyMatch(token, name string) bool {
	gaps := len([]rune(token)) - lcsLen([]rune(strings.ToLower(token)), []rune(strings.ToLower(name)))
	return gaps <= fuzzyAllowedGaps(len([]rune(token)))
}

// fuzzyAllowedGaps caps how many of a token's characters may be skipped
// before it's no longer considered a fuzzy match, scaled to the token's
// length; short tokens (<=3 runes) require an exact subsequence, since any
// slack there matches almost anything.
func fuzzyAllowedGaps(tokenLen int) int {
	if tokenLen <= 3 {
		return 0
	}
	allowed := tokenLen / 4
	if allowed < 1 {
		allowed = 1
	}
	if allowed >= tokenLen {
		allowed = tokenLen - 1
	}
	return allowed
}

// lcsLen returns the length of the longest common subsequence of a and b.
func lcsLen(a, b []rune) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				curr[j] = prev[j-1] + 1
			case prev[j] >= curr[j-1]:
				curr[j] = prev[j]
			default:
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func scanRankedItems(rows *sql.Rows) ([]store.Item, error) {
	var items []store.Item
	for rows.Next() {
		var it store.Item
		var isFav int
		if err := rows.Scan(&it.Path, &it.Name, &it.Type, &it.Category, &it.Size, &it.ModifiedAt, &isFav, &it.Rank); err != nil {
			return nil, fmt.Errorf("scan item row: %w", err)
		}
		it.IsFavorite = isFav != 0
		items = append(items, it)
	}
	return items, rows.Err()
}

func sortItems(items []store.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.IsFavorite != b.IsFavorite {
			return a.IsFavorite
		}
		if a.Rank != b.Rank {
			return a.Rank < b.Rank
		}
		return a.ModifiedAt > b.ModifiedAt
	})
}
