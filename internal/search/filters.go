package search

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/atomicobject/diskdex/internal/store"
)

// DateRange bounds modified_at (§4.6 "date_range").
type DateRange struct {
	From *int64
	To   *int64
}

// SizeRange bounds size (§4.6 "size").
type SizeRange struct {
	Min *int64
	Max *int64
}

// Filters is filtered_search's predicate set (§4.6).
type Filters struct {
	Type      []string
	DateRange *DateRange
	Size      *SizeRange
	Tags      []string
	Query     string
}

// FilteredSearch applies Filters to all_items, joining file_tags/tags and
// notes as needed, and sorts the (typically small) result set in memory
// (§4.6 "filtered_search").
func (e *Engine) FilteredSearch(ctx context.Context, f Filters) ([]store.Item, error) {
	var where []string
	var args []any

	wantsFolder, categories := splitTypes(f.Type)
	switch {
	case wantsFolder && len(categories) == 0:
		where = append(where, "ai.type = 'folder'")
	case wantsFolder && len(categories) > 0:
		placeholders := make([]string, len(categories))
		for i, c := range categories {
			placeholders[i] = "?"
			args = append(args, c)
		}
		where = append(where, fmt.Sprintf("(ai.type = 'folder' OR ai.category IN (%s))", strings.Join(placeholders, ",")))
	case !wantsFolder && len(categories) > 0:
		placeholders := make([]string, len(categories))
		for i, c := range categories {
			placeholders[i] = "?"
			args = append(args, c)
		}
		where = append(where, fmt.Sprintf("ai.category IN (%s)", strings.Join(placeholders, ",")))
	}

	if f.DateRange != nil {
		if f.DateRange.From != nil {
			where = append(where, "ai.modifiedAt >= ?")
			args = append(args, *f.DateRange.From)
		}
		if f.DateRange.To != nil {
			where = append(where, "ai.modifiedAt <= ?")
			args = append(args, *f.DateRange.To)
		}
	}

	if f.Size != nil {
		if f.Size.Min != nil {
			where = append(where, "ai.size >= ?")
			args = append(args, *f.Size.Min)
		}
		if f.Size.Max != nil {
			where = append(where, "ai.size <= ?")
			args = append(args, *f.Size.Max)
		}
	}

	if len(f.Tags) > 0 {
		placeholders := make([]string, len(f.Tags))
		for i, t := range f.Tags {
			placeholders[i] = "?"
			args = append(args, t)
		}
		where = append(where, fmt.Sprintf(`ai.path IN (
			SELECT ft.file_path FROM file_tags ft
			JOIN tags t ON t.id = ft.tag_id
			WHERE t.name IN (%s)
		)`, strings.Join(placeholders, ",")))
	}

	tokens := tokenize(f.Query)
	if len(tokens) > 0 {
		var nameClauses, noteClauses []string
		for _, t := range tokens {
			esc := "%" + escapeLike(t) + "%"
			nameClauses = append(nameClauses, "lower(ai.name) LIKE ? ESCAPE '\\'")
			args = append(args, esc)
			noteClauses = append(noteClauses, "lower(n.content) LIKE ? ESCAPE '\\'")
		}
		nameAll := strings.Join(nameClauses, " AND ")
		noteAll := strings.Join(noteClauses, " AND ")
		for _, t := range tokens {
			args = append(args, "%"+escapeLike(t)+"%")
		}
		where = append(where, fmt.Sprintf(`(
			(%s)
			OR ai.path IN (SELECT n.target_path FROM notes n WHERE %s)
		)`, nameAll, noteAll))
	}

	whereClause := "1=1"
	if len(where) > 0 {
		whereClause = strings.Join(where, " AND ")
	}

	query := fmt.Sprintf(`
SELECT ai.path, ai.name, ai.type, COALESCE(ai.category, ''), ai.size, ai.modifiedAt, ai.isFavorite
FROM all_items ai
WHERE %s
`, whereClause)

	rows, err := e.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("filtered search query: %w", err)
	}
	defer rows.Close()

	var items []store.Item
	for rows.Next() {
		var it store.Item
		var isFav int
		if err := rows.Scan(&it.Path, &it.Name, &it.Type, &it.Category, &it.Size, &it.ModifiedAt, &isFav); err != nil {
			return nil, fmt.Errorf("scan filtered item: %w", err)
		}
		it.IsFavorite = isFav != 0
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sortFilteredItems(items)
	if len(items) > e.limits.FilteredSearch {
		items = items[:e.limits.FilteredSearch]
	}
	return items, nil
}

// splitTypes separates Filters.Type into "folders requested" and every
// other value, lowercased, as a category name, per §4.6/Open Question 2: a custom type
// string equal to a known category is folded into that category rather than
// treated as freeform.
func splitTypes(types []string) (wantsFolder bool, categories []string) {
	for _, t := range types {
		lt := strings.ToLower(t)
		if lt == "folder" {
			wantsFolder = true
			continue
		}
		categories = append(categories, lt)
	}
	return wantsFolder, categories
}

// sortFilteredItems applies "is_favorite DESC, {folder,file} order ASC,
// modified_at DESC" (§4.6): folders sort before files at equal favorite
// status, matching the teacher's sort.Slice idiom in pkg/obsidian/graph.go.
func sortFilteredItems(items []store.Item) {
	typeOrder := func(t string) int {
		if t == "folder" {
			return 0
		}
		return 1
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.IsFavorite != b.IsFavorite {
			return a.IsFavorite
		}
		if typeOrder(a.Type) != typeOrder(b.Type) {
			return typeOrder(a.Type) < typeOrder(b.Type)
		}
		return a.ModifiedAt > b.ModifiedAt
	})
}
