package search

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/atomicobject/diskdex/internal/store"
)

// SearchApplications ranks installed applications against query, matching
// name/display_name/description/keywords (§4.6 "search_applications").
func (e *Engine) SearchApplications(ctx context.Context, query string) ([]store.Application, error) {
	tokens := tokenize(query)
	if len(tokens) == 0 {
		return nil, nil
	}
	q := tokens[0]
	if len(tokens) > 1 {
		q = joinTokens(tokens)
	}
	esc := escapeLike(q)

	const sql = `
SELECT path, name, COALESCE(displayName, ''), COALESCE(description, ''),
	COALESCE(keywords, ''), COALESCE(categories, ''), COALESCE(icon, ''),
	COALESCE(lastUpdated, 0), COALESCE(applicationType, ''), isSystem,
	isCustomAdded, isFavorite, COALESCE(favoriteAddedAt, 0),
	CASE
		WHEN lower(name) = ? THEN 1
		WHEN lower(COALESCE(displayName, '')) = ? THEN 2
		WHEN lower(name) LIKE ? ESCAPE '\' THEN 3
		WHEN lower(COALESCE(displayName, '')) LIKE ? ESCAPE '\' THEN 4
		WHEN lower(COALESCE(description, '')) LIKE ? ESCAPE '\' THEN 5
		WHEN lower(COALESCE(keywords, '')) LIKE ? ESCAPE '\' THEN 6
		ELSE 7
	END AS rank
FROM applications
WHERE lower(name) LIKE ? ESCAPE '\'
	OR lower(COALESCE(displayName, '')) LIKE ? ESCAPE '\'
	OR lower(COALESCE(description, '')) LIKE ? ESCAPE '\'
	OR lower(COALESCE(keywords, '')) LIKE ? ESCAPE '\'
`
	like := "%" + esc + "%"
	rows, err := e.db.QueryContext(ctx, sql, q, q, like, like, like, like, like, like, like, like)
	if err != nil {
		return nil, fmt.Errorf("search applications query: %w", err)
	}
	defer rows.Close()

	var apps []applicationWithRank
	for rows.Next() {
		var a applicationWithRank
		var keywords, categories string
		var isSystem, isCustom, isFav int
		if err := rows.Scan(&a.Path, &a.Name, &a.DisplayName, &a.Description, &keywords, &categories,
			&a.Icon, &a.LastUpdated, &a.ApplicationType, &isSystem, &isCustom, &isFav, &a.FavoriteAddedAt, &a.rank); err != nil {
			return nil, fmt.Errorf("scan application row: %w", err)
		}
		a.Keywords = splitJSONStringArray(keywords)
		a.Categories = splitJSONStringArray(categories)
		a.IsSystem = isSystem != 0
		a.IsCustomAdded = isCustom != 0
		a.IsFavorite = isFav != 0
		apps = append(apps, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(apps, func(i, j int) bool {
		a, b := apps[i], apps[j]
		if a.IsFavorite != b.IsFavorite {
			return a.IsFavorite
		}
		if a.rank != b.rank {
			return a.rank < b.rank
		}
		return a.LastUpdated > b.LastUpdated
	})

	limit := e.limits.ApplicationSearch
	if limit > 0 && len(apps) > limit {
		apps = apps[:limit]
	}

	out := make([]store.Application, len(apps))
	for i, a := range apps {
		out[i] = a.Application
	}
	return out, nil
}

type applicationWithRank struct {
	store.Application
	rank int
}

func joinTokens(tokens []string) string {
	out := tokens[0]
	for _, t := range tokens[1:] {
		out += " " + t
	}
	return out
}

// splitJSONStringArray decodes the JSON array stored in applications'
// keywords/categories columns. A malformed or empty value yields nil rather
// than an error, since these are presentation fields, not keys.
func splitJSONStringArray(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil
	}
	return out
}
