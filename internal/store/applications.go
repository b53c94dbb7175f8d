package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// InsertSystemApplication upserts an application discovered during an
// application-directory scan. isSystem is always set true; isCustomAdded is
// left at whatever value already exists (or false for a new row), so a
// rescan never clobbers a user's manually-added application flag.
func (s *Store) InsertSystemApplication(ctx context.Context, app Application) error {
	if app.Path == "" {
		return fmt.Errorf("%w: application path is required", ErrInvalidInput)
	}
	keywords, err := json.Marshal(app.Keywords)
	if err != nil {
		return fmt.Errorf("%w: encode keywords: %v", ErrInvalidInput, err)
	}
	categories, err := json.Marshal(app.Categories)
	if err != nil {
		return fmt.Errorf("%w: encode categories: %v", ErrInvalidInput, err)
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO applications (path, name, displayName, description, keywords, categories, icon,
				lastUpdated, applicationType, isSystem, isCustomAdded, isFavorite, favoriteAddedAt)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 1, 0, 0, NULL)
			ON CONFLICT(path) DO UPDATE SET
				name = excluded.name,
				displayName = excluded.displayName,
				description = excluded.description,
				keywords = excluded.keywords,
				categories = excluded.categories,
				icon = excluded.icon,
				lastUpdated = excluded.lastUpdated,
				applicationType = excluded.applicationType,
				isSystem = 1
		`, app.Path, app.Name, app.DisplayName, app.Description, string(keywords), string(categories),
			app.Icon, app.LastUpdated, app.ApplicationType)
		if err != nil {
			return fmt.Errorf("%w: insert system application %s: %v", ErrStoreError, app.Path, err)
		}
		return nil
	})
}

// ResetSystemApplications deletes every application row whose isSystem flag
// is set and whose path was not seen in the most recent scan (seenPaths),
// so applications removed from disk disappear from the index. Rows with
// isSystem = 0 (custom-added) are untouched. A favorited system row absent
// from seenPaths is deleted as well, favorite included; GetSystemAppFavorites
// and RestoreSystemAppFavorites carry favorites across such a reset.
func (s *Store) ResetSystemApplications(ctx context.Context, seenPaths map[string]bool) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, `SELECT path FROM applications WHERE isSystem = 1`)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrStoreError, err)
		}
		var stale []string
		for rows.Next() {
			var path string
			if err := rows.Scan(&path); err != nil {
				rows.Close()
				return fmt.Errorf("%w: %v", ErrStoreError, err)
			}
			if !seenPaths[path] {
				stale = append(stale, path)
			}
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return fmt.Errorf("%w: %v", ErrStoreError, err)
		}
		rows.Close()

		for _, path := range stale {
			if _, err := tx.ExecContext(ctx, `DELETE FROM applications WHERE path = ?`, path); err != nil {
				return fmt.Errorf("%w: remove stale application %s: %v", ErrStoreError, path, err)
			}
		}
		return nil
	})
}

// GetSystemAppFavorites returns the favorited applications, ordered by when
// they were favorited, for persistence ahead of a reset/reinstall cycle
// (§4.1 "restore_system_app_favorites" counterpart).
func (s *Store) GetSystemAppFavorites(ctx context.Context) ([]Application, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT path, name, displayName, description, keywords, categories, icon, lastUpdated,
			applicationType, isSystem, isCustomAdded, isFavorite, favoriteAddedAt
		FROM applications WHERE isFavorite = 1 ORDER BY favoriteAddedAt ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("get_system_app_favorites: %w", err)
	}
	defer rows.Close()

	var out []Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("get_system_app_favorites: %w", err)
		}
		out = append(out, *app)
	}
	return out, rows.Err()
}

// RestoreSystemAppFavorites re-applies a previously captured favorites list
// onto the current application rows. Each favorite is matched first by
// exact path; if no row has that path (the application moved, e.g. after an
// OS update changed its bundle path) it falls back to matching by name,
// taking the first same-named row that is not already a favorite.
// Favorites that match neither are dropped
// silently, since the application no longer exists to favorite.
func (s *Store) RestoreSystemAppFavorites(ctx context.Context, favorites []Application) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		for _, fav := range favorites {
			var path string
			err := tx.QueryRowContext(ctx, `SELECT path FROM applications WHERE path = ?`, fav.Path).Scan(&path)
			if errors.Is(err, sql.ErrNoRows) {
				err = tx.QueryRowContext(ctx, `SELECT path FROM applications WHERE name = ? AND isFavorite = 0 LIMIT 1`, fav.Name).Scan(&path)
			}
			if errors.Is(err, sql.ErrNoRows) {
				continue
			}
			if err != nil {
				return fmt.Errorf("%w: match favorite %s: %v", ErrStoreError, fav.Path, err)
			}
			if _, err := tx.ExecContext(ctx, `
				UPDATE applications SET isFavorite = 1, favoriteAddedAt = ? WHERE path = ?
			`, fav.FavoriteAddedAt, path); err != nil {
				return fmt.Errorf("%w: restore favorite %s: %v", ErrStoreError, path, err)
			}
		}
		return nil
	})
}

func scanApplication(row interface{ Scan(...any) error }) (*Application, error) {
	var app Application
	var displayName, description, keywords, categories, icon, applicationType sql.NullString
	var lastUpdated, favoriteAddedAt sql.NullInt64
	var isSystem, isCustomAdded, isFavorite int
	err := row.Scan(&app.Path, &app.Name, &displayName, &description, &keywords, &categories, &icon,
		&lastUpdated, &applicationType, &isSystem, &isCustomAdded, &isFavorite, &favoriteAddedAt)
	if err != nil {
		return nil, err
	}
	app.DisplayName = displayName.String
	app.Description = description.String
	app.Icon = icon.String
	app.ApplicationType = applicationType.String
	app.LastUpdated = lastUpdated.Int64
	app.FavoriteAddedAt = favoriteAddedAt.Int64
	app.IsSystem = isSystem != 0
	app.IsCustomAdded = isCustomAdded != 0
	app.IsFavorite = isFavorite != 0

	if keywords.Valid && keywords.String != "" {
		_ = json.Unmarshal([]byte(keywords.String), &app.Keywords)
	}
	if categories.Valid && categories.String != "" {
		_ = json.Unmarshal([]byte(categories.String), &app.Categories)
	}
	return &app, nil
}
