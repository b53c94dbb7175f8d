package watcher

import (
	"path/filepath"
	"strings"
)

// DefaultIgnorePatterns lists the root-relative path prefixes skipped by
// every watched root unless overridden, generalizing the teacher's
// .obsidianignore default set (pkg/obsidian/ignore.go) from "a single vault"
// to "any watched root": hidden entries, VCS metadata, and common build
// output directories.
func DefaultIgnorePatterns() []string {
	return []string{
		".git",
		"node_modules",
		"vendor",
		"dist",
		"build",
		".cache",
	}
}

// shouldIgnorePath reports whether path (absolute, under root) should be
// skipped during the initial scan or live watch, generalizing
// obsidian.ShouldIgnorePath to an arbitrary root instead of a vault: hidden
// files/directories, and any root-relative prefix in ignored.
func shouldIgnorePath(root, path string, ignored []string) bool {
	rel := path
	if root != "" {
		if r, err := filepath.Rel(root, path); err == nil {
			rel = r
		}
	}
	rel = filepath.ToSlash(rel)
	rel = strings.TrimPrefix(rel, "./")

	if rel == "." {
		return false
	}

	base := filepath.Base(rel)
	if strings.HasPrefix(base, ".") {
		return true
	}

	for _, ig := range ignored {
		ig = strings.TrimSpace(ig)
		if ig == "" {
			continue
		}
		ig = filepath.ToSlash(ig)
		ig = strings.TrimPrefix(ig, "./")
		if rel == ig || strings.HasPrefix(rel, ig+"/") {
			return true
		}
	}

	return false
}
