package controller

import (
	"path/filepath"
	"strings"

	"github.com/atomicobject/diskdex/internal/store"
)

// unlimitedDepth mirrors store.UnlimitedDepth locally so overlap.go reads
// standalone.
const unlimitedDepth = store.UnlimitedDepth

// isDescendant reports whether child is path-equal to or nested under
// parent.
func isDescendant(child, parent string) bool {
	child = filepath.Clean(child)
	parent = filepath.Clean(parent)
	if child == parent {
		return true
	}
	return strings.HasPrefix(child, parent+string(filepath.Separator))
}

// depthBetween returns the number of path components separating child from
// parent (0 if they are equal).
func depthBetween(parent, child string) int {
	rel, err := filepath.Rel(parent, child)
	if err != nil || rel == "." {
		return 0
	}
	return len(strings.Split(filepath.ToSlash(rel), "/"))
}

// overlaps implements SPEC_FULL.md's resolution of the depth=∞ overlap
// question: an unlimited-depth root overlaps anything anywhere under it and
// is overlapped by anything placed anywhere under it; a finite-depth root's
// own distance bound always applies to paths measured from itself, and
// never shrinks the other side's constraint.
func overlaps(aPath string, aDepth int, bPath string, bDepth int) bool {
	if isDescendant(bPath, aPath) {
		d := depthBetween(aPath, bPath)
		if aDepth == unlimitedDepth || d <= aDepth {
			return true
		}
	}
	if isDescendant(aPath, bPath) {
		d := depthBetween(bPath, aPath)
		if bDepth == unlimitedDepth || d <= bDepth {
			return true
		}
	}
	return false
}
