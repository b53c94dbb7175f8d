package cache

import "runtime"

// detectCaseInsensitiveFS auto-detects whether the host's default filesystem
// is case-insensitive. Windows and macOS default volumes are; Linux is not.
// This is a coarse, GOOS-based heuristic (not a filesystem probe) matching
// the construction-time flag described for the cache in the design.
func detectCaseInsensitiveFS() bool {
	switch runtime.GOOS {
	case "windows", "darwin":
		return true
	default:
		return false
	}
}
