package watcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShouldIgnorePathHiddenEntries(t *testing.T) {
	assert.True(t, shouldIgnorePath("/root", "/root/.git", nil))
	assert.True(t, shouldIgnorePath("/root", "/root/sub/.DS_Store", nil))
	assert.False(t, shouldIgnorePath("/root", "/root/visible.txt", nil))
}

func TestShouldIgnorePathDefaultPatterns(t *testing.T) {
	ignored := DefaultIgnorePatterns()
	assert.True(t, shouldIgnorePath("/root", "/root/node_modules/pkg/index.js", ignored))
	assert.True(t, shouldIgnorePath("/root", "/root/vendor/lib.go", ignored))
	assert.False(t, shouldIgnorePath("/root", "/root/src/main.go", ignored))
}

func TestShouldIgnorePathRootItself(t *testing.T) {
	assert.False(t, shouldIgnorePath("/root", "/root", nil))
}

func TestShouldIgnorePathExactPatternMatch(t *testing.T) {
	assert.True(t, shouldIgnorePath("/root", "/root/dist", []string{"dist"}))
}
