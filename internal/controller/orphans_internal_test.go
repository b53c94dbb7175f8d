package controller

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatBatchReportsOnlyMissingPaths(t *testing.T) {
	dir := t.TempDir()
	present := filepath.Join(dir, "present.txt")
	require.NoError(t, os.WriteFile(present, []byte("x"), 0o644))
	missing := filepath.Join(dir, "missing.txt")

	got := statBatch([]string{present, missing})

	assert.Equal(t, []string{missing}, got)
}

func TestStatBatchEmptyInput(t *testing.T) {
	assert.Empty(t, statBatch(nil))
}
