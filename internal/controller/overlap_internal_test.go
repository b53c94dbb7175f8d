package controller

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOverlapsUnlimitedDepthRootCatchesAnyDescendant(t *testing.T) {
	assert.True(t, overlaps("/home/u/docs", unlimitedDepth, "/home/u/docs/reports/2024", 2))
	assert.True(t, overlaps("/home/u/docs/reports/2024", 2, "/home/u/docs", unlimitedDepth))
}

func TestOverlapsRespectsFiniteDepthOfTheRootMeasuredFrom(t *testing.T) {
	// "/home/u/docs" at depth 1 only reaches one level down; a path two
	// levels down does not overlap it.
	assert.False(t, overlaps("/home/u/docs", 1, "/home/u/docs/reports/2024", unlimitedDepth))
	assert.True(t, overlaps("/home/u/docs", 2, "/home/u/docs/reports/2024", unlimitedDepth))
}

func TestOverlapsUnrelatedPathsDoNotOverlap(t *testing.T) {
	assert.False(t, overlaps("/home/u/docs", unlimitedDepth, "/home/u/photos", unlimitedDepth))
}

func TestOverlapsIdenticalPathsAlwaysOverlap(t *testing.T) {
	assert.True(t, overlaps("/home/u/docs", 0, "/home/u/docs", 0))
}

func TestIsDescendant(t *testing.T) {
	assert.True(t, isDescendant("/a/b/c", "/a/b"))
	assert.True(t, isDescendant("/a/b", "/a/b"))
	assert.False(t, isDescendant("/a/bc", "/a/b"))
	assert.False(t, isDescendant("/a", "/a/b"))
}

func TestDepthBetween(t *testing.T) {
	assert.Equal(t, 0, depthBetween("/a/b", "/a/b"))
	assert.Equal(t, 1, depthBetween("/a/b", "/a/b/c"))
	assert.Equal(t, 2, depthBetween("/a/b", "/a/b/c/d"))
}
