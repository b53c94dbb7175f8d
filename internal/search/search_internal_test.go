package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/atomicobject/diskdex/internal/store"
)

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"foo", "bar"}, tokenize("  Foo   bar  "))
	assert.Nil(t, tokenize(""))
	assert.Nil(t, tokenize("   "))
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\%`, escapeLike("100%"))
	assert.Equal(t, `a\_b`, escapeLike("a_b"))
	assert.Equal(t, `back\\slash`, escapeLike(`back\slash`))
}

func TestSortItemsFavoriteThenRankThenRecency(t *testing.T) {
	items := []store.Item{
		{Path: "/a", Rank: 2, ModifiedAt: 100},
		{Path: "/b", Rank: 1, ModifiedAt: 50, IsFavorite: true},
		{Path: "/c", Rank: 1, ModifiedAt: 200},
		{Path: "/d", Rank: 1, ModifiedAt: 100},
	}

	sortItems(items)

	var order []string
	for _, it := range items {
		order = append(order, it.Path)
	}
	assert.Equal(t, []string{"/b", "/c", "/d", "/a"}, order)
}

// The two worked examples from the spec: "foo" against foo/foobar/xyfoo,
// and "alpha" against alpha/alphabet/beta_alpha, where beta_alpha is a
// favorite and so sorts first.
func TestSortItemsMatchesWorkedExamples(t *testing.T) {
	items := []store.Item{
		{Path: "/xyfoo", Name: "xyfoo", Rank: 3},
		{Path: "/foobar", Name: "foobar", Rank: 2},
		{Path: "/foo", Name: "foo", Rank: 1},
	}
	sortItems(items)
	assert.Equal(t, []string{"/foo", "/foobar", "/xyfoo"}, pathsOf(items))

	items = []store.Item{
		{Path: "/beta_alpha", Name: "beta_alpha", Rank: 3, IsFavorite: true},
		{Path: "/alphabet", Name: "alphabet", Rank: 2},
		{Path: "/alpha", Name: "alpha", Rank: 1},
	}
	sortItems(items)
	assert.Equal(t, []string{"/beta_alpha", "/alpha", "/alphabet"}, pathsOf(items))
}

func pathsOf(items []store.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Path
	}
	return out
}

func TestSplitTypesFoldsKnownCategories(t *testing.T) {
	wantsFolder, categories := splitTypes([]string{"folder"})
	assert.True(t, wantsFolder)
	assert.Nil(t, categories)

	wantsFolder, categories = splitTypes([]string{"image", "document"})
	assert.False(t, wantsFolder)
	assert.Equal(t, []string{"image", "document"}, categories)

	wantsFolder, categories = splitTypes(nil)
	assert.False(t, wantsFolder)
	assert.Nil(t, categories)

	// A custom/unknown type string still gets folded into categories
	// rather than rejected; the schema-level category column handles it.
	// wantsFolder must still come back true here: a caller that asked for
	// both "folder" and another category wants folders included too.
	wantsFolder, categories = splitTypes([]string{"folder", "widget"})
	assert.True(t, wantsFolder)
	assert.Equal(t, []string{"widget"}, categories)
}

func TestFuzzyMatchApproximateSubsequence(t *testing.T) {
	assert.True(t, fuzzyMatch("webxdev", "website_development"))
	assert.False(t, fuzzyMatch("webqqqz", "website_development"))
	assert.True(t, fuzzyMatch("web", "website_development"))
}

func TestSortFilteredItemsFoldersBeforeFiles(t *testing.T) {
	items := []store.Item{
		{Path: "/file1", Type: "file", ModifiedAt: 300},
		{Path: "/folder1", Type: "folder", ModifiedAt: 100},
		{Path: "/fav-file", Type: "file", ModifiedAt: 1, IsFavorite: true},
	}

	sortFilteredItems(items)

	assert.Equal(t, []string{"/fav-file", "/folder1", "/file1"}, pathsOf(items))
}
