package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func TestCache_SetGet(t *testing.T) {
	c := New(Options{MaxSize: 10})
	c.Set("/a/b.txt", "value")
	v, ok := c.Get("/a/b.txt")
	require.True(t, ok)
	assert.Equal(t, "value", v)
}

func TestCache_Miss(t *testing.T) {
	c := New(Options{MaxSize: 10})
	_, ok := c.Get("/missing")
	assert.False(t, ok)
}

func TestCache_TTLExpiry(t *testing.T) {
	c := New(Options{MaxSize: 10, TTL: 5 * time.Millisecond})
	c.Set("k", "v")
	time.Sleep(10 * time.Millisecond)
	_, ok := c.Get("k")
	assert.False(t, ok, "entry should have expired after TTL")
}

func TestCache_GetRefreshesTTL(t *testing.T) {
	c := New(Options{MaxSize: 10, TTL: 30 * time.Millisecond})
	c.Set("k", "v")
	time.Sleep(20 * time.Millisecond)
	_, ok := c.Get("k") // refreshes timestamp
	require.True(t, ok)
	time.Sleep(20 * time.Millisecond)
	_, ok = c.Get("k") // would have expired if timestamp hadn't refreshed
	assert.True(t, ok)
}

func TestCache_LRUEviction(t *testing.T) {
	c := New(Options{MaxSize: 3})
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)
	c.Set("d", 4) // evicts "a", the oldest

	_, ok := c.Get("a")
	assert.False(t, ok, "oldest key should be evicted")
	_, ok = c.Get("b")
	assert.True(t, ok)
	_, ok = c.Get("d")
	assert.True(t, ok)
}

func TestCache_GetRefreshesRecency(t *testing.T) {
	c := New(Options{MaxSize: 2})
	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a") // touch a, making b the oldest
	c.Set("c", 3) // should evict "b", not "a"

	_, ok := c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("b")
	assert.False(t, ok)
}

func TestCache_SetExistingKeyUpdatesPositionAndValue(t *testing.T) {
	c := New(Options{MaxSize: 2})
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("a", 99) // re-set should move a to the back
	c.Set("c", 3)  // should evict "b", the now-oldest

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 99, v)
	_, ok = c.Get("b")
	assert.False(t, ok)
}

func TestCache_DeleteByPrefix(t *testing.T) {
	c := New(Options{MaxSize: 10})
	c.Set("/vault/a/one.txt", 1)
	c.Set("/vault/a/two.txt", 2)
	c.Set("/vault/b/three.txt", 3)

	n := c.DeleteByPrefix("/vault/a")
	assert.Equal(t, 2, n)

	_, ok := c.Get("/vault/a/one.txt")
	assert.False(t, ok)
	_, ok = c.Get("/vault/b/three.txt")
	assert.True(t, ok)
}

func TestCache_KeyNormalization_Backslash(t *testing.T) {
	c := New(Options{MaxSize: 10, CaseInsensitive: boolPtr(false)})
	c.Set(`C:\vault\note.txt`, "v")
	v, ok := c.Get("C:/vault/note.txt")
	require.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestCache_KeyNormalization_CaseInsensitive(t *testing.T) {
	c := New(Options{MaxSize: 10, CaseInsensitive: boolPtr(true)})
	c.Set("/Vault/Note.txt", "v")
	v, ok := c.Get("/vault/note.txt")
	require.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestCache_KeyNormalization_CaseSensitive(t *testing.T) {
	c := New(Options{MaxSize: 10, CaseInsensitive: boolPtr(false)})
	c.Set("/Vault/Note.txt", "v")
	_, ok := c.Get("/vault/note.txt")
	assert.False(t, ok, "case-sensitive cache must not fold case")
}

func TestCache_Has(t *testing.T) {
	c := New(Options{MaxSize: 10})
	assert.False(t, c.Has("k"))
	c.Set("k", "v")
	assert.True(t, c.Has("k"))
}

func TestCache_Delete(t *testing.T) {
	c := New(Options{MaxSize: 10})
	c.Set("k", "v")
	c.Delete("k")
	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestCache_Clear(t *testing.T) {
	c := New(Options{MaxSize: 10})
	c.Set("a", 1)
	c.Set("b", 2)
	c.Clear()
	stats := c.Stats()
	assert.Equal(t, 0, stats.Size)
}

func TestCache_Stats(t *testing.T) {
	c := New(Options{MaxSize: 5})
	c.Set("a", 1)
	c.Get("a")
	c.Get("missing")
	stats := c.Stats()
	assert.Equal(t, 1, stats.Size)
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
}
