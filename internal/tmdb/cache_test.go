package tmdb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryCache_Expiry(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewMemoryCache(5 * time.Minute)
	c.now = func() time.Time { return now }

	c.Set("k", []byte("v"))
	got, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), got)

	now = now.Add(5*time.Minute - time.Nanosecond)
	_, ok = c.Get("k")
	assert.True(t, ok)

	now = now.Add(time.Nanosecond)
	_, ok = c.Get("k")
	assert.False(t, ok)
	assert.Zero(t, c.Len())
}

func TestMemoryCache_ClearAndZeroTTL(t *testing.T) {
	t.Parallel()

	c := NewMemoryCache(time.Minute)
	c.Set("a", []byte("1"))
	c.Set("b", []byte("2"))
	assert.Equal(t, 2, c.Len())
	c.Clear()
	assert.Zero(t, c.Len())

	off := NewMemoryCache(0)
	off.Set("a", []byte("1"))
	_, ok := off.Get("a")
	assert.False(t, ok)
}
