package fs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/geotagx/builder/pkg/core"
)

func TestParseCache_Freshness(t *testing.T) {
	c := newParseCache(time.Minute, time.Minute)
	mtime := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	rec := core.Record{"name": "x"}

	c.Set("/p/project.json", mtime, 10, rec)
	assert.Equal(t, 1, c.Len())

	got, ok := c.Get("/p/project.json", mtime, 10)
	assert.True(t, ok)
	assert.Equal(t, rec, got)

	_, ok = c.Get("/p/project.json", mtime.Add(time.Second), 10)
	assert.False(t, ok, "newer mtime must miss")

	_, ok = c.Get("/p/project.json", mtime, 11)
	assert.False(t, ok, "size change must miss")

	c.Invalidate("/p/project.json")
	_, ok = c.Get("/p/project.json", mtime, 10)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}
