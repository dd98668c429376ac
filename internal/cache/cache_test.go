package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type entry struct {
	Name string
	Size int64
}

func TestCache(t *testing.T) {

	var value = entry{Name: "logo.png", Size: 2048}
	var result entry

	cache := NewMemoryCache(1 * 1024 * 1024)

	err := cache.Set("key", value, 1*time.Second)
	assert.NoError(t, err)

	err = cache.Get("key", &result)
	assert.NoError(t, err)
	assert.Equal(t, result, value)
}

func TestFetch(t *testing.T) {
	cache := NewMemoryCache(1 * 1024 * 1024)

	calls := 0
	load := func() (entry, error) {
		calls++
		return entry{Name: "banner.png", Size: 1}, nil
	}

	v1, err := Fetch(cache, KeyWahl("abc"), time.Minute, load)
	assert.NoError(t, err)
	v2, err := Fetch(cache, KeyWahl("abc"), time.Minute, load)
	assert.NoError(t, err)

	assert.Equal(t, v1, v2)
	assert.Equal(t, 1, calls)
}
