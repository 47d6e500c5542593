package cache

import (
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLRU_Eviction(t *testing.T) {
	c := NewLRU[string, int](2)
	c.Set("a", 1)
	c.Set("b", 2)

	_, ok := c.Get("a") // a is now most recent
	assert.True(t, ok)

	c.Set("c", 3) // evicts b
	_, ok = c.Get("b")
	assert.False(t, ok)

	v, ok := c.Get("c")
	assert.True(t, ok)
	assert.Equal(t, 3, v)
	assert.Equal(t, 2, c.Len())
}

func TestLRU_Update(t *testing.T) {
	c := NewLRU[string, int](2)
	c.Set("a", 1)
	c.Set("a", 10)
	v, _ := c.Get("a")
	assert.Equal(t, 10, v)
	assert.Equal(t, 1, c.Len())
}

func TestLRU_ZeroCapacity(t *testing.T) {
	c := NewLRU[string, int](0)
	c.Set("a", 1)
	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestLRU_EvictsLeastRecentlyRead(t *testing.T) {
	c := NewLRU[string, string](3)
	for _, k := range []string{"CCO", "c1ccccc1", "CC(=O)O"} {
		c.Set(k, k)
	}
	c.Get("CCO")
	c.Set("N", "N")

	_, ok := c.Get("c1ccccc1")
	assert.False(t, ok)
	for _, k := range []string{"CCO", "CC(=O)O", "N"} {
		_, ok := c.Get(k)
		assert.True(t, ok, k)
	}
}

func TestLRU_Concurrent(t *testing.T) {
	c := NewLRU[string, int](16)
	var wg sync.WaitGroup
	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 200 {
				k := strconv.Itoa((g + i) % 32)
				c.Set(k, i)
				c.Get(k)
			}
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Len(), 16)
}
