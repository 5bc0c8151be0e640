package cache

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMap(t *testing.T) {
	var c Cache[string, int] = NewMap[string, int]()

	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Set("a", 1)
	c.Set("a", 2)
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 2, v)
	assert.Equal(t, 1, c.(*Map[string, int]).Len())
}

func TestMapConcurrentAccess(t *testing.T) {
	c := NewMap[int, int]()
	var wg sync.WaitGroup
	for w := 0; w < 16; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				c.Set(i, w)
				_, _ = c.Get(i)
			}
		}(w)
	}
	wg.Wait()
	assert.Equal(t, 200, c.Len())
}
