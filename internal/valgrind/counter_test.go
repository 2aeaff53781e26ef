package valgrind

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCounterRankedTieBreak(t *testing.T) {
	c := NewCounter[string]()
	c.Inc("b.cpp")
	c.Inc("a.cpp")
	c.Add("c.cpp", 3)
	c.Inc("a.cpp")
	c.Inc("b.cpp")
	c.Inc("d.cpp")

	assert.Equal(t, []Entry[string]{
		{Key: "c.cpp", Count: 3},
		{Key: "b.cpp", Count: 2},
		{Key: "a.cpp", Count: 2},
		{Key: "d.cpp", Count: 1},
	}, c.Ranked())
}

func TestCounterTop(t *testing.T) {
	c := NewCounter[int]()
	for i := range 8 {
		c.Set(i, i)
	}

	top := c.Top(3)
	assert.Equal(t, []Entry[int]{{7, 7}, {6, 6}, {5, 5}}, top)
	assert.Len(t, c.Top(0), 8)
	assert.Len(t, c.Top(100), 8)
}

func TestCounterSetKeepsPosition(t *testing.T) {
	c := NewCounter[int]()
	c.Set(4, 1)
	c.Set(2, 1)
	c.Set(4, 1)

	assert.Equal(t, []int{4, 2}, c.Keys())
	assert.Equal(t, 2, c.Len())
}

func TestCounterMax(t *testing.T) {
	c := NewCounter[string]()
	_, ok := c.Max()
	assert.False(t, ok)

	c.Inc("first")
	c.Inc("second")
	top, ok := c.Max()
	assert.True(t, ok)
	assert.Equal(t, "first", top.Key)
}
