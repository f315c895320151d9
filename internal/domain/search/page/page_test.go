package page

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTotalPages(t *testing.T) {
	tests := []struct {
		n, size, want int
	}{
		{0, 20, 0},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{45, 20, 3},
		{100, 20, 5},
		{5, 0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TotalPages(tt.n, tt.size), "n=%d size=%d", tt.n, tt.size)
	}
}

func TestSlice_Bounds(t *testing.T) {
	for n := 1; n <= 61; n++ {
		items := make([]int, n)
		for i := range items {
			items[i] = i
		}
		last := TotalPages(n, DefaultSize)
		got := Slice(items, last, DefaultSize)
		assert.NotEmpty(t, got, "n=%d", n)
		assert.Equal(t, n-1, got[len(got)-1])
		assert.Empty(t, Slice(items, last+1, DefaultSize), "n=%d", n)
	}
}

func TestSlice(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e"}
	assert.Equal(t, []string{"a", "b"}, Slice(items, 1, 2))
	assert.Equal(t, []string{"e"}, Slice(items, 3, 2))
	assert.Empty(t, Slice(items, 0, 2))
	assert.Empty(t, Slice([]string(nil), 1, 2))
}

func TestState(t *testing.T) {
	s := NewState()
	assert.Equal(t, 1, s.Current())

	assert.False(t, s.Prev())
	assert.True(t, s.Next(3))
	assert.True(t, s.Next(3))
	assert.False(t, s.Next(3))
	assert.Equal(t, 3, s.Current())

	assert.True(t, s.Prev())
	assert.Equal(t, 2, s.Current())

	s.Clamp(1)
	assert.Equal(t, 1, s.Current())

	s.Go(10, 4)
	assert.Equal(t, 4, s.Current())
	s.Go(-1, 4)
	assert.Equal(t, 1, s.Current())

	s.Go(3, 0)
	assert.Equal(t, 1, s.Current())

	s.Go(2, 2)
	s.Reset()
	assert.Equal(t, 1, s.Current())
}

func TestState_ZeroValue(t *testing.T) {
	var s State
	assert.Equal(t, 1, s.Current())
	assert.False(t, s.Next(0))
	assert.Equal(t, 1, s.Current())
}
