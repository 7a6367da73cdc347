package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanCoversEveryRowExactlyOnce(t *testing.T) {
	cases := []struct {
		total, chunk int
		wantCount    int
	}{
		{0, 45000, 1},
		{1, 45000, 1},
		{45000, 45000, 1},
		{45001, 45000, 2},
		{90000, 45000, 2},
		{90001, 45000, 3},
		{100, 7, 15},
		{99, 10, 10},
		{10, 10, 1},
	}
	for _, c := range cases {
		p := New(c.total, c.chunk)
		require.Equal(t, c.wantCount, p.Count(), "total=%d chunk=%d", c.total, c.chunk)

		ranges := p.Ranges()
		require.Len(t, ranges, c.wantCount)

		next := 0
		for i, r := range ranges {
			assert.Equal(t, next, r.Start, "segment %d must start where the previous ended", i)
			if i < len(ranges)-1 {
				assert.Equal(t, c.chunk, r.Len(), "only the last segment may be short")
			}
			assert.LessOrEqual(t, r.Len(), c.chunk)
			next = r.End
		}
		assert.Equal(t, c.total, next, "segments must cover all rows")
	}
}

func TestPlanThreshold(t *testing.T) {
	// At or under the threshold everything stays in one segment.
	p := NewThreshold(90000, 45000, 90000)
	assert.Equal(t, 1, p.Count())
	assert.Equal(t, Range{0, 90000}, p.At(0))

	// One row over and chunking kicks in.
	p = NewThreshold(90001, 45000, 90000)
	assert.Equal(t, 3, p.Count())
	assert.Equal(t, Range{90000, 90001}, p.At(2))
}

func TestNavigationClamps(t *testing.T) {
	p := New(100, 30) // 4 segments
	assert.Equal(t, 1, p.Next(0))
	assert.Equal(t, 3, p.Next(3))
	assert.Equal(t, 0, p.Prev(0))
	assert.Equal(t, 2, p.Prev(3))
	assert.Equal(t, 0, p.Clamp(-5))
	assert.Equal(t, 3, p.Clamp(99))
}

func TestAtClampsIndex(t *testing.T) {
	p := New(10, 4)
	assert.Equal(t, p.At(0), p.At(-1))
	assert.Equal(t, p.At(2), p.At(7))
	assert.Equal(t, Range{8, 10}, p.At(2))
}

func TestEmptyPlan(t *testing.T) {
	p := New(0, 45000)
	assert.Equal(t, 1, p.Count())
	assert.Equal(t, 0, p.At(0).Len())
	assert.False(t, p.At(0).Contains(0))
}

func TestRangeContains(t *testing.T) {
	r := Range{Start: 5, End: 8}
	assert.False(t, r.Contains(4))
	assert.True(t, r.Contains(5))
	assert.True(t, r.Contains(7))
	assert.False(t, r.Contains(8))
}
