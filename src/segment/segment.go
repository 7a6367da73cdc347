// Package segment chunks a row count into fixed-size display segments so the
// viewer never hands an unbounded slice to the renderer.
package segment

// Defaults used by the viewer. Datasets at or below DefaultThreshold rows are
// shown as a single segment; above it they are split into DefaultChunkSize chunks.
const (
	DefaultChunkSize = 45_000
	DefaultThreshold = 90_000
)

// Range is a half-open row interval [Start, End).
type Range struct {
	Start int
	End   int
}

// Len returns the number of rows covered by r.
func (r Range) Len() int { return r.End - r.Start }

// Contains reports whether row index i falls inside r.
func (r Range) Contains(i int) bool { return i >= r.Start && i < r.End }

// Plan is an immutable chunking of `total` rows into segments of at most
// `chunkSize` rows each, in row order, covering every row exactly once.
type Plan struct {
	total     int
	chunkSize int
}

// New builds a plan over total rows with the given chunk size. A non-positive
// chunk size, or total <= chunkSize, yields a single segment.
func New(total, chunkSize int) Plan {
	if total < 0 {
		total = 0
	}
	if chunkSize <= 0 {
		chunkSize = total
	}
	return Plan{total: total, chunkSize: chunkSize}
}

// NewThreshold builds a plan that stays at one segment until total exceeds
// threshold, then chunks by chunkSize. This mirrors how the viewer only starts
// segmenting once a file is large enough to hurt render cost.
func NewThreshold(total, chunkSize, threshold int) Plan {
	if total <= threshold {
		return New(total, 0)
	}
	return New(total, chunkSize)
}

// Total returns the number of rows covered by the plan.
func (p Plan) Total() int { return p.total }

// Count returns the number of segments: ceil(total/chunkSize), minimum 1.
func (p Plan) Count() int {
	if p.total == 0 || p.chunkSize <= 0 {
		return 1
	}
	return (p.total + p.chunkSize - 1) / p.chunkSize
}

// At returns the half-open row range of segment i. The index is clamped to the
// valid segment range, so callers navigating past either end stay in bounds.
func (p Plan) At(i int) Range {
	i = p.Clamp(i)
	if p.total == 0 {
		return Range{}
	}
	start := i * p.chunkSize
	end := start + p.chunkSize
	if p.chunkSize <= 0 || end > p.total {
		end = p.total
	}
	return Range{Start: start, End: end}
}

// Ranges returns all segments in order. The last segment may be shorter.
func (p Plan) Ranges() []Range {
	out := make([]Range, p.Count())
	for i := range out {
		out[i] = p.At(i)
	}
	return out
}

// Clamp confines a segment index to [0, Count).
func (p Plan) Clamp(i int) int {
	if i < 0 {
		return 0
	}
	if n := p.Count(); i >= n {
		return n - 1
	}
	return i
}

// Next returns the segment index after i, clamped.
func (p Plan) Next(i int) int { return p.Clamp(i + 1) }

// Prev returns the segment index before i, clamped.
func (p Plan) Prev(i int) int { return p.Clamp(i - 1) }
