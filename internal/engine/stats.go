package engine

import (
	"fmt"
	"strings"

	"github.com/go-dbkernel/dbkernel/internal/storage"
)

// ColumnStats is an equi-width histogram over an integer-valued column,
// used to estimate the cardinality of a predicate without scanning the
// underlying DbFile. It is the planner's only cost signal above the
// operator kernel; plan selection itself is out of scope.
type ColumnStats struct {
	buckets   int
	min, max  int
	width     int
	histogram []int
	total     int
}

// NewColumnStats configures a histogram of buckets equal-width buckets
// spanning [min, max]. width is computed as ceil((max-min)/buckets) using
// integer arithmetic, per spec.
func NewColumnStats(buckets, min, max int) (*ColumnStats, error) {
	if buckets < 1 {
		return nil, fmt.Errorf("engine: ColumnStats requires buckets >= 1, got %d", buckets)
	}
	if min > max {
		return nil, fmt.Errorf("engine: ColumnStats requires min <= max, got min=%d max=%d", min, max)
	}
	span := max - min
	width := span / buckets
	if span%buckets != 0 {
		width++
	}
	if width < 1 {
		width = 1
	}
	return &ColumnStats{
		buckets:   buckets,
		min:       min,
		max:       max,
		width:     width,
		histogram: make([]int, buckets),
	}, nil
}

// Buckets, Min, Max, Width, and Total expose the histogram's fixed
// configuration and running count, mainly for tests and diagnostics.
func (cs *ColumnStats) Buckets() int { return cs.buckets }
func (cs *ColumnStats) Min() int     { return cs.min }
func (cs *ColumnStats) Max() int     { return cs.max }
func (cs *ColumnStats) Width() int   { return cs.width }
func (cs *ColumnStats) Total() int   { return cs.total }

// indexOf maps a value to its bucket, clamped to a valid index. Used both
// by AddValue (where the caller has already range-checked v) and by
// EstimateCardinality (where v has already been clamped into range).
func (cs *ColumnStats) indexOf(v int) int {
	idx := (v - cs.min) / cs.width
	switch {
	case idx < 0:
		return 0
	case idx > cs.buckets-1:
		return cs.buckets - 1
	default:
		return idx
	}
}

// AddValue increments the bucket covering v and the running total. It
// fails with storage.ErrOutOfRange if v falls outside [min, max] — unlike
// EstimateCardinality, AddValue does not clamp.
func (cs *ColumnStats) AddValue(v int) error {
	if v < cs.min || v > cs.max {
		return fmt.Errorf("%w: %d not in [%d, %d]", storage.ErrOutOfRange, v, cs.min, cs.max)
	}
	cs.histogram[cs.indexOf(v)]++
	cs.total++
	return nil
}

func (cs *ColumnStats) clamp(v int) int {
	switch {
	case v < cs.min:
		return cs.min
	case v > cs.max:
		return cs.max
	default:
		return v
	}
}

func (cs *ColumnStats) sumRange(lo, hi int) int {
	s := 0
	for j := lo; j <= hi; j++ {
		s += cs.histogram[j]
	}
	return s
}

// EstimateCardinality returns an estimated row count satisfying `column OP
// v`, using the six formulas from spec section 4.4. v is clamped into
// [min, max] first — a deliberate looseness for query-side robustness that
// AddValue does not share. Every division here is integer division, and
// the multiply-then-divide order in the LT/LE/GT/GE terms is load-bearing:
// reassociating to divide-then-multiply changes the result.
func (cs *ColumnStats) EstimateCardinality(op CompareOp, v int) int {
	v = cs.clamp(v)
	i := cs.indexOf(v)
	h := cs.histogram[i]
	w := cs.width
	l := cs.min + i*w
	r := l + w - 1

	switch op {
	case EQ:
		return h / w
	case NE:
		return cs.total - h/w
	case LT:
		return cs.sumRange(0, i-1) + (h*(v-l))/w
	case LE:
		return cs.sumRange(0, i-1) + (h*(v-l+1))/w
	case GT:
		return cs.sumRange(i+1, cs.buckets-1) + (h*(r-v))/w
	case GE:
		return cs.sumRange(i+1, cs.buckets-1) + (h*(r-v+1))/w
	default:
		return 0
	}
}

func (cs *ColumnStats) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "ColumnStats(buckets=%d, min=%d, max=%d, width=%d, total=%d)\n",
		cs.buckets, cs.min, cs.max, cs.width, cs.total)
	for i := 0; i < cs.buckets; i++ {
		lo := cs.min + i*cs.width
		hi := lo + cs.width - 1
		fmt.Fprintf(&b, "  [%d, %d]: %d\n", lo, hi, cs.histogram[i])
	}
	return b.String()
}
