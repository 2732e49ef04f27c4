// Package engine implements the relational operator kernel (projection,
// filter, aggregate, join) and the ColumnStats selectivity estimator that
// sits above internal/storage's buffer pool and catalog.
package engine

import (
	"context"
	"fmt"

	"github.com/go-dbkernel/dbkernel/internal/storage"
)

// CompareOp names a predicate comparison operator, shared between filter
// predicates, join predicates, and ColumnStats.EstimateCardinality.
type CompareOp int

const (
	EQ CompareOp = iota
	NE
	LT
	LE
	GT
	GE
)

func (op CompareOp) String() string {
	switch op {
	case EQ:
		return "EQ"
	case NE:
		return "NE"
	case LT:
		return "LT"
	case LE:
		return "LE"
	case GT:
		return "GT"
	case GE:
		return "GE"
	default:
		return fmt.Sprintf("CompareOp(%d)", int(op))
	}
}

func evalCompare(op CompareOp, cmp int) bool {
	switch op {
	case EQ:
		return cmp == 0
	case NE:
		return cmp != 0
	case LT:
		return cmp < 0
	case LE:
		return cmp <= 0
	case GT:
		return cmp > 0
	case GE:
		return cmp >= 0
	default:
		return false
	}
}

// checkCtx reports ctx's cancellation, if any, without blocking. A nil
// context (or context.Background()) never cancels, which keeps an operator
// call with no context exactly as uninterruptible as the single-threaded
// core describes.
func checkCtx(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

// FilterPredicate is one conjunct of a filter's predicate list: the named
// column compared against a literal value with op.
type FilterPredicate struct {
	Field string
	Op    CompareOp
	Value storage.Field
}

// JoinPredicate drives a nested-loop join: rows pass when l[LeftField] OP
// r[RightField].
type JoinPredicate struct {
	LeftField  string
	RightField string
	Op         CompareOp
}

// Projection resolves fieldNames against in's schema and, for every tuple
// in in, emits a tuple holding exactly those fields in the requested
// order into out. Repeating a name in fieldNames duplicates that column in
// the output; an unresolvable name fails with storage.ErrSchemaMiss.
func Projection(ctx context.Context, in, out storage.DbFile, fieldNames []string) error {
	desc := in.GetTupleDesc()
	idxs := make([]int, len(fieldNames))
	for i, name := range fieldNames {
		idx, err := desc.IndexOf(name)
		if err != nil {
			return err
		}
		idxs[i] = idx
	}

	it := in.Iterator()
	for it.Next() {
		if err := checkCtx(ctx); err != nil {
			return err
		}
		t := it.Tuple()
		fields := make([]storage.Field, len(idxs))
		for i, idx := range idxs {
			f, err := t.GetField(idx)
			if err != nil {
				return err
			}
			fields[i] = f
		}
		if err := out.InsertTuple(storage.NewTuple(fields...)); err != nil {
			return err
		}
	}
	return it.Err()
}

// Filter emits every tuple of in that satisfies every predicate in
// predicates (conjunction, short-circuiting on the first failing
// predicate) into out. An empty predicate list passes every tuple through
// unchanged. Comparing a predicate's literal against a field of a
// different kind fails with storage.ErrTypeMismatch.
func Filter(ctx context.Context, in, out storage.DbFile, predicates []FilterPredicate) error {
	desc := in.GetTupleDesc()
	idxs := make([]int, len(predicates))
	for i, p := range predicates {
		idx, err := desc.IndexOf(p.Field)
		if err != nil {
			return err
		}
		idxs[i] = idx
	}

	it := in.Iterator()
	for it.Next() {
		if err := checkCtx(ctx); err != nil {
			return err
		}
		t := it.Tuple()
		pass := true
		for i, p := range predicates {
			f, err := t.GetField(idxs[i])
			if err != nil {
				return err
			}
			cmp, err := f.Compare(p.Value)
			if err != nil {
				return err
			}
			if !evalCompare(p.Op, cmp) {
				pass = false
				break
			}
		}
		if pass {
			if err := out.InsertTuple(t); err != nil {
				return err
			}
		}
	}
	return it.Err()
}

// AggOp names an aggregate operator.
type AggOp int

const (
	SUM AggOp = iota
	AVG
	COUNT
	MIN
	MAX
)

func (op AggOp) String() string {
	switch op {
	case SUM:
		return "SUM"
	case AVG:
		return "AVG"
	case COUNT:
		return "COUNT"
	case MIN:
		return "MIN"
	case MAX:
		return "MAX"
	default:
		return fmt.Sprintf("AggOp(%d)", int(op))
	}
}

// Aggregate describes a single aggregate computation: Op applied to Field,
// optionally bucketed by Group. A nil Group means no grouping.
type Aggregate struct {
	Field string
	Op    AggOp
	Group *string
}

// AggregateRows computes in's aggregate and writes the result into out.
// Without a group column it emits exactly one tuple holding the aggregate
// value. With a group column it buckets input rows by that column's value
// and emits one two-field (group, value) tuple per observed bucket, in the
// order buckets were first observed — spec leaves group output order
// unspecified, so this is not a guarantee callers should depend on beyond
// repeatability within a single run.
func AggregateRows(ctx context.Context, in, out storage.DbFile, agg Aggregate) error {
	desc := in.GetTupleDesc()
	fieldIdx, err := desc.IndexOf(agg.Field)
	if err != nil {
		return err
	}

	groupIdx := -1
	if agg.Group != nil {
		groupIdx, err = desc.IndexOf(*agg.Group)
		if err != nil {
			return err
		}
	}

	it := in.Iterator()

	if groupIdx < 0 {
		var rows []storage.Tuple
		for it.Next() {
			if err := checkCtx(ctx); err != nil {
				return err
			}
			rows = append(rows, it.Tuple())
		}
		if err := it.Err(); err != nil {
			return err
		}
		val, err := computeAgg(agg.Op, fieldIdx, rows)
		if err != nil {
			return err
		}
		return out.InsertTuple(storage.NewTuple(val))
	}

	buckets := make(map[storage.Field][]storage.Tuple)
	var order []storage.Field
	for it.Next() {
		if err := checkCtx(ctx); err != nil {
			return err
		}
		t := it.Tuple()
		g, err := t.GetField(groupIdx)
		if err != nil {
			return err
		}
		if _, seen := buckets[g]; !seen {
			order = append(order, g)
		}
		buckets[g] = append(buckets[g], t)
	}
	if err := it.Err(); err != nil {
		return err
	}

	for _, g := range order {
		val, err := computeAgg(agg.Op, fieldIdx, buckets[g])
		if err != nil {
			return err
		}
		if err := out.InsertTuple(storage.NewTuple(g, val)); err != nil {
			return err
		}
	}
	return nil
}

func computeAgg(op AggOp, fieldIdx int, rows []storage.Tuple) (storage.Field, error) {
	if op == COUNT {
		return storage.IntField(len(rows)), nil
	}
	if len(rows) == 0 {
		return storage.Field{}, fmt.Errorf("%w: %s over zero rows", storage.ErrEmptyAggregate, op)
	}

	first, err := rows[0].GetField(fieldIdx)
	if err != nil {
		return storage.Field{}, err
	}

	switch op {
	case SUM:
		return aggSum(fieldIdx, rows, first.Kind())
	case AVG:
		return aggAvg(fieldIdx, rows, first.Kind())
	case MIN:
		return aggExtreme(fieldIdx, rows, -1)
	case MAX:
		return aggExtreme(fieldIdx, rows, 1)
	default:
		return storage.Field{}, fmt.Errorf("%w: unknown aggregate op %s", storage.ErrTypeMismatch, op)
	}
}

func aggSum(fieldIdx int, rows []storage.Tuple, kind storage.Kind) (storage.Field, error) {
	switch kind {
	case storage.IntKind:
		sum := 0
		for _, t := range rows {
			f, err := t.GetField(fieldIdx)
			if err != nil {
				return storage.Field{}, err
			}
			v, _ := f.Int()
			sum += v
		}
		return storage.IntField(sum), nil
	case storage.DoubleKind:
		sum := 0.0
		for _, t := range rows {
			f, err := t.GetField(fieldIdx)
			if err != nil {
				return storage.Field{}, err
			}
			v, _ := f.Double()
			sum += v
		}
		return storage.DoubleField(sum), nil
	default:
		return storage.Field{}, fmt.Errorf("%w: SUM on STRING field", storage.ErrTypeMismatch)
	}
}

func aggAvg(fieldIdx int, rows []storage.Tuple, kind storage.Kind) (storage.Field, error) {
	switch kind {
	case storage.IntKind:
		sum := 0
		for _, t := range rows {
			f, err := t.GetField(fieldIdx)
			if err != nil {
				return storage.Field{}, err
			}
			v, _ := f.Int()
			sum += v
		}
		return storage.DoubleField(float64(sum) / float64(len(rows))), nil
	case storage.DoubleKind:
		sum := 0.0
		for _, t := range rows {
			f, err := t.GetField(fieldIdx)
			if err != nil {
				return storage.Field{}, err
			}
			v, _ := f.Double()
			sum += v
		}
		return storage.DoubleField(sum / float64(len(rows))), nil
	default:
		return storage.Field{}, fmt.Errorf("%w: AVG on STRING field", storage.ErrTypeMismatch)
	}
}

// aggExtreme computes MIN (dir < 0) or MAX (dir > 0) over rows, preserving
// the field's original kind.
func aggExtreme(fieldIdx int, rows []storage.Tuple, dir int) (storage.Field, error) {
	best, err := rows[0].GetField(fieldIdx)
	if err != nil {
		return storage.Field{}, err
	}
	for _, t := range rows[1:] {
		f, err := t.GetField(fieldIdx)
		if err != nil {
			return storage.Field{}, err
		}
		cmp, err := f.Compare(best)
		if err != nil {
			return storage.Field{}, err
		}
		if (dir < 0 && cmp < 0) || (dir > 0 && cmp > 0) {
			best = f
		}
	}
	return best, nil
}

// Join performs a nested-loop theta join: for every pair (l, r) in
// left × right satisfying l[pred.LeftField] pred.Op r[pred.RightField], it
// emits l's fields followed by r's fields into out. When pred.Op is EQ,
// the join column is redundant between the two sides, so the right side's
// copy is omitted from the emitted tuple; every other operator keeps all
// of right's columns. Iteration order is left-major, then right-major.
func Join(ctx context.Context, left, right, out storage.DbFile, pred JoinPredicate) error {
	leftDesc := left.GetTupleDesc()
	rightDesc := right.GetTupleDesc()

	li, err := leftDesc.IndexOf(pred.LeftField)
	if err != nil {
		return err
	}
	ri, err := rightDesc.IndexOf(pred.RightField)
	if err != nil {
		return err
	}

	var rightRows []storage.Tuple
	rit := right.Iterator()
	for rit.Next() {
		rightRows = append(rightRows, rit.Tuple())
	}
	if err := rit.Err(); err != nil {
		return err
	}

	omitRightJoinCol := pred.Op == EQ

	lit := left.Iterator()
	for lit.Next() {
		if err := checkCtx(ctx); err != nil {
			return err
		}
		l := lit.Tuple()
		lf, err := l.GetField(li)
		if err != nil {
			return err
		}
		for _, r := range rightRows {
			rf, err := r.GetField(ri)
			if err != nil {
				return err
			}
			cmp, err := lf.Compare(rf)
			if err != nil {
				return err
			}
			if !evalCompare(pred.Op, cmp) {
				continue
			}

			outFields := append([]storage.Field{}, l.Fields()...)
			rFields := r.Fields()
			if omitRightJoinCol {
				rFields = append(append([]storage.Field{}, rFields[:ri]...), rFields[ri+1:]...)
			}
			outFields = append(outFields, rFields...)

			if err := out.InsertTuple(storage.NewTuple(outFields...)); err != nil {
				return err
			}
		}
	}
	return lit.Err()
}
