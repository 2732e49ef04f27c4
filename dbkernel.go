// Package dbkernel is the public facade over a teaching-grade relational
// storage and query engine core: a fixed-capacity buffer pool with LRU
// eviction and write-back, a process-wide catalog/database singleton, a
// pull-style relational operator kernel (projection, filter, aggregate,
// join), and an equi-width histogram for selectivity estimation.
//
// The package re-exports the pieces a caller needs without reaching into
// internal/storage or internal/engine directly:
//
//	db := dbkernel.NewDatabase()
//	desc := dbkernel.NewTupleDesc(
//		dbkernel.ColumnDesc{Name: "id", Type: dbkernel.IntKind},
//		dbkernel.ColumnDesc{Name: "name", Type: dbkernel.StringKind},
//	)
//	users := dbkernel.NewMemFile("users", desc)
//	_ = db.Add(users)
//	_ = users.InsertTuple(dbkernel.NewTuple(dbkernel.IntField(1), dbkernel.StringField("ada")))
//
//	out := dbkernel.NewMemFile("names", dbkernel.NewTupleDesc(dbkernel.ColumnDesc{Name: "name", Type: dbkernel.StringKind}))
//	err := dbkernel.Projection(context.Background(), users, out, []string{"name"})
//
// What this module deliberately does not provide: a concrete on-disk
// DbFile, a SQL parser, a CLI, or a wire protocol — those are collaborators
// a caller supplies or layers on top.
package dbkernel

import (
	"context"

	"github.com/go-dbkernel/dbkernel/internal/engine"
	"github.com/go-dbkernel/dbkernel/internal/storage"
)

// Type aliases re-exporting the storage layer's data model and the engine
// layer's operator/histogram types under one package.
type (
	Database    = storage.Database
	DbFile      = storage.DbFile
	PageId      = storage.PageId
	Page        = storage.Page
	Field       = storage.Field
	Kind        = storage.Kind
	Tuple       = storage.Tuple
	TupleDesc   = storage.TupleDesc
	ColumnDesc  = storage.ColumnDesc
	MemFile     = storage.MemFile
	BufferPool  = storage.BufferPool
	TupleIterator = storage.TupleIterator

	CompareOp       = engine.CompareOp
	AggOp           = engine.AggOp
	FilterPredicate = engine.FilterPredicate
	JoinPredicate   = engine.JoinPredicate
	Aggregate       = engine.Aggregate
	ColumnStats     = engine.ColumnStats
)

// Field kind tags.
const (
	IntKind    = storage.IntKind
	DoubleKind = storage.DoubleKind
	StringKind = storage.StringKind
)

// Comparison operators shared by filter predicates, join predicates, and
// ColumnStats.EstimateCardinality.
const (
	EQ = engine.EQ
	NE = engine.NE
	LT = engine.LT
	LE = engine.LE
	GT = engine.GT
	GE = engine.GE
)

// Aggregate operators.
const (
	SUM   = engine.SUM
	AVG   = engine.AVG
	COUNT = engine.COUNT
	MIN   = engine.MIN
	MAX   = engine.MAX
)

// PageSize is the fixed size, in bytes, every Page occupies.
const PageSize = storage.PageSize

// DefaultNumPages is the buffer pool's fixed capacity.
const DefaultNumPages = storage.DefaultNumPages

// Storage-layer sentinel errors, re-exported for callers using errors.Is
// without importing internal/storage directly.
var (
	ErrCatalogMiss    = storage.ErrCatalogMiss
	ErrDuplicateName  = storage.ErrDuplicateName
	ErrUnknownName    = storage.ErrUnknownName
	ErrNotResident    = storage.ErrNotResident
	ErrSchemaMiss     = storage.ErrSchemaMiss
	ErrTypeMismatch   = storage.ErrTypeMismatch
	ErrOutOfRange     = storage.ErrOutOfRange
	ErrEmptyAggregate = storage.ErrEmptyAggregate
)

// NewDatabase constructs a fresh Database with an empty catalog and buffer
// pool. Prefer this over DefaultDatabase when the caller can thread a
// *Database through its own constructors.
func NewDatabase() *Database { return storage.NewDatabase() }

// DefaultDatabase returns the process-wide Database singleton, constructing
// it lazily on first access.
func DefaultDatabase() *Database { return storage.DefaultDatabase() }

// ResetDefaultDatabase flushes and discards the process-wide singleton, if
// one was ever constructed. Intended for test teardown.
func ResetDefaultDatabase() { storage.ResetDefaultDatabase() }

// NewMemFile constructs an in-memory reference DbFile named name with the
// given schema. It is a test/demo double, not a production file format.
func NewMemFile(name string, desc *TupleDesc) *MemFile { return storage.NewMemFile(name, desc) }

// NewTupleDesc builds a TupleDesc from the given columns.
func NewTupleDesc(columns ...ColumnDesc) *TupleDesc { return storage.NewTupleDesc(columns...) }

// NewTuple builds a Tuple from the given fields, in order.
func NewTuple(fields ...Field) Tuple { return storage.NewTuple(fields...) }

// IntField, DoubleField, and StringField construct a Field of the
// corresponding Kind.
func IntField(v int) Field        { return storage.IntField(v) }
func DoubleField(v float64) Field { return storage.DoubleField(v) }
func StringField(v string) Field  { return storage.StringField(v) }

// NewColumnStats configures an equi-width histogram over [min, max] split
// into buckets equal-width buckets.
func NewColumnStats(buckets, min, max int) (*ColumnStats, error) {
	return engine.NewColumnStats(buckets, min, max)
}

// Projection, Filter, AggregateRows, and Join are the relational operator
// kernel's public entry points; see internal/engine for their semantics.
func Projection(ctx context.Context, in, out DbFile, fieldNames []string) error {
	return engine.Projection(ctx, in, out, fieldNames)
}

func Filter(ctx context.Context, in, out DbFile, predicates []FilterPredicate) error {
	return engine.Filter(ctx, in, out, predicates)
}

func AggregateRows(ctx context.Context, in, out DbFile, agg Aggregate) error {
	return engine.AggregateRows(ctx, in, out, agg)
}

func Join(ctx context.Context, left, right, out DbFile, pred JoinPredicate) error {
	return engine.Join(ctx, left, right, out, pred)
}
