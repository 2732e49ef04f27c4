package storage

import "errors"

// Sentinel errors for the named failure kinds the storage layer can return.
// Callers should use errors.Is against these; wrapping with fmt.Errorf("%w: ...")
// is expected at the call site to add context (page id, file name, etc.).
var (
	// ErrCatalogMiss means a PageId referenced a file not registered in the catalog.
	ErrCatalogMiss = errors.New("storage: file not found in catalog")

	// ErrDuplicateName means Database.Add was called with a name already present.
	ErrDuplicateName = errors.New("storage: duplicate name in catalog")

	// ErrUnknownName means Database.Remove or Database.Get referenced an unregistered name.
	ErrUnknownName = errors.New("storage: unknown name in catalog")

	// ErrNotResident means IsDirty was queried for a page the pool does not hold.
	ErrNotResident = errors.New("storage: page not resident in buffer pool")

	// ErrSchemaMiss means a field name was not found in a TupleDesc, or a
	// column or field index fell outside a TupleDesc or Tuple.
	ErrSchemaMiss = errors.New("storage: field not found in schema")

	// ErrTypeMismatch means an operation combined field_t values of incompatible kinds.
	ErrTypeMismatch = errors.New("storage: type mismatch between field values")

	// ErrOutOfRange means ColumnStats.AddValue was called with a value outside [min, max].
	ErrOutOfRange = errors.New("storage: value out of histogram range")

	// ErrEmptyAggregate means an aggregate other than COUNT was evaluated over zero rows.
	ErrEmptyAggregate = errors.New("storage: aggregate over empty input")
)
