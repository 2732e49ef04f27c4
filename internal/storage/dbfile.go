package storage

// DbFile is the abstract collaborator the buffer pool and operator kernel
// depend on: a named, page-backed collection of tuples. The concrete
// on-disk format (heap file, B+Tree, ...) is outside this module's scope —
// DbFile is the seam a caller plugs a real implementation into. MemFile in
// this package is a reference implementation used by tests and the demo
// command, not a production file format.
type DbFile interface {
	// GetName returns the name this file is registered under in the catalog.
	GetName() string

	// GetTupleDesc returns the schema every tuple in this file conforms to.
	GetTupleDesc() *TupleDesc

	// ReadPage fills page with the on-disk image of the given zero-based
	// page index.
	ReadPage(page *Page, index uint32) error

	// WritePage persists page as the image for the given zero-based page
	// index.
	WritePage(page *Page, index uint32) error

	// InsertTuple appends a tuple to the file.
	InsertTuple(t Tuple) error

	// Iterator returns a forward iterator over every tuple in the file.
	Iterator() TupleIterator
}

// TupleIterator yields tuples one at a time by value, in the style of a
// cursor: call Next until it returns false, reading Tuple() after each
// successful Next. Err reports any error encountered during iteration.
type TupleIterator interface {
	Next() bool
	Tuple() Tuple
	Err() error
}
