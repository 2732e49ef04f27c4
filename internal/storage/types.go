// Package storage implements the data model, buffer pool, and catalog of a
// teaching-grade relational storage engine: PageId/Page identity, the
// TupleDesc/Tuple/Field value model, the DbFile collaborator interface, the
// capped buffer pool with LRU eviction and write-back, and the Database
// catalog singleton that owns both.
package storage

import (
	"fmt"
)

// PageSize is the fixed size, in bytes, of every Page. It is a build-time
// constant shared between the buffer pool and any DbFile implementation.
const PageSize = 4096

// PageId identifies a single page image: the file it belongs to and its
// zero-based index within that file. PageId is a plain value type — it is
// comparable with == and usable directly as a map key, which is what gives
// the buffer pool's pages/dirty maps their identity semantics.
type PageId struct {
	File string
	Page uint32
}

func (id PageId) String() string {
	return fmt.Sprintf("%s:%d", id.File, id.Page)
}

// Page is a fixed-size opaque byte container. The buffer pool owns Page
// values but never interprets or mutates their contents; only a DbFile
// implementation gives the bytes meaning.
type Page struct {
	data [PageSize]byte
}

// NewPage returns a zeroed page.
func NewPage() *Page {
	return &Page{}
}

// Bytes exposes the page's backing storage for a DbFile to read or write.
func (p *Page) Bytes() []byte {
	return p.data[:]
}

// Kind tags which alternative of a Field is populated.
type Kind int

const (
	IntKind Kind = iota
	DoubleKind
	StringKind
)

func (k Kind) String() string {
	switch k {
	case IntKind:
		return "INT"
	case DoubleKind:
		return "DOUBLE"
	case StringKind:
		return "STRING"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Field is field_t: a tagged value holding exactly one of int, double, or
// string. Equality and ordering are defined only between values of the same
// Kind; comparing across kinds fails with ErrTypeMismatch.
type Field struct {
	kind Kind
	intV int
	dblV float64
	strV string
}

// IntField constructs an INT-kinded Field.
func IntField(v int) Field { return Field{kind: IntKind, intV: v} }

// DoubleField constructs a DOUBLE-kinded Field.
func DoubleField(v float64) Field { return Field{kind: DoubleKind, dblV: v} }

// StringField constructs a STRING-kinded Field.
func StringField(v string) Field { return Field{kind: StringKind, strV: v} }

// Kind reports which alternative is populated.
func (f Field) Kind() Kind { return f.kind }

// Int returns the INT payload. ok is false if f is not INT-kinded.
func (f Field) Int() (v int, ok bool) {
	if f.kind != IntKind {
		return 0, false
	}
	return f.intV, true
}

// Double returns the DOUBLE payload. ok is false if f is not DOUBLE-kinded.
func (f Field) Double() (v float64, ok bool) {
	if f.kind != DoubleKind {
		return 0, false
	}
	return f.dblV, true
}

// Str returns the STRING payload. ok is false if f is not STRING-kinded.
func (f Field) Str() (v string, ok bool) {
	if f.kind != StringKind {
		return "", false
	}
	return f.strV, true
}

func (f Field) String() string {
	switch f.kind {
	case IntKind:
		return fmt.Sprintf("%d", f.intV)
	case DoubleKind:
		return fmt.Sprintf("%g", f.dblV)
	case StringKind:
		return f.strV
	default:
		return "<invalid field>"
	}
}

// Compare returns -1, 0, or 1 as f is less than, equal to, or greater than
// other. It fails with ErrTypeMismatch if the two fields have different
// kinds.
func (f Field) Compare(other Field) (int, error) {
	if f.kind != other.kind {
		return 0, fmt.Errorf("%w: cannot compare %s to %s", ErrTypeMismatch, f.kind, other.kind)
	}
	switch f.kind {
	case IntKind:
		return compareOrdered(f.intV, other.intV), nil
	case DoubleKind:
		return compareOrdered(f.dblV, other.dblV), nil
	case StringKind:
		return compareOrdered(f.strV, other.strV), nil
	default:
		return 0, fmt.Errorf("%w: unknown field kind %s", ErrTypeMismatch, f.kind)
	}
}

// Equal reports whether f and other carry the same kind and value. It fails
// with ErrTypeMismatch across mismatched kinds, same as Compare.
func (f Field) Equal(other Field) (bool, error) {
	c, err := f.Compare(other)
	if err != nil {
		return false, err
	}
	return c == 0, nil
}

func compareOrdered[T int | float64 | string](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// ColumnDesc is one named, typed column of a TupleDesc.
type ColumnDesc struct {
	Name string
	Type Kind
}

// TupleDesc is an ordered, name-unique sequence of typed columns shared by
// every Tuple coming out of a DbFile.
type TupleDesc struct {
	columns []ColumnDesc
}

// NewTupleDesc builds a TupleDesc from the given columns. It panics if two
// columns share a name — constructing a malformed schema is a programming
// error, not a runtime condition callers are expected to recover from.
func NewTupleDesc(columns ...ColumnDesc) *TupleDesc {
	seen := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		if _, dup := seen[c.Name]; dup {
			panic(fmt.Sprintf("storage: duplicate column name %q in TupleDesc", c.Name))
		}
		seen[c.Name] = struct{}{}
	}
	cols := make([]ColumnDesc, len(columns))
	copy(cols, columns)
	return &TupleDesc{columns: cols}
}

// NumFields returns the number of columns.
func (td *TupleDesc) NumFields() int { return len(td.columns) }

// Columns returns the ordered column descriptors.
func (td *TupleDesc) Columns() []ColumnDesc {
	out := make([]ColumnDesc, len(td.columns))
	copy(out, td.columns)
	return out
}

// IndexOf resolves a column name to its position. It fails with
// ErrSchemaMiss if no column carries that name.
func (td *TupleDesc) IndexOf(name string) (int, error) {
	for i, c := range td.columns {
		if c.Name == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: no field named %q", ErrSchemaMiss, name)
}

// FieldType returns the declared Kind of column i. It fails if i is out of
// range.
func (td *TupleDesc) FieldType(i int) (Kind, error) {
	if i < 0 || i >= len(td.columns) {
		return 0, fmt.Errorf("%w: column index %d out of range", ErrSchemaMiss, i)
	}
	return td.columns[i].Type, nil
}

// Tuple is an ordered sequence of Field values conforming positionally to a
// TupleDesc. Tuples are copied by value wherever practical.
type Tuple struct {
	fields []Field
}

// NewTuple builds a Tuple from the given fields, in order.
func NewTuple(fields ...Field) Tuple {
	cp := make([]Field, len(fields))
	copy(cp, fields)
	return Tuple{fields: cp}
}

// Size returns the number of fields in the tuple.
func (t Tuple) Size() int { return len(t.fields) }

// GetField returns the field at position i. It fails if i is out of range.
func (t Tuple) GetField(i int) (Field, error) {
	if i < 0 || i >= len(t.fields) {
		return Field{}, fmt.Errorf("%w: tuple field index %d out of range", ErrSchemaMiss, i)
	}
	return t.fields[i], nil
}

// Fields returns a copy of the tuple's fields in order.
func (t Tuple) Fields() []Field {
	out := make([]Field, len(t.fields))
	copy(out, t.fields)
	return out
}

func (t Tuple) String() string {
	s := "("
	for i, f := range t.fields {
		if i > 0 {
			s += ", "
		}
		s += f.String()
	}
	return s + ")"
}
