package storage

import (
	"bytes"
	"encoding/gob"
	"fmt"
)

// tuplesPerPage bounds how many tuples MemFile packs into a single Page
// image. It is a MemFile-specific constant, not part of the buffer pool's
// contract — a real DbFile is free to pack pages however its format wants.
const tuplesPerPage = 32

// gobField is Field's exported mirror for gob encoding. Field keeps its
// fields unexported so construction always goes through IntField /
// DoubleField / StringField; MemFile's page codec is the one place that
// needs a serializable shape, so it keeps its own.
type gobField struct {
	Kind Kind
	I    int
	D    float64
	S    string
}

func toGobField(f Field) gobField {
	switch f.kind {
	case IntKind:
		v, _ := f.Int()
		return gobField{Kind: IntKind, I: v}
	case DoubleKind:
		v, _ := f.Double()
		return gobField{Kind: DoubleKind, D: v}
	default:
		v, _ := f.Str()
		return gobField{Kind: StringKind, S: v}
	}
}

func fromGobField(g gobField) Field {
	switch g.Kind {
	case IntKind:
		return IntField(g.I)
	case DoubleKind:
		return DoubleField(g.D)
	default:
		return StringField(g.S)
	}
}

// MemFile is an in-memory, reference DbFile implementation: tuples live in
// a plain slice, and ReadPage/WritePage (de)serialize fixed-size windows of
// that slice with encoding/gob so BufferPool's read-through and write-back
// paths have something real to exercise. It is not a production file
// format — the on-disk page layout is explicitly out of this module's
// scope — but it gives tests and the demo command a DbFile to point at.
type MemFile struct {
	name string
	desc *TupleDesc
	rows []Tuple
}

// NewMemFile constructs an empty MemFile named name with the given schema.
func NewMemFile(name string, desc *TupleDesc) *MemFile {
	return &MemFile{name: name, desc: desc}
}

// GetName implements DbFile.
func (f *MemFile) GetName() string { return f.name }

// GetTupleDesc implements DbFile.
func (f *MemFile) GetTupleDesc() *TupleDesc { return f.desc }

// NumPages returns how many pages the current row count spans.
func (f *MemFile) NumPages() uint32 {
	if len(f.rows) == 0 {
		return 0
	}
	return uint32((len(f.rows) + tuplesPerPage - 1) / tuplesPerPage)
}

// ReadPage implements DbFile by decoding the gob-encoded window of rows
// covering page index.
func (f *MemFile) ReadPage(page *Page, index uint32) error {
	start := int(index) * tuplesPerPage
	if start >= len(f.rows) {
		return fmt.Errorf("memfile %s: page %d out of range", f.name, index)
	}
	end := start + tuplesPerPage
	if end > len(f.rows) {
		end = len(f.rows)
	}
	return encodePage(page, f.rows[start:end])
}

// WritePage implements DbFile by decoding page and splicing its rows back
// into the file's row slice at the window index covers.
func (f *MemFile) WritePage(page *Page, index uint32) error {
	rows, err := decodePage(page)
	if err != nil {
		return err
	}
	start := int(index) * tuplesPerPage
	for len(f.rows) < start+len(rows) {
		f.rows = append(f.rows, Tuple{})
	}
	copy(f.rows[start:start+len(rows)], rows)
	return nil
}

// InsertTuple implements DbFile by appending t to the row slice.
func (f *MemFile) InsertTuple(t Tuple) error {
	f.rows = append(f.rows, t)
	return nil
}

// Iterator implements DbFile with a simple slice cursor over the rows
// currently held in memory.
func (f *MemFile) Iterator() TupleIterator {
	return &memFileIterator{rows: f.rows, pos: -1}
}

type memFileIterator struct {
	rows []Tuple
	pos  int
}

func (it *memFileIterator) Next() bool {
	it.pos++
	return it.pos < len(it.rows)
}

func (it *memFileIterator) Tuple() Tuple {
	return it.rows[it.pos]
}

func (it *memFileIterator) Err() error { return nil }

func encodePage(page *Page, rows []Tuple) error {
	gobRows := make([][]gobField, len(rows))
	for i, t := range rows {
		fields := t.Fields()
		gf := make([]gobField, len(fields))
		for j, f := range fields {
			gf[j] = toGobField(f)
		}
		gobRows[i] = gf
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(gobRows); err != nil {
		return fmt.Errorf("encode page: %w", err)
	}
	if buf.Len() > PageSize {
		return fmt.Errorf("encode page: %d bytes exceeds PageSize %d", buf.Len(), PageSize)
	}
	dst := page.Bytes()
	clear(dst)
	copy(dst, buf.Bytes())
	return nil
}

func decodePage(page *Page) ([]Tuple, error) {
	var gobRows [][]gobField
	dec := gob.NewDecoder(bytes.NewReader(page.Bytes()))
	if err := dec.Decode(&gobRows); err != nil {
		return nil, fmt.Errorf("decode page: %w", err)
	}
	rows := make([]Tuple, len(gobRows))
	for i, gf := range gobRows {
		fields := make([]Field, len(gf))
		for j, g := range gf {
			fields[j] = fromGobField(g)
		}
		rows[i] = NewTuple(fields...)
	}
	return rows, nil
}
