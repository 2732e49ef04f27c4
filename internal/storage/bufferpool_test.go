package storage

import (
	"errors"
	"log"
	"strings"
	"testing"
)

func schemaForTest() *TupleDesc {
	return NewTupleDesc(ColumnDesc{Name: "id", Type: IntKind})
}

func newTestFile(t *testing.T, name string, rows int) *MemFile {
	t.Helper()
	f := NewMemFile(name, schemaForTest())
	for i := 0; i < rows; i++ {
		if err := f.InsertTuple(NewTuple(IntField(i))); err != nil {
			t.Fatalf("InsertTuple: %v", err)
		}
	}
	return f
}

// TestBufferPoolReadThrough covers invariant 5: two consecutive GetPage
// calls for the same pid, with no intervening mutation, return the same
// image without a second read through the file.
func TestBufferPoolReadThrough(t *testing.T) {
	db := NewDatabase()
	f := newTestFile(t, "t1", tuplesPerPage)
	if err := db.Add(f); err != nil {
		t.Fatalf("Add: %v", err)
	}
	bp := db.BufferPool()

	pid := PageId{File: "t1", Page: 0}
	p1, err := bp.GetPage(pid)
	if err != nil {
		t.Fatalf("GetPage: %v", err)
	}
	p2, err := bp.GetPage(pid)
	if err != nil {
		t.Fatalf("GetPage: %v", err)
	}
	if p1 != p2 {
		t.Fatalf("expected the same page pointer across repeated GetPage calls")
	}
	stats := bp.Stats()
	if stats.HitCount != 1 || stats.MissCount != 1 {
		t.Fatalf("expected 1 hit and 1 miss, got hits=%d misses=%d", stats.HitCount, stats.MissCount)
	}
}

// TestBufferPoolCatalogMiss covers GetPage's CatalogMiss failure mode.
func TestBufferPoolCatalogMiss(t *testing.T) {
	db := NewDatabase()
	bp := db.BufferPool()
	_, err := bp.GetPage(PageId{File: "nope", Page: 0})
	if !errors.Is(err, ErrCatalogMiss) {
		t.Fatalf("expected ErrCatalogMiss, got %v", err)
	}
}

// TestBufferPoolIsDirtyNotResident covers IsDirty's NotResident failure mode.
func TestBufferPoolIsDirtyNotResident(t *testing.T) {
	db := NewDatabase()
	bp := db.BufferPool()
	_, err := bp.IsDirty(PageId{File: "t1", Page: 0})
	if !errors.Is(err, ErrNotResident) {
		t.Fatalf("expected ErrNotResident, got %v", err)
	}
}

// TestBufferPoolLRUEviction is scenario S1: touching 51 distinct pages in
// one file evicts the first one touched and leaves exactly 50 resident.
func TestBufferPoolLRUEviction(t *testing.T) {
	db := NewDatabase()
	f := newTestFile(t, "f", (DefaultNumPages+1)*tuplesPerPage)
	if err := db.Add(f); err != nil {
		t.Fatalf("Add: %v", err)
	}
	bp := db.BufferPool()

	for i := 0; i < DefaultNumPages; i++ {
		if _, err := bp.GetPage(PageId{File: "f", Page: uint32(i)}); err != nil {
			t.Fatalf("GetPage(%d): %v", i, err)
		}
	}
	if _, err := bp.GetPage(PageId{File: "f", Page: uint32(DefaultNumPages)}); err != nil {
		t.Fatalf("GetPage(%d): %v", DefaultNumPages, err)
	}

	if bp.Contains(PageId{File: "f", Page: 0}) {
		t.Fatal("expected page 0 to have been evicted")
	}
	if !bp.Contains(PageId{File: "f", Page: uint32(DefaultNumPages)}) {
		t.Fatalf("expected page %d to be resident", DefaultNumPages)
	}
	if got := bp.Stats().Resident; got != DefaultNumPages {
		t.Fatalf("expected %d resident pages, got %d", DefaultNumPages, got)
	}
}

// TestBufferPoolDirtyFlushOnEvict is scenario S2: a dirty page that becomes
// the eviction victim is flushed exactly once, and the flush diagnostic
// line mentions both the page and the file.
func TestBufferPoolDirtyFlushOnEvict(t *testing.T) {
	var logBuf strings.Builder
	log.SetOutput(&logBuf)
	defer log.SetOutput(logDefaultOutput)

	db := NewDatabase()
	f := newTestFile(t, "f", (DefaultNumPages+1)*tuplesPerPage)
	if err := db.Add(f); err != nil {
		t.Fatalf("Add: %v", err)
	}
	bp := db.BufferPool()

	victim := PageId{File: "f", Page: 0}
	if _, err := bp.GetPage(victim); err != nil {
		t.Fatalf("GetPage: %v", err)
	}
	bp.MarkDirty(victim)

	for i := 1; i <= DefaultNumPages; i++ {
		if _, err := bp.GetPage(PageId{File: "f", Page: uint32(i)}); err != nil {
			t.Fatalf("GetPage(%d): %v", i, err)
		}
	}

	if bp.Contains(victim) {
		t.Fatal("expected victim page to have been evicted")
	}
	out := logBuf.String()
	if strings.Count(out, "Flushing page 0 to file f") != 1 {
		t.Fatalf("expected exactly one flush line for page 0 of file f, got log: %q", out)
	}
}

// TestBufferPoolFlushFileScope is scenario S3: flushFile only touches the
// named file's dirty pages.
func TestBufferPoolFlushFileScope(t *testing.T) {
	db := NewDatabase()
	a := newTestFile(t, "a", tuplesPerPage)
	b := newTestFile(t, "b", tuplesPerPage)
	if err := db.Add(a); err != nil {
		t.Fatalf("Add a: %v", err)
	}
	if err := db.Add(b); err != nil {
		t.Fatalf("Add b: %v", err)
	}
	bp := db.BufferPool()

	pidA := PageId{File: "a", Page: 0}
	pidB := PageId{File: "b", Page: 0}
	if _, err := bp.GetPage(pidA); err != nil {
		t.Fatalf("GetPage a: %v", err)
	}
	if _, err := bp.GetPage(pidB); err != nil {
		t.Fatalf("GetPage b: %v", err)
	}
	bp.MarkDirty(pidA)
	bp.MarkDirty(pidB)

	if err := bp.FlushFile("a"); err != nil {
		t.Fatalf("FlushFile: %v", err)
	}

	dirtyA, err := bp.IsDirty(pidA)
	if err != nil {
		t.Fatalf("IsDirty a: %v", err)
	}
	if dirtyA {
		t.Fatal("expected a's page to no longer be dirty after FlushFile(a)")
	}
	dirtyB, err := bp.IsDirty(pidB)
	if err != nil {
		t.Fatalf("IsDirty b: %v", err)
	}
	if !dirtyB {
		t.Fatal("expected b's page to still be dirty after FlushFile(a)")
	}
}

// TestBufferPoolDiscardPage covers DiscardPage's no-write-back contract.
func TestBufferPoolDiscardPage(t *testing.T) {
	db := NewDatabase()
	f := newTestFile(t, "f", tuplesPerPage)
	if err := db.Add(f); err != nil {
		t.Fatalf("Add: %v", err)
	}
	bp := db.BufferPool()

	pid := PageId{File: "f", Page: 0}
	if _, err := bp.GetPage(pid); err != nil {
		t.Fatalf("GetPage: %v", err)
	}
	bp.MarkDirty(pid)
	bp.DiscardPage(pid)

	if bp.Contains(pid) {
		t.Fatal("expected page to be gone after DiscardPage")
	}
	if got := bp.Stats().FlushCount; got != 0 {
		t.Fatalf("expected DiscardPage not to write back, got %d flushes", got)
	}
	// Re-reading must go back through the file, not through a phantom
	// dirty write.
	if _, err := bp.GetPage(pid); err != nil {
		t.Fatalf("GetPage after discard: %v", err)
	}
}

// TestBufferPoolCloseFlushesDirty covers the best-effort flush-on-close
// contract from spec section 3 ("Lifecycles") and section 5
// ("Scoped cleanup").
func TestBufferPoolCloseFlushesDirty(t *testing.T) {
	db := NewDatabase()
	f := newTestFile(t, "f", tuplesPerPage)
	if err := db.Add(f); err != nil {
		t.Fatalf("Add: %v", err)
	}
	bp := db.BufferPool()

	pid := PageId{File: "f", Page: 0}
	if _, err := bp.GetPage(pid); err != nil {
		t.Fatalf("GetPage: %v", err)
	}
	bp.MarkDirty(pid)

	if err := bp.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if bp.Stats().Resident != 0 {
		t.Fatal("expected pool to be empty after Close")
	}
	if got := bp.Stats().FlushCount; got != 1 {
		t.Fatalf("expected Close to flush the one dirty page, got %d flushes", got)
	}
}

var logDefaultOutput = log.Writer()
