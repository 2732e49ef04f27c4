package storage

import (
	"errors"
	"testing"
)

func TestDatabaseAddDuplicate(t *testing.T) {
	db := NewDatabase()
	if err := db.Add(NewMemFile("t", schemaForTest())); err != nil {
		t.Fatalf("Add: %v", err)
	}
	err := db.Add(NewMemFile("t", schemaForTest()))
	if !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName, got %v", err)
	}
}

func TestDatabaseGetUnknown(t *testing.T) {
	db := NewDatabase()
	_, err := db.Get("missing")
	if !errors.Is(err, ErrUnknownName) {
		t.Fatalf("expected ErrUnknownName, got %v", err)
	}
}

func TestDatabaseRemoveUnknown(t *testing.T) {
	db := NewDatabase()
	_, err := db.Remove("missing")
	if !errors.Is(err, ErrUnknownName) {
		t.Fatalf("expected ErrUnknownName, got %v", err)
	}
}

func TestDatabaseRemoveFlushesDirtyPages(t *testing.T) {
	db := NewDatabase()
	f := newTestFile(t, "t", tuplesPerPage)
	if err := db.Add(f); err != nil {
		t.Fatalf("Add: %v", err)
	}
	bp := db.BufferPool()

	pid := PageId{File: "t", Page: 0}
	if _, err := bp.GetPage(pid); err != nil {
		t.Fatalf("GetPage: %v", err)
	}
	bp.MarkDirty(pid)

	removed, err := db.Remove("t")
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if removed.GetName() != "t" {
		t.Fatalf("expected removed file named t, got %s", removed.GetName())
	}
	dirty, err := bp.IsDirty(pid)
	if err != nil {
		t.Fatalf("IsDirty: %v", err)
	}
	if dirty {
		t.Fatal("expected page to be flushed (not dirty) after Remove")
	}

	if _, err := db.Get("t"); !errors.Is(err, ErrUnknownName) {
		t.Fatalf("expected t to be gone from the catalog, got %v", err)
	}
}

func TestDefaultDatabaseSingleton(t *testing.T) {
	ResetDefaultDatabase()
	defer ResetDefaultDatabase()

	d1 := DefaultDatabase()
	d2 := DefaultDatabase()
	if d1 != d2 {
		t.Fatal("expected DefaultDatabase to return the same instance on repeated calls")
	}

	ResetDefaultDatabase()
	d3 := DefaultDatabase()
	if d3 == d1 {
		t.Fatal("expected ResetDefaultDatabase to force a fresh instance on next access")
	}
}
