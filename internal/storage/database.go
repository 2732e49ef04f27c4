package storage

import (
	"log"
	"sync"

	"github.com/google/uuid"
)

// Database is the process-wide catalog and buffer pool owner: it holds
// exclusive ownership of every registered DbFile and of the BufferPool that
// caches their pages. Operators and DbFile implementations reach the pool
// and the catalog only through a Database handle.
//
// Database is not safe for concurrent use; spec scope is single-threaded.
type Database struct {
	// InstanceID identifies this Database instance in diagnostic output. It
	// has no bearing on PageId identity or catalog lookups.
	InstanceID uuid.UUID

	catalog *catalog
	pool    *BufferPool
}

// NewDatabase constructs a fresh Database with an empty catalog and an
// empty buffer pool. Prefer this explicit-handle form over DefaultDatabase
// when the caller can thread a *Database through its own constructors.
func NewDatabase() *Database {
	db := &Database{
		InstanceID: uuid.New(),
		catalog:    newCatalog(),
	}
	db.pool = NewBufferPool(db)
	log.Printf("database %s initialized (capacity=%d pages)", db.InstanceID, DefaultNumPages)
	return db
}

// Add registers file in the catalog under its own name. Fails with
// ErrDuplicateName if that name is already taken.
func (db *Database) Add(file DbFile) error {
	return db.catalog.add(file)
}

// Remove flushes every dirty page belonging to name and then unregisters
// and returns the file. Fails with ErrUnknownName if name is not
// registered.
func (db *Database) Remove(name string) (DbFile, error) {
	if _, err := db.catalog.get(name); err != nil {
		return nil, err
	}
	if err := db.pool.FlushFile(name); err != nil {
		return nil, err
	}
	return db.catalog.remove(name)
}

// Get returns the file registered under name. Fails with ErrUnknownName if
// absent.
func (db *Database) Get(name string) (DbFile, error) {
	return db.catalog.get(name)
}

// BufferPool returns the Database's buffer pool.
func (db *Database) BufferPool() *BufferPool {
	return db.pool
}

// Close flushes every dirty page (best-effort) and tears down the buffer
// pool. The Database itself remains usable afterward with an empty pool;
// callers that want a fully reset catalog should discard the Database and
// construct a new one.
func (db *Database) Close() error {
	return db.pool.Close()
}

var (
	defaultOnce sync.Once
	defaultDB   *Database
	defaultMu   sync.Mutex
)

// DefaultDatabase returns the process-wide Database singleton, constructing
// it lazily on first access. This exists for DbFile implementations that
// only know how to reach a global; callers that can pass an explicit
// *Database through their own constructors should prefer NewDatabase.
func DefaultDatabase() *Database {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultOnce.Do(func() {
		defaultDB = NewDatabase()
	})
	return defaultDB
}

// ResetDefaultDatabase flushes and discards the process-wide singleton, if
// one was ever constructed, and arms DefaultDatabase to build a fresh one
// on its next call. Intended for test teardown between independent cases.
func ResetDefaultDatabase() {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultDB != nil {
		_ = defaultDB.Close()
	}
	defaultDB = nil
	defaultOnce = sync.Once{}
}
