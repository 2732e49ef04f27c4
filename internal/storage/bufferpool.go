package storage

import (
	"fmt"
	"log"
)

// DefaultNumPages is the buffer pool's fixed capacity. There is no dynamic
// resize: a pool always holds at most this many resident pages.
const DefaultNumPages = 50

// fileResolver is the narrow slice of Database a BufferPool needs: looking
// up the DbFile a PageId belongs to on a cache miss or flush. Database
// satisfies this itself, which is how a pool and its owning catalog stay in
// the same package without an import cycle.
type fileResolver interface {
	Get(name string) (DbFile, error)
}

// lruNode is one entry of the buffer pool's doubly-linked LRU list.
type lruNode struct {
	pid        PageId
	prev, next *lruNode
}

// BufferPool is a fixed-capacity, page-granular cache between in-memory
// operators and on-disk DbFiles. It tracks residency, dirty pages, and LRU
// eviction order, and performs write-back on eviction or explicit flush.
//
// BufferPool is not safe for concurrent use; spec scope is single-threaded.
type BufferPool struct {
	resolver fileResolver

	pages map[PageId]*Page
	dirty map[PageId]struct{}

	// lru is a doubly-linked list of resident PageIds, indexed by node for
	// O(1) move-to-back and removal. head is the eviction victim (least
	// recently used); tail is most recently used.
	lruIndex   map[PageId]*lruNode
	head, tail *lruNode

	stats BufferPoolStats
}

// BufferPoolStats is a point-in-time snapshot of pool activity, exposed for
// diagnostics only — it plays no part in eviction or flush semantics.
type BufferPoolStats struct {
	Resident      int
	Dirty         int
	EvictionCount int64
	FlushCount    int64
	HitCount      int64
	MissCount     int64
}

// NewBufferPool constructs an empty buffer pool that resolves cache misses
// and flush targets through resolver.
func NewBufferPool(resolver fileResolver) *BufferPool {
	return &BufferPool{
		resolver: resolver,
		pages:    make(map[PageId]*Page),
		dirty:    make(map[PageId]struct{}),
		lruIndex: make(map[PageId]*lruNode),
	}
}

// Contains reports whether pid is currently resident. Total; no side effects.
func (bp *BufferPool) Contains(pid PageId) bool {
	_, ok := bp.pages[pid]
	return ok
}

// GetPage returns the resident page image for pid, reading it through the
// catalog's DbFile on a miss and evicting the least-recently-used page if
// the pool is already at capacity. The returned Page is valid until the
// next call that may evict: any miss, DiscardPage, FlushPage on that id, or
// a catalog mutation that flushes.
func (bp *BufferPool) GetPage(pid PageId) (*Page, error) {
	bp.touchLRU(pid)

	if page, ok := bp.pages[pid]; ok {
		bp.stats.HitCount++
		return page, nil
	}
	bp.stats.MissCount++

	if len(bp.pages) >= DefaultNumPages {
		victim := bp.head.pid
		if bp.isDirtyLocked(victim) {
			if err := bp.FlushPage(victim); err != nil {
				bp.removeLRU(pid)
				return nil, fmt.Errorf("evict %s: %w", victim, err)
			}
		}
		bp.DiscardPage(victim)
		bp.stats.EvictionCount++
	}

	file, err := bp.resolver.Get(pid.File)
	if err != nil {
		bp.removeLRU(pid)
		return nil, fmt.Errorf("%w: %s", ErrCatalogMiss, pid.File)
	}

	page := NewPage()
	if err := file.ReadPage(page, pid.Page); err != nil {
		bp.removeLRU(pid)
		return nil, fmt.Errorf("read page %s: %w", pid, err)
	}
	bp.pages[pid] = page
	return page, nil
}

// MarkDirty records pid as dirty. Idempotent. pid must be resident; calling
// this for a non-resident page is a precondition violation left unchecked,
// matching spec.md's documented open question.
func (bp *BufferPool) MarkDirty(pid PageId) {
	bp.dirty[pid] = struct{}{}
}

// IsDirty reports whether pid is dirty. Fails with ErrNotResident if pid is
// not currently cached.
func (bp *BufferPool) IsDirty(pid PageId) (bool, error) {
	if !bp.Contains(pid) {
		return false, fmt.Errorf("%w: %s", ErrNotResident, pid)
	}
	return bp.isDirtyLocked(pid), nil
}

func (bp *BufferPool) isDirtyLocked(pid PageId) bool {
	_, ok := bp.dirty[pid]
	return ok
}

// DiscardPage removes pid from the pool without writing it back. No-op if
// pid is not resident.
func (bp *BufferPool) DiscardPage(pid PageId) {
	if !bp.Contains(pid) {
		return
	}
	delete(bp.pages, pid)
	delete(bp.dirty, pid)
	bp.removeLRU(pid)
}

// FlushPage writes pid's image back through its DbFile and clears its dirty
// bit, if and only if pid is resident and dirty. It does not evict the page.
func (bp *BufferPool) FlushPage(pid PageId) error {
	if !bp.Contains(pid) || !bp.isDirtyLocked(pid) {
		return nil
	}
	file, err := bp.resolver.Get(pid.File)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrCatalogMiss, pid.File)
	}
	log.Printf("Flushing page %d to file %s", pid.Page, pid.File)
	if err := file.WritePage(bp.pages[pid], pid.Page); err != nil {
		return fmt.Errorf("write page %s: %w", pid, err)
	}
	delete(bp.dirty, pid)
	bp.stats.FlushCount++
	return nil
}

// FlushFile flushes every dirty page belonging to the named file. The dirty
// set is snapshotted before iterating so removing entries from it mid-loop
// is safe.
func (bp *BufferPool) FlushFile(name string) error {
	toFlush := make([]PageId, 0, len(bp.dirty))
	for pid := range bp.dirty {
		if pid.File == name {
			toFlush = append(toFlush, pid)
		}
	}
	for _, pid := range toFlush {
		if err := bp.FlushPage(pid); err != nil {
			return err
		}
	}
	return nil
}

// FlushAll flushes every dirty page in the pool, best-effort: it keeps
// flushing after an individual failure and returns the first error seen, so
// teardown always makes forward progress instead of abandoning the rest of
// the dirty set.
func (bp *BufferPool) FlushAll() error {
	toFlush := make([]PageId, 0, len(bp.dirty))
	for pid := range bp.dirty {
		toFlush = append(toFlush, pid)
	}
	var firstErr error
	for _, pid := range toFlush {
		if err := bp.FlushPage(pid); err != nil && firstErr == nil {
			firstErr = err
			log.Printf("flush %s failed, continuing: %v", pid, err)
		}
	}
	return firstErr
}

// Close flushes every dirty page (best-effort) and clears all pool state,
// matching the buffer pool's destructor contract in spec.md section 3.
func (bp *BufferPool) Close() error {
	err := bp.FlushAll()
	bp.pages = make(map[PageId]*Page)
	bp.dirty = make(map[PageId]struct{})
	bp.lruIndex = make(map[PageId]*lruNode)
	bp.head, bp.tail = nil, nil
	return err
}

// Stats returns a snapshot of pool activity counters.
func (bp *BufferPool) Stats() BufferPoolStats {
	s := bp.stats
	s.Resident = len(bp.pages)
	s.Dirty = len(bp.dirty)
	return s
}

// touchLRU is updateLRU from spec.md 4.1.1: move pid to the back (most
// recently used). The fast path short-circuits when pid is already the
// back, which covers the common "touch the page I'm already holding" case
// on every hit without a map lookup.
func (bp *BufferPool) touchLRU(pid PageId) {
	if bp.tail != nil && bp.tail.pid == pid {
		return
	}
	bp.removeLRU(pid)
	node := &lruNode{pid: pid}
	bp.lruIndex[pid] = node
	if bp.tail == nil {
		bp.head = node
		bp.tail = node
		return
	}
	node.prev = bp.tail
	bp.tail.next = node
	bp.tail = node
}

func (bp *BufferPool) removeLRU(pid PageId) {
	node, ok := bp.lruIndex[pid]
	if !ok {
		return
	}
	delete(bp.lruIndex, pid)
	if node.prev != nil {
		node.prev.next = node.next
	} else {
		bp.head = node.next
	}
	if node.next != nil {
		node.next.prev = node.prev
	} else {
		bp.tail = node.prev
	}
}
