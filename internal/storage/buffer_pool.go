package storage

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

var logPrefix = "buffer pool: "

// ErrNoFreeFrame is returned when the pool is full and nothing is
// evictable; it is a non-fatal, surfaced-to-the-caller condition, not a
// panic.
var ErrNoFreeFrame = errors.New("buffer pool: no free frame available")

// Frame holds one page buffer and its metadata for the process lifetime of
// the pool. A frame is free iff Bound() is false.
type Frame struct {
	FrameID FrameID
	Buf     []byte

	bound    bool
	pageID   PageID
	pinCount int
	dirty    bool
}

// Bound reports whether this frame currently holds a page.
func (f *Frame) Bound() bool { return f.bound }

// PageID returns the page currently bound to this frame. Only meaningful
// when Bound() is true.
func (f *Frame) PageID() PageID { return f.pageID }

// BufferPool keeps a bounded number of disk pages resident in memory,
// satisfying new-page/fetch-page requests and writing dirty pages back
// through the disk manager. Frame replacement uses LRU-K.
type BufferPool struct {
	mu sync.Mutex

	dm *DiskManager

	frames    []*Frame
	pageTable map[PageID]FrameID // resident PageID -> FrameID, injective
	replacer  *LRUKReplacer

	nextPageID uint32 // monotonic; 0 is reserved for the catalog
}

// NewBufferPool preallocates poolSize frames, each owning a PageSize buffer,
// and a K-distance replacer with the given k.
func NewBufferPool(dm *DiskManager, poolSize, k int) *BufferPool {
	frames := make([]*Frame, poolSize)
	for i := range frames {
		frames[i] = &Frame{FrameID: i, Buf: make([]byte, PageSize)}
	}
	return &BufferPool{
		dm:         dm,
		frames:     frames,
		pageTable:  make(map[PageID]FrameID, poolSize),
		replacer:   NewLRUKReplacer(poolSize, k),
		nextPageID: 1,
	}
}

// acquireFrame implements the acquisition algorithm shared by NewPage and
// FetchPage: prefer a free frame; otherwise ask the replacer to evict,
// flushing the victim first if dirty and forgetting its old mapping.
func (bp *BufferPool) acquireFrame() (*Frame, error) {
	for _, f := range bp.frames {
		if !f.bound {
			return f, nil
		}
	}

	victimID, err := bp.replacer.Evict()
	if err != nil {
		return nil, ErrNoFreeFrame
	}

	victim := bp.frames[victimID]
	if victim.dirty {
		if err := bp.dm.WritePage(victim.pageID, victim.Buf); err != nil {
			return nil, err
		}
	}
	delete(bp.pageTable, victim.pageID)
	victim.bound = false
	victim.dirty = false
	victim.pinCount = 0

	return victim, nil
}

// NewPage allocates a fresh PageID, binds it to a frame (zero-filled), and
// returns the frame pinned once. Returns ErrNoFreeFrame if no frame can be
// acquired.
func (bp *BufferPool) NewPage() (*Frame, error) {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	f, err := bp.acquireFrame()
	if err != nil {
		slog.Debug(logPrefix + "NewPage: out of frames")
		return nil, err
	}

	pageID := bp.nextPageID
	bp.nextPageID++

	for i := range f.Buf {
		f.Buf[i] = 0
	}
	f.bound = true
	f.pageID = pageID
	f.pinCount = 1
	f.dirty = false

	bp.pageTable[pageID] = f.FrameID
	bp.replacer.RecordAccess(f.FrameID)

	slog.Debug(logPrefix+"NewPage", "pageID", pageID, "frameID", f.FrameID)
	return f, nil
}

// FetchPage returns the frame for pageID, loading it from disk if it is not
// already resident. Returns ErrNoFreeFrame if no frame can be acquired.
func (bp *BufferPool) FetchPage(pageID PageID) (*Frame, error) {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	if frameID, ok := bp.pageTable[pageID]; ok {
		f := bp.frames[frameID]
		f.pinCount++
		bp.replacer.SetEvictable(frameID, false)
		bp.replacer.RecordAccess(frameID)
		slog.Debug(logPrefix+"FetchPage: hit", "pageID", pageID, "frameID", frameID)
		return f, nil
	}

	f, err := bp.acquireFrame()
	if err != nil {
		slog.Debug(logPrefix+"FetchPage: out of frames", "pageID", pageID)
		return nil, err
	}

	buf, err := bp.dm.ReadPage(pageID)
	if err != nil {
		return nil, err
	}
	copy(f.Buf, buf)

	f.bound = true
	f.pageID = pageID
	f.pinCount = 1
	f.dirty = false

	bp.pageTable[pageID] = f.FrameID
	bp.replacer.RecordAccess(f.FrameID)

	slog.Debug(logPrefix+"FetchPage: loaded from disk", "pageID", pageID, "frameID", f.FrameID)
	return f, nil
}

// GetCatalogPage is equivalent to FetchPage(CatalogPageID).
func (bp *BufferPool) GetCatalogPage() (*Frame, error) {
	return bp.FetchPage(CatalogPageID)
}

// UnpinPage decrements pageID's pin count and ORs markDirty into its dirty
// flag. Once the pin count reaches zero the frame becomes evictable.
func (bp *BufferPool) UnpinPage(pageID PageID, markDirty bool) error {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	frameID, ok := bp.pageTable[pageID]
	if !ok {
		return fmt.Errorf("buffer pool: unpin: page %d not resident", pageID)
	}
	f := bp.frames[frameID]

	if markDirty {
		f.dirty = true
	}
	if f.pinCount > 0 {
		f.pinCount--
	}
	if f.pinCount == 0 {
		bp.replacer.SetEvictable(frameID, true)
	}
	return nil
}

// FlushPage writes pageID through the disk manager unconditionally,
// regardless of its dirty or pin state.
func (bp *BufferPool) FlushPage(pageID PageID) error {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	frameID, ok := bp.pageTable[pageID]
	if !ok {
		return fmt.Errorf("buffer pool: flush: page %d not resident", pageID)
	}
	f := bp.frames[frameID]
	if err := bp.dm.WritePage(f.pageID, f.Buf); err != nil {
		return err
	}
	f.dirty = false
	return nil
}

// FlushAllPages flushes every currently bound frame.
func (bp *BufferPool) FlushAllPages() error {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	for _, f := range bp.frames {
		if !f.bound {
			continue
		}
		if err := bp.dm.WritePage(f.pageID, f.Buf); err != nil {
			return err
		}
		f.dirty = false
	}
	return nil
}

// DeletePage unbinds pageID's frame if it is resident and unpinned. It
// returns false if the page is pinned.
func (bp *BufferPool) DeletePage(pageID PageID) bool {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	frameID, ok := bp.pageTable[pageID]
	if !ok {
		return true // not resident: nothing to do
	}
	f := bp.frames[frameID]
	if f.pinCount > 0 {
		return false
	}

	delete(bp.pageTable, pageID)
	bp.replacer.Remove(frameID)
	f.bound = false
	f.dirty = false
	return true
}
