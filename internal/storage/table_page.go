package storage

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrTupleTooLarge describes a tuple that cannot fit on a page even if it
// were empty. InsertTuple does not return it: InsertTuple reports lack of
// room with ok=false.
var ErrTupleTooLarge = errors.New("table page: tuple too large for an empty page")

// ErrBadTupleID is returned by GetTuple for an out-of-range or deleted slot.
var ErrBadTupleID = errors.New("table page: tuple id out of range or deleted")

// TupleID is a dense, 0-based index into a page's slot array. Once
// assigned, a TupleID never moves: the slot array is append-only within a
// page and deletions only tombstone slots, they never shift them.
type TupleID = int

// TablePage is a view over a page buffer implementing the slotted layout
// described in the package docs: the slot array grows from the header
// upward, tuple bodies are packed from the tail of the page downward, and
// the two regions never overlap.
//
//	offset  size  field
//	0       4     NextPageID (u32)
//	4       2     NumTuples (u16)
//	6       2     NumDeletedTuples (u16)
//	8       8*N   slot array
//	...     ...   free space
//	tail    v     tuple bodies
type TablePage struct {
	Buf []byte
}

// NewTablePage wraps buf (which must be PageSize bytes) as a table page
// view. Callers are responsible for zero-initializing a fresh page before
// use; NewTablePage does not mutate buf.
func NewTablePage(buf []byte) TablePage {
	return TablePage{Buf: buf}
}

// InitEmpty zero-fills the page and sets NextPageID to 0 (no next).
func (p TablePage) InitEmpty() {
	for i := range p.Buf {
		p.Buf[i] = 0
	}
}

func (p TablePage) NextPageID() uint32 {
	return binary.LittleEndian.Uint32(p.Buf[offNextPageID:])
}

func (p TablePage) SetNextPageID(id uint32) {
	binary.LittleEndian.PutUint32(p.Buf[offNextPageID:], id)
}

// NumTuples reads the tuple count straight from the header bytes so that
// the in-memory count and the on-disk count can never drift apart.
func (p TablePage) NumTuples() uint16 {
	return binary.LittleEndian.Uint16(p.Buf[offNumTuples:])
}

func (p TablePage) setNumTuples(n uint16) {
	binary.LittleEndian.PutUint16(p.Buf[offNumTuples:], n)
}

func (p TablePage) NumDeletedTuples() uint16 {
	return binary.LittleEndian.Uint16(p.Buf[offNumDeleted:])
}

func (p TablePage) setNumDeletedTuples(n uint16) {
	binary.LittleEndian.PutUint16(p.Buf[offNumDeleted:], n)
}

func (p TablePage) slotOffset(i int) int {
	return HeaderSize + i*SlotEntrySize
}

func (p TablePage) getSlot(i int) (tupleOffset, tupleSize uint16, meta uint32) {
	o := p.slotOffset(i)
	return binary.LittleEndian.Uint16(p.Buf[o+slotOffOffset:]),
		binary.LittleEndian.Uint16(p.Buf[o+slotOffSize:]),
		binary.LittleEndian.Uint32(p.Buf[o+slotOffMeta:])
}

func (p TablePage) putSlot(i int, tupleOffset, tupleSize uint16, meta uint32) {
	o := p.slotOffset(i)
	binary.LittleEndian.PutUint16(p.Buf[o+slotOffOffset:], tupleOffset)
	binary.LittleEndian.PutUint16(p.Buf[o+slotOffSize:], tupleSize)
	binary.LittleEndian.PutUint32(p.Buf[o+slotOffMeta:], meta)
}

// lowestTupleOffset returns the lowest in-use tuple offset, or PageSize if
// the page has no tuples yet (i.e. the tuple region starts at the very end
// of the page).
func (p TablePage) lowestTupleOffset() int {
	lowest := PageSize
	n := int(p.NumTuples())
	for i := 0; i < n; i++ {
		off, size, _ := p.getSlot(i)
		if size == 0 {
			continue // zero-length tuple occupies no bytes
		}
		if int(off) < lowest {
			lowest = int(off)
		}
	}
	return lowest
}

// NextTupleOffset computes the candidate offset for a tuple of tupleLen
// bytes: the lowest existing tuple offset (or PageSize if none) minus
// tupleLen. It returns false if placing a new slot entry there would make
// the slot array overlap the tuple region.
func (p TablePage) NextTupleOffset(tupleLen int) (offset int, ok bool) {
	candidate := p.lowestTupleOffset() - tupleLen
	n := int(p.NumTuples())
	if HeaderSize+(n+1)*SlotEntrySize >= candidate {
		return 0, false
	}
	return candidate, true
}

// InsertTuple copies bytes into the page at the next free offset and
// appends a new slot entry, returning the new TupleID (= old NumTuples).
// It returns ok=false if there is no room; the caller should allocate a
// fresh page and link it via SetNextPageID.
func (p TablePage) InsertTuple(tuple []byte) (id TupleID, ok bool) {
	offset, ok := p.NextTupleOffset(len(tuple))
	if !ok {
		return 0, false
	}

	copy(p.Buf[offset:offset+len(tuple)], tuple)

	n := p.NumTuples()
	p.putSlot(int(n), uint16(offset), uint16(len(tuple)), 0)
	p.setNumTuples(n + 1)

	return int(n), true
}

// GetTuple returns a copy of the tuple bytes stored at id.
func (p TablePage) GetTuple(id TupleID) ([]byte, error) {
	if id < 0 || id >= int(p.NumTuples()) {
		return nil, fmt.Errorf("%w: id=%d numTuples=%d", ErrBadTupleID, id, p.NumTuples())
	}
	off, size, meta := p.getSlot(id)
	if meta&slotMetaDeleted != 0 {
		return nil, fmt.Errorf("%w: id=%d (deleted)", ErrBadTupleID, id)
	}
	out := make([]byte, size)
	copy(out, p.Buf[off:int(off)+int(size)])
	return out, nil
}

// DeleteTuple tombstones the slot for id: the slot entry's deleted bit is
// set and NumDeletedTuples is incremented, but the entry itself is left in
// place so that TupleIDs remain stable. The tuple's bytes are not reclaimed.
func (p TablePage) DeleteTuple(id TupleID) error {
	if id < 0 || id >= int(p.NumTuples()) {
		return fmt.Errorf("%w: id=%d numTuples=%d", ErrBadTupleID, id, p.NumTuples())
	}
	off, size, meta := p.getSlot(id)
	if meta&slotMetaDeleted != 0 {
		return nil // already deleted
	}
	p.putSlot(id, off, size, meta|slotMetaDeleted)
	p.setNumDeletedTuples(p.NumDeletedTuples() + 1)
	return nil
}

// IsDeleted reports whether slot id has been tombstoned.
func (p TablePage) IsDeleted(id TupleID) bool {
	if id < 0 || id >= int(p.NumTuples()) {
		return false
	}
	_, _, meta := p.getSlot(id)
	return meta&slotMetaDeleted != 0
}
