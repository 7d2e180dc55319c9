// Package storage implements the disk-backed, fixed-size-page substrate:
// positioned page I/O, the buffer pool, the LRU-K replacer, and the slotted
// table page layout.
package storage

// PageSize is the fixed size of every page on disk and in memory.
const PageSize = 4096

// CatalogPageID is the reserved page holding the serialized table schemas.
// PageID allocation never returns it.
const CatalogPageID uint32 = 0

// Table-page header layout (little-endian):
//
//	offset  size  field
//	0       4     NextPageID (u32; 0 means "no next")
//	4       2     NumTuples (u16)
//	6       2     NumDeletedTuples (u16)
//	8       ...   slot array, 8 bytes per slot
const (
	HeaderSize    = 8
	SlotEntrySize = 8

	offNextPageID  = 0
	offNumTuples   = 4
	offNumDeleted  = 6
)

// Slot entry layout (8 bytes, little-endian):
//
//	offset  size  field
//	0       2     tuple_offset (u16)
//	2       2     tuple_size   (u16)
//	4       4     tuple_meta   (reserved; bit 0 = deleted)
const (
	slotOffOffset = 0
	slotOffSize   = 2
	slotOffMeta   = 4

	slotMetaDeleted uint32 = 1 << 0
)
