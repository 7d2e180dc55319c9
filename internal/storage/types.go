package storage

// PageID identifies a page in the backing file. Page 0 is reserved for the
// catalog; new-page allocation never returns it.
type PageID = uint32

// FrameID identifies a slot (0..pool_size-1) in the buffer pool's frame
// array.
type FrameID = int
