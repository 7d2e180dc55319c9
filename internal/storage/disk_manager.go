package storage

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// DiskManager translates (PageID, bytes) into positioned I/O on one backing
// file. It keeps no page cache of its own; the buffer pool is responsible
// for that.
type DiskManager struct {
	file *os.File
}

// NewDiskManager opens (creating if necessary) the data file inside dir,
// creating the directory itself if needed.
func NewDiskManager(dir, fileName string) (*DiskManager, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("disk manager: create data dir: %w", err)
	}

	path := filepath.Join(dir, fileName)
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("disk manager: open data file: %w", err)
	}

	slog.Debug("disk manager: opened data file", "path", path)
	return &DiskManager{file: f}, nil
}

// ReadPage reads PAGE_SIZE bytes at pageID's offset. Reading past EOF (or a
// short read at EOF) yields a zero-filled page: unwritten pages are treated
// as logically zero, which is what makes the first fetch of a fresh
// database's catalog page well-defined.
func (dm *DiskManager) ReadPage(pageID uint32) ([]byte, error) {
	buf := make([]byte, PageSize)

	off := int64(pageID) * PageSize
	n, err := dm.file.ReadAt(buf, off)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("disk manager: read page %d: %w", pageID, err)
	}
	for i := n; i < PageSize; i++ {
		buf[i] = 0
	}
	return buf, nil
}

// WritePage writes exactly PAGE_SIZE bytes at pageID's offset and flushes to
// the OS before returning.
func (dm *DiskManager) WritePage(pageID uint32, data []byte) error {
	if len(data) != PageSize {
		return fmt.Errorf("disk manager: write page %d: want %d bytes, got %d", pageID, PageSize, len(data))
	}

	off := int64(pageID) * PageSize
	if _, err := dm.file.WriteAt(data, off); err != nil {
		return fmt.Errorf("disk manager: write page %d: %w", pageID, err)
	}
	if err := dm.file.Sync(); err != nil {
		return fmt.Errorf("disk manager: sync after write page %d: %w", pageID, err)
	}
	return nil
}

// Close closes the backing file.
func (dm *DiskManager) Close() error {
	return dm.file.Close()
}
