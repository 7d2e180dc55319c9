// Package table implements the data-page write path the executor drives:
// appending an encoded tuple to a table's latest page, allocating and
// chaining a fresh page via NextPageID when the current one is full.
package table

import (
	"fmt"

	"github.com/tuannm99/novadb/internal/catalog"
	"github.com/tuannm99/novadb/internal/storage"
)

// Insert appends tuple to schema's last page (following the NextPageID
// chain from FirstPageID), allocating and linking a fresh page if the
// current last page has no room.
func Insert(bp *storage.BufferPool, schema catalog.TableSchema, tuple []byte) error {
	pageID := schema.FirstPageID

	for {
		frame, err := bp.FetchPage(pageID)
		if err != nil {
			return fmt.Errorf("table: fetch page %d: %w", pageID, err)
		}
		tp := storage.NewTablePage(frame.Buf)

		next := tp.NextPageID()
		if next != 0 {
			if err := bp.UnpinPage(pageID, false); err != nil {
				return err
			}
			pageID = next
			continue
		}

		if _, ok := tp.InsertTuple(tuple); ok {
			return bp.UnpinPage(pageID, true)
		}

		// Current last page is full: allocate a fresh page and chain it.
		newFrame, err := bp.NewPage()
		if err != nil {
			_ = bp.UnpinPage(pageID, false)
			return fmt.Errorf("table: allocate continuation page: %w", err)
		}
		newTP := storage.NewTablePage(newFrame.Buf)
		newTP.InitEmpty()

		tp.SetNextPageID(newFrame.PageID())
		if err := bp.UnpinPage(pageID, true); err != nil {
			_ = bp.UnpinPage(newFrame.PageID(), false)
			return err
		}

		if _, ok := newTP.InsertTuple(tuple); !ok {
			_ = bp.UnpinPage(newFrame.PageID(), true)
			return fmt.Errorf("table: tuple does not fit even on a fresh page (%d bytes)", len(tuple))
		}
		return bp.UnpinPage(newFrame.PageID(), true)
	}
}

// Scan visits every non-deleted tuple in schema's page chain, in page and
// slot order, calling fn with each tuple's raw bytes. It stops and returns
// fn's error if fn returns one.
func Scan(bp *storage.BufferPool, schema catalog.TableSchema, fn func(raw []byte) error) error {
	pageID := schema.FirstPageID
	for {
		frame, err := bp.FetchPage(pageID)
		if err != nil {
			return fmt.Errorf("table: fetch page %d: %w", pageID, err)
		}
		tp := storage.NewTablePage(frame.Buf)

		n := int(tp.NumTuples())
		for i := 0; i < n; i++ {
			if tp.IsDeleted(i) {
				continue
			}
			raw, err := tp.GetTuple(i)
			if err != nil {
				_ = bp.UnpinPage(pageID, false)
				return err
			}
			if err := fn(raw); err != nil {
				_ = bp.UnpinPage(pageID, false)
				return err
			}
		}

		next := tp.NextPageID()
		if err := bp.UnpinPage(pageID, false); err != nil {
			return err
		}
		if next == 0 {
			return nil
		}
		pageID = next
	}
}
