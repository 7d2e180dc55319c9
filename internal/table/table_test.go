package table

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuannm99/novadb/internal/catalog"
	"github.com/tuannm99/novadb/internal/storage"
)

func newTestBufferPool(t *testing.T) *storage.BufferPool {
	t.Helper()
	dm, err := storage.NewDiskManager(t.TempDir(), "data.db")
	require.NoError(t, err)
	t.Cleanup(func() { _ = dm.Close() })
	return storage.NewBufferPool(dm, 16, 2)
}

func TestInsertAndScan_SinglePage(t *testing.T) {
	bp := newTestBufferPool(t)
	cat, err := catalog.Load(bp)
	require.NoError(t, err)

	schema, err := cat.CreateTable("t", []catalog.Column{{Name: "a", Type: catalog.ColInt}})
	require.NoError(t, err)

	require.NoError(t, Insert(bp, schema, []byte("row-a")))
	require.NoError(t, Insert(bp, schema, []byte("row-b")))

	var rows []string
	err = Scan(bp, schema, func(raw []byte) error {
		rows = append(rows, string(raw))
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, []string{"row-a", "row-b"}, rows)
}

func TestInsert_ChainsNewPageWhenFull(t *testing.T) {
	bp := newTestBufferPool(t)
	cat, err := catalog.Load(bp)
	require.NoError(t, err)

	schema, err := cat.CreateTable("t", []catalog.Column{{Name: "a", Type: catalog.ColInt}})
	require.NoError(t, err)

	// A page can't hold more than a few thousand bytes of tuples plus slot
	// overhead; insert enough large rows to force at least one overflow
	// page.
	big := make([]byte, 900)
	for i := 0; i < 6; i++ {
		require.NoError(t, Insert(bp, schema, big))
	}

	frame, err := bp.FetchPage(schema.FirstPageID)
	require.NoError(t, err)
	tp := storage.NewTablePage(frame.Buf)
	next := tp.NextPageID()
	require.NoError(t, bp.UnpinPage(schema.FirstPageID, false))
	require.NotZero(t, next, "expected the first page to chain to a continuation page")

	var count int
	err = Scan(bp, schema, func(raw []byte) error {
		count++
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 6, count)
}

func TestScan_StopsEarlyOnCallbackError(t *testing.T) {
	bp := newTestBufferPool(t)
	cat, err := catalog.Load(bp)
	require.NoError(t, err)

	schema, err := cat.CreateTable("t", []catalog.Column{{Name: "a", Type: catalog.ColInt}})
	require.NoError(t, err)

	require.NoError(t, Insert(bp, schema, []byte("x")))
	require.NoError(t, Insert(bp, schema, []byte("y")))

	calls := 0
	wantErr := errListStop{}
	err = Scan(bp, schema, func(raw []byte) error {
		calls++
		return wantErr
	})
	require.ErrorIs(t, err, wantErr)
	require.Equal(t, 1, calls)
}

type errListStop struct{}

func (errListStop) Error() string { return "stop" }
