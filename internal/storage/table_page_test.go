package storage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newEmptyPage() TablePage {
	tp := NewTablePage(make([]byte, PageSize))
	tp.InitEmpty()
	return tp
}

func TestTablePage_InitEmpty(t *testing.T) {
	tp := newEmptyPage()
	require.Equal(t, uint32(0), tp.NextPageID())
	require.Equal(t, uint16(0), tp.NumTuples())
	require.Equal(t, uint16(0), tp.NumDeletedTuples())
}

func TestTablePage_InsertAndGetTuple(t *testing.T) {
	tp := newEmptyPage()

	id, ok := tp.InsertTuple([]byte("row-one"))
	require.True(t, ok)
	require.Equal(t, 0, id)

	id2, ok := tp.InsertTuple([]byte("row-two"))
	require.True(t, ok)
	require.Equal(t, 1, id2)

	require.Equal(t, uint16(2), tp.NumTuples())

	got, err := tp.GetTuple(0)
	require.NoError(t, err)
	require.Equal(t, "row-one", string(got))

	got2, err := tp.GetTuple(1)
	require.NoError(t, err)
	require.Equal(t, "row-two", string(got2))
}

func TestTablePage_NextTupleOffset(t *testing.T) {
	tp := newEmptyPage()
	// Simulate one existing 64-byte tuple at offset 4032 (as if one slot
	// were already in place), then ask for room for a 32-byte tuple.
	tp.putSlot(0, 4032, 64, 0)
	tp.setNumTuples(1)

	offset, ok := tp.NextTupleOffset(32)
	require.True(t, ok)
	require.Equal(t, 4000, offset)
}

func TestTablePage_GetTupleOutOfRange(t *testing.T) {
	tp := newEmptyPage()
	_, err := tp.GetTuple(0)
	require.ErrorIs(t, err, ErrBadTupleID)
}

func TestTablePage_DeleteTupleTombstonesWithoutShifting(t *testing.T) {
	tp := newEmptyPage()
	id0, _ := tp.InsertTuple([]byte("a"))
	id1, _ := tp.InsertTuple([]byte("b"))

	require.NoError(t, tp.DeleteTuple(id0))
	require.True(t, tp.IsDeleted(id0))
	require.Equal(t, uint16(1), tp.NumDeletedTuples())

	// id1 is unaffected and still addressable at the same TupleID.
	got, err := tp.GetTuple(id1)
	require.NoError(t, err)
	require.Equal(t, "b", string(got))

	_, err = tp.GetTuple(id0)
	require.ErrorIs(t, err, ErrBadTupleID)
}

func TestTablePage_DeleteTupleIdempotent(t *testing.T) {
	tp := newEmptyPage()
	id, _ := tp.InsertTuple([]byte("a"))

	require.NoError(t, tp.DeleteTuple(id))
	require.NoError(t, tp.DeleteTuple(id))
	require.Equal(t, uint16(1), tp.NumDeletedTuples())
}

func TestTablePage_InsertFailsWhenTupleDoesNotFit(t *testing.T) {
	tp := newEmptyPage()

	big := make([]byte, PageSize) // larger than any page could ever hold
	_, ok := tp.InsertTuple(big)
	require.False(t, ok)
}

func TestTablePage_NextPageIDRoundTrip(t *testing.T) {
	tp := newEmptyPage()
	tp.SetNextPageID(7)
	require.Equal(t, uint32(7), tp.NextPageID())
}
