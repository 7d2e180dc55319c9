package record

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuannm99/novadb/internal/catalog"
)

func TestEncodeDecodeRow_RoundTrip(t *testing.T) {
	schema := catalog.TableSchema{
		Columns: []catalog.Column{
			{Name: "id", Type: catalog.ColInt},
			{Name: "active", Type: catalog.ColBool},
		},
	}

	buf, err := EncodeRow(schema, []Int64OrBool{Int(42), Bool(true)})
	require.NoError(t, err)
	require.Len(t, buf, 9) // 8 bytes int + 1 byte bool

	values, err := DecodeRow(schema, buf)
	require.NoError(t, err)
	require.Equal(t, []any{int64(42), true}, values)
}

func TestEncodeRow_ArityMismatch(t *testing.T) {
	schema := catalog.TableSchema{
		Columns: []catalog.Column{{Name: "id", Type: catalog.ColInt}},
	}
	_, err := EncodeRow(schema, nil)
	require.Error(t, err)
}

func TestEncodeRow_TypeMismatch(t *testing.T) {
	schema := catalog.TableSchema{
		Columns: []catalog.Column{{Name: "id", Type: catalog.ColInt}},
	}
	_, err := EncodeRow(schema, []Int64OrBool{Bool(true)})
	require.Error(t, err)
	require.Contains(t, err.Error(), "expects int")
}

func TestDecodeRow_TruncatedBuffer(t *testing.T) {
	schema := catalog.TableSchema{
		Columns: []catalog.Column{{Name: "id", Type: catalog.ColInt}},
	}
	_, err := DecodeRow(schema, []byte{1, 2, 3})
	require.Error(t, err)
}
