// Package record encodes and decodes table rows into the flat tuple bytes
// that table pages store, for the two column types this spec's DDL/DML
// surface supports.
package record

import (
	"encoding/binary"
	"fmt"

	"github.com/tuannm99/novadb/internal/catalog"
)

// EncodeRow packs values into the flat, fixed-layout tuple bytes a table
// page stores: Int columns as 8-byte little-endian signed integers, Bool
// columns as a single {0,1} byte, concatenated in column order. NULL is not
// part of this spec's DML surface, so every value must be present and of
// the matching type.
func EncodeRow(schema catalog.TableSchema, values []Int64OrBool) ([]byte, error) {
	if len(values) != len(schema.Columns) {
		return nil, fmt.Errorf("record: row has %d values, schema %q has %d columns", len(values), schema.Name, len(schema.Columns))
	}

	out := make([]byte, 0, 8*len(values))
	for i, col := range schema.Columns {
		v := values[i]
		switch col.Type {
		case catalog.ColInt:
			if !v.isInt {
				return nil, fmt.Errorf("record: column %q expects int", col.Name)
			}
			var b [8]byte
			binary.LittleEndian.PutUint64(b[:], uint64(v.i))
			out = append(out, b[:]...)
		case catalog.ColBool:
			if v.isInt {
				return nil, fmt.Errorf("record: column %q expects bool", col.Name)
			}
			if v.b {
				out = append(out, 1)
			} else {
				out = append(out, 0)
			}
		default:
			return nil, fmt.Errorf("record: unsupported column type %v", col.Type)
		}
	}
	return out, nil
}

// DecodeRow is the inverse of EncodeRow.
func DecodeRow(schema catalog.TableSchema, buf []byte) ([]any, error) {
	out := make([]any, len(schema.Columns))
	pos := 0
	for i, col := range schema.Columns {
		switch col.Type {
		case catalog.ColInt:
			if pos+8 > len(buf) {
				return nil, fmt.Errorf("record: tuple truncated decoding column %q", col.Name)
			}
			out[i] = int64(binary.LittleEndian.Uint64(buf[pos:]))
			pos += 8
		case catalog.ColBool:
			if pos+1 > len(buf) {
				return nil, fmt.Errorf("record: tuple truncated decoding column %q", col.Name)
			}
			out[i] = buf[pos] != 0
			pos++
		default:
			return nil, fmt.Errorf("record: unsupported column type %v", col.Type)
		}
	}
	return out, nil
}

// Int64OrBool is a small tagged value so EncodeRow's input is
// typo-resistant without resorting to `any` and runtime type switches for
// a DML surface that only ever carries two types.
type Int64OrBool struct {
	isInt bool
	i     int64
	b     bool
}

// Int wraps an int64 value for EncodeRow.
func Int(v int64) Int64OrBool { return Int64OrBool{isInt: true, i: v} }

// Bool wraps a bool value for EncodeRow.
func Bool(v bool) Int64OrBool { return Int64OrBool{isInt: false, b: v} }
