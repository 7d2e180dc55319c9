// Package catalog persists and restores table definitions. The catalog is
// the set of table schemas, stored one tuple per table on the reserved
// catalog page (page 0), and mirrored as an in-memory list loaded once at
// startup.
package catalog

import (
	"encoding/binary"
	"fmt"
)

// ColumnType is the column's storage type; the spec's DDL surface is
// restricted to these two.
type ColumnType uint8

const (
	ColInt ColumnType = iota
	ColBool
)

func (t ColumnType) String() string {
	switch t {
	case ColInt:
		return "int"
	case ColBool:
		return "bool"
	default:
		return fmt.Sprintf("ColumnType(%d)", uint8(t))
	}
}

// Column is one column of a table schema; column order is significant and
// defines physical tuple layout.
type Column struct {
	Name string
	Type ColumnType
}

// TableSchema describes one table: its name, the page where its data
// begins, and its ordered columns.
type TableSchema struct {
	Name        string
	FirstPageID uint32
	Columns     []Column
}

// Serialize encodes a schema tuple:
//
//	1   name_len (u8; <= 255)
//	n   name bytes (UTF-8)
//	4   first_page_id (u32 LE)
//	1   num_columns (u8; <= 255)
//	repeat num_columns times:
//	  1   column_type (u8: 0=Int, 1=Bool)
//	  1   col_name_len (u8)
//	  n   col_name bytes (UTF-8)
func (s TableSchema) Serialize() ([]byte, error) {
	if len(s.Name) > 255 {
		return nil, fmt.Errorf("catalog: table name %q exceeds 255 bytes", s.Name)
	}
	if len(s.Columns) > 255 {
		return nil, fmt.Errorf("catalog: table %q has more than 255 columns", s.Name)
	}

	out := make([]byte, 0, 1+len(s.Name)+4+1)
	out = append(out, byte(len(s.Name)))
	out = append(out, s.Name...)

	var pageBuf [4]byte
	binary.LittleEndian.PutUint32(pageBuf[:], s.FirstPageID)
	out = append(out, pageBuf[:]...)

	out = append(out, byte(len(s.Columns)))
	for _, c := range s.Columns {
		if len(c.Name) > 255 {
			return nil, fmt.Errorf("catalog: column name %q exceeds 255 bytes", c.Name)
		}
		out = append(out, byte(c.Type))
		out = append(out, byte(len(c.Name)))
		out = append(out, c.Name...)
	}
	return out, nil
}

// DeserializeTableSchema decodes a schema tuple written by Serialize. An
// unrecognized column-type byte is a fatal decode error: invariant
// violation, not a recoverable condition.
func DeserializeTableSchema(buf []byte) (TableSchema, error) {
	r := reader{buf: buf}

	nameLen, err := r.u8()
	if err != nil {
		return TableSchema{}, err
	}
	name, err := r.bytes(int(nameLen))
	if err != nil {
		return TableSchema{}, err
	}

	firstPageID, err := r.u32()
	if err != nil {
		return TableSchema{}, err
	}

	numCols, err := r.u8()
	if err != nil {
		return TableSchema{}, err
	}

	cols := make([]Column, 0, numCols)
	for i := 0; i < int(numCols); i++ {
		typeByte, err := r.u8()
		if err != nil {
			return TableSchema{}, err
		}
		ct := ColumnType(typeByte)
		if ct != ColInt && ct != ColBool {
			return TableSchema{}, fmt.Errorf("catalog: unknown column type byte %d (fatal decode error)", typeByte)
		}

		colNameLen, err := r.u8()
		if err != nil {
			return TableSchema{}, err
		}
		colName, err := r.bytes(int(colNameLen))
		if err != nil {
			return TableSchema{}, err
		}

		cols = append(cols, Column{Name: string(colName), Type: ct})
	}

	return TableSchema{
		Name:        string(name),
		FirstPageID: firstPageID,
		Columns:     cols,
	}, nil
}

// reader is a small cursor over a decode buffer shared by the field
// readers below; it exists only to keep DeserializeTableSchema's bounds
// checks in one place.
type reader struct {
	buf []byte
	pos int
}

func (r *reader) u8() (byte, error) {
	if r.pos+1 > len(r.buf) {
		return 0, fmt.Errorf("catalog: schema tuple truncated reading u8 at %d", r.pos)
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

func (r *reader) u32() (uint32, error) {
	if r.pos+4 > len(r.buf) {
		return 0, fmt.Errorf("catalog: schema tuple truncated reading u32 at %d", r.pos)
	}
	v := binary.LittleEndian.Uint32(r.buf[r.pos:])
	r.pos += 4
	return v, nil
}

func (r *reader) bytes(n int) ([]byte, error) {
	if r.pos+n > len(r.buf) {
		return nil, fmt.Errorf("catalog: schema tuple truncated reading %d bytes at %d", n, r.pos)
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}
