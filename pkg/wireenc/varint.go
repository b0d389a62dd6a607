// Package wireenc implements the compact numeric and string encodings (C3):
// variable-length signed integers and length-prefixed encrypted strings.
package wireenc

import (
	"encoding/binary"
	"io"
)

const (
	varIntEscape  = -128
	varLongEscape = -128
)

// WriteVarInt encodes v as a single signed byte, or, if it does not fit in
// an i8 (excluding the -128 sentinel itself), the sentinel byte followed by
// a little-endian i32 (spec §3 "Variable-length signed integer").
func WriteVarInt(w io.Writer, v int32) error {
	if v >= -127 && v <= 127 {
		_, err := w.Write([]byte{byte(int8(v))})
		return err
	}
	var buf [5]byte
	escape := int8(varIntEscape)
	buf[0] = byte(escape)
	binary.LittleEndian.PutUint32(buf[1:], uint32(v))
	_, err := w.Write(buf[:])
	return err
}

// ReadVarInt decodes a variable-length signed integer.
func ReadVarInt(r io.Reader) (int32, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	if int8(b[0]) == varIntEscape {
		var buf [4]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, err
		}
		return int32(binary.LittleEndian.Uint32(buf[:])), nil
	}
	return int32(int8(b[0])), nil
}

// WriteVarLong encodes v the same way as WriteVarInt but with an i64
// extended form.
func WriteVarLong(w io.Writer, v int64) error {
	if v >= -127 && v <= 127 {
		_, err := w.Write([]byte{byte(int8(v))})
		return err
	}
	var buf [9]byte
	escape := int8(varLongEscape)
	buf[0] = byte(escape)
	binary.LittleEndian.PutUint64(buf[1:], uint64(v))
	_, err := w.Write(buf[:])
	return err
}

// ReadVarLong decodes a variable-length signed long.
func ReadVarLong(r io.Reader) (int64, error) {
	var b [1]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	if int8(b[0]) == varLongEscape {
		var buf [8]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, err
		}
		return int64(binary.LittleEndian.Uint64(buf[:])), nil
	}
	return int64(int8(b[0])), nil
}
