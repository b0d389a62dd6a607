package imgtree

import (
	"encoding/binary"
	"io"
)

func leUint16(b [2]byte) uint16 { return binary.LittleEndian.Uint16(b[:]) }
func leUint32(b [4]byte) uint32 { return binary.LittleEndian.Uint32(b[:]) }

func putUint32(b *[4]byte, v uint32) { binary.LittleEndian.PutUint32(b[:], v) }

func writeUint16(w io.Writer, v uint16) error {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	_, err := w.Write(b[:])
	return err
}
