// Package strtable implements the per-image/per-archive string intern
// table (C4): a forward offset→string map for reading and a reverse
// string→offset map for writing, shared by back-referenced strings within
// one scope (spec §3 "String intern table", §4.4).
package strtable

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/jon-zu/shroom-lib-sub000/pkg/shroomerr"
)

// Discriminator tag bytes (spec §4.4, §6).
const (
	TagImageInline  = 0x00
	TagImageBackref = 0x01
	TagTypeInline   = 0x73
	TagTypeBackref  = 0x1B
)

// minInternLen is the minimum string length eligible for interning;
// shorter strings are always stored inline.
const minInternLen = 5

// Table is a per-image or per-directory-tree string intern table. A reader
// only needs the forward map, a writer only the reverse map (spec §9
// "Intern tables"), but both are carried on one value for simplicity.
type Table struct {
	offsetToString map[uint32]string
	stringToOffset map[string]uint32
}

// New builds an empty Table.
func New() *Table {
	return &Table{
		offsetToString: make(map[uint32]string),
		stringToOffset: make(map[string]uint32),
	}
}

func eligible(s string) bool {
	return len(s) >= minInternLen
}

// Intern registers s as decoded at the inline-payload byte offset. A
// string shorter than minInternLen is never interned (spec §4.4).
func (t *Table) Intern(offset uint32, s string) {
	if !eligible(s) {
		return
	}
	if _, ok := t.offsetToString[offset]; !ok {
		t.offsetToString[offset] = s
	}
}

// Resolve looks up a previously interned string by its payload offset.
func (t *Table) Resolve(offset uint32) (string, bool) {
	s, ok := t.offsetToString[offset]
	return s, ok
}

// LookupForWrite returns the payload offset a string was previously
// written at, if any.
func (t *Table) LookupForWrite(s string) (uint32, bool) {
	if !eligible(s) {
		return 0, false
	}
	off, ok := t.stringToOffset[s]
	return off, ok
}

// RegisterForWrite records that s was just written inline at offset, so a
// later write of the same string can use a back-reference instead.
func (t *Table) RegisterForWrite(s string, offset uint32) {
	if !eligible(s) {
		return
	}
	if _, ok := t.stringToOffset[s]; !ok {
		t.stringToOffset[s] = offset
	}
}

// Decoder decodes an inline string payload from r.
type Decoder func(r io.Reader) (string, error)

// Encoder encodes s as an inline string payload to w.
type Encoder func(w io.Writer, s string) error

// ReadTagged reads one discriminator byte followed by either an inline
// payload (decoded with decode and interned) or a 4-byte back-reference
// (resolved against the table). posBeforeTag is the absolute stream offset
// of the discriminator byte itself, used to compute the interned payload
// offset on the inline path.
func (t *Table) ReadTagged(r io.Reader, posBeforeTag int64, inlineTag, backrefTag byte, decode Decoder) (string, error) {
	var tagb [1]byte
	if _, err := io.ReadFull(r, tagb[:]); err != nil {
		return "", err
	}

	switch tagb[0] {
	case inlineTag:
		payloadOffset := uint32(posBeforeTag + 1)
		s, err := decode(r)
		if err != nil {
			return "", err
		}
		t.Intern(payloadOffset, s)
		return s, nil
	case backrefTag:
		var ob [4]byte
		if _, err := io.ReadFull(r, ob[:]); err != nil {
			return "", err
		}
		off := binary.LittleEndian.Uint32(ob[:])
		s, ok := t.Resolve(off)
		if !ok {
			return "", fmt.Errorf("%w: offset=%d", shroomerr.ErrBadStringOffset, off)
		}
		return s, nil
	default:
		return "", fmt.Errorf("%w: tag=0x%02x", shroomerr.ErrUnknownTag, tagb[0])
	}
}

// WriteTagged writes s either as a 4-byte back-reference (if previously
// interned) or as a fresh inline payload (encoded with encode and
// registered for future back-references). posBeforeTag is the absolute
// stream offset the discriminator byte is about to be written at.
func (t *Table) WriteTagged(w io.Writer, posBeforeTag int64, inlineTag, backrefTag byte, s string, encode Encoder) error {
	if off, ok := t.LookupForWrite(s); ok {
		var buf [5]byte
		buf[0] = backrefTag
		binary.LittleEndian.PutUint32(buf[1:], off)
		_, err := w.Write(buf[:])
		return err
	}

	if _, err := w.Write([]byte{inlineTag}); err != nil {
		return err
	}
	if err := encode(w, s); err != nil {
		return err
	}
	t.RegisterForWrite(s, uint32(posBeforeTag+1))
	return nil
}
