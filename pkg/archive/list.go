package archive

import (
	"encoding/binary"
	"fmt"
	"io"
	"strings"
	"unicode/utf16"

	"github.com/jon-zu/shroom-lib-sub000/pkg/shroomerr"
	"github.com/jon-zu/shroom-lib-sub000/pkg/wzcrypto"
)

// ListEntry is one manifest record: a null-terminated UTF-16 string,
// AES-only encrypted (no rolling XOR mask — spec §4.5 "List manifest").
type ListEntry string

// ReadListEntry decodes one {len:u32, payload:[u16; len+1]} record. The
// trailing unit is the null terminator, itself run through the cipher
// along with the payload.
func ReadListEntry(r io.Reader, ofb *wzcrypto.OFBCache) (ListEntry, error) {
	var lb [4]byte
	if _, err := io.ReadFull(r, lb[:]); err != nil {
		return "", err
	}
	n := binary.LittleEndian.Uint32(lb[:])

	raw := make([]byte, (n+1)*2)
	if _, err := io.ReadFull(r, raw); err != nil {
		return "", err
	}
	ofb.Crypt(raw)

	units := make([]uint16, n)
	for i := range units {
		units[i] = binary.LittleEndian.Uint16(raw[i*2:])
	}
	decoded := utf16.Decode(units)
	return ListEntry(decoded), nil
}

// WriteListEntry encodes a manifest record.
func WriteListEntry(w io.Writer, e ListEntry, ofb *wzcrypto.OFBCache) error {
	units := utf16.Encode([]rune(string(e)))
	n := uint32(len(units))

	raw := make([]byte, (n+1)*2)
	for i, u := range units {
		binary.LittleEndian.PutUint16(raw[i*2:], u)
	}
	// trailing unit is left at zero: the null terminator.
	ofb.Crypt(raw)

	var lb [4]byte
	binary.LittleEndian.PutUint32(lb[:], n)
	if _, err := w.Write(lb[:]); err != nil {
		return err
	}
	_, err := w.Write(raw)
	return err
}

// List is an ordered manifest of image entry names, read until EOF.
type List []ListEntry

// ReadList decodes records from r until EOF.
func ReadList(r io.Reader, ofb *wzcrypto.OFBCache) (List, error) {
	var list List
	for {
		e, err := ReadListEntry(r, ofb)
		if err != nil {
			if err == io.EOF {
				return list, nil
			}
			return nil, fmt.Errorf("%w: %v", shroomerr.ErrBadHeader, err)
		}
		list = append(list, e)
	}
}

// WriteList encodes every record in list.
func WriteList(w io.Writer, list List, ofb *wzcrypto.OFBCache) error {
	for _, e := range list {
		if err := WriteListEntry(w, e, ofb); err != nil {
			return err
		}
	}
	return nil
}

// Set is a case-insensitive presence set built from a List, used to hint
// chunked-canvas encoding for specific image names (spec §4.5,
// SPEC_FULL.md §C item 4: "manifest lower-casing").
type Set struct {
	names map[string]struct{}
}

// NewSetFromList lower-cases every manifest entry into a presence set.
func NewSetFromList(list List) *Set {
	names := make(map[string]struct{}, len(list))
	for _, e := range list {
		names[strings.ToLower(string(e))] = struct{}{}
	}
	return &Set{names: names}
}

// Contains reports whether s (case-insensitively) is present in the set.
func (set *Set) Contains(s string) bool {
	_, ok := set.names[strings.ToLower(s)]
	return ok
}

// ToList renders the set back into a List (unordered).
func (set *Set) ToList() List {
	list := make(List, 0, len(set.names))
	for name := range set.names {
		list = append(list, ListEntry(name))
	}
	return list
}
