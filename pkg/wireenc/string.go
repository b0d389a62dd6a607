package wireenc

import (
	"encoding/binary"
	"fmt"
	"io"
	"unicode/utf16"

	"github.com/jon-zu/shroom-lib-sub000/pkg/shroomerr"
	"github.com/jon-zu/shroom-lib-sub000/pkg/wzcrypto"
)

// ReadEncryptedString decodes one length-prefixed, encrypted string (spec
// §3 "Encrypted string", §4.3). ofb is the shared AES-OFB cache for the
// enclosing archive/image; a fresh XOR mask is started for each string.
//
// Latin-1 decoding is a lossy downgrade for code points above 0xFF and is
// only used when the wire form declares a latin-1 length (n <= 0); this
// matches the on-disk format, which only supports storing latin-1-range
// text in that form (spec §8 "latin-1 downgrades lossily and MUST be
// documented as such").
func ReadEncryptedString(r io.Reader, ofb *wzcrypto.OFBCache) (string, error) {
	var lb [1]byte
	if _, err := io.ReadFull(r, lb[:]); err != nil {
		return "", err
	}
	n := int8(lb[0])

	if n <= 0 {
		length := int32(-n)
		if n == -128 {
			var buf [4]byte
			if _, err := io.ReadFull(r, buf[:]); err != nil {
				return "", err
			}
			length = int32(binary.LittleEndian.Uint32(buf[:]))
		}
		if length == 0 {
			return "", nil
		}
		raw := make([]byte, length)
		if _, err := io.ReadFull(r, raw); err != nil {
			return "", err
		}
		decryptLatin1(raw, ofb)
		runes := make([]rune, len(raw))
		for i, b := range raw {
			runes[i] = rune(b)
		}
		return string(runes), nil
	}

	length := int32(n)
	if n == 127 {
		var buf [4]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return "", err
		}
		length = int32(binary.LittleEndian.Uint32(buf[:]))
	}
	if length == 0 {
		return "", nil
	}
	units := make([]uint16, length)
	raw := make([]byte, int(length)*2)
	if _, err := io.ReadFull(r, raw); err != nil {
		return "", err
	}
	for i := range units {
		units[i] = binary.LittleEndian.Uint16(raw[i*2:])
	}
	decryptUTF16(units, ofb)
	return string(utf16.Decode(units)), nil
}

// WriteEncryptedString encodes s in its most compact wire form: latin-1 if
// every rune fits in a byte, UTF-16 otherwise.
func WriteEncryptedString(w io.Writer, s string, ofb *wzcrypto.OFBCache) error {
	runes := []rune(s)

	latin1 := true
	for _, r := range runes {
		if r > 0xFF {
			latin1 = false
			break
		}
	}

	if latin1 {
		return writeLatin1(w, runes, ofb)
	}
	return writeUTF16(w, s, ofb)
}

func writeLatin1(w io.Writer, runes []rune, ofb *wzcrypto.OFBCache) error {
	length := len(runes)
	if err := writeStrLen(w, -1, length, -128); err != nil {
		return err
	}
	if length == 0 {
		return nil
	}
	raw := make([]byte, length)
	for i, r := range runes {
		raw[i] = byte(r)
	}
	encryptLatin1(raw, ofb)
	_, err := w.Write(raw)
	return err
}

func writeUTF16(w io.Writer, s string, ofb *wzcrypto.OFBCache) error {
	units := utf16.Encode([]rune(s))
	length := len(units)
	if err := writeStrLen(w, 1, length, 127); err != nil {
		return err
	}
	if length == 0 {
		return nil
	}
	encryptUTF16(units, ofb)
	raw := make([]byte, length*2)
	for i, u := range units {
		binary.LittleEndian.PutUint16(raw[i*2:], u)
	}
	_, err := w.Write(raw)
	return err
}

// writeStrLen writes the one-byte (or extended) length prefix. sign is +1
// for the UTF-16 form, -1 for the latin-1 form; escape is the sentinel
// value (-128 or 127) that introduces the i32 extended form. The
// single-byte range differs by sign: latin-1's sentinel is -128, so
// lengths up to 127 still fit a single signed byte (as -127..0); UTF-16's
// sentinel is 127 itself, so its single-byte range tops out at 126. The
// extended form always carries the literal positive length, matching
// ReadEncryptedString, which never applies a sign correction to it.
func writeStrLen(w io.Writer, sign int, length int, escape int8) error {
	maxSingleByte := 126
	if sign < 0 {
		maxSingleByte = 127
	}
	if length <= maxSingleByte {
		return writeSingleByteLen(w, sign, length)
	}
	var buf [5]byte
	buf[0] = byte(escape)
	binary.LittleEndian.PutUint32(buf[1:], uint32(int32(length)))
	_, err := ioWriteFull(w, buf[:])
	return err
}

func writeSingleByteLen(w io.Writer, sign int, length int) error {
	b := byte(int8(sign * length))
	_, err := ioWriteFull(w, []byte{b})
	return err
}

func ioWriteFull(w io.Writer, buf []byte) (int, error) {
	return w.Write(buf)
}

// decryptLatin1 and encryptLatin1/encryptUTF16/decryptUTF16 apply the
// rolling XOR mask composed with the AES keystream. For decryption the
// mask is applied first, then the AES keystream; for encryption the order
// is reversed (spec §3, §4.1 "String XOR masks"). Because both operations
// are position-independent XORs this ordering makes no numerical
// difference, but it is kept distinct to mirror the two call sites
// described by the format.
func decryptLatin1(raw []byte, ofb *wzcrypto.OFBCache) {
	mask := wzcrypto.NewXORMask8()
	mask.Apply(raw)
	ofb.Crypt(raw)
}

func encryptLatin1(raw []byte, ofb *wzcrypto.OFBCache) {
	ofb.Crypt(raw)
	mask := wzcrypto.NewXORMask8()
	mask.Apply(raw)
}

func decryptUTF16(units []uint16, ofb *wzcrypto.OFBCache) {
	mask := wzcrypto.NewXORMask16()
	mask.Apply(units)
	raw := make([]byte, len(units)*2)
	for i, u := range units {
		binary.LittleEndian.PutUint16(raw[i*2:], u)
	}
	ofb.Crypt(raw)
	for i := range units {
		units[i] = binary.LittleEndian.Uint16(raw[i*2:])
	}
}

func encryptUTF16(units []uint16, ofb *wzcrypto.OFBCache) {
	raw := make([]byte, len(units)*2)
	for i, u := range units {
		binary.LittleEndian.PutUint16(raw[i*2:], u)
	}
	ofb.Crypt(raw)
	for i := range units {
		units[i] = binary.LittleEndian.Uint16(raw[i*2:])
	}
	mask := wzcrypto.NewXORMask16()
	mask.Apply(units)
}

// ValidateUTF16 reports whether units decode to valid UTF-16 text,
// returning shroomerr.ErrUtf16 wrapped with the offending index if not.
func ValidateUTF16(units []uint16) error {
	decoded := utf16.Decode(units)
	for i, r := range decoded {
		if r == '�' {
			return fmt.Errorf("%w: unit %d", shroomerr.ErrUtf16, i)
		}
	}
	return nil
}
