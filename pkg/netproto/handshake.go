package netproto

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/jon-zu/shroom-lib-sub000/pkg/shroomerr"
	"github.com/jon-zu/shroom-lib-sub000/pkg/wzcrypto"
)

// MaxHandshakeLen is the largest declared handshake payload length this
// implementation accepts (spec §4.9 "Handshake").
const MaxHandshakeLen = 24

// maxSubversionLen bounds the subversion string so the fixed handshake
// layout never exceeds MaxHandshakeLen.
const maxSubversionLen = 2

// Handshake is the fixed-layout payload exchanged once at connection
// start: protocol version, a short subversion label, each direction's
// initial IV, and a locale byte selecting the region's crypto constants.
type Handshake struct {
	Version    uint16
	Subversion string
	IVEncrypt  wzcrypto.IV
	IVDecrypt  wzcrypto.IV
	Locale     uint8
}

// Encode writes h in its {u16 len_prefix}{version:u16, subversion:str,
// iv_enc:[4]byte, iv_dec:[4]byte, locale:u8} layout. Only the low 4 bytes
// of each IV are sent on the wire; the peer expands them via RoundKey.Expand.
func (h Handshake) Encode(w io.Writer) error {
	if len(h.Subversion) > maxSubversionLen {
		return fmt.Errorf("subversion %q exceeds %d bytes", h.Subversion, maxSubversionLen)
	}

	body := make([]byte, 0, MaxHandshakeLen)
	var verBuf [2]byte
	binary.LittleEndian.PutUint16(verBuf[:], h.Version)
	body = append(body, verBuf[:]...)

	body = append(body, byte(len(h.Subversion)))
	body = append(body, h.Subversion...)

	body = append(body, h.IVEncrypt[:wzcrypto.RoundKeyLen]...)
	body = append(body, h.IVDecrypt[:wzcrypto.RoundKeyLen]...)
	body = append(body, h.Locale)

	if len(body) > MaxHandshakeLen {
		return fmt.Errorf("%w: handshake body=%d bytes", shroomerr.ErrFrameTooLarge, len(body))
	}

	var lenBuf [2]byte
	binary.LittleEndian.PutUint16(lenBuf[:], uint16(len(body)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err := w.Write(body)
	return err
}

// DecodeHandshake reads and validates a Handshake, rejecting any declared
// length above MaxHandshakeLen before allocating a read buffer for it.
func DecodeHandshake(r io.Reader) (Handshake, error) {
	var lenBuf [2]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return Handshake{}, err
	}
	declared := binary.LittleEndian.Uint16(lenBuf[:])
	if declared > MaxHandshakeLen {
		return Handshake{}, fmt.Errorf("%w: handshake declared_len=%d", shroomerr.ErrFrameTooLarge, declared)
	}

	body := make([]byte, declared)
	if _, err := io.ReadFull(r, body); err != nil {
		return Handshake{}, err
	}

	if len(body) < 2 {
		return Handshake{}, fmt.Errorf("%w: handshake too short for version", shroomerr.ErrBadHeader)
	}
	h := Handshake{Version: binary.LittleEndian.Uint16(body[:2])}
	pos := 2

	if pos >= len(body) {
		return Handshake{}, fmt.Errorf("%w: handshake missing subversion length", shroomerr.ErrBadHeader)
	}
	subLen := int(body[pos])
	pos++
	if subLen > maxSubversionLen || pos+subLen > len(body) {
		return Handshake{}, fmt.Errorf("%w: handshake subversion_len=%d", shroomerr.ErrBadHeader, subLen)
	}
	h.Subversion = string(body[pos : pos+subLen])
	pos += subLen

	if pos+wzcrypto.RoundKeyLen > len(body) {
		return Handshake{}, fmt.Errorf("%w: handshake missing iv_enc", shroomerr.ErrBadHeader)
	}
	copy(h.IVEncrypt[:], expandRoundKeyBytes(body[pos : pos+wzcrypto.RoundKeyLen]))
	pos += wzcrypto.RoundKeyLen

	if pos+wzcrypto.RoundKeyLen > len(body) {
		return Handshake{}, fmt.Errorf("%w: handshake missing iv_dec", shroomerr.ErrBadHeader)
	}
	copy(h.IVDecrypt[:], expandRoundKeyBytes(body[pos : pos+wzcrypto.RoundKeyLen]))
	pos += wzcrypto.RoundKeyLen

	if pos >= len(body) {
		return Handshake{}, fmt.Errorf("%w: handshake missing locale", shroomerr.ErrBadHeader)
	}
	h.Locale = body[pos]

	return h, nil
}

// expandRoundKeyBytes repeats a 4-byte round key seed across a full AES
// IV, matching RoundKey.Expand's tiling.
func expandRoundKeyBytes(seed []byte) []byte {
	var rk wzcrypto.RoundKey
	copy(rk[:], seed)
	iv := rk.Expand()
	return iv[:]
}

// NewHandshake builds this side's outgoing handshake: a random round key
// per direction, expanded to initial IVs, alongside the negotiated
// version/subversion/locale (spec §4.9 "server generates and writes
// first").
func NewHandshake(version uint16, subversion string, locale uint8) (Handshake, wzcrypto.RoundKey, wzcrypto.RoundKey, error) {
	encKey, err := wzcrypto.RandomRoundKey()
	if err != nil {
		return Handshake{}, wzcrypto.RoundKey{}, wzcrypto.RoundKey{}, err
	}
	decKey, err := wzcrypto.RandomRoundKey()
	if err != nil {
		return Handshake{}, wzcrypto.RoundKey{}, wzcrypto.RoundKey{}, err
	}
	h := Handshake{
		Version:    version,
		Subversion: subversion,
		IVEncrypt:  encKey.Expand(),
		IVDecrypt:  decKey.Expand(),
		Locale:     locale,
	}
	return h, encKey, decKey, nil
}
