package wzcrypto

import (
	"fmt"

	"github.com/jon-zu/shroom-lib-sub000/pkg/shroomerr"
)

// PacketHeader is the 4-byte network packet header (spec §3, §4.2, §6).
type PacketHeader [PacketHeaderLen]byte

// EncodeHeader builds a packet header for length under the given round key
// and version: two little-endian u16 words (low, high) where
// low = key_high XOR version, high = low XOR length.
func EncodeHeader(key RoundKey, length uint16, ver uint16) PacketHeader {
	keyHigh := uint16(key[2]) | uint16(key[3])<<8
	low := keyHigh ^ ver
	high := low ^ length
	return PacketHeader{byte(low), byte(low >> 8), byte(high), byte(high >> 8)}
}

// DecodeHeader recovers the declared length from a packet header, and
// verifies the round-key tag.
func DecodeHeader(hdr PacketHeader, key RoundKey, ver uint16) (uint16, error) {
	low := uint16(hdr[0]) | uint16(hdr[1])<<8
	high := uint16(hdr[2]) | uint16(hdr[3])<<8
	keyHigh := uint16(key[2]) | uint16(key[3])<<8

	length := low ^ high
	hdrKey := low ^ ver

	if hdrKey != keyHigh {
		return 0, fmt.Errorf("%w: header=0x%08x", shroomerr.ErrBadHeader, uint32(hdr[0])|uint32(hdr[1])<<8|uint32(hdr[2])<<16|uint32(hdr[3])<<24)
	}
	return length, nil
}

// EncodeHeaderNoCrypt is the canonical plaintext header form used when AES
// is disabled in the composition flag (spec §4.8): length written twice,
// once plain and once XORed with 0xFFFF.
func EncodeHeaderNoCrypt(length uint16) PacketHeader {
	inv := length ^ 0xFFFF
	return PacketHeader{byte(length), byte(length >> 8), byte(inv), byte(inv >> 8)}
}

// DecodeHeaderNoCrypt parses the no-crypt header form, returning the
// declared length without further verification.
func DecodeHeaderNoCrypt(hdr PacketHeader) uint16 {
	return uint16(hdr[0]) | uint16(hdr[1])<<8
}
