package wzcrypto

import (
	"crypto/aes"
	"crypto/cipher"
)

// Packet-level block sizing for ShroomPacketCipher-style framing: the first
// segment of a packet is sized 4 bytes short of packetBlockLen to make
// room for the external 4-byte header, every following segment is exactly
// packetBlockLen bytes, and the OFB keystream restarts from the packet's base
// IV for every segment rather than continuing across them — the original
// implementation's caching heuristic, preserved verbatim here.
const (
	packetBlockLen      = 1460
	packetFirstBlockLen = packetBlockLen - 4
)

// PacketCipher is the network framing cipher's AES-OFB primitive: per call
// it XORs a full packet payload with a keystream built fresh from the
// current round-key-derived IV, splitting large payloads into
// packetFirstBlockLen/packetBlockLen-sized segments each re-seeded from
// the same IV (spec §4.1, §4.8).
type PacketCipher struct {
	block cipher.Block
	iv    IV
}

// NewPacketCipher builds a PacketCipher from the shared AES key and an
// initial IV (typically a RoundKey's Expand()).
func NewPacketCipher(key AESKey, iv IV) (*PacketCipher, error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}
	return &PacketCipher{block: block, iv: iv}, nil
}

// RoundKey returns the round key this cipher's current IV was expanded
// from.
func (p *PacketCipher) RoundKey() RoundKey {
	return RoundKeyFromIV(p.iv)
}

// SetIV replaces the cipher's IV, e.g. after round-key advancement.
func (p *PacketCipher) SetIV(iv IV) {
	p.iv = iv
}

// UpdateRoundKeyIG advances the round key via the IG keyed hash and
// re-expands it to the next IV.
func (p *PacketCipher) UpdateRoundKeyIG(ig *IGContext) {
	p.SetIV(p.RoundKey().Update(ig).Expand())
}

func (p *PacketCipher) freshStream() cipher.Stream {
	return cipher.NewOFB(p.block, p.iv[:])
}

// ApplyKeystream XORs buf in place with the packet keystream. Must be
// called with exactly one full packet payload: internal round-key state
// advancement (done separately via UpdateRoundKeyIG) assumes whole-packet
// granularity.
func (p *PacketCipher) ApplyKeystream(buf []byte) {
	if len(buf) < packetFirstBlockLen {
		p.freshStream().XORKeyStream(buf, buf)
		return
	}

	first := buf[:packetFirstBlockLen]
	p.freshStream().XORKeyStream(first, first)

	rest := buf[packetFirstBlockLen:]
	for len(rest) > 0 {
		n := packetBlockLen
		if n > len(rest) {
			n = len(rest)
		}
		chunk := rest[:n]
		p.freshStream().XORKeyStream(chunk, chunk)
		rest = rest[n:]
	}
}
