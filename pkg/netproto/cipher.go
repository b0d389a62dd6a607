// Package netproto implements the network framing cipher composition (C8)
// and the connection handshake (C9): the per-direction packet codec built
// from the primitives in pkg/wzcrypto, and the fixed handshake payload
// exchanged at connection start.
package netproto

import (
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/jon-zu/shroom-lib-sub000/pkg/shroomerr"
	"github.com/jon-zu/shroom-lib-sub000/pkg/shroomlog"
	"github.com/jon-zu/shroom-lib-sub000/pkg/wzcrypto"
)

// CryptFlags selects which cipher stages a Cipher applies, letting a
// server disable AES and/or the Shanda permutation for local testing
// without changing the framing (spec §4.8 "composition flags").
type CryptFlags uint8

const (
	CryptNone   CryptFlags = 0
	CryptShanda CryptFlags = 1 << 0
	CryptAES    CryptFlags = 1 << 1
	CryptAll    CryptFlags = CryptShanda | CryptAES
)

func (f CryptFlags) hasShanda() bool { return f&CryptShanda != 0 }
func (f CryptFlags) hasAES() bool    { return f&CryptAES != 0 }

// Cipher is one direction (send or receive) of the network framing
// cipher: it owns the packet AES-OFB state and the IG context used to
// advance the round key after every packet (spec §4.1, §4.8).
type Cipher struct {
	flags   CryptFlags
	version uint16
	packet  *wzcrypto.PacketCipher
	ig      *wzcrypto.IGContext
	log     hclog.Logger
}

// NewCipher builds a Cipher for one direction from the shared AES key,
// this direction's initial IV, the IG context used for round-key
// advancement, the protocol version word, and the enabled crypt stages.
// log may be nil.
func NewCipher(flags CryptFlags, key wzcrypto.AESKey, iv wzcrypto.IV, ig *wzcrypto.IGContext, version uint16, log hclog.Logger) (*Cipher, error) {
	pc, err := wzcrypto.NewPacketCipher(key, iv)
	if err != nil {
		return nil, err
	}
	return &Cipher{flags: flags, version: version, packet: pc, ig: ig, log: shroomlog.OrNull(log)}, nil
}

// RoundKey returns the current round key, the piece of state exchanged
// with the peer so both sides track the same header-verification key.
func (c *Cipher) RoundKey() wzcrypto.RoundKey { return c.packet.RoundKey() }

// EncodeHeader builds the 4-byte header for an outgoing packet of the
// given payload length.
func (c *Cipher) EncodeHeader(length uint16) wzcrypto.PacketHeader {
	if !c.flags.hasAES() {
		return wzcrypto.EncodeHeaderNoCrypt(length)
	}
	return wzcrypto.EncodeHeader(c.packet.RoundKey(), length, c.version)
}

// DecodeHeader parses an incoming packet header, returning its declared
// payload length.
func (c *Cipher) DecodeHeader(hdr wzcrypto.PacketHeader) (uint16, error) {
	if !c.flags.hasAES() {
		return wzcrypto.DecodeHeaderNoCrypt(hdr), nil
	}
	length, err := wzcrypto.DecodeHeader(hdr, c.packet.RoundKey(), c.version)
	if err != nil {
		return 0, fmt.Errorf("%w: header verification", shroomerr.ErrBadHeader)
	}
	return length, nil
}

// Encrypt transforms a plaintext packet payload into its on-wire form in
// place: Shanda permutation first, then the AES-OFB packet keystream,
// then the round key is advanced for the next packet (spec §4.8
// "encrypt order").
func (c *Cipher) Encrypt(buf []byte) {
	if c.flags.hasShanda() {
		wzcrypto.ShandaEncrypt(buf)
	}
	if c.flags.hasAES() {
		c.packet.ApplyKeystream(buf)
	}
	c.advance()
}

// Decrypt is the inverse of Encrypt: AES-OFB keystream, then round-key
// advance, then the Shanda inverse permutation. The round key must
// advance before the Shanda step so both directions stay synchronized
// packet-for-packet even though Shanda never touches key state itself.
func (c *Cipher) Decrypt(buf []byte) {
	if c.flags.hasAES() {
		c.packet.ApplyKeystream(buf)
	}
	c.advance()
	if c.flags.hasShanda() {
		wzcrypto.ShandaDecrypt(buf)
	}
}

func (c *Cipher) advance() {
	if c.flags.hasAES() {
		c.packet.UpdateRoundKeyIG(c.ig)
		c.log.Trace("round key advanced", "round_key", c.packet.RoundKey())
	}
}
