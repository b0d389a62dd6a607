// Package wzcrypto implements the cipher primitives (C1), offset & header
// codec (C2), round key and version handling shared by the archive/image
// codec and the network framing cipher.
package wzcrypto

const (
	// AESKeyLen is the length in bytes of the shared AES-256 key.
	AESKeyLen = 32
	// AESBlockLen is the AES block size in bytes.
	AESBlockLen = 16
	// RoundKeyLen is the length in bytes of a RoundKey.
	RoundKeyLen = 4
	// PacketHeaderLen is the length in bytes of a network packet header.
	PacketHeaderLen = 4
	// ShuffleTableLen is the size of the IG cipher's shuffle table.
	ShuffleTableLen = 256
)

// AESKey is the shared 256-bit AES key type.
type AESKey [AESKeyLen]byte

// IV is a 128-bit AES initialization vector.
type IV [AESBlockLen]byte

// ShuffleTable is the IG cipher's 256-byte substitution table.
type ShuffleTable [ShuffleTableLen]byte

// CryptoContext is the immutable bundle of region-specific constants that
// every cipher primitive and codec in this module is configured from: the
// AES key, initial IV, IG shuffle table and seed, the offset obfuscation
// magic, and the protocol version. It is constructed once per region/version
// tuple and shared by reference across every reader/writer using that
// configuration (see spec §3 "CryptoContext" and §5 shared-resource policy).
type CryptoContext struct {
	AESKey       AESKey
	IV           IV
	ShuffleTable ShuffleTable
	IGSeed       uint32
	OffsetMagic  uint32
	Version      Version
}

// IGContext returns the IG keyed-hash/cipher context derived from this
// CryptoContext's shuffle table and seed.
func (c *CryptoContext) IGContext() *IGContext {
	return NewIGContext(c.ShuffleTable, c.IGSeed)
}

// OffsetCipher returns the archive offset obfuscation cipher derived from
// this CryptoContext's version and offset magic.
func (c *CryptoContext) OffsetCipher() *OffsetCipher {
	return NewOffsetCipher(c.Version, c.OffsetMagic)
}
