package wzcrypto

import "crypto/rand"

// RoundKey is the 4-byte cipher-advance state for the network frame cipher
// (spec §3 "RoundKey").
type RoundKey [RoundKeyLen]byte

// ZeroRoundKey returns a RoundKey containing only zeros.
func ZeroRoundKey() RoundKey {
	return RoundKey{}
}

// RandomRoundKey draws a cryptographically random RoundKey, used by the
// server side of the handshake (spec §4.9).
func RandomRoundKey() (RoundKey, error) {
	var k RoundKey
	if _, err := rand.Read(k[:]); err != nil {
		return RoundKey{}, err
	}
	return k, nil
}

// Expand replicates the 4-byte key into a 16-byte AES IV: iv[i] = key[i%4].
func (k RoundKey) Expand() IV {
	var iv IV
	for i := range iv {
		iv[i] = k[i%RoundKeyLen]
	}
	return iv
}

// RoundKeyFromIV recovers the RoundKey from an expanded 16-byte IV (its
// first 4 bytes, by construction of Expand).
func RoundKeyFromIV(iv IV) RoundKey {
	var k RoundKey
	copy(k[:], iv[:RoundKeyLen])
	return k
}

// Update advances the round key by feeding its bytes through the IG keyed
// hash.
func (k RoundKey) Update(ig *IGContext) RoundKey {
	h := ig.Hash(k[:])
	return RoundKey{byte(h), byte(h >> 8), byte(h >> 16), byte(h >> 24)}
}

// Uint32 returns the round key as a little-endian u32.
func (k RoundKey) Uint32() uint32 {
	return uint32(k[0]) | uint32(k[1])<<8 | uint32(k[2])<<16 | uint32(k[3])<<24
}

// RoundKeyFromUint32 builds a RoundKey from a little-endian u32.
func RoundKeyFromUint32(v uint32) RoundKey {
	return RoundKey{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
}
