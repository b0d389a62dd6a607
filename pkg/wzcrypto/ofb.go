package wzcrypto

import (
	"crypto/aes"
	"crypto/cipher"
)

// OFBCache is an AES-256-OFB stream cipher wrapper that precomputes N
// successive 16-byte keystream blocks on construction (spec §4.1 "AES-OFB
// with keystream cache"). Calls whose buffer fits within the cache are
// XORed in place without invoking AES again; larger calls XOR the cached
// prefix then continue with a freshly seeded OFB stream from the IV state
// remembered after the cached blocks. The cache is tied to the
// construction IV: it must be rebuilt (via NewOFBCache) if the IV changes.
//
// This is used for the archive/image side of the cipher (WZ string and
// data decryption), with the cache sized to 256 blocks (4096 bytes) as in
// the original implementation it is ported from.
type OFBCache struct {
	block      cipher.Block
	cached     [][]byte // N precomputed 16-byte keystream blocks
	resumeIV   IV       // keystream state right after the cached blocks
}

// NewOFBCache builds an OFBCache with n cached 16-byte blocks.
func NewOFBCache(key AESKey, iv IV, n int) (*OFBCache, error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}

	cached := make([][]byte, n)
	cur := iv
	for i := 0; i < n; i++ {
		var out [AESBlockLen]byte
		block.Encrypt(out[:], cur[:])
		b := make([]byte, AESBlockLen)
		copy(b, out[:])
		cached[i] = b
		cur = out
	}

	return &OFBCache{block: block, cached: cached, resumeIV: cur}, nil
}

func cryptWithCache(cached [][]byte, buf []byte) {
	for i := 0; i*AESBlockLen < len(buf); i++ {
		start := i * AESBlockLen
		end := start + AESBlockLen
		if end > len(buf) {
			end = len(buf)
		}
		chunk := buf[start:end]
		key := cached[i]
		for j := range chunk {
			chunk[j] ^= key[j]
		}
	}
}

// Crypt XORs buf with the OFB keystream in place. Encryption and
// decryption are the same operation (stream cipher).
func (c *OFBCache) Crypt(buf []byte) {
	max := len(c.cached) * AESBlockLen
	if len(buf) <= max {
		cryptWithCache(c.cached, buf)
		return
	}

	first := buf[:max]
	cryptWithCache(c.cached, first)

	rest := buf[max:]
	stream := cipher.NewOFB(c.block, c.resumeIV[:])
	stream.XORKeyStream(rest, rest)
}
