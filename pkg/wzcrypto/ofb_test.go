package wzcrypto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testAESKey() AESKey {
	var k AESKey
	for i := range k {
		k[i] = byte(i)
	}
	return k
}

func testIV() IV {
	var iv IV
	for i := range iv {
		iv[i] = byte(200 + i)
	}
	return iv
}

func TestOFBCacheRoundTrip(t *testing.T) {
	const n = 16 // 256 bytes cached
	cache, err := NewOFBCache(testAESKey(), testIV(), n)
	require.NoError(t, err)

	sizes := []int{0, 1, 15, 16, 17, n * 16, n*16 - 1, n*16 + 1, n*16 + 100}
	for _, size := range sizes {
		data := make([]byte, size)
		for i := range data {
			data[i] = 1
		}
		orig := append([]byte(nil), data...)

		cache.Crypt(data)
		cache.Crypt(data)
		require.Equal(t, orig, data, "size=%d", size)
	}
}

func TestOFBCacheMatchesUncachedForCachedRange(t *testing.T) {
	// The cached and uncached code paths must be byte-identical (spec §9
	// "cached vs uncached paths MUST be byte-identical").
	key := testAESKey()
	iv := testIV()

	cached, err := NewOFBCache(key, iv, 4)
	require.NoError(t, err)

	plain := make([]byte, 64)
	for i := range plain {
		plain[i] = byte(i)
	}

	viaCache := append([]byte(nil), plain...)
	cached.Crypt(viaCache)

	viaPlainOFB, err := NewOFBCache(key, iv, 0)
	require.NoError(t, err)
	viaStream := append([]byte(nil), plain...)
	viaPlainOFB.Crypt(viaStream)

	require.Equal(t, viaCache, viaStream)
}
