package wzcrypto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// defaultWzOffsetMagic is the region-default offset obfuscation magic,
// reproduced here only to exercise the literal end-to-end test vector.
const defaultWzOffsetMagic uint32 = 0x581C3F6D

func TestOffsetCipherLiteralVector(t *testing.T) {
	const dataOffset uint32 = 60
	c := NewOffsetCipher(Version(95), defaultWzOffsetMagic)

	enc := c.EncryptOffset(dataOffset, 4681, 89)
	require.Equal(t, uint32(3555811726), enc)
	require.Equal(t, uint32(4681), c.DecryptOffset(dataOffset, enc, 89))
}

func TestOffsetCipherRoundTrip(t *testing.T) {
	c := NewOffsetCipher(Version(83), 0x10000)
	cases := []struct{ off, pos, base uint32 }{
		{0, 0, 0},
		{1234, 500, 16},
		{0xFFFFFFFF, 99999, 8200},
	}
	for _, tc := range cases {
		enc := c.EncryptOffset(tc.base, tc.off, tc.pos)
		require.Equal(t, tc.off, c.DecryptOffset(tc.base, enc, tc.pos))
	}
}
