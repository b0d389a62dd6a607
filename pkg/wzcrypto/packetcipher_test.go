package wzcrypto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPacketCipherRoundTrip(t *testing.T) {
	key := testAESKey()
	iv := RoundKey{}.Expand()

	enc, err := NewPacketCipher(key, iv)
	require.NoError(t, err)

	for _, size := range []int{6, 1456, 1460, 4096} {
		data := make([]byte, size)
		for i := range data {
			data[i] = byte(i)
		}
		buf := append([]byte(nil), data...)
		enc.ApplyKeystream(buf)
		enc.ApplyKeystream(buf)
		require.Equal(t, data, buf, "size=%d", size)
	}
}

func TestPacketCipherSynchronizedOver100Packets(t *testing.T) {
	key := testAESKey()
	rk := RoundKey{1, 2, 3, 4}
	ig := NewIGContext(testShuffleTable(), 7)

	enc, err := NewPacketCipher(key, rk.Expand())
	require.NoError(t, err)
	dec, err := NewPacketCipher(key, rk.Expand())
	require.NoError(t, err)

	plain := []byte("abcdef")
	for i := 0; i < 100; i++ {
		buf := append([]byte(nil), plain...)
		enc.ApplyKeystream(buf)
		require.NotEqual(t, plain, buf)
		enc.UpdateRoundKeyIG(ig)

		dec.ApplyKeystream(buf)
		require.Equal(t, plain, buf)
		dec.UpdateRoundKeyIG(ig)

		require.Equal(t, enc.RoundKey(), dec.RoundKey())
	}
}
