package wzcrypto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestShandaRoundTrip(t *testing.T) {
	data := []byte("abcdef")
	enc := append([]byte(nil), data...)
	ShandaEncrypt(enc)
	require.NotEqual(t, data, enc)

	dec := append([]byte(nil), enc...)
	ShandaDecrypt(dec)
	require.Equal(t, data, dec)
}

func TestShandaRoundTripVariousLengths(t *testing.T) {
	for n := 0; n < 64; n++ {
		data := make([]byte, n)
		for i := range data {
			data[i] = byte(i * 7)
		}
		buf := append([]byte(nil), data...)
		ShandaEncrypt(buf)
		ShandaDecrypt(buf)
		require.Equal(t, data, buf)
	}
}
