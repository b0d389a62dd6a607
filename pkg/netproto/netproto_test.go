package netproto

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jon-zu/shroom-lib-sub000/pkg/wzcrypto"
)

func testKeyAndIG(t *testing.T) (wzcrypto.AESKey, *wzcrypto.IGContext) {
	t.Helper()
	var key wzcrypto.AESKey
	for i := range key {
		key[i] = byte(i * 7)
	}
	var shuffle wzcrypto.ShuffleTable
	for i := range shuffle {
		shuffle[i] = byte(255 - i)
	}
	return key, wzcrypto.NewIGContext(shuffle, 0xCAFEBABE)
}

func TestCipherEncryptDecryptRoundTrip(t *testing.T) {
	key, ig := testKeyAndIG(t)
	var iv wzcrypto.IV
	for i := range iv {
		iv[i] = byte(i)
	}

	send, err := NewCipher(CryptAll, key, iv, ig, 83, nil)
	require.NoError(t, err)
	recv, err := NewCipher(CryptAll, key, iv, ig, 83, nil)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		plain := bytes.Repeat([]byte{byte(i + 1)}, 100)
		buf := append([]byte(nil), plain...)

		hdr := send.EncodeHeader(uint16(len(buf)))
		send.Encrypt(buf)

		length, err := recv.DecodeHeader(hdr)
		require.NoError(t, err)
		require.Equal(t, uint16(len(plain)), length)

		recv.Decrypt(buf)
		require.Equal(t, plain, buf)
		require.Equal(t, send.RoundKey(), recv.RoundKey())
	}
}

func TestCipherNoCryptPassesThrough(t *testing.T) {
	key, ig := testKeyAndIG(t)
	var iv wzcrypto.IV
	c, err := NewCipher(CryptNone, key, iv, ig, 1, nil)
	require.NoError(t, err)

	plain := []byte("no crypt stage applied at all")
	buf := append([]byte(nil), plain...)
	c.Encrypt(buf)
	require.Equal(t, plain, buf)

	hdr := c.EncodeHeader(uint16(len(buf)))
	length, err := c.DecodeHeader(hdr)
	require.NoError(t, err)
	require.Equal(t, uint16(len(buf)), length)
}

func TestHandshakeRoundTrip(t *testing.T) {
	h, encKey, decKey, err := NewHandshake(95, "1", 8)
	require.NoError(t, err)
	_ = encKey
	_ = decKey

	var buf bytes.Buffer
	require.NoError(t, h.Encode(&buf))
	require.LessOrEqual(t, buf.Len(), MaxHandshakeLen+2)

	got, err := DecodeHandshake(&buf)
	require.NoError(t, err)
	require.Equal(t, h.Version, got.Version)
	require.Equal(t, h.Subversion, got.Subversion)
	require.Equal(t, h.IVEncrypt, got.IVEncrypt)
	require.Equal(t, h.IVDecrypt, got.IVDecrypt)
	require.Equal(t, h.Locale, got.Locale)
}

func TestHandshakeRejectsOversizedLength(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0xFF, 0x00}) // declares a 255-byte body
	_, err := DecodeHandshake(&buf)
	require.Error(t, err)
}
