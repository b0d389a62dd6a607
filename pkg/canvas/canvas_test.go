package canvas

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jon-zu/shroom-lib-sub000/pkg/wzcrypto"
)

func TestScalingFactor(t *testing.T) {
	require.Equal(t, uint32(1), Scale0.Factor())
	require.Equal(t, uint32(16), Scale4.Factor())
	require.Equal(t, uint32(64), Scale4.Scale(4))
	require.Equal(t, uint32(4), Scale4.Unscale(64))
}

func TestExpandRGBA8BGRA8(t *testing.T) {
	src := []byte{10, 20, 30, 255, 1, 2, 3, 4}
	out, err := ExpandRGBA8(PixelBGRA8, src, 2)
	require.NoError(t, err)
	require.Equal(t, []byte{30, 20, 10, 255, 3, 2, 1, 4}, out)
}

func TestExpandRGBA8BGR565FullWhite(t *testing.T) {
	src := []byte{0xFF, 0xFF}
	out, err := ExpandRGBA8(PixelBGR565, src, 1)
	require.NoError(t, err)
	require.Equal(t, []byte{0xFF, 0xFF, 0xFF, 0xFF}, out)
}

func TestExpandRGBA8DXTUnsupported(t *testing.T) {
	_, err := ExpandRGBA8(PixelDXT5, make([]byte, 8), 16)
	require.Error(t, err)
}

func testChunkKeyIV() (wzcrypto.AESKey, wzcrypto.IV) {
	var key wzcrypto.AESKey
	for i := range key {
		key[i] = byte(i * 5)
	}
	var iv wzcrypto.IV
	for i := range iv {
		iv[i] = byte(10 + i)
	}
	return key, iv
}

func TestWriteBMPRoundTrip(t *testing.T) {
	src := []byte{10, 20, 30, 255, 1, 2, 3, 4}
	rgba8, err := ExpandRGBA8(PixelBGRA8, src, 2)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteBMP(&buf, 2, 1, rgba8))

	out := buf.Bytes()
	require.GreaterOrEqual(t, len(out), 2)
	require.Equal(t, []byte("BM"), out[:2])
}

func TestChunkedRoundTrip(t *testing.T) {
	key, iv := testChunkKeyIV()
	data := bytes.Repeat([]byte{0xAB, 0xCD}, MaxChunkSize) // 2 chunks worth

	var buf bytes.Buffer
	require.NoError(t, WriteChunked(&buf, data, key, iv))

	totalLen := int64(buf.Len())
	got, err := ReadChunked(&buf, key, iv, totalLen)
	require.NoError(t, err)
	require.Equal(t, data, got)
}
