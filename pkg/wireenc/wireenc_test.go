package wireenc

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jon-zu/shroom-lib-sub000/pkg/wzcrypto"
)

func testOFBCache(t *testing.T) *wzcrypto.OFBCache {
	t.Helper()
	var key wzcrypto.AESKey
	for i := range key {
		key[i] = byte(i * 3)
	}
	var iv wzcrypto.IV
	for i := range iv {
		iv[i] = byte(100 + i)
	}
	cache, err := wzcrypto.NewOFBCache(key, iv, 32)
	require.NoError(t, err)
	return cache
}

func TestVarIntRoundTrip(t *testing.T) {
	values := []int32{0, 1, -1, 126, 127, -126, -127, -128, 128, -129, math.MaxInt32, math.MinInt32}
	for _, v := range values {
		var buf bytes.Buffer
		require.NoError(t, WriteVarInt(&buf, v))
		got, err := ReadVarInt(&buf)
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestVarLongRoundTrip(t *testing.T) {
	values := []int64{0, 1, -1, 126, 127, -127, -128, 128, math.MaxInt64, math.MinInt64}
	for _, v := range values {
		var buf bytes.Buffer
		require.NoError(t, WriteVarLong(&buf, v))
		got, err := ReadVarLong(&buf)
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestEncryptedStringRoundTripLatin1(t *testing.T) {
	cases := []string{"", "a", "hello", "a long enough latin1 string to leave the single-byte length form"}
	for _, s := range cases {
		ofbW := testOFBCache(t)
		var buf bytes.Buffer
		require.NoError(t, WriteEncryptedString(&buf, s, ofbW))

		ofbR := testOFBCache(t)
		got, err := ReadEncryptedString(&buf, ofbR)
		require.NoError(t, err)
		require.Equal(t, s, got)
	}
}

func TestEncryptedStringRoundTripUTF16(t *testing.T) {
	cases := []string{"héllo", "日本語のテキスト", "emoji 🎮 text", ""}
	for _, s := range cases {
		ofbW := testOFBCache(t)
		var buf bytes.Buffer
		require.NoError(t, WriteEncryptedString(&buf, s, ofbW))

		ofbR := testOFBCache(t)
		got, err := ReadEncryptedString(&buf, ofbR)
		require.NoError(t, err)
		require.Equal(t, s, got)
	}
}

func TestEncryptedStringLongForm(t *testing.T) {
	long := make([]rune, 200)
	for i := range long {
		long[i] = 'x'
	}
	s := string(long)

	ofbW := testOFBCache(t)
	var buf bytes.Buffer
	require.NoError(t, WriteEncryptedString(&buf, s, ofbW))

	ofbR := testOFBCache(t)
	got, err := ReadEncryptedString(&buf, ofbR)
	require.NoError(t, err)
	require.Equal(t, s, got)
}
