package wzcrypto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPacketHeaderRoundTrip(t *testing.T) {
	key1 := RoundKey{82, 48, 120, 232}
	key2 := RoundKey{82, 48, 120, 89}

	cases := []struct {
		length uint16
		key    RoundKey
		ver    uint16
	}{
		{44, key1, uint16(int16(-66))},
		{2, RoundKey{70, 114, 122, 210}, 83},
		{24, key2, uint16(int16(-84))},
		{627, key1, uint16(int16(-84))},
	}

	for _, tc := range cases {
		hdr := EncodeHeader(tc.key, tc.length, tc.ver)
		got, err := DecodeHeader(hdr, tc.key, tc.ver)
		require.NoError(t, err)
		require.Equal(t, tc.length, got)
	}
}

func TestPacketHeaderBadKeyRejected(t *testing.T) {
	hdr := EncodeHeader(RoundKey{1, 2, 3, 4}, 44, 95)
	_, err := DecodeHeader(hdr, RoundKey{1, 2, 3, 5}, 95)
	require.Error(t, err)
}

func TestPacketHeaderNoCryptRoundTrip(t *testing.T) {
	hdr := EncodeHeaderNoCrypt(1337)
	require.Equal(t, uint16(1337), DecodeHeaderNoCrypt(hdr))
}
