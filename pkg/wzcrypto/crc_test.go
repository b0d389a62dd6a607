package wzcrypto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGameCRC32LiteralVectors(t *testing.T) {
	require.Equal(t, uint32(367474251), NewGameDigestWith(148854160).UpdateString("sp").Finalize())
	require.Equal(t, uint32(0xC36FDB97), NewGameDigest().UpdateUint32(95).Finalize())
	require.Equal(t, uint32(954028113), NewGameDigest().UpdateUint32(270).Finalize())
}
