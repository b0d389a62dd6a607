package wzcrypto

import "testing"

import "github.com/stretchr/testify/require"

func TestVersionHashAndEncrypt(t *testing.T) {
	v := Version(95)
	require.Equal(t, uint32(1910), v.Hash())
	require.Equal(t, uint16(142), v.Encrypt())
}

func TestVersionInvert(t *testing.T) {
	require.Equal(t, int16(-96), int16(Version(95).Invert()))
	require.Equal(t, int16(-84), int16(Version(83).Invert()))
}
