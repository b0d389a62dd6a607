package archive

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jon-zu/shroom-lib-sub000/pkg/wzcrypto"
)

func TestHeaderRoundTrip(t *testing.T) {
	h := Header{FileSize: 123456, DataOffset: 60, Description: "Package file v1.0 Copyright 2002 Wizet, ZMS"}
	var buf bytes.Buffer
	require.NoError(t, WriteHeader(&buf, h))

	got, err := ReadHeader(&buf)
	require.NoError(t, err)
	require.Equal(t, h, got)
}

func TestReadHeaderBadMagic(t *testing.T) {
	buf := bytes.NewBufferString("NOPE....")
	_, err := ReadHeader(buf)
	require.Error(t, err)
}

func testListOFB(t *testing.T) *wzcrypto.OFBCache {
	t.Helper()
	var key wzcrypto.AESKey
	for i := range key {
		key[i] = byte(i + 7)
	}
	var iv wzcrypto.IV
	for i := range iv {
		iv[i] = byte(50 + i)
	}
	cache, err := wzcrypto.NewOFBCache(key, iv, 64)
	require.NoError(t, err)
	return cache
}

func TestListEntryRoundTrip(t *testing.T) {
	names := []string{"Map.img", "Character/00002000.img", "a"}
	for _, n := range names {
		var buf bytes.Buffer
		require.NoError(t, WriteListEntry(&buf, ListEntry(n), testListOFB(t)))

		got, err := ReadListEntry(&buf, testListOFB(t))
		require.NoError(t, err)
		require.Equal(t, ListEntry(n), got)
	}
}

func TestListRoundTripAndSet(t *testing.T) {
	list := List{"Map.img", "Skill.img", "Item/Consume.img"}

	var buf bytes.Buffer
	require.NoError(t, WriteList(&buf, list, testListOFB(t)))

	got, err := ReadList(&buf, testListOFB(t))
	require.NoError(t, err)
	require.ElementsMatch(t, list, got)

	set := NewSetFromList(got)
	require.True(t, set.Contains("map.img"))
	require.True(t, set.Contains("MAP.IMG"))
	require.False(t, set.Contains("missing.img"))
}

func TestChecksumWrappingSum(t *testing.T) {
	data := make([]byte, 1000)
	for i := range data {
		data[i] = byte(i)
	}
	sum, err := Checksum(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	var want int32
	for _, b := range data {
		want += int32(b)
	}
	require.Equal(t, want, sum)
}
