package imgtree

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jon-zu/shroom-lib-sub000/pkg/strtable"
	"github.com/jon-zu/shroom-lib-sub000/pkg/wzcrypto"
)

func testEnv(t *testing.T) *Env {
	t.Helper()
	var key wzcrypto.AESKey
	for i := range key {
		key[i] = byte(i * 3)
	}
	var iv wzcrypto.IV
	for i := range iv {
		iv[i] = byte(i + 1)
	}
	ofb, err := wzcrypto.NewOFBCache(key, iv, 16)
	require.NoError(t, err)
	return &Env{OFB: ofb, Names: strtable.New()}
}

func TestValueRoundTripScalars(t *testing.T) {
	env := testEnv(t)
	values := []Value{
		NullValue(),
		ShortValue(-1234),
		IntValue(987654),
		LongValue(-1 << 40),
		Float32Value(3.25),
		Float64Value(-2.5e10),
		StringValue("a string long enough to intern"),
	}
	for _, v := range values {
		buf := NewSeekBuffer()
		require.NoError(t, WriteValue(buf, env, v))

		readEnv := &Env{OFB: env.OFB, Names: strtable.New()}
		got, err := ReadValue(bytesSeeker(buf.Bytes()), readEnv)
		require.NoError(t, err)
		require.Equal(t, v.Kind, got.Kind)
		switch v.Kind {
		case KindShort:
			require.Equal(t, v.Short, got.Short)
		case KindInt:
			require.Equal(t, v.Int, got.Int)
		case KindLong:
			require.Equal(t, v.Long, got.Long)
		case KindFloat32:
			require.Equal(t, v.F32, got.F32)
		case KindFloat64:
			require.Equal(t, v.F64, got.F64)
		case KindString:
			require.Equal(t, v.Str, got.Str)
		}
	}
}

func TestPropertyRoundTrip(t *testing.T) {
	env := testEnv(t)
	prop := &Property{
		Unknown: 0,
		Entries: []PropertyEntry{
			{Name: "first property entry name", Value: IntValue(42)},
			{Name: "second property entry name", Value: StringValue("a sufficiently long string value")},
		},
	}

	buf := NewSeekBuffer()
	require.NoError(t, writeProperty(buf, env, prop))

	readEnv := &Env{OFB: env.OFB, Names: strtable.New()}
	got, err := readProperty(bytesSeeker(buf.Bytes()), readEnv)
	require.NoError(t, err)
	require.Equal(t, prop.Unknown, got.Unknown)
	require.Len(t, got.Entries, 2)
	require.Equal(t, prop.Entries[0].Name, got.Entries[0].Name)
	require.Equal(t, prop.Entries[1].Name, got.Entries[1].Name)
	require.Equal(t, int32(42), got.Entries[0].Value.Int)
	require.Equal(t, "a sufficiently long string value", got.Entries[1].Value.Str)
}

func TestConvex2DRoundTrip(t *testing.T) {
	env := testEnv(t)
	c := &Convex2D{Points: []Vector2D{{X: 1, Y: 2}, {X: -3, Y: 4}}}

	buf := NewSeekBuffer()
	require.NoError(t, writeConvex2D(buf, env, c))

	readEnv := &Env{OFB: env.OFB, Names: strtable.New()}
	got, err := readConvex2D(bytesSeeker(buf.Bytes()), readEnv)
	require.NoError(t, err)
	require.Equal(t, c.Points, got.Points)
}

func TestLinkObjectRoundTrip(t *testing.T) {
	env := testEnv(t)
	obj := &Object{TypeName: ObjTypeUOL, Link: &Link{Unknown: 0, Target: "some/long/link/target/path"}}

	buf := NewSeekBuffer()
	require.NoError(t, WriteObject(buf, env, obj))

	readEnv := &Env{OFB: env.OFB, Names: strtable.New()}
	got, err := ReadObject(bytesSeeker(buf.Bytes()), readEnv)
	require.NoError(t, err)
	require.Equal(t, ObjTypeUOL, got.TypeName)
	require.NotNil(t, got.Link)
	require.Equal(t, obj.Link.Target, got.Link.Target)
}

func TestChunkedCanvasHeuristic(t *testing.T) {
	require.True(t, isChunkedCanvas([]byte{0x00, 0x00}))
	require.True(t, isChunkedCanvas(nil))
	require.False(t, isChunkedCanvas([]byte{0x78, 0x01}))
	require.True(t, isChunkedCanvas([]byte{0x78, 0x20}))
}

// bytesSeeker adapts a []byte into an io.ReadSeeker for tests.
type bytesSeekerT struct {
	data []byte
	pos  int
}

func bytesSeeker(data []byte) *bytesSeekerT { return &bytesSeekerT{data: data} }

func (b *bytesSeekerT) Read(p []byte) (int, error) {
	if b.pos >= len(b.data) {
		return 0, io.EOF
	}
	n := copy(p, b.data[b.pos:])
	b.pos += n
	return n, nil
}

func (b *bytesSeekerT) Seek(offset int64, whence int) (int64, error) {
	var newPos int64
	switch whence {
	case 0:
		newPos = offset
	case 1:
		newPos = int64(b.pos) + offset
	case 2:
		newPos = int64(len(b.data)) + offset
	}
	b.pos = int(newPos)
	return newPos, nil
}
