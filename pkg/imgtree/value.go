// Package imgtree implements the image-value tree codec (C6): the tagged
// value discriminators and the Property/Canvas/Convex2D/Link(UOL)/Sound
// object variants, backed by the shared per-image string intern table.
package imgtree

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/hashicorp/go-hclog"

	"github.com/jon-zu/shroom-lib-sub000/pkg/shroomerr"
	"github.com/jon-zu/shroom-lib-sub000/pkg/shroomlog"
	"github.com/jon-zu/shroom-lib-sub000/pkg/strtable"
	"github.com/jon-zu/shroom-lib-sub000/pkg/wireenc"
	"github.com/jon-zu/shroom-lib-sub000/pkg/wzcrypto"
)

// Kind discriminates a Value's wire tag (spec §6 "tagged value enum").
// Short/Int each have two wire tags that decode identically; the reader
// keeps track of which one was used so a decoded tree re-encodes
// byte-for-byte.
type Kind byte

const (
	KindNull     Kind = 0
	KindShort    Kind = 2
	KindShortAlt Kind = 11
	KindInt      Kind = 3
	KindIntAlt   Kind = 19
	KindLong     Kind = 20
	KindFloat32  Kind = 4
	KindFloat64  Kind = 5
	KindString   Kind = 8
	KindObject   Kind = 9
)

// Value is a decoded image property value.
type Value struct {
	Kind  Kind
	Short int16
	Int   int32
	Long  int64
	F32   float32
	F64   float64
	Str   string
	Obj   *Object
}

func NullValue() Value                { return Value{Kind: KindNull} }
func ShortValue(v int16) Value        { return Value{Kind: KindShort, Short: v} }
func IntValue(v int32) Value          { return Value{Kind: KindInt, Int: v} }
func LongValue(v int64) Value         { return Value{Kind: KindLong, Long: v} }
func Float32Value(v float32) Value    { return Value{Kind: KindFloat32, F32: v} }
func Float64Value(v float64) Value    { return Value{Kind: KindFloat64, F64: v} }
func StringValue(s string) Value      { return Value{Kind: KindString, Str: s} }
func ObjectValue(o *Object) Value     { return Value{Kind: KindObject, Obj: o} }

// Env carries everything needed to decode/encode the string-bearing parts
// of a value tree: the per-image AES-OFB cache and the shared intern
// table (spec §4.4 "String intern table", §9 "per-image instances").
type Env struct {
	OFB   *wzcrypto.OFBCache
	Names *strtable.Table
	Log   hclog.Logger
}

func (e *Env) logger() hclog.Logger {
	if e.Log == nil {
		return shroomlog.Null()
	}
	return e.Log
}

func decodeImgString(env *Env) strtable.Decoder {
	return func(r io.Reader) (string, error) { return wireenc.ReadEncryptedString(r, env.OFB) }
}

func encodeImgString(env *Env) strtable.Encoder {
	return func(w io.Writer, s string) error { return wireenc.WriteEncryptedString(w, s, env.OFB) }
}

func decodeTypeString(env *Env) strtable.Decoder {
	return func(r io.Reader) (string, error) { return wireenc.ReadEncryptedString(r, env.OFB) }
}

func encodeTypeString(env *Env) strtable.Encoder {
	return func(w io.Writer, s string) error { return wireenc.WriteEncryptedString(w, s, env.OFB) }
}

func readImgString(r io.ReadSeeker, env *Env) (string, error) {
	pos, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return "", err
	}
	return env.Names.ReadTagged(r, pos, strtable.TagImageInline, strtable.TagImageBackref, decodeImgString(env))
}

func writeImgString(w io.WriteSeeker, env *Env, s string) error {
	pos, err := w.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}
	return env.Names.WriteTagged(w, pos, strtable.TagImageInline, strtable.TagImageBackref, s, encodeImgString(env))
}

func readTypeString(r io.ReadSeeker, env *Env) (string, error) {
	pos, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return "", err
	}
	return env.Names.ReadTagged(r, pos, strtable.TagTypeInline, strtable.TagTypeBackref, decodeTypeString(env))
}

func writeTypeString(w io.WriteSeeker, env *Env, s string) error {
	pos, err := w.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}
	return env.Names.WriteTagged(w, pos, strtable.TagTypeInline, strtable.TagTypeBackref, s, encodeTypeString(env))
}

// ReadValue decodes one tagged value.
func ReadValue(r io.ReadSeeker, env *Env) (Value, error) {
	var tagb [1]byte
	if _, err := io.ReadFull(r, tagb[:]); err != nil {
		return Value{}, err
	}
	kind := Kind(tagb[0])

	switch kind {
	case KindNull:
		return NullValue(), nil
	case KindShort, KindShortAlt:
		var buf [2]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return Value{}, err
		}
		return Value{Kind: kind, Short: int16(binary.LittleEndian.Uint16(buf[:]))}, nil
	case KindInt, KindIntAlt:
		v, err := wireenc.ReadVarInt(r)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: kind, Int: v}, nil
	case KindLong:
		v, err := wireenc.ReadVarLong(r)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: kind, Long: v}, nil
	case KindFloat32:
		bits, err := wireenc.ReadVarInt(r)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: kind, F32: math.Float32frombits(uint32(bits))}, nil
	case KindFloat64:
		var buf [8]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return Value{}, err
		}
		return Value{Kind: kind, F64: math.Float64frombits(binary.LittleEndian.Uint64(buf[:]))}, nil
	case KindString:
		s, err := readImgString(r, env)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: kind, Str: s}, nil
	case KindObject:
		var lenBuf [4]byte
		if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
			return Value{}, err
		}
		ln := int64(binary.LittleEndian.Uint32(lenBuf[:]))
		start, err := r.Seek(0, io.SeekCurrent)
		if err != nil {
			return Value{}, err
		}
		obj, err := ReadObject(r, env)
		if err != nil {
			return Value{}, err
		}
		// Seek to the declared end so any bytes the object reader did not
		// consume are skipped (spec §6 "back-patched length").
		if _, err := r.Seek(start+ln, io.SeekStart); err != nil {
			return Value{}, err
		}
		return Value{Kind: kind, Obj: obj}, nil
	default:
		return Value{}, fmt.Errorf("%w: value tag=0x%02x", shroomerr.ErrUnknownTag, tagb[0])
	}
}

// WriteValue encodes v, back-patching the object length placeholder for
// KindObject values.
func WriteValue(w io.WriteSeeker, env *Env, v Value) error {
	kind := v.Kind
	if kind == 0 && v.Obj != nil {
		kind = KindObject
	}

	switch kind {
	case KindNull:
		_, err := w.Write([]byte{byte(KindNull)})
		return err
	case KindShort, KindShortAlt:
		tag := kind
		if tag == 0 {
			tag = KindShort
		}
		var buf [3]byte
		buf[0] = byte(tag)
		binary.LittleEndian.PutUint16(buf[1:], uint16(v.Short))
		_, err := w.Write(buf[:])
		return err
	case KindInt, KindIntAlt:
		tag := kind
		if tag == 0 {
			tag = KindInt
		}
		if _, err := w.Write([]byte{byte(tag)}); err != nil {
			return err
		}
		return wireenc.WriteVarInt(w, v.Int)
	case KindLong:
		if _, err := w.Write([]byte{byte(KindLong)}); err != nil {
			return err
		}
		return wireenc.WriteVarLong(w, v.Long)
	case KindFloat32:
		if _, err := w.Write([]byte{byte(KindFloat32)}); err != nil {
			return err
		}
		return wireenc.WriteVarInt(w, int32(math.Float32bits(v.F32)))
	case KindFloat64:
		if _, err := w.Write([]byte{byte(KindFloat64)}); err != nil {
			return err
		}
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v.F64))
		_, err := w.Write(buf[:])
		return err
	case KindString:
		if _, err := w.Write([]byte{byte(KindString)}); err != nil {
			return err
		}
		return writeImgString(w, env, v.Str)
	case KindObject:
		if _, err := w.Write([]byte{byte(KindObject)}); err != nil {
			return err
		}
		// Placeholder length, back-patched below.
		if _, err := w.Write([]byte{0, 0, 0, 0}); err != nil {
			return err
		}
		start, err := w.Seek(0, io.SeekCurrent)
		if err != nil {
			return err
		}
		if err := WriteObject(w, env, v.Obj); err != nil {
			return err
		}
		end, err := w.Seek(0, io.SeekCurrent)
		if err != nil {
			return err
		}
		if _, err := w.Seek(start-4, io.SeekStart); err != nil {
			return err
		}
		var lb [4]byte
		binary.LittleEndian.PutUint32(lb[:], uint32(end-start))
		if _, err := w.Write(lb[:]); err != nil {
			return err
		}
		env.logger().Trace("object length back-patched", "type", v.Obj.TypeName, "length", end-start)
		_, err = w.Seek(end, io.SeekStart)
		return err
	default:
		return fmt.Errorf("unknown value kind %d", kind)
	}
}
