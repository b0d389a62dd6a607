package imgtree

import (
	"fmt"
	"io"

	"github.com/jon-zu/shroom-lib-sub000/pkg/canvas"
	"github.com/jon-zu/shroom-lib-sub000/pkg/shroomerr"
	"github.com/jon-zu/shroom-lib-sub000/pkg/sound"
	"github.com/jon-zu/shroom-lib-sub000/pkg/wireenc"
)

// Object type-string discriminators (spec §4.6, grounded on the six
// concrete object variants).
const (
	ObjTypeProperty = "Property"
	ObjTypeCanvas   = "Canvas"
	ObjTypeUOL      = "UOL"
	ObjTypeVector2D = "Shape2D#Vector2D"
	ObjTypeConvex2D = "Shape2D#Convex2D"
	ObjTypeSoundDX8 = "Sound_DX8"
)

// PropertyEntry is one named value inside a Property object.
type PropertyEntry struct {
	Name  string
	Value Value
}

// Property is the {unknown:u16, entries} object variant that carries most
// of an image's key/value tree.
type Property struct {
	Unknown uint16
	Entries []PropertyEntry
}

// Vector2D is a plain {x,y} varint pair.
type Vector2D struct {
	X, Y int32
}

// Convex2D is a varint-count-prefixed list of Vector2D points, each
// individually wrapped in a "Shape2D#Vector2D" type-string tag on the wire.
type Convex2D struct {
	Points []Vector2D
}

// Link is the UOL object variant: a single string pointing at another node
// in the archive tree.
type Link struct {
	Unknown byte
	Target  string
}

// Canvas is the bitmap object variant: a header, an optional embedded
// property sub-tree, and the raw (still compressed/encrypted) pixel blob.
type Canvas struct {
	Header   canvas.Header
	Property *Property
	Data     []byte
}

// Sound is the audio object variant, embedding the shared sound.Entry
// header plus the raw data bytes.
type Sound struct {
	Entry sound.Entry
	Data  []byte
}

// Object is a decoded image object node, tagged by which variant is set.
type Object struct {
	TypeName string
	Property *Property
	Canvas   *Canvas
	Link     *Link
	Vector2D *Vector2D
	Convex2D *Convex2D
	Sound    *Sound
}

func readVarIntAdapter(r io.Reader) (int32, error) { return wireenc.ReadVarInt(r) }

// ReadObject decodes one type-string-tagged object and dispatches to the
// matching variant reader (spec §4.6 "Object variants").
func ReadObject(r io.ReadSeeker, env *Env) (*Object, error) {
	typeName, err := readTypeString(r, env)
	if err != nil {
		return nil, err
	}

	obj := &Object{TypeName: typeName}
	switch typeName {
	case ObjTypeProperty:
		p, err := readProperty(r, env)
		if err != nil {
			return nil, err
		}
		obj.Property = p
	case ObjTypeCanvas:
		c, err := readCanvas(r, env)
		if err != nil {
			return nil, err
		}
		obj.Canvas = c
	case ObjTypeUOL:
		l, err := readLink(r, env)
		if err != nil {
			return nil, err
		}
		obj.Link = l
	case ObjTypeVector2D:
		v, err := readVector2D(r)
		if err != nil {
			return nil, err
		}
		obj.Vector2D = v
	case ObjTypeConvex2D:
		c, err := readConvex2D(r, env)
		if err != nil {
			return nil, err
		}
		obj.Convex2D = c
	case ObjTypeSoundDX8:
		s, err := readSound(r)
		if err != nil {
			return nil, err
		}
		obj.Sound = s
	default:
		return nil, fmt.Errorf("%w: object type=%q", shroomerr.ErrUnknownTag, typeName)
	}
	return obj, nil
}

// WriteObject encodes obj, writing its type-string tag followed by the
// variant body matching whichever field is populated.
func WriteObject(w io.WriteSeeker, env *Env, obj *Object) error {
	if err := writeTypeString(w, env, obj.TypeName); err != nil {
		return err
	}
	switch {
	case obj.Property != nil:
		return writeProperty(w, env, obj.Property)
	case obj.Canvas != nil:
		return writeCanvas(w, env, obj.Canvas)
	case obj.Link != nil:
		return writeLink(w, env, obj.Link)
	case obj.Vector2D != nil:
		return writeVector2D(w, *obj.Vector2D)
	case obj.Convex2D != nil:
		return writeConvex2D(w, env, obj.Convex2D)
	case obj.Sound != nil:
		return writeSound(w, obj.Sound)
	default:
		return fmt.Errorf("object %q has no populated variant", obj.TypeName)
	}
}

func readProperty(r io.ReadSeeker, env *Env) (*Property, error) {
	var unk [2]byte
	if _, err := io.ReadFull(r, unk[:]); err != nil {
		return nil, err
	}
	count, err := wireenc.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	entries := make([]PropertyEntry, 0, count)
	for i := int32(0); i < count; i++ {
		name, err := readImgString(r, env)
		if err != nil {
			return nil, err
		}
		val, err := ReadValue(r, env)
		if err != nil {
			return nil, err
		}
		entries = append(entries, PropertyEntry{Name: name, Value: val})
	}
	return &Property{Unknown: leUint16(unk), Entries: entries}, nil
}

func writeProperty(w io.WriteSeeker, env *Env, p *Property) error {
	if err := writeUint16(w, p.Unknown); err != nil {
		return err
	}
	if err := wireenc.WriteVarInt(w, int32(len(p.Entries))); err != nil {
		return err
	}
	for _, e := range p.Entries {
		if err := writeImgString(w, env, e.Name); err != nil {
			return err
		}
		if err := WriteValue(w, env, e.Value); err != nil {
			return err
		}
	}
	return nil
}

func readLink(r io.ReadSeeker, env *Env) (*Link, error) {
	var unk [1]byte
	if _, err := io.ReadFull(r, unk[:]); err != nil {
		return nil, err
	}
	target, err := readImgString(r, env)
	if err != nil {
		return nil, err
	}
	return &Link{Unknown: unk[0], Target: target}, nil
}

func writeLink(w io.WriteSeeker, env *Env, l *Link) error {
	if _, err := w.Write([]byte{l.Unknown}); err != nil {
		return err
	}
	return writeImgString(w, env, l.Target)
}

func readVector2D(r io.Reader) (*Vector2D, error) {
	x, err := wireenc.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	y, err := wireenc.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	return &Vector2D{X: x, Y: y}, nil
}

func writeVector2D(w io.Writer, v Vector2D) error {
	if err := wireenc.WriteVarInt(w, v.X); err != nil {
		return err
	}
	return wireenc.WriteVarInt(w, v.Y)
}

func readConvex2D(r io.ReadSeeker, env *Env) (*Convex2D, error) {
	count, err := wireenc.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	points := make([]Vector2D, 0, count)
	for i := int32(0); i < count; i++ {
		typeName, err := readTypeString(r, env)
		if err != nil {
			return nil, err
		}
		if typeName != ObjTypeVector2D {
			return nil, fmt.Errorf("%w: convex2d element type=%q", shroomerr.ErrBadHeader, typeName)
		}
		pt, err := readVector2D(r)
		if err != nil {
			return nil, err
		}
		points = append(points, *pt)
	}
	return &Convex2D{Points: points}, nil
}

func writeConvex2D(w io.WriteSeeker, env *Env, c *Convex2D) error {
	if err := wireenc.WriteVarInt(w, int32(len(c.Points))); err != nil {
		return err
	}
	for _, pt := range c.Points {
		if err := writeTypeString(w, env, ObjTypeVector2D); err != nil {
			return err
		}
		if err := writeVector2D(w, pt); err != nil {
			return err
		}
	}
	return nil
}

func readCanvas(r io.ReadSeeker, env *Env) (*Canvas, error) {
	var unk [1]byte
	if _, err := io.ReadFull(r, unk[:]); err != nil {
		return nil, err
	}
	var hasProp [1]byte
	if _, err := io.ReadFull(r, hasProp[:]); err != nil {
		return nil, err
	}

	var prop *Property
	if hasProp[0] == 1 {
		p, err := readProperty(r, env)
		if err != nil {
			return nil, err
		}
		prop = p
	}

	width, err := wireenc.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	height, err := wireenc.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	pixFmt, err := wireenc.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	var scaleB [1]byte
	if _, err := io.ReadFull(r, scaleB[:]); err != nil {
		return nil, err
	}
	var unk1 [4]byte
	if _, err := io.ReadFull(r, unk1[:]); err != nil {
		return nil, err
	}
	var lenB [4]byte
	if _, err := io.ReadFull(r, lenB[:]); err != nil {
		return nil, err
	}
	var unk2 [1]byte
	if _, err := io.ReadFull(r, unk2[:]); err != nil {
		return nil, err
	}

	dataLen := leUint32(lenB)
	hdr := canvas.Header{
		Width:       uint32(width),
		Height:      uint32(height),
		PixelFormat: canvas.PixelFormat(pixFmt),
		Scale:       canvas.Scaling(scaleB[0]),
		DataLen:     dataLen,
		HasProperty: hasProp[0] == 1,
	}

	blobLen := hdr.DataBlobLen()
	data := make([]byte, blobLen)
	if blobLen > 0 {
		if _, err := io.ReadFull(r, data); err != nil {
			return nil, err
		}
	}

	return &Canvas{Header: hdr, Property: prop, Data: data}, nil
}

func writeCanvas(w io.WriteSeeker, env *Env, c *Canvas) error {
	hasProp := byte(0)
	if c.Property != nil {
		hasProp = 1
	}
	if _, err := w.Write([]byte{0, hasProp}); err != nil {
		return err
	}
	if c.Property != nil {
		if err := writeProperty(w, env, c.Property); err != nil {
			return err
		}
	}
	if err := wireenc.WriteVarInt(w, int32(c.Header.Width)); err != nil {
		return err
	}
	if err := wireenc.WriteVarInt(w, int32(c.Header.Height)); err != nil {
		return err
	}
	if err := wireenc.WriteVarInt(w, int32(c.Header.PixelFormat)); err != nil {
		return err
	}
	if _, err := w.Write([]byte{byte(c.Header.Scale)}); err != nil {
		return err
	}
	if _, err := w.Write([]byte{0, 0, 0, 0}); err != nil { // unknown1
		return err
	}
	var lenB [4]byte
	putUint32(&lenB, uint32(len(c.Data)+1))
	if _, err := w.Write(lenB[:]); err != nil {
		return err
	}
	if _, err := w.Write([]byte{0}); err != nil { // unknown2
		return err
	}
	_, err := w.Write(c.Data)
	return err
}

func readSound(r io.ReadSeeker) (*Sound, error) {
	pos := func() (int64, error) { return r.Seek(0, io.SeekCurrent) }
	entry, err := sound.ReadEntry(r, pos, readVarIntAdapter)
	if err != nil {
		return nil, err
	}
	data := make([]byte, entry.DataSize)
	if entry.DataSize > 0 {
		if _, err := io.ReadFull(r, data); err != nil {
			return nil, err
		}
	}
	return &Sound{Entry: entry, Data: data}, nil
}

func writeSound(w io.WriteSeeker, s *Sound) error {
	if _, err := w.Write([]byte{0}); err != nil {
		return err
	}
	if err := wireenc.WriteVarInt(w, s.Entry.DataSize); err != nil {
		return err
	}
	if err := wireenc.WriteVarInt(w, s.Entry.LengthMS); err != nil {
		return err
	}
	if err := sound.WriteHeader(w, s.Entry.Header); err != nil {
		return err
	}
	_, err := w.Write(s.Data)
	return err
}
