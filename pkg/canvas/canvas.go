// Package canvas implements the canvas payload half of C7: the pixel
// format enum, scaling factor and RGBA8 expansion rules for decoded
// bitmap data, plus chunked pixel-stream framing.
package canvas

import (
	"fmt"

	"github.com/jon-zu/shroom-lib-sub000/pkg/shroomerr"
)

// PixelFormat is the on-disk bitmap pixel encoding (spec §4.6).
type PixelFormat uint16

const (
	PixelBGRA4  PixelFormat = 1
	PixelBGRA8  PixelFormat = 2
	PixelBGR565 PixelFormat = 0x201
	PixelDXT3   PixelFormat = 0x402
	PixelDXT5   PixelFormat = 0x802
)

// PixelSize returns the source pixel size in bytes (0 for block-compressed
// formats, which are handled per 4x4 block rather than per pixel).
func (f PixelFormat) PixelSize() int {
	switch f {
	case PixelBGRA4, PixelBGR565:
		return 2
	case PixelBGRA8:
		return 4
	case PixelDXT3, PixelDXT5:
		return 0
	default:
		return 0
	}
}

// Scaling is the canvas's power-of-two downscale factor relative to its
// stored source pixels.
type Scaling uint8

const (
	Scale0 Scaling = 0
	Scale4 Scaling = 4
)

// Factor returns 2^scaling.
func (s Scaling) Factor() uint32 { return 1 << uint32(s) }

// Scale multiplies v by the scaling factor.
func (s Scaling) Scale(v uint32) uint32 { return v * s.Factor() }

// Unscale divides v by the scaling factor.
func (s Scaling) Unscale(v uint32) uint32 { return v / s.Factor() }

// Header is the decoded canvas header (spec §4.6 "Canvas header"); the
// optional embedded property sub-tree is left to the image-tree reader
// since it reuses the general value codec.
type Header struct {
	Width, Height uint32
	PixelFormat   PixelFormat
	Scale         Scaling
	DataLen       uint32 // on-disk length field: pixel blob length plus the 1-byte pad that precedes it
	HasProperty   bool
}

// ImgPixels is the pixel count of the unscaled source bitmap.
func (h Header) ImgPixels() uint32 { return h.Scale.Unscale(h.Width) * h.Scale.Unscale(h.Height) }

// ImgDataSize is the decompressed source bitmap size in bytes.
func (h Header) ImgDataSize() int {
	if sz := h.PixelFormat.PixelSize(); sz > 0 {
		return int(h.ImgPixels()) * sz
	}
	// DXT3/DXT5 are encoded per 4x4 block; callers decompress directly.
	return 0
}

// DataBlobLen is the compressed blob length: the on-disk length field
// minus the one pad byte that sits between the field and the blob.
func (h Header) DataBlobLen() int {
	if h.DataLen == 0 {
		return 0
	}
	return int(h.DataLen) - 1
}

// ExpandRGBA8 converts decompressed source pixel bytes in format into a
// tightly packed RGBA8 buffer (spec §4.6 "RGBA8 expansion rules"). DXT3/DXT5
// are not expanded here: the spec's Non-goal excludes writing a block
// decompressor, so those formats return shroomerr.ErrDecompressFailed to
// signal "needs an external decompressor".
func ExpandRGBA8(format PixelFormat, src []byte, pixels int) ([]byte, error) {
	switch format {
	case PixelBGRA8:
		if len(src) < pixels*4 {
			return nil, fmt.Errorf("%w: short BGRA8 buffer", shroomerr.ErrDecompressFailed)
		}
		out := make([]byte, pixels*4)
		for i := 0; i < pixels; i++ {
			b, g, r, a := src[i*4], src[i*4+1], src[i*4+2], src[i*4+3]
			out[i*4] = r
			out[i*4+1] = g
			out[i*4+2] = b
			out[i*4+3] = a
		}
		return out, nil
	case PixelBGRA4:
		if len(src) < pixels*2 {
			return nil, fmt.Errorf("%w: short BGRA4 buffer", shroomerr.ErrDecompressFailed)
		}
		out := make([]byte, pixels*4)
		for i := 0; i < pixels; i++ {
			lo, hi := src[i*2], src[i*2+1]
			b := lo & 0x0F
			g := lo >> 4
			r := hi & 0x0F
			a := hi >> 4
			out[i*4] = r*16 | r
			out[i*4+1] = g*16 | g
			out[i*4+2] = b*16 | b
			out[i*4+3] = a*16 | a
		}
		return out, nil
	case PixelBGR565:
		if len(src) < pixels*2 {
			return nil, fmt.Errorf("%w: short BGR565 buffer", shroomerr.ErrDecompressFailed)
		}
		out := make([]byte, pixels*4)
		for i := 0; i < pixels; i++ {
			v := uint16(src[i*2]) | uint16(src[i*2+1])<<8
			r5 := byte(v>>11) & 0x1F
			g6 := byte(v>>5) & 0x3F
			b5 := byte(v) & 0x1F
			out[i*4] = r5<<3 | r5>>2
			out[i*4+1] = g6<<2 | g6>>4
			out[i*4+2] = b5<<3 | b5>>2
			out[i*4+3] = 0xFF
		}
		return out, nil
	case PixelDXT3, PixelDXT5:
		return nil, fmt.Errorf("%w: block-compressed formats require an external decompressor", shroomerr.ErrDecompressFailed)
	default:
		return nil, fmt.Errorf("%w: pixel format 0x%x", shroomerr.ErrUnknownTag, format)
	}
}
