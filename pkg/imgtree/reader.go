package imgtree

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hashicorp/go-hclog"

	"github.com/jon-zu/shroom-lib-sub000/pkg/canvas"
	"github.com/jon-zu/shroom-lib-sub000/pkg/shroomerr"
	"github.com/jon-zu/shroom-lib-sub000/pkg/shroomlog"
	"github.com/jon-zu/shroom-lib-sub000/pkg/strtable"
	"github.com/jon-zu/shroom-lib-sub000/pkg/wzcrypto"
)

// Img is a fully decoded top-level image: the root Property object plus the
// environment (intern table, AES-OFB cache) used to decode it, retained so
// canvas/sound payload bytes can be re-decoded lazily.
type Img struct {
	Root *Property
	Env  *Env
}

// ReadImg decodes an image's root object, which is always a bare Property
// (no type-string wrapper at the top level; the wrapper only appears on
// nested objects (spec §4.6 "image root")). log may be nil.
func ReadImg(r io.ReadSeeker, ofb *wzcrypto.OFBCache, log hclog.Logger) (*Img, error) {
	env := &Env{OFB: ofb, Names: strtable.New(), Log: shroomlog.OrNull(log)}
	root, err := readProperty(r, env)
	if err != nil {
		return nil, err
	}
	env.Log.Trace("image root property decoded", "entries", len(root.Entries))
	return &Img{Root: root, Env: env}, nil
}

// WriteImg encodes img back out in the same root-Property layout ReadImg
// expects.
func WriteImg(w io.WriteSeeker, img *Img) error {
	return writeProperty(w, img.Env, img.Root)
}

// isChunkedCanvas peeks the first two bytes of a canvas pixel blob and
// applies the zlib-stream heuristic: data is treated as a single plain
// zlib/deflate stream only when it starts with the zlib magic byte (0x78)
// and does NOT set the FDICT "preset dictionary" bit; anything else is
// assumed to be the chunked-and-individually-encrypted framing (spec §4.6
// "chunked-vs-plain heuristic").
func isChunkedCanvas(data []byte) bool {
	if len(data) < 2 {
		return true
	}
	hdr := binary.LittleEndian.Uint16(data[:2])
	isZlibMagic := hdr&0xFF == 0x78
	hasPreset := hdr&(1<<13) != 0
	return !isZlibMagic || hasPreset
}

// DecodePixels returns c's decompressed, decrypted source pixel bytes
// (still in c.Header.PixelFormat; callers use canvas.ExpandRGBA8 to widen
// to RGBA8). key/iv are the archive's per-image AES-OFB parameters, reused
// for chunked canvases exactly as the string/value codec reuses them.
func DecodePixels(c *Canvas, key wzcrypto.AESKey, iv wzcrypto.IV) ([]byte, error) {
	if len(c.Data) == 0 {
		return nil, nil
	}

	stream := c.Data
	if isChunkedCanvas(c.Data) {
		plain, err := canvas.ReadChunked(bytes.NewReader(c.Data), key, iv, int64(len(c.Data)))
		if err != nil {
			return nil, err
		}
		stream = plain
	}

	zr, err := zlib.NewReader(bytes.NewReader(stream))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shroomerr.ErrDecompressFailed, err)
	}
	defer zr.Close()
	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shroomerr.ErrDecompressFailed, err)
	}
	return out, nil
}
