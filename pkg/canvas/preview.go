package canvas

import (
	"image"
	"image/color"
	"io"

	"golang.org/x/image/bmp"
)

// WriteBMP renders an expanded RGBA8 buffer to w as a BMP file, as a
// debug/preview convenience — it is not part of the archive wire format
// and never participates in decoding a source image.
func WriteBMP(w io.Writer, width, height int, rgba8 []byte) error {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := (y*width + x) * 4
			img.SetNRGBA(x, y, color.NRGBA{R: rgba8[i], G: rgba8[i+1], B: rgba8[i+2], A: rgba8[i+3]})
		}
	}
	return bmp.Encode(w, img)
}
