package imgtree

import "io"

// SeekBuffer is a minimal in-memory io.Writer + io.Seeker, needed because
// bytes.Buffer alone cannot back-patch an already-written object length
// (spec §4.6 "back-patching writer"). It grows on writes past its current
// end and overwrites in place otherwise, mirroring bytes.Buffer's growth
// behavior.
type SeekBuffer struct {
	data []byte
	pos  int
}

// NewSeekBuffer returns an empty SeekBuffer.
func NewSeekBuffer() *SeekBuffer {
	return &SeekBuffer{}
}

func (b *SeekBuffer) Write(p []byte) (int, error) {
	end := b.pos + len(p)
	if end > len(b.data) {
		grown := make([]byte, end)
		copy(grown, b.data)
		b.data = grown
	}
	copy(b.data[b.pos:end], p)
	b.pos = end
	return len(p), nil
}

// Seek implements io.Seeker; only io.SeekStart and io.SeekCurrent are used
// by the image-tree writer.
func (b *SeekBuffer) Seek(offset int64, whence int) (int64, error) {
	var newPos int64
	switch whence {
	case io.SeekStart:
		newPos = offset
	case io.SeekCurrent:
		newPos = int64(b.pos) + offset
	case io.SeekEnd:
		newPos = int64(len(b.data)) + offset
	default:
		return 0, io.ErrClosedPipe
	}
	if newPos < 0 {
		return 0, io.ErrClosedPipe
	}
	b.pos = int(newPos)
	return newPos, nil
}

// Bytes returns the buffer's current contents.
func (b *SeekBuffer) Bytes() []byte { return b.data }
