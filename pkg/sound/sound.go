package sound

import (
	"fmt"
	"io"

	"github.com/jon-zu/shroom-lib-sub000/pkg/shroomerr"
)

// Header is a decoded sound payload header: either a bare MPEG-1 stream
// (no further framing) or a DirectShow wave header wrapping PCM/MP3 data.
type Header struct {
	Wave *WaveHeader // nil for Mpeg1
}

// HeaderSize returns the total in-memory size of the DirectShow media
// header plus any wave-specific tail.
func (h Header) HeaderSize() int {
	size := MediaHeaderSize
	if h.Wave != nil {
		size += h.Wave.headerSize() + 1 // +1: wave header length byte
	}
	return size
}

func (h Header) mediaHeader() MediaHeader {
	if h.Wave == nil {
		return MediaHeader{
			HeaderType: SoundHeaderMpeg1,
			MajorType:  MediaTypeStream,
			SubType:    MediaSubtypeMpeg1Audio,
			U1:         true,
			U2:         true,
			FormatType: NilGUID,
		}
	}
	return MediaHeader{
		HeaderType: SoundHeaderWave,
		MajorType:  MediaTypeStream,
		SubType:    MediaSubtypeWave,
		U1:         false,
		U2:         true,
		FormatType: WMFormatWaveFormatEx,
	}
}

// ReadHeader decodes a sound header: a fixed DirectShow media header,
// followed (for wave sounds) by a length-prefixed wave format block (spec
// §4.6 "sound header variants").
func ReadHeader(r io.Reader) (Header, error) {
	mh, err := readMediaHeader(r)
	if err != nil {
		return Header{}, err
	}
	if mh.MajorType != MediaTypeStream {
		return Header{}, fmt.Errorf("%w: unsupported sound major type", shroomerr.ErrBadHeader)
	}

	switch mh.SubType {
	case MediaSubtypeMpeg1Audio:
		return Header{}, nil
	case MediaSubtypeWave:
		var lenBuf [1]byte
		if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
			return Header{}, err
		}
		buf := make([]byte, lenBuf[0])
		if _, err := io.ReadFull(r, buf); err != nil {
			return Header{}, err
		}
		wav, err := ReadWaveHeader(buf)
		if err != nil {
			return Header{}, err
		}
		return Header{Wave: &wav}, nil
	default:
		return Header{}, fmt.Errorf("%w: unsupported sound sub type", shroomerr.ErrBadHeader)
	}
}

// WriteHeader encodes h.
func WriteHeader(w io.Writer, h Header) error {
	if err := writeMediaHeader(w, h.mediaHeader()); err != nil {
		return err
	}
	if h.Wave == nil {
		return nil
	}
	var buf fixedBuffer
	if err := WriteWaveHeader(&buf, *h.Wave); err != nil {
		return err
	}
	if _, err := w.Write([]byte{byte(len(buf.data))}); err != nil {
		return err
	}
	_, err := w.Write(buf.data)
	return err
}

type fixedBuffer struct{ data []byte }

func (b *fixedBuffer) Write(p []byte) (int, error) {
	b.data = append(b.data, p...)
	return len(p), nil
}

// Entry is a decoded sound object payload: its size/duration header plus
// the data-region framing needed to slice out the raw bytes (spec §4.6
// "Sound payloads").
type Entry struct {
	DataSize  int32
	LengthMS  int32
	Header    Header
	DataStart int64 // absolute stream offset of the first raw data byte
}

// ReadEntry decodes a sound object's {unknown:u8, size:WzInt, len_ms:WzInt,
// header} prefix. readVarInt is the varint decoder to use for size/len_ms
// (injected to avoid importing wireenc for a single-byte/extended form).
func ReadEntry(r io.Reader, pos func() (int64, error), readVarInt func(io.Reader) (int32, error)) (Entry, error) {
	var unknown [1]byte
	if _, err := io.ReadFull(r, unknown[:]); err != nil {
		return Entry{}, err
	}
	size, err := readVarInt(r)
	if err != nil {
		return Entry{}, err
	}
	lenMS, err := readVarInt(r)
	if err != nil {
		return Entry{}, err
	}
	hdr, err := ReadHeader(r)
	if err != nil {
		return Entry{}, err
	}
	dataStart, err := pos()
	if err != nil {
		return Entry{}, err
	}
	return Entry{DataSize: size, LengthMS: lenMS, Header: hdr, DataStart: dataStart}, nil
}
