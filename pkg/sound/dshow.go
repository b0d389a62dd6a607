// Package sound implements the sound payload half of the canvas & sound
// component (C7): DirectShow media headers and the PCM/MPEG-3 wave header
// variants embedded ahead of raw sound bytes.
package sound

import (
	"encoding/binary"
	"io"
)

// GUID is a 16-byte little-endian DirectShow media type identifier. It is
// only ever compared for equality against the fixed constants below, so it
// is represented as an opaque byte array rather than a general-purpose
// UUID type.
type GUID [16]byte

func (g GUID) Equal(o GUID) bool { return g == o }

func readGUID(r io.Reader) (GUID, error) {
	var g GUID
	_, err := io.ReadFull(r, g[:])
	return g, err
}

func writeGUID(w io.Writer, g GUID) error {
	_, err := w.Write(g[:])
	return err
}

func mustGUID(hex string) GUID {
	var g GUID
	// hex is a 32-character lowercase hex string, byte order as stored
	// on the wire (already little-endian per the DirectShow GUID layout).
	for i := 0; i < 16; i++ {
		hi := hexNibble(hex[i*2])
		lo := hexNibble(hex[i*2+1])
		g[i] = hi<<4 | lo
	}
	return g
}

func hexNibble(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	default:
		return 0
	}
}

var (
	// MediaTypeStream is {E436EB83-524F-11CE-9F53-0020AF0BA770}.
	MediaTypeStream = mustGUID("83eb36e44f52ce119f530020af0ba770")
	// MediaSubtypeMpeg1Audio is {e436eb87-524f-11ce-9f53-0020af0ba770}.
	MediaSubtypeMpeg1Audio = mustGUID("87eb36e44f52ce119f530020af0ba770")
	// MediaSubtypeWave is {E436EB8B-524F-11CE-9F53-0020AF0BA770}.
	MediaSubtypeWave = mustGUID("8beb36e44f52ce119f530020af0ba770")
	// WMFormatWaveFormatEx is {05589f81-c356-11ce-bf01-00aa0055595a}.
	WMFormatWaveFormatEx = mustGUID("819f580556c3ce11bf0100aa0055595a")
	// NilGUID is the all-zero GUID.
	NilGUID = GUID{}
)

const (
	WaveFormatPCM uint16 = 0x0001
	WaveFormatMP3 uint16 = 0x0055

	waveHeaderExSize = 18
)

// MediaHeaderSize is the fixed byte size of MediaHeader on the wire: three
// GUIDs and two flag bytes, plus the 1-byte sound header type discriminator.
const MediaHeaderSize = 3*16 + 2 + 1

// SoundHeaderType discriminates between raw MPEG-1 streams and
// wave-wrapped PCM/MP3 streams.
type SoundHeaderType uint8

const (
	SoundHeaderMpeg1 SoundHeaderType = 1
	SoundHeaderWave  SoundHeaderType = 2
)

// MediaHeader is the fixed DirectShow AM_MEDIA_TYPE-derived prefix stored
// ahead of every sound payload's format-specific header.
type MediaHeader struct {
	HeaderType SoundHeaderType
	MajorType  GUID
	SubType    GUID
	U1         bool
	U2         bool
	FormatType GUID
}

func readMediaHeader(r io.Reader) (MediaHeader, error) {
	var hdrTy [1]byte
	if _, err := io.ReadFull(r, hdrTy[:]); err != nil {
		return MediaHeader{}, err
	}
	major, err := readGUID(r)
	if err != nil {
		return MediaHeader{}, err
	}
	sub, err := readGUID(r)
	if err != nil {
		return MediaHeader{}, err
	}
	var flags [2]byte
	if _, err := io.ReadFull(r, flags[:]); err != nil {
		return MediaHeader{}, err
	}
	format, err := readGUID(r)
	if err != nil {
		return MediaHeader{}, err
	}
	return MediaHeader{
		HeaderType: SoundHeaderType(hdrTy[0]),
		MajorType:  major,
		SubType:    sub,
		U1:         flags[0] != 0,
		U2:         flags[1] != 0,
		FormatType: format,
	}, nil
}

func writeMediaHeader(w io.Writer, h MediaHeader) error {
	if _, err := w.Write([]byte{byte(h.HeaderType)}); err != nil {
		return err
	}
	if err := writeGUID(w, h.MajorType); err != nil {
		return err
	}
	if err := writeGUID(w, h.SubType); err != nil {
		return err
	}
	u1, u2 := byte(0), byte(0)
	if h.U1 {
		u1 = 1
	}
	if h.U2 {
		u2 = 1
	}
	if _, err := w.Write([]byte{u1, u2}); err != nil {
		return err
	}
	return writeGUID(w, h.FormatType)
}

// WaveHeaderEx is the common WAVEFORMATEX prefix shared by PCM and MPEG-3
// wave headers.
type WaveHeaderEx struct {
	Format         uint16
	Channels       uint16
	SamplesPerSec  uint32
	AvgBytesPerSec uint32
	BlockAlign     uint16
	BitsPerSample  uint16
	ExtraSize      uint16
}

func (h WaveHeaderEx) size() int { return waveHeaderExSize + int(h.ExtraSize) }

func readWaveHeaderEx(r io.Reader) (WaveHeaderEx, error) {
	var buf [waveHeaderExSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return WaveHeaderEx{}, err
	}
	return WaveHeaderEx{
		Format:         binary.LittleEndian.Uint16(buf[0:2]),
		Channels:       binary.LittleEndian.Uint16(buf[2:4]),
		SamplesPerSec:  binary.LittleEndian.Uint32(buf[4:8]),
		AvgBytesPerSec: binary.LittleEndian.Uint32(buf[8:12]),
		BlockAlign:     binary.LittleEndian.Uint16(buf[12:14]),
		BitsPerSample:  binary.LittleEndian.Uint16(buf[14:16]),
		ExtraSize:      binary.LittleEndian.Uint16(buf[16:18]),
	}, nil
}

func writeWaveHeaderEx(w io.Writer, h WaveHeaderEx) error {
	var buf [waveHeaderExSize]byte
	binary.LittleEndian.PutUint16(buf[0:2], h.Format)
	binary.LittleEndian.PutUint16(buf[2:4], h.Channels)
	binary.LittleEndian.PutUint32(buf[4:8], h.SamplesPerSec)
	binary.LittleEndian.PutUint32(buf[8:12], h.AvgBytesPerSec)
	binary.LittleEndian.PutUint16(buf[12:14], h.BlockAlign)
	binary.LittleEndian.PutUint16(buf[14:16], h.BitsPerSample)
	binary.LittleEndian.PutUint16(buf[16:18], h.ExtraSize)
	_, err := w.Write(buf[:])
	return err
}

// PcmWaveHeader is a bare WAVEFORMATEX with no format-specific tail.
type PcmWaveHeader struct {
	Wav WaveHeaderEx
}

// Mpeg3WaveHeader is MPEGLAYER3WAVEFORMAT: a WAVEFORMATEX plus the MP3
// layer-3 specific fields.
type Mpeg3WaveHeader struct {
	Wav            WaveHeaderEx
	ID             uint16
	Flags          uint32
	BlockSize      uint16
	FramesPerBlock uint16
	CodecDelay     uint16
}

// WaveHeader is the decoded wave-format-specific header, keyed by
// WaveHeaderEx.Format (spec C7 supplement: "DirectShow wave-header
// variants").
type WaveHeader struct {
	PCM   *PcmWaveHeader
	Mpeg3 *Mpeg3WaveHeader
}

func (h WaveHeader) ex() WaveHeaderEx {
	if h.Mpeg3 != nil {
		return h.Mpeg3.Wav
	}
	return h.PCM.Wav
}

func (h WaveHeader) headerSize() int { return h.ex().size() }

// ReadWaveHeader reads a wave-format header whose variant is selected by
// peeking the leading format code.
func ReadWaveHeader(data []byte) (WaveHeader, error) {
	if len(data) < 2 {
		return WaveHeader{}, io.ErrUnexpectedEOF
	}
	format := binary.LittleEndian.Uint16(data[:2])
	r := bytesReader(data)

	switch format {
	case WaveFormatPCM:
		wav, err := readWaveHeaderEx(r)
		if err != nil {
			return WaveHeader{}, err
		}
		return WaveHeader{PCM: &PcmWaveHeader{Wav: wav}}, nil
	case WaveFormatMP3:
		wav, err := readWaveHeaderEx(r)
		if err != nil {
			return WaveHeader{}, err
		}
		var tail [12]byte
		if _, err := io.ReadFull(r, tail[:]); err != nil {
			return WaveHeader{}, err
		}
		return WaveHeader{Mpeg3: &Mpeg3WaveHeader{
			Wav:            wav,
			ID:             binary.LittleEndian.Uint16(tail[0:2]),
			Flags:          binary.LittleEndian.Uint32(tail[2:6]),
			BlockSize:      binary.LittleEndian.Uint16(tail[6:8]),
			FramesPerBlock: binary.LittleEndian.Uint16(tail[8:10]),
			CodecDelay:     binary.LittleEndian.Uint16(tail[10:12]),
		}}, nil
	default:
		return WaveHeader{}, io.ErrUnexpectedEOF
	}
}

// WriteWaveHeader encodes h.
func WriteWaveHeader(w io.Writer, h WaveHeader) error {
	if h.Mpeg3 != nil {
		if err := writeWaveHeaderEx(w, h.Mpeg3.Wav); err != nil {
			return err
		}
		var tail [12]byte
		binary.LittleEndian.PutUint16(tail[0:2], h.Mpeg3.ID)
		binary.LittleEndian.PutUint32(tail[2:6], h.Mpeg3.Flags)
		binary.LittleEndian.PutUint16(tail[6:8], h.Mpeg3.BlockSize)
		binary.LittleEndian.PutUint16(tail[8:10], h.Mpeg3.FramesPerBlock)
		binary.LittleEndian.PutUint16(tail[10:12], h.Mpeg3.CodecDelay)
		_, err := w.Write(tail[:])
		return err
	}
	return writeWaveHeaderEx(w, h.PCM.Wav)
}

type byteSliceReader struct {
	data []byte
	pos  int
}

func bytesReader(data []byte) *byteSliceReader { return &byteSliceReader{data: data} }

func (r *byteSliceReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}
