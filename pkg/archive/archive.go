// Package archive implements the archive directory walker (C5): the
// package header, directory entry tree, link resolution, path lookup and
// wrapping-i32 checksum over an archive's data region.
package archive

import (
	"encoding/binary"
	"fmt"
	"io"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/jon-zu/shroom-lib-sub000/pkg/shroomerr"
	"github.com/jon-zu/shroom-lib-sub000/pkg/shroomlog"
	"github.com/jon-zu/shroom-lib-sub000/pkg/strtable"
	"github.com/jon-zu/shroom-lib-sub000/pkg/wireenc"
	"github.com/jon-zu/shroom-lib-sub000/pkg/wzcrypto"
)

// Magic is the fixed 4-byte archive header magic.
var Magic = [4]byte{'P', 'K', 'G', '1'}

// Header is the fixed-layout archive header (spec §4.5).
type Header struct {
	FileSize    uint64
	DataOffset  uint32
	Description string
}

// ReadHeader parses the archive header from the start of r. A bad magic is
// fatal (spec §7 ErrInvalidMagic); a file size that would place data past
// EOF is the caller's responsibility to detect once the underlying file
// size is known.
func ReadHeader(r io.Reader) (Header, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return Header{}, err
	}
	if magic != Magic {
		return Header{}, fmt.Errorf("%w: got %q", shroomerr.ErrInvalidMagic, magic[:])
	}

	var sizeBuf [8]byte
	if _, err := io.ReadFull(r, sizeBuf[:]); err != nil {
		return Header{}, err
	}
	var offBuf [4]byte
	if _, err := io.ReadFull(r, offBuf[:]); err != nil {
		return Header{}, err
	}

	desc, err := readASCIIZ(r)
	if err != nil {
		return Header{}, err
	}

	return Header{
		FileSize:    binary.LittleEndian.Uint64(sizeBuf[:]),
		DataOffset:  binary.LittleEndian.Uint32(offBuf[:]),
		Description: desc,
	}, nil
}

// WriteHeader writes the archive header.
func WriteHeader(w io.Writer, h Header) error {
	if _, err := w.Write(Magic[:]); err != nil {
		return err
	}
	var buf [12]byte
	binary.LittleEndian.PutUint64(buf[:8], h.FileSize)
	binary.LittleEndian.PutUint32(buf[8:], h.DataOffset)
	if _, err := w.Write(buf[:]); err != nil {
		return err
	}
	_, err := w.Write(append([]byte(h.Description), 0))
	return err
}

func readASCIIZ(r io.Reader) (string, error) {
	var sb strings.Builder
	var b [1]byte
	for {
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return "", err
		}
		if b[0] == 0 {
			return sb.String(), nil
		}
		sb.WriteByte(b[0])
	}
}

// EntryKind discriminates a directory entry's wire tag (spec §4.5).
type EntryKind byte

const (
	EntryNull EntryKind = 1
	EntryLink EntryKind = 2
	EntryDir  EntryKind = 3
	EntryImg  EntryKind = 4
)

// Entry is one decoded directory entry.
type Entry struct {
	Kind     EntryKind
	Name     string
	BlobSize int32
	Checksum int32
	Offset   uint32

	// LinkOffset is the raw stored offset for an EntryLink entry, to be
	// resolved against Header.DataOffset (spec §4.5 "Link resolution").
	LinkOffset uint32
}

// Dir is a directory node: an ordered list of entries.
type Dir struct {
	Entries []Entry
}

// Get finds a named, non-null entry in dir by its decoded name.
func (d *Dir) Get(name string) (*Entry, bool) {
	for i := range d.Entries {
		e := &d.Entries[i]
		if e.Kind == EntryDir || e.Kind == EntryImg || e.Kind == EntryLink {
			if e.Name == name {
				return e, true
			}
		}
	}
	return nil, false
}

// Reader walks an archive's directory tree over a ReadSeeker positioned at
// the start of the archive.
type Reader struct {
	r         io.ReadSeeker
	header    Header
	offsetCtx *wzcrypto.OffsetCipher
	names     *strtable.Table
	nameOFB   *wzcrypto.OFBCache
	log       hclog.Logger
}

// Option configures a Reader at construction time.
type Option func(*Reader)

// WithLogger attaches a structured logger; Trace-level entries are emitted
// per directory entry parsed and per link resolved.
func WithLogger(l hclog.Logger) Option {
	return func(rd *Reader) { rd.log = shroomlog.OrNull(l) }
}

// NewReader validates the header and the encrypted version marker and
// returns a Reader ready to walk the directory tree (spec §4.5, §8).
func NewReader(r io.ReadSeeker, version wzcrypto.Version, offsetMagic uint32, nameOFB *wzcrypto.OFBCache, opts ...Option) (*Reader, error) {
	hdr, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}

	if _, err := r.Seek(int64(hdr.DataOffset), io.SeekStart); err != nil {
		return nil, err
	}
	var verBuf [2]byte
	if _, err := io.ReadFull(r, verBuf[:]); err != nil {
		return nil, err
	}
	encVer := binary.LittleEndian.Uint16(verBuf[:])
	if encVer != version.Encrypt() {
		return nil, fmt.Errorf("%w: expected %d, got %d", shroomerr.ErrVersionMismatch, version.Encrypt(), encVer)
	}

	rd := &Reader{
		r:         r,
		header:    hdr,
		offsetCtx: wzcrypto.NewOffsetCipher(version, offsetMagic),
		names:     strtable.New(),
		nameOFB:   nameOFB,
		log:       shroomlog.Null(),
	}
	for _, opt := range opts {
		opt(rd)
	}
	rd.log.Trace("archive header parsed", "data_offset", hdr.DataOffset, "file_size", hdr.FileSize)
	return rd, nil
}

// RootOffset is the byte offset of the root directory node: right after
// the 2-byte encrypted version marker.
func (rd *Reader) RootOffset() uint32 {
	return rd.header.DataOffset + 2
}

// ReadRootDir reads the root directory node.
func (rd *Reader) ReadRootDir() (*Dir, error) {
	return rd.ReadDirAt(rd.RootOffset())
}

// ReadDirAt reads a directory node at an absolute archive offset.
func (rd *Reader) ReadDirAt(offset uint32) (*Dir, error) {
	if _, err := rd.r.Seek(int64(offset), io.SeekStart); err != nil {
		return nil, err
	}

	count, err := wireenc.ReadVarInt(rd.r)
	if err != nil {
		return nil, err
	}
	if count < 0 {
		return nil, fmt.Errorf("%w: negative directory entry count", shroomerr.ErrBadHeader)
	}

	dir := &Dir{Entries: make([]Entry, 0, count)}
	for i := int32(0); i < count; i++ {
		e, err := rd.readEntry()
		if err != nil {
			return nil, err
		}
		if e != nil {
			dir.Entries = append(dir.Entries, *e)
		}
	}
	return dir, nil
}

func (rd *Reader) readEntry() (*Entry, error) {
	var tagb [1]byte
	if _, err := io.ReadFull(rd.r, tagb[:]); err != nil {
		return nil, err
	}

	switch EntryKind(tagb[0]) {
	case EntryNull:
		var skip [10]byte
		if _, err := io.ReadFull(rd.r, skip[:]); err != nil {
			return nil, err
		}
		return nil, nil
	case EntryLink:
		var offBuf [4]byte
		if _, err := io.ReadFull(rd.r, offBuf[:]); err != nil {
			return nil, err
		}
		linkOffset := binary.LittleEndian.Uint32(offBuf[:])

		resolved, err := rd.resolveLink(linkOffset)
		if err != nil {
			return nil, err
		}
		resolved.Kind = EntryLink
		resolved.LinkOffset = linkOffset

		blobSize, checksum, offset, err := rd.readEntryTail()
		if err != nil {
			return nil, err
		}
		resolved.BlobSize = blobSize
		resolved.Checksum = checksum
		resolved.Offset = offset
		return &resolved, nil
	case EntryDir, EntryImg:
		name, err := rd.readEntryName()
		if err != nil {
			return nil, err
		}
		blobSize, checksum, offset, err := rd.readEntryTail()
		if err != nil {
			return nil, err
		}
		rd.log.Trace("directory entry parsed", "kind", tagb[0], "name", name, "offset", offset, "blob_size", blobSize)
		return &Entry{
			Kind:     EntryKind(tagb[0]),
			Name:     name,
			BlobSize: blobSize,
			Checksum: checksum,
			Offset:   offset,
		}, nil
	default:
		return nil, fmt.Errorf("%w: entry tag=0x%02x", shroomerr.ErrUnknownTag, tagb[0])
	}
}

func (rd *Reader) readEntryName() (string, error) {
	pos, err := rd.r.Seek(0, io.SeekCurrent)
	if err != nil {
		return "", err
	}
	decode := func(r io.Reader) (string, error) {
		return wireenc.ReadEncryptedString(r, rd.nameOFB)
	}
	return rd.names.ReadTagged(rd.r, pos, strtable.TagTypeInline, strtable.TagTypeBackref, decode)
}

func (rd *Reader) readEntryTail() (blobSize, checksum int32, offset uint32, err error) {
	blobSize, err = wireenc.ReadVarInt(rd.r)
	if err != nil {
		return
	}
	checksum, err = wireenc.ReadVarInt(rd.r)
	if err != nil {
		return
	}

	pos, err := rd.r.Seek(0, io.SeekCurrent)
	if err != nil {
		return
	}
	var encOff [4]byte
	if _, err = io.ReadFull(rd.r, encOff[:]); err != nil {
		return
	}
	rawOff := binary.LittleEndian.Uint32(encOff[:])
	offset = rd.offsetCtx.DecryptOffset(rd.header.DataOffset, rawOff, uint32(pos))
	return
}

// resolveLink follows a Link entry's stored offset (relative to the
// archive's data region) to the image header it points at (spec §4.5
// "Link resolution" — only Img links are supported, matching the
// reference walker).
func (rd *Reader) resolveLink(linkOffset uint32) (Entry, error) {
	oldPos, err := rd.r.Seek(0, io.SeekCurrent)
	if err != nil {
		return Entry{}, err
	}

	target := uint64(rd.header.DataOffset) + uint64(linkOffset)
	if _, err := rd.r.Seek(int64(target), io.SeekStart); err != nil {
		return Entry{}, err
	}

	var tagb [1]byte
	if _, err := io.ReadFull(rd.r, tagb[:]); err != nil {
		return Entry{}, err
	}
	if EntryKind(tagb[0]) != EntryImg {
		return Entry{}, fmt.Errorf("%w: link target tag=0x%02x, want Img", shroomerr.ErrBadHeader, tagb[0])
	}

	name, err := rd.readEntryName()
	if err != nil {
		return Entry{}, err
	}

	if _, err := rd.r.Seek(oldPos, io.SeekStart); err != nil {
		return Entry{}, err
	}
	rd.log.Trace("link entry resolved", "link_offset", linkOffset, "target_name", name)
	return Entry{Name: name}, nil
}

// PathLookup resolves a '/'-separated path from the root directory down to
// its final entry.
func (rd *Reader) PathLookup(path string) (*Entry, error) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	dir, err := rd.ReadRootDir()
	if err != nil {
		return nil, err
	}

	for i, part := range parts {
		e, ok := dir.Get(part)
		if !ok {
			return nil, fmt.Errorf("path not found: %q in %q", part, path)
		}
		if i == len(parts)-1 {
			return e, nil
		}
		if e.Kind != EntryDir {
			return nil, fmt.Errorf("path component %q is not a directory", part)
		}
		dir, err = rd.ReadDirAt(e.Offset)
		if err != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("empty path")
}

// Checksum computes the wrapping-i32 byte-sum checksum over n bytes
// starting at the current reader position (spec §4.5 "checksum").
func Checksum(r io.Reader, n int64) (int32, error) {
	var sum int32
	buf := make([]byte, 4096)
	for n > 0 {
		chunk := int64(len(buf))
		if n < chunk {
			chunk = n
		}
		read, err := r.Read(buf[:chunk])
		for i := 0; i < read; i++ {
			sum += int32(buf[i])
		}
		n -= int64(read)
		if err != nil {
			if err == io.EOF && n == 0 {
				break
			}
			return 0, err
		}
	}
	return sum, nil
}
