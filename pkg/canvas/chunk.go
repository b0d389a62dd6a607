package canvas

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/jon-zu/shroom-lib-sub000/pkg/shroomerr"
	"github.com/jon-zu/shroom-lib-sub000/pkg/wzcrypto"
)

// MaxChunkSize is the largest permitted {chunk_len, chunk_bytes} record
// (spec §4.6 "chunked pixel stream").
const MaxChunkSize = 32768

// ReadChunked decrypts a chunked pixel stream: a sequence of
// {chunk_len:u32 LE, chunk_bytes} records, each independently encrypted
// with a keystream restarted at the base IV (spec §4.6, grounded on the
// archive image's chunked-canvas heuristic). It returns the concatenated
// plaintext chunks; it does not inflate them.
func ReadChunked(r io.Reader, key wzcrypto.AESKey, iv wzcrypto.IV, totalLen int64) ([]byte, error) {
	var out []byte
	var read int64

	for read < totalLen {
		var lb [4]byte
		if _, err := io.ReadFull(r, lb[:]); err != nil {
			return nil, err
		}
		chunkLen := binary.LittleEndian.Uint32(lb[:])
		if chunkLen == 0 {
			return nil, shroomerr.ErrChunkZero
		}
		if chunkLen > MaxChunkSize {
			return nil, fmt.Errorf("%w: chunk_len=%d", shroomerr.ErrChunkTooLarge, chunkLen)
		}

		chunk := make([]byte, chunkLen)
		if _, err := io.ReadFull(r, chunk); err != nil {
			return nil, err
		}

		cache, err := wzcrypto.NewOFBCache(key, iv, 0)
		if err != nil {
			return nil, err
		}
		cache.Crypt(chunk)

		out = append(out, chunk...)
		read += 4 + int64(chunkLen)
	}
	return out, nil
}

// WriteChunked frames data into MaxChunkSize chunks, each encrypted from a
// fresh keystream restart at iv.
func WriteChunked(w io.Writer, data []byte, key wzcrypto.AESKey, iv wzcrypto.IV) error {
	for off := 0; off < len(data); off += MaxChunkSize {
		end := off + MaxChunkSize
		if end > len(data) {
			end = len(data)
		}
		chunk := append([]byte(nil), data[off:end]...)

		cache, err := wzcrypto.NewOFBCache(key, iv, 0)
		if err != nil {
			return err
		}
		cache.Crypt(chunk)

		var lb [4]byte
		binary.LittleEndian.PutUint32(lb[:], uint32(len(chunk)))
		if _, err := w.Write(lb[:]); err != nil {
			return err
		}
		if _, err := w.Write(chunk); err != nil {
			return err
		}
	}
	return nil
}
