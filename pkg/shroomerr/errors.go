// Package shroomerr collects the sentinel error values shared by every
// package in this module. Callers compare with errors.Is; call sites add
// context with fmt.Errorf("%w: ...", ...).
package shroomerr

import "errors"

var (
	// ErrVersionMismatch is returned when the archive's encrypted version
	// word does not match the CryptoContext's configured version.
	ErrVersionMismatch = errors.New("shroom: encrypted version mismatch")

	// ErrInvalidMagic is returned when an archive header's magic bytes are
	// not "PKG1".
	ErrInvalidMagic = errors.New("shroom: invalid archive magic")

	// ErrUnknownTag is returned for an unrecognized tagged-value
	// discriminator, directory entry tag, or object type-string.
	ErrUnknownTag = errors.New("shroom: unknown tag")

	// ErrBadStringOffset is returned when a string back-reference resolves
	// to an offset absent from the intern table.
	ErrBadStringOffset = errors.New("shroom: string back-reference offset not interned")

	// ErrBadHeader is returned when a network packet header's verification
	// tag does not match the round-key-derived value. It is also returned
	// for other malformed structure: a negative directory entry count, a
	// link target that is not an image, a Convex2D element of the wrong
	// type, an unsupported sound media type, a truncated handshake, and a
	// list manifest record that cannot be read.
	ErrBadHeader = errors.New("shroom: packet header verification failed")

	// ErrFrameTooLarge is returned when a declared frame length exceeds the
	// implementation cap.
	ErrFrameTooLarge = errors.New("shroom: frame length exceeds cap")

	// ErrChunkTooLarge is returned when a canvas chunk declares a length
	// above MaxChunkSize.
	ErrChunkTooLarge = errors.New("shroom: chunk exceeds maximum size")

	// ErrChunkZero is returned for a zero-length canvas chunk.
	ErrChunkZero = errors.New("shroom: zero-length chunk")

	// ErrDecompressFailed wraps an underlying deflate inflate error. It is
	// also returned by canvas.ExpandRGBA8 for a short source buffer or a
	// block-compressed pixel format.
	ErrDecompressFailed = errors.New("shroom: deflate stream error")

	// ErrUtf8 is returned when latin-1 decoded string bytes are not valid
	// for the caller's requested interpretation.
	ErrUtf8 = errors.New("shroom: invalid utf-8 in encoded string")

	// ErrUtf16 is returned when encoded string code units are not valid
	// UTF-16.
	ErrUtf16 = errors.New("shroom: invalid utf-16 in encoded string")

	// ErrOutOfCapacity is returned when a writer's buffer cannot accept
	// more bytes.
	ErrOutOfCapacity = errors.New("shroom: writer buffer capacity exceeded")
)
