package wzcrypto

import "math/bits"

// OffsetCipher implements the archive offset obfuscation transform (spec
// §3 "Obfuscated offset", §4.2 "Archive offset").
type OffsetCipher struct {
	offsetMagic uint32
	versionHash uint32
}

// NewOffsetCipher builds an OffsetCipher for the given version and
// region-specific offset magic.
func NewOffsetCipher(version Version, offsetMagic uint32) *OffsetCipher {
	return &OffsetCipher{
		offsetMagic: offsetMagic,
		versionHash: version.Hash(),
	}
}

// offsetKeyAt computes the position-dependent obfuscation key.
func (o *OffsetCipher) offsetKeyAt(pos, dataOffset uint32) uint32 {
	t := ^(pos - dataOffset)
	t *= o.versionHash
	t -= o.offsetMagic
	return bits.RotateLeft32(t, int(t&0x1F))
}

// DecryptOffset recovers the absolute offset from its obfuscated on-disk
// form, given the archive's data_offset and the stream position of the
// stored value.
func (o *OffsetCipher) DecryptOffset(dataOffset, encOffset, pos uint32) uint32 {
	k := o.offsetKeyAt(pos, dataOffset)
	return (k ^ encOffset) + dataOffset*2
}

// EncryptOffset is the inverse of DecryptOffset.
func (o *OffsetCipher) EncryptOffset(dataOffset, off, pos uint32) uint32 {
	off -= dataOffset * 2
	return off ^ o.offsetKeyAt(pos, dataOffset)
}
