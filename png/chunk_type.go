package png

// ChunkType is the 4-letter tag of a chunk. The case of each letter carries
// one property bit.
type ChunkType struct {
	b [4]byte
}

// NewChunkType creates a chunk type from raw bytes.
func NewChunkType(b [4]byte) (ChunkType, error) {
	for _, c := range b {
		if !isLetter(c) {
			return ChunkType{}, formatError("non-alphabetic chunk type %q", b[:])
		}
	}
	return ChunkType{b: b}, nil
}

// ParseChunkType creates a chunk type from its text form, e.g. "tEXt".
func ParseChunkType(s string) (ChunkType, error) {
	if len(s) != 4 {
		return ChunkType{}, formatError("wrong length of chunk type %q", s)
	}
	var b [4]byte
	copy(b[:], s)
	return NewChunkType(b)
}

// Bytes returns the raw tag.
func (t ChunkType) Bytes() [4]byte {
	return t.b
}

func (t ChunkType) String() string {
	return string(t.b[:])
}

// IsCritical reports whether decoders must understand the chunk.
func (t ChunkType) IsCritical() bool {
	return isUpper(t.b[0])
}

// IsPublic reports whether the type is part of the public PNG standard.
func (t ChunkType) IsPublic() bool {
	return isUpper(t.b[1])
}

// IsReservedBitValid reports whether the reserved bit is clear.
func (t ChunkType) IsReservedBitValid() bool {
	return isUpper(t.b[2])
}

// IsSafeToCopy reports whether editors may copy the chunk blindly.
func (t ChunkType) IsSafeToCopy() bool {
	return isLower(t.b[3])
}

// IsValid reports whether the tag is alphabetic and its reserved bit is
// valid. Critical, public and safe-to-copy bits are not checked.
func (t ChunkType) IsValid() bool {
	for _, c := range t.b {
		if !isLetter(c) {
			return false
		}
	}
	return t.IsReservedBitValid()
}

func isUpper(c byte) bool  { return 'A' <= c && c <= 'Z' }
func isLower(c byte) bool  { return 'a' <= c && c <= 'z' }
func isLetter(c byte) bool { return isUpper(c) || isLower(c) }
