package png

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"unicode/utf8"
)

// maxLength is the largest data length a PNG chunk may declare (2^31-1).
const maxLength = 1<<31 - 1

// Chunk is a typed, checksummed unit of a PNG file.
// chunk = length, type, data, CRC
type Chunk struct {
	chunkType ChunkType
	data      []byte
}

// NewChunk creates a chunk. data is copied.
func NewChunk(t ChunkType, data []byte) *Chunk {
	return &Chunk{chunkType: t, data: append([]byte(nil), data...)}
}

// Length returns the size of the data in bytes.
func (c *Chunk) Length() uint32 {
	return uint32(len(c.data))
}

// Type returns the chunk type.
func (c *Chunk) Type() ChunkType {
	return c.chunkType
}

// Data returns the payload. It must not be modified.
func (c *Chunk) Data() []byte {
	return c.data
}

// CRC computes the CRC-32 of the type and data.
func (c *Chunk) CRC() uint32 {
	h := crc32.NewIEEE()
	t := c.chunkType.Bytes()
	h.Write(t[:])
	h.Write(c.data)
	return h.Sum32()
}

// DataString returns the payload as text.
func (c *Chunk) DataString() (string, error) {
	if !utf8.Valid(c.data) {
		return "", formatError("invalid encoding in %s data", c.chunkType)
	}
	return string(c.data), nil
}

// Bytes encodes the chunk as it appears in a PNG file.
func (c *Chunk) Bytes() []byte {
	buf := make([]byte, 0, 12+len(c.data))
	buf = binary.BigEndian.AppendUint32(buf, c.Length())
	t := c.chunkType.Bytes()
	buf = append(buf, t[:]...)
	buf = append(buf, c.data...)
	buf = binary.BigEndian.AppendUint32(buf, c.CRC())
	return buf
}

// ParseChunk decodes the first chunk in b. Trailing bytes are ignored.
func ParseChunk(b []byte) (*Chunk, error) {
	return ReadChunk(bytes.NewReader(b))
}

// ReadChunk reads exactly one chunk from r and verifies its CRC.
func ReadChunk(r io.Reader) (*Chunk, error) {
	var length uint32
	if err := binary.Read(r, binary.BigEndian, &length); err != nil {
		return nil, formatError("truncated input: reading length")
	}
	if length > maxLength {
		return nil, formatError("chunk length exceeds limit: %d", length)
	}

	var rawType [4]byte
	if _, err := io.ReadFull(r, rawType[:]); err != nil {
		return nil, formatError("truncated input: reading type")
	}
	chunkType, err := NewChunkType(rawType)
	if err != nil {
		return nil, formatError("invalid chunk type %q", rawType[:])
	}

	// the buffer grows as bytes arrive, not up front from length
	var data bytes.Buffer
	if _, err := io.CopyN(&data, r, int64(length)); err != nil {
		return nil, formatError("truncated input: %s data wants %d bytes, got %d", chunkType, length, data.Len())
	}

	var crc uint32
	if err := binary.Read(r, binary.BigEndian, &crc); err != nil {
		return nil, formatError("truncated input: reading %s CRC", chunkType)
	}

	c := &Chunk{chunkType: chunkType, data: data.Bytes()}
	if sum := c.CRC(); sum != crc {
		return nil, formatError("CRC mismatch in %s: stored %08x, computed %08x", chunkType, crc, sum)
	}
	return c, nil
}

// String makes Chunk satisfy the Stringer interface.
func (c *Chunk) String() string {
	return fmt.Sprintf("chunk '%s': length %d, data %d[bytes], crc %d", c.chunkType, c.Length(), len(c.data), c.CRC())
}

// Describe decodes the payload of well-known chunk types.
// It returns "" for other types.
func (c *Chunk) Describe() string {
	r := bytes.NewReader(c.data)
	length := len(c.data)

	switch c.chunkType.String() {
	case "IHDR":
		if length != 13 {
			return "corrupted!"
		}
		var h struct {
			Width, Height uint32
			BitDepth      uint8
			ColorType     uint8
			Compression   uint8
			Filter        uint8
			Interlace     uint8
		}
		binary.Read(r, binary.BigEndian, &h)
		return fmt.Sprintf("Width = %d, Height = %d, Bit depth = %d, Color type = %d, Compression method = %d, Filter method = %d, Interlace method = %d",
			h.Width, h.Height, h.BitDepth, h.ColorType, h.Compression, h.Filter, h.Interlace)
	case "sRGB":
		if length != 1 {
			return "corrupted!"
		}
		return fmt.Sprintf("Rendering intent = %d", c.data[0])
	case "gAMA":
		if length != 4 {
			return "corrupted!"
		}
		return fmt.Sprintf("Gamma = %.5f", float64(binary.BigEndian.Uint32(c.data))/100000)
	case "pHYs":
		if length != 9 {
			return "corrupted!"
		}
		var p struct {
			X, Y uint32
			Unit uint8
		}
		binary.Read(r, binary.BigEndian, &p)
		return fmt.Sprintf("Pixels per unit = %dx%d, Unit = %d", p.X, p.Y, p.Unit)
	case "tIME":
		if length != 7 {
			return "corrupted!"
		}
		var t struct {
			Year  uint16
			Month uint8
			Day   uint8
			Hour  uint8
			Min   uint8
			Sec   uint8
		}
		binary.Read(r, binary.BigEndian, &t)
		return fmt.Sprintf("Last modified = %04d-%02d-%02d %02d:%02d:%02d", t.Year, t.Month, t.Day, t.Hour, t.Min, t.Sec)
	case "tEXt":
		if length == 0 {
			return "corrupted!"
		}
		keyword, text, found := bytes.Cut(c.data, []byte{0})
		if !found {
			return fmt.Sprintf("%q", string(c.data))
		}
		return fmt.Sprintf("%s = %q", keyword, string(text))
	}
	return ""
}
