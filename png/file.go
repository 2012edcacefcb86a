package png

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// Signature starts every PNG file.
var Signature = [8]byte{137, 80, 78, 71, 13, 10, 26, 10}

// File is the chunk structure of a PNG file.
// Chunk order is kept as is; no PNG ordering rules are enforced.
type File struct {
	chunks []*Chunk
}

// NewFile creates a file from chunks in the given order.
func NewFile(chunks ...*Chunk) *File {
	return &File{chunks: append([]*Chunk(nil), chunks...)}
}

// Parse parses a whole PNG file held in memory.
// Either every chunk is valid or an error is returned.
func Parse(b []byte) (*File, error) {
	return parse(io.NewSectionReader(bytes.NewReader(b), 0, int64(len(b))))
}

func parse(sr *io.SectionReader) (*File, error) {
	signature := make([]byte, len(Signature))
	if _, err := io.ReadFull(sr, signature); err != nil || !bytes.Equal(signature, Signature[:]) {
		return nil, formatError("bad signature")
	}

	f := &File{}
	offset := int64(len(signature))
	for offset < sr.Size() {
		c, err := ReadChunk(sr)
		if err != nil {
			return nil, errors.WithMessagef(err, "chunk #%d at offset %d", len(f.chunks), offset)
		}
		f.chunks = append(f.chunks, c)
		// chunk = length, type, data, CRC
		offset += 4 + 4 + int64(c.Length()) + 4
	}

	return f, nil
}

// Chunks returns the chunks in file order.
func (f *File) Chunks() []*Chunk {
	return f.chunks
}

// Header returns the first chunk, conventionally IHDR, or nil for an empty file.
func (f *File) Header() *Chunk {
	if len(f.chunks) == 0 {
		return nil
	}
	return f.chunks[0]
}

// Append adds c after the last chunk.
func (f *File) Append(c *Chunk) {
	f.chunks = append(f.chunks, c)
}

// ChunkByType returns the first chunk of type t.
func (f *File) ChunkByType(t string) (*Chunk, bool) {
	i := f.index(t)
	if i < 0 {
		return nil, false
	}
	return f.chunks[i], true
}

// RemoveChunk removes and returns the first chunk of type t.
// Later chunks of the same type are left in place.
func (f *File) RemoveChunk(t string) (*Chunk, error) {
	i := f.index(t)
	if i < 0 {
		return nil, notFound(t)
	}
	c := f.chunks[i]
	f.chunks = append(f.chunks[:i:i], f.chunks[i+1:]...)
	return c, nil
}

func (f *File) index(t string) int {
	for i, c := range f.chunks {
		if c.Type().String() == t {
			return i
		}
	}
	return -1
}

// Bytes encodes the whole file: the signature followed by every chunk.
func (f *File) Bytes() []byte {
	size := len(Signature)
	for _, c := range f.chunks {
		size += 12 + len(c.Data())
	}

	buf := make([]byte, 0, size)
	buf = append(buf, Signature[:]...)
	for _, c := range f.chunks {
		buf = append(buf, c.Bytes()...)
	}
	return buf
}

// String makes File satisfy the Stringer interface.
func (f *File) String() string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("PNG: %d chunks\n", len(f.chunks)))
	for i, c := range f.chunks {
		buf.WriteString(fmt.Sprintf("  #%d %s\n", i, c))
	}
	return buf.String()
}
