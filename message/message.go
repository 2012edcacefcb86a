// Package message frames hidden messages stored in chunk data.
// A message is either raw bytes or a single zstd frame.
package message

import (
	"bytes"
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// zstdMagic starts every zstd frame. No UTF-8 text starts with it.
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

var (
	encoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	decoder, _ = zstd.NewReader(nil, zstd.WithDecoderMaxMemory(64<<20))
)

// Pack returns the chunk data for text.
func Pack(text []byte, compress bool) []byte {
	if !compress {
		return append([]byte(nil), text...)
	}
	return encoder.EncodeAll(text, nil)
}

// Unpack returns the message stored in data.
func Unpack(data []byte) ([]byte, error) {
	if !IsCompressed(data) {
		return data, nil
	}
	text, err := decoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("decompressing message: %w", err)
	}
	return text, nil
}

// IsCompressed reports whether data holds a zstd frame.
func IsCompressed(data []byte) bool {
	return bytes.HasPrefix(data, zstdMagic)
}
