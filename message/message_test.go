package message

import (
	"bytes"
	"strings"
	"testing"
)

func TestPackPlain(t *testing.T) {
	text := []byte("meet me at midnight")
	data := Pack(text, false)
	if !bytes.Equal(data, text) {
		t.Errorf("expected raw text, got %q", data)
	}
	if IsCompressed(data) {
		t.Error("plain text reported as compressed")
	}

	got, err := Unpack(data)
	if err != nil {
		t.Fatalf("Unpack: %v", err)
	}
	if !bytes.Equal(got, text) {
		t.Errorf("expected %q, got %q", text, got)
	}
}

func TestPackCompressed(t *testing.T) {
	text := []byte(strings.Repeat("all work and no play ", 200))
	data := Pack(text, true)
	if !IsCompressed(data) {
		t.Fatal("expected zstd frame")
	}
	if len(data) >= len(text) {
		t.Errorf("expected compression, %d >= %d", len(data), len(text))
	}

	got, err := Unpack(data)
	if err != nil {
		t.Fatalf("Unpack: %v", err)
	}
	if !bytes.Equal(got, text) {
		t.Error("round trip mismatch")
	}
}

func TestUnpackCorruptFrame(t *testing.T) {
	data := append(append([]byte(nil), zstdMagic...), 0xde, 0xad, 0xbe, 0xef)
	if _, err := Unpack(data); err == nil {
		t.Error("expected error for corrupt frame")
	}
}
