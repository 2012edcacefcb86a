package ledger

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestLedger(t *testing.T) *Ledger {
	t.Helper()
	l, err := Open(context.Background(), filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { l.Close() })
	return l
}

func TestRecordFillsDefaults(t *testing.T) {
	l := openTestLedger(t)

	e, err := l.Record(context.Background(), Entry{
		Op:        OpEncode,
		Path:      "cat.png",
		ChunkType: "ruSt",
		Length:    42,
		CRC:       2882656334,
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if e.ID == "" {
		t.Error("expected generated ID")
	}
	if e.Time.IsZero() {
		t.Error("expected timestamp")
	}
}

func TestListNewestFirst(t *testing.T) {
	l := openTestLedger(t)
	ctx := context.Background()
	base := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

	for i, op := range []string{OpEncode, OpRemove, OpCapture} {
		_, err := l.Record(ctx, Entry{
			Time:      base.Add(time.Duration(i) * time.Minute),
			Op:        op,
			Path:      "cat.png",
			ChunkType: "ruSt",
			Length:    uint32(i),
			CRC:       0xffffffff,
		})
		if err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	entries, err := l.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Op != OpCapture || entries[2].Op != OpEncode {
		t.Errorf("unexpected order: %s, %s", entries[0].Op, entries[2].Op)
	}
	if entries[0].CRC != 0xffffffff {
		t.Errorf("expected crc to survive storage, got %x", entries[0].CRC)
	}
	if !entries[2].Time.Equal(base) {
		t.Errorf("expected time %v, got %v", base, entries[2].Time)
	}

	limited, err := l.List(ctx, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("expected 2 entries, got %d", len(limited))
	}
}

func TestReopenKeepsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	ctx := context.Background()

	l, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := l.Record(ctx, Entry{Op: OpRemove, Path: "a.png", ChunkType: "ruSt"}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	l.Close()

	l, err = Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer l.Close()

	entries, err := l.List(ctx, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 1 || entries[0].Path != "a.png" {
		t.Errorf("unexpected entries %+v", entries)
	}
}
