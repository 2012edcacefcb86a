// Package commands implements the pngme user operations on PNG files.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/ysh86/pngme/capture"
	"github.com/ysh86/pngme/internal/ledger"
	"github.com/ysh86/pngme/internal/logger"
	"github.com/ysh86/pngme/message"
	"github.com/ysh86/pngme/png"
)

// IOError wraps a filesystem failure.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Ledger records and lists edits. *ledger.Ledger implements it.
type Ledger interface {
	Record(ctx context.Context, e ledger.Entry) (ledger.Entry, error)
	List(ctx context.Context, limit int) ([]ledger.Entry, error)
}

// Runner executes commands.
type Runner struct {
	Out io.Writer
	// Ledger is optional.
	Ledger Ledger
	// Screen captures the carrier image for Capture. Defaults to capture.Screen.
	Screen func(capture.Config) ([]byte, error)
}

// EncodeArgs are the arguments of Encode.
type EncodeArgs struct {
	Path      string
	ChunkType string
	Message   string
	// Output defaults to Path.
	Output   string
	Compress bool
}

// CaptureArgs are the arguments of Capture.
type CaptureArgs struct {
	Output    string
	ChunkType string
	Message   string
	Compress  bool
	Screen    capture.Config
}

// Embed replaces the first chunk of type t in f with one holding data,
// appended at the end of the file.
func Embed(f *png.File, t string, data []byte) (*png.Chunk, error) {
	chunkType, err := png.ParseChunkType(t)
	if err != nil {
		return nil, err
	}

	var nf *png.NotFoundError
	if _, err := f.RemoveChunk(t); err != nil && !errors.As(err, &nf) {
		return nil, err
	}

	c := png.NewChunk(chunkType, data)
	f.Append(c)
	return c, nil
}

// Reveal returns the message held by c as text.
func Reveal(c *png.Chunk) (string, error) {
	if !message.IsCompressed(c.Data()) {
		return c.DataString()
	}
	text, err := message.Unpack(c.Data())
	if err != nil {
		return "", err
	}
	return png.NewChunk(c.Type(), text).DataString()
}

// Encode hides a message in a chunk of the given type.
func (r *Runner) Encode(ctx context.Context, args EncodeArgs) error {
	f, err := load(args.Path)
	if err != nil {
		return err
	}

	c, err := Embed(f, args.ChunkType, message.Pack([]byte(args.Message), args.Compress))
	if err != nil {
		return err
	}

	output := args.Output
	if output == "" {
		output = args.Path
	}
	if err := save(output, f); err != nil {
		return err
	}
	logger.Log("encoded %s into %s", c, output)

	return r.record(ctx, ledger.OpEncode, output, c)
}

// Decode prints the message in the first chunk of type t.
func (r *Runner) Decode(ctx context.Context, path, t string) error {
	f, err := load(path)
	if err != nil {
		return err
	}

	c, ok := f.ChunkByType(t)
	if !ok {
		return fmt.Errorf("decoding %s: %w", path, &png.NotFoundError{Type: t})
	}

	s, err := Reveal(c)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}

	_, err = fmt.Fprintln(r.Out, s)
	return err
}

// Remove deletes the first chunk of type t and rewrites the file.
func (r *Runner) Remove(ctx context.Context, path, t string) error {
	f, err := load(path)
	if err != nil {
		return err
	}

	c, err := f.RemoveChunk(t)
	if err != nil {
		return fmt.Errorf("removing from %s: %w", path, err)
	}
	if err := save(path, f); err != nil {
		return err
	}
	fmt.Fprintf(r.Out, "removed %s\n", c)

	return r.record(ctx, ledger.OpRemove, path, c)
}

// Print writes a summary of every chunk in the file.
func (r *Runner) Print(ctx context.Context, path string) error {
	f, err := load(path)
	if err != nil {
		return err
	}

	size := uint64(len(png.Signature))
	for _, c := range f.Chunks() {
		size += 12 + uint64(c.Length())
	}
	fmt.Fprintf(r.Out, "%s: %d chunks, %s\n", path, len(f.Chunks()), humanize.Bytes(size))

	for i, c := range f.Chunks() {
		fmt.Fprintf(r.Out, "  #%d %s %10s  crc %08x", i, c.Type(), humanize.Bytes(uint64(c.Length())), c.CRC())
		if d := c.Describe(); d != "" {
			fmt.Fprintf(r.Out, "  %s", d)
		}
		fmt.Fprintln(r.Out)
	}
	return nil
}

// Capture takes a screenshot and hides a message in it.
func (r *Runner) Capture(ctx context.Context, args CaptureArgs) error {
	screen := r.Screen
	if screen == nil {
		screen = capture.Screen
	}

	raw, err := screen(args.Screen)
	if err != nil {
		return err
	}
	f, err := png.Parse(raw)
	if err != nil {
		return fmt.Errorf("parsing capture: %w", err)
	}

	c, err := Embed(f, args.ChunkType, message.Pack([]byte(args.Message), args.Compress))
	if err != nil {
		return err
	}
	if err := save(args.Output, f); err != nil {
		return err
	}
	logger.Log("captured display %d into %s", args.Screen.Display, args.Output)

	return r.record(ctx, ledger.OpCapture, args.Output, c)
}

// History prints the most recent ledger entries.
func (r *Runner) History(ctx context.Context, limit int) error {
	if r.Ledger == nil {
		return errors.New("history: no ledger configured")
	}

	entries, err := r.Ledger.List(ctx, limit)
	if err != nil {
		return err
	}
	for _, e := range entries {
		fmt.Fprintf(r.Out, "%s  %-7s %s %s  %s  crc %08x  %s\n",
			e.Time.Local().Format(time.DateTime), e.Op, e.ChunkType, humanize.Bytes(uint64(e.Length)), e.Path, e.CRC, humanize.Time(e.Time))
	}
	return nil
}

func (r *Runner) record(ctx context.Context, op, path string, c *png.Chunk) error {
	if r.Ledger == nil {
		return nil
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	_, err = r.Ledger.Record(ctx, ledger.Entry{
		Op:        op,
		Path:      abs,
		ChunkType: c.Type().String(),
		Length:    c.Length(),
		CRC:       c.CRC(),
	})
	return err
}

func load(path string) (*png.File, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}
	f, err := png.Parse(b)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return f, nil
}

// save replaces path with the encoded file in one rename.
func save(path string, f *png.File) error {
	perm := os.FileMode(0644)
	if fi, err := os.Stat(path); err == nil {
		perm = fi.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".pngme-*")
	if err != nil {
		return &IOError{Op: "create", Path: path, Err: err}
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(f.Bytes()); err != nil {
		tmp.Close()
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return &IOError{Op: "chmod", Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return &IOError{Op: "rename", Path: path, Err: err}
	}
	return nil
}
