// Package capture produces carrier PNG images from the screen.
package capture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"

	"github.com/kbinani/screenshot"
	"github.com/nfnt/resize"
)

// Config selects what to capture.
type Config struct {
	Display int
	// Width scales the image to this many pixels, keeping the aspect ratio.
	// 0 keeps the original size.
	Width uint
}

// Screen captures a display and returns it PNG encoded.
func Screen(config Config) ([]byte, error) {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return nil, errors.New("no active displays found")
	}
	if config.Display < 0 || config.Display >= n {
		return nil, fmt.Errorf("display %d not available (only %d displays)", config.Display, n)
	}

	bounds := screenshot.GetDisplayBounds(config.Display)
	img, err := screenshot.CaptureRect(bounds)
	if err != nil {
		return nil, fmt.Errorf("capture failed: %w", err)
	}
	return Encode(img, config.Width)
}

// Encode scales img to width, if non-zero, and encodes it as PNG.
func Encode(img image.Image, width uint) ([]byte, error) {
	if width != 0 && int(width) != img.Bounds().Dx() {
		img = resize.Resize(width, 0, img, resize.Lanczos3)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode failed: %w", err)
	}
	return buf.Bytes(), nil
}
