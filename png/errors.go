package png

import (
	"fmt"

	"github.com/pkg/errors"
)

// FormatError reports malformed PNG framing: a bad type tag, truncated or
// oversized chunk, wrong signature, CRC mismatch or non-text payload.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return "png: " + e.Reason
}

// NotFoundError reports that no chunk of the requested type exists.
type NotFoundError struct {
	Type string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("png: no chunk of type %q", e.Type)
}

func formatError(format string, args ...interface{}) error {
	return errors.WithStack(&FormatError{Reason: fmt.Sprintf(format, args...)})
}

func notFound(t string) error {
	return errors.WithStack(&NotFoundError{Type: t})
}
