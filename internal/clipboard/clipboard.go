// Package clipboard defines the clipboard abstraction used by the TUI and the
// upload command. sysboard talks to the OS clipboard; mockboard is for tests.
package clipboard

import (
	"errors"
	"io"
	"strings"
)

// ErrUnsupported is returned when no clipboard mechanism is available.
var ErrUnsupported = errors.New("clipboard not supported on this system")

// Clipboard reads and writes clipboard contents as streams.
type Clipboard interface {
	Read() (io.ReadCloser, error)
	Write(r io.Reader) error
	IsSupported() bool
}

// WriteText copies s to c.
func WriteText(c Clipboard, s string) error {
	if c == nil {
		return ErrUnsupported
	}
	return c.Write(strings.NewReader(s))
}

// ReadText returns the clipboard contents as a string.
func ReadText(c Clipboard) (string, error) {
	if c == nil {
		return "", ErrUnsupported
	}
	rc, err := c.Read()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
