// Package sysboard implements the system clipboard.
// It uses golang.design/x/clipboard where the native API is available and
// falls back to platform commands: pbcopy/pbpaste on macOS, and wl-copy,
// xclip or xsel on Linux. On Linux the commands are preferred because they
// keep serving the selection after sipp exits.
package sysboard

import (
	"bytes"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"sync"

	"golang.design/x/clipboard"

	sippclip "github.com/yiblet/sipp/internal/clipboard"
)

// SystemClipboard implements clipboard.Clipboard for the running OS.
type SystemClipboard struct {
	initOnce sync.Once
	initErr  error
}

var _ sippclip.Clipboard = (*SystemClipboard)(nil)

// New creates a new SystemClipboard instance
func New() *SystemClipboard {
	return &SystemClipboard{}
}

func (s *SystemClipboard) native() bool {
	s.initOnce.Do(func() {
		s.initErr = clipboard.Init()
	})
	return s.initErr == nil
}

type command struct {
	name string
	args []string
}

func writeCommands() []command {
	switch runtime.GOOS {
	case "darwin":
		return []command{{"pbcopy", nil}}
	case "linux":
		return []command{
			{"wl-copy", nil},
			{"xclip", []string{"-selection", "clipboard"}},
			{"xsel", []string{"--clipboard", "--input"}},
		}
	}
	return nil
}

func readCommands() []command {
	switch runtime.GOOS {
	case "darwin":
		return []command{{"pbpaste", nil}}
	case "linux":
		return []command{
			{"wl-paste", []string{"--no-newline"}},
			{"xclip", []string{"-selection", "clipboard", "-o"}},
			{"xsel", []string{"--clipboard", "--output"}},
		}
	}
	return nil
}

func available(cmds []command) []command {
	var out []command
	for _, c := range cmds {
		if _, err := exec.LookPath(c.name); err == nil {
			out = append(out, c)
		}
	}
	return out
}

// IsSupported returns true if clipboard operations are supported on this system
func (s *SystemClipboard) IsSupported() bool {
	return len(available(writeCommands())) > 0 || s.native()
}

// Read implements Clipboard.Read for SystemClipboard
func (s *SystemClipboard) Read() (io.ReadCloser, error) {
	if runtime.GOOS != "linux" && s.native() {
		return io.NopCloser(bytes.NewReader(clipboard.Read(clipboard.FmtText))), nil
	}

	var lastErr error
	for _, c := range available(readCommands()) {
		var out bytes.Buffer
		cmd := exec.Command(c.name, c.args...)
		cmd.Stdout = &out
		if err := cmd.Run(); err != nil {
			lastErr = fmt.Errorf("%s: %w", c.name, err)
			continue
		}
		return io.NopCloser(&out), nil
	}

	if s.native() {
		return io.NopCloser(bytes.NewReader(clipboard.Read(clipboard.FmtText))), nil
	}
	if lastErr != nil {
		return nil, fmt.Errorf("failed to read clipboard: %w", lastErr)
	}
	return nil, sippclip.ErrUnsupported
}

// Write implements Clipboard.Write for SystemClipboard
func (s *SystemClipboard) Write(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	if runtime.GOOS != "linux" && s.native() {
		clipboard.Write(clipboard.FmtText, data)
		return nil
	}

	var lastErr error
	for _, c := range available(writeCommands()) {
		cmd := exec.Command(c.name, c.args...)
		cmd.Stdin = bytes.NewReader(data)
		if err := cmd.Run(); err != nil {
			lastErr = fmt.Errorf("%s: %w", c.name, err)
			continue
		}
		return nil
	}

	if s.native() {
		clipboard.Write(clipboard.FmtText, data)
		return nil
	}
	if lastErr != nil {
		return fmt.Errorf("failed to write clipboard: %w", lastErr)
	}
	return sippclip.ErrUnsupported
}
