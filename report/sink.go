// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package report

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/mattn/go-isatty"
	"github.com/skratchdot/open-golang/open"
)

// Sink receives rendered figures.
type Sink interface {
	Emit(name string, fig Figure) error
}

// FileSink writes each figure into a directory under its own name.
type FileSink struct {
	dir    string
	logger *slog.Logger
}

// NewFileSink returns a sink writing into dir, creating it if needed.
func NewFileSink(dir string, logger *slog.Logger) (*FileSink, error) {
	if dir == "" {
		return nil, ErrOutputDirRequired
	}
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileSink{dir: dir, logger: logger.With("component", "report")}, nil
}

// Dir returns the output directory.
func (s *FileSink) Dir() string {
	return s.dir
}

// Emit renders fig to dir/name.
func (s *FileSink) Emit(name string, fig Figure) error {
	path := filepath.Join(s.dir, name)
	if err := writeFigure(path, fig); err != nil {
		return err
	}
	s.logger.Info("saved figure", "path", path)
	return nil
}

// DisplaySink renders each figure to a temporary file and opens it with
// the platform's default viewer.
type DisplaySink struct {
	open   func(path string) error
	logger *slog.Logger
}

// NewDisplaySink returns a sink that opens figures in the desktop viewer.
func NewDisplaySink(logger *slog.Logger) *DisplaySink {
	if logger == nil {
		logger = slog.Default()
	}
	return &DisplaySink{open: open.Run, logger: logger.With("component", "report")}
}

// Emit renders fig to a temporary PNG and opens it.
func (s *DisplaySink) Emit(name string, fig Figure) error {
	f, err := os.CreateTemp("", "medseq-*-"+name)
	if err != nil {
		return err
	}
	path := f.Name()
	if err := fig.WritePNG(f); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("render %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return err
	}
	s.logger.Debug("opening figure", "name", name, "path", path)
	return s.open(path)
}

func writeFigure(path string, fig Figure) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fig.WritePNG(f); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("render %s: %w", filepath.Base(path), err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return err
	}
	return nil
}

// DetectInteractive reports whether output is going to a terminal on a
// machine that can show images.
func DetectInteractive(out *os.File) bool {
	fd := out.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return false
	}
	switch runtime.GOOS {
	case "darwin", "windows":
		return true
	default:
		return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
	}
}

// DetectSink picks a DisplaySink when interactive and a FileSink on dir
// otherwise.
func DetectSink(interactive bool, dir string, logger *slog.Logger) (Sink, error) {
	if interactive {
		return NewDisplaySink(logger), nil
	}
	return NewFileSink(dir, logger)
}

// Discard is a Sink that drops every figure.
var Discard Sink = discard{}

type discard struct{}

func (discard) Emit(string, Figure) error { return nil }
