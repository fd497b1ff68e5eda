// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package renderer rasterizes SVG files into PNG files. The default backend
// shells out to Inkscape in its headless export mode; the builtin backend
// rasterizes in-process.
package renderer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/pdiddy/svg2png/pkg/types"
)

// ErrNotFound is returned when the renderer executable cannot be resolved.
var ErrNotFound = errors.New("renderer executable not found")

// Renderer converts one SVG job into its PNG output.
type Renderer interface {
	// Name returns the backend name ("inkscape" or "builtin").
	Name() string

	// CommandLine returns the printable command line used for job.
	CommandLine(job types.Job) string

	// Render produces job.Output from job.Input and blocks until done.
	Render(ctx context.Context, job types.Job) error
}

// ExitError reports a renderer process that ran but did not succeed.
type ExitError struct {
	Code   int
	Stderr string
	Err    error
}

func (e *ExitError) Error() string {
	if errors.Is(e.Err, ErrNotFound) {
		return e.Err.Error()
	}
	msg := fmt.Sprintf("renderer exited with code %d", e.Code)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *ExitError) Unwrap() error { return e.Err }

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	// Run starts name with args, waits for it, and returns its exit code
	// along with anything written to stderr.
	Run(ctx context.Context, name string, args []string) (int, []byte, error)
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) Run(ctx context.Context, name string, args []string) (int, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return 0, stderr.Bytes(), nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), stderr.Bytes(), err
	}

	code := -1
	var execErr *exec.Error
	if errors.As(err, &execErr) {
		code = exitNotFound
	}
	return code, stderr.Bytes(), err
}

var defaultExec = &osExecutor{}

// New builds the renderer selected by cfg.Backend. For the inkscape
// backend the executable is resolved once, here; a missing executable
// surfaces per file from Render rather than from New.
func New(cfg types.ConversionConfig) (Renderer, error) {
	return newRenderer(cfg, defaultExec)
}

func newRenderer(cfg types.ConversionConfig, exec executor) (Renderer, error) {
	switch cfg.Backend {
	case types.BackendInkscape, "":
		return newInkscape(cfg, exec)
	case types.BackendBuiltin:
		return NewBuiltin(cfg), nil
	default:
		return nil, fmt.Errorf("unknown backend %q: use %s or %s",
			cfg.Backend, types.BackendInkscape, types.BackendBuiltin)
	}
}

// stderrTail keeps the last line of renderer stderr for error messages.
func stderrTail(b []byte) string {
	s := strings.TrimSpace(string(b))
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		s = strings.TrimSpace(s[i+1:])
	}
	const limit = 200
	if len(s) > limit {
		s = s[len(s)-limit:]
	}
	return s
}
