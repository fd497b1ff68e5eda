// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package renderer

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/pdiddy/svg2png/pkg/types"
)

const (
	binInkscape = "inkscape"
	// exitNotFound is the shell's exit status for a missing command.
	exitNotFound = 127
)

// Inkscape renders through the Inkscape command-line export mode.
type Inkscape struct {
	bin    string
	style  types.ArgStyle
	width  int
	height int
	dpi    int
	exec   executor

	// missing is set when bin could not be resolved; every Render then
	// fails with exit code 127 without starting a process.
	missing error
}

// NewInkscape resolves the Inkscape executable from cfg.RendererPath, or
// from PATH when no path is configured. An executable that cannot be
// resolved is not an error here: the renderer keeps the configured name
// and reports ErrNotFound for each file it is asked to render.
func NewInkscape(cfg types.ConversionConfig) (*Inkscape, error) {
	return newInkscape(cfg, defaultExec)
}

func newInkscape(cfg types.ConversionConfig, exec executor) (*Inkscape, error) {
	want := cfg.RendererPath
	if want == "" {
		want = binInkscape
	}
	style := cfg.ArgStyle
	switch style {
	case "":
		style = types.ArgStyleLegacy
	case types.ArgStyleLegacy, types.ArgStyleModern:
	default:
		return nil, fmt.Errorf("unknown argument style %q: use %s or %s",
			style, types.ArgStyleLegacy, types.ArgStyleModern)
	}

	k := &Inkscape{
		bin:    want,
		style:  style,
		width:  cfg.Width,
		height: cfg.Height,
		dpi:    cfg.DPI,
		exec:   exec,
	}
	bin, err := exec.LookPath(want)
	if err != nil {
		k.missing = fmt.Errorf("%w: %s: %v", ErrNotFound, want, err)
		log.Warn().Str("renderer", want).Err(err).Msg("renderer not found, stale files will fail")
		return k, nil
	}
	k.bin = bin
	return k, nil
}

func (k *Inkscape) Name() string { return binInkscape }

// Path returns the resolved executable, or the configured name when it
// could not be resolved.
func (k *Inkscape) Path() string { return k.bin }

// Err returns the resolution error, nil when the executable was found.
func (k *Inkscape) Err() error { return k.missing }

// Args returns the argument vector for job, excluding the executable.
func (k *Inkscape) Args(job types.Job) []string {
	if k.style == types.ArgStyleModern {
		args := []string{job.Input, "--export-type=png", "--export-filename=" + job.Output}
		if k.width > 0 {
			args = append(args, "--export-width="+strconv.Itoa(k.width))
		}
		if k.height > 0 {
			args = append(args, "--export-height="+strconv.Itoa(k.height))
		}
		if k.dpi > 0 {
			args = append(args, "--export-dpi="+strconv.Itoa(k.dpi))
		}
		return args
	}

	args := []string{"-f", job.Input, "-e", job.Output}
	if k.width > 0 {
		args = append(args, "-w", strconv.Itoa(k.width))
	}
	if k.height > 0 {
		args = append(args, "-h", strconv.Itoa(k.height))
	}
	if k.dpi > 0 {
		args = append(args, "-d", strconv.Itoa(k.dpi))
	}
	return args
}

// CommandLine formats the invocation as `"<bin>" arg...`.
func (k *Inkscape) CommandLine(job types.Job) string {
	return `"` + k.bin + `" ` + strings.Join(k.Args(job), " ")
}

func (k *Inkscape) Render(ctx context.Context, job types.Job) error {
	if k.missing != nil {
		return &ExitError{Code: exitNotFound, Err: k.missing}
	}
	code, stderr, err := k.exec.Run(ctx, k.bin, k.Args(job))
	if err != nil {
		return &ExitError{Code: code, Stderr: stderrTail(stderr), Err: err}
	}
	return nil
}
