// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert drives batch SVG-to-PNG conversion: it discovers SVG
// files in a directory, skips those whose PNG is up to date, and renders
// the rest one at a time.
package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pdiddy/svg2png/internal/renderer"
	"github.com/pdiddy/svg2png/pkg/types"
)

const (
	inputPattern = "*.svg"
	outputExt    = ".png"
)

// Renderer turns one job into its output file.
type Renderer interface {
	// CommandLine returns the printable command for job.
	CommandLine(job types.Job) string
	// Render produces job.Output and blocks until it is written.
	Render(ctx context.Context, job types.Job) error
}

// Options tunes a batch run.
type Options struct {
	// Force renders every job regardless of modification times.
	Force bool
}

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Dir       string             `json:"dir" yaml:"dir"`
	Started   time.Time          `json:"started" yaml:"started"`
	Finished  time.Time          `json:"finished" yaml:"finished"`
	Converted int                `json:"converted" yaml:"converted"`
	Skipped   int                `json:"skipped" yaml:"skipped"`
	Failed    int                `json:"failed" yaml:"failed"`
	Files     []types.FileResult `json:"files" yaml:"files"`
}

// Total returns the total number of files processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Skipped + r.Failed
}

// HasFailures reports whether any file failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Discover returns a job for every file matching *.svg directly inside
// dir, in the lexical order os.ReadDir yields. Hidden files are skipped.
// Paths are absolute with symlinks resolved.
func Discover(dir string) ([]types.Job, error) {
	abs, err := resolveDir(dir)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", abs, err)
	}

	var jobs []types.Job
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if ok, _ := filepath.Match(inputPattern, name); !ok {
			continue
		}
		base := strings.TrimSuffix(name, filepath.Ext(name))
		jobs = append(jobs, types.Job{
			Name:   base,
			Input:  filepath.Join(abs, name),
			Output: filepath.Join(abs, base+outputExt),
		})
	}
	return jobs, nil
}

func resolveDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", dir, err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", abs, err)
	}
	return resolved, nil
}

// NeedsUpdate reports whether output must be (re)generated from input:
// true when either file is missing, otherwise true iff input was modified
// strictly after output.
func NeedsUpdate(output, input string) bool {
	in, err := os.Stat(input)
	if err != nil || !in.Mode().IsRegular() {
		return true
	}
	out, err := os.Stat(output)
	if err != nil || !out.Mode().IsRegular() {
		return true
	}
	return in.ModTime().After(out.ModTime())
}

// ConvertFile renders a single job if its output is stale, printing the
// command line to w before running it.
func ConvertFile(ctx context.Context, r Renderer, job types.Job, opts Options, w io.Writer) types.FileResult {
	res := types.FileResult{
		Name:   job.Name,
		Input:  job.Input,
		Output: job.Output,
	}

	if !opts.Force && !NeedsUpdate(job.Output, job.Input) {
		log.Debug().Str("file", job.Name).Msg("output up to date")
		res.Status = types.ConversionSkipped
		return res
	}

	res.Command = r.CommandLine(job)
	fmt.Fprintln(w, res.Command)

	start := time.Now()
	err := r.Render(ctx, job)
	res.Duration = time.Since(start)

	if err != nil {
		res.Status = types.ConversionFailed
		res.Error = err.Error()
		res.ExitCode = -1
		var exitErr *renderer.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.Code
		}
		fmt.Fprintf(w, "failed:  %s (%v)\n", job.Name, err)
		log.Warn().Str("file", job.Name).Int("exit_code", res.ExitCode).Err(err).Msg("render failed")
		return res
	}

	fmt.Fprintf(w, "converted: %s\n", job.Name)
	log.Debug().Str("file", job.Name).Dur("took", res.Duration).Msg("rendered")
	res.Status = types.ConversionDone
	return res
}

// ConvertBatch processes jobs sequentially, printing per-file status to w
// and returning a summary. A failing job does not stop the batch; a
// canceled ctx does, leaving the remaining jobs unprocessed.
func ConvertBatch(ctx context.Context, r Renderer, jobs []types.Job, opts Options, w io.Writer) BatchResult {
	result := BatchResult{Started: time.Now()}
	if len(jobs) > 0 {
		result.Dir = filepath.Dir(jobs[0].Input)
	}

	for _, job := range jobs {
		if ctx.Err() != nil {
			log.Warn().Int("remaining", len(jobs)-result.Total()).Msg("batch interrupted")
			break
		}

		res := ConvertFile(ctx, r, job, opts, w)
		switch res.Status {
		case types.ConversionDone:
			result.Converted++
		case types.ConversionSkipped:
			result.Skipped++
		case types.ConversionFailed:
			result.Failed++
		}
		result.Files = append(result.Files, res)
	}

	result.Finished = time.Now()
	fmt.Fprintf(w, "\nBatch summary: %d converted, %d skipped, %d failed (total: %d)\n",
		result.Converted, result.Skipped, result.Failed, result.Total())
	return result
}

// ConvertDir discovers the SVG files in dir and converts them.
func ConvertDir(ctx context.Context, r Renderer, dir string, opts Options, w io.Writer) (BatchResult, error) {
	jobs, err := Discover(dir)
	if err != nil {
		return BatchResult{}, err
	}
	log.Info().Str("dir", dir).Int("files", len(jobs)).Msg("starting batch")

	result := ConvertBatch(ctx, r, jobs, opts, w)
	if resolved, err := resolveDir(dir); err == nil {
		result.Dir = resolved
	}
	return result, nil
}
