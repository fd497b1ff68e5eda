package types

import "time"

// ConversionStatus indicates the outcome of converting one SVG file.
type ConversionStatus string

const (
	ConversionDone    ConversionStatus = "converted"
	ConversionSkipped ConversionStatus = "skipped"
	ConversionFailed  ConversionStatus = "failed"
)

// Job pairs an SVG input with the PNG output derived from it. Both paths
// are absolute; Name is the shared base name without extension.
type Job struct {
	Name   string `json:"name" yaml:"name"`
	Input  string `json:"input" yaml:"input"`
	Output string `json:"output" yaml:"output"`
}

// FileResult records what happened to a single job during a batch.
type FileResult struct {
	Name   string           `json:"name" yaml:"name"`
	Input  string           `json:"input" yaml:"input"`
	Output string           `json:"output" yaml:"output"`
	Status ConversionStatus `json:"status" yaml:"status"`

	// Command is the renderer command line, empty for skipped files.
	Command string `json:"command,omitempty" yaml:"command,omitempty"`

	// ExitCode is the renderer exit status; -1 when no process exit code
	// is available (process could not be started, or in-process backend).
	ExitCode int `json:"exit_code" yaml:"exit_code"`

	// Error is the failure message for failed files.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	Duration time.Duration `json:"duration" yaml:"duration"`
}
