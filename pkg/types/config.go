package types

// ConversionBackend identifies the tool that rasterizes SVG files.
type ConversionBackend string

const (
	BackendInkscape ConversionBackend = "inkscape"
	BackendBuiltin  ConversionBackend = "builtin"
)

// ArgStyle selects the Inkscape command-line dialect.
type ArgStyle string

const (
	// ArgStyleLegacy uses "-f <input> -e <output>" (Inkscape 0.x).
	ArgStyleLegacy ArgStyle = "legacy"
	// ArgStyleModern uses "<input> --export-filename=<output>" (Inkscape 1.x).
	ArgStyleModern ArgStyle = "modern"
)

// PauseMode controls whether the CLI waits for a line on stdin before exiting.
type PauseMode string

const (
	PauseAuto   PauseMode = "auto"
	PauseAlways PauseMode = "always"
	PauseNever  PauseMode = "never"
)

// ConversionConfig holds settings for a batch conversion run.
type ConversionConfig struct {
	// Dir is the directory scanned for *.svg files (non-recursive).
	Dir string `json:"dir" yaml:"dir"`

	// Backend selects the renderer: inkscape or builtin.
	Backend ConversionBackend `json:"backend" yaml:"backend"`

	// RendererPath is the Inkscape executable. Empty means a PATH lookup.
	RendererPath string `json:"renderer" yaml:"renderer"`

	// ArgStyle selects the Inkscape argument dialect (default legacy).
	ArgStyle ArgStyle `json:"arg_style" yaml:"arg_style"`

	// Width and Height are the requested output size in pixels (0 = native).
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`

	// DPI is the export resolution (0 = renderer default).
	DPI int `json:"dpi" yaml:"dpi"`

	// Force regenerates every output regardless of modification times.
	Force bool `json:"force" yaml:"force"`

	// Pause controls the wait-for-enter at the end of the run.
	Pause PauseMode `json:"pause" yaml:"pause"`

	// HistoryPath is the SQLite run history database. Empty disables history.
	HistoryPath string `json:"history" yaml:"history"`

	// ReportPath, when set, receives a YAML or JSON batch report.
	ReportPath string `json:"report,omitempty" yaml:"report,omitempty"`
}
