package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/svg2png/internal/console"
	"github.com/pdiddy/svg2png/internal/convert"
	"github.com/pdiddy/svg2png/internal/history"
	"github.com/pdiddy/svg2png/internal/renderer"
	"github.com/pdiddy/svg2png/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert [dir]",
	Short: "Convert stale SVG files in a directory to PNG",
	Long: `Convert renders every *.svg file in dir (default: the current directory)
whose PNG output is missing or older than the SVG. Each renderer command
line is printed before it runs. A failing file does not stop the batch;
the command exits non-zero if any file failed.

By default the tool waits for enter before exiting when stdin is a
terminal. Use --pause never (or --no-pause) to skip the wait.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
}

// addConversionFlags registers the conversion settings as persistent flags
// on cmd and binds each to its viper key.
func addConversionFlags(cmd *cobra.Command) {
	fs := cmd.PersistentFlags()
	fs.String("dir", ".", "directory containing the SVG files")
	fs.String("backend", string(types.BackendInkscape), "renderer backend: inkscape or builtin")
	fs.String("renderer", "", "path to the Inkscape executable (default: inkscape on PATH)")
	fs.String("arg-style", string(types.ArgStyleLegacy), "Inkscape arguments: legacy (-f/-e) or modern (--export-filename)")
	fs.Int("width", 0, "output width in pixels (0 = native)")
	fs.Int("height", 0, "output height in pixels (0 = native)")
	fs.Int("dpi", 0, "export resolution (0 = renderer default)")
	fs.Bool("force", false, "regenerate every PNG regardless of modification times")
	fs.String("pause", string(types.PauseAuto), "wait for enter before exiting: auto, always or never")
	fs.Bool("no-pause", false, "never wait for enter (same as --pause never)")
	fs.String("history", "", "run history database (default: <dir>/"+history.DefaultPath+")")
	fs.Bool("no-history", false, "do not record the run in the history database")
	fs.String("report", "", "write a batch report to this .yaml or .json file")

	bindFlags(fs, map[string]string{
		"dir":        "dir",
		"backend":    "backend",
		"renderer":   "renderer",
		"arg-style":  "arg_style",
		"width":      "width",
		"height":     "height",
		"dpi":        "dpi",
		"force":      "force",
		"pause":      "pause",
		"no-pause":   "no_pause",
		"history":    "history",
		"no-history": "no_history",
		"report":     "report",
	})
}

func bindFlags(fs *pflag.FlagSet, keys map[string]string) {
	for flag, key := range keys {
		mustBind(key, fs.Lookup(flag))
	}
}

func mustBind(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("binding flag for %s: %v", key, err))
	}
}

// conversionConfig assembles the run settings from flags, environment,
// config file and defaults. A positional dir argument overrides --dir.
func conversionConfig(args []string) (types.ConversionConfig, error) {
	dir := viper.GetString("dir")
	if len(args) > 0 {
		dir = args[0]
	}
	if dir == "" {
		dir = "."
	}

	pause, err := console.ParseMode(viper.GetString("pause"))
	if err != nil {
		return types.ConversionConfig{}, err
	}
	if viper.GetBool("no_pause") {
		pause = types.PauseNever
	}

	historyPath := viper.GetString("history")
	if historyPath == "" {
		historyPath = filepath.Join(dir, history.DefaultPath)
	}
	if viper.GetBool("no_history") {
		historyPath = ""
	}

	return types.ConversionConfig{
		Dir:          dir,
		Backend:      types.ConversionBackend(viper.GetString("backend")),
		RendererPath: viper.GetString("renderer"),
		ArgStyle:     types.ArgStyle(viper.GetString("arg_style")),
		Width:        viper.GetInt("width"),
		Height:       viper.GetInt("height"),
		DPI:          viper.GetInt("dpi"),
		Force:        viper.GetBool("force"),
		Pause:        pause,
		HistoryPath:  historyPath,
		ReportPath:   viper.GetString("report"),
	}, nil
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := conversionConfig(args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runErr := convertOnce(ctx, cfg, os.Stdout)
	finishRun(cfg.Pause, os.Stdin, os.Stdout)
	return runErr
}

// finishRun holds the console open after a batch, whatever its outcome.
func finishRun(mode types.PauseMode, in io.Reader, out io.Writer) {
	if !console.ShouldPause(mode, in) {
		return
	}
	if err := console.WaitForEnter(in, out); err != nil {
		log.Debug().Err(err).Msg("reading stdin")
	}
}

// convertOnce resolves the renderer and runs one batch. An Inkscape
// executable that cannot be found does not stop the batch; each stale
// file is recorded as failed instead.
func convertOnce(ctx context.Context, cfg types.ConversionConfig, w io.Writer) error {
	r, err := renderer.New(cfg)
	if err != nil {
		return err
	}
	_, err = runBatch(ctx, r, cfg, w)
	return err
}

// runBatch converts cfg.Dir with r, then writes the report and history
// entry when configured. It returns an error if any file failed.
func runBatch(ctx context.Context, r renderer.Renderer, cfg types.ConversionConfig, w io.Writer) (convert.BatchResult, error) {
	log.Debug().Str("backend", r.Name()).Str("dir", cfg.Dir).Msg("renderer ready")

	result, err := convert.ConvertDir(ctx, r, cfg.Dir, convert.Options{Force: cfg.Force}, w)
	if err != nil {
		return result, err
	}

	if cfg.ReportPath != "" {
		if err := convert.WriteReport(result, cfg.ReportPath); err != nil {
			log.Warn().Err(err).Str("path", cfg.ReportPath).Msg("writing report")
		} else {
			log.Info().Str("path", cfg.ReportPath).Msg("report written")
		}
	}

	if cfg.HistoryPath != "" && result.Total() > 0 {
		if err := recordHistory(ctx, cfg.HistoryPath, result); err != nil {
			log.Warn().Err(err).Str("path", cfg.HistoryPath).Msg("recording history")
		}
	}

	if result.HasFailures() {
		return result, fmt.Errorf("%d file(s) failed conversion", result.Failed)
	}
	return result, nil
}

func recordHistory(ctx context.Context, path string, result convert.BatchResult) error {
	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	_, err = store.Record(ctx, result)
	return err
}
