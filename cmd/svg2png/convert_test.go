package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/svg2png/internal/history"
	"github.com/pdiddy/svg2png/pkg/types"
)

const missingRenderer = "/nonexistent/inkscape"

func writeAt(t *testing.T, path string, mtime time.Time) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("data"), 0o644))
	require.NoError(t, os.Chtimes(path, mtime, mtime))
}

func missingRendererConfig(dir string) types.ConversionConfig {
	return types.ConversionConfig{Dir: dir, RendererPath: missingRenderer, Pause: types.PauseNever}
}

func TestConvertOnceMissingRendererNothingStale(t *testing.T) {
	tests := []struct {
		name  string
		files func(t *testing.T, dir string)
		want  string
	}{
		{
			name:  "empty directory",
			files: func(*testing.T, string) {},
			want:  "0 converted, 0 skipped, 0 failed (total: 0)",
		},
		{
			name: "outputs up to date",
			files: func(t *testing.T, dir string) {
				now := time.Now()
				writeAt(t, filepath.Join(dir, "chart.svg"), now.Add(-2*time.Hour))
				writeAt(t, filepath.Join(dir, "chart.png"), now.Add(-time.Hour))
			},
			want: "0 converted, 1 skipped, 0 failed (total: 1)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			tt.files(t, dir)

			var out bytes.Buffer
			err := convertOnce(context.Background(), missingRendererConfig(dir), &out)
			require.NoError(t, err)
			assert.NotContains(t, out.String(), missingRenderer, "no command is printed")
			assert.Contains(t, out.String(), tt.want)
		})
	}
}

func TestConvertOnceMissingRendererFailsStaleFiles(t *testing.T) {
	dir := t.TempDir()
	writeAt(t, filepath.Join(dir, "logo.svg"), time.Now())
	historyPath := filepath.Join(t.TempDir(), "history.db")

	cfg := missingRendererConfig(dir)
	cfg.HistoryPath = historyPath

	var out bytes.Buffer
	err := convertOnce(context.Background(), cfg, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 file(s) failed conversion")

	resolved, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	wantCmd := `"` + missingRenderer + `" -f ` + filepath.Join(resolved, "logo.svg") + ` -e ` + filepath.Join(resolved, "logo.png")
	assert.Equal(t, wantCmd, strings.SplitN(out.String(), "\n", 2)[0])
	assert.Contains(t, out.String(), "failed:  logo")
	assert.Contains(t, out.String(), "0 converted, 0 skipped, 1 failed (total: 1)")

	store, err := history.Open(historyPath)
	require.NoError(t, err)
	defer store.Close()
	runs, err := store.Recent(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.Len(t, runs[0].Files, 1)
	assert.Equal(t, types.ConversionFailed, runs[0].Files[0].Status)
	assert.Equal(t, 127, runs[0].Files[0].ExitCode)
}

func TestFinishRunPausesAfterEmptyBatch(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	require.NoError(t, convertOnce(context.Background(), missingRendererConfig(dir), &out))

	in := strings.NewReader("\n")
	finishRun(types.PauseAlways, in, &out)
	assert.Contains(t, out.String(), "press enter")
	assert.Zero(t, in.Len(), "waited on stdin")
}

func TestFinishRunNeverPause(t *testing.T) {
	in := strings.NewReader("\n")
	var out bytes.Buffer
	finishRun(types.PauseNever, in, &out)
	assert.Empty(t, out.String())
	assert.Equal(t, 1, in.Len(), "stdin is untouched")
}
