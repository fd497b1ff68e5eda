// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package renderer

import (
	"context"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/svg2png/pkg/types"
)

const squareSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="40" height="20" viewBox="0 0 40 20">
  <rect x="0" y="0" width="40" height="20" fill="#ff0000"/>
</svg>`

func writeSVG(t *testing.T, dir, name, content string) types.Job {
	t.Helper()
	in := filepath.Join(dir, name+".svg")
	require.NoError(t, os.WriteFile(in, []byte(content), 0o644))
	return types.Job{Name: name, Input: in, Output: filepath.Join(dir, name+".png")}
}

func decodeSize(t *testing.T, path string) (int, int) {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	return cfg.Width, cfg.Height
}

func TestBuiltinRender(t *testing.T) {
	tests := []struct {
		name  string
		cfg   types.ConversionConfig
		wantW int
		wantH int
	}{
		{name: "native view box size", wantW: 40, wantH: 20},
		{name: "dpi scales view box", cfg: types.ConversionConfig{DPI: 192}, wantW: 80, wantH: 40},
		{name: "width keeps aspect ratio", cfg: types.ConversionConfig{Width: 10}, wantW: 10, wantH: 5},
		{name: "explicit width and height", cfg: types.ConversionConfig{Width: 8, Height: 8}, wantW: 8, wantH: 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := writeSVG(t, t.TempDir(), "square", squareSVG)

			b := NewBuiltin(tt.cfg)
			require.NoError(t, b.Render(context.Background(), job))

			w, h := decodeSize(t, job.Output)
			assert.Equal(t, tt.wantW, w)
			assert.Equal(t, tt.wantH, h)
		})
	}
}

func TestBuiltinRenderMissingInput(t *testing.T) {
	dir := t.TempDir()
	job := types.Job{Name: "gone", Input: filepath.Join(dir, "gone.svg"), Output: filepath.Join(dir, "gone.png")}

	err := NewBuiltin(types.ConversionConfig{}).Render(context.Background(), job)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening SVG")
	assert.NoFileExists(t, job.Output)
}

func TestBuiltinRenderCanceled(t *testing.T) {
	job := writeSVG(t, t.TempDir(), "square", squareSVG)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewBuiltin(types.ConversionConfig{}).Render(ctx, job)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuiltinCommandLine(t *testing.T) {
	b := NewBuiltin(types.ConversionConfig{})
	assert.Equal(t, "builtin /a/x.svg -> /a/x.png", b.CommandLine(types.Job{Input: "/a/x.svg", Output: "/a/x.png"}))
}
