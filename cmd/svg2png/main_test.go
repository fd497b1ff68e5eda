package main

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/svg2png/internal/history"
	"github.com/pdiddy/svg2png/pkg/types"
)

func setConfig(t *testing.T, values map[string]any) {
	t.Helper()
	for k, v := range values {
		viper.Set(k, v)
	}
	t.Cleanup(viper.Reset)
}

func TestConversionConfigDefaults(t *testing.T) {
	setConfig(t, map[string]any{"dir": "icons", "pause": "auto"})

	cfg, err := conversionConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, "icons", cfg.Dir)
	assert.Equal(t, types.PauseAuto, cfg.Pause)
	assert.Equal(t, filepath.Join("icons", history.DefaultPath), cfg.HistoryPath)
}

func TestConversionConfigOverrides(t *testing.T) {
	setConfig(t, map[string]any{
		"dir":        "icons",
		"renderer":   "/opt/inkscape/bin/inkscape",
		"arg_style":  "modern",
		"width":      64,
		"no_pause":   true,
		"no_history": true,
		"force":      true,
	})

	cfg, err := conversionConfig([]string{"assets"})
	require.NoError(t, err)
	assert.Equal(t, "assets", cfg.Dir, "positional dir wins over --dir")
	assert.Equal(t, "/opt/inkscape/bin/inkscape", cfg.RendererPath)
	assert.Equal(t, types.ArgStyleModern, cfg.ArgStyle)
	assert.Equal(t, 64, cfg.Width)
	assert.Equal(t, types.PauseNever, cfg.Pause)
	assert.Empty(t, cfg.HistoryPath)
	assert.True(t, cfg.Force)
}

func TestConversionConfigBadPause(t *testing.T) {
	setConfig(t, map[string]any{"pause": "maybe"})

	_, err := conversionConfig(nil)
	assert.Error(t, err)
}

func TestFormatHistory(t *testing.T) {
	runs := []history.Run{{
		ID:        7,
		Dir:       "/work/icons",
		Started:   time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Converted: 1,
		Failed:    1,
		Files: []types.FileResult{
			{Name: "a", Status: types.ConversionDone},
			{Name: "b", Status: types.ConversionFailed, ExitCode: 1, Error: "renderer exited with code 1"},
		},
	}}

	var out bytes.Buffer
	require.NoError(t, formatHistory(&out, runs, false))
	assert.Contains(t, out.String(), "/work/icons")
	assert.Contains(t, out.String(), "failed b (exit 1): renderer exited with code 1")
	assert.NotContains(t, out.String(), "failed a")

	out.Reset()
	require.NoError(t, formatHistory(&out, nil, false))
	assert.Equal(t, "No runs recorded.\n", out.String())

	out.Reset()
	require.NoError(t, formatHistory(&out, runs, true))
	assert.Contains(t, out.String(), `"dir": "/work/icons"`)
}
