// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package console

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/svg2png/pkg/types"
)

func TestWaitForEnter(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "reads one line", input: "\nleftover\n"},
		{name: "accepts EOF", input: ""},
		{name: "line without newline", input: "ok"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := strings.NewReader(tt.input)
			var out bytes.Buffer
			require.NoError(t, WaitForEnter(in, &out))
			assert.True(t, strings.HasPrefix(out.String(), "press enter"))
		})
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("closed") }

func TestWaitForEnterReadError(t *testing.T) {
	err := WaitForEnter(failingReader{}, &bytes.Buffer{})
	assert.EqualError(t, err, "closed")
}

func TestShouldPause(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "stdin"))
	require.NoError(t, err)
	defer f.Close()

	assert.True(t, ShouldPause(types.PauseAlways, f))
	assert.False(t, ShouldPause(types.PauseNever, f))
	assert.False(t, ShouldPause(types.PauseAuto, f), "a regular file is not a terminal")
	assert.False(t, ShouldPause(types.PauseAuto, nil))
	assert.False(t, ShouldPause(types.PauseAuto, strings.NewReader("\n")), "only files can be terminals")
	assert.True(t, ShouldPause(types.PauseAlways, strings.NewReader("\n")))
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, types.PauseAuto, m)

	m, err = ParseMode("never")
	require.NoError(t, err)
	assert.Equal(t, types.PauseNever, m)

	_, err = ParseMode("sometimes")
	assert.Error(t, err)
}
