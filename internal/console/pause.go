// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package console implements the end-of-run pause that keeps a console
// window open until the user presses enter.
package console

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/pdiddy/svg2png/pkg/types"
)

const prompt = "press enter"

// ShouldPause decides whether to wait for input. In auto mode it pauses
// only when stdin is a file attached to an interactive terminal.
func ShouldPause(mode types.PauseMode, stdin io.Reader) bool {
	switch mode {
	case types.PauseAlways:
		return true
	case types.PauseNever:
		return false
	default:
		f, ok := stdin.(*os.File)
		return ok && f != nil && IsTerminal(f)
	}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// WaitForEnter prints the prompt to out and blocks until one line (or EOF)
// is read from in.
func WaitForEnter(in io.Reader, out io.Writer) error {
	fmt.Fprint(out, prompt)
	_, err := bufio.NewReader(in).ReadString('\n')
	fmt.Fprintln(out)
	if err == io.EOF {
		return nil
	}
	return err
}

// ParseMode validates a pause mode name. An empty name means auto.
func ParseMode(raw string) (types.PauseMode, error) {
	switch m := types.PauseMode(raw); m {
	case "":
		return types.PauseAuto, nil
	case types.PauseAuto, types.PauseAlways, types.PauseNever:
		return m, nil
	default:
		return "", fmt.Errorf("unknown pause mode %q: use auto, always or never", raw)
	}
}
