//go:build mage

package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Convert builds the CLI and converts the SVG files in $SVG_DIR (default:
// the current directory) without pausing.
func Convert() error {
	mg.Deps(Build)

	dir := os.Getenv("SVG_DIR")
	if dir == "" {
		dir = "."
	}
	return sh.RunV(filepath.Join(binDir, binName), "convert", "--no-pause", dir)
}
