// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package renderer

import (
	"context"
	"fmt"
	"image"
	"os"

	"github.com/disintegration/imaging"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/pdiddy/svg2png/pkg/types"
)

// cssDPI is the resolution SVG user units are defined against.
const cssDPI = 96

// Builtin rasterizes SVG files in-process with oksvg and rasterx. It does
// not support every SVG feature Inkscape does (text, filters), but needs
// no external executable.
type Builtin struct {
	width  int
	height int
	dpi    int
}

// NewBuiltin returns an in-process renderer using the size settings of cfg.
func NewBuiltin(cfg types.ConversionConfig) *Builtin {
	return &Builtin{width: cfg.Width, height: cfg.Height, dpi: cfg.DPI}
}

func (b *Builtin) Name() string { return string(types.BackendBuiltin) }

func (b *Builtin) CommandLine(job types.Job) string {
	return fmt.Sprintf("builtin %s -> %s", job.Input, job.Output)
}

func (b *Builtin) Render(ctx context.Context, job types.Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	img, err := b.rasterize(job.Input)
	if err != nil {
		return err
	}

	var out image.Image = img
	if b.width > 0 || b.height > 0 {
		out = imaging.Resize(img, b.width, b.height, imaging.Lanczos)
	}

	if err := imaging.Save(out, job.Output); err != nil {
		return fmt.Errorf("writing %s: %w", job.Output, err)
	}
	return nil
}

// rasterize draws the icon at its view box size scaled by the DPI setting.
func (b *Builtin) rasterize(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening SVG %s: %w", path, err)
	}
	defer f.Close()

	icon, err := oksvg.ReadIconStream(f, oksvg.WarnErrorMode)
	if err != nil {
		return nil, fmt.Errorf("parsing SVG %s: %w", path, err)
	}

	scale := 1.0
	if b.dpi > 0 {
		scale = float64(b.dpi) / cssDPI
	}
	w := int(icon.ViewBox.W * scale)
	h := int(icon.ViewBox.H * scale)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("SVG %s has an empty view box", path)
	}
	icon.SetTarget(0, 0, float64(w), float64(h))

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	dasher := rasterx.NewDasher(w, h, scanner)
	icon.Draw(dasher, 1)
	return img, nil
}
