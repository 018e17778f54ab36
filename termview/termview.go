// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package termview implements a display.Drawer that previews images in a
// terminal using ANSI 256 color codes.
//
// Images drawn on it are scaled down to a grid of character cells, one
// colored block per cell. It is good enough to eyeball a chart over ssh.
package termview

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"
	"sync"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	xdraw "golang.org/x/image/draw"
	"periph.io/x/conn/v3/display"
)

// Opts represents the options available for this display.
type Opts struct {
	// Cols and Rows is the size of the preview in character cells.
	Cols, Rows int
	// Palette defaults to ansi256.Default.
	Palette *ansi256.Palette
	// W defaults to a colorable stdout.
	W io.Writer

	_ struct{}
}

// DefaultOpts fits a standard 80 column terminal.
var DefaultOpts = Opts{Cols: 78, Rows: 24}

// Dev is a terminal preview.
type Dev struct {
	w       io.Writer
	palette ansi256.Palette

	mu     sync.Mutex
	pixels *image.NRGBA
	buf    bytes.Buffer
}

// New returns a Dev that draws on opts.W.
func New(opts *Opts) *Dev {
	if opts == nil {
		opts = &DefaultOpts
	}
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	w := opts.W
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	cols, rows := opts.Cols, opts.Rows
	if cols <= 0 {
		cols = DefaultOpts.Cols
	}
	if rows <= 0 {
		rows = DefaultOpts.Rows
	}
	return &Dev{
		w:       w,
		palette: *p,
		pixels:  image.NewNRGBA(image.Rect(0, 0, cols, rows)),
	}
}

func (d *Dev) String() string {
	return fmt.Sprintf("TermView{%dx%d}", d.pixels.Rect.Dx(), d.pixels.Rect.Dy())
}

// Halt implements conn.Resource.
//
// It resets the terminal attributes so the shell prompt is not colored.
func (d *Dev) Halt() error {
	_, err := io.WriteString(d.w, "\033[0m")
	return err
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return color.NRGBAModel
}

// Bounds implements display.Drawer. One pixel is one character cell.
func (d *Dev) Bounds() image.Rectangle {
	return d.pixels.Rect
}

// Draw implements display.Drawer.
//
// Unlike most drivers, the source area starting at sp is scaled to fit r
// instead of being clipped, then the whole preview is written out.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	r = r.Intersect(d.Bounds())
	srcR := src.Bounds()
	srcR.Min = srcR.Min.Add(sp)
	srcR = srcR.Intersect(src.Bounds())
	if r.Empty() || srcR.Empty() {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	xdraw.ApproxBiLinear.Scale(d.pixels, r, src, srcR, xdraw.Src, nil)
	return d.refreshLocked()
}

func (d *Dev) refreshLocked() error {
	// Reuses the buffer to not allocate on every frame.
	d.buf.Reset()
	b := d.pixels.Rect
	for y := b.Min.Y; y < b.Max.Y; y++ {
		_, _ = d.buf.WriteString("\033[0m")
		for x := b.Min.X; x < b.Max.X; x++ {
			_, _ = d.buf.WriteString(d.palette.Block(d.pixels.NRGBAAt(x, y)))
		}
		_, _ = d.buf.WriteString("\033[0m\n")
	}
	_, err := d.buf.WriteTo(d.w)
	return err
}

var _ display.Drawer = &Dev{}
var _ fmt.Stringer = &Dev{}
