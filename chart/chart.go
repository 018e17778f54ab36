// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package chart

import (
	"fmt"
	"image"
	"math"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/GermanBionicSystems/thermplot/trace"
)

// Opts is the chart appearance.
type Opts struct {
	// Width and Height of the image in pixels.
	Width, Height int
	Title         string
	// Note is an optional second line under the title.
	Note   string
	XLabel string
	YLabel string
	// Grid draws dotted lines at each tick.
	Grid bool
	// Markers draws a dot on each sample.
	Markers bool
	// FontSize of tick labels in points; titles are scaled from it.
	FontSize float64
}

// DefaultOpts matches a 10×6 inch figure at 100 dpi.
var DefaultOpts = Opts{
	Width:    1000,
	Height:   600,
	Title:    "Thermistor Temperature vs. Time",
	XLabel:   "Time (seconds)",
	YLabel:   "Temperature (Kelvin)",
	Grid:     true,
	Markers:  true,
	FontSize: 13,
}

// Series is the data to plot. X and Y must have the same length.
type Series struct {
	X, Y []float64
}

// FromTrace returns the time (s) and temperature (K) axes of t.
func FromTrace(t *trace.Trace) Series {
	return Series{X: t.Seconds(), Y: t.Kelvin()}
}

// Len returns the number of points.
func (s *Series) Len() int {
	return len(s.X)
}

func (s *Series) validate() error {
	if len(s.X) != len(s.Y) {
		return fmt.Errorf("chart: %d x values for %d y values", len(s.X), len(s.Y))
	}
	for i := range s.X {
		if !finite(s.X[i]) || !finite(s.Y[i]) {
			return fmt.Errorf("chart: point %d (%g, %g) is not finite", i, s.X[i], s.Y[i])
		}
	}
	return nil
}

const (
	minWidth  = 200
	minHeight = 150
)

const (
	lineColor   = "#1f77b4"
	gridColor   = "#b0b0b0"
	frameColor  = "#000000"
	textColor   = "#000000"
	markerColor = lineColor
)

// Render draws s and returns the image.
//
// An empty series renders empty axes.
func Render(s Series, opts *Opts) (image.Image, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	if opts.Width < minWidth || opts.Height < minHeight {
		return nil, fmt.Errorf("chart: size %dx%d is below the minimum %dx%d", opts.Width, opts.Height, minWidth, minHeight)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	size := opts.FontSize
	if size <= 0 {
		size = DefaultOpts.FontSize
	}
	faces, err := loadFaces(size)
	if err != nil {
		return nil, err
	}

	l := newLayout(&s, opts, size)
	dc := gg.NewContext(opts.Width, opts.Height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	l.drawGrid(dc, opts.Grid)
	l.drawTicks(dc, faces.tick)
	l.drawLabels(dc, faces, opts)
	l.drawData(dc, &s, opts.Markers)
	return dc.Image(), nil
}

// layout is the pixel geometry of a chart.
type layout struct {
	// Plot area.
	left, top, right, bottom float64
	x, y                     axis
	size                     float64
}

func newLayout(s *Series, opts *Opts, size float64) *layout {
	top := 3.2 * size
	if opts.Note != "" {
		top += 1.6 * size
	}
	l := &layout{
		left:   6.5 * size,
		top:    top,
		right:  float64(opts.Width) - 2.5*size,
		bottom: float64(opts.Height) - 4.5*size,
		size:   size,
	}
	l.x = newAxis(s.X, ticksFor(l.right-l.left, size*7))
	l.y = newAxis(s.Y, ticksFor(l.bottom-l.top, size*3))
	return l
}

// ticksFor returns how many ticks fit in span pixels with spacing px.
func ticksFor(span, px float64) int {
	n := int(span / px)
	if n < 3 {
		return 3
	}
	if n > 11 {
		return 11
	}
	return n
}

func (l *layout) px(v float64) float64 {
	return l.left + l.x.pos(v)*(l.right-l.left)
}

func (l *layout) py(v float64) float64 {
	return l.bottom - l.y.pos(v)*(l.bottom-l.top)
}

func (l *layout) drawGrid(dc *gg.Context, grid bool) {
	if grid {
		dc.SetHexColor(gridColor)
		dc.SetLineWidth(0.8)
		dc.SetDash(1, 3)
		for _, v := range l.x.ticks {
			x := l.px(v)
			dc.DrawLine(x, l.top, x, l.bottom)
			dc.Stroke()
		}
		for _, v := range l.y.ticks {
			y := l.py(v)
			dc.DrawLine(l.left, y, l.right, y)
			dc.Stroke()
		}
		dc.SetDash()
	}
	dc.SetHexColor(frameColor)
	dc.SetLineWidth(1)
	dc.DrawRectangle(l.left, l.top, l.right-l.left, l.bottom-l.top)
	dc.Stroke()
}

func (l *layout) drawTicks(dc *gg.Context, face font.Face) {
	dc.SetFontFace(face)
	dc.SetHexColor(textColor)
	dc.SetLineWidth(1)
	tick := l.size * 0.35
	for _, v := range l.x.ticks {
		x := l.px(v)
		dc.DrawLine(x, l.bottom, x, l.bottom+tick)
		dc.Stroke()
		dc.DrawStringAnchored(l.x.label(v), x, l.bottom+tick+2, 0.5, 1)
	}
	for _, v := range l.y.ticks {
		y := l.py(v)
		dc.DrawLine(l.left-tick, y, l.left, y)
		dc.Stroke()
		dc.DrawStringAnchored(l.y.label(v), l.left-tick-3, y, 1, 0.35)
	}
}

func (l *layout) drawLabels(dc *gg.Context, faces *faceSet, opts *Opts) {
	dc.SetHexColor(textColor)
	cx := (l.left + l.right) / 2

	dc.SetFontFace(faces.title)
	dc.DrawStringAnchored(opts.Title, cx, 1.6*l.size, 0.5, 0.5)
	if opts.Note != "" {
		dc.SetFontFace(faces.tick)
		dc.DrawStringAnchored(opts.Note, cx, 3.2*l.size, 0.5, 0.5)
	}

	dc.SetFontFace(faces.label)
	dc.DrawStringAnchored(opts.XLabel, cx, l.bottom+3*l.size, 0.5, 0.5)

	x, y := 1.3*l.size, (l.top+l.bottom)/2
	dc.Push()
	dc.RotateAbout(gg.Radians(-90), x, y)
	dc.DrawStringAnchored(opts.YLabel, x, y, 0.5, 0.5)
	dc.Pop()
}

func (l *layout) drawData(dc *gg.Context, s *Series, markers bool) {
	if s.Len() == 0 {
		return
	}
	dc.Push()
	defer dc.Pop()
	dc.DrawRectangle(l.left, l.top, l.right-l.left, l.bottom-l.top)
	dc.Clip()

	dc.SetHexColor(lineColor)
	dc.SetLineWidth(1.5)
	dc.SetLineJoinRound()
	for i := range s.X {
		x, y := l.px(s.X[i]), l.py(s.Y[i])
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.Stroke()

	if !markers {
		return
	}
	dc.SetHexColor(markerColor)
	r := math.Max(2, l.size*0.2)
	for i := range s.X {
		dc.DrawCircle(l.px(s.X[i]), l.py(s.Y[i]), r)
		dc.Fill()
	}
}

type faceSet struct {
	tick, label, title font.Face
}

var (
	fontOnce sync.Once
	goFont   *truetype.Font
	fontErr  error
)

// loadFaces returns the Go regular font faces for a base size.
//
// truetype faces cache glyphs and are not safe for concurrent use, so each
// call renders with its own set.
func loadFaces(size float64) (*faceSet, error) {
	fontOnce.Do(func() {
		goFont, fontErr = truetype.Parse(goregular.TTF)
	})
	if fontErr != nil {
		return nil, fmt.Errorf("chart: parsing font: %w", fontErr)
	}
	return &faceSet{
		tick:  truetype.NewFace(goFont, &truetype.Options{Size: size}),
		label: truetype.NewFace(goFont, &truetype.Options{Size: size * 1.15}),
		title: truetype.NewFace(goFont, &truetype.Options{Size: size * 1.4}),
	}, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
