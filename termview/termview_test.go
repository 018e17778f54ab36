// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package termview

import (
	"bytes"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/maruel/ansi256"
)

func TestDraw(t *testing.T) {
	var out bytes.Buffer
	d := New(&Opts{Cols: 8, Rows: 3, W: &out})
	if got, want := d.Bounds(), image.Rect(0, 0, 8, 3); got != want {
		t.Fatalf("Bounds() = %v, want %v", got, want)
	}
	if got := d.String(); got != "TermView{8x3}" {
		t.Errorf("String() = %q", got)
	}

	red := color.NRGBA{255, 0, 0, 255}
	src := image.NewUniform(red)
	// A large source is scaled down to the preview.
	img := image.NewNRGBA(image.Rect(0, 0, 800, 300))
	for y := 0; y < 300; y++ {
		for x := 0; x < 800; x++ {
			img.Set(x, y, src.C)
		}
	}
	if err := d.Draw(d.Bounds(), img, image.Point{}); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3: %q", len(lines), out.String())
	}
	block := ansi256.Default.Block(red)
	for i, l := range lines {
		if got := strings.Count(l, block); got != 8 {
			t.Errorf("line %d has %d red blocks, want 8: %q", i, got, l)
		}
		if !strings.HasPrefix(l, "\033[0m") || !strings.HasSuffix(l, "\033[0m") {
			t.Errorf("line %d is not reset: %q", i, l)
		}
	}

	out.Reset()
	if err := d.Halt(); err != nil {
		t.Fatal(err)
	}
	if got := out.String(); got != "\033[0m" {
		t.Errorf("Halt() wrote %q", got)
	}
}

func TestDrawOutside(t *testing.T) {
	var out bytes.Buffer
	d := New(&Opts{Cols: 4, Rows: 2, W: &out})
	src := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	if err := d.Draw(image.Rect(10, 10, 20, 20), src, image.Point{}); err != nil {
		t.Fatal(err)
	}
	if err := d.Draw(d.Bounds(), src, image.Point{X: 50}); err != nil {
		t.Fatal(err)
	}
	if out.Len() != 0 {
		t.Errorf("nothing should be written, got %q", out.String())
	}
}

func TestDefaults(t *testing.T) {
	d := New(nil)
	if got, want := d.Bounds(), image.Rect(0, 0, DefaultOpts.Cols, DefaultOpts.Rows); got != want {
		t.Errorf("Bounds() = %v, want %v", got, want)
	}
	d = New(&Opts{W: &bytes.Buffer{}})
	if got, want := d.Bounds(), image.Rect(0, 0, DefaultOpts.Cols, DefaultOpts.Rows); got != want {
		t.Errorf("Bounds() = %v, want %v", got, want)
	}
}
