// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package chart

import (
	"math"
	"strconv"
)

// axis is a data range mapped onto a pixel span.
type axis struct {
	min, max float64
	ticks    []float64
	decimals int
}

// newAxis returns an axis covering values with rounded ticks.
//
// An empty range falls back to [0, 1]; a flat one is widened around its
// value.
func newAxis(values []float64, maxTicks int) axis {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	switch {
	case len(values) == 0:
		lo, hi = 0, 1
	case lo == hi:
		pad := math.Abs(lo) * 0.05
		if pad == 0 {
			pad = 1
		}
		lo, hi = lo-pad, hi+pad
	default:
		pad := (hi - lo) * 0.05
		lo, hi = lo-pad, hi+pad
	}
	step := niceNum((hi - lo) / float64(maxTicks-1))
	a := axis{min: lo, max: hi, decimals: decimals(step)}
	// Far from zero, lo/step can exceed 2^53 where consecutive integers
	// aren't representable; step from the first tick with a bounded count.
	first := math.Ceil(lo/step) * step
	tol := step * 1e-6
	n := int(math.Min(math.Floor((hi-first)/step+1e-6), float64(2*maxTicks)))
	for k := 0; k <= n; k++ {
		v := first + float64(k)*step
		if v < lo-tol || v > hi+tol || (len(a.ticks) != 0 && v <= a.ticks[len(a.ticks)-1]) {
			continue
		}
		// Avoid "-0" labels.
		if math.Abs(v) < tol {
			v = 0
		}
		a.ticks = append(a.ticks, v)
	}
	return a
}

// pos maps v onto [0, 1].
func (a *axis) pos(v float64) float64 {
	return (v - a.min) / (a.max - a.min)
}

func (a *axis) label(v float64) string {
	return strconv.FormatFloat(v, 'f', a.decimals, 64)
}

// niceNum returns a number of the form {1,2,5}×10^n close to x.
//
// From Paul Heckbert, "Nice Numbers for Graph Labels", Graphics Gems, 1990.
func niceNum(x float64) float64 {
	exp := math.Floor(math.Log10(x))
	f := x / math.Pow(10, exp)
	var nf float64
	switch {
	case f < 1.5:
		nf = 1
	case f < 3:
		nf = 2
	case f < 7:
		nf = 5
	default:
		nf = 10
	}
	return nf * math.Pow(10, exp)
}

// decimals returns how many fraction digits tell ticks step apart.
func decimals(step float64) int {
	d := int(math.Ceil(-math.Log10(step) - 1e-9))
	if d < 0 {
		return 0
	}
	return d
}
