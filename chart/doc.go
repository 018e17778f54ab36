// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package chart renders a temperature trace as a line chart.
//
// The chart has a title, labelled axes with rounded tick values, an
// optional dotted grid and a marker on every sample. The result is an
// image.Image that can be drawn on any periph display.Drawer or saved as a
// PNG.
package chart
