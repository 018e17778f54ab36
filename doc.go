// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package thermplot converts raw ADC captures of an NTC thermistor into
// temperatures and charts them over time.
//
// The conversion lives in package thermistor, file loading in capture, the
// join of both in trace, and rendering in chart. Charts are shown through
// periph display.Drawer implementations: webview serves them over HTTP and
// termview previews them in an ANSI terminal.
//
// The thermplot command in cmd/thermplot wires everything together.
package thermplot
