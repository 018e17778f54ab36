// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package thermistor converts raw ADC codes of an NTC thermistor into a
// temperature.
//
// The thermistor is the lower leg of a voltage divider with a known series
// resistor, sampled by an ADC whose full-scale code is FullScale:
//
//	R = Rs * r / (FS - r)
//
// The resistance is then mapped to a temperature with the B-parameter form
// of the Steinhart-Hart equation:
//
//	1/T = 1/T0 + ln(R/R0) / B
//
// Readings where either step is undefined (r == 0, r == FS, r outside
// [0, FS]) are rejected with a *ReadingError instead of producing NaN or
// infinite values.
package thermistor
