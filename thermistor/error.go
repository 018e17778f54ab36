// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package thermistor

import (
	"errors"
	"fmt"
)

var (
	// ErrZeroReading is returned for a reading of 0: the resistance is zero
	// and its logarithm is undefined.
	ErrZeroReading = errors.New("zero reading, thermistor resistance is zero")
	// ErrFullScale is returned for a reading equal to the full-scale code:
	// the divider equation divides by zero.
	ErrFullScale = errors.New("full-scale reading, thermistor resistance is unbounded")
	// ErrOutOfRange is returned for a reading below 0 or above full scale.
	ErrOutOfRange = errors.New("reading outside of the ADC range")
	// ErrUndefined is returned when the equation has no positive finite
	// solution for the given calibration.
	ErrUndefined = errors.New("no finite positive temperature for reading")
)

// ReadingError describes a raw reading that could not be converted.
type ReadingError struct {
	Raw       int
	FullScale int
	Err       error
}

func (e *ReadingError) Error() string {
	return fmt.Sprintf("thermistor: raw %d (full scale %d): %v", e.Raw, e.FullScale, e.Err)
}

func (e *ReadingError) Unwrap() error {
	return e.Err
}
