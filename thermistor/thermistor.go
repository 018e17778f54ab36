// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package thermistor

import (
	"errors"
	"fmt"
	"math"

	"periph.io/x/conn/v3/physic"
)

// FullScale10Bit is the full-scale code of a 10-bit converter such as the
// ATmega328 ADC.
const FullScale10Bit = 1023

// Calibration holds the constants of one thermistor circuit.
//
// It is a plain value: copy it to derive a profile, it is never modified by
// this package.
type Calibration struct {
	// SeriesResistor is the fixed upper leg of the divider.
	SeriesResistor physic.ElectricResistance
	// Nominal is the thermistor resistance at Reference.
	Nominal physic.ElectricResistance
	// B is the material B-coefficient, in kelvin.
	B float64
	// Reference is the temperature at which the thermistor measures Nominal.
	Reference physic.Temperature
	// FullScale is the highest code the ADC can return.
	FullScale int
}

// Default is the calibration of the Arduino bench setup: a 1kΩ series
// resistor and a thermistor measured at 175.5Ω at room temperature.
var Default = Calibration{
	SeriesResistor: 1 * physic.KiloOhm,
	Nominal:        175500 * physic.MilliOhm,
	B:              3950,
	Reference:      physic.ZeroCelsius + 25*physic.Kelvin,
	FullScale:      FullScale10Bit,
}

// Reading is a successfully converted sample.
type Reading struct {
	Raw         int
	Resistance  physic.ElectricResistance
	Temperature physic.Temperature
}

// Kelvin returns the temperature as a float in kelvin.
func (r Reading) Kelvin() float64 {
	return toKelvin(r.Temperature)
}

// Ohms returns the resistance as a float in ohms.
func (r Reading) Ohms() float64 {
	return toOhms(r.Resistance)
}

func (r Reading) String() string {
	return fmt.Sprintf("%d: %s, %s", r.Raw, r.Resistance, r.Temperature)
}

// Validate returns an error if a constant is not strictly positive.
func (c Calibration) Validate() error {
	switch {
	case c.SeriesResistor <= 0:
		return fmt.Errorf("thermistor: series resistor must be positive, got %s", c.SeriesResistor)
	case c.Nominal <= 0:
		return fmt.Errorf("thermistor: nominal resistance must be positive, got %s", c.Nominal)
	case !(c.B > 0) || math.IsInf(c.B, 1):
		return fmt.Errorf("thermistor: B-coefficient must be positive and finite, got %g", c.B)
	case c.Reference <= 0:
		return fmt.Errorf("thermistor: reference temperature must be above absolute zero, got %s", c.Reference)
	case c.FullScale < 2:
		return fmt.Errorf("thermistor: full scale must be at least 2, got %d", c.FullScale)
	}
	return nil
}

// Resistance returns the thermistor resistance in ohms for a raw reading.
func (c Calibration) Resistance(raw int) (float64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}
	return c.resistance(raw)
}

// Kelvin returns the temperature in kelvin for a raw reading.
func (c Calibration) Kelvin(raw int) (float64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}
	rOhm, err := c.resistance(raw)
	if err != nil {
		return 0, err
	}
	return c.kelvin(raw, rOhm)
}

// Convert returns both the resistance and the temperature of a raw reading.
//
// The returned error is either a calibration error or a *ReadingError
// wrapping ErrZeroReading, ErrFullScale, ErrOutOfRange or ErrUndefined.
func (c Calibration) Convert(raw int) (Reading, error) {
	if err := c.Validate(); err != nil {
		return Reading{Raw: raw}, err
	}
	rOhm, err := c.resistance(raw)
	if err != nil {
		return Reading{Raw: raw}, err
	}
	k, err := c.kelvin(raw, rOhm)
	if err != nil {
		return Reading{Raw: raw}, err
	}
	res, ok := fromOhms(rOhm)
	if !ok {
		return Reading{Raw: raw}, c.readingError(raw, ErrUndefined)
	}
	return Reading{
		Raw:         raw,
		Resistance:  res,
		Temperature: physic.Temperature(math.Round(k * float64(physic.Kelvin))),
	}, nil
}

// IsUndefined reports whether err is a per-reading conversion failure, as
// opposed to an invalid calibration.
func IsUndefined(err error) bool {
	var re *ReadingError
	return errors.As(err, &re)
}

func (c Calibration) resistance(raw int) (float64, error) {
	switch {
	case raw < 0 || raw > c.FullScale:
		return 0, c.readingError(raw, ErrOutOfRange)
	case raw == 0:
		return 0, c.readingError(raw, ErrZeroReading)
	case raw == c.FullScale:
		return 0, c.readingError(raw, ErrFullScale)
	}
	return toOhms(c.SeriesResistor) * float64(raw) / float64(c.FullScale-raw), nil
}

func (c Calibration) kelvin(raw int, rOhm float64) (float64, error) {
	inv := 1/toKelvin(c.Reference) + math.Log(rOhm/toOhms(c.Nominal))/c.B
	if !(inv > 0) || math.IsInf(inv, 0) {
		return 0, c.readingError(raw, ErrUndefined)
	}
	k := 1 / inv
	if math.IsInf(k, 0) || k*float64(physic.Kelvin) >= math.MaxInt64 {
		return 0, c.readingError(raw, ErrUndefined)
	}
	return k, nil
}

func (c Calibration) readingError(raw int, err error) error {
	return &ReadingError{Raw: raw, FullScale: c.FullScale, Err: err}
}

func toKelvin(t physic.Temperature) float64 {
	return float64(t) / float64(physic.Kelvin)
}

func toOhms(r physic.ElectricResistance) float64 {
	return float64(r) / float64(physic.Ohm)
}

func fromOhms(ohms float64) (physic.ElectricResistance, bool) {
	n := math.Round(ohms * float64(physic.Ohm))
	if n >= math.MaxInt64 {
		return 0, false
	}
	return physic.ElectricResistance(n), true
}
