// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package trace converts a capture into a temperature trace.
//
// Samples whose reading has no defined temperature are dropped from the
// trace, kept in Trace.Skipped and reported as warnings so that a chart of
// the trace never hides a gap.
package trace

import (
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/GermanBionicSystems/thermplot/capture"
	"github.com/GermanBionicSystems/thermplot/thermistor"
)

// Point is a converted sample.
type Point struct {
	Time    time.Duration
	Reading thermistor.Reading
}

// SampleError is a sample that could not be converted.
type SampleError struct {
	// Index is the 0-based position of the sample in the capture.
	Index  int
	Sample capture.Sample
	Err    error
}

func (e *SampleError) Error() string {
	return fmt.Sprintf("sample %d at %s: %v", e.Index, e.Sample.Time, e.Err)
}

func (e *SampleError) Unwrap() error {
	return e.Err
}

// Trace is the ordered result of Build.
type Trace struct {
	Points  []Point
	Skipped []SampleError
}

// Build converts samples in order with cal.
//
// A sample that fails to convert is skipped and logged on log at warning
// level. Build returns an error only when cal itself is invalid. A nil log
// discards warnings.
func Build(samples []capture.Sample, cal thermistor.Calibration, log logrus.FieldLogger) (Trace, error) {
	if err := cal.Validate(); err != nil {
		return Trace{}, err
	}
	tr := Trace{Points: make([]Point, 0, len(samples))}
	for i, s := range samples {
		r, err := cal.Convert(s.Raw)
		if err != nil {
			se := SampleError{Index: i, Sample: s, Err: err}
			tr.Skipped = append(tr.Skipped, se)
			if log != nil {
				log.WithFields(logrus.Fields{
					"index":  i,
					"offset": s.Time,
					"raw":    s.Raw,
				}).WithError(err).Warn("skipping sample without a defined temperature")
			}
			continue
		}
		tr.Points = append(tr.Points, Point{Time: s.Time, Reading: r})
	}
	return tr, nil
}

// Summary describes a trace.
type Summary struct {
	Count   int
	Skipped int
	// Min, Max and Mean are in kelvin. They are 0 for an empty trace.
	Min, Max, Mean float64
	// Duration is the time between the first and the last point.
	Duration time.Duration
}

func (s Summary) String() string {
	if s.Count == 0 {
		return fmt.Sprintf("no points, %d skipped", s.Skipped)
	}
	return fmt.Sprintf("%d points over %s, %d skipped, min %.2fK, max %.2fK, mean %.2fK",
		s.Count, s.Duration, s.Skipped, s.Min, s.Max, s.Mean)
}

// Summary computes statistics over the points of the trace.
func (t *Trace) Summary() Summary {
	s := Summary{Count: len(t.Points), Skipped: len(t.Skipped)}
	if s.Count == 0 {
		return s
	}
	s.Min = math.Inf(1)
	s.Max = math.Inf(-1)
	sum := 0.
	for _, p := range t.Points {
		k := p.Reading.Kelvin()
		s.Min = math.Min(s.Min, k)
		s.Max = math.Max(s.Max, k)
		sum += k
	}
	s.Mean = sum / float64(s.Count)
	s.Duration = t.Points[len(t.Points)-1].Time - t.Points[0].Time
	return s
}

// Seconds returns the time axis of the trace in seconds.
func (t *Trace) Seconds() []float64 {
	out := make([]float64, len(t.Points))
	for i, p := range t.Points {
		out[i] = p.Time.Seconds()
	}
	return out
}

// Kelvin returns the temperature axis of the trace in kelvin.
func (t *Trace) Kelvin() []float64 {
	out := make([]float64, len(t.Points))
	for i, p := range t.Points {
		out[i] = p.Reading.Kelvin()
	}
	return out
}
