// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package trace

import (
	"math"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GermanBionicSystems/thermplot/capture"
	"github.com/GermanBionicSystems/thermplot/thermistor"
)

func TestBuildOrdered(t *testing.T) {
	samples := []capture.Sample{{Time: 0, Raw: 511}, {Time: time.Second, Raw: 520}, {Time: 2 * time.Second, Raw: 530}}
	log, hook := test.NewNullLogger()

	tr, err := Build(samples, thermistor.Default, log)
	require.NoError(t, err)
	require.Len(t, tr.Points, 3)
	assert.Empty(t, tr.Skipped)
	assert.Empty(t, hook.AllEntries())

	cal := thermistor.Default
	for i, p := range tr.Points {
		assert.Equal(t, samples[i].Time, p.Time)
		assert.Equal(t, samples[i].Raw, p.Reading.Raw)
		k := p.Reading.Kelvin()
		assert.False(t, math.IsNaN(k) || math.IsInf(k, 0))
		assert.Greater(t, k, 0.)
		want, err := cal.Kelvin(samples[i].Raw)
		require.NoError(t, err)
		assert.InDelta(t, want, k, 1e-6)
	}
	assert.Equal(t, []float64{0, 1, 2}, tr.Seconds())
	kelvin := tr.Kelvin()
	// Resistance rises with the code, temperature falls.
	assert.Greater(t, kelvin[0], kelvin[1])
	assert.Greater(t, kelvin[1], kelvin[2])
}

func TestBuildSkips(t *testing.T) {
	samples := []capture.Sample{{Time: 0, Raw: 0}, {Time: time.Second, Raw: 511}, {Time: 2 * time.Second, Raw: 1023}, {Time: 3 * time.Second, Raw: 2000}}
	log, hook := test.NewNullLogger()

	tr, err := Build(samples, thermistor.Default, log)
	require.NoError(t, err)
	require.Len(t, tr.Points, 1)
	assert.Equal(t, 511, tr.Points[0].Reading.Raw)

	require.Len(t, tr.Skipped, 3)
	assert.Equal(t, []int{0, 2, 3}, []int{tr.Skipped[0].Index, tr.Skipped[1].Index, tr.Skipped[2].Index})
	assert.ErrorIs(t, &tr.Skipped[0], thermistor.ErrZeroReading)
	assert.ErrorIs(t, &tr.Skipped[1], thermistor.ErrFullScale)
	assert.ErrorIs(t, &tr.Skipped[2], thermistor.ErrOutOfRange)

	entries := hook.AllEntries()
	require.Len(t, entries, 3)
	for i, e := range entries {
		assert.Equal(t, logrus.WarnLevel, e.Level)
		assert.Equal(t, tr.Skipped[i].Index, e.Data["index"])
		assert.Equal(t, tr.Skipped[i].Sample.Raw, e.Data["raw"])
		assert.NotNil(t, e.Data[logrus.ErrorKey])
	}
}

func TestBuildEmpty(t *testing.T) {
	tr, err := Build([]capture.Sample{}, thermistor.Default, nil)
	require.NoError(t, err)
	assert.NotNil(t, tr.Points)
	assert.Empty(t, tr.Points)
	assert.Empty(t, tr.Seconds())
	s := tr.Summary()
	assert.Equal(t, Summary{}, s)
	assert.Equal(t, "no points, 0 skipped", s.String())
}

func TestBuildInvalidCalibration(t *testing.T) {
	cal := thermistor.Default
	cal.B = 0
	_, err := Build([]capture.Sample{{Time: 0, Raw: 511}}, cal, nil)
	assert.Error(t, err)
}

func TestSummary(t *testing.T) {
	samples := []capture.Sample{{Time: time.Second, Raw: 511}, {Time: 2 * time.Second, Raw: 1023}, {Time: 3 * time.Second, Raw: 530}}
	tr, err := Build(samples, thermistor.Default, nil)
	require.NoError(t, err)
	s := tr.Summary()
	assert.Equal(t, 2, s.Count)
	assert.Equal(t, 1, s.Skipped)
	assert.Equal(t, 2*time.Second, s.Duration)
	assert.InDelta(t, 262.269, s.Min, 1e-3)
	assert.InDelta(t, 263.570, s.Max, 1e-3)
	assert.InDelta(t, (s.Min+s.Max)/2, s.Mean, 1e-9)
	assert.Contains(t, s.String(), "2 points over 2s, 1 skipped")
}
