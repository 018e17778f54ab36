// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package capture

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead(t *testing.T) {
	for _, tc := range []struct {
		name string
		in   string
		opts *Opts
		want []Sample
	}{
		{
			name: "serial monitor",
			in:   "Time_s,ADC_Value\n0,511\n1,520\n2,530\n",
			want: []Sample{{0, 511}, {time.Second, 520}, {2 * time.Second, 530}},
		},
		{
			name: "header only",
			in:   "Time_s,ADC_Value\n",
			want: []Sample{},
		},
		{
			name: "extra columns reordered",
			in:   "ADC_Value, Millis , Time_s\n600, 250, 0.25\n601,500,0.5\n",
			want: []Sample{{250 * time.Millisecond, 600}, {500 * time.Millisecond, 601}},
		},
		{
			name: "equal times and blank lines",
			in:   "Time_s,ADC_Value\r\n1.5,10\r\n\r\n,\r\n1.5,11\r\n",
			want: []Sample{{1500 * time.Millisecond, 10}, {1500 * time.Millisecond, 11}},
		},
		{
			name: "byte order mark",
			in:   "\ufeffTime_s,ADC_Value\n3,1022\n",
			want: []Sample{{3 * time.Second, 1022}},
		},
		{
			name: "semicolon",
			in:   "t;code\n0;0\n1;1023\n",
			opts: &Opts{TimeColumn: "t", RawColumn: "code", Comma: ';'},
			want: []Sample{{0, 0}, {time.Second, 1023}},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Read(strings.NewReader(tc.in), tc.opts)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestReadErrors(t *testing.T) {
	for _, tc := range []struct {
		name     string
		in       string
		wantLine int
		wantCol  string
	}{
		{name: "empty", in: ""},
		{name: "missing raw column", in: "Time_s,Value\n0,1\n", wantLine: 1, wantCol: "ADC_Value"},
		{name: "missing time column", in: "ADC_Value\n1\n", wantLine: 1, wantCol: "Time_s"},
		{name: "non-numeric raw", in: "Time_s,ADC_Value\n0,abc\n", wantLine: 2, wantCol: "ADC_Value"},
		{name: "fractional raw", in: "Time_s,ADC_Value\n0,1.5\n", wantLine: 2, wantCol: "ADC_Value"},
		{name: "non-numeric time", in: "Time_s,ADC_Value\n0,1\nsoon,2\n", wantLine: 3, wantCol: "Time_s"},
		{name: "negative time", in: "Time_s,ADC_Value\n-1,1\n", wantLine: 2, wantCol: "Time_s"},
		{name: "time goes back", in: "Time_s,ADC_Value\n2,1\n1,2\n", wantLine: 3, wantCol: "Time_s"},
		{name: "short row", in: "Time_s,ADC_Value\n0\n", wantLine: 2},
		{name: "bad quoting", in: "Time_s,ADC_Value\n0,1\"2\n", wantLine: 2},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Read(strings.NewReader(tc.in), nil)
			assert.Nil(t, got)
			var pe *ParseError
			require.True(t, errors.As(err, &pe), "got %v", err)
			assert.Equal(t, tc.wantLine, pe.Line)
			assert.Equal(t, tc.wantCol, pe.Column)
			assert.Contains(t, err.Error(), "capture: ")
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "thermistor_data.csv")
	require.NoError(t, os.WriteFile(path, []byte("Time_s,ADC_Value\n0,511\n1,520\n"), 0o644))

	got, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, []Sample{{0, 511}, {time.Second, 520}}, got)

	// The handle is released: the file can be removed right away, which
	// fails on Windows when it is still open.
	require.NoError(t, os.Remove(path))
}

func TestLoadNotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.csv")
	got, err := Load(path, nil)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "missing.csv")
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(path, []byte("Time_s,ADC_Value\n0,x\n"), 0o644))
	_, err := Load(path, nil)
	var pe *ParseError
	assert.ErrorAs(t, err, &pe)
	assert.NotErrorIs(t, err, ErrNotFound)
}
