// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package capture reads thermistor captures saved as delimited text, such
// as a copy of the Arduino Serial Monitor output.
//
// The first row is a header. Columns are located by name so extra columns
// and any column order are accepted:
//
//	Time_s,ADC_Value
//	0,511
//	1,520
package capture

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

// ErrNotFound is returned by Load when the capture file does not exist.
var ErrNotFound = errors.New("capture: file not found")

// Sample is one row of a capture.
type Sample struct {
	// Time is the offset since the start of the capture.
	Time time.Duration
	// Raw is the ADC code.
	Raw int
}

func (s Sample) String() string {
	return fmt.Sprintf("%s: %d", s.Time, s.Raw)
}

// Opts describes the layout of a capture file.
type Opts struct {
	// TimeColumn holds the time offset in seconds.
	TimeColumn string
	// RawColumn holds the integer ADC code.
	RawColumn string
	// Comma is the field delimiter.
	Comma rune
}

// DefaultOpts is the layout written by the acquisition sketch.
var DefaultOpts = Opts{
	TimeColumn: "Time_s",
	RawColumn:  "ADC_Value",
	Comma:      ',',
}

// ParseError reports a malformed capture.
type ParseError struct {
	// Line is 1-based and counts the header. It is 0 when the error is not
	// tied to a line.
	Line   int
	Column string
	Err    error
}

func (e *ParseError) Error() string {
	switch {
	case e.Line == 0:
		return fmt.Sprintf("capture: %v", e.Err)
	case e.Column == "":
		return fmt.Sprintf("capture: line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("capture: line %d, column %q: %v", e.Line, e.Column, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Load reads the capture at path.
//
// The file is opened read-only and closed before Load returns. A missing
// file is reported with an error wrapping ErrNotFound.
func Load(path string, opts *Opts) ([]Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("capture: %w", err)
	}
	defer f.Close()
	return Read(f, opts)
}

// Read parses a capture from r.
//
// Rows must have non-negative, non-decreasing times. A header-only capture
// returns an empty slice.
func Read(r io.Reader, opts *Opts) ([]Sample, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	cr := csv.NewReader(r)
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, &ParseError{Err: errors.New("empty file, missing header row")}
	}
	if err != nil {
		return nil, wrapCSV(err)
	}
	ti, err := columnIndex(header, opts.TimeColumn)
	if err != nil {
		return nil, err
	}
	ri, err := columnIndex(header, opts.RawColumn)
	if err != nil {
		return nil, err
	}

	out := []Sample{}
	prev := time.Duration(-1)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, wrapCSV(err)
		}
		line, _ := cr.FieldPos(0)
		if blank(rec) {
			continue
		}
		if len(rec) <= ti || len(rec) <= ri {
			return nil, &ParseError{Line: line, Err: fmt.Errorf("expected at least %d fields, got %d", max(ti, ri)+1, len(rec))}
		}
		t, err := parseSeconds(rec[ti])
		if err != nil {
			return nil, &ParseError{Line: line, Column: opts.TimeColumn, Err: err}
		}
		if t < prev {
			return nil, &ParseError{Line: line, Column: opts.TimeColumn, Err: fmt.Errorf("time %s is before previous row %s", t, prev)}
		}
		raw, err := strconv.Atoi(strings.TrimSpace(rec[ri]))
		if err != nil {
			return nil, &ParseError{Line: line, Column: opts.RawColumn, Err: err}
		}
		prev = t
		out = append(out, Sample{Time: t, Raw: raw})
	}
}

func columnIndex(header []string, name string) (int, error) {
	for i, h := range header {
		// Excel and the Windows notepad prepend a byte order mark.
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		if strings.TrimSpace(h) == name {
			return i, nil
		}
	}
	return -1, &ParseError{Line: 1, Column: name, Err: errors.New("column not found in header")}
}

func parseSeconds(s string) (time.Duration, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, fmt.Errorf("invalid time offset %q", s)
	}
	if v > float64(math.MaxInt64)/float64(time.Second) {
		return 0, fmt.Errorf("time offset %q too large", s)
	}
	return time.Duration(math.Round(v * float64(time.Second))), nil
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func wrapCSV(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &ParseError{Line: pe.Line, Err: pe.Err}
	}
	return fmt.Errorf("capture: %w", err)
}
