// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// thermplot converts a thermistor ADC capture into temperatures and charts
// them.
//
// The capture is read from thermistor_data.csv in the working directory,
// with Time_s and ADC_Value columns. The chart is previewed in the terminal
// and served on http://localhost:8080/ until interrupted. There are no
// flags: the calibration and file name are fixed.
package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fogleman/gg"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/display"

	"github.com/GermanBionicSystems/thermplot/capture"
	"github.com/GermanBionicSystems/thermplot/chart"
	"github.com/GermanBionicSystems/thermplot/termview"
	"github.com/GermanBionicSystems/thermplot/thermistor"
	"github.com/GermanBionicSystems/thermplot/trace"
	"github.com/GermanBionicSystems/thermplot/webview"
)

const defaultInput = "thermistor_data.csv"

// config selects the input and output surfaces. The binary takes no
// arguments and always runs with defaultConfig.
type config struct {
	in      string // capture file
	addr    string // chart server address; empty disables it
	term    string // terminal preview: auto, on or off
	out     string // PNG export path; empty disables it
	verbose bool
}

func defaultConfig() *config {
	return &config{
		in:   defaultInput,
		addr: "localhost:8080",
		term: "auto",
	}
}

func newLogger(w io.Writer, verbose bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{
		ForceColors:   isTerminal(w),
		FullTimestamp: true,
	})
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// colorableWriter keeps ANSI sequences working on Windows consoles.
func colorableWriter(w io.Writer) io.Writer {
	if f, ok := w.(*os.File); ok {
		return colorable.NewColorable(f)
	}
	return w
}

func run(ctx context.Context, c *config, stdout, stderr io.Writer) error {
	switch c.term {
	case "auto", "on", "off":
	default:
		return fmt.Errorf("terminal preview must be auto, on or off, got %q", c.term)
	}
	log := newLogger(colorableWriter(stderr), c.verbose)

	samples, err := capture.Load(c.in, nil)
	if errors.Is(err, capture.ErrNotFound) {
		fmt.Fprintf(stdout, "Error: '%s' not found.\n", c.in)
		fmt.Fprintln(stdout, "Please save your data from the Arduino Serial Monitor to that file.")
		return nil
	}
	if err != nil {
		return err
	}

	tr, err := trace.Build(samples, thermistor.Default, log)
	if err != nil {
		return err
	}
	sum := tr.Summary()
	log.WithField("file", c.in).Info(sum.String())

	opts := chart.DefaultOpts
	if sum.Skipped != 0 {
		opts.Note = fmt.Sprintf("%d of %d samples skipped: reading outside the thermistor range", sum.Skipped, len(samples))
	}
	img, err := chart.Render(chart.FromTrace(&tr), &opts)
	if err != nil {
		return err
	}

	if c.out != "" {
		if err := gg.SavePNG(c.out, img); err != nil {
			return fmt.Errorf("saving chart: %w", err)
		}
		log.WithField("file", c.out).Info("chart saved")
	}

	if c.term == "on" || (c.term == "auto" && isTerminal(stdout)) {
		tv := termview.New(&termview.Opts{W: colorableWriter(stdout)})
		if err := show(tv, img); err != nil {
			return err
		}
	}

	if c.addr == "" {
		return nil
	}
	ln, err := net.Listen("tcp", c.addr)
	if err != nil {
		return err
	}
	wv := webview.New(&webview.Options{
		Width:     opts.Width,
		Height:    opts.Height,
		Title:     opts.Title,
		Logger:    log,
		AccessLog: accessLog(log, c.verbose),
	})
	if err := wv.Draw(wv.Bounds(), img, image.Point{}); err != nil {
		return err
	}
	log.Infof("chart served on http://%s/, press Ctrl-C to quit", ln.Addr())
	return serve(ctx, ln, wv, log)
}

// show draws img on d and releases d.
func show(d display.Drawer, img image.Image) error {
	if err := d.Draw(d.Bounds(), img, img.Bounds().Min); err != nil {
		_ = d.Halt()
		return fmt.Errorf("%s: %w", d, err)
	}
	return d.Halt()
}

func accessLog(log *logrus.Logger, verbose bool) io.Writer {
	if !verbose {
		return nil
	}
	return log.WriterLevel(logrus.DebugLevel)
}

// serve runs the chart server on ln until ctx is canceled.
func serve(ctx context.Context, ln net.Listener, wv *webview.Display, log logrus.FieldLogger) error {
	srv := &http.Server{
		Handler:           wv,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Debug("shutting down")
	// Streams only end when halted; Shutdown waits for them.
	_ = wv.Halt()
	sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, defaultConfig(), os.Stdout, os.Stderr)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "thermplot: %s.\n", err)
		os.Exit(1)
	}
}
