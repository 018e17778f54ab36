// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package webview provides a display driver serving its content to web
// browsers. It is the interactive surface charts are shown on.
//
// Routes:
//
//	GET /                 HTML page showing the live stream
//	GET /stream           MJPEG-style multipart stream, one frame per Draw
//	GET /chart.png        single PNG snapshot
//	GET /chart.jpeg       single JPEG snapshot
//
// The stream uses "multipart/x-mixed-replace", the protocol IP cameras use
// for MJPEG (https://en.wikipedia.org/wiki/Motion_JPEG). PNG frames are the
// default because they suit computer-drawn graphics; "?format=jpeg" selects
// JPEG.
package webview

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"net/http"
	"sync"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/display"
)

// Options for webview displays.
type Options struct {
	// Width and height of the image buffer; 1000x600 when either is zero.
	Width, Height int
	// Title of the HTML page.
	Title string
	// Format sent to clients that don't ask for one.
	Format ImageFormat
	// PNGCompression defaults to png.DefaultCompression.
	PNGCompression png.CompressionLevel
	// JPEGQuality defaults to 90.
	JPEGQuality int
	// Logger receives request errors. Defaults to the logrus standard
	// logger.
	Logger logrus.FieldLogger
	// AccessLog, when set, receives one line per request in Apache combined
	// log format.
	AccessLog io.Writer
}

// Display is a display.Drawer whose buffer is served over HTTP.
type Display struct {
	title   string
	format  ImageFormat
	png     png.CompressionLevel
	quality int
	log     logrus.FieldLogger
	handler http.Handler

	mu       sync.Mutex
	buffer   *image.RGBA
	frame    uint64
	halted   bool
	clients  map[*client]struct{}
	snapshot map[imageConfig][]byte
}

var _ display.Drawer = (*Display)(nil)
var _ http.Handler = (*Display)(nil)

// New creates a new display.
//
// A nil opt or a zero size selects a 1000x600 buffer, the chart's default.
func New(opt *Options) *Display {
	if opt == nil {
		opt = &Options{}
	}
	w, h := opt.Width, opt.Height
	if w <= 0 || h <= 0 {
		w, h = 1000, 600
	}
	buffer := image.NewRGBA(image.Rect(0, 0, w, h))

	// A new RGBA is fully transparent; start from an opaque white page.
	draw.Draw(buffer, buffer.Bounds(), image.White, image.Point{}, draw.Src)

	d := &Display{
		title:    opt.Title,
		format:   opt.Format,
		png:      opt.PNGCompression,
		quality:  opt.JPEGQuality,
		log:      opt.Logger,
		buffer:   buffer,
		clients:  map[*client]struct{}{},
		snapshot: map[imageConfig][]byte{},
	}
	if d.title == "" {
		d.title = "thermplot"
	}
	if d.quality <= 0 || d.quality > 100 {
		d.quality = 90
	}
	if d.log == nil {
		d.log = logrus.StandardLogger()
	}

	r := mux.NewRouter()
	r.HandleFunc("/", d.serveIndex)
	r.HandleFunc("/stream", d.serveStream)
	r.HandleFunc("/chart.{ext}", d.serveSnapshot)
	d.handler = r
	if opt.AccessLog != nil {
		d.handler = handlers.CombinedLoggingHandler(opt.AccessLog, r)
	}
	return d
}

// String returns the name of the device.
func (d *Display) String() string {
	return "WebView"
}

// Halt implements conn.Resource and terminates all running streams
// asynchronously. Streams requested afterwards are refused; snapshots are
// still served.
func (d *Display) Halt() error {
	d.mu.Lock()
	d.halted = true
	d.terminateClientsLocked()
	d.mu.Unlock()
	return nil
}

// ColorModel implements display.Drawer.
func (d *Display) ColorModel() color.Model {
	return d.buffer.ColorModel()
}

// Bounds implements display.Drawer.
func (d *Display) Bounds() image.Rectangle {
	return d.buffer.Bounds()
}

// Draw implements display.Drawer and pushes a frame to every stream.
func (d *Display) Draw(dstRect image.Rectangle, src image.Image, srcPts image.Point) error {
	d.mu.Lock()
	draw.Draw(d.buffer, dstRect, src, srcPts, draw.Src)
	d.bufferChangedLocked()
	d.mu.Unlock()
	return nil
}

// Frames returns how many times Draw was called.
func (d *Display) Frames() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.frame
}

// ServeHTTP implements http.Handler.
func (d *Display) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	d.handler.ServeHTTP(w, r)
}
