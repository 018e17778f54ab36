// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package webview

import (
	"html/template"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

var indexPage = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { margin: 0; background: #f0f0f0; font-family: sans-serif; }
main { display: flex; flex-direction: column; align-items: center; padding: 1em; }
img { max-width: 100%; height: auto; box-shadow: 0 1px 4px #999; background: #fff; }
</style>
</head>
<body>
<main>
<img src="stream" width="{{.Width}}" height="{{.Height}}" alt="{{.Title}}">
<p><a href="chart.png" download>PNG</a> · <a href="chart.jpeg" download>JPEG</a></p>
</main>
</body>
</html>
`))

func (d *Display) serveIndex(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "", http.StatusMethodNotAllowed)
		return
	}
	b := d.Bounds()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := indexPage.Execute(w, struct {
		Title         string
		Width, Height int
	}{d.title, b.Dx(), b.Dy()})
	if err != nil {
		d.log.WithError(err).Warn("writing index page failed")
	}
}

// serveSnapshot sends the current buffer once.
func (d *Display) serveSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "", http.StatusMethodNotAllowed)
		return
	}
	format, err := ParseImageFormat(mux.Vars(r)["ext"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	payload, err := d.grabSnapshot(imageConfig{format: format})
	if err != nil {
		d.log.WithError(err).WithField("format", format).Error("encoding snapshot failed")
		http.Error(w, "", http.StatusInternalServerError)
		return
	}
	//lint:ignore SA6002 buffer is []byte and thus pointer-like
	defer bufferPool.Put(payload)

	w.Header().Set("Content-Type", format.mimeType())
	w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write(payload); err != nil {
		d.log.WithError(err).Debug("writing snapshot failed")
	}
}
