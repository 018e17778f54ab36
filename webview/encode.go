// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package webview

import (
	"bytes"
	"fmt"
	"image/jpeg"
	"image/png"
	"net/url"
	"sync"
)

// bufferPool stores reusable []byte instances.
var bufferPool = sync.Pool{
	New: func() interface{} {
		return []byte(nil)
	},
}

type pngBufferPool sync.Pool

func (p *pngBufferPool) Get() *png.EncoderBuffer {
	buf, _ := (*sync.Pool)(p).Get().(*png.EncoderBuffer)
	return buf
}

func (p *pngBufferPool) Put(buf *png.EncoderBuffer) {
	(*sync.Pool)(p).Put(buf)
}

// pngEncoders shares one buffer pool between all displays.
var pngEncoders struct {
	mu   sync.Mutex
	pool pngBufferPool
	enc  map[png.CompressionLevel]*png.Encoder
}

func pngEncoder(level png.CompressionLevel) *png.Encoder {
	pngEncoders.mu.Lock()
	defer pngEncoders.mu.Unlock()
	enc := pngEncoders.enc[level]
	if enc == nil {
		if pngEncoders.enc == nil {
			pngEncoders.enc = make(map[png.CompressionLevel]*png.Encoder, 1)
		}
		enc = &png.Encoder{CompressionLevel: level, BufferPool: &pngEncoders.pool}
		pngEncoders.enc[level] = enc
	}
	return enc
}

type imageConfig struct {
	format ImageFormat
}

func (d *Display) configFromQuery(values url.Values) (imageConfig, error) {
	cfg := imageConfig{format: d.format}
	if value := values.Get("format"); value != "" {
		format, err := ParseImageFormat(value)
		if err != nil {
			return imageConfig{}, err
		}
		cfg.format = format
	}
	return cfg, nil
}

func (d *Display) encodeBufferLocked(format ImageFormat) ([]byte, error) {
	buf := bytes.NewBuffer(bufferPool.Get().([]byte)[:0])
	switch format {
	case PNG:
		if err := pngEncoder(d.png).Encode(buf, d.buffer); err != nil {
			return nil, err
		}
	case JPEG:
		if err := jpeg.Encode(buf, d.buffer, &jpeg.Options{Quality: d.quality}); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unhandled image format %s", format)
	}
	return buf.Bytes(), nil
}

// grabSnapshot returns a copy of the encoded buffer, taken from
// bufferPool. Encodings are cached until the next Draw.
func (d *Display) grabSnapshot(cfg imageConfig) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	encoded, ok := d.snapshot[cfg]
	if !ok {
		var err error
		if encoded, err = d.encodeBufferLocked(cfg.format); err != nil {
			return nil, err
		}
		d.snapshot[cfg] = encoded
	}
	return append(bufferPool.Get().([]byte)[:0], encoded...), nil
}

func (d *Display) bufferChangedLocked() {
	d.frame++
	for cfg, buffer := range d.snapshot {
		if buffer != nil {
			//lint:ignore SA6002 buffer is []byte and thus pointer-like
			bufferPool.Put(buffer)
		}
		delete(d.snapshot, cfg)
	}
	for c := range d.clients {
		select {
		case c.refresh <- struct{}{}:
		default:
		}
	}
}
