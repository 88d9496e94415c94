// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mirror

import (
	"fmt"
	"image/png"
	"strings"
	"sync"
)

// ImageFormat is the encoding of the served images.
type ImageFormat int

const (
	PNG ImageFormat = iota
	JPEG

	// DefaultFormat is the format used when not set explicitly in options or
	// as a URL parameter.
	DefaultFormat = PNG
)

func (f ImageFormat) String() string {
	switch f {
	case PNG:
		return "PNG"
	case JPEG:
		return "JPEG"
	default:
		return fmt.Sprint(int(f))
	}
}

func (f ImageFormat) mimeType() string {
	switch f {
	case PNG:
		return "image/png"
	case JPEG:
		return "image/jpeg"
	}

	return "application/octet-stream"
}

// ImageFormatFromString returns the ImageFormat value for the given format
// abbreviation, ignoring case.
func ImageFormatFromString(value string) (ImageFormat, error) {
	switch strings.ToLower(value) {
	case "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	}

	return DefaultFormat, fmt.Errorf("mirror: unrecognized image format %q", value)
}

type pngBufferPool struct {
	pool sync.Pool
}

func (p *pngBufferPool) Get() *png.EncoderBuffer {
	buf, _ := p.pool.Get().(*png.EncoderBuffer)
	return buf
}

func (p *pngBufferPool) Put(buf *png.EncoderBuffer) {
	p.pool.Put(buf)
}

// pngEncoders hands out one encoder per compression level, all sharing a
// buffer pool.
type pngEncoders struct {
	mu   sync.Mutex
	pool pngBufferPool
	enc  map[png.CompressionLevel]*png.Encoder
}

var pngEncoder pngEncoders

func (m *pngEncoders) get(level png.CompressionLevel) *png.Encoder {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.enc == nil {
		m.enc = map[png.CompressionLevel]*png.Encoder{}
	}

	enc, ok := m.enc[level]
	if !ok {
		enc = &png.Encoder{CompressionLevel: level, BufferPool: &m.pool}
		m.enc[level] = enc
	}
	return enc
}
