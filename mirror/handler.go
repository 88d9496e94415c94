// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mirror

import (
	"bytes"
	"fmt"
	"image/jpeg"
	"mime"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
	"time"
)

// Headers describing the Update an image belongs to.
const (
	HeaderSequence = "X-Panel-Sequence"
	HeaderUpdate   = "X-Panel-Update"
	HeaderRegions  = "X-Panel-Regions"
	HeaderTime     = "X-Panel-Time"
)

// header returns the part headers for an image of u in format f.
func (u Update) header(f ImageFormat) textproto.MIMEHeader {
	h := textproto.MIMEHeader{}
	h.Set("Content-Type", f.mimeType())
	h.Set(HeaderSequence, strconv.FormatUint(u.Seq, 10))
	h.Set(HeaderUpdate, u.Op)
	h.Set(HeaderTime, u.At.Format(time.RFC3339))
	if len(u.Regions) > 0 {
		r := make([]string, len(u.Regions))
		for i := range u.Regions {
			r[i] = u.Regions[i].String()
		}
		h.Set(HeaderRegions, strings.Join(r, " "))
	}
	return h
}

func (d *Display) encodeLocked(format ImageFormat) ([]byte, error) {
	var buf bytes.Buffer

	switch format {
	case PNG:
		if err := pngEncoder.get(d.opts.PNGCompression).Encode(&buf, d.buffer); err != nil {
			return nil, err
		}
	case JPEG:
		if err := jpeg.Encode(&buf, d.buffer, &jpeg.Options{Quality: d.opts.JPEGQuality}); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("mirror: unhandled image format %s", format)
	}
	return buf.Bytes(), nil
}

// snapshot returns the last Update and its image encoded as format. The
// returned slice is shared and must not be modified.
func (d *Display) snapshot(format ImageFormat) (Update, []byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	payload, ok := d.encoded[format]
	if !ok {
		var err error
		if payload, err = d.encodeLocked(format); err != nil {
			return Update{}, nil, err
		}
		d.encoded[format] = payload
	}
	return d.last, payload, nil
}

// watch returns a channel signalled after every published Update, and the
// function to stop watching.
func (d *Display) watch() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	d.mu.Lock()
	d.watchers[ch] = struct{}{}
	d.mu.Unlock()

	return ch, func() {
		d.mu.Lock()
		delete(d.watchers, ch)
		d.mu.Unlock()
	}
}

// ServeHTTP handles HTTP GET requests. It streams the panel image, one part
// per published Update, or sends the current image alone with the "single"
// parameter. Clients can explicitly request PNG or JPEG images using the
// "format" parameter ("?format=png", "?format=jpeg").
func (d *Display) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "", http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query()
	format := d.opts.Format
	if value := query.Get("format"); value != "" {
		f, err := ImageFormatFromString(value)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		format = f
	}

	select {
	case <-d.halted:
		http.Error(w, "mirror halted", http.StatusServiceUnavailable)
		return
	default:
	}

	if query.Has("single") {
		d.serveSingle(w, format)
		return
	}
	d.serveStream(w, r, format)
}

func (d *Display) serveSingle(w http.ResponseWriter, format ImageFormat) {
	u, payload, err := d.snapshot(format)
	if err != nil {
		d.log.Error().Err(err).Msg("encoding mirror image failed")
		http.Error(w, "", http.StatusInternalServerError)
		return
	}

	for k, v := range u.header(format) {
		w.Header()[k] = v
	}
	w.Header().Set("Content-Length", strconv.Itoa(len(payload)))
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write(payload); err != nil {
		d.log.Debug().Err(err).Msg("mirror client went away")
	}
}

func (d *Display) serveStream(w http.ResponseWriter, r *http.Request, format ImageFormat) {
	updated, stop := d.watch()
	defer stop()

	pw := makePartWriter(w)
	w.Header().Set("Content-Type",
		mime.FormatMediaType("multipart/x-mixed-replace", map[string]string{
			"boundary": pw.boundary,
		}))

	d.log.Debug().Str("remote", r.RemoteAddr).Stringer("format", format).Msg("mirror client connected")

	var sent uint64
	for {
		u, payload, err := d.snapshot(format)
		if err != nil {
			d.log.Error().Err(err).Msg("encoding mirror image failed")
			return
		}

		// Several updates may collapse into one part for a slow client.
		if u.Seq != sent {
			h := u.header(format)
			h.Set("Content-Transfer-Encoding", "binary")
			if err := pw.writeFrame(h, payload); err != nil {
				// There's no way to report errors within an image stream.
				return
			}
			if flusher, ok := w.(http.Flusher); ok {
				flusher.Flush()
			}
			sent = u.Seq
		}

		select {
		case <-updated:
		case <-d.halted:
			return
		case <-r.Context().Done():
			return
		}
	}
}
