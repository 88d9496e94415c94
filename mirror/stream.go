// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mirror

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"net/textproto"
	"sort"
	"strconv"
)

// randomBoundary generates a MIME multipart boundary compatible with RFC 2046
// (section 5.1.1).
func randomBoundary() string {
	var buf [30]byte
	if _, err := io.ReadFull(rand.Reader, buf[:]); err != nil {
		panic(err)
	}
	return hex.EncodeToString(buf[:])
}

// partWriter writes a never ending multipart stream. mime/multipart.Writer
// cannot flush a part together with its closing boundary line.
type partWriter struct {
	w        io.Writer
	boundary string
	started  bool
	head     bytes.Buffer
}

func makePartWriter(w io.Writer) partWriter {
	return partWriter{
		w:        w,
		boundary: randomBoundary(),
	}
}

// writeFrame sends a single part and its closing boundary. A Content-Length
// header is added to header.
func (p *partWriter) writeFrame(header textproto.MIMEHeader, body []byte) error {
	header.Set("Content-Length", strconv.Itoa(len(body)))

	p.head.Reset()
	if !p.started {
		fmt.Fprintf(&p.head, "--%s\r\n", p.boundary)
		p.started = true
	}

	names := make([]string, 0, len(header))
	for name := range header {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		for _, value := range header[name] {
			fmt.Fprintf(&p.head, "%s: %s\r\n", name, value)
		}
	}
	p.head.WriteString("\r\n")

	if _, err := p.head.WriteTo(p.w); err != nil {
		return err
	}
	if _, err := p.w.Write(body); err != nil {
		return err
	}
	_, err := fmt.Fprintf(p.w, "\r\n--%s\r\n", p.boundary)
	return err
}
