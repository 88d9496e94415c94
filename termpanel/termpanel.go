// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package termpanel implements a software e-paper panel that prints every
// refresh to a terminal using ANSI 256 colours.
//
// Useful while the real panel sits on another desk, or to watch partial
// updates next to the hardware through weatherdisplay.Tee.
package termpanel

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"

	"github.com/GermanBionicSystems/weatherpaper/tricolor"
)

// ErrAsleep is returned by writes while the panel sleeps.
var ErrAsleep = errors.New("termpanel: panel is asleep")

// Opts represents the options available for this panel.
type Opts struct {
	// Width and Height are the native panel size in pixels.
	Width, Height int

	// Rotation is applied when printing so the terminal shows the logical
	// image.
	Rotation tricolor.Rotation

	// Scale is the number of pixels folded into one terminal cell
	// horizontally. Cells are about twice as tall as wide, so each cell
	// covers twice as many rows.
	Scale int

	Palette *ansi256.Palette

	_ struct{}
}

// DefaultOpts matches the 2.9" tri-colour panel in landscape orientation.
var DefaultOpts = Opts{
	Width:    128,
	Height:   296,
	Rotation: tricolor.Rotate270,
	Scale:    2,
}

// Dev is a tri-colour panel emulator that outputs to the console.
type Dev struct {
	w       io.Writer
	palette ansi256.Palette
	opts    Opts

	frame  *tricolor.Frame
	asleep bool
	buf    bytes.Buffer
}

// New returns a Dev that prints to w, or to the console when w is nil.
func New(w io.Writer, opts *Opts) (*Dev, error) {
	if opts.Width <= 0 || opts.Height <= 0 || opts.Width%8 != 0 {
		return nil, fmt.Errorf("termpanel: invalid size %dx%d", opts.Width, opts.Height)
	}

	frame := tricolor.NewFrame(opts.Width, opts.Height)
	if err := frame.SetRotation(opts.Rotation); err != nil {
		return nil, err
	}

	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	if w == nil {
		w = colorable.NewColorableStdout()
	}

	d := &Dev{
		w:       w,
		palette: *p,
		opts:    *opts,
		frame:   frame,
	}
	if d.opts.Scale <= 0 {
		d.opts.Scale = 1
	}
	return d, nil
}

func (d *Dev) String() string {
	return "TermPanel"
}

// Halt implements conn.Resource.
//
// It resets the terminal colours so the prompt is not corrupted.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\n\033[0m"))
	return err
}

// Init clears the terminal.
func (d *Dev) Init() error {
	d.asleep = false
	_, err := d.w.Write([]byte("\033[0m\033[2J"))
	return err
}

// WriteFullFrame replaces both planes and prints the result.
func (d *Dev) WriteFullFrame(black, chromatic []byte) error {
	if d.asleep {
		return ErrAsleep
	}

	f, err := tricolor.FromPlanes(d.opts.Width, d.opts.Height, black, chromatic)
	if err != nil {
		return err
	}
	if err := f.SetRotation(d.opts.Rotation); err != nil {
		return err
	}

	d.frame = f
	return d.refresh()
}

// WritePartialFrame patches the black plane in region. Nothing is printed
// until RefreshPartial.
func (d *Dev) WritePartialFrame(plane []byte, region image.Rectangle) error {
	if d.asleep {
		return ErrAsleep
	}
	return d.frame.Patch(plane, region)
}

// RefreshPartial prints the current image.
func (d *Dev) RefreshPartial() error {
	if d.asleep {
		return ErrAsleep
	}
	return d.refresh()
}

// Sleep stops accepting writes until Wake.
func (d *Dev) Sleep() error {
	if d.asleep {
		return ErrAsleep
	}
	d.asleep = true
	return nil
}

// Wake accepts writes again. The printed image is kept.
func (d *Dev) Wake() error {
	d.asleep = false
	return nil
}

// Frame returns the image as last written. It must not be modified.
func (d *Dev) Frame() *tricolor.Frame {
	return d.frame
}

// cell returns the ink shown for the terminal cell starting at the logical
// position (x, y). Chromatic wins over black, black over white.
func (d *Dev) cell(x, y int) tricolor.Color {
	ink := tricolor.White
	for cy := y; cy < y+2*d.opts.Scale; cy++ {
		for cx := x; cx < x+d.opts.Scale; cx++ {
			switch d.frame.ColorAt(cx, cy) {
			case tricolor.Chromatic:
				return tricolor.Chromatic
			case tricolor.Black:
				ink = tricolor.Black
			}
		}
	}
	return ink
}

func (d *Dev) refresh() error {
	// This code is designed to minimize the amount of memory allocated per call.
	d.buf.Reset()
	_, _ = d.buf.WriteString("\033[H\033[0m")

	b := d.frame.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y += 2 * d.opts.Scale {
		for x := b.Min.X; x < b.Max.X; x += d.opts.Scale {
			_, _ = io.WriteString(&d.buf, d.palette.Block(nrgba(d.cell(x, y))))
		}
		_, _ = d.buf.WriteString("\033[0m\n")
	}

	_, err := d.buf.WriteTo(d.w)
	return err
}

func nrgba(c tricolor.Color) color.NRGBA {
	r, g, b, _ := c.RGBA()
	return color.NRGBA{byte(r >> 8), byte(g >> 8), byte(b >> 8), 255}
}

var _ fmt.Stringer = &Dev{}
