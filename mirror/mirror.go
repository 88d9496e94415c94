// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package mirror provides a software e-paper panel implementing an HTTP
// request handler. Client requests get an initial snapshot of the panel and
// one more image for every published update.
//
// The served image is the logical (rotated) panel content, upscaled, with the
// regions of the last partial refresh outlined and a caption line naming the
// last operation. It is meant to run next to the real panel through
// weatherdisplay.Tee.
//
// The protocol used is "MJPEG" (https://en.wikipedia.org/wiki/Motion_JPEG).
// A new part is sent whenever the panel image is published: after a full
// write, a partial refresh or when the panel goes to sleep. Partial writes
// alone publish nothing, like on the real panel. Each part carries the
// X-Panel-Sequence, X-Panel-Update and X-Panel-Regions headers describing the
// update. The "single" URL parameter returns only the current image.
//
// PNG is used by default; JPEG can be selected via Options.Format or using
// the "format" URL parameter.
package mirror

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"net/http"
	"sync"
	"time"

	"github.com/fogleman/gg"
	"github.com/rs/zerolog"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font/basicfont"

	"github.com/GermanBionicSystems/weatherpaper/tricolor"
)

// ErrAsleep is returned by writes while the panel sleeps.
var ErrAsleep = errors.New("mirror: panel is asleep")

// CaptionHeight is the height in pixels of the caption line below the image.
const CaptionHeight = 18

// Options for mirror panels.
type Options struct {
	// Width and Height are the native panel size in pixels.
	Width, Height int

	// Rotation maps the native panel to the served image.
	Rotation tricolor.Rotation

	// Scale is the upscaling factor of the served image. Defaults to 1.
	Scale int

	// Format specifies the image format to send to clients.
	Format ImageFormat

	PNGCompression png.CompressionLevel

	// JPEGQuality defaults to jpeg.DefaultQuality.
	JPEGQuality int

	Logger zerolog.Logger
}

// Display is the mirror panel.
type Display struct {
	opts Options
	log  zerolog.Logger

	mu      sync.Mutex
	frame   *tricolor.Frame
	pending []image.Rectangle
	asleep  bool
	buffer  image.Image
	last    Update

	// encoded caches the encodings of buffer per format.
	encoded  map[ImageFormat][]byte
	watchers map[chan struct{}]struct{}

	halted   chan struct{}
	haltOnce sync.Once
}

// Update describes the last published image.
type Update struct {
	// Seq increases with every published image, starting at 1.
	Seq uint64
	// Op is "waiting", "full", "partial" or "asleep".
	Op string
	// Regions are the logical rectangles patched by a partial refresh.
	Regions []image.Rectangle
	At      time.Time
}

var _ http.Handler = (*Display)(nil)

// New creates a new mirror panel. The initial image is white.
func New(opts *Options) (*Display, error) {
	if opts.Width <= 0 || opts.Height <= 0 || opts.Width%8 != 0 {
		return nil, fmt.Errorf("mirror: invalid size %dx%d", opts.Width, opts.Height)
	}

	frame := tricolor.NewFrame(opts.Width, opts.Height)
	if err := frame.SetRotation(opts.Rotation); err != nil {
		return nil, err
	}

	d := &Display{
		opts:     *opts,
		log:      opts.Logger,
		frame:    frame,
		watchers: map[chan struct{}]struct{}{},
		halted:   make(chan struct{}),
	}
	if d.opts.Scale <= 0 {
		d.opts.Scale = 1
	}
	if d.opts.JPEGQuality <= 0 {
		d.opts.JPEGQuality = jpeg.DefaultQuality
	}

	d.composeLocked("waiting", nil)
	return d, nil
}

// String returns the name of the device.
func (d *Display) String() string {
	return "Mirror"
}

// Halt implements conn.Resource. It ends all running streams; later requests
// are refused.
func (d *Display) Halt() error {
	d.haltOnce.Do(func() {
		close(d.halted)
	})
	return nil
}

// Bounds returns the size of the served image.
func (d *Display) Bounds() image.Rectangle {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.buffer.Bounds()
}

// Image returns the image currently served to clients.
func (d *Display) Image() image.Image {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.buffer
}

// LastUpdate returns the description of the served image.
func (d *Display) LastUpdate() Update {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.last
}

// Init marks the panel awake.
func (d *Display) Init() error {
	d.mu.Lock()
	d.asleep = false
	d.mu.Unlock()

	return nil
}

// WriteFullFrame replaces both planes and publishes the result.
func (d *Display) WriteFullFrame(black, chromatic []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

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
	d.pending = nil
	d.composeLocked("full", nil)
	return nil
}

// WritePartialFrame patches the black plane in region. Clients see the
// change after RefreshPartial.
func (d *Display) WritePartialFrame(plane []byte, region image.Rectangle) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.asleep {
		return ErrAsleep
	}
	if err := d.frame.Patch(plane, region); err != nil {
		return err
	}

	d.pending = append(d.pending, region)
	return nil
}

// RefreshPartial publishes the patched image with the patched regions
// outlined.
func (d *Display) RefreshPartial() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.asleep {
		return ErrAsleep
	}

	d.composeLocked("partial", d.pending)
	d.pending = nil
	return nil
}

// Sleep stops accepting writes until Wake.
func (d *Display) Sleep() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.asleep {
		return ErrAsleep
	}

	d.asleep = true
	d.composeLocked("asleep", nil)
	return nil
}

// Wake accepts writes again.
func (d *Display) Wake() error {
	d.mu.Lock()
	d.asleep = false
	d.mu.Unlock()

	return nil
}

// composeLocked renders the served image from the frame, publishes it as the
// next Update and wakes the streams. regions are native rectangles to
// outline.
func (d *Display) composeLocked(op string, regions []image.Rectangle) {
	u := Update{Seq: d.last.Seq + 1, Op: op, At: time.Now()}
	for _, r := range regions {
		u.Regions = append(u.Regions, d.frame.LogicalRect(r))
	}

	b := d.frame.Bounds()
	s := d.opts.Scale
	w, h := b.Dx()*s, b.Dy()*s

	scaled := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.NearestNeighbor.Scale(scaled, scaled.Bounds(), d.frame, b, xdraw.Src, nil)

	dc := gg.NewContext(w, h+CaptionHeight)
	dc.SetColor(color.White)
	dc.Clear()
	dc.DrawImage(scaled, 0, 0)

	dc.SetRGB(0, 0.4, 1)
	dc.SetLineWidth(2)
	for _, lr := range u.Regions {
		dc.DrawRectangle(float64(lr.Min.X*s)+1, float64(lr.Min.Y*s)+1, float64(lr.Dx()*s)-2, float64(lr.Dy()*s)-2)
		dc.Stroke()
	}

	dc.SetFontFace(basicfont.Face7x13)
	dc.SetRGB(0, 0, 0)
	dc.DrawString(u.caption(), 4, float64(h)+13)

	d.buffer = dc.Image()
	d.last = u
	d.encoded = map[ImageFormat][]byte{}
	for ch := range d.watchers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}

	d.log.Debug().Uint64("seq", u.Seq).Str("op", op).Int("regions", len(u.Regions)).Msg("mirror updated")
}

func (u Update) caption() string {
	c := fmt.Sprintf("#%d %s %s", u.Seq, u.At.Format("15:04:05"), u.Op)
	if len(u.Regions) > 0 {
		c += fmt.Sprintf(" x%d", len(u.Regions))
	}
	return c
}
