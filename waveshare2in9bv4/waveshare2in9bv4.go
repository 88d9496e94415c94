// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package waveshare2in9bv4

import (
	"errors"
	"fmt"
	"image"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/host/v3/rpi"
)

// Commands
const (
	driverOutputControl            byte = 0x01
	deepSleepMode                  byte = 0x10
	dataEntryModeSetting           byte = 0x11
	swReset                        byte = 0x12
	tempSensorSelect               byte = 0x18
	masterActivation               byte = 0x20
	displayUpdateControl1          byte = 0x21
	displayUpdateControl2          byte = 0x22
	writeRAMBW                     byte = 0x24
	writeRAMRed                    byte = 0x26
	statusBitRead                  byte = 0x2F
	borderWaveformControl          byte = 0x3C
	setRAMXAddressStartEndPosition byte = 0x44
	setRAMYAddressStartEndPosition byte = 0x45
	setRAMXAddressCounter          byte = 0x4E
	setRAMYAddressCounter          byte = 0x4F
)

const (
	chipIDMask    byte = 0x03
	chipIDSSD1680 byte = 0x01
)

// ErrNotInitialized is returned by operations called before Init succeeded.
var ErrNotInitialized = errors.New("waveshare2in9bv4: panel is not initialized")

type state int

const (
	uninitialized state = iota
	awake
	asleep
)

// Opts defines the display configuration.
type Opts struct {
	// Width and Height are the native panel size in pixels.
	Width  int
	Height int

	// BusyTimeout bounds every wait on the busy line. Zero waits forever.
	BusyTimeout time.Duration
	// BusyPoll is the busy line polling interval; defaults to 10ms.
	BusyPoll time.Duration

	// VerifyChipID reads the controller status during Init and fails with
	// InitProtocolMismatch if it is not an SSD1680. The SPI data line must be
	// readable, which is not the case on the Raspberry Pi HAT.
	VerifyChipID bool
}

// EPD2in9bV4 contains the display configuration for the Waveshare 2.9" B V4.
var EPD2in9bV4 = Opts{
	Width:       128,
	Height:      296,
	BusyTimeout: 30 * time.Second,
	BusyPoll:    10 * time.Millisecond,
}

// Dev defines the handler which is used to access the display.
type Dev struct {
	c conn.Conn

	dc   gpio.PinOut
	cs   gpio.PinOut
	rst  gpio.PinOut
	busy gpio.PinIn

	opts  *Opts
	state state
}

// New creates new handler which is used to access the display. Init must be
// called before anything is written.
func New(p spi.Port, dc, cs, rst gpio.PinOut, busy gpio.PinIn, opts *Opts) (*Dev, error) {
	if opts.Width <= 0 || opts.Height <= 0 || opts.Width%8 != 0 {
		return nil, fmt.Errorf("waveshare2in9bv4: invalid panel size %dx%d", opts.Width, opts.Height)
	}

	c, err := p.Connect(4*physic.MegaHertz, spi.Mode0, 8)
	if err != nil {
		return nil, err
	}

	if err := busy.In(gpio.Float, gpio.NoEdge); err != nil {
		return nil, err
	}

	o := *opts
	if o.BusyPoll <= 0 {
		o.BusyPoll = 10 * time.Millisecond
	}

	return &Dev{
		c:    c,
		dc:   dc,
		cs:   cs,
		rst:  rst,
		busy: busy,
		opts: &o,
	}, nil
}

// NewHat creates new handler which is used to access the display. Default
// Waveshare Hat configuration is used.
func NewHat(p spi.Port, opts *Opts) (*Dev, error) {
	dc := rpi.P1_22
	cs := rpi.P1_24
	rst := rpi.P1_11
	busy := rpi.P1_18
	return New(p, dc, cs, rst, busy, opts)
}

// Reset the hardware.
func (d *Dev) Reset() error {
	eh := errorHandler{d: *d}

	eh.rstOut(gpio.High)
	time.Sleep(20 * time.Millisecond)
	eh.rstOut(gpio.Low)
	time.Sleep(2 * time.Millisecond)
	eh.rstOut(gpio.High)
	time.Sleep(20 * time.Millisecond)

	return eh.err
}

// Init resets the controller and configures it for full screen updates. A
// busy line that never releases is reported as an InitError with reason
// InitTimeout.
func (d *Dev) Init() error {
	if err := d.Reset(); err != nil {
		return err
	}

	eh := errorHandler{d: *d}

	softReset(&eh)

	if d.opts.VerifyChipID && eh.err == nil {
		id := readStatus(&eh) & chipIDMask
		if eh.err == nil && id != chipIDSSD1680 {
			return &InitError{
				Reason: InitProtocolMismatch,
				Err:    fmt.Errorf("chip ID %#x, want %#x", id, chipIDSSD1680),
			}
		}
	}

	initDisplay(&eh, d.opts)

	if eh.err != nil {
		var te *TimeoutError
		if errors.As(eh.err, &te) {
			return &InitError{Reason: InitTimeout, Err: eh.err}
		}
		return eh.err
	}

	d.state = awake
	return nil
}

func (d *Dev) checkAwake() error {
	switch d.state {
	case uninitialized:
		return ErrNotInitialized
	case asleep:
		return ErrAsleep
	}
	return nil
}

// Bounds returns the native panel area.
func (d *Dev) Bounds() image.Rectangle {
	return image.Rect(0, 0, d.opts.Width, d.opts.Height)
}

// Stride returns the number of bytes per plane row.
func (d *Dev) Stride() int {
	return (d.opts.Width + 7) / 8
}

// WriteFullFrame uploads both ink planes and performs a full refresh. It
// returns once the panel reports idle.
func (d *Dev) WriteFullFrame(black, chromatic []byte) error {
	if err := d.checkAwake(); err != nil {
		return err
	}

	want := d.Stride() * d.opts.Height
	if len(black) != want || len(chromatic) != want {
		return fmt.Errorf("%w: got %d and %d bytes, want %d", ErrPlaneSize, len(black), len(chromatic), want)
	}

	eh := errorHandler{d: *d}

	writeFullFrame(&eh, d.opts, black, chromatic)

	return eh.err
}

// validateRegion checks that region can be addressed by the controller's
// byte wide X counter.
func (d *Dev) validateRegion(region image.Rectangle) error {
	switch {
	case region.Empty():
		return &RegionError{Region: region, Reason: "empty"}
	case !region.In(d.Bounds()):
		return &RegionError{Region: region, Reason: fmt.Sprintf("outside %v", d.Bounds())}
	case region.Min.X%8 != 0:
		return &RegionError{Region: region, Reason: "x origin not a multiple of 8"}
	case region.Dx()%8 != 0:
		return &RegionError{Region: region, Reason: "width not a multiple of 8"}
	}
	return nil
}

// WritePartialFrame uploads the black plane of a native window. plane holds
// region.Dy() rows of region.Dx()/8 bytes. The window is not shown until
// RefreshPartial; several windows may be written before one refresh.
func (d *Dev) WritePartialFrame(plane []byte, region image.Rectangle) error {
	if err := d.checkAwake(); err != nil {
		return err
	}
	if err := d.validateRegion(region); err != nil {
		return err
	}
	if want := region.Dx() / 8 * region.Dy(); len(plane) != want {
		return fmt.Errorf("%w: got %d bytes, want %d for %v", ErrPlaneSize, len(plane), want, region)
	}

	eh := errorHandler{d: *d}

	writePartialFrame(&eh, plane, region)

	return eh.err
}

// RefreshPartial shows everything written with WritePartialFrame without
// flashing the rest of the panel.
func (d *Dev) RefreshPartial() error {
	if err := d.checkAwake(); err != nil {
		return err
	}

	eh := errorHandler{d: *d}

	turnOnDisplayPart(&eh)

	return eh.err
}

// Sleep makes the controller enter deep sleep mode. The image stays on the
// panel. It can be woken up by calling Wake.
func (d *Dev) Sleep() error {
	if err := d.checkAwake(); err != nil {
		return err
	}

	eh := errorHandler{d: *d}

	deepSleep(&eh)

	if eh.err != nil {
		return eh.err
	}
	d.state = asleep
	return nil
}

// Wake leaves deep sleep. The controller only responds to a hardware reset
// in this state, so this is a full Init. It may also be used to recover a
// panel whose busy line got stuck.
func (d *Dev) Wake() error {
	return d.Init()
}

// Asleep reports whether the controller is in deep sleep.
func (d *Dev) Asleep() bool {
	return d.state == asleep
}

// Halt puts an awake controller into deep sleep.
func (d *Dev) Halt() error {
	if d.state != awake {
		return nil
	}
	return d.Sleep()
}

// String returns a string containing configuration information.
func (d *Dev) String() string {
	return fmt.Sprintf("epd.Dev{%s, %s, Width: %d, Height: %d}", d.c, d.dc, d.opts.Width, d.opts.Height)
}

var _ conn.Resource = &Dev{}
