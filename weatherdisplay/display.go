// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package weatherdisplay

import (
	"errors"
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/GermanBionicSystems/weatherpaper/tricolor"
	"github.com/GermanBionicSystems/weatherpaper/weather"
	"github.com/rs/zerolog"
)

var (
	// ErrAsleep is returned by renders and Sleep while the panel sleeps.
	ErrAsleep = errors.New("weatherdisplay: panel is asleep")
	// ErrAwake is returned by Wake while the panel is awake.
	ErrAwake = errors.New("weatherdisplay: panel is awake")
	// ErrAccentInPartial is returned when a partial update would cover
	// chromatic pixels, which a partial refresh cannot show.
	ErrAccentInPartial = errors.New("weatherdisplay: partial region contains chromatic ink")
)

// Panel is the e-paper controller the board is flushed to. Planes use ink
// polarity and native coordinates.
type Panel interface {
	Init() error
	WriteFullFrame(black, chromatic []byte) error
	WritePartialFrame(plane []byte, region image.Rectangle) error
	RefreshPartial() error
	Sleep() error
	Wake() error
}

// PanelState tells whether the panel accepts updates.
type PanelState int

const (
	Awake PanelState = iota
	Asleep
)

func (s PanelState) String() string {
	switch s {
	case Awake:
		return "Awake"
	case Asleep:
		return "Asleep"
	}
	return fmt.Sprintf("PanelState(%d)", int(s))
}

// UpdateKind is the refresh strategy of a flush.
type UpdateKind int

const (
	// NoUpdate means nothing was flushed yet.
	NoUpdate UpdateKind = iota
	FullRedraw
	PartialPatch
)

// UpdateMode describes a flush. Regions is only set for PartialPatch and
// holds native coordinates.
type UpdateMode struct {
	Kind    UpdateKind
	Regions []image.Rectangle
}

func (m UpdateMode) String() string {
	switch m.Kind {
	case NoUpdate:
		return "none"
	case FullRedraw:
		return "full"
	case PartialPatch:
		parts := make([]string, len(m.Regions))
		for i, r := range m.Regions {
			parts[i] = r.String()
		}
		return "partial " + strings.Join(parts, " ")
	}
	return fmt.Sprintf("UpdateKind(%d)", int(m.Kind))
}

// Opts configures a Display.
type Opts struct {
	Logger zerolog.Logger
}

// Display composes the weather board and decides how to refresh the panel.
// It is not safe for concurrent use.
type Display struct {
	panel Panel
	log   zerolog.Logger

	frame *tricolor.Frame
	// field is the reusable buffer for one reading field.
	field *tricolor.Frame

	state        PanelState
	readingDrawn bool
	last         UpdateMode
	lastAt       time.Time
}

// New initializes panel and returns a Display with a blank frame. opts may
// be nil.
func New(panel Panel, opts *Opts) (*Display, error) {
	log := zerolog.Nop()
	if opts != nil {
		log = opts.Logger
	}

	frame := tricolor.NewFrame(NativeWidth, NativeHeight)
	if err := frame.SetRotation(rotation); err != nil {
		return nil, err
	}

	if err := panel.Init(); err != nil {
		return nil, fmt.Errorf("weatherdisplay: initializing panel: %w", err)
	}

	return &Display{
		panel: panel,
		log:   log,
		frame: frame,
		field: newFieldBuffer(),
		state: Awake,
	}, nil
}

// RenderForecastBoard redraws the whole board with up to SlotCount forecast
// days and flushes it with a full refresh. The reading panel is cleared and
// drawn again in full by the next RenderCurrentReading.
func (d *Display) RenderForecastBoard(records []weather.Forecast) error {
	if d.state == Asleep {
		return ErrAsleep
	}

	if len(records) > SlotCount {
		d.log.Debug().Int("records", len(records)).Msgf("only the first %d forecast days are shown", SlotCount)
	}

	drawForecastBoard(d.frame, records)
	d.readingDrawn = false

	return d.flushFull()
}

// RenderCurrentReading shows r on the reading panel. The first reading, and
// any reading after the panel was redrawn or woken up, draws the panel
// decoration and flushes with a full refresh. Later readings only patch the
// two value fields with a single partial refresh.
func (d *Display) RenderCurrentReading(r weather.Reading, first bool) error {
	if d.state == Asleep {
		return ErrAsleep
	}

	if first || !d.readingDrawn {
		drawReadingPanel(d.frame)
		for _, fl := range fields {
			drawField(d.field, fl.text(r))
			d.frame.Blit(d.field, fl.region.Min)
		}

		if err := d.flushFull(); err != nil {
			return err
		}
		d.readingDrawn = true
		return nil
	}

	for _, fl := range fields {
		if d.frame.HasInk(fl.region, tricolor.Chromatic) {
			return fmt.Errorf("%w: %s field %v", ErrAccentInPartial, fl.name, fl.region)
		}
	}

	regions := make([]image.Rectangle, 0, len(fields))
	for _, fl := range fields {
		drawField(d.field, fl.text(r))
		d.frame.Blit(d.field, fl.region.Min)

		if err := d.panel.WritePartialFrame(d.field.BlackPlane(), fl.region); err != nil {
			return fmt.Errorf("weatherdisplay: writing %s field: %w", fl.name, err)
		}
		regions = append(regions, fl.region)
	}

	if err := d.panel.RefreshPartial(); err != nil {
		return fmt.Errorf("weatherdisplay: partial refresh: %w", err)
	}

	d.flushed(UpdateMode{Kind: PartialPatch, Regions: regions})
	d.log.Debug().Stringer("reading", r).Msg("reading patched")
	return nil
}

func (d *Display) flushFull() error {
	if err := d.panel.WriteFullFrame(d.frame.BlackPlane(), d.frame.ChromaticPlane()); err != nil {
		return fmt.Errorf("weatherdisplay: full refresh: %w", err)
	}
	d.flushed(UpdateMode{Kind: FullRedraw})
	return nil
}

func (d *Display) flushed(m UpdateMode) {
	now := time.Now()
	d.log.Debug().Stringer("mode", m).Dur("since_last", now.Sub(d.lastAt)).Msg("panel flushed")
	d.last = m
	d.lastAt = now
}

// Sleep puts the panel into deep sleep. The image stays visible.
func (d *Display) Sleep() error {
	if d.state == Asleep {
		return ErrAsleep
	}
	if err := d.panel.Sleep(); err != nil {
		return fmt.Errorf("weatherdisplay: sleep: %w", err)
	}
	d.state = Asleep
	d.log.Debug().Msg("panel asleep")
	return nil
}

// Wake brings the panel back from deep sleep. The controller is reset, so
// the next reading is drawn with a full refresh.
func (d *Display) Wake() error {
	if d.state == Awake {
		return ErrAwake
	}
	if err := d.panel.Wake(); err != nil {
		return fmt.Errorf("weatherdisplay: wake: %w", err)
	}
	d.state = Awake
	d.readingDrawn = false
	d.log.Debug().Msg("panel awake")
	return nil
}

// State returns the panel state.
func (d *Display) State() PanelState {
	return d.state
}

// Frame returns the frame the panel was last flushed from. It must not be
// modified.
func (d *Display) Frame() *tricolor.Frame {
	return d.frame
}

// LastUpdate returns how the panel was last refreshed.
func (d *Display) LastUpdate() UpdateMode {
	return d.last
}
