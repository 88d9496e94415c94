// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package weatherdisplay

import (
	"errors"
	"image"
	"testing"

	"github.com/GermanBionicSystems/weatherpaper/icons"
	"github.com/GermanBionicSystems/weatherpaper/tricolor"
	"github.com/GermanBionicSystems/weatherpaper/weather"
	"github.com/google/go-cmp/cmp"
)

type call struct {
	op        string
	region    image.Rectangle
	black     []byte
	chromatic []byte
}

type fakePanel struct {
	calls []call
	errs  map[string]error
}

func (p *fakePanel) record(c call) error {
	p.calls = append(p.calls, c)
	return p.errs[c.op]
}

func (p *fakePanel) Init() error {
	return p.record(call{op: "init"})
}

func (p *fakePanel) WriteFullFrame(black, chromatic []byte) error {
	return p.record(call{
		op:        "full",
		black:     append([]byte(nil), black...),
		chromatic: append([]byte(nil), chromatic...),
	})
}

func (p *fakePanel) WritePartialFrame(plane []byte, region image.Rectangle) error {
	return p.record(call{op: "partial", region: region, black: append([]byte(nil), plane...)})
}

func (p *fakePanel) RefreshPartial() error {
	return p.record(call{op: "refresh"})
}

func (p *fakePanel) Sleep() error {
	return p.record(call{op: "sleep"})
}

func (p *fakePanel) Wake() error {
	return p.record(call{op: "wake"})
}

func (p *fakePanel) ops() []string {
	var ops []string
	for _, c := range p.calls {
		ops = append(ops, c.op)
	}
	return ops
}

func newTestDisplay(t *testing.T) (*Display, *fakePanel) {
	t.Helper()

	p := &fakePanel{}
	d, err := New(p, nil)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	p.calls = nil
	return d, p
}

type planes struct {
	black, chromatic []byte
}

func snapshot(f *tricolor.Frame) planes {
	return planes{
		black:     append([]byte(nil), f.BlackPlane()...),
		chromatic: append([]byte(nil), f.ChromaticPlane()...),
	}
}

func diffPlanes(got, want planes) string {
	return cmp.Diff(got, want, cmp.AllowUnexported(planes{}))
}

var sampleForecast = []weather.Forecast{
	{Day: 1, Week: "SAT", MinTemp: 27, MaxTemp: 31, Condition: weather.Sunny},
	{Day: 2, Week: "SUN", MinTemp: 26, MaxTemp: 30, Condition: weather.Rain},
	{Day: 3, Week: "MON", MinTemp: 26, MaxTemp: 29, Condition: weather.Cloudy},
	{Day: 4, Week: "TUE", MinTemp: 27, MaxTemp: 32, Condition: weather.Unknown},
	{Day: 5, Week: "WED", MinTemp: 25, MaxTemp: 28, Condition: weather.Rain},
	{Day: 6, Week: "THU", MinTemp: 24, MaxTemp: 29, Condition: weather.Sunny},
}

func TestNew(t *testing.T) {
	p := &fakePanel{}
	d, err := New(p, nil)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if diff := cmp.Diff(p.ops(), []string{"init"}); diff != "" {
		t.Errorf("panel calls difference (-got +want):\n%s", diff)
	}
	if d.State() != Awake {
		t.Errorf("State() = %v, want %v", d.State(), Awake)
	}
	if d.LastUpdate().Kind != NoUpdate {
		t.Errorf("LastUpdate() = %v, want none", d.LastUpdate())
	}
	if got, want := d.Frame().Bounds(), image.Rect(0, 0, 296, 128); got != want {
		t.Errorf("Frame().Bounds() = %v, want %v", got, want)
	}
	blank := snapshot(tricolor.NewFrame(NativeWidth, NativeHeight))
	if diff := diffPlanes(snapshot(d.Frame()), blank); diff != "" {
		t.Errorf("initial frame is not blank:\n%s", diff)
	}
}

func TestNewInitError(t *testing.T) {
	errInit := errors.New("busy stuck")

	if _, err := New(&fakePanel{errs: map[string]error{"init": errInit}}, nil); !errors.Is(err, errInit) {
		t.Errorf("New() = %v, want %v", err, errInit)
	}
}

func TestRenderForecastBoard(t *testing.T) {
	d, p := newTestDisplay(t)

	if err := d.RenderForecastBoard(sampleForecast); err != nil {
		t.Fatalf("RenderForecastBoard() failed: %v", err)
	}

	if diff := cmp.Diff(p.ops(), []string{"full"}); diff != "" {
		t.Errorf("panel calls difference (-got +want):\n%s", diff)
	}
	if diff := diffPlanes(planes{black: p.calls[0].black, chromatic: p.calls[0].chromatic}, snapshot(d.Frame())); diff != "" {
		t.Errorf("flushed planes differ from the frame:\n%s", diff)
	}
	if got := d.LastUpdate(); got.Kind != FullRedraw {
		t.Errorf("LastUpdate() = %v, want full", got)
	}

	f := d.Frame()
	for _, tc := range []struct {
		name string
		pt   image.Point
		want tricolor.Color
	}{
		{name: "divider", pt: image.Pt(225, 100), want: tricolor.Black},
		{name: "divider second pixel", pt: image.Pt(226, 100), want: tricolor.Black},
		{name: "row separator", pt: image.Pt(100, 63), want: tricolor.Black},
		{name: "column separator", pt: image.Pt(74, 20), want: tricolor.Black},
		{name: "column separator 2", pt: image.Pt(148, 100), want: tricolor.Black},
		{name: "reading panel stays white", pt: image.Pt(280, 100), want: tricolor.White},
	} {
		if got := f.ColorAt(tc.pt.X, tc.pt.Y); got != tc.want {
			t.Errorf("%s: ColorAt(%v) = %v, want %v", tc.name, tc.pt, got, tc.want)
		}
	}

	for i := 0; i < SlotCount; i++ {
		o := slotOrigin(i)
		icon := image.Rect(o.X+6, o.Y-50, o.X+38, o.Y-18)
		if !hasLogicalInk(f, icon, tricolor.Chromatic) {
			t.Errorf("slot %d: no chromatic icon in %v", i, icon)
		}
		label := image.Rect(o.X+10, o.Y-11, o.X+60, o.Y+2)
		if !hasLogicalInk(f, label, tricolor.Black) {
			t.Errorf("slot %d: no black label in %v", i, label)
		}
	}
}

func TestRenderForecastBoardExample(t *testing.T) {
	d, _ := newTestDisplay(t)

	rec := weather.Forecast{Day: 5, Week: "MON", MinTemp: 10, MaxTemp: 18, Condition: weather.Sunny}
	if err := d.RenderForecastBoard([]weather.Forecast{rec}); err != nil {
		t.Fatalf("RenderForecastBoard() failed: %v", err)
	}

	want := tricolor.NewFrame(NativeWidth, NativeHeight)
	if err := want.SetRotation(rotation); err != nil {
		t.Fatal(err)
	}
	want.Clear(tricolor.White)
	o := slotOrigin(0)
	want.DrawIcon(icons.Sun, image.Pt(o.X+6, o.Y-50), tricolor.Chromatic)
	want.DrawText("10-18C", image.Pt(o.X+10, o.Y), labelStyle)
	want.DrawText("MON", image.Pt(o.X+46, o.Y-15), weekStyle)
	want.DrawText("5", image.Pt(o.X+48, o.Y-32), dayStyle)

	// Inside of the first cell, clear of the grid lines.
	cell := image.Rect(0, 0, 72, 61)
	got := d.Frame()
	mismatches := 0
	for y := cell.Min.Y; y < cell.Max.Y; y++ {
		for x := cell.Min.X; x < cell.Max.X; x++ {
			if g, w := got.ColorAt(x, y), want.ColorAt(x, y); g != w {
				if mismatches == 0 {
					t.Errorf("ColorAt(%d, %d) = %v, want %v", x, y, g, w)
				}
				mismatches++
			}
		}
	}
	if mismatches != 0 {
		t.Errorf("%d pixels of slot 0 differ", mismatches)
	}
	if !hasLogicalInk(want, cell, tricolor.Black) || !hasLogicalInk(want, cell, tricolor.Chromatic) {
		t.Errorf("expected slot 0 is missing ink")
	}
}

func hasLogicalInk(f *tricolor.Frame, r image.Rectangle, c tricolor.Color) bool {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if f.ColorAt(x, y) == c {
				return true
			}
		}
	}
	return false
}

func TestRenderForecastBoardSlots(t *testing.T) {
	render := func(records []weather.Forecast) planes {
		d, _ := newTestDisplay(t)
		if err := d.RenderForecastBoard(records); err != nil {
			t.Fatal(err)
		}
		return snapshot(d.Frame())
	}

	placeholders := make([]weather.Forecast, SlotCount)
	for i := range placeholders {
		placeholders[i] = weather.Placeholder()
	}

	if diff := diffPlanes(render(nil), render(placeholders)); diff != "" {
		t.Errorf("empty forecast differs from placeholders:\n%s", diff)
	}

	partial := append(append([]weather.Forecast(nil), sampleForecast[:2]...), placeholders[2:]...)
	if diff := diffPlanes(render(sampleForecast[:2]), render(partial)); diff != "" {
		t.Errorf("short forecast differs from padded forecast:\n%s", diff)
	}

	extra := append(append([]weather.Forecast(nil), sampleForecast...), weather.Forecast{Day: 7, Week: "FRI"}, weather.Forecast{Day: 8, Week: "SAT"})
	if diff := diffPlanes(render(extra), render(sampleForecast)); diff != "" {
		t.Errorf("extra records changed the board:\n%s", diff)
	}
}

func TestRenderForecastBoardIdempotent(t *testing.T) {
	d, p := newTestDisplay(t)

	if err := d.RenderForecastBoard(sampleForecast); err != nil {
		t.Fatal(err)
	}
	first := snapshot(d.Frame())

	if err := d.RenderCurrentReading(weather.Reading{TemperatureC: 25.3, HumidityPct: 65}, true); err != nil {
		t.Fatal(err)
	}
	if err := d.RenderForecastBoard(sampleForecast); err != nil {
		t.Fatal(err)
	}

	if diff := diffPlanes(snapshot(d.Frame()), first); diff != "" {
		t.Errorf("second render differs:\n%s", diff)
	}
	if diff := cmp.Diff(p.ops(), []string{"full", "full", "full"}); diff != "" {
		t.Errorf("panel calls difference (-got +want):\n%s", diff)
	}
}

func TestRenderCurrentReadingFull(t *testing.T) {
	d, p := newTestDisplay(t)
	if err := d.RenderForecastBoard(sampleForecast); err != nil {
		t.Fatal(err)
	}
	board := snapshot(d.Frame())
	p.calls = nil

	if err := d.RenderCurrentReading(weather.Reading{TemperatureC: 25.3, HumidityPct: 65}, true); err != nil {
		t.Fatalf("RenderCurrentReading() failed: %v", err)
	}

	if diff := cmp.Diff(p.ops(), []string{"full"}); diff != "" {
		t.Errorf("panel calls difference (-got +want):\n%s", diff)
	}

	f := d.Frame()
	boardFrame := tricolor.NewFrame(NativeWidth, NativeHeight)
	copy(boardFrame.BlackPlane(), board.black)
	copy(boardFrame.ChromaticPlane(), board.chromatic)
	if err := boardFrame.SetRotation(rotation); err != nil {
		t.Fatal(err)
	}
	for y := 0; y < 128; y++ {
		for x := 0; x < dividerX; x++ {
			if got, want := f.ColorAt(x, y), boardFrame.ColorAt(x, y); got != want {
				t.Fatalf("forecast pixel (%d,%d) changed from %v to %v", x, y, want, got)
			}
		}
	}

	if got := f.ColorAt(290, 120); got != tricolor.Black {
		t.Errorf("reading panel background = %v, want Black", got)
	}
	if !hasLogicalInk(f, image.Rect(228, 12, 252, 36), tricolor.Chromatic) {
		t.Errorf("thermometer icon missing")
	}
	if !hasLogicalInk(f, image.Rect(228, 64, 252, 88), tricolor.Chromatic) {
		t.Errorf("droplet icon missing")
	}
	for _, fl := range fields {
		if !f.HasInk(fl.region, tricolor.White) {
			t.Errorf("%s field has no text", fl.name)
		}
	}
}

func TestRenderCurrentReadingPartial(t *testing.T) {
	d, p := newTestDisplay(t)
	if err := d.RenderForecastBoard(sampleForecast); err != nil {
		t.Fatal(err)
	}
	if err := d.RenderCurrentReading(weather.Reading{TemperatureC: 25.3, HumidityPct: 65}, true); err != nil {
		t.Fatal(err)
	}
	before := append([]byte(nil), d.Frame().BlackPlane()...)
	p.calls = nil

	if err := d.RenderCurrentReading(weather.Reading{TemperatureC: 19.8, HumidityPct: 42.5}, false); err != nil {
		t.Fatalf("RenderCurrentReading() failed: %v", err)
	}

	if diff := cmp.Diff(p.ops(), []string{"partial", "partial", "refresh"}); diff != "" {
		t.Fatalf("panel calls difference (-got +want):\n%s", diff)
	}
	want := UpdateMode{Kind: PartialPatch, Regions: []image.Rectangle{image.Rect(16, 0, 40, 40), image.Rect(64, 0, 88, 40)}}
	if diff := cmp.Diff(d.LastUpdate(), want); diff != "" {
		t.Errorf("LastUpdate() difference (-got +want):\n%s", diff)
	}

	f := d.Frame()
	for i, fl := range fields {
		c := p.calls[i]
		if c.region != fl.region {
			t.Errorf("partial write %d region = %v, want %v", i, c.region, fl.region)
		}
		if got, want := len(c.black), fl.region.Dx()/8*fl.region.Dy(); got != want {
			t.Fatalf("partial write %d: %d bytes, want %d", i, got, want)
		}
		stride := fl.region.Dx() / 8
		for y := 0; y < fl.region.Dy(); y++ {
			for x := 0; x < fl.region.Dx(); x++ {
				bit := c.black[y*stride+x/8]&(0x80>>uint(x%8)) != 0
				ink := f.NativeAt(fl.region.Min.X+x, fl.region.Min.Y+y) == tricolor.Black
				if bit != ink {
					t.Fatalf("%s field: pixel (%d,%d) written %v, frame has black=%v", fl.name, x, y, bit, ink)
				}
			}
		}
	}

	stride := d.Frame().Stride()
	after := f.BlackPlane()
	for y := 0; y < NativeHeight; y++ {
		for xb := 0; xb < stride; xb++ {
			pt := image.Pt(xb*8, y)
			if pt.In(fields[0].region) || pt.In(fields[1].region) {
				continue
			}
			if i := y*stride + xb; after[i] != before[i] {
				t.Fatalf("byte at native %v outside the fields changed", pt)
			}
		}
	}
}

func TestRenderCurrentReadingNotDrawn(t *testing.T) {
	d, p := newTestDisplay(t)
	r := weather.Reading{TemperatureC: 21, HumidityPct: 50}

	if err := d.RenderCurrentReading(r, false); err != nil {
		t.Fatal(err)
	}
	if err := d.RenderCurrentReading(r, false); err != nil {
		t.Fatal(err)
	}
	if err := d.RenderForecastBoard(nil); err != nil {
		t.Fatal(err)
	}
	if err := d.RenderCurrentReading(r, false); err != nil {
		t.Fatal(err)
	}

	want := []string{"full", "partial", "partial", "refresh", "full", "full"}
	if diff := cmp.Diff(p.ops(), want); diff != "" {
		t.Errorf("panel calls difference (-got +want):\n%s", diff)
	}
}

func TestRenderCurrentReadingSequence(t *testing.T) {
	d, p := newTestDisplay(t)
	if err := d.RenderForecastBoard(sampleForecast); err != nil {
		t.Fatal(err)
	}

	for i, r := range []weather.Reading{
		{TemperatureC: 25.3, HumidityPct: 65},
		{TemperatureC: 25.4, HumidityPct: 64.9},
		{TemperatureC: 25.6, HumidityPct: 64.1},
	} {
		if err := d.RenderCurrentReading(r, i == 0); err != nil {
			t.Fatal(err)
		}
	}

	var full, partial, refresh int
	for _, op := range p.ops() {
		switch op {
		case "full":
			full++
		case "partial":
			partial++
		case "refresh":
			refresh++
		}
	}
	if full != 2 || partial != 4 || refresh != 2 {
		t.Errorf("got %d full, %d partial writes and %d refreshes, want 2, 4 and 2", full, partial, refresh)
	}
}

func TestRenderCurrentReadingAccent(t *testing.T) {
	d, p := newTestDisplay(t)
	r := weather.Reading{TemperatureC: 21, HumidityPct: 50}
	if err := d.RenderCurrentReading(r, true); err != nil {
		t.Fatal(err)
	}
	p.calls = nil

	// Native (20,5) inside the temperature field.
	d.Frame().SetColor(NativeHeight-1-5, 20, tricolor.Chromatic)

	if err := d.RenderCurrentReading(r, false); !errors.Is(err, ErrAccentInPartial) {
		t.Errorf("RenderCurrentReading() = %v, want %v", err, ErrAccentInPartial)
	}
	if len(p.calls) != 0 {
		t.Errorf("panel calls = %v, want none", p.ops())
	}
}

func TestPanelErrors(t *testing.T) {
	errBusy := errors.New("busy")

	for _, tc := range []struct {
		name   string
		failOp string
		run    func(d *Display) error
	}{
		{
			name:   "forecast",
			failOp: "full",
			run:    func(d *Display) error { return d.RenderForecastBoard(sampleForecast) },
		},
		{
			name:   "partial write",
			failOp: "partial",
			run: func(d *Display) error {
				return d.RenderCurrentReading(weather.Reading{}, false)
			},
		},
		{
			name:   "partial refresh",
			failOp: "refresh",
			run: func(d *Display) error {
				return d.RenderCurrentReading(weather.Reading{}, false)
			},
		},
		{
			name:   "sleep",
			failOp: "sleep",
			run:    func(d *Display) error { return d.Sleep() },
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			d, p := newTestDisplay(t)
			if err := d.RenderCurrentReading(weather.Reading{}, true); err != nil {
				t.Fatal(err)
			}
			p.errs = map[string]error{tc.failOp: errBusy}

			if err := tc.run(d); !errors.Is(err, errBusy) {
				t.Errorf("got %v, want %v", err, errBusy)
			}
		})
	}
}

func TestSleepWake(t *testing.T) {
	d, p := newTestDisplay(t)
	r := weather.Reading{TemperatureC: 21, HumidityPct: 50}
	if err := d.RenderCurrentReading(r, true); err != nil {
		t.Fatal(err)
	}
	shown := snapshot(d.Frame())

	if err := d.Wake(); !errors.Is(err, ErrAwake) {
		t.Errorf("Wake() while awake = %v, want %v", err, ErrAwake)
	}
	if err := d.Sleep(); err != nil {
		t.Fatalf("Sleep() failed: %v", err)
	}
	if d.State() != Asleep {
		t.Errorf("State() = %v, want %v", d.State(), Asleep)
	}

	for name, err := range map[string]error{
		"Sleep":                d.Sleep(),
		"RenderForecastBoard":  d.RenderForecastBoard(nil),
		"RenderCurrentReading": d.RenderCurrentReading(r, false),
	} {
		if !errors.Is(err, ErrAsleep) {
			t.Errorf("%s() while asleep = %v, want %v", name, err, ErrAsleep)
		}
	}
	if diff := diffPlanes(snapshot(d.Frame()), shown); diff != "" {
		t.Errorf("frame changed while asleep:\n%s", diff)
	}

	if err := d.Wake(); err != nil {
		t.Fatalf("Wake() failed: %v", err)
	}
	if d.State() != Awake {
		t.Errorf("State() = %v, want %v", d.State(), Awake)
	}
	if err := d.RenderCurrentReading(r, false); err != nil {
		t.Fatal(err)
	}

	want := []string{"full", "sleep", "wake", "full"}
	if diff := cmp.Diff(p.ops(), want); diff != "" {
		t.Errorf("panel calls difference (-got +want):\n%s", diff)
	}
}

func TestUpdateModeString(t *testing.T) {
	for _, tc := range []struct {
		m    UpdateMode
		want string
	}{
		{m: UpdateMode{}, want: "none"},
		{m: UpdateMode{Kind: FullRedraw}, want: "full"},
		{m: UpdateMode{Kind: PartialPatch, Regions: []image.Rectangle{image.Rect(16, 0, 40, 40)}}, want: "partial (16,0)-(40,40)"},
	} {
		if got := tc.m.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
	}
}
