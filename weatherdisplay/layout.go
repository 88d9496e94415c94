// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package weatherdisplay

import (
	"fmt"
	"image"

	"github.com/GermanBionicSystems/weatherpaper/icons"
	"github.com/GermanBionicSystems/weatherpaper/tricolor"
	"github.com/GermanBionicSystems/weatherpaper/weather"
)

// Native panel geometry.
const (
	NativeWidth  = 128
	NativeHeight = 296
)

const rotation = tricolor.Rotate270

// SlotCount is the number of forecast days on the board.
const SlotCount = 6

var (
	slotX        = [...]int{0, 74, 148}
	slotBaseline = [...]int{53, 118}
)

// dividerX separates the forecast grid from the reading panel.
const dividerX = 225

// field is a value on the reading panel that can be patched on its own.
type field struct {
	name   string
	format string
	value  func(weather.Reading) float64
	// region is in native coordinates.
	region image.Rectangle
}

var (
	temperatureField = field{
		name:   "temperature",
		format: "%.1fC",
		value:  func(r weather.Reading) float64 { return r.TemperatureC },
		region: image.Rect(16, 0, 40, 40),
	}
	humidityField = field{
		name:   "humidity",
		format: "%.1f%%",
		value:  func(r weather.Reading) float64 { return r.HumidityPct },
		region: image.Rect(64, 0, 88, 40),
	}

	fields = [...]field{temperatureField, humidityField}
)

// fieldBaseline is where field text starts inside the field buffer.
//
// A field is 40 logical pixels wide, room for five whole 7x13 glyphs. Six
// character values such as "-10.5C" or "100.0%" lose the last column of
// their final glyph.
var fieldBaseline = image.Pt(0, 16)

func newFieldBuffer() *tricolor.Frame {
	f := tricolor.NewFrame(temperatureField.region.Dx(), temperatureField.region.Dy())
	if err := f.SetRotation(rotation); err != nil {
		panic(err)
	}
	return f
}

var (
	labelStyle = tricolor.Style{Face: tricolor.Face7x13, Color: tricolor.Black}
	weekStyle  = tricolor.Style{Face: tricolor.Face7x13, Color: tricolor.Chromatic}
	dayStyle   = tricolor.Style{Face: tricolor.Face10x20, Color: tricolor.Chromatic}
	fieldStyle = tricolor.Style{Face: tricolor.Face7x13, Color: tricolor.White}
)

// slotOrigin returns the left edge and text baseline of forecast slot i,
// counted row by row.
func slotOrigin(i int) image.Point {
	return image.Pt(slotX[i%len(slotX)], slotBaseline[i/len(slotX)])
}

func conditionIcon(c weather.Condition) *icons.Icon {
	switch c {
	case weather.Sunny:
		return icons.Sun
	case weather.Cloudy:
		return icons.Cloud
	case weather.Rain:
		return icons.Rain
	}
	return icons.Warning
}

func drawGrid(f *tricolor.Frame) {
	f.DrawLine(image.Pt(dividerX, 0), image.Pt(dividerX, 127), tricolor.Black, 2)
	f.DrawLine(image.Pt(0, 63), image.Pt(dividerX, 63), tricolor.Black, 2)
	f.DrawLine(image.Pt(74, 0), image.Pt(74, 127), tricolor.Black, 1)
	f.DrawLine(image.Pt(148, 0), image.Pt(148, 127), tricolor.Black, 1)
}

func drawForecastSlot(f *tricolor.Frame, i int, rec weather.Forecast) {
	o := slotOrigin(i)

	f.DrawIcon(conditionIcon(rec.Condition), image.Pt(o.X+6, o.Y-50), tricolor.Chromatic)
	f.DrawText(fmt.Sprintf("%d-%dC", rec.MinTemp, rec.MaxTemp), image.Pt(o.X+10, o.Y), labelStyle)
	f.DrawText(rec.Week, image.Pt(o.X+46, o.Y-15), weekStyle)
	f.DrawText(fmt.Sprintf("%d", rec.Day), image.Pt(o.X+48, o.Y-32), dayStyle)
}

// drawForecastBoard replaces the whole canvas with the forecast grid.
// Missing days are drawn as placeholders; extra days are ignored.
func drawForecastBoard(f *tricolor.Frame, records []weather.Forecast) {
	f.Clear(tricolor.White)
	drawGrid(f)

	for i := 0; i < SlotCount; i++ {
		rec := weather.Placeholder()
		if i < len(records) {
			rec = records[i]
		}
		drawForecastSlot(f, i, rec)
	}
}

// drawReadingPanel draws the static part of the reading panel.
func drawReadingPanel(f *tricolor.Frame) {
	f.FillRect(image.Rect(dividerX, 0, 296, 128), tricolor.Black)
	drawGrid(f)

	f.DrawIcon(icons.Thermometer, image.Pt(228, 12), tricolor.Chromatic)
	f.DrawIcon(icons.Droplet, image.Pt(228, 64), tricolor.Chromatic)
}

// drawField renders text white on black into the field buffer.
func drawField(buf *tricolor.Frame, text string) {
	buf.Clear(tricolor.Black)
	buf.DrawText(text, fieldBaseline, fieldStyle)
}

func (fl field) text(r weather.Reading) string {
	return fmt.Sprintf(fl.format, fl.value(r))
}
