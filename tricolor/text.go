// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package tricolor

import (
	"fmt"
	"image"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/math/fixed"
)

// Style describes how a glyph run is rendered.
type Style struct {
	Face  font.Face
	Color Color
}

var (
	// Face7x13 is a 7x13 pixel bitmap face.
	Face7x13 font.Face = basicfont.Face7x13

	// Face10x20 is Go Mono Bold hinted to a 10 pixel advance and a 20 pixel
	// line height. Like all truetype faces it is not safe for concurrent use.
	Face10x20 font.Face = mustMonoFace(17)
)

func mustMonoFace(size float64) font.Face {
	f, err := truetype.Parse(gomonobold.TTF)
	if err != nil {
		panic(fmt.Sprintf("tricolor: parsing Go Mono Bold: %v", err))
	}

	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// DrawText draws text with the baseline of the first glyph starting at the
// logical position pt. Glyphs outside the frame are clipped. The returned
// rectangle is the part of the frame covered by the glyph boxes.
func (f *Frame) DrawText(text string, pt image.Point, style Style) image.Rectangle {
	d := font.Drawer{
		Dst:  f,
		Src:  image.NewUniform(style.Color),
		Face: style.Face,
		Dot:  fixed.P(pt.X, pt.Y),
	}

	bounds, _ := d.BoundString(text)
	d.DrawString(text)

	return image.Rect(
		bounds.Min.X.Floor(), bounds.Min.Y.Floor(),
		bounds.Max.X.Ceil(), bounds.Max.Y.Ceil(),
	).Intersect(f.Bounds())
}
