// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package icons contains the closed set of 1-bit icons used on the weather
// panel.
//
// Icons are stored as packed masks, one bit per pixel, rows starting on a
// byte boundary and the most significant bit being the leftmost pixel. This is
// the same layout the e-paper controller uses for its RAM, so blitting an icon
// never needs any scaling or vector rasterization.
package icons

import (
	"fmt"
	"image"
)

// Icon is a single-colour bitmap. The colour is chosen when drawing.
type Icon struct {
	Width  int
	Height int

	// Mask holds Height rows of Stride() bytes each.
	Mask []byte
}

// Stride returns the number of bytes per row.
func (i *Icon) Stride() int {
	return (i.Width + 7) / 8
}

// Bounds returns the icon size anchored at (0,0).
func (i *Icon) Bounds() image.Rectangle {
	return image.Rect(0, 0, i.Width, i.Height)
}

// BitAt reports whether the pixel at (x, y) is part of the icon. Positions
// outside the icon are never set.
func (i *Icon) BitAt(x, y int) bool {
	if x < 0 || y < 0 || x >= i.Width || y >= i.Height {
		return false
	}
	return i.Mask[y*i.Stride()+x/8]&(0x80>>uint(x%8)) != 0
}

// String returns a short description, e.g. "icon 32x32".
func (i *Icon) String() string {
	return fmt.Sprintf("icon %dx%d", i.Width, i.Height)
}

// mustParse packs pixel art into an Icon. It panics on ragged rows since the
// art is a compile-time constant.
func mustParse(rows ...string) *Icon {
	if len(rows) == 0 {
		panic("icons: empty bitmap")
	}

	icon := &Icon{
		Width:  len(rows[0]),
		Height: len(rows),
	}
	stride := icon.Stride()
	icon.Mask = make([]byte, stride*icon.Height)

	for y, row := range rows {
		if len(row) != icon.Width {
			panic(fmt.Sprintf("icons: row %d has %d pixels, want %d", y, len(row), icon.Width))
		}
		for x := 0; x < len(row); x++ {
			switch row[x] {
			case '#':
				icon.Mask[y*stride+x/8] |= 0x80 >> uint(x%8)
			case '.':
			default:
				panic(fmt.Sprintf("icons: unexpected %q at (%d,%d)", row[x], x, y))
			}
		}
	}

	return icon
}
