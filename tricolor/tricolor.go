// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package tricolor implements an in-memory image for three-colour e-paper
// panels: black and white plus one accent ink (red or yellow, called
// chromatic).
//
// The image is stored as two bit-planes in the panel's native orientation, one
// for the black ink and one for the chromatic ink. A set bit means the ink is
// present. At most one of the two bits is set for any pixel; neither set means
// the pixel shows the white background.
//
// Drawing happens in logical coordinates. The rotation set with SetRotation
// maps logical to native coordinates on every call; pixels already drawn are
// not moved.
package tricolor

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/GermanBionicSystems/weatherpaper/icons"
)

// Color is one of the three inks a pixel can show.
type Color uint8

const (
	White Color = iota
	Black
	Chromatic
)

// RGBA implements color.Color. Chromatic is rendered as pure red.
func (c Color) RGBA() (r, g, b, a uint32) {
	switch c {
	case Black:
		return 0, 0, 0, 0xffff
	case Chromatic:
		return 0xffff, 0, 0, 0xffff
	}
	return 0xffff, 0xffff, 0xffff, 0xffff
}

func (c Color) String() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	case Chromatic:
		return "Chromatic"
	}
	return fmt.Sprintf("Color(%d)", uint8(c))
}

// Model converts arbitrary colours to the closest ink. Saturated reds become
// Chromatic, everything else is split into Black and White by luminance.
// Mostly transparent colours are treated as background.
var Model = color.ModelFunc(convert)

func convert(c color.Color) color.Color {
	if tc, ok := c.(Color); ok {
		return tc
	}

	r, g, b, a := c.RGBA()
	if a < 0x8000 {
		return White
	}
	if r >= 0x8000 && g < 0x8000 && b < 0x8000 {
		return Chromatic
	}
	if (299*r+587*g+114*b)/1000 >= 0x8000 {
		return White
	}
	return Black
}

// Rotation is the angle in degrees between the native panel orientation and
// the logical drawing orientation, clockwise.
type Rotation int

const (
	Rotate0   Rotation = 0
	Rotate90  Rotation = 90
	Rotate180 Rotation = 180
	Rotate270 Rotation = 270
)

// ErrRotation is returned by SetRotation for angles other than 0, 90, 180 and
// 270 degrees.
var ErrRotation = errors.New("tricolor: rotation must be 0, 90, 180 or 270 degrees")

// ErrPlaneSize is returned by FromPlanes when a plane does not hold exactly
// one native frame.
var ErrPlaneSize = errors.New("tricolor: plane size mismatch")

// Frame is a two-plane image. The zero value is an empty frame; use NewFrame.
type Frame struct {
	width, height int
	stride        int

	black     []byte
	chromatic []byte

	rotation Rotation
}

// NewFrame allocates a frame of the given native size. All pixels are White.
func NewFrame(width, height int) *Frame {
	if width < 0 || height < 0 {
		panic(fmt.Sprintf("tricolor: invalid frame size %dx%d", width, height))
	}

	stride := (width + 7) / 8

	return &Frame{
		width:     width,
		height:    height,
		stride:    stride,
		black:     make([]byte, stride*height),
		chromatic: make([]byte, stride*height),
	}
}

// FromPlanes returns a frame of the given native size holding copies of the
// two planes. A nil chromatic plane means no chromatic ink. Pixels set in both
// planes keep the black ink.
func FromPlanes(width, height int, black, chromatic []byte) (*Frame, error) {
	f := NewFrame(width, height)

	if len(black) != len(f.black) {
		return nil, fmt.Errorf("%w: black plane has %d bytes, want %d", ErrPlaneSize, len(black), len(f.black))
	}
	if chromatic != nil && len(chromatic) != len(f.chromatic) {
		return nil, fmt.Errorf("%w: chromatic plane has %d bytes, want %d", ErrPlaneSize, len(chromatic), len(f.chromatic))
	}

	copy(f.black, black)
	for i := range chromatic {
		f.chromatic[i] = chromatic[i] &^ black[i]
	}
	return f, nil
}

// String returns a short description of the frame geometry.
func (f *Frame) String() string {
	return fmt.Sprintf("tricolor.Frame{%dx%d, rotation %d}", f.width, f.height, f.rotation)
}

// Size returns the native size in pixels.
func (f *Frame) Size() image.Point {
	return image.Pt(f.width, f.height)
}

// Stride returns the number of bytes per native row in each plane.
func (f *Frame) Stride() int {
	return f.stride
}

// BlackPlane returns the black ink plane. The slice aliases the frame storage
// and must be treated as read-only; it is only valid until the next drawing
// call.
func (f *Frame) BlackPlane() []byte {
	return f.black
}

// ChromaticPlane returns the chromatic ink plane with the same aliasing rules
// as BlackPlane.
func (f *Frame) ChromaticPlane() []byte {
	return f.chromatic
}

// Rotation returns the current logical rotation.
func (f *Frame) Rotation() Rotation {
	return f.rotation
}

// SetRotation changes the transform applied to subsequent drawing calls.
func (f *Frame) SetRotation(r Rotation) error {
	switch r {
	case Rotate0, Rotate90, Rotate180, Rotate270:
	default:
		return fmt.Errorf("%w: got %d", ErrRotation, int(r))
	}
	f.rotation = r
	return nil
}

// ColorModel implements image.Image.
func (f *Frame) ColorModel() color.Model {
	return Model
}

// Bounds implements image.Image. The bounds are in logical coordinates, i.e.
// width and height are swapped for 90 and 270 degree rotations.
func (f *Frame) Bounds() image.Rectangle {
	switch f.rotation {
	case Rotate90, Rotate270:
		return image.Rect(0, 0, f.height, f.width)
	}
	return image.Rect(0, 0, f.width, f.height)
}

// toNative maps a logical position to the native panel position.
func (f *Frame) toNative(x, y int) (int, int) {
	switch f.rotation {
	case Rotate90:
		return f.width - 1 - y, x
	case Rotate180:
		return f.width - 1 - x, f.height - 1 - y
	case Rotate270:
		return y, f.height - 1 - x
	}
	return x, y
}

// toLogical is the inverse of toNative.
func (f *Frame) toLogical(nx, ny int) (int, int) {
	switch f.rotation {
	case Rotate90:
		return ny, f.width - 1 - nx
	case Rotate180:
		return f.width - 1 - nx, f.height - 1 - ny
	case Rotate270:
		return f.height - 1 - ny, nx
	}
	return nx, ny
}

// LogicalRect maps a native rectangle to logical coordinates.
func (f *Frame) LogicalRect(r image.Rectangle) image.Rectangle {
	if r.Empty() {
		return image.Rectangle{}
	}

	x0, y0 := f.toLogical(r.Min.X, r.Min.Y)
	x1, y1 := f.toLogical(r.Max.X-1, r.Max.Y-1)

	return image.Rect(min(x0, x1), min(y0, y1), max(x0, x1)+1, max(y0, y1)+1)
}

// At implements image.Image.
func (f *Frame) At(x, y int) color.Color {
	return f.ColorAt(x, y)
}

// ColorAt returns the ink at a logical position. Positions outside the frame
// are White.
func (f *Frame) ColorAt(x, y int) Color {
	nx, ny := f.toNative(x, y)
	return f.NativeAt(nx, ny)
}

// NativeAt returns the ink at a native position.
func (f *Frame) NativeAt(nx, ny int) Color {
	if nx < 0 || ny < 0 || nx >= f.width || ny >= f.height {
		return White
	}

	idx := ny*f.stride + nx/8
	mask := byte(0x80) >> uint(nx%8)

	switch {
	case f.black[idx]&mask != 0:
		return Black
	case f.chromatic[idx]&mask != 0:
		return Chromatic
	}
	return White
}

// Set implements draw.Image.
func (f *Frame) Set(x, y int, c color.Color) {
	f.SetColor(x, y, convert(c).(Color))
}

// SetColor sets the ink at a logical position. Positions outside the frame
// are ignored.
func (f *Frame) SetColor(x, y int, c Color) {
	nx, ny := f.toNative(x, y)
	f.setNative(nx, ny, c)
}

func (f *Frame) setNative(nx, ny int, c Color) {
	if nx < 0 || ny < 0 || nx >= f.width || ny >= f.height {
		return
	}

	idx := ny*f.stride + nx/8
	mask := byte(0x80) >> uint(nx%8)

	f.black[idx] &^= mask
	f.chromatic[idx] &^= mask

	switch c {
	case Black:
		f.black[idx] |= mask
	case Chromatic:
		f.chromatic[idx] |= mask
	}
}

// Clear sets every pixel to c.
func (f *Frame) Clear(c Color) {
	var b, r byte

	switch c {
	case Black:
		b = 0xff
	case Chromatic:
		r = 0xff
	}

	for i := range f.black {
		f.black[i] = b
		f.chromatic[i] = r
	}
}

// FillRect fills the logical rectangle r. Parts outside the frame are
// clipped.
func (f *Frame) FillRect(r image.Rectangle, c Color) {
	r = r.Canon().Intersect(f.Bounds())

	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			f.SetColor(x, y, c)
		}
	}
}

// DrawLine draws a straight line between p1 and p2, both ends included,
// using a square brush of strokeWidth pixels. Even widths extend towards the
// bottom and right.
func (f *Frame) DrawLine(p1, p2 image.Point, c Color, strokeWidth int) {
	if strokeWidth <= 0 {
		return
	}

	lo := -(strokeWidth - 1) / 2
	hi := strokeWidth / 2

	stamp := func(x, y int) {
		if strokeWidth == 1 {
			f.SetColor(x, y, c)
			return
		}
		f.FillRect(image.Rect(x+lo, y+lo, x+hi+1, y+hi+1), c)
	}

	dx := abs(p2.X - p1.X)
	dy := -abs(p2.Y - p1.Y)
	sx, sy := 1, 1
	if p1.X > p2.X {
		sx = -1
	}
	if p1.Y > p2.Y {
		sy = -1
	}

	errAcc := dx + dy
	x, y := p1.X, p1.Y

	for {
		stamp(x, y)

		if x == p2.X && y == p2.Y {
			return
		}

		e2 := 2 * errAcc
		if e2 >= dy {
			errAcc += dy
			x += sx
		}
		if e2 <= dx {
			errAcc += dx
			y += sy
		}
	}
}

// DrawIcon draws the set pixels of icon with its top-left corner at pt. Unset
// pixels leave the frame unchanged.
func (f *Frame) DrawIcon(icon *icons.Icon, pt image.Point, c Color) {
	for y := 0; y < icon.Height; y++ {
		for x := 0; x < icon.Width; x++ {
			if icon.BitAt(x, y) {
				f.SetColor(pt.X+x, pt.Y+y, c)
			}
		}
	}
}

// Blit copies all pixels of src into f with the native top-left corner of src
// at origin. Rotation of either frame is ignored.
func (f *Frame) Blit(src *Frame, origin image.Point) {
	for y := 0; y < src.height; y++ {
		for x := 0; x < src.width; x++ {
			f.setNative(origin.X+x, origin.Y+y, src.NativeAt(x, y))
		}
	}
}

// Patch replaces the native rectangle r with a black and white plane of
// r.Dx() by r.Dy() pixels. Chromatic ink inside r is cleared.
func (f *Frame) Patch(plane []byte, r image.Rectangle) error {
	if r.Empty() || !r.In(image.Rect(0, 0, f.width, f.height)) {
		return fmt.Errorf("tricolor: patch %v outside %dx%d frame", r, f.width, f.height)
	}

	src, err := FromPlanes(r.Dx(), r.Dy(), plane, nil)
	if err != nil {
		return err
	}
	f.Blit(src, r.Min)
	return nil
}

// HasInk reports whether any pixel inside the native rectangle r shows c.
func (f *Frame) HasInk(r image.Rectangle, c Color) bool {
	r = r.Intersect(image.Rect(0, 0, f.width, f.height))

	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if f.NativeAt(x, y) == c {
				return true
			}
		}
	}
	return false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

var _ fmt.Stringer = &Frame{}
