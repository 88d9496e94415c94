// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package waveshare2in9bv4 controls the Waveshare 2.9 inch B V4 e-paper
// display, a black, white and red panel driven by an SSD1680 controller.
//
// Datasheet:
// https://files.waveshare.com/upload/a/af/2.9inch-e-paper-b-v4-specification.pdf
//
// Product page:
// https://www.waveshare.com/wiki/2.9inch_e-Paper_Module_(B)_Manual
//
// The active area is 128x296 pixels in portrait orientation. The controller
// holds two RAM planes: the black/white plane, where a set bit is white, and
// the red plane, where a set bit is red. Frames handed to this package use
// ink polarity on both planes (a set bit means ink) and are inverted on the
// fly where the controller expects otherwise.
//
// A full refresh drives both planes and flashes the whole panel. A partial
// refresh only updates the black/white plane of byte aligned windows and is
// committed in one go with RefreshPartial; red pixels cannot be changed this
// way.
package waveshare2in9bv4
