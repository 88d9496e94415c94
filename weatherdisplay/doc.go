// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package weatherdisplay renders the weather board onto a three-colour
// e-paper panel.
//
// The board is laid out on a 296x128 landscape canvas, the 128x296 panel
// rotated by 270 degrees. The left part holds a 3x2 grid of forecast days;
// the right part shows the local temperature and humidity on black.
//
// Display owns the only copy of what the panel shows. Forecasts always cause
// a full refresh. Readings are patched with a partial refresh of two small
// byte aligned windows once the reading panel has been drawn in full.
package weatherdisplay
