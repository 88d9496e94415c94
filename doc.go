// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package weatherpaper is a container for the packages of an e-paper weather
// station: the tri-colour panel driver, the framebuffer, the weather board
// layout and the loop that keeps it up to date.
//
// See cmd/weatherpaper for the program.
package weatherpaper
