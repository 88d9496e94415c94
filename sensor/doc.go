// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package sensor provides the local temperature and humidity readings.
//
// AHT20 drives the Aosong AHT20 over I²C and implements physic.SenseEnv. Any
// physic.SenseEnv, including the bundled Sim for development hosts, can be
// turned into weather.Reading values with a Reader.
//
// AHT20 datasheet:
// http://www.aosong.com/userfiles/files/media/Data%20Sheet%20AHT20.pdf
package sensor
