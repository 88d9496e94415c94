// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sensor

import (
	"errors"
	"testing"
	"time"

	"periph.io/x/conn/v3/i2c/i2ctest"
	"periph.io/x/conn/v3/physic"
)

var (
	statusCalibrated = i2ctest.IO{Addr: aht20Address, W: []byte{cmdStatus}, R: []byte{0x18}}
	triggerMeasure   = i2ctest.IO{Addr: aht20Address, W: argsMeasure}
)

func result(frame ...byte) i2ctest.IO {
	return i2ctest.IO{Addr: aht20Address, R: frame}
}

func TestNewAHT20(t *testing.T) {
	for _, tc := range []struct {
		name string
		ops  []i2ctest.IO
	}{
		{
			name: "calibrated",
			ops:  []i2ctest.IO{statusCalibrated},
		},
		{
			name: "needs calibration",
			ops: []i2ctest.IO{
				{Addr: aht20Address, W: []byte{cmdStatus}, R: []byte{0x10}},
				{Addr: aht20Address, W: []byte{0xBE, 0x08, 0x00}},
			},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			bus := i2ctest.Playback{Ops: tc.ops}

			if _, err := NewAHT20(&bus, nil); err != nil {
				t.Fatal(err)
			}
			if err := bus.Close(); err != nil {
				t.Fatal(err)
			}
		})
	}
}

func TestAHT20Sense(t *testing.T) {
	for _, tc := range []struct {
		name     string
		results  []i2ctest.IO
		wantTemp physic.Temperature
		wantRH   physic.RelativeHumidity
	}{
		{
			name:     "ready",
			results:  []i2ctest.IO{result(0x18, 0x75, 0x52, 0x05, 0x8E, 0x40, 0x7F)},
			wantTemp: 19445800781*physic.NanoKelvin + physic.ZeroCelsius,
			wantRH:   4582824 * physic.TenthMicroRH,
		},
		{
			name: "busy first",
			results: []i2ctest.IO{
				result(0x98, 0x80, 0x00, 0x06, 0x00, 0x00, 0xCF),
				result(0x1C, 0x80, 0x00, 0x06, 0x00, 0x00, 0x4E),
			},
			wantTemp: 25*physic.Kelvin + physic.ZeroCelsius,
			wantRH:   50 * physic.PercentRH,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			bus := i2ctest.Playback{Ops: append([]i2ctest.IO{statusCalibrated, triggerMeasure}, tc.results...)}
			dev, err := NewAHT20(&bus, nil)
			if err != nil {
				t.Fatal(err)
			}

			e := physic.Env{Pressure: 42 * physic.Pascal}
			if err := dev.Sense(&e); err != nil {
				t.Fatal(err)
			}
			if e.Temperature != tc.wantTemp {
				t.Errorf("temperature %s(%d) != %s(%d)", e.Temperature, e.Temperature, tc.wantTemp, tc.wantTemp)
			}
			if e.Humidity != tc.wantRH {
				t.Errorf("humidity %s(%d) != %s(%d)", e.Humidity, e.Humidity, tc.wantRH, tc.wantRH)
			}
			if e.Pressure != 42*physic.Pascal {
				t.Errorf("pressure modified: %s", e.Pressure)
			}
			if err := bus.Close(); err != nil {
				t.Fatal(err)
			}
		})
	}
}

func TestAHT20SenseErrors(t *testing.T) {
	var (
		corrupt       *DataCorruptionError
		notCalibrated *NotCalibratedError
		timeout       *ReadTimeoutError
	)

	for _, tc := range []struct {
		name   string
		opts   AHT20Opts
		result i2ctest.IO
		target any
	}{
		{
			name:   "crc mismatch",
			opts:   DefaultAHT20Opts,
			result: result(0x1C, 0x80, 0x00, 0x06, 0x00, 0x00, 0x00),
			target: &corrupt,
		},
		{
			name:   "lost calibration",
			opts:   DefaultAHT20Opts,
			result: result(0x00, 0x80, 0x00, 0x06, 0x00, 0x00, 0x7C),
			target: &notCalibrated,
		},
		{
			name:   "still busy",
			opts:   AHT20Opts{ReadTimeout: time.Nanosecond, ValidateCRC: true},
			result: result(0x98, 0x80, 0x00, 0x06, 0x00, 0x00, 0xCF),
			target: &timeout,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			bus := i2ctest.Playback{Ops: []i2ctest.IO{statusCalibrated, triggerMeasure, tc.result}}
			dev, err := NewAHT20(&bus, &tc.opts)
			if err != nil {
				t.Fatal(err)
			}

			var e physic.Env
			if err := dev.Sense(&e); !errors.As(err, tc.target) {
				t.Errorf("Sense() = %v, want %T", err, tc.target)
			}
		})
	}
}

func TestAHT20SenseContinuousInterval(t *testing.T) {
	bus := i2ctest.Playback{Ops: []i2ctest.IO{statusCalibrated}}
	dev, err := NewAHT20(&bus, nil)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := dev.SenseContinuous(time.Millisecond); err == nil {
		t.Errorf("SenseContinuous(1ms) succeeded")
	}
	if err := dev.Halt(); err != nil {
		t.Errorf("Halt() = %v", err)
	}
}
