// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package waveshare2in9bv4

import (
	"encoding/binary"
	"image"
)

type controller interface {
	sendCommand(byte)
	sendData([]byte)
	readData([]byte)
	waitUntilIdle()
}

// softReset restores all registers to their defaults. RAM is kept.
func softReset(ctrl controller) {
	ctrl.waitUntilIdle()
	ctrl.sendCommand(swReset)
	ctrl.waitUntilIdle()
}

// readStatus returns the status register. The two low bits hold the chip ID.
func readStatus(ctrl controller) byte {
	var buf [1]byte

	ctrl.sendCommand(statusBitRead)
	ctrl.readData(buf[:])

	return buf[0]
}

func initDisplay(ctrl controller, opts *Opts) {
	gates := uint16(opts.Height - 1)

	ctrl.sendCommand(driverOutputControl)
	ctrl.sendData([]byte{byte(gates), byte(gates >> 8), 0x00})

	// X increments, then Y.
	ctrl.sendCommand(dataEntryModeSetting)
	ctrl.sendData([]byte{0x03})

	full := image.Rect(0, 0, opts.Width, opts.Height)
	setWindow(ctrl, full)
	setCursor(ctrl, full.Min)

	ctrl.sendCommand(borderWaveformControl)
	ctrl.sendData([]byte{0x05})

	ctrl.sendCommand(displayUpdateControl1)
	ctrl.sendData([]byte{0x00, 0x80})

	// Internal temperature sensor.
	ctrl.sendCommand(tempSensorSelect)
	ctrl.sendData([]byte{0x80})

	ctrl.waitUntilIdle()
}

// setWindow restricts RAM access to r, given in pixels. The X range is
// addressed in bytes, so r.Min.X should be a multiple of 8.
func setWindow(ctrl controller, r image.Rectangle) {
	ctrl.sendCommand(setRAMXAddressStartEndPosition)
	ctrl.sendData([]byte{byte(r.Min.X / 8), byte((r.Max.X - 1) / 8)})

	var y [4]byte
	binary.LittleEndian.PutUint16(y[0:], uint16(r.Min.Y))
	binary.LittleEndian.PutUint16(y[2:], uint16(r.Max.Y-1))

	ctrl.sendCommand(setRAMYAddressStartEndPosition)
	ctrl.sendData(y[:])
}

// setCursor positions the RAM address counters.
func setCursor(ctrl controller, pt image.Point) {
	ctrl.sendCommand(setRAMXAddressCounter)
	ctrl.sendData([]byte{byte(pt.X / 8)})

	var y [2]byte
	binary.LittleEndian.PutUint16(y[:], uint16(pt.Y))

	ctrl.sendCommand(setRAMYAddressCounter)
	ctrl.sendData(y[:])
}

// sendPlane streams plane to the RAM selected by cmd one row at a time. With
// invert set every bit is flipped on the way.
func sendPlane(ctrl controller, cmd byte, plane []byte, stride int, invert bool) {
	ctrl.sendCommand(cmd)

	var row []byte
	if invert {
		row = make([]byte, stride)
	}

	for off := 0; off < len(plane); off += stride {
		src := plane[off:min(off+stride, len(plane))]
		if !invert {
			ctrl.sendData(src)
			continue
		}
		for i, b := range src {
			row[i] = ^b
		}
		ctrl.sendData(row[:len(src)])
	}
}

// writeFullFrame loads both planes. The black plane is inverted since the
// controller's black/white RAM uses a set bit for white.
func writeFullFrame(ctrl controller, opts *Opts, black, chromatic []byte) {
	stride := (opts.Width + 7) / 8
	full := image.Rect(0, 0, opts.Width, opts.Height)

	ctrl.sendCommand(borderWaveformControl)
	ctrl.sendData([]byte{0x05})

	setWindow(ctrl, full)
	setCursor(ctrl, full.Min)
	sendPlane(ctrl, writeRAMBW, black, stride, true)

	setCursor(ctrl, full.Min)
	sendPlane(ctrl, writeRAMRed, chromatic, stride, false)

	turnOnDisplay(ctrl)
}

// writePartialFrame loads the black plane of a byte aligned window. Nothing is
// shown until turnOnDisplayPart.
func writePartialFrame(ctrl controller, plane []byte, region image.Rectangle) {
	ctrl.sendCommand(borderWaveformControl)
	ctrl.sendData([]byte{0x80})

	setWindow(ctrl, region)
	setCursor(ctrl, region.Min)
	sendPlane(ctrl, writeRAMBW, plane, region.Dx()/8, true)
}

func turnOnDisplay(ctrl controller) {
	ctrl.sendCommand(displayUpdateControl2)
	ctrl.sendData([]byte{0xF7})
	ctrl.sendCommand(masterActivation)
	ctrl.waitUntilIdle()
}

func turnOnDisplayPart(ctrl controller) {
	ctrl.sendCommand(displayUpdateControl2)
	ctrl.sendData([]byte{0xFF})
	ctrl.sendCommand(masterActivation)
	ctrl.waitUntilIdle()
}

// deepSleep turns off the DC/DC converter, clock, output load and MCU. RAM
// content is retained; only a hardware reset wakes the controller.
func deepSleep(ctrl controller) {
	ctrl.sendCommand(deepSleepMode)
	ctrl.sendData([]byte{0x01})
}
