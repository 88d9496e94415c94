// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package waveshare2in9bv4

import (
	"time"

	"periph.io/x/conn/v3/gpio"
)

// errorHandler is a wrapper for error management. Once an operation fails all
// following ones are skipped and the first error is kept.
type errorHandler struct {
	d   Dev
	err error
}

func (eh *errorHandler) rstOut(l gpio.Level) {
	if eh.err != nil {
		return
	}
	eh.err = eh.d.rst.Out(l)
}

func (eh *errorHandler) cTx(w []byte, r []byte) {
	if eh.err != nil {
		return
	}
	eh.err = eh.d.c.Tx(w, r)
}

func (eh *errorHandler) dcOut(l gpio.Level) {
	if eh.err != nil {
		return
	}
	eh.err = eh.d.dc.Out(l)
}

func (eh *errorHandler) csOut(l gpio.Level) {
	if eh.err != nil {
		return
	}
	eh.err = eh.d.cs.Out(l)
}

// waitUntilIdle polls the busy line, which is high while the controller is
// working. It gives up after Opts.BusyTimeout; zero waits forever.
func (eh *errorHandler) waitUntilIdle() {
	if eh.err != nil {
		return
	}

	timeout := eh.d.opts.BusyTimeout
	start := time.Now()

	for eh.d.busy.Read() == gpio.High {
		if timeout > 0 && time.Since(start) >= timeout {
			eh.err = &TimeoutError{Timeout: timeout}
			return
		}
		time.Sleep(eh.d.opts.BusyPoll)
	}
}

func (eh *errorHandler) sendCommand(cmd byte) {
	if eh.err != nil {
		return
	}

	eh.dcOut(gpio.Low)
	eh.csOut(gpio.Low)
	eh.cTx([]byte{cmd}, nil)
	eh.csOut(gpio.High)
}

func (eh *errorHandler) sendData(data []byte) {
	if eh.err != nil {
		return
	}

	eh.dcOut(gpio.High)
	eh.csOut(gpio.Low)
	eh.cTx(data, nil)
	eh.csOut(gpio.High)
}

// readData clocks len(r) bytes out of the controller. It needs the shared
// SDA line to be wired for reading.
func (eh *errorHandler) readData(r []byte) {
	if eh.err != nil {
		return
	}

	eh.dcOut(gpio.High)
	eh.csOut(gpio.Low)
	eh.cTx(make([]byte, len(r)), r)
	eh.csOut(gpio.High)
}
