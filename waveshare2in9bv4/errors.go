// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package waveshare2in9bv4

import (
	"errors"
	"fmt"
	"image"
	"time"
)

var (
	// ErrAsleep is returned by operations that need the controller awake.
	ErrAsleep = errors.New("waveshare2in9bv4: panel is in deep sleep")

	// ErrPlaneSize is returned when a plane does not match the window it is
	// written to.
	ErrPlaneSize = errors.New("waveshare2in9bv4: plane size does not match window")
)

// InitFailure classifies why Init failed.
type InitFailure int

const (
	// InitTimeout means the busy line never released.
	InitTimeout InitFailure = iota + 1
	// InitProtocolMismatch means the controller did not identify as an
	// SSD1680.
	InitProtocolMismatch
)

func (f InitFailure) String() string {
	switch f {
	case InitTimeout:
		return "timeout"
	case InitProtocolMismatch:
		return "protocol mismatch"
	}
	return fmt.Sprintf("InitFailure(%d)", int(f))
}

// InitError is returned by Init and Wake when the panel cannot be brought up.
type InitError struct {
	Reason InitFailure
	Err    error
}

func (e *InitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("waveshare2in9bv4: init failed: %v", e.Reason)
	}
	return fmt.Sprintf("waveshare2in9bv4: init failed: %v: %v", e.Reason, e.Err)
}

func (e *InitError) Unwrap() error {
	return e.Err
}

// TimeoutError is returned when the busy line stays asserted for longer than
// Opts.BusyTimeout.
type TimeoutError struct {
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("waveshare2in9bv4: busy line still asserted after %v", e.Timeout)
}

// RegionError is returned by WritePartialFrame for windows the controller
// cannot address.
type RegionError struct {
	Region image.Rectangle
	Reason string
}

func (e *RegionError) Error() string {
	return fmt.Sprintf("waveshare2in9bv4: invalid partial region %v: %s", e.Region, e.Reason)
}
