// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sensor

import (
	"fmt"
	"time"
)

// NotCalibratedError is returned when the AHT20 lost its calibration.
type NotCalibratedError struct{}

func (e *NotCalibratedError) Error() string {
	return "sensor: AHT20 is not calibrated"
}

// ReadTimeoutError is returned when a measurement did not finish in time.
type ReadTimeoutError struct {
	Timeout time.Duration
}

func (e *ReadTimeoutError) Error() string {
	return fmt.Sprintf("sensor: AHT20 measurement not ready after %v", e.Timeout)
}

// DataCorruptionError is returned when a result fails the CRC8 check.
type DataCorruptionError struct{}

func (e *DataCorruptionError) Error() string {
	return "sensor: AHT20 data corrupt, CRC8 mismatch"
}
