// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sensor

import (
	"context"
	"fmt"

	"github.com/GermanBionicSystems/weatherpaper/weather"
	"periph.io/x/conn/v3/physic"
)

// Reader turns environmental measurements into weather readings.
type Reader struct {
	dev physic.SenseEnv
}

// NewReader returns a Reader sampling dev.
func NewReader(dev physic.SenseEnv) *Reader {
	return &Reader{dev: dev}
}

func (r *Reader) String() string {
	return fmt.Sprintf("sensor.Reader{%s}", r.dev)
}

// Read takes one measurement. The context is only checked before the
// measurement starts; a started measurement runs to completion.
func (r *Reader) Read(ctx context.Context) (weather.Reading, error) {
	if err := ctx.Err(); err != nil {
		return weather.Reading{}, err
	}

	var e physic.Env
	if err := r.dev.Sense(&e); err != nil {
		return weather.Reading{}, fmt.Errorf("sensor: %s: %w", r.dev, err)
	}

	return weather.Reading{
		TemperatureC: e.Temperature.Celsius(),
		HumidityPct:  float64(e.Humidity) / float64(physic.PercentRH),
	}, nil
}

// Halt releases the underlying device.
func (r *Reader) Halt() error {
	return r.dev.Halt()
}
