// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sensor

import (
	"errors"
	"math"
	"sync"
	"time"

	"periph.io/x/conn/v3/physic"
)

// Sim is a fake environmental sensor for hosts without one. Each Sense call
// advances a slow oscillation around the base values.
type Sim struct {
	TemperatureC float64
	HumidityPct  float64

	mu sync.Mutex
	n  int
}

func (s *Sim) String() string {
	return "sensor.Sim"
}

// Sense implements physic.SenseEnv.
func (s *Sim) Sense(e *physic.Env) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	phase := float64(s.n) * math.Pi / 30
	s.n++

	c := s.TemperatureC + 1.5*math.Sin(phase)
	rh := math.Max(0, math.Min(100, s.HumidityPct+5*math.Cos(phase)))

	e.Temperature = physic.Temperature(c*float64(physic.Kelvin)) + physic.ZeroCelsius
	e.Humidity = physic.RelativeHumidity(rh * float64(physic.PercentRH))
	return nil
}

// SenseContinuous implements physic.SenseEnv.
func (s *Sim) SenseContinuous(time.Duration) (<-chan physic.Env, error) {
	return nil, errors.New("sensor: Sim does not support continuous sensing")
}

// Precision implements physic.SenseEnv.
func (s *Sim) Precision(e *physic.Env) {
	e.Temperature = 100 * physic.MilliKelvin
	e.Humidity = 10 * physic.MilliRH
}

// Halt implements conn.Resource.
func (s *Sim) Halt() error {
	return nil
}

var _ physic.SenseEnv = &Sim{}
