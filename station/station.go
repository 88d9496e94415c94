// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package station runs the weather board: it draws the forecast once, then
// shows a local reading on a fixed cadence and lets the panel sleep between
// cycles.
package station

import (
	"context"
	"time"

	"github.com/GermanBionicSystems/weatherpaper/weather"
	"github.com/rs/zerolog"
)

// Renderer is the board, usually a *weatherdisplay.Display.
type Renderer interface {
	RenderForecastBoard(records []weather.Forecast) error
	RenderCurrentReading(r weather.Reading, first bool) error
	Sleep() error
	Wake() error
}

// Forecaster provides the multi-day forecast.
type Forecaster interface {
	Forecast(ctx context.Context) ([]weather.Forecast, error)
}

// Reporter provides the current weather report.
type Reporter interface {
	Report(ctx context.Context) (weather.Report, error)
}

// Thermometer provides local readings.
type Thermometer interface {
	Read(ctx context.Context) (weather.Reading, error)
}

// Opts configures a Station.
type Opts struct {
	// ReadInterval is the pause after each shown reading.
	ReadInterval time.Duration
	// RetryDelay is the pause after a failed reading.
	RetryDelay time.Duration
	// ReadingsPerCycle is the number of readings shown before the panel
	// sleeps.
	ReadingsPerCycle int
	// SleepDuration is how long the panel sleeps between cycles.
	SleepDuration time.Duration

	// Reporter is optional. Its report is logged at start.
	Reporter Reporter

	Logger zerolog.Logger
}

// DefaultOpts is the cadence of the board: a reading every 10s and a 12s
// panel sleep every 60 readings.
var DefaultOpts = Opts{
	ReadInterval:     10 * time.Second,
	RetryDelay:       1200 * time.Millisecond,
	ReadingsPerCycle: 60,
	SleepDuration:    12 * time.Second,
	Logger:           zerolog.Nop(),
}

// Station drives a Renderer from a forecast source and a thermometer.
type Station struct {
	r    Renderer
	f    Forecaster
	t    Thermometer
	opts Opts
	log  zerolog.Logger
}

// New returns a Station. opts may be nil.
func New(r Renderer, f Forecaster, t Thermometer, opts *Opts) *Station {
	if opts == nil {
		opts = &DefaultOpts
	}
	o := *opts
	if o.ReadingsPerCycle <= 0 {
		o.ReadingsPerCycle = DefaultOpts.ReadingsPerCycle
	}
	return &Station{r: r, f: f, t: t, opts: o, log: o.Logger}
}

// Run draws the forecast and then loops over readings until ctx is done.
// Network and sensor failures are logged; panel failures end the loop and
// are returned. Cancellation is only noticed between panel operations.
func (s *Station) Run(ctx context.Context) error {
	if err := s.showForecast(ctx); err != nil {
		return err
	}

	count := 0
	for ctx.Err() == nil {
		r, err := s.t.Read(ctx)
		if err != nil {
			s.log.Warn().Err(err).Msg("reading failed")
			wait(ctx, s.opts.RetryDelay)
			continue
		}

		if err := s.r.RenderCurrentReading(r, count == 0); err != nil {
			return err
		}
		count++
		s.log.Info().Stringer("reading", r).Int("count", count).Msg("reading shown")

		wait(ctx, s.opts.ReadInterval)

		if count == s.opts.ReadingsPerCycle {
			if err := s.sleepCycle(ctx); err != nil {
				return err
			}
			count = 0
		}
	}
	return nil
}

func (s *Station) showForecast(ctx context.Context) error {
	records, err := s.f.Forecast(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("forecast unavailable, drawing placeholders")
		records = nil
	} else {
		s.log.Info().Int("days", len(records)).Msg("forecast fetched")
	}

	if s.opts.Reporter != nil {
		rep, err := s.opts.Reporter.Report(ctx)
		if err != nil {
			s.log.Warn().Err(err).Msg("report unavailable")
		} else {
			s.log.Info().
				Str("place", rep.Place).
				Int("temperature", rep.TemperatureC).
				Stringer("condition", rep.Condition).
				Str("day", rep.Day).
				Msg("current weather")
		}
	}

	return s.r.RenderForecastBoard(records)
}

func (s *Station) sleepCycle(ctx context.Context) error {
	if err := s.r.Sleep(); err != nil {
		return err
	}
	s.log.Info().Dur("duration", s.opts.SleepDuration).Msg("panel asleep")

	wait(ctx, s.opts.SleepDuration)

	if err := s.r.Wake(); err != nil {
		return err
	}
	s.log.Info().Msg("panel awake")
	return nil
}

// wait blocks for d or until ctx is done.
func wait(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
