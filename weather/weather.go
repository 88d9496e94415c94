// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package weather

import "fmt"

// Condition is the coarse weather category an icon is chosen from.
type Condition int

const (
	Unknown Condition = iota
	Sunny
	Cloudy
	Rain
)

func (c Condition) String() string {
	switch c {
	case Unknown:
		return "Unknown"
	case Sunny:
		return "Sunny"
	case Cloudy:
		return "Cloudy"
	case Rain:
		return "Rain"
	}
	return fmt.Sprintf("Condition(%d)", int(c))
}

// ConditionFromIcon maps an Observatory weather icon code to a Condition.
func ConditionFromIcon(code int) Condition {
	switch code {
	case 50, 51, 52:
		return Sunny
	case 53, 60, 61, 76, 77:
		return Cloudy
	case 54, 62, 63, 64, 65:
		return Rain
	}
	return Unknown
}

// Forecast is one day of the multi-day forecast.
type Forecast struct {
	// Day is the day of the month, 0 if unknown.
	Day int
	// Week is the upper-case three letter day of the week.
	Week string

	MinTemp int
	MaxTemp int

	Condition Condition
}

// Placeholder returns the record drawn into slots without forecast data.
func Placeholder() Forecast {
	return Forecast{Week: "---"}
}

// Reading is a local sensor measurement.
type Reading struct {
	TemperatureC float64
	HumidityPct  float64
}

func (r Reading) String() string {
	return fmt.Sprintf("%.1fC %.1f%%", r.TemperatureC, r.HumidityPct)
}

// Report is the current weather at one Observatory station.
type Report struct {
	Place        string
	TemperatureC int
	Condition    Condition
	// Day is the month and day of the report, "MM-DD".
	Day string
}
