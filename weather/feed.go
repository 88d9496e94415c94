// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package weather

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrNoStations is returned by ParseReport when the report lists no
// temperatures.
var ErrNoStations = errors.New("weather: report has no station temperatures")

// DefaultPlace is the station preferred by ParseReport.
const DefaultPlace = "Sham Shui Po"

// reportIconDefault is used when the report carries no icon.
const reportIconDefault = 60

type measurement struct {
	Value float64 `json:"value"`
}

type forecastFeed struct {
	WeatherForecast []struct {
		ForecastDate    string      `json:"forecastDate"`
		Week            string      `json:"week"`
		ForecastMaxtemp measurement `json:"forecastMaxtemp"`
		ForecastMintemp measurement `json:"forecastMintemp"`
		ForecastIcon    int         `json:"ForecastIcon"`
	} `json:"weatherForecast"`
}

type reportFeed struct {
	Temperature struct {
		Data []struct {
			Place string  `json:"place"`
			Value float64 `json:"value"`
		} `json:"data"`
	} `json:"temperature"`
	Icon       []int  `json:"icon"`
	UpdateTime string `json:"updateTime"`
}

// ParseForecast decodes a 9-day forecast document. Fields missing from an
// entry are left at their zero value.
func ParseForecast(data []byte) ([]Forecast, error) {
	var feed forecastFeed
	if err := json.Unmarshal(data, &feed); err != nil {
		return nil, fmt.Errorf("weather: decoding forecast: %w", err)
	}

	out := make([]Forecast, 0, len(feed.WeatherForecast))
	for _, f := range feed.WeatherForecast {
		out = append(out, Forecast{
			Day:       dayOfMonth(f.ForecastDate),
			Week:      weekday(f.Week),
			MinTemp:   int(math.Round(f.ForecastMintemp.Value)),
			MaxTemp:   int(math.Round(f.ForecastMaxtemp.Value)),
			Condition: ConditionFromIcon(f.ForecastIcon),
		})
	}
	return out, nil
}

// ParseReport decodes a current weather report and picks the temperature of
// place, or of the first station if place is not listed.
func ParseReport(data []byte, place string) (Report, error) {
	var feed reportFeed
	if err := json.Unmarshal(data, &feed); err != nil {
		return Report{}, fmt.Errorf("weather: decoding report: %w", err)
	}

	stations := feed.Temperature.Data
	if len(stations) == 0 {
		return Report{}, ErrNoStations
	}

	icon := reportIconDefault
	if len(feed.Icon) > 0 {
		icon = feed.Icon[0]
	}

	day := "--"
	if len(feed.UpdateTime) >= 10 {
		day = feed.UpdateTime[5:10]
	}

	s := stations[0]
	for _, c := range stations {
		if c.Place == place {
			s = c
			break
		}
	}

	return Report{
		Place:        s.Place,
		TemperatureC: int(math.Round(s.Value)),
		Condition:    ConditionFromIcon(icon),
		Day:          day,
	}, nil
}

// dayOfMonth returns the last two digits of a YYYYMMDD date.
func dayOfMonth(date string) int {
	if len(date) < 2 {
		return 0
	}
	day, err := strconv.Atoi(date[len(date)-2:])
	if err != nil {
		return 0
	}
	return day
}

func weekday(week string) string {
	week = strings.ToUpper(week)
	if len(week) > 3 {
		week = week[:3]
	}
	return week
}
