// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package config loads the weatherpaper YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/GermanBionicSystems/weatherpaper/weather"
)

// Sensor kinds.
const (
	SensorAHT20 = "aht20"
	SensorSim   = "sim"
)

// Panel kinds.
const (
	PanelHat  = "hat"
	PanelNone = "none"
)

type Feed struct {
	ForecastURL string        `yaml:"forecast_url"`
	ReportURL   string        `yaml:"report_url"`
	Place       string        `yaml:"place"`
	Timeout     time.Duration `yaml:"timeout"`
}

type Schedule struct {
	ReadInterval     time.Duration `yaml:"read_interval"`
	RetryDelay       time.Duration `yaml:"retry_delay"`
	ReadingsPerCycle int           `yaml:"readings_per_cycle"`
	SleepDuration    time.Duration `yaml:"sleep_duration"`
}

type Config struct {
	// SPI and I2C are periph registry names; empty selects the first one.
	SPI string `yaml:"spi"`
	I2C string `yaml:"i2c"`

	Panel  string `yaml:"panel"`  // "hat" | "none"
	Sensor string `yaml:"sensor"` // "aht20" | "sim"

	// VerifyChipID enables the controller identity check at init.
	VerifyChipID bool `yaml:"verify_chip_id"`

	Feed     Feed     `yaml:"feed"`
	Schedule Schedule `yaml:"schedule"`

	// MirrorAddr is the HTTP listen address of the mirror; empty disables it.
	MirrorAddr string `yaml:"mirror_addr"`
	Terminal   bool   `yaml:"terminal"`

	LogLevel string `yaml:"log_level"`
}

// Default returns the configuration used for missing keys.
func Default() Config {
	return Config{
		Panel:  PanelHat,
		Sensor: SensorAHT20,
		Feed: Feed{
			ForecastURL: weather.ForecastURL,
			ReportURL:   weather.ReportURL,
			Place:       weather.DefaultPlace,
			Timeout:     20 * time.Second,
		},
		Schedule: Schedule{
			ReadInterval:     10 * time.Second,
			RetryDelay:       1200 * time.Millisecond,
			ReadingsPerCycle: 60,
			SleepDuration:    12 * time.Second,
		},
		LogLevel: "info",
	}
}

// Load reads the file at path over Default and validates the result.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.Panel {
	case PanelHat, PanelNone:
	default:
		return fmt.Errorf("config: unknown panel %q", c.Panel)
	}
	switch c.Sensor {
	case SensorAHT20, SensorSim:
	default:
		return fmt.Errorf("config: unknown sensor %q", c.Sensor)
	}
	if c.Panel == PanelNone && c.MirrorAddr == "" && !c.Terminal {
		return errors.New("config: panel \"none\" needs a mirror or the terminal preview")
	}
	if c.Schedule.ReadInterval <= 0 || c.Schedule.SleepDuration < 0 || c.Schedule.RetryDelay < 0 {
		return errors.New("config: schedule durations must be positive")
	}
	if c.Schedule.ReadingsPerCycle <= 0 {
		return fmt.Errorf("config: readings_per_cycle must be positive, got %d", c.Schedule.ReadingsPerCycle)
	}
	return nil
}
