// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// weatherpaper shows the weather forecast and the indoor climate on a
// Waveshare 2.9" tri-colour e-paper HAT.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/GermanBionicSystems/weatherpaper/internal/config"
	"github.com/GermanBionicSystems/weatherpaper/mirror"
	"github.com/GermanBionicSystems/weatherpaper/sensor"
	"github.com/GermanBionicSystems/weatherpaper/station"
	"github.com/GermanBionicSystems/weatherpaper/termpanel"
	"github.com/GermanBionicSystems/weatherpaper/tricolor"
	"github.com/GermanBionicSystems/weatherpaper/waveshare2in9bv4"
	"github.com/GermanBionicSystems/weatherpaper/weather"
	"github.com/GermanBionicSystems/weatherpaper/weatherdisplay"
)

func main() {
	var (
		configPath   = flag.String("config", "", "path to a YAML configuration file")
		spiName      = flag.String("spi", "", "SPI port name (default: first available)")
		i2cName      = flag.String("i2c", "", "I²C bus name (default: first available)")
		panelKind    = flag.String("panel", config.PanelHat, "panel: hat | none")
		sensorKind   = flag.String("sensor", config.SensorAHT20, "sensor: aht20 | sim")
		place        = flag.String("place", weather.DefaultPlace, "station reported in the current weather")
		readInterval = flag.Duration("read-interval", 10*time.Second, "pause between readings")
		readings     = flag.Int("readings", 60, "readings shown before the panel sleeps")
		sleepFor     = flag.Duration("sleep", 12*time.Second, "panel sleep between cycles")
		mirrorAddr   = flag.String("mirror", "", "HTTP listen address of the panel mirror, e.g. :8080")
		terminal     = flag.Bool("terminal", false, "print every refresh to the terminal")
		logLevel     = flag.String("log-level", "info", "log level: debug | info | warn | error")
	)
	flag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	cfg := config.Default()
	if *configPath != "" {
		c, err := config.Load(*configPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", *configPath).Msg("loading config failed")
		}
		cfg = *c
	}

	// Flags given on the command line win over the file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "spi":
			cfg.SPI = *spiName
		case "i2c":
			cfg.I2C = *i2cName
		case "panel":
			cfg.Panel = *panelKind
		case "sensor":
			cfg.Sensor = *sensorKind
		case "place":
			cfg.Feed.Place = *place
		case "read-interval":
			cfg.Schedule.ReadInterval = *readInterval
		case "readings":
			cfg.Schedule.ReadingsPerCycle = *readings
		case "sleep":
			cfg.Schedule.SleepDuration = *sleepFor
		case "mirror":
			cfg.MirrorAddr = *mirrorAddr
		case "terminal":
			cfg.Terminal = *terminal
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid log level")
	}
	log.Logger = log.Logger.Level(level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, &cfg, log.Logger); err != nil {
		log.Fatal().Err(err).Msg("weatherpaper stopped")
	}
	log.Info().Msg("bye")
}

func run(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	if cfg.Panel == config.PanelHat || cfg.Sensor == config.SensorAHT20 {
		if _, err := host.Init(); err != nil {
			return fmt.Errorf("initializing host: %w", err)
		}
	}

	var closers []io.Closer
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i].Close(); err != nil {
				logger.Warn().Err(err).Msg("release failed")
			}
		}
	}()

	panel, err := openPanel(ctx, cfg, logger, &closers)
	if err != nil {
		return err
	}

	env, err := openSensor(cfg, &closers)
	if err != nil {
		return err
	}

	display, err := weatherdisplay.New(panel, &weatherdisplay.Opts{Logger: logger.With().Str("component", "display").Logger()})
	if err != nil {
		return err
	}

	client := weather.NewClient(nil, &weather.ClientOpts{
		ForecastURL: cfg.Feed.ForecastURL,
		ReportURL:   cfg.Feed.ReportURL,
		Place:       cfg.Feed.Place,
		Timeout:     cfg.Feed.Timeout,
	})

	s := station.New(display, client, sensor.NewReader(env), &station.Opts{
		ReadInterval:     cfg.Schedule.ReadInterval,
		RetryDelay:       cfg.Schedule.RetryDelay,
		ReadingsPerCycle: cfg.Schedule.ReadingsPerCycle,
		SleepDuration:    cfg.Schedule.SleepDuration,
		Reporter:         client,
		Logger:           logger.With().Str("component", "station").Logger(),
	})

	logger.Info().Str("panel", cfg.Panel).Str("sensor", cfg.Sensor).Msg("station running")

	if err := s.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// openPanel returns the hardware panel teed to the enabled software panels.
// Without hardware the first software panel is the primary.
func openPanel(ctx context.Context, cfg *config.Config, logger zerolog.Logger, closers *[]io.Closer) (weatherdisplay.Panel, error) {
	var panels []weatherdisplay.Panel

	if cfg.Panel == config.PanelHat {
		port, err := spireg.Open(cfg.SPI)
		if err != nil {
			return nil, fmt.Errorf("opening SPI port %q: %w", cfg.SPI, err)
		}
		*closers = append(*closers, port)

		opts := waveshare2in9bv4.EPD2in9bV4
		opts.VerifyChipID = cfg.VerifyChipID
		epd, err := waveshare2in9bv4.NewHat(port, &opts)
		if err != nil {
			return nil, err
		}
		*closers = append(*closers, halter{epd})
		panels = append(panels, epd)
	}

	if cfg.Terminal {
		opts := termpanel.DefaultOpts
		tp, err := termpanel.New(nil, &opts)
		if err != nil {
			return nil, err
		}
		*closers = append(*closers, halter{tp})
		panels = append(panels, tp)
	}

	if cfg.MirrorAddr != "" {
		m, err := mirror.New(&mirror.Options{
			Width:    weatherdisplay.NativeWidth,
			Height:   weatherdisplay.NativeHeight,
			Rotation: tricolor.Rotate270,
			Scale:    2,
			Logger:   logger.With().Str("component", "mirror").Logger(),
		})
		if err != nil {
			return nil, err
		}
		srv := &http.Server{Addr: cfg.MirrorAddr, Handler: m, ReadHeaderTimeout: 10 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error().Err(err).Str("addr", cfg.MirrorAddr).Msg("mirror server failed")
			}
		}()
		*closers = append(*closers, halter{m}, shutdowner{ctx, srv})
		panels = append(panels, m)
		logger.Info().Str("addr", cfg.MirrorAddr).Msg("mirror listening")
	}

	if len(panels) == 0 {
		return nil, errors.New("no panel configured")
	}
	return weatherdisplay.Tee(logger, panels[0], panels[1:]...), nil
}

func openSensor(cfg *config.Config, closers *[]io.Closer) (physic.SenseEnv, error) {
	if cfg.Sensor == config.SensorSim {
		return &sensor.Sim{TemperatureC: 24, HumidityPct: 60}, nil
	}

	bus, err := i2creg.Open(cfg.I2C)
	if err != nil {
		return nil, fmt.Errorf("opening I²C bus %q: %w", cfg.I2C, err)
	}
	*closers = append(*closers, bus)

	dev, err := sensor.NewAHT20(bus, &sensor.DefaultAHT20Opts)
	if err != nil {
		return nil, err
	}
	*closers = append(*closers, halter{dev})
	return dev, nil
}

// halter adapts conn.Resource style Halt to io.Closer.
type halter struct {
	r interface{ Halt() error }
}

func (h halter) Close() error {
	return h.r.Halt()
}

type shutdowner struct {
	ctx context.Context
	srv *http.Server
}

func (s shutdowner) Close() error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(s.ctx), 2*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}
