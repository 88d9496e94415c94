// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"context"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GermanBionicSystems/weatherpaper/internal/config"
	"github.com/GermanBionicSystems/weatherpaper/sensor"
)

func TestOpenPanelMirrorOnly(t *testing.T) {
	cfg := config.Default()
	cfg.Panel = config.PanelNone
	cfg.MirrorAddr = "127.0.0.1:0"

	var closers []io.Closer
	p, err := openPanel(context.Background(), &cfg, zerolog.Nop(), &closers)
	require.NoError(t, err)
	assert.Len(t, closers, 2)

	assert.NoError(t, p.Init())
	assert.NoError(t, p.WriteFullFrame(make([]byte, 16*296), nil))

	for _, c := range closers {
		assert.NoError(t, c.Close())
	}
}

func TestOpenPanelNone(t *testing.T) {
	cfg := config.Default()
	cfg.Panel = config.PanelNone

	var closers []io.Closer
	_, err := openPanel(context.Background(), &cfg, zerolog.Nop(), &closers)
	assert.Error(t, err)
}

func TestOpenSensorSim(t *testing.T) {
	cfg := config.Default()
	cfg.Sensor = config.SensorSim

	var closers []io.Closer
	env, err := openSensor(&cfg, &closers)
	require.NoError(t, err)
	assert.Empty(t, closers)

	r, err := sensor.NewReader(env).Read(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 24, r.TemperatureC, 1.5)
}
