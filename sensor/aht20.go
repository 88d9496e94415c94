// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sensor

import (
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"

	"github.com/GermanBionicSystems/weatherpaper/internal/crc"
)

const aht20Address = 0x38

const (
	cmdStatus    byte = 0x71
	cmdCalibrate byte = 0xBE
	cmdMeasure   byte = 0xAC
	cmdSoftReset byte = 0xBA
)

const (
	bitBusy       byte = 1 << 7
	bitCalibrated byte = 1 << 3
)

var (
	argsCalibrate = []byte{cmdCalibrate, 0x08, 0x00}
	argsMeasure   = []byte{cmdMeasure, 0x33, 0x00}
)

// measureDelay is the conversion time from the datasheet.
const measureDelay = 80 * time.Millisecond

// AHT20Opts holds the configuration of an AHT20.
type AHT20Opts struct {
	// ReadTimeout bounds polling for a result once the conversion time has
	// passed. Zero polls forever.
	ReadTimeout time.Duration
	// PollInterval is the delay between two result reads.
	PollInterval time.Duration
	// ValidateCRC rejects results whose CRC8 does not match.
	ValidateCRC bool
}

// DefaultAHT20Opts are the recommended settings.
var DefaultAHT20Opts = AHT20Opts{
	ReadTimeout:  150 * time.Millisecond,
	PollInterval: 10 * time.Millisecond,
	ValidateCRC:  true,
}

// AHT20 is a handle to an AHT20 temperature and humidity sensor.
type AHT20 struct {
	d    *i2c.Dev
	opts AHT20Opts

	mu   sync.Mutex
	stop chan struct{}
	wg   sync.WaitGroup
}

// NewAHT20 returns a handle to the sensor on bus b and calibrates it if
// needed. opts may be nil.
func NewAHT20(b i2c.Bus, opts *AHT20Opts) (*AHT20, error) {
	if opts == nil {
		opts = &DefaultAHT20Opts
	}

	d := &AHT20{d: &i2c.Dev{Bus: b, Addr: aht20Address}, opts: *opts}
	if d.opts.PollInterval <= 0 {
		d.opts.PollInterval = DefaultAHT20Opts.PollInterval
	}

	calibrated, err := d.calibrated()
	if err != nil {
		return nil, fmt.Errorf("sensor: reading AHT20 status: %w", err)
	}
	if !calibrated {
		if err := d.d.Tx(argsCalibrate, nil); err != nil {
			return nil, fmt.Errorf("sensor: calibrating AHT20: %w", err)
		}
		time.Sleep(10 * time.Millisecond)
	}
	return d, nil
}

func (d *AHT20) String() string {
	return fmt.Sprintf("AHT20{%s}", d.d)
}

// Sense implements physic.SenseEnv. Pressure is not measured and left
// untouched.
func (d *AHT20) Sense(e *physic.Env) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.d.Tx(argsMeasure, nil); err != nil {
		return err
	}
	time.Sleep(measureDelay)

	start := time.Now()
	var data [7]byte
	for {
		if err := d.d.Tx(nil, data[:]); err != nil {
			return err
		}
		if d.opts.ValidateCRC && crc.CRC8(data[:6]) != data[6] {
			return &DataCorruptionError{}
		}
		if data[0]&bitCalibrated == 0 {
			return &NotCalibratedError{}
		}
		if data[0]&bitBusy == 0 {
			decode(data[:], e)
			return nil
		}
		if d.opts.ReadTimeout > 0 && time.Since(start) >= d.opts.ReadTimeout {
			return &ReadTimeoutError{Timeout: d.opts.ReadTimeout}
		}
		time.Sleep(d.opts.PollInterval)
	}
}

// decode converts the two 20 bit raw values of a result frame.
func decode(data []byte, e *physic.Env) {
	h := uint32(data[1])<<12 | uint32(data[2])<<4 | uint32(data[3])>>4
	t := uint32(data[3]&0x0F)<<16 | uint32(data[4])<<8 | uint32(data[5])

	rh := float64(h) / (1 << 20) * 100
	c := float64(t)/(1<<20)*200 - 50

	e.Humidity = physic.RelativeHumidity(rh * float64(physic.PercentRH))
	e.Temperature = physic.Temperature(c*float64(physic.Kelvin)) + physic.ZeroCelsius
}

// SenseContinuous implements physic.SenseEnv. Failed measurements are
// skipped. Call Halt to stop.
func (d *AHT20) SenseContinuous(interval time.Duration) (<-chan physic.Env, error) {
	if interval < measureDelay {
		return nil, fmt.Errorf("sensor: interval %v shorter than the AHT20 conversion time", interval)
	}

	if err := d.Halt(); err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	out := make(chan physic.Env)
	stop := make(chan struct{})
	d.stop = stop
	d.wg.Add(1)

	go func() {
		defer d.wg.Done()
		defer close(out)

		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-stop:
				return
			case <-t.C:
			}

			var e physic.Env
			if err := d.Sense(&e); err != nil {
				continue
			}
			select {
			case out <- e:
			case <-stop:
				return
			}
		}
	}()
	return out, nil
}

// Precision implements physic.SenseEnv.
func (d *AHT20) Precision(e *physic.Env) {
	e.Temperature = 10 * physic.MilliKelvin
	e.Humidity = 24 * physic.MilliRH
}

// SoftReset reboots the sensor. Calibration is kept.
func (d *AHT20) SoftReset() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.d.Tx([]byte{cmdSoftReset}, nil); err != nil {
		return err
	}
	time.Sleep(20 * time.Millisecond)
	return nil
}

// Halt stops a SenseContinuous loop.
func (d *AHT20) Halt() error {
	d.mu.Lock()
	stop := d.stop
	d.stop = nil
	d.mu.Unlock()

	if stop != nil {
		close(stop)
		d.wg.Wait()
	}
	return nil
}

func (d *AHT20) calibrated() (bool, error) {
	var status [1]byte
	if err := d.d.Tx([]byte{cmdStatus}, status[:]); err != nil {
		return false, err
	}
	return status[0]&bitCalibrated != 0, nil
}

var _ physic.SenseEnv = &AHT20{}
