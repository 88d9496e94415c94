// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package weatherdisplay

import (
	"fmt"
	"image"

	"github.com/rs/zerolog"
)

type tee struct {
	primary Panel
	mirrors []Panel
	log     zerolog.Logger
}

// Tee returns a Panel that forwards every operation to primary and, once it
// succeeded, to each mirror. Mirror failures are logged and otherwise
// ignored.
func Tee(log zerolog.Logger, primary Panel, mirrors ...Panel) Panel {
	return &tee{primary: primary, mirrors: mirrors, log: log}
}

func (t *tee) each(op string, primaryErr error, fn func(Panel) error) error {
	if primaryErr != nil {
		return primaryErr
	}
	for _, m := range t.mirrors {
		if err := fn(m); err != nil {
			t.log.Warn().Err(err).Str("op", op).Str("mirror", fmt.Sprint(m)).Msg("mirror failed")
		}
	}
	return nil
}

func (t *tee) Init() error {
	return t.each("init", t.primary.Init(), Panel.Init)
}

func (t *tee) WriteFullFrame(black, chromatic []byte) error {
	return t.each("full", t.primary.WriteFullFrame(black, chromatic), func(p Panel) error {
		return p.WriteFullFrame(black, chromatic)
	})
}

func (t *tee) WritePartialFrame(plane []byte, region image.Rectangle) error {
	return t.each("partial", t.primary.WritePartialFrame(plane, region), func(p Panel) error {
		return p.WritePartialFrame(plane, region)
	})
}

func (t *tee) RefreshPartial() error {
	return t.each("refresh", t.primary.RefreshPartial(), Panel.RefreshPartial)
}

func (t *tee) Sleep() error {
	return t.each("sleep", t.primary.Sleep(), Panel.Sleep)
}

func (t *tee) Wake() error {
	return t.each("wake", t.primary.Wake(), Panel.Wake)
}

func (t *tee) String() string {
	return fmt.Sprintf("tee{%v, %d mirrors}", t.primary, len(t.mirrors))
}
