// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package weather

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// ForecastURL is the 9-day forecast endpoint.
	ForecastURL = "https://data.weather.gov.hk/weatherAPI/opendata/weather.php?dataType=fnd&lang=en"
	// ReportURL is the current weather report endpoint.
	ReportURL = "https://data.weather.gov.hk/weatherAPI/opendata/weather.php?dataType=rhrread&lang=en"
)

// maxBody bounds the size of a feed document.
const maxBody = 1 << 20

// StatusError is returned by Fetch for non-200 responses.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("weather: GET %s: %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// ClientOpts configures a Client.
type ClientOpts struct {
	ForecastURL string
	ReportURL   string
	// Place is the station whose temperature Report returns.
	Place string
	// Timeout bounds each request when no http.Client is given.
	Timeout time.Duration
}

// DefaultClientOpts points to the public Observatory endpoints.
var DefaultClientOpts = ClientOpts{
	ForecastURL: ForecastURL,
	ReportURL:   ReportURL,
	Place:       DefaultPlace,
	Timeout:     20 * time.Second,
}

// Client fetches the Observatory feeds. Each call makes exactly one request;
// there is no retry.
type Client struct {
	h    *http.Client
	opts ClientOpts
}

// NewClient returns a Client. h and opts may be nil.
func NewClient(h *http.Client, opts *ClientOpts) *Client {
	if opts == nil {
		opts = &DefaultClientOpts
	}
	if h == nil {
		h = &http.Client{Timeout: opts.Timeout}
	}
	return &Client{h: h, opts: *opts}
}

// Fetch returns the body of a GET request to url.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.h.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	return io.ReadAll(io.LimitReader(resp.Body, maxBody))
}

// Forecast fetches and parses the 9-day forecast.
func (c *Client) Forecast(ctx context.Context) ([]Forecast, error) {
	data, err := c.Fetch(ctx, c.opts.ForecastURL)
	if err != nil {
		return nil, err
	}
	return ParseForecast(data)
}

// Report fetches and parses the current weather report.
func (c *Client) Report(ctx context.Context) (Report, error) {
	data, err := c.Fetch(ctx, c.opts.ReportURL)
	if err != nil {
		return Report{}, err
	}
	return ParseReport(data, c.opts.Place)
}
