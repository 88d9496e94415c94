// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package weather holds the records shown on the panel and reads them from
// the Hong Kong Observatory open data feed.
//
// API documentation:
// https://data.weather.gov.hk/weatherAPI/doc/HKO_Open_Data_API_Documentation.pdf
//
// Only two datasets are used: the 9-day forecast (dataType=fnd) and the
// current weather report (dataType=rhrread).
package weather
