// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package crc implements the CRC8 used by Aosong and Sensirion sensors.
package crc

// polynomial is x^8 + x^5 + x^4 + 1 with x^8 omitted.
const polynomial = 0x31

// CRC8 returns the CRC of data, starting from 0xFF with no final xor.
func CRC8(data []byte) byte {
	var crc byte = 0xff
	for _, b := range data {
		crc ^= b
		for range 8 {
			if crc&0x80 == 0 {
				crc <<= 1
			} else {
				crc = crc<<1 ^ polynomial
			}
		}
	}
	return crc
}
