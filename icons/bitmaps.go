// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package icons

// Bitmaps are kept as pixel art; '#' is a set pixel. Each row must have the
// same length.
var (
	// Sun is the clear-sky icon.
	Sun = mustParse(
		"................................",
		"...............##...............",
		"...............##...............",
		"...............##...............",
		"...............##...............",
		".....##........##........##.....",
		".....###.......##.......###.....",
		"......###..............###......",
		".......###............###.......",
		"........##............##........",
		".............######.............",
		"...........##########...........",
		"...........##########...........",
		"..........############..........",
		"..........############..........",
		".######...############...######.",
		".######...############...######.",
		"..........############..........",
		"..........############..........",
		"...........##########...........",
		"...........##########...........",
		".............######.............",
		"........##............##........",
		".......###............###.......",
		"......###..............###......",
		".....###.......##.......###.....",
		".....##........##........##.....",
		"...............##...............",
		"...............##...............",
		"...............##...............",
		"...............##...............",
		"................................",
	)

	// Cloud is the overcast icon.
	Cloud = mustParse(
		"................................",
		"................................",
		"................................",
		"................................",
		"................................",
		"................######..........",
		"..............##########........",
		".............###......###.......",
		"............##..........##......",
		"............##..........##......",
		"...........##............##.....",
		".........####............##.....",
		".......######............##.....",
		"......##.................##.....",
		"......#..................##.....",
		".....##..................###....",
		".....##....................##...",
		".....#......................#...",
		".....#......................#...",
		".....#......................#...",
		".....#......................#...",
		".....#.....................##...",
		".....#######################....",
		".....######################.....",
		"................................",
		"................................",
		"................................",
		"................................",
		"................................",
		"................................",
		"................................",
		"................................",
	)

	// Rain is the cloud-with-showers icon.
	Rain = mustParse(
		"................................",
		"................######..........",
		"..............##########........",
		".............###......###.......",
		"............##..........##......",
		"............##..........##......",
		"...........##............##.....",
		".........####............##.....",
		".......######............##.....",
		"......##.................##.....",
		"......#..................##.....",
		".....##..................###....",
		".....##....................##...",
		".....#......................#...",
		".....#......................#...",
		".....#......................#...",
		".....#......................#...",
		".....#.....................##...",
		".....#######################....",
		".....######################.....",
		"................................",
		"................................",
		"........##.....##.....##........",
		"........##.....##.....##........",
		".......###....###....###........",
		".......##.....##.....##.........",
		".......##.....##.....##.........",
		"......###....###....###.........",
		"......##.....##.....##..........",
		"......##.....##.....##..........",
		"................................",
		"................................",
	)

	// Warning is shown for conditions without a dedicated icon.
	Warning = mustParse(
		"................................",
		"................................",
		"............########............",
		"..........############..........",
		"........################........",
		".......####..........####.......",
		"......####............####......",
		".....###................###.....",
		"....###........##........###....",
		"....###........##........###....",
		"...###.........##.........###...",
		"...##..........##..........##...",
		"..###..........##..........###..",
		"..###..........##..........###..",
		"..###..........##..........###..",
		"..###..........##..........###..",
		"..###..........##..........###..",
		"..###..........##..........###..",
		"..###..........##..........###..",
		"..###......................###..",
		"...##......................##...",
		"...###.........##.........###...",
		"....###........##........###....",
		"....###........##........###....",
		".....###................###.....",
		"......####............####......",
		".......####..........####.......",
		"........################........",
		"..........############..........",
		"............########............",
		"................................",
		"................................",
	)

	// Thermometer marks the temperature readout.
	Thermometer = mustParse(
		"........................",
		"..........####..........",
		".........#....#.........",
		".........#....#.........",
		".........#....#.........",
		".........#....#.###.....",
		".........#....#.........",
		".........#....#.........",
		".........#.##.#.........",
		".........#.##.#.###.....",
		".........#.##.#.........",
		".........#.##.#.........",
		".........#.##.#.........",
		".........######.###.....",
		"........########........",
		"........##.##.##........",
		".......##.####.##.......",
		".......##.####.##.......",
		".......##.####.##.......",
		".......##.####.##.......",
		"........##....##........",
		"........########........",
		"..........####..........",
		"........................",
	)

	// Droplet marks the relative humidity readout.
	Droplet = mustParse(
		"........................",
		"........................",
		"........................",
		"...........##...........",
		"...........##...........",
		"..........####..........",
		"..........#..#..........",
		".........##..##.........",
		"........##....##........",
		"........##....##........",
		".......##......##.......",
		".......##......##.......",
		"......##........##......",
		".....##..........##.....",
		".....##.#........##.....",
		".....##.##.......##.....",
		".....##.##.......##.....",
		".....##..#.......##.....",
		"......##.##.....##......",
		".......####....##.......",
		"........########........",
		".........######.........",
		"........................",
		"........................",
	)
)
