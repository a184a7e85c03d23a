/*
   pm5drive - Concept2 PM5 flash drive toolkit
   Copyright (c) 2026, the pm5drive authors

   This file is part of pm5drive.

   pm5drive is free software: you can redistribute it and/or modify
   it under the terms of the GNU General Public License as published by
   the Free Software Foundation, either version 3 of the License, or
   (at your option) any later version.

   pm5drive is distributed in the hope that it will be useful,
   but WITHOUT ANY WARRANTY; without even the implied warranty of
   MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
   GNU General Public License for more details.

   You should have received a copy of the GNU General Public License
   along with pm5drive. If not, see <http://www.gnu.org/licenses/>.
*/

package logbook

import (
	"fmt"

	"github.com/rowperf/pm5drive/pkg/pm5/codec"
)

//
const (
	SlotSize     = 1024
	HeaderSize   = 64
	IntervalSize = 32
	MaxIntervals = (SlotSize - HeaderSize) / IntervalSize

	// layout version written by current monitor firmware
	FormatVersion = 1
)

// slot status bytes; values taken from drives captured in the wild
const (
	SlotUsed  = 0xf0
	SlotEmpty = 0xff
	SlotEnd   = 0x70
)

/*
	The reverse engineered field layouts, one table per layout version.
	A future firmware revision that rearranges fields is added here as
	data; the decode and encode paths stay untouched.
*/
var headerIndex = map[int]codec.Index{
	1: {
		"status":    {0, 1},
		"type":      {1, 1},
		"length":    {2, 2},
		"count":     {4, 2},
		"checksum":  {6, 2},
		"serial":    {8, 4},
		"timestamp": {12, 4},
		"user":      {16, 2},
		"record":    {18, 1},
		"spm":       {19, 1},
		"duration":  {20, 4},
		"distance":  {24, 4},
		"calories":  {28, 2},
		"rest":      {30, 4},
		"reserved":  {34, 30},
	},
}

//
var intervalIndex = map[int]codec.Index{
	1: {
		"block":    {0, IntervalSize},
		"kind":     {0, 1},
		"flags":    {1, 1},
		"target":   {2, 4},
		"duration": {6, 4},
		"distance": {10, 4},
		"spm":      {14, 1},
		"hr":       {15, 1},
		"resthr":   {16, 1},
		"reserved": {17, 15},
	},
}

//
func indexesFor(version int) (codec.Index, codec.Index, error) {
	h, ok := headerIndex[version]
	if !ok {
		return nil, nil, fmt.Errorf("unsupported layout version %d", version)
	}
	return h, intervalIndex[version], nil
}
