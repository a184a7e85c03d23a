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

package layout

import (
	"github.com/rowperf/pm5drive/pkg/pm5/codec"
	"github.com/rowperf/pm5drive/pkg/pm5/logbook"
)

/*
	All region offsets are format constants relative to the partition
	origin. The monitor expects them exactly here; nothing is computed
	at runtime. Once a drive is initialized only the contents of the
	regions change, never their bounds.
*/
const (
	MetadataOffset = 0
	MetadataSize   = 512

	SlotTableOffset = 0x1000
	SlotCount       = 128

	FirmwareOffset   = SlotTableOffset + SlotCount*logbook.SlotSize
	FirmwareSlotSize = 1 << 20

	MinPartitionSize = FirmwareOffset + FirmwareSlotSize
)

// drive recognition marker at the start of the metadata region
var Marker = []byte("C2PM5LOG")

//
var metadataIndex = codec.Index{
	"marker":   {0, 8},
	"version":  {8, 1},
	"revision": {9, 2},
	"usertag":  {16, 2},
	"name":     {18, 6},
	"userid":   {42, 2},
	"checksum": {62, 2},
}

//
type Region struct {
	Offset int64
	Size   int64
}

//
func (r Region) Contains(off int64, length int) bool {
	return off >= r.Offset && off+int64(length) <= r.Offset+r.Size
}

//
type DriveLayout struct {
	Version   int
	Metadata  Region
	SlotTable Region
	Firmware  Region
	Slots     int
	SlotSize  int
}

// Current returns the layout the current format version defines.
func Current() *DriveLayout {
	return &DriveLayout{
		Version:   logbook.FormatVersion,
		Metadata:  Region{MetadataOffset, MetadataSize},
		SlotTable: Region{SlotTableOffset, SlotCount * logbook.SlotSize},
		Firmware:  Region{FirmwareOffset, FirmwareSlotSize},
		Slots:     SlotCount,
		SlotSize:  logbook.SlotSize,
	}
}

// SlotRegion returns the region of one slot of the log table.
func (l *DriveLayout) SlotRegion(ix int) Region {
	return Region{
		Offset: l.SlotTable.Offset + int64(ix*l.SlotSize),
		Size:   int64(l.SlotSize),
	}
}
