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

/*
	DecodeEntry decodes one slot of the log table. data must be at
	least a full slot. All failures come back as errors wrapping one of
	the codec format errors; callers scanning a whole table turn them
	into CorruptEntry reports and keep going, callers decoding a single
	requested entry surface them.

	The declared length must equal header size plus interval count
	times interval size, and the stored checksum must match the one
	recomputed over the covered range. Neither is ever corrected
	silently.
*/
func DecodeEntry(id int, data []byte) (*Entry, error) {

	if len(data) < SlotSize {
		return nil, fmt.Errorf(
			"slot needs %d bytes, have %d: %w", SlotSize, len(data),
			codec.ErrTruncated)
	}

	hix, iix, err := indexesFor(FormatVersion)
	if err != nil {
		return nil, err
	}

	h, err := codec.NewBlock(hix, data[:HeaderSize])
	if err != nil {
		return nil, err
	}

	if s := h.GetByte("status"); s != SlotUsed {
		return nil, fmt.Errorf("unexpected slot status 0x%02x", s)
	}

	wt, err := ParseWorkoutType(h.GetByte("type"))
	if err != nil {
		return nil, err
	}

	count := h.GetU16("count")
	length := h.GetU16("length")

	if count > MaxIntervals {
		return nil, fmt.Errorf("interval count %d exceeds maximum %d: %w",
			count, MaxIntervals, codec.ErrLengthMismatch)
	}
	if want := HeaderSize + count*IntervalSize; length != want {
		return nil, fmt.Errorf(
			"declared length %d, but %d intervals require %d: %w",
			length, count, want, codec.ErrLengthMismatch)
	}

	if want, got := h.GetU16("checksum"), entryChecksum(data[:length]); want != got {
		return nil, fmt.Errorf("checksum mismatch, want %d, got %d: %w",
			want, got, codec.ErrChecksumMismatch)
	}

	e := &Entry{
		ID:            id,
		Type:          wt,
		Serial:        h.GetU32("serial"),
		StartTime:     codec.DecodeTimestamp(h.GetU32("timestamp")),
		UserID:        h.GetU16("user"),
		RecordID:      h.GetByte("record"),
		StrokeRate:    int(h.GetByte("spm")),
		Calories:      h.GetU16("calories"),
		TotalDuration: duration(h.GetU32("duration")),
		TotalDistance: int(h.GetU32("distance")),
		TotalRest:     duration(h.GetU32("rest")),
	}

	for ix := 0; ix < count; ix++ {
		off := HeaderSize + ix*IntervalSize
		b, err := codec.NewBlock(iix, data[off:off+IntervalSize])
		if err != nil {
			return nil, err
		}
		e.Intervals = append(e.Intervals, decodeInterval(b))
	}

	return e, nil
}

/*
	EncodeEntry is the inverse of DecodeEntry. It always recomputes the
	length and checksum fields from the entry itself; values a caller
	may have tampered into a hand-built entry are irrelevant, these two
	fields cannot be set from outside.
*/
func EncodeEntry(e *Entry) ([]byte, error) {

	if len(e.Intervals) > MaxIntervals {
		return nil, fmt.Errorf("entry has %d intervals, slot holds %d",
			len(e.Intervals), MaxIntervals)
	}

	hix, iix, err := indexesFor(FormatVersion)
	if err != nil {
		return nil, err
	}

	data := make([]byte, SlotSize)

	h, err := codec.NewBlock(hix, data[:HeaderSize])
	if err != nil {
		return nil, err
	}

	h.SetByte("status", SlotUsed)
	h.SetByte("type", byte(e.Type))
	h.SetU16("length", HeaderSize+len(e.Intervals)*IntervalSize)
	h.SetU16("count", len(e.Intervals))
	h.SetU32("serial", e.Serial)
	h.SetU32("timestamp", codec.EncodeTimestamp(e.StartTime))
	h.SetU16("user", e.UserID)
	h.SetByte("record", e.RecordID)
	h.SetByte("spm", byte(e.StrokeRate))
	h.SetU32("duration", tenths(e.TotalDuration))
	h.SetU32("distance", int64(e.TotalDistance))
	h.SetU16("calories", e.Calories)
	h.SetU32("rest", tenths(e.TotalRest))

	for ix, iv := range e.Intervals {
		off := HeaderSize + ix*IntervalSize
		b, err := codec.NewBlock(iix, data[off:off+IntervalSize])
		if err != nil {
			return nil, err
		}
		if err := iv.encode(b); err != nil {
			return nil, fmt.Errorf("cannot encode interval %d: %v", ix, err)
		}
	}

	length := HeaderSize + len(e.Intervals)*IntervalSize
	h.SetU16("checksum", entryChecksum(data[:length]))

	return data, nil
}

// entryChecksum computes the additive sum over the covered range of a
// record, i.e. everything up to the declared length except the
// checksum field itself.
func entryChecksum(data []byte) int {
	return codec.Checksum16(data[:6], data[8:])
}
