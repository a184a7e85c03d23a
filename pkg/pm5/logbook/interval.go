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
	"time"

	"github.com/rowperf/pm5drive/pkg/pm5/codec"
)

//
type IntervalKind byte

//
const (
	KindTime     IntervalKind = 0x01
	KindDistance IntervalKind = 0x02
	KindRest     IntervalKind = 0x03
)

//
func (k IntervalKind) String() string {
	switch k {
	case KindTime:
		return "time"
	case KindDistance:
		return "distance"
	case KindRest:
		return "rest"
	}
	return "raw"
}

/*
	Interval is one sub-segment of a workout. Each kind has its own
	interpretation of the on-disk fields, so the kinds are distinct
	types rather than one struct with a tag: an unrecognized kind can
	then only ever decode to RawInterval, never be mistaken for a known
	one.
*/
type Interval interface {

	//
	Kind() IntervalKind

	// encode writes the interval into an interval sized block
	encode(b *codec.Block) error
}

// TimeSpan is a time based interval: row for Target, rest follows.
type TimeSpan struct {
	Target        time.Duration `json:"target"`
	Work          time.Duration `json:"work"`
	Distance      int           `json:"distance"`
	StrokeRate    int           `json:"stroke_rate"`
	HeartRate     int           `json:"heart_rate"`
	RestHeartRate int           `json:"rest_heart_rate"`
}

//
func (i *TimeSpan) Kind() IntervalKind { return KindTime }

//
func (i *TimeSpan) encode(b *codec.Block) error {
	b.SetByte("kind", byte(KindTime))
	b.SetU32("target", tenths(i.Target))
	b.SetU32("duration", tenths(i.Work))
	b.SetU32("distance", int64(i.Distance))
	b.SetByte("spm", byte(i.StrokeRate))
	b.SetByte("hr", byte(i.HeartRate))
	return b.SetByte("resthr", byte(i.RestHeartRate))
}

// DistanceSpan is a distance based interval: row Target metres.
type DistanceSpan struct {
	Target        int           `json:"target"`
	Work          time.Duration `json:"work"`
	Distance      int           `json:"distance"`
	StrokeRate    int           `json:"stroke_rate"`
	HeartRate     int           `json:"heart_rate"`
	RestHeartRate int           `json:"rest_heart_rate"`
}

//
func (i *DistanceSpan) Kind() IntervalKind { return KindDistance }

//
func (i *DistanceSpan) encode(b *codec.Block) error {
	b.SetByte("kind", byte(KindDistance))
	b.SetU32("target", int64(i.Target))
	b.SetU32("duration", tenths(i.Work))
	b.SetU32("distance", int64(i.Distance))
	b.SetByte("spm", byte(i.StrokeRate))
	b.SetByte("hr", byte(i.HeartRate))
	return b.SetByte("resthr", byte(i.RestHeartRate))
}

// RestSpan is a rest interval. The distance field is meaningless for
// rest and always encodes as zero.
type RestSpan struct {
	Target    time.Duration `json:"target"`
	Duration  time.Duration `json:"duration"`
	HeartRate int           `json:"heart_rate"`
}

//
func (i *RestSpan) Kind() IntervalKind { return KindRest }

//
func (i *RestSpan) encode(b *codec.Block) error {
	b.SetByte("kind", byte(KindRest))
	b.SetU32("target", tenths(i.Target))
	b.SetU32("duration", tenths(i.Duration))
	b.SetU32("distance", 0)
	return b.SetByte("resthr", byte(i.HeartRate))
}

// RawSpan preserves an interval block with an unrecognized kind tag
// byte for byte, so decoding foreign data never loses it.
type RawSpan struct {
	Tag  byte   `json:"tag"`
	Data []byte `json:"data"`
}

//
func (i *RawSpan) Kind() IntervalKind { return IntervalKind(i.Tag) }

//
func (i *RawSpan) encode(b *codec.Block) error {
	if err := b.SetSlice("block", i.Data); err != nil {
		return err
	}
	return b.SetByte("kind", i.Tag)
}

// decodeInterval never fails; an unknown kind yields a RawSpan.
func decodeInterval(b *codec.Block) Interval {

	switch IntervalKind(b.GetByte("kind")) {

	case KindTime:
		return &TimeSpan{
			Target:        duration(b.GetU32("target")),
			Work:          duration(b.GetU32("duration")),
			Distance:      int(b.GetU32("distance")),
			StrokeRate:    int(b.GetByte("spm")),
			HeartRate:     int(b.GetByte("hr")),
			RestHeartRate: int(b.GetByte("resthr")),
		}

	case KindDistance:
		return &DistanceSpan{
			Target:        int(b.GetU32("target")),
			Work:          duration(b.GetU32("duration")),
			Distance:      int(b.GetU32("distance")),
			StrokeRate:    int(b.GetByte("spm")),
			HeartRate:     int(b.GetByte("hr")),
			RestHeartRate: int(b.GetByte("resthr")),
		}

	case KindRest:
		return &RestSpan{
			Target:    duration(b.GetU32("target")),
			Duration:  duration(b.GetU32("duration")),
			HeartRate: int(b.GetByte("resthr")),
		}
	}

	raw := make([]byte, len(b.GetSlice("block")))
	copy(raw, b.GetSlice("block"))
	return &RawSpan{Tag: b.GetByte("kind"), Data: raw}
}

// durations are stored in tenths of a second
func tenths(d time.Duration) int64 {
	return int64(d / (100 * time.Millisecond))
}

//
func duration(t int64) time.Duration {
	return time.Duration(t) * 100 * time.Millisecond
}
