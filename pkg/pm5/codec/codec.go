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

package codec

import (
	"errors"
	"fmt"
	"time"
)

// format errors; scanning code branches on these with errors.Is
var (
	ErrTruncated        = errors.New("truncated")
	ErrLengthMismatch   = errors.New("length mismatch")
	ErrChecksumMismatch = errors.New("checksum mismatch")
)

//
func U16BE(b []byte) (int, error) {
	if len(b) < 2 {
		return -1, fmt.Errorf("u16 needs 2 bytes, have %d: %w",
			len(b), ErrTruncated)
	}
	return (int(b[0]) << 8) + int(b[1]), nil
}

//
func U16LE(b []byte) (int, error) {
	if len(b) < 2 {
		return -1, fmt.Errorf("u16 needs 2 bytes, have %d: %w",
			len(b), ErrTruncated)
	}
	return int(b[0]) + (int(b[1]) << 8), nil
}

//
func U32BE(b []byte) (int64, error) {
	if len(b) < 4 {
		return -1, fmt.Errorf("u32 needs 4 bytes, have %d: %w",
			len(b), ErrTruncated)
	}
	return (int64(b[0]) << 24) + (int64(b[1]) << 16) +
		(int64(b[2]) << 8) + int64(b[3]), nil
}

//
func U32LE(b []byte) (int64, error) {
	if len(b) < 4 {
		return -1, fmt.Errorf("u32 needs 4 bytes, have %d: %w",
			len(b), ErrTruncated)
	}
	return int64(b[0]) + (int64(b[1]) << 8) +
		(int64(b[2]) << 16) + (int64(b[3]) << 24), nil
}

//
func PutU16BE(b []byte, v int) {
	b[0] = byte(v >> 8)
	b[1] = byte(v)
}

//
func PutU16LE(b []byte, v int) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
}

//
func PutU32BE(b []byte, v int64) {
	b[0] = byte(v >> 24)
	b[1] = byte(v >> 16)
	b[2] = byte(v >> 8)
	b[3] = byte(v)
}

//
func PutU32LE(b []byte, v int64) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

/*
	The monitor packs timestamps into a u32 relative to the year 2000:

		bits 31-25	year - 2000
		     24-20	day of month
		     19-16	month
		     15-8	hour
		      6-0	minute

	Seconds are not stored. DecodeTimestamp never fails; out of range
	bit fields simply yield a nonsense time that higher layers reject.
*/
func DecodeTimestamp(ts int64) time.Time {
	year := 2000 + int((ts>>25)&0x7f)
	day := int((ts >> 20) & 0x1f)
	month := time.Month((ts >> 16) & 0x0f)
	hour := int((ts >> 8) & 0xff)
	minute := int(ts & 0x7f)
	return time.Date(year, month, day, hour, minute, 0, 0, time.UTC)
}

//
func EncodeTimestamp(t time.Time) int64 {
	t = t.UTC()
	return (int64(t.Year()-2000) << 25) |
		(int64(t.Day()) << 20) |
		(int64(t.Month()) << 16) |
		(int64(t.Hour()) << 8) |
		int64(t.Minute())
}

// Checksum16 is the additive 16 bit checksum used throughout the log
// format, computed over the concatenation of the given ranges.
func Checksum16(ranges ...[]byte) int {
	sum := 0
	for _, r := range ranges {
		for _, b := range r {
			sum += int(b)
		}
	}
	return sum & 0xffff
}

// Checksum32 is the additive 32 bit checksum used for firmware payloads.
func Checksum32(b []byte) int64 {
	var sum int64
	for _, c := range b {
		sum += int64(c)
	}
	return sum & 0xffffffff
}
