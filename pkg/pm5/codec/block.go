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
	"fmt"
	"strings"
)

/*
	Index describes a record layout as a set of named fields, each an
	offset/length pair. Layouts are data, not code: a new firmware
	revision that moves fields around gets a new Index, not new parsing
	logic.
*/
type Index map[string][2]int

// Extent returns the number of bytes the highest field of the index
// reaches into a record.
func (ix Index) Extent() int {
	ext := 0
	for _, f := range ix {
		if end := f[0] + f[1]; end > ext {
			ext = end
		}
	}
	return ext
}

// NewBlock wraps data for field based access via index. It fails with
// a Truncated error when data is shorter than the extent of the index.
func NewBlock(index Index, data []byte) (*Block, error) {
	if ext := index.Extent(); len(data) < ext {
		return nil, fmt.Errorf(
			"block needs %d bytes, have %d: %w", ext, len(data), ErrTruncated)
	}
	return &Block{index: index, Data: data}, nil
}

//
type Block struct {
	Data  []byte
	index Index
}

//
func (b *Block) field(name string) []byte {
	if f, ok := b.index[name]; ok {
		return b.Data[f[0] : f[0]+f[1]]
	}
	return nil
}

// GetByte returns the value of the named single byte field, 0 when the
// field is not in the index.
func (b *Block) GetByte(name string) byte {
	if f := b.field(name); len(f) > 0 {
		return f[0]
	}
	return 0
}

//
func (b *Block) SetByte(name string, v byte) error {
	f := b.field(name)
	if len(f) == 0 {
		return fmt.Errorf("no such field: %s", name)
	}
	f[0] = v
	return nil
}

// GetU16 reads the named field as a big endian u16.
func (b *Block) GetU16(name string) int {
	v, err := U16BE(b.field(name))
	if err != nil {
		return 0
	}
	return v
}

//
func (b *Block) SetU16(name string, v int) error {
	f := b.field(name)
	if len(f) < 2 {
		return fmt.Errorf("no u16 field: %s", name)
	}
	PutU16BE(f, v)
	return nil
}

// GetU32 reads the named field as a big endian u32.
func (b *Block) GetU32(name string) int64 {
	v, err := U32BE(b.field(name))
	if err != nil {
		return 0
	}
	return v
}

//
func (b *Block) SetU32(name string, v int64) error {
	f := b.field(name)
	if len(f) < 4 {
		return fmt.Errorf("no u32 field: %s", name)
	}
	PutU32BE(f, v)
	return nil
}

// GetString returns the named field as a string, with zero and space
// padding stripped.
func (b *Block) GetString(name string) string {
	return strings.TrimRight(string(b.field(name)), "\x00 ")
}

// SetString stores s zero padded in the named field; s must fit.
func (b *Block) SetString(name string, s string) error {
	f := b.field(name)
	if len(f) == 0 {
		return fmt.Errorf("no such field: %s", name)
	}
	if len(s) > len(f) {
		return fmt.Errorf("value %q too long for field %s (%d bytes)",
			s, name, len(f))
	}
	n := copy(f, s)
	for ; n < len(f); n++ {
		f[n] = 0
	}
	return nil
}

// GetSlice returns the raw bytes of the named field; the slice aliases
// the block data.
func (b *Block) GetSlice(name string) []byte {
	return b.field(name)
}

//
func (b *Block) SetSlice(name string, v []byte) error {
	f := b.field(name)
	if len(f) != len(v) {
		return fmt.Errorf("field %s is %d bytes, value has %d",
			name, len(f), len(v))
	}
	copy(f, v)
	return nil
}

// Sum computes the additive sum over the named field range.
func (b *Block) Sum(name string) int {
	sum := 0
	for _, c := range b.field(name) {
		sum += int(c)
	}
	return sum
}
