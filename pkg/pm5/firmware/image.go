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

package firmware

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/rowperf/pm5drive/pkg/pm5/codec"
)

//
const HeaderSize = 64

//
var (
	magic           = []byte("C2FW")
	ErrIncompatible = errors.New("incompatible firmware image")
)

//
var headerIndex = codec.Index{
	"magic":    {0, 4},
	"revision": {4, 2},
	"major":    {6, 1},
	"minor":    {7, 1},
	"length":   {8, 4},
	"checksum": {12, 4},
	"version":  {16, 16},
	"reserved": {32, 32},
}

/*
	Image is a firmware image whose header, payload length and checksum
	have all been proven at construction. There is no way to obtain an
	Image value of unknown validity: Load and Build are the only
	constructors, and both refuse to return on any mismatch.
*/
type Image struct {
	revision int
	version  string
	payload  []byte
	checksum int64
	raw      []byte
}

// Load parses and validates raw image bytes as read from an image
// file. It never writes anywhere; it only proves the candidate.
func Load(data []byte) (*Image, error) {

	if len(data) < HeaderSize {
		return nil, fmt.Errorf(
			"firmware header needs %d bytes, have %d: %w",
			HeaderSize, len(data), codec.ErrTruncated)
	}

	h, err := codec.NewBlock(headerIndex, data[:HeaderSize])
	if err != nil {
		return nil, err
	}

	if !bytes.Equal(h.GetSlice("magic"), magic) {
		return nil, fmt.Errorf("not a firmware image, magic is % x",
			h.GetSlice("magic"))
	}

	length := h.GetU32("length")
	if int64(len(data)-HeaderSize) != length {
		return nil, fmt.Errorf(
			"header declares %d payload bytes, image carries %d: %w",
			length, len(data)-HeaderSize, codec.ErrLengthMismatch)
	}

	payload := data[HeaderSize:]
	if want, got := h.GetU32("checksum"), codec.Checksum32(payload); want != got {
		return nil, fmt.Errorf(
			"payload checksum mismatch, want %d, got %d: %w",
			want, got, codec.ErrChecksumMismatch)
	}

	raw := make([]byte, len(data))
	copy(raw, data)

	return &Image{
		revision: h.GetU16("revision"),
		version:  h.GetString("version"),
		payload:  raw[HeaderSize:],
		checksum: h.GetU32("checksum"),
		raw:      raw,
	}, nil
}

// Build assembles a valid image from scratch, filling in length and
// checksum. Mainly useful for preparing replacement drives and tests.
func Build(version string, revision int, payload []byte) (*Image, error) {

	data := make([]byte, HeaderSize+len(payload))
	h, err := codec.NewBlock(headerIndex, data[:HeaderSize])
	if err != nil {
		return nil, err
	}

	h.SetSlice("magic", magic)
	h.SetU16("revision", revision)
	if err := h.SetString("version", version); err != nil {
		return nil, err
	}
	h.SetU32("length", int64(len(payload)))
	h.SetU32("checksum", codec.Checksum32(payload))
	copy(data[HeaderSize:], payload)

	return Load(data)
}

//
func (i *Image) Version() string {
	return i.version
}

//
func (i *Image) Revision() int {
	return i.revision
}

//
func (i *Image) Checksum() int64 {
	return i.checksum
}

//
func (i *Image) Payload() []byte {
	return i.payload
}

// Bytes is the exact byte sequence to be written into the firmware
// slot, header included. The write path must use it unmodified.
func (i *Image) Bytes() []byte {
	return i.raw
}

//
func (i *Image) Size() int64 {
	return int64(len(i.raw))
}

// VerifyCompatible rejects a cross revision flash attempt.
func (i *Image) VerifyCompatible(deviceRevision int) error {
	if i.revision != deviceRevision {
		return fmt.Errorf(
			"image %s targets hardware revision %d, device is revision %d: %w",
			i.version, i.revision, deviceRevision, ErrIncompatible)
	}
	return nil
}
