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
	"bytes"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/rowperf/pm5drive/pkg/pm5/codec"
	"github.com/rowperf/pm5drive/pkg/pm5/logbook"
)

//
var (
	ErrAlreadyInitialized = errors.New("drive already initialized")
	ErrNotInitialized     = errors.New("drive not initialized")
)

// user identity as stored in the metadata region
type Metadata struct {
	Version  int
	Revision int
	UserName string
	UserID   int
}

// IsInitialized checks for the recognition marker.
func IsInitialized(p Partition) (bool, error) {
	m, err := p.ReadAt(MetadataOffset, len(Marker))
	if err != nil {
		return false, err
	}
	return bytes.Equal(m, Marker), nil
}

// Partition is the slice of the storage contract this package needs.
type Partition interface {
	ReadAt(off int64, length int) ([]byte, error)
	WriteAt(off int64, data []byte) error
	Size() int64
}

/*
	Initialize writes the region skeleton the monitor requires onto an
	empty, already formatted partition. The regions are written in a
	fixed order with the metadata marker last: a crash at any earlier
	point leaves the partition without a marker, i.e. in the same "not
	yet initialized" state as before, never half valid.
*/
func Initialize(p Partition, user string, userID int, revision int,
	force bool) (*DriveLayout, error) {

	if p.Size() < MinPartitionSize {
		return nil, fmt.Errorf("partition size %d below required %d",
			p.Size(), MinPartitionSize)
	}

	if len(user) < 1 || len(user) > 6 {
		return nil, fmt.Errorf("user name must be 1-6 characters: %q", user)
	}

	if done, err := IsInitialized(p); err != nil {
		return nil, err
	} else if done && !force {
		return nil, fmt.Errorf("marker present: %w", ErrAlreadyInitialized)
	}

	log.WithFields(log.Fields{
		"user":  user,
		"force": force}).Info("initializing drive")

	// slot table first, all slots empty
	slot := make([]byte, logbook.SlotSize)
	slot[0] = logbook.SlotEmpty
	for ix := 0; ix < SlotCount; ix++ {
		if err := p.WriteAt(SlotTableOffset+int64(ix*logbook.SlotSize),
			slot); err != nil {
			return nil, err
		}
	}

	// clear the firmware slot in chunks
	chunk := make([]byte, 1<<16)
	for off := int64(0); off < FirmwareSlotSize; off += int64(len(chunk)) {
		if err := p.WriteAt(FirmwareOffset+off, chunk); err != nil {
			return nil, err
		}
	}

	// metadata last
	md, err := encodeMetadata(&Metadata{
		Version:  logbook.FormatVersion,
		Revision: revision,
		UserName: user,
		UserID:   userID,
	})
	if err != nil {
		return nil, err
	}
	if err := p.WriteAt(MetadataOffset, md); err != nil {
		return nil, err
	}

	log.Info("drive initialized")
	return Current(), nil
}

//
func encodeMetadata(m *Metadata) ([]byte, error) {

	data := make([]byte, MetadataSize)
	b, err := codec.NewBlock(metadataIndex, data)
	if err != nil {
		return nil, err
	}

	b.SetSlice("marker", Marker)
	b.SetByte("version", byte(m.Version))
	b.SetU16("revision", m.Revision)
	b.SetSlice("usertag", []byte{0x91, 0x00})
	if err := b.SetString("name", m.UserName); err != nil {
		return nil, err
	}
	b.SetU16("userid", m.UserID)
	b.SetU16("checksum", codec.Checksum16(data[:62]))

	return data, nil
}

// ReadMetadata reads and validates the metadata region.
func ReadMetadata(p Partition) (*Metadata, error) {

	data, err := p.ReadAt(MetadataOffset, MetadataSize)
	if err != nil {
		return nil, err
	}

	b, err := codec.NewBlock(metadataIndex, data)
	if err != nil {
		return nil, err
	}

	if !bytes.Equal(b.GetSlice("marker"), Marker) {
		return nil, fmt.Errorf("no recognition marker: %w", ErrNotInitialized)
	}

	if want, got := b.GetU16("checksum"), codec.Checksum16(data[:62]); want != got {
		return nil, fmt.Errorf("metadata checksum mismatch, want %d, got %d: %w",
			want, got, codec.ErrChecksumMismatch)
	}

	return &Metadata{
		Version:  int(b.GetByte("version")),
		Revision: b.GetU16("revision"),
		UserName: b.GetString("name"),
		UserID:   b.GetU16("userid"),
	}, nil
}
