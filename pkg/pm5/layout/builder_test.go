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
	"testing"

	"github.com/rowperf/pm5drive/pkg/pm5/logbook"
)

// in-memory partition recording the offset of every write
type memPartition struct {
	data       []byte
	writeOffs  []int64
	writeCount int
}

func newMemPartition(size int64) *memPartition {
	return &memPartition{data: make([]byte, size)}
}

func (m *memPartition) ReadAt(off int64, length int) ([]byte, error) {
	if off < 0 || off+int64(length) > int64(len(m.data)) {
		return nil, fmt.Errorf("read out of bounds")
	}
	buf := make([]byte, length)
	copy(buf, m.data[off:])
	return buf, nil
}

func (m *memPartition) WriteAt(off int64, data []byte) error {
	if off < 0 || off+int64(len(data)) > int64(len(m.data)) {
		return fmt.Errorf("write out of bounds")
	}
	copy(m.data[off:], data)
	m.writeOffs = append(m.writeOffs, off)
	m.writeCount++
	return nil
}

func (m *memPartition) Size() int64 {
	return int64(len(m.data))
}

func TestInitialize(t *testing.T) {

	p := newMemPartition(MinPartitionSize)

	lay, err := Initialize(p, "flummi", 12, 1, false)
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if lay.Slots != SlotCount || lay.Firmware.Offset != FirmwareOffset {
		t.Errorf("layout: %+v", lay)
	}

	if done, err := IsInitialized(p); err != nil || !done {
		t.Fatalf("IsInitialized: %v, %v", done, err)
	}

	// ordering: the metadata marker is the very last write
	if last := p.writeOffs[len(p.writeOffs)-1]; last != MetadataOffset {
		t.Errorf("last write went to offset %d, not the metadata region", last)
	}

	meta, err := ReadMetadata(p)
	if err != nil {
		t.Fatalf("ReadMetadata: %v", err)
	}
	if meta.UserName != "flummi" || meta.UserID != 12 ||
		meta.Version != logbook.FormatVersion || meta.Revision != 1 {
		t.Errorf("metadata: %+v", meta)
	}

	// every slot empty
	for ix := 0; ix < SlotCount; ix++ {
		b, err := p.ReadAt(SlotTableOffset+int64(ix*logbook.SlotSize), 1)
		if err != nil {
			t.Fatal(err)
		}
		if b[0] != logbook.SlotEmpty {
			t.Fatalf("slot %d has status 0x%02x", ix, b[0])
		}
	}
}

func TestInitializeIdempotent(t *testing.T) {

	p := newMemPartition(MinPartitionSize)

	if _, err := Initialize(p, "erika", 1, 1, false); err != nil {
		t.Fatalf("first init: %v", err)
	}

	snapshot := make([]byte, len(p.data))
	copy(snapshot, p.data)
	writes := p.writeCount

	for ix := 0; ix < 2; ix++ {
		if _, err := Initialize(p, "erika", 1, 1, false); !errors.Is(
			err, ErrAlreadyInitialized) {
			t.Fatalf("re-init %d: %v", ix, err)
		}
	}

	if p.writeCount != writes {
		t.Errorf("re-init wrote %d times", p.writeCount-writes)
	}
	if !bytes.Equal(snapshot, p.data) {
		t.Error("re-init modified the partition")
	}
}

func TestInitializeForce(t *testing.T) {

	p := newMemPartition(MinPartitionSize)

	if _, err := Initialize(p, "erika", 1, 1, false); err != nil {
		t.Fatalf("first init: %v", err)
	}
	if _, err := Initialize(p, "paula", 2, 1, true); err != nil {
		t.Fatalf("forced init: %v", err)
	}

	meta, err := ReadMetadata(p)
	if err != nil {
		t.Fatalf("ReadMetadata: %v", err)
	}
	if meta.UserName != "paula" || meta.UserID != 2 {
		t.Errorf("metadata after force: %+v", meta)
	}
}

func TestInitializeRejects(t *testing.T) {

	if _, err := Initialize(newMemPartition(1024), "erika", 1, 1, false); err == nil {
		t.Error("undersized partition accepted")
	}

	p := newMemPartition(MinPartitionSize)
	if _, err := Initialize(p, "", 1, 1, false); err == nil {
		t.Error("empty user name accepted")
	}
	if _, err := Initialize(p, "toolong", 1, 1, false); err == nil {
		t.Error("overlong user name accepted")
	}
}

func TestReadMetadataUninitialized(t *testing.T) {
	p := newMemPartition(MinPartitionSize)
	if _, err := ReadMetadata(p); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("uninitialized: %v", err)
	}
}

func TestReadMetadataCorrupt(t *testing.T) {

	p := newMemPartition(MinPartitionSize)
	if _, err := Initialize(p, "erika", 1, 1, false); err != nil {
		t.Fatalf("init: %v", err)
	}

	p.data[20] ^= 0xff // inside the user name field

	if _, err := ReadMetadata(p); err == nil {
		t.Error("corrupt metadata accepted")
	}
}
