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

package pm5

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/rowperf/pm5drive/pkg/pm5/firmware"
	"github.com/rowperf/pm5drive/pkg/pm5/layout"
	"github.com/rowperf/pm5drive/pkg/pm5/logbook"
)

/*
	in-memory storage double; flipAt, when not negative, corrupts the
	byte at that offset as it is written, to provoke verify failures
*/
type memStorage struct {
	data   []byte
	writes int
	syncs  int
	closed bool
	flipAt int64
}

func newMemStorage() *memStorage {
	return &memStorage{
		data:   make([]byte, layout.MinPartitionSize),
		flipAt: -1,
	}
}

func (m *memStorage) ReadAt(off int64, length int) ([]byte, error) {
	if off < 0 || off+int64(length) > int64(len(m.data)) {
		return nil, fmt.Errorf("read out of bounds")
	}
	buf := make([]byte, length)
	copy(buf, m.data[off:])
	return buf, nil
}

func (m *memStorage) WriteAt(off int64, data []byte) error {
	if off < 0 || off+int64(len(data)) > int64(len(m.data)) {
		return fmt.Errorf("write out of bounds")
	}
	copy(m.data[off:], data)
	if m.flipAt >= off && m.flipAt < off+int64(len(data)) {
		m.data[m.flipAt] ^= 0xff
	}
	m.writes++
	return nil
}

func (m *memStorage) Size() int64 {
	return int64(len(m.data))
}

func (m *memStorage) Sync() error {
	m.syncs++
	return nil
}

func (m *memStorage) Close() error {
	m.closed = true
	return nil
}

//
func openTestSession(t *testing.T) (*Session, *memStorage) {
	t.Helper()
	store := newMemStorage()
	s, err := OpenStorage(store)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := s.Init("erika", 7, 2, false); err != nil {
		t.Fatalf("init: %v", err)
	}
	return s, store
}

//
func testEntry(id int) *logbook.Entry {
	return &logbook.Entry{
		ID:            id,
		Type:          logbook.SingleDistance,
		Serial:        299792458,
		StartTime:     time.Date(2026, 5, 4, 7, 30, 0, 0, time.UTC),
		UserID:        7,
		RecordID:      1,
		StrokeRate:    24,
		Calories:      180,
		TotalDuration: 1290 * time.Second,
		TotalDistance: 5000,
	}
}

func TestSessionLifecycle(t *testing.T) {

	store := newMemStorage()
	s, err := OpenStorage(store)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if s.State() != Opened {
		t.Errorf("state after open: %s", s.State())
	}

	// blank drive: no metadata, no scanning
	if _, err := s.Metadata(); !errors.Is(err, layout.ErrNotInitialized) {
		t.Errorf("metadata on blank drive: %v", err)
	}
	if _, err := s.Entries(); !errors.Is(err, layout.ErrNotInitialized) {
		t.Errorf("scan on blank drive: %v", err)
	}

	if _, err := s.Init("erika", 7, 2, false); err != nil {
		t.Fatalf("init: %v", err)
	}
	meta, err := s.Metadata()
	if err != nil {
		t.Fatalf("metadata: %v", err)
	}
	if meta.UserName != "erika" || meta.UserID != 7 || meta.Revision != 2 {
		t.Errorf("metadata: %+v", meta)
	}

	for ix := 0; ix < 2; ix++ {
		if err := s.Close(); err != nil {
			t.Fatalf("close %d: %v", ix, err)
		}
	}
	if !store.closed {
		t.Error("storage not released")
	}
	if _, err := s.Entry(0); err == nil {
		t.Error("operation on closed session accepted")
	}
}

func TestWriteEntryRoundTrip(t *testing.T) {

	s, _ := openTestSession(t)
	defer s.Close()

	want := testEntry(3)
	if err := s.WriteEntry(3, want); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := s.Entry(3)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !reflect.DeepEqual(want, got) {
		t.Errorf("round trip:\nwant: %+v\ngot:  %+v", want, got)
	}
}

func TestEntryRejects(t *testing.T) {

	s, _ := openTestSession(t)
	defer s.Close()

	if _, err := s.Entry(0); err == nil {
		t.Error("empty slot yielded an entry")
	}
	if _, err := s.Entry(-1); err == nil {
		t.Error("negative slot accepted")
	}
	if _, err := s.Entry(s.Layout().Slots); err == nil {
		t.Error("slot beyond table accepted")
	}
}

func TestScan(t *testing.T) {

	s, store := openTestSession(t)
	defer s.Close()

	for _, id := range []int{1, 4, 10} {
		if err := s.WriteEntry(id, testEntry(id)); err != nil {
			t.Fatalf("write %d: %v", id, err)
		}
	}

	// slot 2: all-zero bytes, not even a status marker
	store.data[layout.SlotTableOffset+2*logbook.SlotSize] = 0x00
	// slot 6: used marker over garbage
	store.data[layout.SlotTableOffset+6*logbook.SlotSize] = logbook.SlotUsed
	// slot 20: end marker; slot 30 must stay invisible behind it
	store.data[layout.SlotTableOffset+20*logbook.SlotSize] = logbook.SlotEnd
	if err := s.WriteEntry(30, testEntry(30)); err != nil {
		t.Fatalf("write 30: %v", err)
	}

	sc, err := s.Entries()
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if s.State() != Scanning {
		t.Errorf("state during scan: %s", s.State())
	}

	count := func() (entries []int, corrupt []int) {
		for sc.Next() {
			if e := sc.Entry(); e != nil {
				entries = append(entries, e.ID)
			}
			if c := sc.Corrupt(); c != nil {
				corrupt = append(corrupt, c.ID)
			}
		}
		return entries, corrupt
	}

	entries, corrupt := count()
	if sc.Err() != nil {
		t.Fatalf("scan error: %v", sc.Err())
	}
	if want := []int{1, 4, 10}; !reflect.DeepEqual(entries, want) {
		t.Errorf("entries: %v", entries)
	}
	if want := []int{2, 6}; !reflect.DeepEqual(corrupt, want) {
		t.Errorf("corrupt: %v", corrupt)
	}
	if s.State() != Opened {
		t.Errorf("state after scan: %s", s.State())
	}

	// exhausted scanners stay exhausted until reset
	if sc.Next() {
		t.Error("exhausted scanner advanced")
	}
	sc.Reset()
	if entries, _ = count(); len(entries) != 3 {
		t.Errorf("entries after reset: %v", entries)
	}
}

func TestScanBlocksOtherOperations(t *testing.T) {

	s, _ := openTestSession(t)
	defer s.Close()

	sc, err := s.Entries()
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if _, err := s.Entries(); err == nil {
		t.Error("second concurrent scan accepted")
	}
	if err := s.WriteEntry(0, testEntry(0)); err == nil {
		t.Error("write during scan accepted")
	}

	for sc.Next() {
	}
	if err := s.WriteEntry(0, testEntry(0)); err != nil {
		t.Errorf("write after scan: %v", err)
	}
}

func TestFlash(t *testing.T) {

	s, store := openTestSession(t)
	defer s.Close()

	payload := make([]byte, 2048)
	for ix := range payload {
		payload[ix] = byte(ix)
	}
	img, err := firmware.Build("ver 707.1", 2, payload)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if err := s.Flash(img); err != nil {
		t.Fatalf("flash: %v", err)
	}
	if s.State() != Opened {
		t.Errorf("state after flash: %s", s.State())
	}

	slot := store.data[layout.FirmwareOffset : layout.FirmwareOffset+img.Size()]
	if !bytes.Equal(slot, img.Bytes()) {
		t.Error("firmware slot differs from image")
	}
}

func TestFlashIncompatible(t *testing.T) {

	s, store := openTestSession(t)
	defer s.Close()

	img, err := firmware.Build("ver 707.1", 9, []byte{1, 2, 3})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	writes := store.writes
	err = s.Flash(img)

	var fe *FlashError
	if !errors.As(err, &fe) || fe.Phase != PhaseCompatibility {
		t.Fatalf("flash: %v", err)
	}
	if !errors.Is(err, firmware.ErrIncompatible) {
		t.Errorf("cause not preserved: %v", err)
	}
	if store.writes != writes {
		t.Errorf("rejected flash wrote %d times", store.writes-writes)
	}
}

func TestFlashVerifyFailure(t *testing.T) {

	s, store := openTestSession(t)
	defer s.Close()

	img, err := firmware.Build("ver 707.1", 2, []byte{1, 2, 3, 4})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	store.flipAt = layout.FirmwareOffset + firmware.HeaderSize + 2
	err = s.Flash(img)

	var fe *FlashError
	if !errors.As(err, &fe) || fe.Phase != PhaseVerify {
		t.Fatalf("flash: %v", err)
	}
	if fe.Offset != store.flipAt {
		t.Errorf("offset: %d", fe.Offset)
	}
	if fe.Want != 3 || fe.Got != 3^0xff {
		t.Errorf("diagnostics: want 0x%02x, got 0x%02x", fe.Want, fe.Got)
	}
}

func TestFlashNoImage(t *testing.T) {

	s, _ := openTestSession(t)
	defer s.Close()

	var fe *FlashError
	if err := s.Flash(nil); !errors.As(err, &fe) || fe.Phase != PhaseValidate {
		t.Errorf("nil image: %v", err)
	}
}
