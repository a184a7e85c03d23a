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

	log "github.com/sirupsen/logrus"

	"github.com/rowperf/pm5drive/pkg/pm5/layout"
	"github.com/rowperf/pm5drive/pkg/pm5/logbook"
	"github.com/rowperf/pm5drive/pkg/pm5/storage"
)

//
type State int

//
const (
	Closed State = iota
	Opened
	Scanning
	Initializing
	Flashing
)

//
func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Opened:
		return "opened"
	case Scanning:
		return "scanning"
	case Initializing:
		return "initializing"
	case Flashing:
		return "flashing"
	}
	return "invalid"
}

/*
	Session owns one open storage handle for its lifetime and runs all
	drive operations against it, synchronously and one at a time. The
	caller lends the storage to the session and gets it released on
	Close, on every path. Sessions keep no state across operations
	beyond the drive layout and metadata read at open.
*/
type Session struct {
	part  *storage.Partition
	lay   *layout.DriveLayout
	meta  *layout.Metadata
	state State
}

// Open opens a session on the device or image file at path.
func Open(path string, writable bool) (*Session, error) {
	dev, err := storage.OpenDevice(path, writable)
	if err != nil {
		return nil, err
	}
	s, err := OpenStorage(dev)
	if err != nil {
		dev.Close()
		return nil, err
	}
	return s, nil
}

// OpenStorage opens a session on an already opened storage handle,
// treating it as one raw partition. The session takes ownership; the
// handle is closed when the session closes, also when this open fails.
func OpenStorage(store storage.Storage) (*Session, error) {

	s := &Session{
		part:  storage.WholePartition(store),
		lay:   layout.Current(),
		state: Opened,
	}

	meta, err := layout.ReadMetadata(s.part)
	switch {
	case err == nil:
		s.meta = meta
		log.WithFields(log.Fields{
			"user":     meta.UserName,
			"revision": meta.Revision,
			"version":  meta.Version}).Debug("drive recognized")
	case errors.Is(err, layout.ErrNotInitialized):
		log.Debug("no recognition marker, drive not initialized")
	default:
		store.Close()
		return nil, err
	}

	return s, nil
}

// Close releases the storage handle. It is safe to call more than
// once and on any session state.
func (s *Session) Close() error {
	if s.state == Closed {
		return nil
	}
	s.state = Closed
	if err := s.part.Sync(); err != nil {
		s.part.Close()
		return err
	}
	return s.part.Close()
}

//
func (s *Session) State() State {
	return s.state
}

//
func (s *Session) Layout() *layout.DriveLayout {
	return s.lay
}

//
func (s *Session) Metadata() (*layout.Metadata, error) {
	if s.meta == nil {
		return nil, layout.ErrNotInitialized
	}
	return s.meta, nil
}

//
func (s *Session) require(state State) error {
	if s.state != state {
		return fmt.Errorf("session is %s, operation needs %s", s.state, state)
	}
	return nil
}

// Init writes the drive skeleton. Without force it refuses to touch a
// drive that already carries the recognition marker.
func (s *Session) Init(user string, userID, revision int,
	force bool) (*layout.DriveLayout, error) {

	if err := s.require(Opened); err != nil {
		return nil, err
	}
	s.state = Initializing
	defer func() { s.state = Opened }()

	lay, err := layout.Initialize(s.part, user, userID, revision, force)
	if err != nil {
		return nil, err
	}
	if err := s.part.Sync(); err != nil {
		return nil, err
	}

	if s.meta, err = layout.ReadMetadata(s.part); err != nil {
		return nil, err
	}

	s.lay = lay
	return lay, nil
}

// Entry decodes the entry in one specific slot. Unlike a scan, any
// decode failure is surfaced as an error here.
func (s *Session) Entry(id int) (*logbook.Entry, error) {

	if err := s.require(Opened); err != nil {
		return nil, err
	}
	if s.meta == nil {
		return nil, layout.ErrNotInitialized
	}
	if id < 0 || id >= s.lay.Slots {
		return nil, fmt.Errorf("slot %d outside table of %d slots",
			id, s.lay.Slots)
	}

	r := s.lay.SlotRegion(id)
	data, err := s.part.ReadAt(r.Offset, int(r.Size))
	if err != nil {
		return nil, err
	}

	if data[0] == logbook.SlotEmpty || data[0] == logbook.SlotEnd {
		return nil, fmt.Errorf("slot %d holds no entry", id)
	}

	return logbook.DecodeEntry(id, data)
}

/*
	WriteEntry encodes e into the given slot, then reads the slot back
	and re-decodes it, confirming a full round trip before reporting
	success. Write errors are never retried; a failed write leaves the
	slot in whatever state the medium put it in, which the error
	reports.
*/
func (s *Session) WriteEntry(id int, e *logbook.Entry) error {

	if err := s.require(Opened); err != nil {
		return err
	}
	if s.meta == nil {
		return layout.ErrNotInitialized
	}
	if id < 0 || id >= s.lay.Slots {
		return fmt.Errorf("slot %d outside table of %d slots", id, s.lay.Slots)
	}

	data, err := logbook.EncodeEntry(e)
	if err != nil {
		return err
	}

	r := s.lay.SlotRegion(id)
	if err := s.part.WriteAt(r.Offset, data); err != nil {
		return fmt.Errorf("write to slot %d failed, slot state unknown: %w",
			id, err)
	}
	if err := s.part.Sync(); err != nil {
		return err
	}

	back, err := s.part.ReadAt(r.Offset, int(r.Size))
	if err != nil {
		return fmt.Errorf("read back of slot %d failed: %w", id, err)
	}
	if !bytes.Equal(data, back) {
		return fmt.Errorf("slot %d read back differs from written data", id)
	}
	if _, err := logbook.DecodeEntry(id, back); err != nil {
		return fmt.Errorf("slot %d does not decode after write: %w", id, err)
	}

	log.WithFields(log.Fields{
		"slot": id,
		"type": e.Type.String()}).Info("entry written")
	return nil
}
