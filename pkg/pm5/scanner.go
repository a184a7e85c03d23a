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
	log "github.com/sirupsen/logrus"

	"github.com/rowperf/pm5drive/pkg/pm5/layout"
	"github.com/rowperf/pm5drive/pkg/pm5/logbook"
)

/*
	Entries starts a scan of the log table. The scanner walks the slot
	table lazily, one bounded read per slot, and yields each used slot
	either as a decoded entry or as a corrupt entry report; a slot that
	fails to decode never aborts the scan. Only an I/O error ends the
	scan early, via Err.
*/
func (s *Session) Entries() (*Scanner, error) {

	if err := s.require(Opened); err != nil {
		return nil, err
	}
	if s.meta == nil {
		return nil, layout.ErrNotInitialized
	}

	s.state = Scanning
	return &Scanner{session: s}, nil
}

//
type Scanner struct {
	session *Session
	ix      int
	entry   *logbook.Entry
	corrupt *logbook.CorruptEntry
	err     error
	done    bool
}

// Next advances to the next used slot. It returns false when the table
// is exhausted, an end marker slot was hit, or an I/O error occurred.
func (sc *Scanner) Next() bool {

	sc.entry = nil
	sc.corrupt = nil

	if sc.done {
		return false
	}

	s := sc.session
	for ; sc.ix < s.lay.Slots; sc.ix++ {

		r := s.lay.SlotRegion(sc.ix)
		data, err := s.part.ReadAt(r.Offset, int(r.Size))
		if err != nil {
			sc.err = err
			sc.finish()
			return false
		}

		switch data[0] {

		case logbook.SlotEmpty:
			continue

		case logbook.SlotEnd:
			sc.finish()
			return false
		}

		id := sc.ix
		sc.ix++

		if e, err := logbook.DecodeEntry(id, data); err != nil {
			log.WithField("slot", id).Debugf("corrupt entry: %v", err)
			sc.corrupt = &logbook.CorruptEntry{ID: id, Reason: err, Raw: data}
		} else {
			sc.entry = e
		}
		return true
	}

	sc.finish()
	return false
}

//
func (sc *Scanner) finish() {
	sc.done = true
	if sc.session.state == Scanning {
		sc.session.state = Opened
	}
}

// Entry returns the decoded entry of the current slot, nil if the
// current slot is corrupt.
func (sc *Scanner) Entry() *logbook.Entry {
	return sc.entry
}

// Corrupt returns the corrupt entry report of the current slot, nil if
// the current slot decoded cleanly.
func (sc *Scanner) Corrupt() *logbook.CorruptEntry {
	return sc.corrupt
}

//
func (sc *Scanner) Err() error {
	return sc.err
}

// Reset restarts the scan from the first slot.
func (sc *Scanner) Reset() {
	sc.ix = 0
	sc.entry = nil
	sc.corrupt = nil
	sc.err = nil
	if sc.done {
		sc.done = false
		if sc.session.state == Opened {
			sc.session.state = Scanning
		}
	}
}
