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
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/rowperf/pm5drive/pkg/pm5/firmware"
	"github.com/rowperf/pm5drive/pkg/pm5/layout"
)

//
type FlashPhase int

//
const (
	PhaseValidate FlashPhase = iota + 1
	PhaseCompatibility
	PhaseWrite
	PhaseVerify
)

//
func (p FlashPhase) String() string {
	switch p {
	case PhaseValidate:
		return "validate"
	case PhaseCompatibility:
		return "compatibility"
	case PhaseWrite:
		return "write"
	case PhaseVerify:
		return "verify"
	}
	return "unknown"
}

/*
	FlashError reports which safety gate stopped a flash, with enough
	diagnostics to judge the state the drive was left in. A failure in
	the validate or compatibility phase means nothing was written. A
	failure in the write or verify phase means the firmware slot may
	hold a mix of old and new bytes; the error says so, the tool cannot
	undo it.
*/
type FlashError struct {
	Phase  FlashPhase
	Offset int64
	Want   byte
	Got    byte
	Err    error
}

//
func (e *FlashError) Error() string {
	switch e.Phase {
	case PhaseVerify:
		return fmt.Sprintf(
			"flash verification failed at offset %d, want 0x%02x, got 0x%02x; "+
				"firmware slot contents are unreliable", e.Offset, e.Want, e.Got)
	case PhaseWrite:
		return fmt.Sprintf(
			"flash write failed at offset %d, firmware slot contents are "+
				"unreliable: %v", e.Offset, e.Err)
	}
	return fmt.Sprintf("flash stopped in %s phase, nothing written: %v",
		e.Phase, e.Err)
}

//
func (e *FlashError) Unwrap() error {
	return e.Err
}

/*
	Flash runs the verified write protocol: validate the image against
	the slot, check hardware revision compatibility, write the exact
	image bytes, read them back and compare. The write phase is only
	ever reached after both checks passed; that ordering is enforced
	here, not left to callers. Once the write has started the protocol
	runs to completion or failure, there is no cancellation: an
	interrupted firmware write is the one outcome this tool exists to
	avoid.
*/
func (s *Session) Flash(img *firmware.Image) error {

	if err := s.require(Opened); err != nil {
		return err
	}
	if s.meta == nil {
		return layout.ErrNotInitialized
	}

	s.state = Flashing
	defer func() { s.state = Opened }()

	// image validity is proven at construction; what remains to
	// validate is the destination contract
	if img == nil {
		return &FlashError{Phase: PhaseValidate,
			Err: fmt.Errorf("no image")}
	}
	if img.Size() > s.lay.Firmware.Size {
		return &FlashError{Phase: PhaseValidate,
			Err: fmt.Errorf("image of %d bytes exceeds firmware slot of %d",
				img.Size(), s.lay.Firmware.Size)}
	}

	if err := img.VerifyCompatible(s.meta.Revision); err != nil {
		return &FlashError{Phase: PhaseCompatibility, Err: err}
	}

	log.WithFields(log.Fields{
		"version":  img.Version(),
		"revision": img.Revision(),
		"size":     img.Size()}).Info("flashing firmware")

	data := img.Bytes()
	if err := s.part.WriteAt(s.lay.Firmware.Offset, data); err != nil {
		return &FlashError{Phase: PhaseWrite,
			Offset: s.lay.Firmware.Offset, Err: err}
	}
	if err := s.part.Sync(); err != nil {
		return &FlashError{Phase: PhaseWrite,
			Offset: s.lay.Firmware.Offset, Err: err}
	}

	back, err := s.part.ReadAt(s.lay.Firmware.Offset, len(data))
	if err != nil {
		return &FlashError{Phase: PhaseVerify,
			Offset: s.lay.Firmware.Offset, Err: err}
	}
	for ix := range data {
		if back[ix] != data[ix] {
			return &FlashError{
				Phase:  PhaseVerify,
				Offset: s.lay.Firmware.Offset + int64(ix),
				Want:   data[ix],
				Got:    back[ix],
			}
		}
	}

	log.Info("firmware flashed and verified")
	return nil
}
