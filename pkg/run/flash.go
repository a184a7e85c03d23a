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

package run

import (
	"fmt"

	"github.com/rowperf/pm5drive/pkg/pm5"
	"github.com/rowperf/pm5drive/pkg/pm5/firmware"
)

//
func NewFlash() *Flash {

	f := &Flash{}
	f.Runner = *NewRunner(
		"flash -d|--device {device} -i|--image {file} --confirm",
		"write a firmware image to the drive's firmware slot",
		`
Use the flash command to write a firmware image, from a .bin file or a vendor
.7z archive, into the firmware slot. The image is validated and checked for
hardware revision compatibility before a single byte is written, and the slot
is read back and compared afterwards. Flashing cannot be undone and a failed
flash can leave the monitor unusable; the command therefore refuses to run
without an explicit --confirm.`,
		"", runnerHelpEpilogue, f.Run)

	f.AddBaseSettings()
	f.AddSetting(&f.Device, "device", "d", "PM5DRIVE_DEVICE", nil,
		"drive device or image file", true)
	f.AddSetting(&f.Image, "image", "i", "", nil,
		"firmware image file (.bin or .7z)", true)
	f.AddSetting(&f.Confirm, "confirm", "", "", false,
		"confirm that the firmware slot may be overwritten", false)

	return f
}

//
type Flash struct {
	//
	Runner
	//
	Device  string
	Image   string
	Confirm bool
}

//
func (f *Flash) Run() error {

	f.ParseSettings()

	if !f.Confirm {
		return fmt.Errorf(
			"flashing overwrites the firmware slot and cannot be undone; " +
				"re-run with --confirm to proceed")
	}

	img, err := firmware.FromFile(f.Image)
	if err != nil {
		return err
	}

	session, err := pm5.Open(f.Device, true)
	if err != nil {
		return err
	}
	defer session.Close()

	if err := session.Flash(img); err != nil {
		return err
	}

	fmt.Printf("firmware %s (revision %d) flashed and verified\n",
		img.Version(), img.Revision())
	return nil
}
