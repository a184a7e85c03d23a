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
)

//
func NewInfo() *Info {

	i := &Info{}
	i.Runner = *NewRunner(
		"info -d|--device {device}",
		"show general information about a drive",
		`
Use the info command to show the user identity stored on a drive, its layout
version and how many of its log slots are in use.`,
		"", runnerHelpEpilogue, i.Run)

	i.AddBaseSettings()
	i.AddSetting(&i.Device, "device", "d", "PM5DRIVE_DEVICE", nil,
		"drive device or image file", true)

	return i
}

//
type Info struct {
	//
	Runner
	//
	Device string
}

//
func (i *Info) Run() error {

	i.ParseSettings()

	session, err := pm5.Open(i.Device, false)
	if err != nil {
		return err
	}
	defer session.Close()

	meta, err := session.Metadata()
	if err != nil {
		return err
	}

	scan, err := session.Entries()
	if err != nil {
		return err
	}

	used, corrupt := 0, 0
	for scan.Next() {
		if scan.Entry() != nil {
			used++
		} else {
			corrupt++
		}
	}
	if err := scan.Err(); err != nil {
		return err
	}

	lay := session.Layout()
	fmt.Printf(`user:            %s (id %d)
layout version:  %d
hardware rev:    %d
log slots:       %d used, %d corrupt, %d total
firmware slot:   %d KiB at offset 0x%x
`,
		meta.UserName, meta.UserID, meta.Version, meta.Revision,
		used, corrupt, lay.Slots,
		lay.Firmware.Size/1024, lay.Firmware.Offset)

	return nil
}
