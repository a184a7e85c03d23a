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
	"os"

	"github.com/rowperf/pm5drive/pkg/pm5"
)

//
func NewInit() *Init {

	i := &Init{}
	i.Runner = *NewRunner(
		"init -d|--device {device} [-u|--user {name}] [--user-id {id}] [--revision {rev}] [--force]",
		"set up a new drive",
		`
Use the init command to write the storage skeleton the monitor expects onto an
already formatted drive. Without --force, a drive that is already initialized
is left untouched.`,
		"", runnerHelpEpilogue, i.Run)

	i.AddBaseSettings()
	i.AddSetting(&i.Device, "device", "d", "PM5DRIVE_DEVICE", nil,
		"drive device or image file", true)
	i.AddSetting(&i.User, "user", "u", "", os.Getenv("USER"),
		"user name stored on the drive, at most 6 characters", false)
	i.AddSetting(&i.UserID, "user-id", "", "", 1, "user id", false)
	i.AddSetting(&i.Revision, "revision", "r", "", 1,
		"hardware revision of the monitor", false)
	i.AddSetting(&i.Force, "force", "f", "", false,
		"reinitialize an already initialized drive, discarding its log", false)

	return i
}

//
type Init struct {
	//
	Runner
	//
	Device   string
	User     string
	UserID   int
	Revision int
	Force    bool
}

//
func (i *Init) Run() error {

	i.ParseSettings()

	if len(i.User) > 6 {
		i.User = i.User[:6]
	}
	if i.User == "" {
		i.User = "rower"
	}

	session, err := pm5.Open(i.Device, true)
	if err != nil {
		return err
	}
	defer session.Close()

	lay, err := session.Init(i.User, i.UserID, i.Revision, i.Force)
	if err != nil {
		return err
	}

	fmt.Printf("initialized %s for user %q: %d log slots, %d KiB firmware slot\n",
		i.Device, i.User, lay.Slots, lay.Firmware.Size/1024)
	return nil
}
