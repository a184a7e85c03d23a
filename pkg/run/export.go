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
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"

	"github.com/rowperf/pm5drive/pkg/pm5"
	"github.com/rowperf/pm5drive/pkg/repo"
)

//
func NewExport() *Export {

	e := &Export{}
	e.Runner = *NewRunner(
		"export -d|--device {device} -e|--entry {id} [-o|--output {file}] [-a|--archive {dir}]",
		"export one workout as JSON",
		`
Use the export command to export a single workout entry. Unlike list, any
decode problem of the requested entry is an error here. With --archive, the
workout is additionally stored in the given archive directory, where the
search command can find it.`,
		"", runnerHelpEpilogue, e.Run)

	e.AddBaseSettings()
	e.AddSetting(&e.Device, "device", "d", "PM5DRIVE_DEVICE", nil,
		"drive device or image file", true)
	e.AddSetting(&e.Entry, "entry", "e", "", -1, "entry id to export", true)
	e.AddSetting(&e.Output, "output", "o", "", nil,
		"output file; stdout when omitted", false)
	e.AddSetting(&e.Archive, "archive", "a", "PM5DRIVE_ARCHIVE", nil,
		"also store the workout in this archive directory", false)

	return e
}

//
type Export struct {
	//
	Runner
	//
	Device  string
	Entry   int
	Output  string
	Archive string
}

//
func (e *Export) Run() error {

	e.ParseSettings()

	session, err := pm5.Open(e.Device, false)
	if err != nil {
		return err
	}
	defer session.Close()

	entry, err := session.Entry(e.Entry)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return err
	}

	if e.Output == "" {
		fmt.Fprintln(os.Stdout, string(data))
	} else if err := ioutil.WriteFile(e.Output, data, 0644); err != nil {
		return err
	}

	if e.Archive != "" {
		if _, err := repo.Store(e.Archive, entry); err != nil {
			return err
		}
	}

	return nil
}
