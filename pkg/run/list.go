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
	"github.com/rowperf/pm5drive/pkg/pm5/logbook"
	"github.com/rowperf/pm5drive/pkg/util"
)

//
func NewList() *List {

	l := &List{}
	l.Runner = *NewRunner(
		"list -d|--device {device} [-n|--last {num}]",
		"list the workouts stored on a drive",
		`
Use the list command to list the workout log of a drive. Slots that fail to
decode are listed as corrupt; they do not stop the listing.`,
		"", runnerHelpEpilogue, l.Run)

	l.AddBaseSettings()
	l.AddSetting(&l.Device, "device", "d", "PM5DRIVE_DEVICE", nil,
		"drive device or image file", true)
	l.AddSetting(&l.Last, "last", "n", "", 0,
		"only show the given number of most recent workouts", false)

	return l
}

//
type List struct {
	//
	Runner
	//
	Device string
	Last   int
}

//
func (l *List) Run() error {

	l.ParseSettings()

	session, err := pm5.Open(l.Device, false)
	if err != nil {
		return err
	}
	defer session.Close()

	scan, err := session.Entries()
	if err != nil {
		return err
	}

	var entries []*logbook.Entry
	var corrupt []*logbook.CorruptEntry

	for scan.Next() {
		if e := scan.Entry(); e != nil {
			entries = append(entries, e)
		} else {
			corrupt = append(corrupt, scan.Corrupt())
		}
	}
	if err := scan.Err(); err != nil {
		return err
	}

	if l.Last > 0 && len(entries) > l.Last {
		entries = entries[len(entries)-l.Last:]
	}

	fmt.Printf("%4s  %-16s  %-17s  %10s  %8s  %8s  %4s\n",
		"ID", "DATE", "TYPE", "DURATION", "DISTANCE", "PACE", "SPM")

	for _, e := range entries {
		fmt.Printf("%4d  %-16s  %-17s  %10s  %7dm  %8s  %4d\n",
			e.ID,
			e.StartTime.Format("2006-01-02 15:04"),
			e.Type.String(),
			util.FormatDuration(e.TotalDuration),
			e.TotalDistance,
			util.FormatDuration(e.Pace()),
			e.StrokeRate)
	}

	for _, c := range corrupt {
		fmt.Printf("%4d  %s\n", c.ID, c.String())
	}

	fmt.Printf("\n%d workouts, %d corrupt slots\n", len(entries), len(corrupt))
	return nil
}
