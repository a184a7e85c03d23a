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
	"path/filepath"

	"github.com/rowperf/pm5drive/pkg/repo"
)

//
func NewSearch() *Search {

	s := &Search{}
	s.Runner = *NewRunner(
		"search -a|--archive {dir} -t|--term {search term} [-i|--items {max results}]",
		"search the workout archive",
		`
Use the search command to find workouts previously exported into an archive
directory (see export --archive). The search index lives inside the archive
directory and is kept up to date automatically.`,
		"", runnerHelpEpilogue, s.Run)

	s.AddBaseSettings()
	s.AddSetting(&s.Archive, "archive", "a", "PM5DRIVE_ARCHIVE", nil,
		"workout archive directory", true)
	s.AddSetting(&s.Term, "term", "t", "", nil,
		"search term; matched against type, date, distance and pace", true)
	s.AddSetting(&s.Items, "items", "i", "", 100,
		"max number of search results to return", false)

	return s
}

//
type Search struct {
	//
	Runner
	//
	Archive string
	Term    string
	Items   int
}

//
func (s *Search) Run() error {

	s.ParseSettings()

	index, err := repo.NewIndex(filepath.Join(s.Archive, ".index"), s.Archive)
	if err != nil {
		return err
	}
	if err := index.Start(); err != nil {
		return err
	}
	defer index.Stop()

	res, err := index.Search(s.Term, s.Items)
	if err != nil {
		return err
	}

	fmt.Printf("%-16s  %-17s  %10s  %8s  %8s\n",
		"DATE", "TYPE", "DURATION", "DISTANCE", "PACE")

	for _, h := range res.Hits {
		fmt.Printf("%-16s  %-17s  %10s  %7dm  %8s\n",
			h.Date, h.Type, h.Duration, h.Distance, h.Pace)
	}

	if !res.Complete {
		fmt.Printf("\nshowing %d of %d matches\n", len(res.Hits), res.Total)
	}
	return nil
}
