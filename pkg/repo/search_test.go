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

package repo

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rowperf/pm5drive/pkg/pm5/logbook"
)

//
func archivedEntry(id int, wt logbook.WorkoutType, day int) *logbook.Entry {
	return &logbook.Entry{
		ID:            id,
		Type:          wt,
		Serial:        4711,
		StartTime:     time.Date(2026, 5, day, 7, 30, 0, 0, time.UTC),
		UserID:        7,
		StrokeRate:    24,
		TotalDuration: 1290 * time.Second,
		TotalDistance: 5000,
	}
}

func TestSearch(t *testing.T) {

	archive := t.TempDir()

	var paths []string
	for _, e := range []*logbook.Entry{
		archivedEntry(1, logbook.SingleDistance, 4),
		archivedEntry(2, logbook.SingleDistance, 5),
		archivedEntry(3, logbook.FreeRow, 6),
	} {
		p, err := Store(archive, e)
		if err != nil {
			t.Fatalf("store: %v", err)
		}
		paths = append(paths, p)
	}

	index, err := NewIndex(filepath.Join(archive, ".index"), archive)
	if err != nil {
		t.Fatalf("new index: %v", err)
	}
	if err := index.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer index.Stop()

	// hits carry the summary of the matching workouts
	res, err := index.Search("distance", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(res.Hits) != 2 || !res.Complete {
		t.Fatalf("result: %+v", res)
	}
	for _, h := range res.Hits {
		if h.Type != "Distance" || h.Distance != 5000 || h.Pace != "2:09.0" {
			t.Errorf("hit summary: %+v", h)
		}
		if h.Path == "" {
			t.Error("hit without path")
		}
	}

	// max caps the hits and marks the result incomplete
	res, err = index.Search("distance", 1)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(res.Hits) != 1 || res.Complete || res.Total != 2 {
		t.Errorf("capped result: %+v", res)
	}

	// a hit whose archive file is gone is dropped, not an error
	if err := os.Remove(paths[0]); err != nil {
		t.Fatal(err)
	}
	res, err = index.Search("distance", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(res.Hits) != 1 {
		t.Errorf("stale hit not dropped: %+v", res)
	}

	if _, err := index.Search("  ", 10); err == nil {
		t.Error("blank term accepted")
	}
}
