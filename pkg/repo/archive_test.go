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
	"path/filepath"
	"testing"
	"time"

	"github.com/rowperf/pm5drive/pkg/pm5/logbook"
)

func TestStoreAndLoad(t *testing.T) {

	e := &logbook.Entry{
		ID:            5,
		Type:          logbook.SingleDistance,
		Serial:        4711,
		StartTime:     time.Date(2026, 5, 4, 7, 30, 0, 0, time.UTC),
		UserID:        7,
		StrokeRate:    24,
		TotalDuration: 1290 * time.Second,
		TotalDistance: 5000,
	}

	dir := t.TempDir()

	path, err := Store(dir, e)
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	if want := "2026-05-04_0730_distance_05.json"; filepath.Base(
		path) != want {
		t.Errorf("file name: %s", filepath.Base(path))
	}

	w, err := loadSummary(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if w.Type != "Distance" || w.Distance != 5000 || w.User != 7 ||
		w.Serial != 4711 {
		t.Errorf("summary: %+v", w)
	}
	if w.Duration != "21:30.0" || w.Pace != "2:09.0" {
		t.Errorf("durations: %q, %q", w.Duration, w.Pace)
	}
}
