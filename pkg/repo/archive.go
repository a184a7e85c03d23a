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
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/rowperf/pm5drive/pkg/pm5/logbook"
	"github.com/rowperf/pm5drive/pkg/util"
)

/*
	Workout is the searchable summary of an archived workout. The
	archive file additionally carries the complete decoded entry, which
	the index does not need and skips when reading summaries back.
*/
type Workout struct {
	Type     string `json:"type"`
	Date     string `json:"date"`
	User     int    `json:"user"`
	Serial   int64  `json:"serial"`
	Distance int    `json:"distance"`
	Duration string `json:"duration"`
	Pace     string `json:"pace"`
	Splits   int    `json:"splits"`
}

//
type document struct {
	Workout
	Entry *logbook.Entry `json:"entry"`
}

//
func summarize(e *logbook.Entry) Workout {
	return Workout{
		Type:     e.Type.String(),
		Date:     e.StartTime.Format("2006-01-02 15:04"),
		User:     e.UserID,
		Serial:   e.Serial,
		Distance: e.TotalDistance,
		Duration: util.FormatDuration(e.TotalDuration),
		Pace:     util.FormatDuration(e.Pace()),
		Splits:   len(e.Intervals),
	}
}

// Store archives an exported entry as a JSON file in dir and returns
// the file path. An open index on dir picks the file up by itself.
func Store(dir string, e *logbook.Entry) (string, error) {

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	doc := document{Workout: summarize(e), Entry: e}

	data, err := json.MarshalIndent(&doc, "", "  ")
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s_%s_%02d.json",
		e.StartTime.Format("2006-01-02_1504"),
		strings.ReplaceAll(strings.ToLower(e.Type.String()), " ", "-"),
		e.ID)
	target := filepath.Join(dir, name)

	if err := ioutil.WriteFile(target, data, 0644); err != nil {
		return "", err
	}

	log.WithField("file", target).Info("workout archived")
	return target, nil
}

// loadSummary reads the searchable part of an archive file.
func loadSummary(path string) (*Workout, error) {

	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}

	ret := &Workout{}
	if err := json.Unmarshal(data, ret); err != nil {
		return nil, fmt.Errorf("cannot read archived workout %s: %v", path, err)
	}
	return ret, nil
}
