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
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	log "github.com/sirupsen/logrus"
)

// Hit is one matching workout, its summary re-read from the archive
// file the index points at.
type Hit struct {
	Path string `json:"path"`
	Workout
}

//
type SearchResult struct {
	Hits     []Hit  `json:"hits"`
	Total    uint64 `json:"total"`
	Complete bool   `json:"complete"`
}

/*
	Search matches term against the archived workout summaries, query
	string syntax, and returns up to max hits with their summaries. The
	index stores only what makes workouts findable; the summaries come
	from the archive files themselves, so a hit whose file has vanished
	since the last index sync is dropped from the result, not reported
	as an error.
*/
func (i *Index) Search(term string, max int) (*SearchResult, error) {

	term = strings.TrimSpace(term)
	if term == "" {
		return nil, fmt.Errorf("no search term")
	}

	log.Debugf("searching for '%s'", term)
	query := bleve.NewQueryStringQuery(term)
	res, err := i.index.Search(
		bleve.NewSearchRequestOptions(query, max+1, 0, false))
	if err != nil {
		return nil, err
	}

	ret := &SearchResult{Total: res.Total, Complete: uint64(max) >= res.Total}

	for _, m := range res.Hits {
		if len(ret.Hits) == max {
			break
		}
		w, err := loadSummary(m.ID)
		if err != nil {
			log.Warnf("dropping stale hit %s: %v", m.ID, err)
			continue
		}
		ret.Hits = append(ret.Hits, Hit{Path: m.ID, Workout: *w})
	}

	return ret, nil
}
