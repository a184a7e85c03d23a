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
	"net/http"
	"net/http/httptest"
	"testing"
)

//
const catalogSample = `{
	"data": [
		{
			"monitor": "PM5",
			"machine": "rower",
			"version": 707.1,
			"status": "released",
			"short_description": "PM5 707.1",
			"files": [
				{
					"default": true,
					"name": "pm5-707.1.7z",
					"path": "https://example.com/pm5-707.1.7z"
				}
			]
		},
		{
			"monitor": "PM5",
			"machine": "rower",
			"version": 708.0,
			"status": "beta",
			"short_description": "PM5 708.0 beta",
			"files": []
		},
		{
			"monitor": "PM3",
			"machine": "rower",
			"version": 712.0,
			"status": "released",
			"short_description": "PM3 712.0",
			"files": []
		}
	]
}`

func TestLatest(t *testing.T) {

	c := &Catalog{}
	if err := json.Unmarshal([]byte(catalogSample), c); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(c.Data) != 3 {
		t.Fatalf("versions: %d", len(c.Data))
	}

	tests := []struct {
		monitor     string
		includeBeta bool
		want        string
	}{
		{"PM5", false, "PM5 707.1"},
		{"PM5", true, "PM5 708.0 beta"},
		{"PM3", false, "PM3 712.0"},
		{"", false, "PM3 712.0"},
	}

	for _, tc := range tests {
		v := c.Latest(tc.monitor, tc.includeBeta)
		if v == nil || v.ShortDescription != tc.want {
			t.Errorf("%q/%v: got %+v", tc.monitor, tc.includeBeta, v)
		}
	}

	if v := c.Latest("PM4", false); v != nil {
		t.Errorf("unknown monitor: %+v", v)
	}
}

func TestFetchCatalog(t *testing.T) {

	var gotAuth string

	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			w.Write([]byte(catalogSample))
		}))
	defer srv.Close()

	c, err := FetchCatalog(srv.URL, "Basic c2VjcmV0")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(c.Data) != 3 {
		t.Errorf("versions: %d", len(c.Data))
	}
	if gotAuth != "Basic c2VjcmV0" {
		t.Errorf("authorization header: %q", gotAuth)
	}

	v := c.Latest("PM5", false)
	if v == nil || len(v.Files) != 1 || v.Files[0].Name != "pm5-707.1.7z" {
		t.Errorf("files: %+v", v)
	}
}
