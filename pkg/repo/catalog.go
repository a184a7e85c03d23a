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
	"io"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
)

// DefaultCatalogURL is the vendor's endpoint listing current firmware
// releases per monitor model.
const DefaultCatalogURL = "https://tech.concept2.com/api/firmware/latest"

// catalog responses are small; firmware files are not
const (
	catalogLimit  = 1 << 20
	downloadLimit = 256 << 20
)

//
type Catalog struct {
	Data []CatalogVersion `json:"data"`
}

//
type CatalogVersion struct {
	Description      string        `json:"description"`
	Machine          string        `json:"machine"`
	MajorVersion     int           `json:"major_version"`
	MinorVersion     int           `json:"minor_version"`
	Monitor          string        `json:"monitor"`
	Optional         bool          `json:"optional"`
	ReleaseDate      string        `json:"release_date"`
	ShortDescription string        `json:"short_description"`
	Status           string        `json:"status"`
	Version          float64       `json:"version"`
	Files            []CatalogFile `json:"files"`
}

//
type CatalogFile struct {
	Default   bool                `json:"default"`
	Languages []map[string]string `json:"languages"`
	Name      string              `json:"name"`
	Path      string              `json:"path"`
	Uploaded  string              `json:"uploaded"`
}

// FetchCatalog retrieves the vendor firmware catalog.
func FetchCatalog(url, auth string) (*Catalog, error) {

	src, err := NewHTTPSource(url, auth, catalogLimit)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	ret := &Catalog{}
	if err := json.NewDecoder(src).Decode(ret); err != nil {
		return nil, fmt.Errorf("cannot decode firmware catalog: %v", err)
	}

	log.WithField("versions", len(ret.Data)).Debug("firmware catalog fetched")
	return ret, nil
}

// Latest picks the newest non-beta release for the given monitor
// model, or the newest beta one when includeBeta is set.
func (c *Catalog) Latest(monitor string, includeBeta bool) *CatalogVersion {

	var best *CatalogVersion

	for ix := range c.Data {
		v := &c.Data[ix]
		if monitor != "" && v.Monitor != monitor {
			continue
		}
		if !includeBeta && v.Status == "beta" {
			continue
		}
		if best == nil || v.Version > best.Version {
			best = v
		}
	}

	return best
}

// Download fetches one catalog file into dir and returns its local
// path.
func (f *CatalogFile) Download(dir, auth string) (string, error) {

	src, err := NewHTTPSource(f.Path, auth, downloadLimit)
	if err != nil {
		return "", err
	}
	defer src.Close()

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	target := filepath.Join(dir, f.Name)
	out, err := os.Create(target)
	if err != nil {
		return "", err
	}
	defer out.Close()

	n, err := io.Copy(out, src)
	if err != nil {
		os.Remove(target)
		return "", err
	}

	log.WithFields(log.Fields{
		"file": target,
		"size": n}).Info("firmware file downloaded")
	return target, nil
}
