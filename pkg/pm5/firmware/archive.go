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

package firmware

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"

	log "github.com/sirupsen/logrus"
)

// FromFile loads a firmware image from path. The vendor distributes
// firmware as 7z archives of .bin images; plain .bin files work too.
func FromFile(path string) (*Image, error) {

	if strings.EqualFold(filepath.Ext(path), ".7z") {
		images, err := LoadArchive(path)
		if err != nil {
			return nil, err
		}
		if len(images) == 0 {
			return nil, fmt.Errorf("no usable firmware image in %s", path)
		}
		if len(images) > 1 {
			log.WithFields(log.Fields{
				"archive": path,
				"count":   len(images),
				"chosen":  images[0].Version()}).Warn(
				"archive contains several images")
		}
		return images[0], nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := ioutil.ReadAll(f)
	if err != nil {
		return nil, err
	}

	return Load(data)
}

// LoadArchive extracts and validates all .bin members of a 7z firmware
// archive. Members that do not validate are skipped with a warning, so
// a foreign file inside an archive does not block the usable images.
func LoadArchive(path string) ([]*Image, error) {

	r, err := sevenzip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var images []*Image

	for _, f := range r.File {

		if !strings.HasSuffix(strings.ToLower(f.Name), ".bin") {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		data, err := ioutil.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, err
		}

		img, err := Load(data)
		if err != nil {
			log.WithFields(log.Fields{
				"archive": path,
				"member":  f.Name}).Warnf("skipping member: %v", err)
			continue
		}

		log.WithFields(log.Fields{
			"member":   f.Name,
			"version":  img.Version(),
			"revision": img.Revision()}).Debug("firmware image loaded")
		images = append(images, img)
	}

	return images, nil
}
