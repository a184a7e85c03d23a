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

	"github.com/rowperf/pm5drive/pkg/repo"
)

//
func NewFetch() *Fetch {

	f := &Fetch{}
	f.Runner = *NewRunner(
		"fetch [-m|--monitor {model}] [--beta] [--dir {dir}]",
		"download the latest firmware release from the vendor",
		`
Use the fetch command to query the vendor's firmware catalog and download the
files of the latest release into a local directory, from where flash can write
them to a drive.`,
		"", runnerHelpEpilogue, f.Run)

	f.AddBaseSettings()
	f.AddSetting(&f.Monitor, "monitor", "m", "", "PM5",
		"monitor model to fetch firmware for", false)
	f.AddSetting(&f.Beta, "beta", "", "", false,
		"include beta releases", false)
	f.AddSetting(&f.Dir, "dir", "", "PM5DRIVE_FIRMWARE_DIR", "firmware",
		"download directory", false)
	f.AddSetting(&f.URL, "url", "", "PM5DRIVE_CATALOG_URL",
		repo.DefaultCatalogURL, "firmware catalog URL", false)
	f.AddSetting(&f.Auth, "auth", "", "PM5DRIVE_CATALOG_AUTH", nil,
		"Authorization header for the catalog endpoint", false)

	return f
}

//
type Fetch struct {
	//
	Runner
	//
	Monitor string
	Beta    bool
	Dir     string
	URL     string
	Auth    string
}

//
func (f *Fetch) Run() error {

	f.ParseSettings()

	catalog, err := repo.FetchCatalog(f.URL, f.Auth)
	if err != nil {
		return err
	}

	release := catalog.Latest(f.Monitor, f.Beta)
	if release == nil {
		return fmt.Errorf("no release for monitor %q in catalog", f.Monitor)
	}

	fmt.Printf("latest release for %s: %g (%s)\n",
		release.Monitor, release.Version, release.ReleaseDate)

	for _, file := range release.Files {
		path, err := file.Download(f.Dir, f.Auth)
		if err != nil {
			return err
		}
		fmt.Println(path)
	}

	return nil
}
