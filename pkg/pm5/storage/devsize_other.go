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

//go:build !linux

package storage

import (
	"fmt"
	"io"
	"os"
)

//
func deviceSize(f *os.File) (int64, error) {

	if size, err := f.Seek(0, io.SeekEnd); err == nil && size > 0 {
		if _, err = f.Seek(0, io.SeekStart); err != nil {
			return 0, err
		}
		return size, nil
	}

	return 0, fmt.Errorf("block device sizing not supported on this platform")
}
