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

package storage

import (
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
)

// OpenDevice opens an image file or block device node for positioned
// access. With writable false, all writes fail without touching the
// medium.
func OpenDevice(path string, writable bool) (*Device, error) {

	flags := os.O_RDONLY
	if writable {
		flags = os.O_RDWR
	}

	f, err := os.OpenFile(path, flags, 0)
	if err != nil {
		return nil, err
	}

	size, err := deviceSize(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("cannot determine size of %s: %v", path, err)
	}

	log.WithFields(log.Fields{
		"path":     path,
		"size":     size,
		"writable": writable}).Debug("device opened")

	return &Device{file: f, size: size, writable: writable}, nil
}

//
type Device struct {
	file     *os.File
	size     int64
	writable bool
	closed   bool
}

//
func (d *Device) ReadAt(off int64, length int) ([]byte, error) {
	if off < 0 || off+int64(length) > d.size {
		return nil, fmt.Errorf("read [%d, %d) beyond device size %d: %w",
			off, off+int64(length), d.size, ErrOutOfBounds)
	}
	buf := make([]byte, length)
	if _, err := d.file.ReadAt(buf, off); err != nil && err != io.EOF {
		return nil, err
	}
	return buf, nil
}

//
func (d *Device) WriteAt(off int64, data []byte) error {
	if !d.writable {
		return fmt.Errorf("device opened read-only")
	}
	if off < 0 || off+int64(len(data)) > d.size {
		return fmt.Errorf("write [%d, %d) beyond device size %d: %w",
			off, off+int64(len(data)), d.size, ErrOutOfBounds)
	}
	_, err := d.file.WriteAt(data, off)
	return err
}

//
func (d *Device) Size() int64 {
	return d.size
}

//
func (d *Device) Sync() error {
	if !d.writable {
		return nil
	}
	return d.file.Sync()
}

//
func (d *Device) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	log.Debug("device closed")
	return d.file.Close()
}
