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
	"errors"
	"fmt"
)

//
var ErrOutOfBounds = errors.New("out of bounds")

/*
	Storage is the positioned byte level access the session works
	against. Implementations are expected to do scoped, bounded reads
	and writes only; nothing here assumes the whole device fits in
	memory. The handle is exclusively owned by one session at a time.
*/
type Storage interface {

	// ReadAt reads length bytes starting at off
	ReadAt(off int64, length int) ([]byte, error)

	// WriteAt writes data starting at off
	WriteAt(off int64, data []byte) error

	// Size returns the size of the storage in bytes
	Size() int64

	// Sync flushes pending writes to the medium
	Sync() error

	// Close releases the underlying handle; it is idempotent
	Close() error
}

// NewPartition creates a view of a logical region of store. All
// offsets used through the partition are relative to start.
func NewPartition(store Storage, start, size int64, fsType string) (*Partition, error) {
	if start < 0 || size < 0 || start+size > store.Size() {
		return nil, fmt.Errorf(
			"partition [%d, %d) exceeds storage size %d: %w",
			start, start+size, store.Size(), ErrOutOfBounds)
	}
	return &Partition{store: store, start: start, size: size, fsType: fsType}, nil
}

// WholePartition treats the entire storage as a single partition.
func WholePartition(store Storage) *Partition {
	return &Partition{store: store, size: store.Size(), fsType: "raw"}
}

//
type Partition struct {
	store  Storage
	start  int64
	size   int64
	fsType string
}

//
func (p *Partition) Size() int64 {
	return p.size
}

//
func (p *Partition) Type() string {
	return p.fsType
}

//
func (p *Partition) check(off int64, length int) error {
	if off < 0 || length < 0 || off+int64(length) > p.size {
		return fmt.Errorf(
			"access [%d, %d) outside partition of size %d: %w",
			off, off+int64(length), p.size, ErrOutOfBounds)
	}
	return nil
}

//
func (p *Partition) ReadAt(off int64, length int) ([]byte, error) {
	if err := p.check(off, length); err != nil {
		return nil, err
	}
	return p.store.ReadAt(p.start+off, length)
}

//
func (p *Partition) WriteAt(off int64, data []byte) error {
	if err := p.check(off, len(data)); err != nil {
		return err
	}
	return p.store.WriteAt(p.start+off, data)
}

//
func (p *Partition) Sync() error {
	return p.store.Sync()
}

//
func (p *Partition) Close() error {
	return p.store.Close()
}
