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

package util

import (
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

/*
	NewDirWatcher creates a watcher for changes in the directory dir.
	The watcher does not start until Start has been called.
*/
func NewDirWatcher(dir string) (*DirWatcher, error) {

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, err
	}

	return &DirWatcher{watcher: w, release: make(chan bool)}, nil
}

//
type DirWatcher struct {
	watcher *fsnotify.Watcher
	release chan bool
	running bool
}

/*
	Start starts this directory watcher. Whenever there is a change in
	the watched directory, the handler function is called. After
	backoff without further changes, flush is called. Both run on the
	watcher's go routine, so the client does not have to be thread
	safe.
*/
func (dw *DirWatcher) Start(backoff time.Duration,
	handler func(fsnotify.Event) error, flush func() error) error {

	if dw.watcher == nil {
		return fmt.Errorf("directory watcher not initialized or stopped")
	}
	if dw.running {
		return fmt.Errorf("directory watcher already started")
	}
	dw.running = true

	go func() {

		timer := time.NewTimer(time.Millisecond)
		<-timer.C
		dirty := false

		for {
			select {

			case evt, ok := <-dw.watcher.Events:
				if !ok {
					log.Debug("directory watcher routine exiting")
					dw.running = false
					dw.release <- true
					return
				}
				timer.Stop()
				if err := handler(evt); err != nil {
					log.Errorf("watch handler failed for %s: %v", evt.Name, err)
				}
				dirty = true
				timer.Reset(backoff)

			case err, ok := <-dw.watcher.Errors:
				if ok && err != nil {
					log.Errorf("directory watcher error: %v", err)
				}

			case <-timer.C:
				if dirty {
					dirty = false
					if err := flush(); err != nil {
						log.Errorf("watch flush failed: %v", err)
					}
				}
			}
		}
	}()

	return nil
}

// Stop stops the watcher and waits for its routine to exit.
func (dw *DirWatcher) Stop() error {
	if dw.watcher == nil || !dw.running {
		return nil
	}
	err := dw.watcher.Close()
	<-dw.release
	dw.watcher = nil
	return err
}
