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
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"

	"github.com/rowperf/pm5drive/pkg/util"
)

//
const batchFlushCount = 100

// NewIndex creates or opens the search index at base, covering the
// workout archive directory archive.
func NewIndex(base, archive string) (*Index, error) {

	var err error
	i := &Index{}

	if i.base, err = filepath.Abs(base); err != nil {
		return nil, err
	}
	if i.archive, err = filepath.Abs(archive); err != nil {
		return nil, err
	}

	logger := log.WithFields(log.Fields{"base": i.base, "archive": i.archive})

	if _, err := os.Stat(i.base); err != nil {
		if os.IsNotExist(err) {
			logger.Info("creating new index")
			i.index, err = bleve.New(i.base, bleve.NewIndexMapping())
		}
		if err != nil {
			logger.Errorf("cannot create index: %v", err)
			return nil, err
		}
		logger.Info("new index created")

	} else {
		logger.Info("opening index")
		if i.index, err = bleve.Open(i.base); err != nil {
			logger.Errorf("cannot open index: %v", err)
			return nil, err
		}
		logger.Info("index opened")
	}

	i.batch = i.index.NewBatch()
	return i, nil
}

//
type Index struct {
	base    string
	archive string
	//
	index   bleve.Index
	watcher *util.DirWatcher
	//
	batch      *bleve.Batch
	batchCount int
}

// Start brings the index in sync with the archive directory and then
// keeps following it for changes until Stop.
func (i *Index) Start() error {

	start := time.Now()
	log.Info("pruning index")
	if err := i.prune(); err != nil {
		return fmt.Errorf("error pruning index: %v", err)
	}
	log.WithField("duration", time.Since(start)).Info("index pruning finished")

	start = time.Now()
	log.Info("updating index")
	if err := i.update(); err != nil {
		return fmt.Errorf("error updating index: %v", err)
	}
	if err := i.flush(); err != nil {
		return err
	}
	log.WithField("duration", time.Since(start)).Info("index update finished")

	var err error
	if i.watcher, err = util.NewDirWatcher(i.archive); err != nil {
		return err
	}

	return i.watcher.Start(2*time.Second,
		func(evt fsnotify.Event) error {
			if !strings.HasSuffix(evt.Name, ".json") {
				return nil
			}
			switch {
			case evt.Op&(fsnotify.Create|fsnotify.Write) != 0:
				return i.add(evt.Name)
			case evt.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				return i.remove(evt.Name)
			}
			return nil
		},
		i.flush)
}

//
func (i *Index) Stop() error {
	if i.watcher != nil {
		if err := i.watcher.Stop(); err != nil {
			return err
		}
		i.watcher = nil
	}
	if err := i.flush(); err != nil {
		return err
	}
	return i.index.Close()
}

// update walks the archive dir and (re)indexes every workout file.
func (i *Index) update() error {

	return filepath.Walk(i.archive,
		func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() || !strings.HasSuffix(path, ".json") {
				return nil
			}
			return i.add(path)
		})
}

// prune drops index entries whose archive files are gone.
func (i *Index) prune() error {

	query := bleve.NewMatchAllQuery()
	search := bleve.NewSearchRequestOptions(query, 10000, 0, false)

	res, err := i.index.Search(search)
	if err != nil {
		return err
	}

	for _, h := range res.Hits {
		if _, err := os.Stat(h.ID); os.IsNotExist(err) {
			log.WithField("file", h.ID).Debug("pruning vanished workout")
			i.batch.Delete(h.ID)
			if err := i.countAndFlush(); err != nil {
				return err
			}
		}
	}

	return i.flush()
}

//
func (i *Index) add(path string) error {

	w, err := loadSummary(path)
	if err != nil {
		log.Warnf("not indexing %s: %v", path, err)
		return nil
	}

	if err = i.batch.Index(path, w); err != nil {
		return err
	}

	log.WithField("file", path).Debug("workout indexed")
	return i.countAndFlush()
}

//
func (i *Index) remove(path string) error {
	i.batch.Delete(path)
	log.WithField("file", path).Debug("workout removed from index")
	return i.countAndFlush()
}

//
func (i *Index) countAndFlush() error {
	i.batchCount++
	if i.batchCount >= batchFlushCount {
		return i.flush()
	}
	return nil
}

//
func (i *Index) flush() error {
	if i.batch.Size() == 0 {
		i.batchCount = 0
		return nil
	}
	if err := i.index.Batch(i.batch); err != nil {
		return err
	}
	i.batch.Reset()
	i.batchCount = 0
	return nil
}
