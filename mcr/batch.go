// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package mcr

import (
	"bufio"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// LocationMapping pairs an H3 cell with the street-graph node its
// centroid attaches to
type LocationMapping struct {
	H3Cell    string `csv:"h3_cell"`
	OSMNodeID int64  `csv:"osm_node_id"`
}

// RunError reports one failed batch run
type RunError struct {
	H3Cell string
	Err    error
}

// Batch fans one MCR run per location mapping out over a bounded worker
// pool. The graphs are shared read-only; every run gets its own
// orchestrator from the factory so no mutable state crosses workers.
type Batch struct {
	NewRun func() (*MCR, error)

	MaxWorkers int
	// workers stall while available memory is below this floor
	MinFreeMemoryBytes uint64

	Log *logrus.Logger
}

// Run executes one MCR per mapping and writes a tabular result file per
// H3 cell into outputDir. Failed runs are collected, not fatal.
func (b *Batch) Run(mappings []LocationMapping, startTime string, maxRounds int, outputDir string) []RunError {
	workers := b.MaxWorkers
	if workers <= 0 {
		workers = runtime.NumCPU() - 1
		if workers < 1 {
			workers = 1
		}
	}

	var mu sync.Mutex
	var failures []RunError

	group := &errgroup.Group{}
	group.SetLimit(workers)

	for _, mapping := range mappings {
		mapping := mapping
		group.Go(func() error {
			b.waitForMemory()

			if err := b.runOne(mapping, startTime, maxRounds, outputDir); err != nil {
				b.Log.WithFields(logrus.Fields{"cell": mapping.H3Cell}).WithError(err).Error("run failed")
				mu.Lock()
				failures = append(failures, RunError{H3Cell: mapping.H3Cell, Err: err})
				mu.Unlock()
			}
			return nil
		})
	}

	group.Wait()
	return failures
}

func (b *Batch) runOne(mapping LocationMapping, startTime string, maxRounds int, outputDir string) error {
	runner, err := b.NewRun()
	if err != nil {
		return err
	}

	result, err := runner.Run(mapping.OSMNodeID, startTime, maxRounds)
	if err != nil {
		return err
	}

	out := filepath.Join(outputDir, mapping.H3Cell+".csv")
	return Write(result, FormatTabular, out)
}

func (b *Batch) waitForMemory() {
	if b.MinFreeMemoryBytes == 0 {
		return
	}
	for {
		avail, ok := availableMemoryBytes()
		if !ok || avail >= b.MinFreeMemoryBytes {
			return
		}
		b.Log.WithField("available", avail).Debug("waiting for free memory")
		time.Sleep(time.Second)
	}
}

// availableMemoryBytes reads MemAvailable from /proc/meminfo; ok is
// false on platforms without it
func availableMemoryBytes() (uint64, bool) {
	f, err := os.Open("/proc/meminfo")
	if err != nil {
		return 0, false
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "MemAvailable:") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return 0, false
		}
		kb, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return 0, false
		}
		return kb * 1024, true
	}
	return 0, false
}
