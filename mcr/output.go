// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package mcr

import (
	"encoding/gob"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/mogottsch/mcr/pareto"
	"github.com/mogottsch/mcr/strtime"
	"github.com/pkg/errors"
)

// OutputFormat selects the serialisation of a run's result
type OutputFormat string

const (
	// FormatStructured keeps the full bags per round plus the path
	// registry in a binary file
	FormatStructured OutputFormat = "structured"

	// FormatTabular flattens the result into one row per label
	FormatTabular OutputFormat = "tabular"
)

// structuredResult is the on-disk shape of FormatStructured
type structuredResult struct {
	Rounds   []map[int64][]*pareto.Label
	Segments []Segment
}

// LabelRow is one row of the tabular output
type LabelRow struct {
	OsmNodeID         int64  `csv:"osm_node_id"`
	Time              int64  `csv:"time"`
	Cost              int64  `csv:"cost"`
	NTransfers        int32  `csv:"n_transfers"`
	HumanReadableTime string `csv:"human_readable_time"`
}

// Write serialises the result. The file is written atomically so a
// fatal error never leaves a partial artifact behind.
func Write(result *Result, format OutputFormat, path string) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return errors.Wrap(err, "creating output file")
	}

	switch format {
	case FormatStructured:
		err = writeStructured(result, f)
	case FormatTabular:
		err = writeTabular(result, f)
	default:
		err = errors.Errorf("unknown output format '%s'", format)
	}

	if err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return errors.Wrap(err, "closing output file")
	}
	return errors.Wrap(os.Rename(tmp, path), "renaming output file")
}

func writeStructured(result *Result, f *os.File) error {
	out := structuredResult{}
	for _, bags := range result.Rounds {
		round := make(map[int64][]*pareto.Label, len(bags))
		for nodeID, bag := range bags {
			round[nodeID] = bag.Labels()
		}
		out.Rounds = append(out.Rounds, round)
	}
	if result.PathManager != nil {
		out.Segments = result.PathManager.Segments()
	}
	return errors.Wrap(gob.NewEncoder(f).Encode(&out), "encoding result")
}

func writeTabular(result *Result, f *os.File) error {
	return errors.Wrap(gocsv.Marshal(Rows(result), f), "encoding result")
}

// Rows flattens a result into the tabular shape, one row per label per
// round
func Rows(result *Result) []LabelRow {
	rows := make([]LabelRow, 0)
	for round, bags := range result.Rounds {
		for _, nodeID := range NodeIDs(bags) {
			for _, l := range bags[nodeID].Labels() {
				rows = append(rows, LabelRow{
					OsmNodeID:         nodeID,
					Time:              int64(l.Values[valueTime]),
					Cost:              int64(l.Values[valueCost]),
					NTransfers:        int32(round),
					HumanReadableTime: strtime.FromSeconds(l.Values[valueTime]),
				})
			}
		}
	}
	return rows
}

// ReadStructured loads a result written with FormatStructured
func ReadStructured(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening result file")
	}
	defer f.Close()

	in := structuredResult{}
	if err := gob.NewDecoder(f).Decode(&in); err != nil {
		return nil, errors.Wrap(err, "decoding result")
	}

	result := &Result{}
	for _, round := range in.Rounds {
		bags := make(Bags, len(round))
		for nodeID, labels := range round {
			bag := pareto.NewBag()
			for _, l := range labels {
				bag.Insert(l)
			}
			bags[nodeID] = bag
		}
		result.Rounds = append(result.Rounds, bags)
	}
	if in.Segments != nil {
		result.PathManager = &PathManager{segments: in.Segments}
	}
	return result, nil
}
