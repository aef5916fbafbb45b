// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package mcr

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mogottsch/mcr/pareto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *Result {
	mk := func(time, cost int, node int64) *pareto.Bag {
		l := &pareto.Label{Values: []int{time, cost}, Hidden: []int{0, 0}, NodeID: node}
		b := pareto.NewBag()
		b.Insert(l)
		return b
	}

	return &Result{
		Rounds: []Bags{
			{1: mk(54000, 0, 1)},
			{1: mk(54000, 0, 1), 2: mk(54200, 100, 2)},
		},
	}
}

func TestRowsFlattenResult(t *testing.T) {
	rows := Rows(sampleResult())
	require.Len(t, rows, 3)

	assert.Equal(t, LabelRow{
		OsmNodeID: 1, Time: 54000, Cost: 0, NTransfers: 0, HumanReadableTime: "15:00:00",
	}, rows[0])
	assert.Equal(t, LabelRow{
		OsmNodeID: 2, Time: 54200, Cost: 100, NTransfers: 1, HumanReadableTime: "15:03:20",
	}, rows[2])
}

func TestWriteTabular(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bags.csv")
	require.NoError(t, Write(sampleResult(), FormatTabular, path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(raw)

	assert.True(t, strings.HasPrefix(content, "osm_node_id,time,cost,n_transfers,human_readable_time"))
	assert.Contains(t, content, "2,54200,100,1,15:03:20")
}

func TestWriteStructuredRoundTrip(t *testing.T) {
	result := sampleResult()
	result.PathManager = NewPathManager()
	result.PathManager.add(PathWalking, []pareto.Token{pareto.NodeToken(1)})

	path := filepath.Join(t.TempDir(), "bags.bin")
	require.NoError(t, Write(result, FormatStructured, path))

	loaded, err := ReadStructured(path)
	require.NoError(t, err)
	require.Len(t, loaded.Rounds, 2)
	assert.Equal(t, 54200, loaded.Rounds[1][2].Labels()[0].Values[0])
	require.NotNil(t, loaded.PathManager)
	assert.Equal(t, 1, loaded.PathManager.NumSegments())
}

func TestWriteUnknownFormatLeavesNoFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bags.out")
	require.Error(t, Write(sampleResult(), OutputFormat("parquet"), path))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
