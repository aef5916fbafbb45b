// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package mcr

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchWritesOneFilePerCell(t *testing.T) {
	data := twoIslandData(false)
	config, err := NewStepConfig(ConfigWalking, data, nil, nil, "", testOptions(nil))
	require.NoError(t, err)

	outputDir := t.TempDir()
	batch := &Batch{
		NewRun: func() (*MCR, error) {
			return New(config.InitialSteps, config.RepeatingSteps, nil, 0, testLogger()), nil
		},
		MaxWorkers: 2,
		Log:        testLogger(),
	}

	mappings := []LocationMapping{
		{H3Cell: "8a1f1d4a5a7ffff", OSMNodeID: 1},
		{H3Cell: "8a1f1d4a5b0ffff", OSMNodeID: 3},
	}
	failures := batch.Run(mappings, "08:00:00", 1, outputDir)
	assert.Empty(t, failures)

	for _, m := range mappings {
		_, err := os.Stat(filepath.Join(outputDir, m.H3Cell+".csv"))
		assert.NoError(t, err, m.H3Cell)
	}
}

func TestBatchCollectsFailures(t *testing.T) {
	batch := &Batch{
		NewRun: func() (*MCR, error) {
			return nil, errors.New("boom")
		},
		MaxWorkers: 1,
		Log:        testLogger(),
	}

	failures := batch.Run([]LocationMapping{{H3Cell: "cell", OSMNodeID: 1}}, "08:00:00", 1, t.TempDir())
	require.Len(t, failures, 1)
	assert.Equal(t, "cell", failures[0].H3Cell)
}
