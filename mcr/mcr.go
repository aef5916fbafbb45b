// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package mcr

import (
	"github.com/mogottsch/mcr/pareto"
	"github.com/mogottsch/mcr/strtime"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// MCR chains heterogeneous steps into an iterative round structure. The
// initial step lists seed the bags from the origin once; the repeating
// lists run every round, one round per additional vehicle boarding.
type MCR struct {
	initialSteps   [][]Step
	repeatingSteps [][]Step
	pathManager    *PathManager
	numValues      int
	log            *logrus.Logger
}

// Result carries one bag snapshot per round plus the path registry when
// tracking was enabled
type Result struct {
	Rounds      []Bags
	PathManager *PathManager
}

// New builds an orchestrator. The path manager may be nil; numCategories
// fixes the value-vector width shared by all steps.
func New(initialSteps, repeatingSteps [][]Step, pathManager *PathManager, numCategories int, log *logrus.Logger) *MCR {
	return &MCR{
		initialSteps:   initialSteps,
		repeatingSteps: repeatingSteps,
		pathManager:    pathManager,
		numValues:      NumValues(numCategories),
		log:            log,
	}
}

// Run executes the round loop from the origin node. startTime is a
// HH:MM:SS string; maxRounds bounds the number of repeating-list
// iterations.
func (m *MCR) Run(origin int64, startTime string, maxRounds int) (*Result, error) {
	startSeconds, err := strtime.ToSeconds(startTime)
	if err != nil {
		return nil, err
	}

	bags := m.startBags(origin, startSeconds)

	offset := 0
	for _, list := range m.initialSteps {
		bags, _, err = m.runList(list, bags, &offset)
		if err != nil {
			return nil, err
		}
	}

	result := &Result{Rounds: []Bags{bags}, PathManager: m.pathManager}

	for k := 1; k <= maxRounds; k++ {
		acc := CopyBags(result.Rounds[k-1])

		progressed := false
		for _, list := range m.repeatingSteps {
			var added bool
			acc, added, err = m.runList(list, acc, &offset)
			if err != nil {
				return nil, err
			}
			progressed = progressed || added
		}

		result.Rounds = append(result.Rounds, acc)
		m.log.WithFields(logrus.Fields{"round": k, "labels": CountLabels(acc)}).Info("round finished")

		if !progressed {
			m.log.WithField("round", k).Info("no progress, stopping early")
			break
		}
	}

	reached := 0
	for nodeID, bag := range result.Rounds[len(result.Rounds)-1] {
		if nodeID != origin {
			reached += bag.Size()
		}
	}
	if reached == 0 {
		m.log.Warn("no labels reached any non-origin node")
	}

	return result, nil
}

// runList runs every step of the list on the same input and merges the
// outputs into the input. Each list adds one segment layer to the
// labels' paths, so the shared offset advances by one afterwards.
func (m *MCR) runList(list []Step, input Bags, offset *int) (Bags, bool, error) {
	merged := CopyBags(input)
	added := false

	for _, step := range list {
		out, err := step.Run(input, *offset)
		if err != nil {
			return nil, false, errors.Wrapf(err, "running step '%s'", step.Name())
		}
		if MergeBags(merged, out) {
			added = true
		}
	}

	*offset++
	return merged, added, nil
}

func (m *MCR) startBags(origin int64, startSeconds int) Bags {
	seed := pareto.NewLabel(m.numValues, numHidden, origin)
	seed.Values[valueTime] = startSeconds

	bag := pareto.NewBag()
	bag.Insert(seed)
	return Bags{origin: bag}
}
