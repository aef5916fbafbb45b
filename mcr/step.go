// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package mcr

import (
	"github.com/mogottsch/mcr/mlc"
	"github.com/mogottsch/mcr/pareto"
	"github.com/sirupsen/logrus"
)

// A Step is one stage of the MCR pipeline: it consumes a bag dictionary
// keyed by OSM node id and produces a fresh one in the same id space.
// pathIndexOffset is the segment depth of the input labels' paths; the
// step slices everything it appended past that index into the path
// manager.
type Step interface {
	Name() string
	Run(input Bags, pathIndexOffset int) (Bags, error)
}

// mlcStep wraps an MLC engine invocation: translate external node ids
// into the graph's id space, restrict to valid starting nodes, run,
// translate back, filter end nodes, record paths, then apply the
// after-conversion mutation.
type mlcStep struct {
	name        string
	log         *logrus.Logger
	engine      *mlc.Engine
	graph       *modalGraph
	pathManager *PathManager
	pathType    PathType

	// nil means no restriction
	validStart map[int64]struct{}

	// applied to every converted label, e.g. to model dismounting
	afterConvert func(*pareto.Label)
}

func (s *mlcStep) Name() string {
	return s.name
}

func (s *mlcStep) Run(input Bags, pathIndexOffset int) (Bags, error) {
	prepared := s.prepare(input)
	if len(prepared) == 0 {
		s.log.WithField("step", s.name).Warn("no valid starting nodes reached, returning no labels")
		return Bags{}, nil
	}

	raw, err := s.engine.RunWithBags(prepared)
	if err != nil {
		return nil, err
	}

	return s.convert(raw, pathIndexOffset), nil
}

func (s *mlcStep) prepare(input Bags) map[int]*pareto.Bag {
	prepared := make(map[int]*pareto.Bag)
	for nodeID, bag := range input {
		if s.validStart != nil {
			if _, ok := s.validStart[nodeID]; !ok {
				continue
			}
		}
		internal, ok := s.graph.entry.toInternal[nodeID]
		if !ok {
			continue
		}

		prepared[internal] = bag.Map(func(l *pareto.Label) *pareto.Label {
			l.NodeID = int64(internal)
			return l
		})
	}
	return prepared
}

func (s *mlcStep) convert(raw map[int]*pareto.Bag, pathIndexOffset int) Bags {
	ret := make(Bags)
	for internal, bag := range raw {
		if bag.Size() == 0 {
			continue
		}
		nodeID, ok := s.graph.exit.fromInternal[internal]
		if !ok {
			// a node of the vehicle side of a multi-modal graph
			continue
		}

		// the after-hook runs before re-insertion: labels differing only
		// in reset hidden state collapse here instead of surviving as
		// duplicates
		ret[nodeID] = bag.Map(func(l *pareto.Label) *pareto.Label {
			l.NodeID = nodeID
			if s.afterConvert != nil {
				s.afterConvert(l)
			}
			return l
		})
	}

	if s.pathManager != nil {
		s.pathManager.ExtractAll(ret, s.pathType, pathIndexOffset)
	}
	return ret
}

// resetModeTime is the after-hook of the vehicle steps: converted labels
// stand on the walking side again, so the vehicle clock restarts
func resetModeTime(l *pareto.Label) {
	l.Hidden[hiddenModeTime] = 0
}
