// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package mcr

import (
	"github.com/mogottsch/mcr/pareto"
	"github.com/mogottsch/mcr/raptor"
	"github.com/mogottsch/mcr/timetable"
	"github.com/sirupsen/logrus"
)

// DefaultMinTransferTime is the minimum time in seconds between arriving
// at a stop and boarding a trip there
const DefaultMinTransferTime = 60

// publicTransportStep wraps a single McRAPTOR scan. Only OSM nodes that
// are the nearest node of a GTFS stop enter the timetable; results come
// back at those nodes. Labels that never rode a trip are discarded, the
// input bags already cover them.
type publicTransportStep struct {
	log        *logrus.Logger
	single     *raptor.McRaptorSingle
	stopByNode map[int64]string
	nodeByStop map[string]int64

	pathManager *PathManager
}

// NewPublicTransportStep builds the timetable step from the stop
// attachments of the street graph
func NewPublicTransportStep(tt *timetable.Timetable, stops []StopMapping, opts Options) (Step, error) {
	stopByNode := make(map[int64]string, len(stops))
	nodeByStop := make(map[string]int64, len(stops))
	for _, m := range stops {
		if _, ok := tt.StopIdSet[m.StopID]; !ok {
			continue
		}
		stopByNode[m.NodeID] = m.StopID
		nodeByStop[m.StopID] = m.NodeID
	}

	return &publicTransportStep{
		log:         opts.Log,
		single:      raptor.NewMcRaptorSingle(tt, DefaultMinTransferTime, opts.Log),
		stopByNode:  stopByNode,
		nodeByStop:  nodeByStop,
		pathManager: opts.PathManager,
	}, nil
}

func (s *publicTransportStep) Name() string {
	return "public_transport"
}

func (s *publicTransportStep) Run(input Bags, pathIndexOffset int) (Bags, error) {
	prepared := s.prepare(input)
	if len(prepared) == 0 {
		s.log.Warn("not a single stop is reached, skipping the timetable scan")
		return Bags{}, nil
	}

	raw, err := s.single.Run(prepared)
	if err != nil {
		return nil, err
	}

	return s.convert(raw, pathIndexOffset), nil
}

func (s *publicTransportStep) prepare(input Bags) map[string]*raptor.Bag {
	trackPath := s.pathManager != nil

	prepared := make(map[string]*raptor.Bag)
	for nodeID, bag := range input {
		stopID, ok := s.stopByNode[nodeID]
		if !ok {
			continue
		}

		seed := raptor.NewBag()
		for _, l := range bag.Labels() {
			seed.Insert(newTransitLabel(l, trackPath, s.stopNode))
		}
		prepared[stopID] = seed
	}
	return prepared
}

func (s *publicTransportStep) convert(raw map[string]*raptor.Bag, pathIndexOffset int) Bags {
	ret := make(Bags)
	for stopID, bag := range raw {
		nodeID, ok := s.nodeByStop[stopID]
		if !ok {
			continue
		}

		var out *pareto.Bag
		for _, l := range bag.Labels() {
			tl := l.(*transitLabel)
			if !tl.rode {
				continue
			}
			if out == nil {
				out = pareto.NewBag()
			}
			out.Insert(tl.toPareto(nodeID))
		}
		if out != nil {
			ret[nodeID] = out
		}
	}

	if s.pathManager != nil {
		s.pathManager.ExtractAll(ret, PathPublicTransport, pathIndexOffset)
	}
	return ret
}

func (s *publicTransportStep) stopNode(stopID string) int64 {
	return s.nodeByStop[stopID]
}
