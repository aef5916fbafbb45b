// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package mcr

import (
	"github.com/mogottsch/mcr/pareto"
	"github.com/mogottsch/mcr/raptor"
)

// Label value-vector layout: slot 0 is arrival time, slot 1 is monetary
// cost, slots 2.. count visited POI categories. Hidden layout: slot 0 is
// seconds spent on the current vehicle, slot 1 counts the transit stops
// ridden so far and is never reset.
const (
	valueTime = 0
	valueCost = 1

	hiddenModeTime = 0
	hiddenNumStops = 1

	numHidden = 2
)

// NumValues returns the value-vector width for a run counting the given
// number of POI categories
func NumValues(numCategories int) int {
	return 2 + numCategories
}

// transitLabel adapts a pareto label to the McRAPTOR label interface for
// the public-transport step. Dominance is on (time, cost); the POI
// slots ride along untouched, the hidden vehicle clock is not carried
// and comes back as zero (see toPareto). stopNode
// translates a stop id to the OSM node recorded in path tokens.
type transitLabel struct {
	arrival   int
	cost      int
	numStops  int
	extra     []int
	path      []pareto.Token
	rode      bool
	trackPath bool
	stopNode  func(stopID string) int64
}

func newTransitLabel(l *pareto.Label, trackPath bool, stopNode func(string) int64) *transitLabel {
	ret := &transitLabel{
		arrival:   l.Values[valueTime],
		cost:      l.Values[valueCost],
		numStops:  l.Hidden[hiddenNumStops],
		extra:     append([]int(nil), l.Values[2:]...),
		trackPath: trackPath,
		stopNode:  stopNode,
	}
	if trackPath {
		ret.path = append([]pareto.Token(nil), l.Path...)
	}
	return ret
}

func (l *transitLabel) StrictlyDominates(other raptor.Label) bool {
	o := other.(*transitLabel)
	return l.arrival <= o.arrival && l.cost <= o.cost
}

func (l *transitLabel) ArrivalTime() int { return l.arrival }

func (l *transitLabel) UpdateAlongTrip(arrivalTime int, stopID, tripID string) {
	l.arrival = arrivalTime
	l.numStops++
	l.rode = true
	if l.trackPath {
		l.appendToken(pareto.TripToken(tripID))
	}
}

func (l *transitLabel) UpdateAlongFootpath(walkingTime int, stopID string) {
	l.arrival += walkingTime
	if l.trackPath {
		l.appendToken(pareto.NodeToken(l.stopNode(stopID)))
	}
}

func (l *transitLabel) UpdateBeforeRouteBagMerge(departureTime int, stopID string) {
	l.arrival = departureTime
	if l.trackPath {
		l.appendToken(pareto.NodeToken(l.stopNode(stopID)))
	}
}

func (l *transitLabel) UpdateBeforeStopBagMerge(stopID string) {
	if l.trackPath {
		l.appendToken(pareto.NodeToken(l.stopNode(stopID)))
	}
}

// appendToken appends iff the last token differs, so riding and
// absorbing at the same stop record it once
func (l *transitLabel) appendToken(tok pareto.Token) {
	if len(l.path) > 0 && l.path[len(l.path)-1] == tok {
		return
	}
	l.path = append(l.path, tok)
}

func (l *transitLabel) Copy() raptor.Label {
	c := *l
	c.extra = append([]int(nil), l.extra...)
	c.path = append([]pareto.Token(nil), l.path...)
	return &c
}

// toPareto converts the label back to the external shape at the given
// OSM node. The vehicle-time slot is zero: leaving the network means
// leaving the vehicle.
func (l *transitLabel) toPareto(nodeID int64) *pareto.Label {
	values := make([]int, 0, 2+len(l.extra))
	values = append(values, l.arrival, l.cost)
	values = append(values, l.extra...)

	ret := &pareto.Label{
		Values: values,
		Hidden: []int{0, l.numStops},
		NodeID: nodeID,
	}
	if l.trackPath {
		ret.Path = append([]pareto.Token(nil), l.path...)
	}
	return ret
}
