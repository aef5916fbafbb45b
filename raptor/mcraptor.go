// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package raptor

import (
	"github.com/mogottsch/mcr/timetable"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/slices"
)

// Footpaths maps a stop to its walkable neighbour stops and the walking
// time in seconds
type Footpaths map[string]map[string]int

// LabelFactory creates the label seeded at the origin stop
type LabelFactory func(time int, stopID string) Label

// McRaptor computes Pareto-optimal journeys by round over a timetable,
// alternating route-scanning and footpath-relaxation phases. One round
// corresponds to one additional boarding.
type McRaptor struct {
	tt              *timetable.Timetable
	footpaths       Footpaths
	maxTransfers    int
	minTransferTime int
	newLabel        LabelFactory
	log             *logrus.Logger
}

// NewMcRaptor builds an engine over the given timetable. footpaths may
// be nil; the label factory decides the attribute space searched.
func NewMcRaptor(tt *timetable.Timetable, footpaths Footpaths, maxTransfers, minTransferTime int, newLabel LabelFactory, log *logrus.Logger) *McRaptor {
	return &McRaptor{
		tt:              tt,
		footpaths:       footpaths,
		maxTransfers:    maxTransfers,
		minTransferTime: minTransferTime,
		newLabel:        newLabel,
		log:             log,
	}
}

// Run computes the bags at every reachable stop for journeys starting at
// startStop at startTime, using at most the configured number of
// boardings.
func (r *McRaptor) Run(startStop string, startTime int) (map[string]*Bag, error) {
	if _, ok := r.tt.StopIdSet[startStop]; !ok {
		return nil, errors.Errorf("start stop '%s' not in timetable", startStop)
	}

	bags := make(map[string]*Bag, len(r.tt.StopIdSet))
	for stopID := range r.tt.StopIdSet {
		bags[stopID] = NewBag()
	}
	bags[startStop].Insert(r.newLabel(startTime, startStop))

	marked := map[string]struct{}{startStop: {}}

	for k := 1; k <= r.maxTransfers; k++ {
		q := collectQ(r.tt, marked)

		// labels board from the previous round's bags, so a round adds at
		// most one boarding to any journey
		board := make(map[string]*Bag, len(bags))
		for stopID, bag := range bags {
			board[stopID] = bag.Copy()
		}

		var err error
		marked, err = processRoutes(r.tt, q, board, bags, r.minTransferTime)
		if err != nil {
			return nil, err
		}

		for _, stopID := range r.relaxFootpaths(bags, marked) {
			marked[stopID] = struct{}{}
		}

		r.log.WithFields(logrus.Fields{"round": k, "marked": len(marked)}).Debug("round finished")

		if len(marked) == 0 {
			break
		}
	}

	return bags, nil
}

// relaxFootpaths walks every footpath out of a marked stop and merges
// the walked labels into the target stop's bag. Returns the additionally
// marked stops.
func (r *McRaptor) relaxFootpaths(bags map[string]*Bag, marked map[string]struct{}) []string {
	if r.footpaths == nil {
		return nil
	}

	var additional []string
	for _, stopID := range sortedKeys(marked) {
		for _, nearby := range sortedIntKeys(r.footpaths[stopID]) {
			if nearby == stopID {
				// a footpath from a stop to itself is meaningless
				continue
			}
			walkingTime := r.footpaths[stopID][nearby]

			target, ok := bags[nearby]
			if !ok {
				target = NewBag()
				bags[nearby] = target
			}

			added := false
			for _, l := range bags[stopID].Labels() {
				walked := l.Copy()
				walked.UpdateAlongFootpath(walkingTime, nearby)
				if target.Insert(walked) {
					added = true
				}
			}
			if added {
				additional = append(additional, nearby)
			}
		}
	}
	return additional
}

// McRaptorSingle runs one route-scan pass seeded by pre-built bags, the
// shape used for chaining a public-transport stage between other modes.
type McRaptorSingle struct {
	tt              *timetable.Timetable
	minTransferTime int
	log             *logrus.Logger
}

// NewMcRaptorSingle builds a bag-seeded engine over the given timetable
func NewMcRaptorSingle(tt *timetable.Timetable, minTransferTime int, log *logrus.Logger) *McRaptorSingle {
	return &McRaptorSingle{tt: tt, minTransferTime: minTransferTime, log: log}
}

// Run scans all routes reachable from the seeded stops once and returns
// the resulting bags. Input bags are borrowed, not modified.
func (r *McRaptorSingle) Run(input map[string]*Bag) (map[string]*Bag, error) {
	if len(r.tt.TripIdsByRoute) == 0 {
		// nothing to scan, hand the seeds back unchanged
		output := make(map[string]*Bag, len(input))
		for stopID, bag := range input {
			output[stopID] = bag.Copy()
		}
		return output, nil
	}

	for stopID := range input {
		if _, ok := r.tt.StopIdSet[stopID]; !ok {
			return nil, errors.Errorf("seeded stop '%s' not in timetable", stopID)
		}
	}

	output := make(map[string]*Bag, len(r.tt.StopIdSet))
	for stopID := range r.tt.StopIdSet {
		if bag, ok := input[stopID]; ok {
			output[stopID] = bag.Copy()
		} else {
			output[stopID] = NewBag()
		}
	}

	marked := make(map[string]struct{}, len(input))
	for stopID, bag := range input {
		if bag.Size() > 0 {
			marked[stopID] = struct{}{}
		}
	}

	q := collectQ(r.tt, marked)
	marked, err := processRoutes(r.tt, q, input, output, r.minTransferTime)
	if err != nil {
		return nil, err
	}

	if len(marked) == 0 {
		r.log.Debug("no stop improved by the route scan")
	}

	return output, nil
}

// queueEntry points a route at the earliest position a marked stop holds
// on it
type queueEntry struct {
	routeID string
	idx     int
}

// collectQ gathers, for every route serving a marked stop, the earliest
// position to start scanning from
func collectQ(tt *timetable.Timetable, marked map[string]struct{}) []queueEntry {
	byRoute := make(map[string]int)
	for stopID := range marked {
		for _, routeID := range tt.RoutesByStop[stopID] {
			idx := tt.IdxByStopByRoute[routeID][stopID]
			if cur, ok := byRoute[routeID]; !ok || idx < cur {
				byRoute[routeID] = idx
			}
		}
	}

	entries := make([]queueEntry, 0, len(byRoute))
	for _, routeID := range sortedIntKeys(byRoute) {
		entries = append(entries, queueEntry{routeID: routeID, idx: byRoute[routeID]})
	}
	return entries
}

// processRoutes scans every queued route. Labels board from the bags in
// `board`, ride along the route, and are absorbed into the bags in
// `output`; the round-based engine passes a snapshot of the previous
// round's bags as `board`.
// Returns the stops whose output bag gained a label.
func processRoutes(tt *timetable.Timetable, q []queueEntry, board, output map[string]*Bag, minTransferTime int) (map[string]struct{}, error) {
	marked := make(map[string]struct{})

	for _, entry := range q {
		routeBag := NewRouteBag()

		for _, stopID := range tt.StopsByRoute[entry.routeID][entry.idx:] {
			// ride every label in the route bag on to this stop
			for _, e := range routeBag.entries {
				arrival, err := tt.ArrivalAt(e.trip, stopID)
				if err != nil {
					return nil, err
				}
				e.label.UpdateAlongTrip(arrival, stopID, e.trip)
			}

			// absorb the riding labels into the stop's bag
			target, ok := output[stopID]
			if !ok {
				target = NewBag()
				output[stopID] = target
			}
			for _, e := range routeBag.entries {
				absorbed := e.label.Copy()
				absorbed.UpdateBeforeStopBagMerge(stopID)
				if target.Insert(absorbed) {
					marked[stopID] = struct{}{}
				}
			}

			// board the earliest reachable trip from the stop's bag
			if seed, ok := board[stopID]; ok {
				for _, l := range seed.Labels() {
					trip, departure, err := earliestTrip(tt, entry.routeID, stopID, l.ArrivalTime()+minTransferTime)
					if err != nil {
						return nil, err
					}
					if trip == "" {
						continue
					}
					boarding := l.Copy()
					boarding.UpdateBeforeRouteBagMerge(departure, stopID)
					routeBag.Insert(boarding, trip)
				}
			}
		}
	}

	return marked, nil
}

// earliestTrip finds the first trip of the route departing the stop at
// or after ready. Trips are scanned in departure order with a trip-id
// tie-break, so the choice is deterministic.
func earliestTrip(tt *timetable.Timetable, routeID, stopID string, ready int) (string, int, error) {
	for _, tripID := range tt.TripIdsByRoute[routeID] {
		departure, err := tt.DepartureAt(tripID, stopID)
		if err != nil {
			return "", 0, err
		}
		if departure >= ready {
			return tripID, departure, nil
		}
	}
	return "", 0, nil
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func sortedIntKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
