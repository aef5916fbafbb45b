// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package timetable

import (
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

// TripRow is one entry of the flat trips table
type TripRow struct {
	TripID  string
	RouteID string
}

// StopTimeRow is one entry of the flat stop-times table. Times are
// integer seconds since the day origin; values >= 24h address next-day
// services.
type StopTimeRow struct {
	TripID    string
	StopID    string
	Arrival   int
	Departure int
	Sequence  int
}

// StopTimes is the (arrival, departure) pair of a trip at a stop
type StopTimes struct {
	Arrival   int
	Departure int
}

// Timetable is the canonicalised read-only form of a feed: precomputed
// tables supporting O(1) stop/route/trip lookups. Routes are split so
// every trip on a route visits the same stops in the same order, and
// trips per route are sorted by departure at the route's first stop.
type Timetable struct {
	StopTimesByTrip   map[string][]StopTimeRow
	TripIdsByRoute    map[string][]string
	StopsByRoute      map[string][]string
	RoutesByStop      map[string][]string
	IdxByStopByRoute  map[string]map[string]int
	TimesByStopByTrip map[string]map[string]StopTimes
	StopIdSet         map[string]bool
	RouteIdSet        map[string]bool
	TripIdSet         map[string]bool
}

// Build derives all lookup tables from the two flat tables
func Build(trips []TripRow, stopTimes []StopTimeRow) (*Timetable, error) {
	tt := &Timetable{
		StopTimesByTrip:   make(map[string][]StopTimeRow),
		TripIdsByRoute:    make(map[string][]string),
		StopsByRoute:      make(map[string][]string),
		RoutesByStop:      make(map[string][]string),
		IdxByStopByRoute:  make(map[string]map[string]int),
		TimesByStopByTrip: make(map[string]map[string]StopTimes),
		StopIdSet:         make(map[string]bool),
		RouteIdSet:        make(map[string]bool),
		TripIdSet:         make(map[string]bool),
	}

	for _, st := range stopTimes {
		tt.StopTimesByTrip[st.TripID] = append(tt.StopTimesByTrip[st.TripID], st)
	}
	for tripID := range tt.StopTimesByTrip {
		rows := tt.StopTimesByTrip[tripID]
		slices.SortFunc(rows, func(a, b StopTimeRow) int {
			return a.Sequence - b.Sequence
		})
	}

	for _, tr := range trips {
		if _, ok := tt.StopTimesByTrip[tr.TripID]; !ok {
			return nil, errors.Errorf("trip '%s' has no stop times", tr.TripID)
		}
		tt.TripIdsByRoute[tr.RouteID] = append(tt.TripIdsByRoute[tr.RouteID], tr.TripID)
		tt.RouteIdSet[tr.RouteID] = true
		tt.TripIdSet[tr.TripID] = true
	}

	// trips per route ordered by departure at the first stop, trip-id
	// lexical tie-break, so earliest-trip scans are deterministic
	for routeID := range tt.TripIdsByRoute {
		ids := tt.TripIdsByRoute[routeID]
		slices.SortFunc(ids, func(a, b string) int {
			da := tt.StopTimesByTrip[a][0].Departure
			db := tt.StopTimesByTrip[b][0].Departure
			if da != db {
				return da - db
			}
			return strings.Compare(a, b)
		})
	}

	for routeID, tripIDs := range tt.TripIdsByRoute {
		seen := make(map[string]struct{})
		for _, tripID := range tripIDs {
			for _, st := range tt.StopTimesByTrip[tripID] {
				if _, ok := seen[st.StopID]; !ok {
					seen[st.StopID] = struct{}{}
					tt.StopsByRoute[routeID] = append(tt.StopsByRoute[routeID], st.StopID)
				}
			}
		}
	}

	for routeID, stops := range tt.StopsByRoute {
		idx := make(map[string]int, len(stops))
		for i, s := range stops {
			idx[s] = i
		}
		tt.IdxByStopByRoute[routeID] = idx

		for _, s := range stops {
			tt.RoutesByStop[s] = append(tt.RoutesByStop[s], routeID)
			tt.StopIdSet[s] = true
		}
	}
	for s := range tt.RoutesByStop {
		slices.Sort(tt.RoutesByStop[s])
	}

	for tripID, rows := range tt.StopTimesByTrip {
		times := make(map[string]StopTimes, len(rows))
		for _, st := range rows {
			times[st.StopID] = StopTimes{Arrival: st.Arrival, Departure: st.Departure}
		}
		tt.TimesByStopByTrip[tripID] = times
	}

	return tt, nil
}

// StopIDs returns the sorted stop ids of the timetable
func (tt *Timetable) StopIDs() []string {
	ids := make([]string, 0, len(tt.StopIdSet))
	for s := range tt.StopIdSet {
		ids = append(ids, s)
	}
	slices.Sort(ids)
	return ids
}

// RouteIDs returns the sorted route ids of the timetable
func (tt *Timetable) RouteIDs() []string {
	ids := make([]string, 0, len(tt.TripIdsByRoute))
	for r := range tt.TripIdsByRoute {
		ids = append(ids, r)
	}
	slices.Sort(ids)
	return ids
}

// ArrivalAt returns the arrival time of a trip at a stop
func (tt *Timetable) ArrivalAt(tripID, stopID string) (int, error) {
	times, ok := tt.TimesByStopByTrip[tripID]
	if !ok {
		return 0, errors.Errorf("unknown trip '%s'", tripID)
	}
	st, ok := times[stopID]
	if !ok {
		return 0, errors.Errorf("trip '%s' does not serve stop '%s'", tripID, stopID)
	}
	return st.Arrival, nil
}

// DepartureAt returns the departure time of a trip at a stop
func (tt *Timetable) DepartureAt(tripID, stopID string) (int, error) {
	times, ok := tt.TimesByStopByTrip[tripID]
	if !ok {
		return 0, errors.Errorf("unknown trip '%s'", tripID)
	}
	st, ok := times[stopID]
	if !ok {
		return 0, errors.Errorf("trip '%s' does not serve stop '%s'", tripID, stopID)
	}
	return st.Departure, nil
}

// validateSampleSize bounds the FIFO check to a subset of routes
const validateSampleSize = 50

// Validate asserts the presence of all tables and checks the FIFO
// invariant on a sampled subset of routes: along every trip, no departure
// is later than the arrival at the next stop, and any two trips keep their relative
// departure order at every shared stop.
func (tt *Timetable) Validate() error {
	if tt.StopTimesByTrip == nil || tt.TripIdsByRoute == nil || tt.StopsByRoute == nil ||
		tt.RoutesByStop == nil || tt.IdxByStopByRoute == nil || tt.TimesByStopByTrip == nil ||
		tt.StopIdSet == nil || tt.RouteIdSet == nil || tt.TripIdSet == nil {
		return errors.New("timetable is missing required tables")
	}

	for stopID := range tt.RoutesByStop {
		if _, ok := tt.StopIdSet[stopID]; !ok {
			return errors.Errorf("stop '%s' served by routes but missing from the stop id set", stopID)
		}
	}

	routes := tt.RouteIDs()
	if len(routes) > validateSampleSize {
		routes = routes[:validateSampleSize]
	}

	for _, routeID := range routes {
		stops := tt.StopsByRoute[routeID]
		trips := tt.TripIdsByRoute[routeID]

		for _, tripID := range trips {
			for i := 0; i+1 < len(stops); i++ {
				dep, err := tt.DepartureAt(tripID, stops[i])
				if err != nil {
					return err
				}
				arr, err := tt.ArrivalAt(tripID, stops[i+1])
				if err != nil {
					return err
				}
				if dep > arr {
					return errors.Errorf("trip '%s' departs stop '%s' after arriving at stop '%s'",
						tripID, stops[i], stops[i+1])
				}
			}
		}

		for i := 0; i+1 < len(trips); i++ {
			for _, s := range stops {
				depA, err := tt.DepartureAt(trips[i], s)
				if err != nil {
					return err
				}
				depB, err := tt.DepartureAt(trips[i+1], s)
				if err != nil {
					return err
				}
				if depA > depB {
					return errors.Errorf("trips '%s' and '%s' overtake each other at stop '%s'",
						trips[i], trips[i+1], s)
				}
			}
		}
	}

	return nil
}
