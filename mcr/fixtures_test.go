// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package mcr

import (
	"testing"

	"github.com/mogottsch/mcr/timetable"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

// twoIslandData builds a walking graph of two disconnected components:
// nodes 1-2-3 and nodes 4-5, 140m per edge (100s on foot). A bicycle
// waits at node 2 when withBicycle is set.
func twoIslandData(withBicycle bool) *OSMData {
	return &OSMData{
		Nodes: []Node{
			{ID: 1}, {ID: 2, HasBicycle: withBicycle}, {ID: 3}, {ID: 4}, {ID: 5},
		},
		Edges: bothWays([]Edge{
			{U: 1, V: 2, Length: 140},
			{U: 2, V: 3, Length: 140},
			{U: 4, V: 5, Length: 140},
		}),
	}
}

// cyclingBridge is a cycling network bridging the two walking islands
// between nodes 2 and 4 (560m, 140s by bike)
func cyclingBridge() *Network {
	return &Network{
		Nodes: []Node{{ID: 2}, {ID: 4}},
		Edges: bothWays([]Edge{{U: 2, V: 4, Length: 560}}),
	}
}

func bothWays(edges []Edge) []Edge {
	ret := make([]Edge, 0, 2*len(edges))
	for _, e := range edges {
		ret = append(ret, e, Edge{U: e.V, V: e.U, Length: e.Length})
	}
	return ret
}

// bridgeTimetable is a one-route timetable crossing from the first
// island (stop 100 at node 3) to the second (stop 200 at node 4)
func bridgeTimetable(t *testing.T) *timetable.Timetable {
	trips := []timetable.TripRow{{TripID: "TR1", RouteID: "B_0_A"}}
	stopTimes := []timetable.StopTimeRow{
		{TripID: "TR1", StopID: "100", Arrival: 54300, Departure: 54300, Sequence: 0},
		{TripID: "TR1", StopID: "200", Arrival: 54900, Departure: 54900, Sequence: 1},
	}
	tt, err := timetable.Build(trips, stopTimes)
	require.NoError(t, err)
	return tt
}

func bridgeStops() []StopMapping {
	return []StopMapping{
		{StopID: "100", NodeID: 3},
		{StopID: "200", NodeID: 4},
	}
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func testOptions(pm *PathManager) Options {
	return Options{Log: testLogger(), PathManager: pm}
}
