// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package mcr

import (
	"testing"

	"github.com/mogottsch/mcr/pareto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stopNodes(m map[string]int64) func(string) int64 {
	return func(stopID string) int64 { return m[stopID] }
}

func TestTransitLabelRoundTrip(t *testing.T) {
	src := &pareto.Label{
		Values: []int{54000, 50, 1},
		Hidden: []int{30, 2},
		Path:   []pareto.Token{pareto.NodeToken(0)},
		NodeID: 3,
	}

	tl := newTransitLabel(src, true, stopNodes(map[string]int64{"100": 3, "200": 4}))
	assert.Equal(t, 54000, tl.ArrivalTime())

	tl.UpdateBeforeRouteBagMerge(54300, "100")
	tl.UpdateAlongTrip(54900, "200", "TR1")
	tl.UpdateBeforeStopBagMerge("200")

	out := tl.toPareto(4)
	// time and cost advance, the POI slot survives, the vehicle clock is
	// reset and the stop counter advanced
	assert.Equal(t, []int{54900, 50, 1}, out.Values)
	assert.Equal(t, []int{0, 3}, out.Hidden)
	assert.Equal(t, int64(4), out.NodeID)

	require.Len(t, out.Path, 4)
	assert.Equal(t, pareto.NodeToken(0), out.Path[0])
	assert.Equal(t, pareto.NodeToken(3), out.Path[1])
	assert.Equal(t, pareto.TripToken("TR1"), out.Path[2])
	assert.Equal(t, pareto.NodeToken(4), out.Path[3])
}

func TestTransitLabelAppendsDistinctTokensOnly(t *testing.T) {
	src := &pareto.Label{Values: []int{0, 0}, Hidden: []int{0, 0}}
	tl := newTransitLabel(src, true, stopNodes(map[string]int64{"A": 1, "B": 2, "C": 3}))

	tl.UpdateBeforeRouteBagMerge(100, "A")
	tl.UpdateAlongTrip(200, "B", "T")
	tl.UpdateAlongTrip(300, "C", "T")
	tl.UpdateBeforeStopBagMerge("C")
	tl.UpdateBeforeStopBagMerge("C")

	// A, T, C: the second stop of the same trip does not repeat the trip
	// token, absorbing twice does not repeat the stop token
	assert.Equal(t, []pareto.Token{
		pareto.NodeToken(1), pareto.TripToken("T"), pareto.NodeToken(3),
	}, tl.path)
}

func TestTransitLabelDominance(t *testing.T) {
	mk := func(arrival, cost int) *transitLabel {
		return &transitLabel{arrival: arrival, cost: cost}
	}

	assert.True(t, mk(100, 5).StrictlyDominates(mk(150, 5)))
	assert.True(t, mk(100, 5).StrictlyDominates(mk(100, 5)))
	assert.False(t, mk(100, 5).StrictlyDominates(mk(150, 3)))
}

func TestTransitLabelCopyIsDeep(t *testing.T) {
	src := &pareto.Label{Values: []int{0, 0, 0}, Hidden: []int{0, 0}}
	tl := newTransitLabel(src, true, stopNodes(map[string]int64{"A": 1}))
	tl.UpdateBeforeRouteBagMerge(100, "A")

	c := tl.Copy().(*transitLabel)
	c.UpdateAlongTrip(200, "A", "T")

	assert.Len(t, tl.path, 1)
	assert.False(t, tl.rode)
	assert.True(t, c.rode)
}
