// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package mlc

import (
	"testing"

	"github.com/mogottsch/mcr/pareto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// a diamond with a fast-expensive and a slow-cheap branch
//
//	0 --(100s, 50c)--> 1 --(10s, 0c)--> 3
//	0 --(300s,  0c)--> 2 --(10s, 0c)--> 3
func diamondCache(t *testing.T) *GraphCache {
	gc := NewGraphCache()
	err := gc.SetGraph([]EdgeRecord{
		{U: 0, V: 1, Weights: []int{100, 50}, HiddenWeights: []int{0}},
		{U: 0, V: 2, Weights: []int{300, 0}, HiddenWeights: []int{0}},
		{U: 1, V: 3, Weights: []int{10, 0}, HiddenWeights: []int{0}},
		{U: 2, V: 3, Weights: []int{10, 0}, HiddenWeights: []int{0}},
	})
	require.NoError(t, err)
	return gc
}

func TestRunFromNodeParetoFrontier(t *testing.T) {
	eng, err := NewEngine(diamondCache(t), Options{})
	require.NoError(t, err)

	bags, err := eng.RunFromNode(0, 0)
	require.NoError(t, err)

	// both trade-offs survive at the sink
	require.Contains(t, bags, 3)
	sink := bags[3]
	require.Equal(t, 2, sink.Size())
	assert.Equal(t, []int{110, 50}, sink.Labels()[0].Values)
	assert.Equal(t, []int{310, 0}, sink.Labels()[1].Values)
}

func TestTimeMonotonicityAlongPaths(t *testing.T) {
	eng, err := NewEngine(diamondCache(t), Options{})
	require.NoError(t, err)

	bags, err := eng.RunFromNode(0, 1000)
	require.NoError(t, err)

	for _, bag := range bags {
		for _, l := range bag.Labels() {
			assert.GreaterOrEqual(t, l.Values[0], 1000)
		}
	}
}

func TestPathAccumulation(t *testing.T) {
	eng, err := NewEngine(diamondCache(t), Options{})
	require.NoError(t, err)

	bags, err := eng.RunFromNode(0, 0)
	require.NoError(t, err)

	for _, l := range bags[3].Labels() {
		require.Len(t, l.Path, 3)
		assert.Equal(t, int64(0), l.Path[0].Node)
		assert.Equal(t, int64(3), l.Path[2].Node)
	}

	eng, err = NewEngine(diamondCache(t), Options{DisablePaths: true})
	require.NoError(t, err)
	bags, err = eng.RunFromNode(0, 0)
	require.NoError(t, err)
	for _, l := range bags[3].Labels() {
		assert.Empty(t, l.Path)
	}
}

func TestRunWithBagsChains(t *testing.T) {
	eng, err := NewEngine(diamondCache(t), Options{DisablePaths: true})
	require.NoError(t, err)

	seed := pareto.NewBag()
	l := pareto.NewLabel(2, 1, 1)
	l.Values[0] = 500
	seed.Insert(l)

	bags, err := eng.RunWithBags(map[int]*pareto.Bag{1: seed})
	require.NoError(t, err)

	require.Contains(t, bags, 3)
	assert.Equal(t, []int{510, 0}, bags[3].Labels()[0].Values)
}

func TestEnableLimitKeepsComponentMinima(t *testing.T) {
	eng, err := NewEngine(diamondCache(t), Options{EnableLimit: true, DisablePaths: true})
	require.NoError(t, err)

	bags, err := eng.RunFromNode(0, 0)
	require.NoError(t, err)

	// both labels at the sink improve some component minimum
	assert.Equal(t, 2, bags[3].Size())
}

func TestUnknownRuleIsFatal(t *testing.T) {
	_, err := NewEngine(diamondCache(t), Options{UpdateRuleName: "no_such_rule"})
	assert.Error(t, err)
}

func TestNodeOutOfRangeIsFatal(t *testing.T) {
	eng, err := NewEngine(diamondCache(t), Options{})
	require.NoError(t, err)

	_, err = eng.RunFromNode(99, 0)
	assert.Error(t, err)
}

func TestNegativeWeightRejected(t *testing.T) {
	gc := NewGraphCache()
	err := gc.SetGraph([]EdgeRecord{
		{U: 0, V: 1, Weights: []int{-5, 0}, HiddenWeights: []int{}},
	})
	assert.Error(t, err)
}

func TestCategoryVisitSaturates(t *testing.T) {
	// category 0 co-locates at the middle node of a two-edge chain
	gc := NewGraphCache()
	err := gc.SetGraph([]EdgeRecord{
		{U: 0, V: 1, Weights: []int{10, 0, 0}, HiddenWeights: []int{}},
		{U: 1, V: 2, Weights: []int{10, 0, 0}, HiddenWeights: []int{}},
	})
	require.NoError(t, err)
	// category 0 co-locates at node 1
	gc.SetNodeWeights(map[int][]int{1: {0}})

	eng, err := NewEngine(gc, Options{DisablePaths: true})
	require.NoError(t, err)

	bags, err := eng.RunFromNode(0, 0)
	require.NoError(t, err)

	require.Contains(t, bags, 1)
	assert.Equal(t, []int{10, 0, 1}, bags[1].Labels()[0].Values)
	// marking carries over and does not grow past 1
	assert.Equal(t, []int{20, 0, 1}, bags[2].Labels()[0].Values)
}

func TestNextBikeTariffRaisesCostAtBlockBoundary(t *testing.T) {
	// two bicycle edges of 1000s each: the second crosses the 1800s block
	// boundary and raises the fare to the second block
	gc := NewGraphCache()
	err := gc.SetGraph([]EdgeRecord{
		{U: 0, V: 1, Weights: []int{1000, 0}, HiddenWeights: []int{1000}},
		{U: 1, V: 2, Weights: []int{1000, 0}, HiddenWeights: []int{1000}},
	})
	require.NoError(t, err)

	eng, err := NewEngine(gc, Options{UpdateRuleName: RuleNextBikeTariff, DisablePaths: true})
	require.NoError(t, err)

	bags, err := eng.RunFromNode(0, 0)
	require.NoError(t, err)

	assert.Equal(t, []int{1000, 100}, bags[1].Labels()[0].Values)
	assert.Equal(t, []int{2000, 200}, bags[2].Labels()[0].Values)
}

func TestPersonalCarChargesDrivingEdgesOnly(t *testing.T) {
	// a driving edge followed by a walking edge
	gc := NewGraphCache()
	err := gc.SetGraph([]EdgeRecord{
		{U: 0, V: 1, Weights: []int{100, 0}, HiddenWeights: []int{100}},
		{U: 1, V: 2, Weights: []int{50, 0}, HiddenWeights: []int{0}},
	})
	require.NoError(t, err)

	eng, err := NewEngine(gc, Options{UpdateRuleName: RulePersonalCar, DisablePaths: true})
	require.NoError(t, err)

	bags, err := eng.RunFromNode(0, 0)
	require.NoError(t, err)

	assert.Equal(t, []int{100, 2}, bags[1].Labels()[0].Values)
	assert.Equal(t, []int{150, 2}, bags[2].Labels()[0].Values)
}

func TestQueryOneToMany(t *testing.T) {
	gc := NewGraphCache()
	err := gc.SetGraph([]EdgeRecord{
		{U: 0, V: 1, Weights: []int{30}, HiddenWeights: []int{}},
		{U: 1, V: 2, Weights: []int{40}, HiddenWeights: []int{}},
		{U: 0, V: 2, Weights: []int{100}, HiddenWeights: []int{}},
	})
	require.NoError(t, err)

	times, err := QueryOneToMany(gc, 0, []int{1, 2})
	require.NoError(t, err)
	assert.Equal(t, map[int]int{1: 30, 2: 70}, times)
}
