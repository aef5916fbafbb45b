// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package mcr

import (
	"math"

	"github.com/mogottsch/mcr/mlc"
	"github.com/pkg/errors"
	"golang.org/x/exp/slices"
)

// idSpace translates between external OSM node ids and the dense ids of
// one graph cache
type idSpace struct {
	toInternal   map[int64]int
	fromInternal map[int]int64
}

// modalGraph bundles a graph cache with its id translation. For
// multi-modal graphs entry translates into the vehicle copy and exit
// translates the walking copy back.
type modalGraph struct {
	cache *mlc.GraphCache
	entry idSpace
	exit  idSpace
}

func travelSeconds(length float64, speed float64) int {
	return int(math.Round(length / speed))
}

func sortedNodeIDs(nodes []Node) []int64 {
	ids := make([]int64, 0, len(nodes))
	for _, n := range nodes {
		ids = append(ids, n.ID)
	}
	slices.Sort(ids)
	return ids
}

// buildWalkingGraph builds the single-modal walking graph. The value
// width is 2 plus the POI category count; categories attach to the
// nodes that co-locate them.
func buildWalkingGraph(data *OSMData, numCategories int) (*modalGraph, error) {
	ids := sortedNodeIDs(data.Nodes)
	toInternal := make(map[int64]int, len(ids))
	fromInternal := make(map[int]int64, len(ids))
	for i, id := range ids {
		toInternal[id] = i
		fromInternal[i] = id
	}

	numValues := NumValues(numCategories)
	records := make([]mlc.EdgeRecord, 0, len(data.Edges))
	for _, e := range data.Edges {
		u, ok := toInternal[e.U]
		if !ok {
			return nil, errors.Errorf("edge references unknown node %d", e.U)
		}
		v, ok := toInternal[e.V]
		if !ok {
			return nil, errors.Errorf("edge references unknown node %d", e.V)
		}

		weights := make([]int, numValues)
		weights[valueTime] = travelSeconds(e.Length, AvgWalkingSpeed)
		records = append(records, mlc.EdgeRecord{
			U: u, V: v, Weights: weights, HiddenWeights: make([]int, numHidden),
		})
	}

	cache := mlc.NewGraphCache()
	if err := cache.SetGraph(records); err != nil {
		return nil, err
	}
	cache.SetNodeWeights(categoryTable(data.Nodes, toInternal))

	space := idSpace{toInternal: toInternal, fromInternal: fromInternal}
	return &modalGraph{cache: cache, entry: space, exit: space}, nil
}

// buildMultiModalGraph combines the walking street graph with a vehicle
// network at the given speed, linked by zero-cost dismount edges from
// every vehicle node to its walking twin. Vehicle edges meter their
// travel time into the hidden vehicle-time slot as well. The vehicle
// network may be nil, duplicating the walking network instead.
func buildMultiModalGraph(data *OSMData, vehicle *Network, speed float64, numCategories int) (*modalGraph, error) {
	if vehicle == nil {
		vehicle = &Network{Nodes: data.Nodes, Edges: data.Edges}
	}

	walkIDs := sortedNodeIDs(data.Nodes)
	n := len(walkIDs)

	// walking copy occupies [0, n), the vehicle copy [n, n+m)
	walkByOSM := make(map[int64]int, n)
	osmByWalk := make(map[int]int64, n)
	for i, id := range walkIDs {
		walkByOSM[id] = i
		osmByWalk[i] = id
	}

	vehicleIDs := sortedNodeIDs(vehicle.Nodes)
	vehicleByOSM := make(map[int64]int, len(vehicleIDs))
	for i, id := range vehicleIDs {
		vehicleByOSM[id] = n + i
	}

	numValues := NumValues(numCategories)
	records := make([]mlc.EdgeRecord, 0, len(data.Edges)+len(vehicle.Edges)+len(vehicleIDs))
	for _, e := range data.Edges {
		wu, ok := walkByOSM[e.U]
		if !ok {
			return nil, errors.Errorf("edge references unknown node %d", e.U)
		}
		wv, ok := walkByOSM[e.V]
		if !ok {
			return nil, errors.Errorf("edge references unknown node %d", e.V)
		}

		walkWeights := make([]int, numValues)
		walkWeights[valueTime] = travelSeconds(e.Length, AvgWalkingSpeed)
		records = append(records, mlc.EdgeRecord{
			U: wu, V: wv, Weights: walkWeights, HiddenWeights: make([]int, numHidden),
		})
	}

	for _, e := range vehicle.Edges {
		vu, ok := vehicleByOSM[e.U]
		if !ok {
			return nil, errors.Errorf("vehicle edge references unknown node %d", e.U)
		}
		vv, ok := vehicleByOSM[e.V]
		if !ok {
			return nil, errors.Errorf("vehicle edge references unknown node %d", e.V)
		}

		vehicleTime := travelSeconds(e.Length, speed)
		vehicleWeights := make([]int, numValues)
		vehicleWeights[valueTime] = vehicleTime
		vehicleHidden := make([]int, numHidden)
		vehicleHidden[hiddenModeTime] = vehicleTime
		records = append(records, mlc.EdgeRecord{
			U: vu, V: vv, Weights: vehicleWeights, HiddenWeights: vehicleHidden,
		})
	}

	// dismounting costs nothing and is possible at every vehicle node
	// that has a walking twin
	for _, id := range vehicleIDs {
		wi, ok := walkByOSM[id]
		if !ok {
			continue
		}
		records = append(records, mlc.EdgeRecord{
			U: vehicleByOSM[id], V: wi,
			Weights: make([]int, numValues), HiddenWeights: make([]int, numHidden),
		})
	}

	cache := mlc.NewGraphCache()
	if err := cache.SetGraph(records); err != nil {
		return nil, err
	}
	cache.SetNodeWeights(categoryTable(data.Nodes, walkByOSM))

	return &modalGraph{
		cache: cache,
		entry: idSpace{toInternal: vehicleByOSM},
		exit:  idSpace{fromInternal: osmByWalk},
	}, nil
}

func categoryTable(nodes []Node, toInternal map[int64]int) map[int][]int {
	table := make(map[int][]int)
	for _, node := range nodes {
		if len(node.Categories) == 0 {
			continue
		}
		if internal, ok := toInternal[node.ID]; ok {
			table[internal] = node.Categories
		}
	}
	return table
}

// bicycleNodes returns the set of nodes tagged as bicycle pickup
// locations
func bicycleNodes(nodes []Node) map[int64]struct{} {
	ret := make(map[int64]struct{})
	for _, n := range nodes {
		if n.HasBicycle {
			ret[n.ID] = struct{}{}
		}
	}
	return ret
}
