// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package mcr

import (
	"github.com/mogottsch/mcr/pareto"
	"golang.org/x/exp/slices"
)

// Bags is a bag dictionary keyed by external (OSM) node id. It is the
// currency the orchestrator and all steps trade in.
type Bags map[int64]*pareto.Bag

// CopyBags returns a deep copy
func CopyBags(bags Bags) Bags {
	ret := make(Bags, len(bags))
	for nodeID, bag := range bags {
		ret[nodeID] = bag.Copy()
	}
	return ret
}

// MergeBags merges every bag of src into dst, creating missing bags.
// Returns true iff any label was added.
func MergeBags(dst, src Bags) bool {
	added := false
	for nodeID, bag := range src {
		target, ok := dst[nodeID]
		if !ok {
			target = pareto.NewBag()
			dst[nodeID] = target
		}
		if target.Merge(bag) {
			added = true
		}
	}
	return added
}

// CountLabels sums the bag sizes over all nodes
func CountLabels(bags Bags) int {
	n := 0
	for _, bag := range bags {
		n += bag.Size()
	}
	return n
}

// NodeIDs returns the sorted node ids of the dictionary
func NodeIDs(bags Bags) []int64 {
	ids := make([]int64, 0, len(bags))
	for id := range bags {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
