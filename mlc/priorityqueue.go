// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package mlc

import "github.com/mogottsch/mcr/pareto"

type item struct {
	label *pareto.Label
	index int
}

// A labelQueue implements heap.Interface over labels, keyed by the
// lexicographic order of (Values, Hidden)
type labelQueue struct {
	items []*item
}

func (pq labelQueue) Len() int { return len(pq.items) }

func (pq labelQueue) Less(i, j int) bool {
	return pq.items[i].label.Less(pq.items[j].label)
}

func (pq labelQueue) Swap(i, j int) {
	pq.items[i], pq.items[j] = pq.items[j], pq.items[i]
	pq.items[i].index = i
	pq.items[j].index = j
}

func (pq *labelQueue) Push(x interface{}) {
	it := x.(*item)
	it.index = len(pq.items)
	pq.items = append(pq.items, it)
}

func (pq *labelQueue) Pop() interface{} {
	old := pq.items
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	it.index = -1
	pq.items = old[0 : n-1]
	return it
}
