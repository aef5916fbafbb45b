// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package mlc

import (
	"math"

	"github.com/pkg/errors"
)

// EdgeRecord is the interchange form of a weighted edge. Weights are
// added component-wise to a label's value vector, HiddenWeights to its
// hidden vector. All records of a cache must share the same widths.
type EdgeRecord struct {
	U             int
	V             int
	Weights       []int
	HiddenWeights []int
}

type edge struct {
	to      int
	weights []int
	hidden  []int
}

// GraphCache holds an immutable adjacency representation, edges grouped
// by source node for O(1) outgoing iteration. Multiple searches may run
// concurrently over one cache since all engine state is per-run.
type GraphCache struct {
	adj         [][]edge
	nodeWeights map[int][]int
	numNodes    int
	numValues   int
	numHidden   int
}

// NewGraphCache returns an empty cache; call SetGraph before use
func NewGraphCache() *GraphCache {
	return &GraphCache{}
}

// SetGraph builds the adjacency arrays once from raw edge records. Node
// ids must be non-negative; the node count is inferred as the union of
// endpoints. Negative weights and inconsistent vector widths indicate an
// upstream pipeline bug and are rejected.
func (g *GraphCache) SetGraph(records []EdgeRecord) error {
	if len(records) == 0 {
		return errors.New("cannot build graph from zero edges")
	}

	g.numValues = len(records[0].Weights)
	g.numHidden = len(records[0].HiddenWeights)

	n := 0
	for _, r := range records {
		if r.U < 0 || r.V < 0 {
			return errors.Errorf("negative node id in edge (%d, %d)", r.U, r.V)
		}
		if r.U+1 > n {
			n = r.U + 1
		}
		if r.V+1 > n {
			n = r.V + 1
		}
	}

	if n > math.MaxInt32 {
		return errors.Errorf("graph with %d nodes exceeds the index width", n)
	}
	g.numNodes = n

	g.adj = make([][]edge, n)
	for _, r := range records {
		if len(r.Weights) != g.numValues || len(r.HiddenWeights) != g.numHidden {
			return errors.Errorf("edge (%d, %d) has inconsistent weight widths", r.U, r.V)
		}
		for _, w := range r.Weights {
			if w < 0 {
				return errors.Errorf("negative weight on edge (%d, %d)", r.U, r.V)
			}
		}
		for _, w := range r.HiddenWeights {
			if w < 0 {
				return errors.Errorf("negative hidden weight on edge (%d, %d)", r.U, r.V)
			}
		}
		g.adj[r.U] = append(g.adj[r.U], edge{to: r.V, weights: r.Weights, hidden: r.HiddenWeights})
	}

	return nil
}

// SetNodeWeights attaches a sparse node category-list table. Nodes absent
// from the map carry no categories.
func (g *GraphCache) SetNodeWeights(weights map[int][]int) {
	g.nodeWeights = weights
}

// ValidateNode checks that the id addresses a node of this graph
func (g *GraphCache) ValidateNode(id int) error {
	if id < 0 || id >= g.numNodes {
		return errors.Errorf("node id %d out of range [0, %d)", id, g.numNodes)
	}
	return nil
}

// NumNodes returns the inferred node count
func (g *GraphCache) NumNodes() int {
	return g.numNodes
}

// NumValues returns the value-vector width of the cache's edges
func (g *GraphCache) NumValues() int {
	return g.numValues
}

// NumHidden returns the hidden-vector width of the cache's edges
func (g *GraphCache) NumHidden() int {
	return g.numHidden
}

func (g *GraphCache) outgoing(node int) []edge {
	return g.adj[node]
}

func (g *GraphCache) categories(node int) []int {
	if g.nodeWeights == nil {
		return nil
	}
	return g.nodeWeights[node]
}
