// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package mlc

import (
	"container/heap"

	"github.com/mogottsch/mcr/pareto"
	"github.com/pkg/errors"
)

// Engine runs multi-label correcting searches over a graph cache. The
// cache is borrowed immutably; all working state is per-run, so one
// engine value may serve concurrent searches.
type Engine struct {
	gc           *GraphCache
	rule         UpdateRule
	disablePaths bool
	enableLimit  bool
}

// Options configure an Engine. UpdateRuleName is resolved at
// construction; an unknown name is fatal. EnableLimit activates the
// per-component pruning used when only the component-wise best per node
// matters. DisablePaths suppresses path accumulation.
type Options struct {
	UpdateRuleName string
	DisablePaths   bool
	EnableLimit    bool
}

// NewEngine builds an engine over the given cache
func NewEngine(gc *GraphCache, opts Options) (*Engine, error) {
	rule, err := ResolveRule(opts.UpdateRuleName)
	if err != nil {
		return nil, err
	}
	return &Engine{
		gc:           gc,
		rule:         rule,
		disablePaths: opts.DisablePaths,
		enableLimit:  opts.EnableLimit,
	}, nil
}

// RunFromNode runs the search from a single node at a single start time.
// The seed label has Values[0] = startTime and every other slot zero.
func (e *Engine) RunFromNode(node int, startTime int) (map[int]*pareto.Bag, error) {
	if err := e.gc.ValidateNode(node); err != nil {
		return nil, err
	}

	seed := pareto.NewLabel(e.gc.NumValues(), e.gc.NumHidden(), int64(node))
	seed.Values[0] = startTime
	if !e.disablePaths {
		seed.Path = []pareto.Token{pareto.NodeToken(int64(node))}
	}

	bag := pareto.NewBag()
	bag.Insert(seed)
	return e.run(map[int]*pareto.Bag{node: bag})
}

// RunWithBags runs the search seeded by a pre-built bag dictionary, the
// shape used for step-to-step chaining.
func (e *Engine) RunWithBags(input map[int]*pareto.Bag) (map[int]*pareto.Bag, error) {
	for node := range input {
		if err := e.gc.ValidateNode(node); err != nil {
			return nil, err
		}
	}

	seeds := make(map[int]*pareto.Bag, len(input))
	for node, bag := range input {
		seeds[node] = bag.Copy()
	}
	return e.run(seeds)
}

type limits struct {
	minima map[int][]int
}

func (lm *limits) prune(l *pareto.Label) bool {
	cur, ok := lm.minima[int(l.NodeID)]
	if !ok {
		cur = make([]int, len(l.Values))
		for i, v := range l.Values {
			cur[i] = v
		}
		lm.minima[int(l.NodeID)] = cur
		return false
	}

	improves := false
	for i, v := range l.Values {
		if v <= cur[i] {
			improves = true
		}
	}
	if !improves {
		return true
	}
	for i, v := range l.Values {
		if v < cur[i] {
			cur[i] = v
		}
	}
	return false
}

func (e *Engine) run(bags map[int]*pareto.Bag) (map[int]*pareto.Bag, error) {
	queue := &labelQueue{}
	heap.Init(queue)

	var lm *limits
	if e.enableLimit {
		lm = &limits{minima: make(map[int][]int)}
		for _, bag := range bags {
			for _, l := range bag.Labels() {
				lm.prune(l)
			}
		}
	}

	for _, bag := range bags {
		for _, l := range bag.Labels() {
			heap.Push(queue, &item{label: l})
		}
	}

	for queue.Len() > 0 {
		cur := heap.Pop(queue).(*item).label

		bag, ok := bags[int(cur.NodeID)]
		if !ok || !bag.Contains(cur) {
			// displaced by a dominating insertion since it was queued
			continue
		}

		for _, ed := range e.gc.outgoing(int(cur.NodeID)) {
			cand, err := e.relax(cur, ed)
			if err != nil {
				return nil, err
			}
			if cand == nil {
				continue
			}

			if lm != nil && lm.prune(cand) {
				continue
			}

			target, ok := bags[ed.to]
			if !ok {
				target = pareto.NewBag()
				bags[ed.to] = target
			}
			if target.Insert(cand) {
				heap.Push(queue, &item{label: cand})
			}
		}
	}

	return bags, nil
}

func (e *Engine) relax(cur *pareto.Label, ed edge) (*pareto.Label, error) {
	cand := cur.Copy()
	cand.NodeID = int64(ed.to)

	for i, w := range ed.weights {
		cand.Values[i] += w
	}
	for i, w := range ed.hidden {
		cand.Hidden[i] += w
	}
	if !e.disablePaths {
		cand.Path = append(cand.Path, pareto.NodeToken(int64(ed.to)))
	}

	if e.rule != nil && !e.rule(cand, ed.hidden) {
		return nil, nil
	}

	e.visitNode(cand, ed.to)
	return cand, nil
}

// visitNode applies the category-list hook: arriving at a node that
// co-locates POI categories marks the matching value slots. Marking
// saturates at 1 per category, so re-visits are no-ops.
func (e *Engine) visitNode(l *pareto.Label, node int) {
	for _, cat := range e.gc.categories(node) {
		idx := 2 + cat
		if idx < len(l.Values) && l.Values[idx] == 0 {
			l.Values[idx] = 1
		}
	}
}

// QueryOneToMany computes single-criterion shortest travel times from a
// source to a set of targets, using Values[0] only. Used by footpath
// precomputation.
func QueryOneToMany(gc *GraphCache, source int, targets []int) (map[int]int, error) {
	eng, err := NewEngine(gc, Options{DisablePaths: true, EnableLimit: true})
	if err != nil {
		return nil, err
	}

	bags, err := eng.RunFromNode(source, 0)
	if err != nil {
		return nil, err
	}

	ret := make(map[int]int, len(targets))
	for _, t := range targets {
		if err := gc.ValidateNode(t); err != nil {
			return nil, errors.Wrap(err, "one-to-many target")
		}
		bag, ok := bags[t]
		if !ok || bag.Size() == 0 {
			continue
		}
		best := bag.Labels()[0].Values[0]
		ret[t] = best
	}
	return ret, nil
}
