// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package mcr

import (
	"sync"

	"github.com/mogottsch/mcr/mlc"
	"github.com/mogottsch/mcr/raptor"
	"golang.org/x/sync/errgroup"
)

// ComputeFootpaths derives stop-to-stop footpaths from the walking
// graph: for every pair of attached stops within maxSeconds of walking,
// a footpath with the walked time. The per-stop one-to-many queries run
// on a bounded worker pool over the shared read-only graph.
func ComputeFootpaths(data *OSMData, maxSeconds int, maxWorkers int) (raptor.Footpaths, error) {
	graph, err := buildWalkingGraph(data, 0)
	if err != nil {
		return nil, err
	}

	targets := make([]int, 0, len(data.Stops))
	stopByInternal := make(map[int]string, len(data.Stops))
	for _, m := range data.Stops {
		internal, ok := graph.entry.toInternal[m.NodeID]
		if !ok {
			continue
		}
		targets = append(targets, internal)
		stopByInternal[internal] = m.StopID
	}

	if maxWorkers <= 0 {
		maxWorkers = 1
	}

	var mu sync.Mutex
	footpaths := make(raptor.Footpaths, len(targets))

	group := &errgroup.Group{}
	group.SetLimit(maxWorkers)

	for _, source := range targets {
		source := source
		group.Go(func() error {
			times, err := mlc.QueryOneToMany(graph.cache, source, targets)
			if err != nil {
				return err
			}

			nearby := make(map[string]int)
			for target, seconds := range times {
				if target == source || seconds > maxSeconds {
					continue
				}
				nearby[stopByInternal[target]] = seconds
			}

			if len(nearby) > 0 {
				mu.Lock()
				footpaths[stopByInternal[source]] = nearby
				mu.Unlock()
			}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return footpaths, nil
}
