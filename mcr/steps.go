// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package mcr

import (
	"github.com/mogottsch/mcr/mlc"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Options configure how steps run. A nil PathManager disables path
// tracking throughout.
type Options struct {
	Log         *logrus.Logger
	PathManager *PathManager
	EnableLimit bool

	// number of POI categories counted in the value vector
	NumCategories int
}

func (o Options) disablePaths() bool {
	return o.PathManager == nil
}

// NewWalkingStep builds the MLC step over the walking graph
func NewWalkingStep(data *OSMData, opts Options) (Step, error) {
	graph, err := buildWalkingGraph(data, opts.NumCategories)
	if err != nil {
		return nil, err
	}

	engine, err := mlc.NewEngine(graph.cache, mlc.Options{
		DisablePaths: opts.disablePaths(),
		EnableLimit:  opts.EnableLimit,
	})
	if err != nil {
		return nil, err
	}

	return &mlcStep{
		name:        "walking",
		log:         opts.Log,
		engine:      engine,
		graph:       graph,
		pathManager: opts.PathManager,
		pathType:    PathWalking,
	}, nil
}

// NewBicycleStep builds the MLC step over the combined walking and
// cycling graph. Entry is restricted to nodes where a bicycle waits;
// exit labels have dismounted, so their riding clock is reset. cycling
// may be nil, riding on the walking network instead.
func NewBicycleStep(data *OSMData, cycling *Network, updateRule string, opts Options) (Step, error) {
	if updateRule == "" {
		return nil, errors.New("the bicycle step needs a named update rule")
	}

	graph, err := buildMultiModalGraph(data, cycling, AvgBikingSpeed, opts.NumCategories)
	if err != nil {
		return nil, err
	}

	engine, err := mlc.NewEngine(graph.cache, mlc.Options{
		UpdateRuleName: updateRule,
		DisablePaths:   opts.disablePaths(),
		EnableLimit:    opts.EnableLimit,
	})
	if err != nil {
		return nil, err
	}

	return &mlcStep{
		name:         "bicycle",
		log:          opts.Log,
		engine:       engine,
		graph:        graph,
		pathManager:  opts.PathManager,
		pathType:     PathCyclingWalking,
		validStart:   bicycleNodes(data.Nodes),
		afterConvert: resetModeTime,
	}, nil
}

// NewPersonalCarStep builds the MLC step over the combined walking and
// driving graph. The car is personal, so it can be entered anywhere.
// driving may be nil, driving on the walking network instead.
func NewPersonalCarStep(data *OSMData, driving *Network, opts Options) (Step, error) {
	graph, err := buildMultiModalGraph(data, driving, AvgDrivingSpeed, opts.NumCategories)
	if err != nil {
		return nil, err
	}

	engine, err := mlc.NewEngine(graph.cache, mlc.Options{
		UpdateRuleName: mlc.RulePersonalCar,
		DisablePaths:   opts.disablePaths(),
		EnableLimit:    opts.EnableLimit,
	})
	if err != nil {
		return nil, err
	}

	return &mlcStep{
		name:         "personal_car",
		log:          opts.Log,
		engine:       engine,
		graph:        graph,
		pathManager:  opts.PathManager,
		pathType:     PathDrivingWalking,
		afterConvert: resetModeTime,
	}, nil
}
